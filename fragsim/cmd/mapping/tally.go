// Copyright © 2026 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package mapping

import (
	"github.com/twotwotwo/sorts"
)

// GenomeHits is the number of surviving hits of a genome.
type GenomeHits struct {
	Genome     string  `yaml:"genome"`
	Hits       int     `yaml:"hits"`
	Percentage float64 `yaml:"percentage"`
}

// Tally is the per-genome summary of a filtered index,
// sorted by hits in descending order, then genome IDs.
type Tally struct {
	Genomes   []*GenomeHits `yaml:"genomes"`
	TotalHits int           `yaml:"total-hits"`
}

type genomeHitsList []*GenomeHits

func (l genomeHitsList) Len() int { return len(l) }
func (l genomeHitsList) Less(i, j int) bool {
	if l[i].Hits == l[j].Hits {
		return l[i].Genome < l[j].Genome
	}
	return l[i].Hits > l[j].Hits
}
func (l genomeHitsList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Aggregate counts hits of every genome in a filtered index.
// Every genome in targets is reported, even with zero hits.
// Percentages are 0 when there is no hit at all.
func Aggregate(filtered *FragmentIndex, targets []string) *Tally {
	m := make(map[string]*GenomeHits, len(targets))
	list := make([]*GenomeHits, 0, len(targets))
	for _, t := range targets {
		if _, ok := m[t]; ok {
			continue
		}
		g := &GenomeHits{Genome: t}
		m[t] = g
		list = append(list, g)
	}

	var total int
	filtered.Each(func(r Record) {
		g, ok := m[r.Target]
		if !ok {
			g = &GenomeHits{Genome: r.Target}
			m[r.Target] = g
			list = append(list, g)
		}
		g.Hits++
		total++
	})

	if total > 0 {
		t := float64(total)
		for _, g := range list {
			g.Percentage = 100 * float64(g.Hits) / t
		}
	}

	sorts.Quicksort(genomeHitsList(list))

	return &Tally{Genomes: list, TotalHits: total}
}
