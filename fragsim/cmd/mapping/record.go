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

// Package mapping parses fragment-to-genome mapping results in BLAST8-like
// format, filters fragments and hits, and tallies hits per genome.
package mapping

import "fmt"

// Record is one aligned hit of a fragment against a target genome.
type Record struct {
	Fragment   string
	Target     string
	Identity   float64
	Matches    int
	Mismatches int
}

func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%g\t%d\t%d", r.Fragment, r.Target, r.Identity, r.Matches, r.Mismatches)
}

// FragmentIndex groups records by fragment ID.
// Fragments are kept in first-seen order,
// and records of a fragment are kept in input order.
type FragmentIndex struct {
	fragments []string
	groups    map[string][]Record
	nRecords  int
}

// NewFragmentIndex creates an empty FragmentIndex.
func NewFragmentIndex() *FragmentIndex {
	return &FragmentIndex{
		fragments: make([]string, 0, 1024),
		groups:    make(map[string][]Record, 1024),
	}
}

// Add appends a record to the group of its fragment.
func (idx *FragmentIndex) Add(r Record) {
	rs, ok := idx.groups[r.Fragment]
	if !ok {
		idx.fragments = append(idx.fragments, r.Fragment)
	}
	idx.groups[r.Fragment] = append(rs, r)
	idx.nRecords++
}

// set stores a whole group, used by the filter to build a sub-index.
func (idx *FragmentIndex) set(fragment string, rs []Record) {
	if _, ok := idx.groups[fragment]; !ok {
		idx.fragments = append(idx.fragments, fragment)
	}
	idx.nRecords += len(rs) - len(idx.groups[fragment])
	idx.groups[fragment] = rs
}

// Fragments returns fragment IDs in first-seen order.
// The returned slice should not be modified.
func (idx *FragmentIndex) Fragments() []string { return idx.fragments }

// Records returns records of a fragment, and false if the fragment is absent.
func (idx *FragmentIndex) Records(fragment string) ([]Record, bool) {
	rs, ok := idx.groups[fragment]
	return rs, ok
}

// NumFragments returns the number of distinct fragments.
func (idx *FragmentIndex) NumFragments() int { return len(idx.fragments) }

// NumRecords returns the total number of records.
func (idx *FragmentIndex) NumRecords() int { return idx.nRecords }

// Each calls fn for every record, fragment by fragment, in index order.
func (idx *FragmentIndex) Each(fn func(r Record)) {
	for _, f := range idx.fragments {
		for _, r := range idx.groups[f] {
			fn(r)
		}
	}
}
