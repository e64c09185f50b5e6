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

package cmd

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenwei356/fragsim/fragsim/cmd/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const testMappings = `F1	G1	100	25	0
F1	G1	100	30	0
F2	G2	100	10	0
F3	G1	100	25	0
F3	G2	100	25	0
F4	G3	100	21	0
`

func newTestReport(t *testing.T, opt mapping.FilterOptions, namesMap map[string]string) *report {
	idx, err := mapping.Parse(strings.NewReader(testMappings))
	require.NoError(t, err)
	result := mapping.Filter(idx, opt)
	return &report{
		Idx:      idx,
		Result:   result,
		Tally:    mapping.Aggregate(result.Index, result.Targets),
		NamesMap: namesMap,
	}
}

func TestReportWrite(t *testing.T) {
	opt := mapping.DefaultFilterOptions()
	rpt := newTestReport(t, opt, nil)

	var buf bytes.Buffer
	require.NoError(t, rpt.Write(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.True(t, len(lines) > 5)
	assert.Equal(t, "Found 4 matched fragments with 6 total matches.", lines[0])
	assert.Equal(t, "Removed 1 non-informative fragments. 3 fragments remain.", lines[1])
	assert.Equal(t, "Filtered 1 fragments based on criteria. 2 fragments remain.", lines[2])

	out := buf.String()
	assert.Contains(t, out, "percentage")
	assert.Contains(t, out, "66.6667")
	assert.Contains(t, out, "33.3333")
	assert.Contains(t, out, "Total hits: 3")
	assert.NotContains(t, out, "mismatches")

	// G1: 2 hits, G3: 1 hit, G2: 0 hit
	iG1 := strings.Index(out, "G1 ")
	iG3 := strings.Index(out, "G3 ")
	iG2 := strings.Index(out, "G2 ")
	require.True(t, iG1 > 0 && iG2 > 0 && iG3 > 0)
	assert.True(t, iG1 < iG3)
	assert.True(t, iG3 < iG2)
}

func TestReportWritePrint(t *testing.T) {
	opt := mapping.DefaultFilterOptions()
	opt.DumpFragment = "F4"
	opt.ListAll = true
	rpt := newTestReport(t, opt, map[string]string{"G1": "Streptococcus pneumoniae"})

	var buf bytes.Buffer
	require.NoError(t, rpt.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, "Hits of fragment F4:")
	assert.Equal(t, 2, strings.Count(out, "mismatches"))
	assert.Contains(t, out, "Streptococcus pneumoniae")
	assert.Contains(t, out, "name")

	// absent fragment
	opt.DumpFragment = "F9"
	rpt = newTestReport(t, opt, nil)
	buf.Reset()
	require.NoError(t, rpt.Write(&buf))
	assert.NotContains(t, buf.String(), "Hits of fragment")
}

func TestReportWriteEmpty(t *testing.T) {
	opt := mapping.DefaultFilterOptions()
	opt.MinIdentity = 100.5
	rpt := newTestReport(t, opt, nil)
	assert.Equal(t, 0, rpt.Tally.TotalHits)

	var buf bytes.Buffer
	require.NoError(t, rpt.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "0.0000")
	assert.NotContains(t, out, "NaN")
	assert.Contains(t, out, "Total hits: 0")
}

func TestSaveRecords(t *testing.T) {
	rpt := newTestReport(t, mapping.DefaultFilterOptions(), nil)

	file := filepath.Join(t.TempDir(), "filtered.tsv.gz")
	require.NoError(t, saveRecords(file, rpt.Result.Index))

	fh, err := os.Open(file)
	require.NoError(t, err)
	defer fh.Close()
	gr, err := gzip.NewReader(fh)
	require.NoError(t, err)
	data, err := io.ReadAll(gr)
	require.NoError(t, err)

	assert.Equal(t, "F1\tG1\t100\t25\t0\nF1\tG1\t100\t30\t0\nF4\tG3\t100\t21\t0\n", string(data))

	// saved records could be parsed again
	idx, err := mapping.ParseFile(file)
	require.NoError(t, err)
	assert.Equal(t, rpt.Result.Index.NumRecords(), idx.NumRecords())
}

func TestSaveSummary(t *testing.T) {
	opt := mapping.DefaultFilterOptions()
	rpt := newTestReport(t, opt, nil)

	file := filepath.Join(t.TempDir(), "summary.yaml")
	require.NoError(t, saveSummary(file, newRunSummary("test.blast8", opt, rpt)))

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var s runSummary
	require.NoError(t, yaml.Unmarshal(data, &s))
	assert.Equal(t, "test.blast8", s.Input)
	assert.Equal(t, 4, s.Fragments)
	assert.Equal(t, 6, s.Records)
	assert.Equal(t, 1, s.RemovedNonInformative)
	assert.Equal(t, 1, s.RemovedLowQuality)
	assert.Equal(t, 3, s.FilteredRecords)
	assert.Equal(t, 20, s.Parameters.MinMatches)
	require.NotNil(t, s.Tally)
	assert.Equal(t, 3, s.Tally.TotalHits)
	require.Len(t, s.Tally.Genomes, 3)
	assert.Equal(t, "G1", s.Tally.Genomes[0].Genome)
	assert.Equal(t, 2, s.Tally.Genomes[0].Hits)
}
