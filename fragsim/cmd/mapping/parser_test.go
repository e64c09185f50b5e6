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
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMappings = `frag1	genomeA	100.00	25	0
frag2	genomeA	98.5	30	1
frag1	genomeA	100	22	0

frag3	genomeB	100	40	0	extra	columns
frag2	genomeB	100	30	0
`

func TestParse(t *testing.T) {
	idx, err := Parse(strings.NewReader(testMappings))
	require.NoError(t, err)

	assert.Equal(t, 3, idx.NumFragments())
	assert.Equal(t, 5, idx.NumRecords())
	assert.Equal(t, []string{"frag1", "frag2", "frag3"}, idx.Fragments())

	counts := map[string]int{"frag1": 2, "frag2": 2, "frag3": 1}
	for _, f := range idx.Fragments() {
		rs, ok := idx.Records(f)
		require.True(t, ok)
		assert.Len(t, rs, counts[f])
		for _, r := range rs {
			assert.Equal(t, f, r.Fragment)
		}
	}

	rs, _ := idx.Records("frag1")
	assert.Equal(t, Record{"frag1", "genomeA", 100, 25, 0}, rs[0])
	assert.Equal(t, Record{"frag1", "genomeA", 100, 22, 0}, rs[1])

	rs, _ = idx.Records("frag2")
	assert.Equal(t, "genomeA", rs[0].Target)
	assert.Equal(t, 98.5, rs[0].Identity)
	assert.Equal(t, "genomeB", rs[1].Target)

	_, ok := idx.Records("frag4")
	assert.False(t, ok)
}

func TestParseHashPrefixedFragment(t *testing.T) {
	idx, err := Parse(strings.NewReader("#frag1 G1 100 25 0\nF2 G1 100 25 0\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"#frag1", "F2"}, idx.Fragments())
	assert.Equal(t, 2, idx.NumRecords())
}

func TestParseEmpty(t *testing.T) {
	idx, err := Parse(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx.NumFragments())
	assert.Equal(t, 0, idx.NumRecords())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		field string
	}{
		{"too few fields", "frag1\tgenomeA\t100\n", 1, ""},
		{"bad identity", "frag1 genomeA 100 20 0\nfrag2 genomeA abc 20 0\n", 2, "identity"},
		{"identity out of range", "frag1 genomeA 100.5 20 0\n", 1, "identity"},
		{"identity NaN", "frag1 genomeA NaN 20 0\n", 1, "identity"},
		{"comment line", "frag1 genomeA 100 20 0\n# comment\n", 2, ""},
		{"comment line with 5 fields", "# BLASTN 2.2.31+ 1 x\n", 1, "identity"},
		{"bad matches", "frag1 genomeA 100 2.5 0\n", 1, "matches"},
		{"negative matches", "frag1 genomeA 100 -1 0\n", 1, "matches"},
		{"bad mismatches", "frag1 genomeA 100 20 x\n", 1, "mismatches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Parse(strings.NewReader(tt.input))
			assert.Nil(t, idx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.field, perr.Field)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "mappings.blast8")
	require.NoError(t, os.WriteFile(file, []byte(testMappings), 0644))

	idx, err := ParseFile(file)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.NumFragments())
	assert.Equal(t, 5, idx.NumRecords())

	gzFile := filepath.Join(dir, "mappings.blast8.gz")
	fh, err := os.Create(gzFile)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(testMappings))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	idx, err = ParseFile(gzFile)
	require.NoError(t, err)
	assert.Equal(t, 5, idx.NumRecords())

	_, err = ParseFile(filepath.Join(dir, "missing.blast8"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))

	bad := filepath.Join(dir, "bad.blast8")
	require.NoError(t, os.WriteFile(bad, []byte("frag1 genomeA 100\n"), 0644))
	_, err = ParseFile(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Contains(t, err.Error(), bad)
}

func TestParseFileEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "empty.blast8")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	idx, err := ParseFile(file)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.NumFragments())
}
