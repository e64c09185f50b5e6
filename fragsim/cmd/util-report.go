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
	"fmt"
	"io"
	"strconv"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/fragsim/fragsim/cmd/mapping"
	prettytable "github.com/tatsushid/go-prettytable"
)

// report is the console output of a run.
type report struct {
	Idx    *mapping.FragmentIndex
	Result *mapping.FilterResult
	Tally  *mapping.Tally

	// genome ID -> name, optional
	NamesMap map[string]string
}

// Write outputs, in order: stage summaries, the optional single-fragment dump,
// the optional listing of all filtered hits, and the genome table.
func (rpt *report) Write(w io.Writer) error {
	var err error
	result := rpt.Result

	_, err = fmt.Fprintf(w, "Found %s matched fragments with %s total matches.\n",
		humanize.Comma(int64(rpt.Idx.NumFragments())), humanize.Comma(int64(rpt.Idx.NumRecords())))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Removed %s non-informative fragments. %s fragments remain.\n",
		humanize.Comma(int64(result.RemovedNonInformative())), humanize.Comma(int64(result.NumInformative)))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Filtered %s fragments based on criteria. %s fragments remain.\n",
		humanize.Comma(int64(result.RemovedLowQuality())), humanize.Comma(int64(result.Index.NumFragments())))
	if err != nil {
		return err
	}

	if result.Dump != nil {
		if _, err = fmt.Fprintf(w, "\nHits of fragment %s:\n", result.Dump[0].Fragment); err != nil {
			return err
		}
		if err = writeRecords(w, result.Dump); err != nil {
			return err
		}
	}

	if result.Listing != nil {
		if _, err = fmt.Fprintln(w); err != nil {
			return err
		}
		if err = writeRecords(w, result.Listing); err != nil {
			return err
		}
	}

	if _, err = fmt.Fprintln(w); err != nil {
		return err
	}
	return writeTally(w, rpt.Tally, rpt.NamesMap)
}

func writeRecords(w io.Writer, records []mapping.Record) error {
	tbl, err := prettytable.NewTable([]prettytable.Column{
		{Header: "fragment"},
		{Header: "target"},
		{Header: "identity", AlignRight: true},
		{Header: "matches", AlignRight: true},
		{Header: "mismatches", AlignRight: true},
	}...)
	if err != nil {
		return err
	}
	tbl.Separator = "  "

	for _, r := range records {
		err = tbl.AddRow(r.Fragment, r.Target,
			strconv.FormatFloat(r.Identity, 'f', -1, 64), r.Matches, r.Mismatches)
		if err != nil {
			return err
		}
	}
	_, err = w.Write(tbl.Bytes())
	return err
}

func writeTally(w io.Writer, tally *mapping.Tally, namesMap map[string]string) error {
	columns := []prettytable.Column{{Header: "genome"}}
	if namesMap != nil {
		columns = append(columns, prettytable.Column{Header: "name"})
	}
	columns = append(columns, []prettytable.Column{
		{Header: "hits", AlignRight: true},
		{Header: "percentage", AlignRight: true},
	}...)

	tbl, err := prettytable.NewTable(columns...)
	if err != nil {
		return err
	}
	tbl.Separator = "  "

	row := make([]interface{}, 0, len(columns))
	for _, g := range tally.Genomes {
		row = row[:0]
		row = append(row, g.Genome)
		if namesMap != nil {
			row = append(row, namesMap[g.Genome])
		}
		row = append(row, g.Hits, fmt.Sprintf("%.4f", g.Percentage))
		if err = tbl.AddRow(row...); err != nil {
			return err
		}
	}
	if _, err = w.Write(tbl.Bytes()); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\nTotal hits: %s\n", humanize.Comma(int64(tally.TotalHits)))
	return err
}

// runSummary is saved in YAML format.
type runSummary struct {
	Version string `yaml:"version"`
	Input   string `yaml:"input"`

	Parameters summaryParameters `yaml:"parameters"`

	Fragments             int `yaml:"fragments"`
	Records               int `yaml:"records"`
	RemovedNonInformative int `yaml:"removed-non-informative"`
	RemovedLowQuality     int `yaml:"removed-low-quality"`
	FilteredFragments     int `yaml:"filtered-fragments"`
	FilteredRecords       int `yaml:"filtered-records"`

	Tally *mapping.Tally `yaml:"tally"`
}

type summaryParameters struct {
	RemoveNonInformative bool    `yaml:"remove-non-informative"`
	MinIdentity          float64 `yaml:"min-identity"`
	MinMatches           int     `yaml:"min-matches"`
	MaxMismatches        int     `yaml:"max-mismatches"`
}

func newRunSummary(file string, opt mapping.FilterOptions, rpt *report) *runSummary {
	return &runSummary{
		Version: VERSION,
		Input:   file,
		Parameters: summaryParameters{
			RemoveNonInformative: opt.RemoveNonInformative,
			MinIdentity:          opt.MinIdentity,
			MinMatches:           opt.MinMatches,
			MaxMismatches:        opt.MaxMismatches,
		},
		Fragments:             rpt.Idx.NumFragments(),
		Records:               rpt.Idx.NumRecords(),
		RemovedNonInformative: rpt.Result.RemovedNonInformative(),
		RemovedLowQuality:     rpt.Result.RemovedLowQuality(),
		FilteredFragments:     rpt.Result.Index.NumFragments(),
		FilteredRecords:       rpt.Result.Index.NumRecords(),
		Tally:                 rpt.Tally,
	}
}
