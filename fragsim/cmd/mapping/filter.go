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

// FilterOptions contains the criteria of the hit filter.
type FilterOptions struct {
	// remove fragments hitting more than one target
	RemoveNonInformative bool

	MinIdentity   float64
	MinMatches    int
	MaxMismatches int

	// return surviving records of this fragment, if it survives
	DumpFragment string
	// return all surviving records
	ListAll bool
}

// DefaultFilterOptions returns the default criteria:
// perfect identity, at least 20 matches and no mismatch.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		RemoveNonInformative: true,
		MinIdentity:          100,
		MinMatches:           20,
		MaxMismatches:        0,
	}
}

// Pass tells whether a record meets the quality thresholds.
func (o *FilterOptions) Pass(r *Record) bool {
	return r.Identity >= o.MinIdentity &&
		r.Matches >= o.MinMatches &&
		r.Mismatches <= o.MaxMismatches
}

// FilterResult is the output of Filter.
type FilterResult struct {
	Index *FragmentIndex

	// distinct targets of records entering the quality pass, in first-seen order
	Targets []string

	NumInput       int // fragments before filtering
	NumInformative int // fragments after the informativeness pass

	// observational outputs
	Dump    []Record // nil if not requested or the fragment was filtered out
	Listing []Record // nil unless FilterOptions.ListAll
}

// RemovedNonInformative returns the number of fragments removed by the
// informativeness pass.
func (r *FilterResult) RemovedNonInformative() int {
	return r.NumInput - r.NumInformative
}

// RemovedLowQuality returns the number of fragments removed by the quality pass.
func (r *FilterResult) RemovedLowQuality() int {
	return r.NumInformative - r.Index.NumFragments()
}

// Filter removes non-informative fragments, i.e., those hitting more than one
// distinct target, and then records failing the quality thresholds.
// Fragments with no records left are dropped. idx is not modified.
func Filter(idx *FragmentIndex, opt FilterOptions) *FilterResult {
	result := &FilterResult{
		Index:    NewFragmentIndex(),
		NumInput: idx.NumFragments(),
	}

	informative := idx.Fragments()
	if opt.RemoveNonInformative {
		informative = make([]string, 0, idx.NumFragments())
		for _, f := range idx.Fragments() {
			rs, _ := idx.Records(f)
			if singleTarget(rs) {
				informative = append(informative, f)
			}
		}
	}
	result.NumInformative = len(informative)

	seen := make(map[string]struct{}, 64)
	result.Targets = make([]string, 0, 64)

	var kept []Record
	for _, f := range informative {
		rs, _ := idx.Records(f)

		kept = nil
		for i := range rs {
			if _, ok := seen[rs[i].Target]; !ok {
				seen[rs[i].Target] = struct{}{}
				result.Targets = append(result.Targets, rs[i].Target)
			}

			if opt.Pass(&rs[i]) {
				kept = append(kept, rs[i])
			}
		}
		if len(kept) > 0 {
			result.Index.set(f, kept)
		}
	}

	if opt.DumpFragment != "" {
		if rs, ok := result.Index.Records(opt.DumpFragment); ok {
			result.Dump = rs
		}
	}

	if opt.ListAll {
		result.Listing = make([]Record, 0, result.Index.NumRecords())
		result.Index.Each(func(r Record) {
			result.Listing = append(result.Listing, r)
		})
	}

	return result
}

func singleTarget(rs []Record) bool {
	if len(rs) == 0 {
		return false
	}
	t := rs[0].Target
	for _, r := range rs[1:] {
		if r.Target != t {
			return false
		}
	}
	return true
}
