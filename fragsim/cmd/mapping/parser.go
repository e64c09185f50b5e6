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
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
)

// NumFields is the minimal number of fields of a mapping record:
// fragment, target, identity, matches, mismatches.
const NumFields = 5

// ErrMalformedRecord means a line could not be parsed into a Record.
var ErrMalformedRecord = errors.New("malformed mapping record")

// ErrInputNotFound means the mapping file does not exist.
var ErrInputNotFound = errors.New("mapping file not found")

// ParseError describes a malformed line.
type ParseError struct {
	Line  int    // 1-based line number
	Field string // name of the bad field, empty for a bad field count
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Err, e.Value)
	}
	return fmt.Sprintf("line %d: invalid %s: %q: %s", e.Line, e.Field, e.Value, e.Err)
}

// Unwrap makes errors.Is(err, ErrMalformedRecord) work.
func (e *ParseError) Unwrap() error { return ErrMalformedRecord }

// Cause is for github.com/pkg/errors.
func (e *ParseError) Cause() error { return ErrMalformedRecord }

// ParseFile parses a mapping file, which could be plain text or compressed
// (gzip, xz, zstd, bzip2). "-" means stdin.
func ParseFile(file string) (*FragmentIndex, error) {
	if file != "-" {
		existed, err := pathutil.Exists(file)
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
		if !existed {
			return nil, errors.Wrap(ErrInputNotFound, file)
		}
	}

	fh, err := xopen.Ropen(file)
	if err == xopen.ErrNoContent {
		return NewFragmentIndex(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	defer fh.Close()

	idx, err := Parse(fh)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return idx, nil
}

// Parse reads mapping records from r and groups them by fragment.
// Blank lines are skipped, and every other line must be a valid record.
// It stops at the first malformed line.
func Parse(r io.Reader) (*FragmentIndex, error) {
	idx := NewFragmentIndex()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 65536), 1<<30)

	var line string
	var n int
	for scanner.Scan() {
		n++
		line = strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, err := parseRecord(line, n)
		if err != nil {
			return nil, err
		}
		idx.Add(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read mapping records")
	}

	return idx, nil
}

func parseRecord(line string, n int) (Record, error) {
	var rec Record

	items := strings.Fields(line)
	if len(items) < NumFields {
		return rec, &ParseError{
			Line:  n,
			Value: line,
			Err:   fmt.Errorf("number of fields (%d) < %d", len(items), NumFields),
		}
	}

	rec.Fragment = items[0]
	rec.Target = items[1]

	var err error
	rec.Identity, err = strconv.ParseFloat(items[2], 64)
	if err != nil {
		return rec, &ParseError{Line: n, Field: "identity", Value: items[2], Err: numError(err)}
	}
	if math.IsNaN(rec.Identity) || rec.Identity < 0 || rec.Identity > 100 {
		return rec, &ParseError{Line: n, Field: "identity", Value: items[2], Err: errors.New("out of range [0, 100]")}
	}

	rec.Matches, err = parseCount(items[3])
	if err != nil {
		return rec, &ParseError{Line: n, Field: "matches", Value: items[3], Err: err}
	}

	rec.Mismatches, err = parseCount(items[4])
	if err != nil {
		return rec, &ParseError{Line: n, Field: "mismatches", Value: items[4], Err: err}
	}

	return rec, nil
}

func parseCount(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, numError(err)
	}
	if v < 0 {
		return 0, errors.New("negative value")
	}
	return v, nil
}

// numError strips the verbose prefix of *strconv.NumError.
func numError(err error) error {
	if e, ok := err.(*strconv.NumError); ok {
		return e.Err
	}
	return err
}
