// Copyright © 2020-2026 Wei Shen <shenwei356@gmail.com>
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
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/cliutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// VERSION of fragsim
const VERSION = "0.1.0"

// Options contains the global flags
type Options struct {
	Verbose bool

	LogFile  string
	Log2File bool

	CompressionLevel int
}

func getOptions(cmd *cobra.Command) *Options {
	// everything runs in a single thread
	sorts.MaxProcs = 1

	logfile := expandPath(getFlagString(cmd, "log"))
	return &Options{
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		CompressionLevel: -1,
	}
}

// expandPath expands the leading "~" of a path.
func expandPath(file string) string {
	if file == "" || isStdin(file) {
		return file
	}
	_file, err := homedir.Expand(file)
	checkError(errors.Wrap(err, file))
	return _file
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func isGzFile(file string) bool {
	return strings.HasSuffix(strings.ToLower(file), ".gz")
}

// readNameMaps reads tabular two-column files mapping genome IDs to names.
// Values in later files override those in earlier ones.
func readNameMaps(opt *Options, files []string) map[string]string {
	if len(files) == 0 {
		return nil
	}

	if opt.Verbose || opt.Log2File {
		log.Infof("loading name mapping file ...")
	}

	namesMap := make(map[string]string, 1024)
	for _, file := range files {
		file = expandPath(file)
		_namesMap, err := cliutil.ReadKVs(file, false)
		if err != nil {
			checkError(errors.Wrap(err, file))
		}
		for _k, _v := range _namesMap {
			namesMap[_k] = _v
		}
	}

	if opt.Verbose || opt.Log2File {
		log.Infof("  %d pairs of name mapping values from %d file(s) loaded", len(namesMap), len(files))
		log.Info()
	}

	return namesMap
}
