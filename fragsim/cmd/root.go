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
	"fmt"
	"os"
	"time"

	"github.com/shenwei356/fragsim/fragsim/cmd/mapping"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fragsim",
	Short: "Genome similarity assessment from fragment mapping results",
	Long: fmt.Sprintf(`
    Program: fragsim (Genome similarity assessment from fragment mapping results)
    Version: v%s

fragsim counts how fragments (short reads or split genome pieces) distribute
across reference genomes they were mapped to, after removing ambiguous and
low-quality hits.

Input format (BLAST8-like, whitespace-delimited, fields after the 5th ignored):

    fragment  target  identity  matches  mismatches

Steps:
  1. Non-informative fragments, i.e., those hitting more than one distinct
     target, are removed. Use -r/--keep-noninformative to skip this step.
  2. Hits with identity < --id, matches < --matches or
     mismatches > --mismatches are removed, and so are fragments with no
     hits left.
  3. Hits are counted for each genome, and so are percentages of all hits.
     Genomes whose hits are all removed in step 2 are reported with 0 hits.

`, VERSION),
	Version: VERSION,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			checkError(cmd.Help())
			return
		}
		if len(args) > 1 {
			checkError(fmt.Errorf("only one mapping file is allowed, %d given", len(args)))
		}

		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		file := expandPath(args[0])
		outFile := expandPath(getFlagString(cmd, "out-file"))
		filteredFile := expandPath(getFlagString(cmd, "save-filtered"))
		summaryFile := expandPath(getFlagString(cmd, "save-summary"))
		nameMappingFiles := getFlagStringSlice(cmd, "name-map")

		fopt := getFilterOptions(cmd)

		if !isStdout(outFile) && sameFile(file, outFile) {
			checkError(fmt.Errorf("out file should not be the input file"))
		}

		if opt.Verbose || opt.Log2File {
			log.Infof("fragsim v%s", VERSION)
			log.Info()

			log.Infof("-------------------- [main parameters] --------------------")
			log.Infof("input: %s", file)
			log.Infof("remove non-informative fragments: %v", fopt.RemoveNonInformative)
			log.Infof("minimal identity: %v", fopt.MinIdentity)
			log.Infof("minimal matches: %d", fopt.MinMatches)
			log.Infof("maximal mismatches: %d", fopt.MaxMismatches)
			log.Infof("-------------------- [main parameters] --------------------")
			log.Info()
		}

		// ---------------------------------------------------------------
		// name mapping files

		namesMap := readNameMaps(opt, nameMappingFiles)

		// ---------------------------------------------------------------

		if opt.Verbose || opt.Log2File {
			log.Infof("parsing mapping file: %s", file)
		}
		idx, err := mapping.ParseFile(file)
		checkError(err)

		if opt.Verbose || opt.Log2File {
			log.Infof("  %d records of %d fragments parsed", idx.NumRecords(), idx.NumFragments())
			log.Info("filtering ...")
		}

		result := mapping.Filter(idx, fopt)
		tally := mapping.Aggregate(result.Index, result.Targets)

		if opt.Verbose || opt.Log2File {
			log.Infof("  %d hits of %d fragments left, %d genome(s) reported",
				tally.TotalHits, result.Index.NumFragments(), len(tally.Genomes))
		}

		// ---------------------------------------------------------------
		// output

		outfh, gw, w, err := outStream(outFile, isGzFile(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		rpt := &report{
			Idx:      idx,
			Result:   result,
			Tally:    tally,
			NamesMap: namesMap,
		}
		checkError(rpt.Write(outfh))
		checkError(outfh.Flush())

		if filteredFile != "" {
			if opt.Verbose || opt.Log2File {
				log.Infof("saving filtered records to: %s", filteredFile)
			}
			checkError(saveRecords(filteredFile, result.Index))
		}

		if summaryFile != "" {
			if opt.Verbose || opt.Log2File {
				log.Infof("saving summary to: %s", summaryFile)
			}
			checkError(saveSummary(summaryFile, newRunSummary(file, fopt, rpt)))
		}
	},
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolP("quiet", "q", false, "do not print any verbose information")
	RootCmd.PersistentFlags().StringP("log", "", "", "log file")

	addFilterFlags(RootCmd)

	// output
	RootCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))
	RootCmd.Flags().StringP("save-filtered", "O", "",
		formatFlagUsage(`Save filtered hits in input format, supports ".gz", ".xz" and ".zst" suffixes.`))
	RootCmd.Flags().StringP("save-summary", "s", "",
		formatFlagUsage(`Save a summary of parameters, counts and genome hits in YAML format.`))

	// name mapping
	RootCmd.Flags().StringSliceP("name-map", "N", []string{},
		formatFlagUsage(`Tabular two-column file(s) mapping genome IDs to genome names.`))

	RootCmd.SetUsageTemplate(usageTemplate("[--id I] [--matches M] [--mismatches m] [-r] [-p] [--print FRAGMENT] <mapping file>"))
}

func addFilterFlags(cmd *cobra.Command) {
	// filtering
	cmd.Flags().Float64P("id", "", 100,
		formatFlagUsage(`Minimal identity of hits.`))
	cmd.Flags().IntP("matches", "", 20,
		formatFlagUsage(`Minimal number of matches of hits.`))
	cmd.Flags().IntP("mismatches", "", 0,
		formatFlagUsage(`Maximal number of mismatches of hits.`))
	cmd.Flags().BoolP("keep-noninformative", "r", false,
		formatFlagUsage(`Do not remove non-informative fragments, i.e., those hitting more than one target.`))

	// printing
	cmd.Flags().BoolP("print-all", "p", false,
		formatFlagUsage(`Print all filtered hits.`))
	cmd.Flags().StringP("print", "", "",
		formatFlagUsage(`Print filtered hits of a single fragment.`))
}

func getFilterOptions(cmd *cobra.Command) mapping.FilterOptions {
	return mapping.FilterOptions{
		RemoveNonInformative: !getFlagBool(cmd, "keep-noninformative"),
		MinIdentity:          getFlagFloat64(cmd, "id"),
		MinMatches:           getFlagInt(cmd, "matches"),
		MaxMismatches:        getFlagInt(cmd, "mismatches"),
		DumpFragment:         getFlagString(cmd, "print"),
		ListAll:              getFlagBool(cmd, "print-all"),
	}
}
