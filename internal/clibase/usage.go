// internal/clibase/usage.go
package clibase

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"rnaroc/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections before the shared output block.
func UsageCommon(fs *flag.FlagSet, name, tagline string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s - %s\n\n", name, tagline)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Output: text | json | jsonl [%s]\n", def("output"))
		fmt.Fprintf(out, "      --sort                  Sort outputs by sample name [%s]\n", def("sort"))
		fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
		fmt.Fprintln(out, "      --db path               SQLite results database")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}

// ErrPrintedAndExitOK is returned by ParseArgs for --examples; the app prints
// its examples and exits 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// Example is one annotated command line for --examples.
type Example struct {
	What    string
	Command string
}

// PrintExamples prints each example as a comment line and the command.
func PrintExamples(out io.Writer, name string, examples []Example) {
	fmt.Fprintf(out, "%s examples\n", name)
	for _, ex := range examples {
		fmt.Fprintf(out, "\n  # %s\n  %s\n", ex.What, ex.Command)
	}
	fmt.Fprintf(out, "\nRun %s --help for all flags.\n", name)
}
