// Package runsapp lists and prints evaluations kept in a results database.
package runsapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"rnaroc/internal/clibase"
	"rnaroc/internal/cliutil"
	"rnaroc/internal/output"
	"rnaroc/internal/store"
	"rnaroc/internal/version"
	"rnaroc/internal/writers"
)

// Options holds rnaroc-runs flags.
type Options struct {
	clibase.Common

	Limit int
	Show  []string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "browse stored windowed-AUROC runs", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  %s --db runs.db [--limit N]\n", name)
		fmt.Fprintf(out, "  %s --db runs.db --show RUN_ID [--show RUN_ID ...]\n", name)
		fmt.Fprintf(out, "  %s RUN_ID ... --db runs.db\n", name)

		fmt.Fprintln(out, "\nRuns:")
		fmt.Fprintf(out, "      --limit int             Most recent runs to list (0=all) [%s]\n", def("limit"))
		fmt.Fprintln(out, "      --show id               Print the per-position scores of a run (repeatable)")
	})
	return fs
}

type stringSlice []string

func (s *stringSlice) String() string     { return fmt.Sprint(*s) }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	noHeader := clibase.Register(fs, &opt.Common)
	fs.IntVar(&opt.Limit, "limit", 20, "most recent runs to list [20]")
	show := &stringSlice{}
	fs.Var(show, "show", "run ID to print (repeatable)")
	fs.BoolVar(&help, "h", false, "show this help message [false]")
	fs.BoolVar(&help, "help", false, "show this help message [false]")

	flagArgs, runIDs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if opt.Examples {
		return opt, clibase.ErrPrintedAndExitOK
	}
	if err := clibase.AfterParse(&opt.Common, noHeader); err != nil {
		return opt, err
	}
	opt.Show = append(opt.Show, *show...)
	opt.Show = append(opt.Show, runIDs...)
	if opt.DB == "" {
		return opt, errors.New("--db is required")
	}
	if opt.Limit < 0 {
		return opt, errors.New("--limit must be ≥ 0")
	}
	return opt, nil
}

var examples = []clibase.Example{
	{What: "the 20 most recent runs", Command: "rnaroc-runs --db runs.db"},
	{What: "one run's scores as JSON", Command: "rnaroc-runs 6f1c... --db runs.db -o json"},
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := NewFlagSet("rnaroc-runs")
	fs.SetOutput(io.Discard)

	opts, err := ParseArgs(fs, argv)
	if err != nil {
		code := 2
		switch {
		case errors.Is(err, flag.ErrHelp):
			code = 0
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, "rnaroc-runs", examples)
			return writers.Flush(outw, stderr, 0)
		default:
			_, _ = fmt.Fprintln(stderr, err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		return writers.Flush(outw, stderr, code)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "rnaroc-runs version %s\n", version.Version)
		return writers.Flush(outw, stderr, 0)
	}

	db, err := store.Open(opts.DB)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %s: %v\n", opts.DB, err)
		return 3
	}
	defer func() { _ = db.Close() }()

	if len(opts.Show) == 0 {
		list, err := db.ListRuns(ctx, opts.Limit)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		if err := output.WriteRuns(outw, opts.Output, list, opts.Header); err != nil {
			return writers.ExitCode(err, stderr, 0)
		}
		return writers.Flush(outw, stderr, 0)
	}

	recs := make([]output.Record, 0, len(opts.Show))
	for _, id := range opts.Show {
		r, err := db.GetRun(ctx, id)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			if errors.Is(err, store.ErrNotFound) {
				return 2
			}
			return 3
		}
		recs = append(recs, output.FromStoredRun(r))
	}
	if opts.Sort {
		output.SortRecords(recs)
	}
	if err := writers.WriteBatch(opts.Output, outw, recs, opts.Header); err != nil {
		return writers.ExitCode(err, stderr, 0)
	}
	return writers.Flush(outw, stderr, 0)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
