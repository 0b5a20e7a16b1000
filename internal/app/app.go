// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"rnaroc/internal/appcore"
	"rnaroc/internal/cli"
	"rnaroc/internal/clibase"
	"rnaroc/internal/version"
	"rnaroc/internal/visitors"
	"rnaroc/internal/writers"
)

var examples = []clibase.Example{
	{What: "one profile against one structure, 81 nt windows", Command: "rnaroc --profile wt_profile.txt --structure wt.ct"},
	{What: ".map input, 51 nt windows, print positions 100-200 only", Command: "rnaroc -p wt.map -s wt.dbn --pad 25 --region 100-200"},
	{What: "raw ShapeMapper reactivities, normalized per nucleotide group first", Command: "rnaroc -p wt_profile.txt -s wt.ct --column Reactivity_profile --normalize DMS"},
	{What: "a batch from a manifest (name profile structure [pad]) as JSON, kept in a database", Command: "rnaroc --samples samples.tsv -o json --sort --db runs.db"},
	{What: "inline samples", Command: "rnaroc wt=wt_profile.txt:wt.ct mut=mut_profile.txt:mut.ct"},
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("rnaroc")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return writers.Flush(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return writers.Flush(outw, stderr, 0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, "rnaroc", examples)
			return writers.Flush(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return writers.Flush(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "rnaroc version %s\n", version.Version)
		return writers.Flush(outw, stderr, 0)
	}

	samples, err := opts.Samples()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	coreOpts := appcore.Options{
		Samples: samples,
		Pad:     opts.Pad, Column: opts.Column, Normalize: opts.Normalize,
		Threads:        opts.Threads,
		DB:             opts.DB,
		Quiet:          opts.Quiet,
		NoDataExitCode: opts.NoDataExitCode,
	}
	writer := appcore.NewRecordWriterFactory(opts.Output, opts.Sort, opts.Header)
	return appcore.Run(parent, stdout, stderr, coreOpts, visitors.Region{Region: opts.Region}.Visit, writer)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
