// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"rnaroc-core/profile"
	"rnaroc/internal/clibase"
	"rnaroc/internal/cliutil"
	"rnaroc/internal/runutil"
	"rnaroc/internal/sample"
)

// DefaultPad is the window half-width used when --pad is not given.
const DefaultPad = 40

// Options holds all CLI flags and arguments.
type Options struct {
	clibase.Common

	// Single sample
	Profile   string
	Structure string
	Name      string

	// Batches
	Manifests []string        // --samples files and positional manifests
	Inline    []sample.Sample // positional NAME=PROFILE:STRUCTURE

	// Evaluation
	Pad       int
	Column    string
	Normalize profile.Method
	Region    runutil.Region

	// Performance
	Threads int

	NoDataExitCode int
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "windowed AUROC of reactivity profiles against RNA structures", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  %s [options] --profile P --structure S\n", name)
		fmt.Fprintf(out, "  %s [options] --samples manifest.tsv\n", name)
		fmt.Fprintf(out, "  %s [options] NAME=PROFILE:STRUCTURE ... | manifest.tsv ...\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -p, --profile file          Reactivity profile (table or .map, optionally .gz)")
		fmt.Fprintln(out, "  -s, --structure file        Structure model (.ct, .db, .dbn, .dot)")
		fmt.Fprintln(out, "      --name string           Sample name (default: structure name)")
		fmt.Fprintln(out, "      --samples file          Manifest: name profile structure [pad] (repeatable)")
		fmt.Fprintf(out, "      --column string         Profile column holding the signal [%s]\n", def("column"))
		fmt.Fprintln(out, "      --normalize method      Rescale the column first: boxplot, percentiles, DMS or eDMS")

		fmt.Fprintln(out, "\nEvaluation:")
		fmt.Fprintf(out, "      --pad int               Window half-width; windows are 2*pad+1 nt [%s]\n", def("pad"))
		fmt.Fprintln(out, "      --region START-END      Positions to print (1-based, inclusive); the median covers the whole RNA")
		fmt.Fprintf(out, "      --no-data-exit-code int Exit code when no sample has a defined median [%s]\n", def("no-data-exit-code"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
	})
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var region, normalize string

	noHeader := clibase.Register(fs, &opt.Common)

	fs.StringVar(&opt.Profile, "profile", "", "reactivity profile")
	fs.StringVar(&opt.Profile, "p", "", "alias of --profile")
	fs.StringVar(&opt.Structure, "structure", "", "structure model")
	fs.StringVar(&opt.Structure, "s", "", "alias of --structure")
	fs.StringVar(&opt.Name, "name", "", "sample name")
	manifests := &stringSlice{}
	fs.Var(manifests, "samples", "sample manifest (repeatable)")
	fs.StringVar(&opt.Column, "column", profile.DefaultColumn, "profile column [Norm_profile]")
	fs.StringVar(&normalize, "normalize", "", "normalization method")

	fs.IntVar(&opt.Pad, "pad", DefaultPad, "window half-width [40]")
	fs.StringVar(&region, "region", "", "positions to print START-END")
	fs.IntVar(&opt.NoDataExitCode, "no-data-exit-code", 0, "exit code when no median is defined [0]")

	fs.IntVar(&opt.Threads, "threads", 0, "worker threads (0=all CPUs) [0]")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

	fs.BoolVar(&help, "h", false, "show this help message [false]")
	fs.BoolVar(&help, "help", false, "show this help message [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
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
	opt.Manifests = *manifests

	pos, err := cliutil.ClassifyPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.Manifests = append(opt.Manifests, pos.Manifests...)
	opt.Inline = pos.Inline

	if opt.Region, err = runutil.ParseRegion(region); err != nil {
		return opt, fmt.Errorf("--region: %w", err)
	}
	if opt.Normalize, err = profile.ParseMethod(normalize); err != nil {
		return opt, fmt.Errorf("--normalize: %w", err)
	}
	return opt, validate(&opt)
}

func validate(o *Options) error {
	switch {
	case (o.Profile == "") != (o.Structure == ""):
		return errors.New("--profile and --structure must be supplied together")
	case o.Name != "" && o.Profile == "":
		return errors.New("--name needs --profile/--structure")
	case o.Profile == "" && len(o.Manifests) == 0 && len(o.Inline) == 0:
		return errors.New("provide --profile/--structure, --samples, or NAME=PROFILE:STRUCTURE")
	}
	if o.Profile == "-" && o.Structure == "-" {
		return errors.New("--profile and --structure cannot both read STDIN")
	}
	if o.Pad < 0 {
		return errors.New("--pad must be ≥ 0")
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if strings.TrimSpace(o.Column) == "" {
		return errors.New("--column must not be empty")
	}
	if o.NoDataExitCode < 0 || o.NoDataExitCode > 255 {
		return errors.New("--no-data-exit-code must be between 0 and 255")
	}
	return nil
}

// Samples collects every sample named on the command line, in order:
// --profile/--structure, manifests, then positional specs. Names must be
// unique across all sources.
func (o Options) Samples() ([]sample.Sample, error) {
	var list []sample.Sample
	if o.Profile != "" {
		list = append(list, sample.Sample{Name: o.Name, Profile: o.Profile, Structure: o.Structure, Pad: -1})
	}
	for _, m := range o.Manifests {
		ss, err := sample.LoadManifest(m)
		if err != nil {
			return nil, err
		}
		list = append(list, ss...)
	}
	list = append(list, o.Inline...)

	seen := map[string]bool{}
	for _, s := range list {
		if s.Name == "" {
			continue
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate sample name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return list, nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
