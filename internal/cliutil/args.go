// Package cliutil splits rnaroc command lines into flags and sample
// arguments.
package cliutil

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"rnaroc/internal/sample"
)

// takesValue reports whether the flag named by arg consumes the next
// argument. Unknown flags are left for fs.Parse to reject.
func takesValue(fs *flag.FlagSet, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	if strings.ContainsRune(name, '=') {
		return false
	}
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}

// SplitFlagsAndPositionals lets positionals (run IDs, sample specs,
// manifests) sit anywhere among the flags. "-" is a positional and
// everything after "--" is taken literally. Pass flagArgs to fs.Parse.
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			return flagArgs, append(posArgs, argv[i+1:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			posArgs = append(posArgs, arg)
		default:
			flagArgs = append(flagArgs, arg)
			if takesValue(fs, arg) && i+1 < len(argv) {
				i++
				flagArgs = append(flagArgs, argv[i])
			}
		}
	}
	return flagArgs, posArgs
}

// Positionals are the sample arguments of an rnaroc command line.
type Positionals struct {
	Inline    []sample.Sample // NAME=PROFILE:STRUCTURE
	Manifests []string        // manifest paths, globs expanded
}

// ClassifyPositionals sorts positionals into inline sample specs (anything
// containing '=') and manifest paths, expanding manifest globs.
func ClassifyPositionals(args []string) (Positionals, error) {
	var (
		p     Positionals
		paths []string
	)
	for _, a := range args {
		if !strings.Contains(a, "=") {
			paths = append(paths, a)
			continue
		}
		s, err := ParseSampleSpec(a)
		if err != nil {
			return Positionals{}, err
		}
		p.Inline = append(p.Inline, s)
	}
	m, err := ExpandManifests(paths)
	if err != nil {
		return Positionals{}, err
	}
	p.Manifests = m
	return p, nil
}

// ParseSampleSpec parses NAME=PROFILE:STRUCTURE. The structure path is
// everything after the last ':' so profile paths may contain colons.
func ParseSampleSpec(spec string) (sample.Sample, error) {
	name, files, _ := strings.Cut(spec, "=")
	i := strings.LastIndexByte(files, ':')
	if name == "" || i <= 0 || i == len(files)-1 {
		return sample.Sample{}, fmt.Errorf("bad sample %q (want NAME=PROFILE:STRUCTURE)", spec)
	}
	return sample.Sample{Name: name, Profile: files[:i], Structure: files[i+1:], Pad: -1}, nil
}

// ExpandManifests expands glob patterns among manifest paths. A pattern
// that matches nothing is an error; "-" and plain paths pass through.
func ExpandManifests(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p == "-" || !strings.ContainsAny(p, "*?[") {
			out = append(out, p)
			continue
		}
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %v", p, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no manifest matched %q", p)
		}
		out = append(out, m...)
	}
	return out, nil
}
