// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"rnaroc/internal/writers"
)

// Common holds CLI fields shared by rnaroc and rnaroc-runs.
type Common struct {
	// Output
	Output string // text|json|jsonl
	Sort   bool
	Header bool

	// Results database
	DB string

	// Misc
	Quiet    bool
	Version  bool
	Examples bool
}

// Register wires shared flags onto fs and returns a pointer to the “no-header” bool
// that the caller can use to set Common.Header = !noHeader after parsing.
func Register(fs *flag.FlagSet, c *Common) *bool {
	// Output
	fs.StringVar(&c.Output, "output", "text", "output: text | json | jsonl [text]")
	fs.StringVar(&c.Output, "o", "text", "alias of --output")
	fs.BoolVar(&c.Sort, "sort", false, "sort outputs by sample name [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")

	fs.StringVar(&c.DB, "db", "", "SQLite results database")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Examples, "examples", false, "print usage examples and exit [false]")

	return &noHeader
}

// AfterParse finalizes header and runs shared validation.
func AfterParse(c *Common, noHeader *bool) error {
	c.Header = !*noHeader
	return Validate(c)
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	valid := false
	for _, f := range writers.Formats() {
		if c.Output == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.DB == "-" {
		return errors.New("--db needs a file path, not '-'")
	}
	return nil
}
