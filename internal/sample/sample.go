// internal/sample/sample.go
package sample

import (
	"bufio"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"rnaroc-core/auroc"
	"rnaroc-core/profile"
	"rnaroc-core/structure"
	"rnaroc-core/textio"
)

// Sample names one reactivity profile and the structure model it is scored
// against. Pad < 0 means "use the run default".
type Sample struct {
	Name      string
	Profile   string
	Structure string
	Pad       int
}

// Input is a loaded sample, ready for auroc.Evaluate.
type Input struct {
	Sample
	Sequence string
	Signal   []float64
	Labels   []auroc.Label
	Warnings []string
}

// LoadManifest reads a whitespace-separated file with
// name profile structure [pad]
// Relative paths are resolved against the manifest's directory ("-" reads
// STDIN and resolves against the working directory).
func LoadManifest(path string) ([]Sample, error) {
	fh, err := textio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	dir := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	var list []Sample
	seen := map[string]int{}
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 || len(f) > 4 {
			return nil, fmt.Errorf("%s:%d bad field count (want: name profile structure [pad])", path, ln)
		}
		s := Sample{Name: f[0], Profile: resolve(f[1]), Structure: resolve(f[2]), Pad: -1}
		if len(f) == 4 {
			pad, err := strconv.Atoi(f[3])
			if err != nil || pad < 0 {
				return nil, fmt.Errorf("%s:%d bad pad %q", path, ln, f[3])
			}
			s.Pad = pad
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s:%d duplicate sample %q (first on line %d)", path, ln, s.Name, prev)
		}
		seen[s.Name] = ln
		list = append(list, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ReadOptions selects how profiles are read.
type ReadOptions struct {
	Column    string         // profile column holding the signal
	Normalize profile.Method // rescaling applied after alignment; None keeps the column as is
}

// Load reads the profile and structure of s and aligns them by position.
// A profile that stops short of the structure is padded with NaN; one that
// runs past it is an error. Normalization uses the structure's sequence.
func Load(s Sample, opt ReadOptions) (Input, error) {
	prof, err := profile.Load(s.Profile, opt.Column)
	if err != nil {
		return Input{}, err
	}
	st, err := structure.Load(s.Structure)
	if err != nil {
		return Input{}, err
	}
	if s.Name == "" {
		s.Name = st.Name
	}

	in := Input{Sample: s, Sequence: st.Sequence, Labels: st.Labels()}
	switch {
	case prof.Len() > st.Len():
		return Input{}, fmt.Errorf("sample %s: profile has %d positions but structure has %d", s.Name, prof.Len(), st.Len())
	case prof.Len() < st.Len():
		in.Warnings = append(in.Warnings, fmt.Sprintf("profile covers %d of %d positions; the rest are treated as missing", prof.Len(), st.Len()))
	}
	if st.PairCount() == 0 {
		in.Warnings = append(in.Warnings, "structure has no base pairs")
	}
	if prof.Valid() == 0 {
		in.Warnings = append(in.Warnings, "every profile position is missing")
	}
	in.Signal = make([]float64, st.Len())
	for i := range in.Signal {
		in.Signal[i] = math.NaN()
	}
	copy(in.Signal, prof.Values)

	if opt.Normalize != profile.None {
		in.Signal, _, err = profile.Normalize(in.Signal, st.Sequence, opt.Normalize, nil)
		if err != nil {
			return Input{}, fmt.Errorf("sample %s: %w", s.Name, err)
		}
	}

	if n := sequenceMismatches(prof.Sequence, st.Sequence); n > 0 {
		in.Warnings = append(in.Warnings, fmt.Sprintf("profile and structure sequences differ at %d positions", n))
	}
	return in, nil
}

// sequenceMismatches compares bases case-insensitively with T==U, skipping N.
func sequenceMismatches(a, b string) int {
	norm := func(c byte) byte {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c == 'T' {
			c = 'U'
		}
		return c
	}
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		x, y := norm(a[i]), norm(b[i])
		if x == 'N' || y == 'N' {
			continue
		}
		if x != y {
			n++
		}
	}
	return n
}
