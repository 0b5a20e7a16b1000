// Package structure reads RNA secondary structures into base-pair tables.
package structure

import (
	"fmt"
	"path/filepath"
	"strings"

	"rnaroc-core/auroc"
	"rnaroc-core/textio"
)

// Structure is a secondary structure model. Pairs[i] is the 1-based partner
// of position i+1, or 0 when it is unpaired.
type Structure struct {
	Name     string
	Sequence string
	Pairs    []int
}

func (s Structure) Len() int { return len(s.Pairs) }

// Labels classifies every position as paired or unpaired.
func (s Structure) Labels() []auroc.Label { return auroc.LabelsFromPairTable(s.Pairs) }

// PairCount is the number of base pairs (each pair counted once).
func (s Structure) PairCount() int {
	n := 0
	for i, p := range s.Pairs {
		if p > i+1 {
			n++
		}
	}
	return n
}

// Load reads a structure file, choosing the parser by extension:
// .ct for connectivity tables, .db/.dbn/.dot for dot-bracket.
// A trailing .gz is allowed.
func Load(path string) (Structure, error) {
	ext := textio.Ext(path)
	read := ReadCT
	switch ext {
	case ".ct":
	case ".db", ".dbn", ".dot":
		read = ReadDotBracket
	default:
		return Structure{}, fmt.Errorf("%s: unknown structure format %q (want .ct, .db, .dbn or .dot)", path, ext)
	}

	rc, err := textio.Open(path)
	if err != nil {
		return Structure{}, err
	}
	defer func() { _ = rc.Close() }()

	s, err := read(rc)
	if err != nil {
		return Structure{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		base := filepath.Base(textio.TrimGz(path))
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s, nil
}

// validatePairs checks partner range and symmetry.
func validatePairs(pairs []int) error {
	n := len(pairs)
	for i, p := range pairs {
		if p < 0 || p > n {
			return fmt.Errorf("position %d: partner %d outside 0-%d", i+1, p, n)
		}
		if p == i+1 {
			return fmt.Errorf("position %d: paired with itself", i+1)
		}
		if p > 0 && pairs[p-1] != i+1 {
			return fmt.Errorf("position %d pairs with %d, but %d pairs with %d", i+1, p, p, pairs[p-1])
		}
	}
	return nil
}
