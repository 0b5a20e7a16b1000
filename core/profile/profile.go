// Package profile reads per-nucleotide reactivity profiles into contiguous
// arrays indexed by position-1. Missing values are always NaN.
package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"rnaroc-core/textio"
)

// DefaultColumn is the ShapeMapper normalized reactivity column.
const DefaultColumn = "Norm_profile"

// mapMissing is the .map file sentinel for no data.
const mapMissing = -999

// Profile is a reactivity signal. Values[i] belongs to nucleotide i+1.
type Profile struct {
	Sequence string
	Values   []float64
}

func (p Profile) Len() int { return len(p.Values) }

// Valid is the number of non-NaN values.
func (p Profile) Valid() int {
	n := 0
	for _, v := range p.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Load reads a profile file: .map files by position, anything else as a
// delimited table with a header row (tab, comma or whitespace separated),
// taking values from column. A trailing .gz is allowed.
func Load(path, column string) (Profile, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return Profile{}, err
	}
	defer func() { _ = rc.Close() }()

	var p Profile
	if textio.Ext(path) == ".map" {
		p, err = ReadMap(rc)
	} else {
		p, err = ReadTable(rc, column)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// MaxLength bounds the highest position a profile may name. Positions are
// collected sparsely and the arrays are sized once, so a stray large index
// is rejected instead of allocating for every gap before it.
const MaxLength = 1 << 22

type entry struct {
	v    float64
	base byte
}

// builder places values at 1-based positions, filling gaps with NaN / 'N'.
type builder struct {
	at  map[int]entry
	max int
}

func (b *builder) put(pos int, v float64, base byte) error {
	if pos < 1 {
		return fmt.Errorf("position %d must be >= 1", pos)
	}
	if pos > MaxLength {
		return fmt.Errorf("position %d exceeds the %d-position limit", pos, MaxLength)
	}
	if b.at == nil {
		b.at = make(map[int]entry)
	}
	if _, dup := b.at[pos]; dup {
		return fmt.Errorf("position %d listed twice", pos)
	}
	b.at[pos] = entry{v: v, base: base}
	if pos > b.max {
		b.max = pos
	}
	return nil
}

func (b *builder) profile() Profile {
	vals := make([]float64, b.max)
	seq := make([]byte, b.max)
	for i := range vals {
		vals[i] = math.NaN()
		seq[i] = 'N'
	}
	for pos, e := range b.at {
		vals[pos-1] = e.v
		if e.base != 0 {
			seq[pos-1] = e.base
		}
	}
	return Profile{Sequence: string(seq), Values: vals}
}

// parseValue treats empty cells and any NaN spelling as missing.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", s)
	}
	return v, nil
}

func splitter(header string) func(string) []string {
	switch {
	case strings.Contains(header, "\t"):
		return func(s string) []string { return strings.Split(s, "\t") }
	case strings.Contains(header, ","):
		return func(s string) []string { return strings.Split(s, ",") }
	default:
		return strings.Fields
	}
}

// ReadTable parses a profile table with a header row. The "Nucleotide" column
// gives positions (row order is used when it is absent) and the optional
// "Sequence" column gives bases.
func ReadTable(r io.Reader, column string) (Profile, error) {
	if column == "" {
		column = DefaultColumn
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		split          func(string) []string
		posCol, seqCol = -1, -1
		valCol         = -1
		b              builder
		ln, row        int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		if split == nil {
			split = splitter(line)
			names := split(line)
			for i, name := range names {
				switch strings.TrimSpace(name) {
				case "Nucleotide":
					posCol = i
				case "Sequence":
					seqCol = i
				case column:
					valCol = i
				}
			}
			if valCol < 0 {
				return Profile{}, fmt.Errorf("line %d: column %q not found (have %s)", ln, column, strings.Join(names, ", "))
			}
			continue
		}

		cells := split(line)
		row++
		if valCol >= len(cells) {
			return Profile{}, fmt.Errorf("line %d: expected at least %d columns, got %d", ln, valCol+1, len(cells))
		}
		pos := row
		if posCol >= 0 && posCol < len(cells) {
			p, err := strconv.Atoi(strings.TrimSpace(cells[posCol]))
			if err != nil {
				return Profile{}, fmt.Errorf("line %d: bad position %q", ln, cells[posCol])
			}
			pos = p
		}
		v, err := parseValue(cells[valCol])
		if err != nil {
			return Profile{}, fmt.Errorf("line %d: %v", ln, err)
		}
		var base byte
		if seqCol >= 0 && seqCol < len(cells) {
			if s := strings.TrimSpace(cells[seqCol]); s != "" {
				base = s[0]
			}
		}
		if err := b.put(pos, v, base); err != nil {
			return Profile{}, fmt.Errorf("line %d: %v", ln, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Profile{}, fmt.Errorf("profile scan: %w", err)
	}
	if split == nil {
		return Profile{}, errors.New("empty profile table")
	}
	return b.profile(), nil
}

// ReadMap parses a headerless .map file: position, value, stderr, base.
// A value of -999 marks a missing position.
func ReadMap(r io.Reader) (Profile, error) {
	sc := bufio.NewScanner(r)
	var (
		b  builder
		ln int
	)
	for sc.Scan() {
		ln++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0][0] == '#' {
			continue
		}
		if len(fields) < 2 {
			return Profile{}, fmt.Errorf("line %d: expected at least 2 columns, got %d", ln, len(fields))
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return Profile{}, fmt.Errorf("line %d: bad position %q", ln, fields[0])
		}
		v, err := parseValue(fields[1])
		if err != nil {
			return Profile{}, fmt.Errorf("line %d: %v", ln, err)
		}
		if v == mapMissing {
			v = math.NaN()
		}
		var base byte
		if len(fields) >= 4 {
			base = fields[3][0]
		}
		if err := b.put(pos, v, base); err != nil {
			return Profile{}, fmt.Errorf("line %d: %v", ln, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Profile{}, fmt.Errorf("map scan: %w", err)
	}
	return b.profile(), nil
}
