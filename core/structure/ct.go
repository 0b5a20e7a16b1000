package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCT parses the first structure of a connectivity-table file.
//
//	N  title ...
//	i  base  i-1  i+1  partner  natural
//
// Only the index, base and partner columns are used.
func ReadCT(r io.Reader) (Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		s    Structure
		n    = -1
		seq  strings.Builder
		ln   = 0
		rows = 0
	)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if n < 0 {
			v, err := strconv.Atoi(fields[0])
			if err != nil || v < 0 {
				return Structure{}, fmt.Errorf("line %d: bad CT header %q", ln, line)
			}
			n = v
			s.Name = ctTitle(fields[1:])
			s.Pairs = make([]int, 0, n)
			if n == 0 {
				break
			}
			continue
		}
		if len(fields) < 5 {
			return Structure{}, fmt.Errorf("line %d: expected at least 5 columns, got %d", ln, len(fields))
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return Structure{}, fmt.Errorf("line %d: bad index %q", ln, fields[0])
		}
		if idx != rows+1 {
			return Structure{}, fmt.Errorf("line %d: index %d out of order (want %d)", ln, idx, rows+1)
		}
		partner, err := strconv.Atoi(fields[4])
		if err != nil {
			return Structure{}, fmt.Errorf("line %d: bad partner %q", ln, fields[4])
		}
		seq.WriteString(fields[1])
		s.Pairs = append(s.Pairs, partner)
		rows++
		if rows == n {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return Structure{}, fmt.Errorf("ct scan: %w", err)
	}
	if n < 0 {
		return Structure{}, errors.New("empty CT file")
	}
	if rows != n {
		return Structure{}, fmt.Errorf("header declares %d positions, found %d", n, rows)
	}
	if err := validatePairs(s.Pairs); err != nil {
		return Structure{}, err
	}
	s.Sequence = seq.String()
	return s, nil
}

// ctTitle drops an RNAstructure-style "ENERGY = x" or "dG = x" prefix.
func ctTitle(fields []string) string {
	if len(fields) >= 3 && fields[1] == "=" {
		switch strings.ToUpper(fields[0]) {
		case "ENERGY", "DG":
			fields = fields[3:]
		}
	}
	return strings.Join(fields, " ")
}
