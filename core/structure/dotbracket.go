package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var closerOf = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// ParseDotBracket converts a dot-bracket string into a base-pair table.
// Bracket kinds () [] {} <> nest independently, and A..Z open pseudoknot
// pairs closed by the matching lowercase letter. '.', ',', ':', '_', '-' and
// '~' are unpaired.
func ParseDotBracket(db string) ([]int, error) {
	pairs := make([]int, len(db))
	stacks := map[byte][]int{}
	for i := 0; i < len(db); i++ {
		c := db[i]
		switch {
		case c == '.' || c == ',' || c == ':' || c == '_' || c == '-' || c == '~':
		case closerOf[c] != 0:
			stacks[closerOf[c]] = append(stacks[closerOf[c]], i)
		case c == ')' || c == ']' || c == '}' || c == '>':
			if err := closePair(pairs, stacks, c, i); err != nil {
				return nil, err
			}
		case c >= 'A' && c <= 'Z':
			k := c + ('a' - 'A')
			stacks[k] = append(stacks[k], i)
		case c >= 'a' && c <= 'z':
			if err := closePair(pairs, stacks, c, i); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("position %d: unexpected character %q", i+1, c)
		}
	}
	for k, st := range stacks {
		if len(st) > 0 {
			return nil, fmt.Errorf("position %d: unclosed pair (expected %q)", st[len(st)-1]+1, k)
		}
	}
	return pairs, nil
}

func closePair(pairs []int, stacks map[byte][]int, closer byte, i int) error {
	st := stacks[closer]
	if len(st) == 0 {
		return fmt.Errorf("position %d: unmatched %q", i+1, closer)
	}
	j := st[len(st)-1]
	stacks[closer] = st[:len(st)-1]
	pairs[i] = j + 1
	pairs[j] = i + 1
	return nil
}

// ReadDotBracket parses a dot-bracket file: an optional ">name" line, the
// sequence, then the structure. Anything after the first field of the
// structure line (e.g. an RNAfold energy) is ignored.
func ReadDotBracket(r io.Reader) (Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		s    Structure
		body []string
	)
	for len(body) < 2 && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '>' {
			if s.Name == "" && len(body) == 0 {
				s.Name = strings.TrimSpace(line[1:])
			}
			continue
		}
		body = append(body, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return Structure{}, fmt.Errorf("dot-bracket scan: %w", err)
	}
	if len(body) < 2 {
		return Structure{}, errors.New("dot-bracket file needs a sequence line and a structure line")
	}
	s.Sequence = body[0]
	if len(body[0]) != len(body[1]) {
		return Structure{}, fmt.Errorf("sequence has %d nt but structure has %d", len(body[0]), len(body[1]))
	}
	pairs, err := ParseDotBracket(body[1])
	if err != nil {
		return Structure{}, err
	}
	s.Pairs = pairs
	return s, nil
}
