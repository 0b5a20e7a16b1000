// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// EffectiveThreads maps a --threads value to a worker count:
// 0 or less means one per CPU.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Region is a 1-based inclusive range. The zero value means the whole RNA.
type Region struct {
	Start, End int
}

func (r Region) IsZero() bool { return r.Start == 0 && r.End == 0 }

func (r Region) String() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParseRegion parses "START-END", "START-" or "-END". An empty string is the
// whole RNA. Open ends are left as 0 and resolved by Clamp.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Region{}, nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return Region{}, fmt.Errorf("bad region %q (want START-END)", s)
	}
	var r Region
	var err error
	if lo != "" {
		if r.Start, err = strconv.Atoi(lo); err != nil || r.Start < 1 {
			return Region{}, fmt.Errorf("bad region start %q", lo)
		}
	}
	if hi != "" {
		if r.End, err = strconv.Atoi(hi); err != nil || r.End < 1 {
			return Region{}, fmt.Errorf("bad region end %q", hi)
		}
	}
	if r.Start == 0 && r.End == 0 {
		return Region{}, fmt.Errorf("bad region %q", s)
	}
	if r.End > 0 && r.Start > r.End {
		return Region{}, fmt.Errorf("bad region %q: start after end", s)
	}
	return r, nil
}

// Clamp resolves r against an RNA of length n. Open ends extend to the
// sequence edges and an end past n is cut to n. ok is false when the region
// starts after the RNA ends.
func (r Region) Clamp(n int) (start, end int, ok bool) {
	start, end = r.Start, r.End
	if start == 0 {
		start = 1
	}
	if end == 0 || end > n {
		end = n
	}
	if n == 0 || start > end {
		return 0, 0, false
	}
	return start, end, true
}
