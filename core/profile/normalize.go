package profile

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Method selects how per-nucleotide scaling factors are derived.
type Method string

const (
	// None leaves the values as read.
	None Method = ""
	// Boxplot drops 1.5*IQR outliers and scales the mean of the top decile
	// of what remains to 1. This is the ShapeMapper default.
	Boxplot Method = "boxplot"
	// Percentiles scales the mean of the 90th-99th percentile values to 1.
	Percentiles Method = "percentiles"
	// DMS applies Percentiles to A+C and G+U separately.
	DMS Method = "DMS"
	// EDMS applies the per-nucleotide eDMS-MaP scheme to each base.
	EDMS Method = "eDMS"
)

// Methods lists the accepted --normalize values.
var Methods = []Method{Boxplot, Percentiles, DMS, EDMS}

// ParseMethod accepts a method name; the empty string selects None.
func ParseMethod(s string) (Method, error) {
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}
	for _, m := range Methods {
		if s == string(m) {
			return m, nil
		}
	}
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return None, fmt.Errorf("unknown normalization %q (want %s)", s, strings.Join(names, ", "))
}

// Groups returns the nucleotide groups a method scales together.
func (m Method) Groups() []string {
	switch m {
	case DMS:
		return []string{"AC", "GU"}
	case EDMS:
		return []string{"A", "C", "G", "U"}
	case Boxplot, Percentiles:
		return []string{"ACGU"}
	}
	return nil
}

func (m Method) factor(values []float64) float64 {
	switch m {
	case Boxplot:
		return boxplotFactor(values)
	case Percentiles, DMS:
		return percentileFactor(values, 90, 99)
	case EDMS:
		return eDMSFactor(values)
	}
	return math.NaN()
}

// Normalize divides each value by the scaling factor of its nucleotide
// group and returns the scaled copy with the factor used for each base.
// seq is matched case-insensitively with T read as U; positions whose base
// is outside ACGU, or whose group has no usable factor, become NaN.
// groups overrides the method's default grouping when non-empty.
func Normalize(values []float64, seq string, m Method, groups []string) ([]float64, map[byte]float64, error) {
	if m == None {
		return append([]float64(nil), values...), nil, nil
	}
	if len(seq) != len(values) {
		return nil, nil, fmt.Errorf("normalize: %d values but sequence has %d bases", len(values), len(seq))
	}
	if len(groups) == 0 {
		groups = m.Groups()
	}
	bases := []byte(strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(seq, "T", "U"), "t", "u")))

	factors := map[byte]float64{'A': math.NaN(), 'C': math.NaN(), 'G': math.NaN(), 'U': math.NaN()}
	for _, g := range groups {
		g = strings.ToUpper(strings.ReplaceAll(g, "T", "U"))
		var in []float64
		for i, b := range bases {
			if strings.IndexByte(g, b) >= 0 {
				in = append(in, values[i])
			}
		}
		f := m.factor(in)
		for i := 0; i < len(g); i++ {
			factors[g[i]] = f
		}
	}

	out := make([]float64, len(values))
	for i, b := range bases {
		f, ok := factors[b]
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i] / f
	}
	return out, factors, nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// percentile interpolates linearly between closest ranks of sorted values
// (numpy's default), which the published normalization factors rely on.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

func filter(values []float64, keep func(float64) bool) []float64 {
	var out []float64
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func boxplotFactor(values []float64) float64 {
	fv := finite(values)
	if len(fv) == 0 {
		return math.NaN()
	}
	p25, p75 := percentile(fv, 25), percentile(fv, 75)
	p90, p95 := percentile(fv, 90), percentile(fv, 95)
	limit := 1.5*(p75-p25) + p75
	kept := filter(fv, func(v float64) bool { return v < limit })

	ratio := float64(len(kept)) / float64(len(fv))
	switch {
	case len(fv) < 100 && ratio < 0.95:
		kept = filter(fv, func(v float64) bool { return v <= p95 })
	case len(fv) >= 100 && ratio < 0.9:
		kept = filter(fv, func(v float64) bool { return v < p90 })
	}
	top := percentile(kept, 90)
	return mean(filter(kept, func(v float64) bool { return v > top }))
}

func percentileFactor(values []float64, lower, upper float64) float64 {
	fv := finite(values)
	lo, hi := percentile(fv, lower), percentile(fv, upper)
	return mean(filter(fv, func(v float64) bool { return v >= lo && v <= hi }))
}

// minEDMSValues is the smallest group eDMS will scale; smaller groups are
// left unnormalized.
const minEDMSValues = 10

func eDMSFactor(values []float64) float64 {
	fv := finite(values)
	if len(fv) < minEDMSValues {
		return math.NaN()
	}
	lo, hi := percentile(fv, 90), percentile(fv, 95)
	n1 := mean(filter(fv, func(v float64) bool { return v >= lo && v < hi }))
	if math.IsNaN(n1) {
		n1 = 0
	}
	n2 := percentile(filter(fv, func(v float64) bool { return v > 0.001 }), 75)
	if math.IsNaN(n2) {
		n2 = 0
	}
	f := math.Max(n1, n2)
	if f < 0.002 {
		return math.NaN()
	}
	return f
}
