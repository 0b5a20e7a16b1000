// core/auroc/window.go
package auroc

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MinSupport is the number of valid paired and of valid unpaired positions a
// window needs before it is scored.
const MinSupport = 10

// ErrInvalidParameter marks malformed inputs: negative pad, length mismatch,
// labels outside the two classes.
var ErrInvalidParameter = errors.New("invalid parameter")

// Label is the base-pairing status of one nucleotide. The zero value is not a
// valid label.
type Label uint8

const (
	Paired Label = iota + 1
	Unpaired
)

func (l Label) Valid() bool { return l == Paired || l == Unpaired }

func (l Label) String() string {
	switch l {
	case Paired:
		return "paired"
	case Unpaired:
		return "unpaired"
	default:
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
}

// Result holds one AUROC per position. Positions without a score (the pad at
// both ends and windows below MinSupport) are NaN, as is Median when no
// position was scored.
type Result struct {
	Pad    int
	Window int
	Scores []float64
	Median float64
}

// Len is the number of positions, equal to the input length.
func (r Result) Len() int { return len(r.Scores) }

// Defined reports whether position i (0-based) carries a score.
func (r Result) Defined(i int) bool {
	return i >= 0 && i < len(r.Scores) && !math.IsNaN(r.Scores[i])
}

// DefinedCount is the number of scored positions.
func (r Result) DefinedCount() int {
	n := 0
	for _, v := range r.Scores {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// MedianOK returns the aggregate and false when no position was scored.
func (r Result) MedianOK() (float64, bool) {
	if math.IsNaN(r.Median) {
		return 0, false
	}
	return r.Median, true
}

// Region returns a copy of the scores for 1-based positions start..end
// inclusive.
func (r Result) Region(start, end int) ([]float64, error) {
	if start < 1 || end > len(r.Scores) || start > end {
		return nil, fmt.Errorf("%w: region %d-%d outside 1-%d", ErrInvalidParameter, start, end, len(r.Scores))
	}
	return append([]float64(nil), r.Scores[start-1:end]...), nil
}

// Evaluate scores how well signal predicts base pairing in every window of
// 2*pad+1 positions. The score at center i is the AUROC of the non-NaN signal
// values in [i-pad, i+pad], with Unpaired as the positive class (higher
// reactivity means unpaired). A window with fewer than MinSupport valid
// positions of either class is left undefined. Inputs are not modified.
func Evaluate(signal []float64, labels []Label, pad int) (Result, error) {
	if pad < 0 {
		return Result{}, fmt.Errorf("%w: pad must be >= 0, got %d", ErrInvalidParameter, pad)
	}
	if len(signal) != len(labels) {
		return Result{}, fmt.Errorf("%w: signal has %d positions, labels has %d", ErrInvalidParameter, len(signal), len(labels))
	}
	for i, l := range labels {
		if !l.Valid() {
			return Result{}, fmt.Errorf("%w: position %d has %v", ErrInvalidParameter, i+1, l)
		}
	}

	n := len(signal)
	res := Result{Pad: pad, Window: 2*pad + 1, Scores: make([]float64, n)}
	for i := range res.Scores {
		res.Scores[i] = math.NaN()
	}

	scores := make([]float64, 0, res.Window)
	positive := make([]bool, 0, res.Window)
	for i := pad; i < n-pad; i++ {
		scores, positive = scores[:0], positive[:0]
		paired, unpaired := 0, 0
		for j := i - pad; j <= i+pad; j++ {
			if math.IsNaN(signal[j]) {
				continue
			}
			up := labels[j] == Unpaired
			if up {
				unpaired++
			} else {
				paired++
			}
			scores = append(scores, signal[j])
			positive = append(positive, up)
		}
		if paired < MinSupport || unpaired < MinSupport {
			continue
		}
		auc, err := Score(scores, positive)
		if err != nil {
			return Result{}, fmt.Errorf("window at %d: %w", i+1, err)
		}
		res.Scores[i] = auc
	}

	res.Median = math.NaN()
	if m, ok := Median(res.Scores); ok {
		res.Median = m
	}
	return res, nil
}

// Median of the non-NaN values. ok is false when there are none.
func Median(values []float64) (m float64, ok bool) {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN(), false
	}
	sort.Float64s(kept)
	mid := len(kept) / 2
	if len(kept)%2 == 1 {
		return kept[mid], true
	}
	return (kept[mid-1] + kept[mid]) / 2, true
}

// LabelsFromPairTable converts a base-pair table (partner index per position,
// 0 for no partner) into labels. Any partner index <= 0 is unpaired.
func LabelsFromPairTable(pairs []int) []Label {
	out := make([]Label, len(pairs))
	for i, p := range pairs {
		if p > 0 {
			out[i] = Paired
		} else {
			out[i] = Unpaired
		}
	}
	return out
}
