package auroc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrSingleClass is returned by ROC when the ground truth holds only one class.
var ErrSingleClass = errors.New("roc: ground truth must contain both classes")

// ROC sweeps every distinct score as a decision threshold and returns the
// false-positive and true-positive rates at each one, ordered by increasing
// false-positive rate from (0,0) to (1,1). Inputs are not modified.
func ROC(scores []float64, positive []bool) (fpr, tpr, thresholds []float64, err error) {
	if len(scores) != len(positive) {
		return nil, nil, nil, fmt.Errorf("%w: %d scores but %d labels", ErrInvalidParameter, len(scores), len(positive))
	}
	var pos, neg int
	for i, s := range scores {
		if math.IsNaN(s) {
			return nil, nil, nil, fmt.Errorf("%w: score %d is NaN", ErrInvalidParameter, i)
		}
		if positive[i] {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, nil, nil, ErrSingleClass
	}

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), positive...)
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, thresholds = stat.ROC(nil, y, classes, nil)
	return fpr, tpr, thresholds, nil
}

// AUC integrates y over x with the trapezoidal rule. x must be monotonic
// (either direction); a decreasing x yields the same positive area.
func AUC(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: x has %d points, y has %d", ErrInvalidParameter, len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("%w: at least 2 points are required, got %d", ErrInvalidParameter, len(x))
	}
	inc, dec := true, true
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		if d < 0 {
			inc = false
		}
		if d > 0 {
			dec = false
		}
	}
	switch {
	case inc:
	case dec:
		x, y = reversed(x), reversed(y)
	default:
		return 0, fmt.Errorf("%w: x is neither increasing nor decreasing", ErrInvalidParameter)
	}
	return integrate.Trapezoidal(x, y), nil
}

func reversed(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// Score is the area under the ROC curve of scores against positive.
func Score(scores []float64, positive []bool) (float64, error) {
	fpr, tpr, _, err := ROC(scores, positive)
	if err != nil {
		return math.NaN(), err
	}
	return AUC(fpr, tpr)
}
