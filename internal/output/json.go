// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
	"math"

	"rnaroc/pkg/api"
)

// optFloat maps NaN to null; encoding/json rejects NaN.
func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ToAPIEvaluation converts a Record to the stable wire schema (v1).
func ToAPIEvaluation(r Record) api.EvaluationV1 {
	scores := r.Scores()
	v := api.EvaluationV1{
		Sample:   r.Sample,
		RunID:    r.RunID,
		Length:   r.Result.Len(),
		Pad:      r.Result.Pad,
		Window:   r.Result.Window,
		Start:    r.Start,
		End:      r.End,
		Defined:  r.Result.DefinedCount(),
		Median:   optFloat(r.Result.Median),
		Scores:   make([]*float64, len(scores)),
		Warnings: append([]string(nil), r.Warnings...),
	}
	for i, s := range scores {
		v.Scores[i] = optFloat(s)
	}
	if r.Start >= 1 && r.End <= len(r.Sequence) && r.Start <= r.End {
		v.Sequence = r.Sequence[r.Start-1 : r.End]
	}
	return v
}

// WriteJSON writes a single JSON array of v1 evaluations (pretty-indented).
func WriteJSON(w io.Writer, list []Record) error {
	out := make([]api.EvaluationV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIEvaluation(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
