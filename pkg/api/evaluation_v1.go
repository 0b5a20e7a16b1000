// pkg/api/evaluation_v1.go
package api

// EvaluationV1 is the stable JSON/JSONL schema for one windowed-AUROC run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
//
// Positions are 1-based; Scores[k] belongs to position Start+k. Undefined
// windows are null, and Median is null when no window was scored.
type EvaluationV1 struct {
	Sample   string     `json:"sample"`
	RunID    string     `json:"run_id,omitempty"`
	Length   int        `json:"length"`
	Pad      int        `json:"pad"`
	Window   int        `json:"window"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Defined  int        `json:"defined"`
	Median   *float64   `json:"median"`
	Scores   []*float64 `json:"scores"`
	Sequence string     `json:"sequence,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
}
