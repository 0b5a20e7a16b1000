// pkg/api/run_v1.go
package api

// RunV1 is the stable JSON/JSONL schema for one stored run without its
// per-position scores.
type RunV1 struct {
	RunID     string   `json:"run_id"`
	Sample    string   `json:"sample"`
	Pad       int      `json:"pad"`
	Window    int      `json:"window"`
	Length    int      `json:"length"`
	Defined   int      `json:"defined"`
	Median    *float64 `json:"median"`
	CreatedAt string   `json:"created_at"` // RFC 3339
}
