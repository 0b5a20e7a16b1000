package output

import (
	"math"
	"strconv"

	"rnaroc-core/auroc"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// TSVHeader is the canonical header row for text/TSV outputs.
const TSVHeader = "sample\tposition\tnucleotide\tauroc"

// Record is one sample's evaluation as handed to the writers. Start and End
// select the 1-based inclusive region to print; the median always covers the
// whole RNA.
type Record struct {
	Sample   string
	RunID    string
	Sequence string
	Result   auroc.Result
	Start    int
	End      int
	Warnings []string
}

// Scores returns the scores of the selected region, or nil when no region
// is selected.
func (r Record) Scores() []float64 {
	s, err := r.Result.Region(r.Start, r.End)
	if err != nil {
		return nil
	}
	return s
}

// Base returns the nucleotide at 1-based pos, or "N" when unknown.
func (r Record) Base(pos int) string {
	if pos < 1 || pos > len(r.Sequence) {
		return "N"
	}
	return r.Sequence[pos-1 : pos]
}

// FormatScore prints a score with 4 decimals, or "nan" when undefined.
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
