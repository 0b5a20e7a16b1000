package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"rnaroc/internal/store"
	"rnaroc/pkg/api"
)

// RunsHeader is the header row of the stored-run listing.
const RunsHeader = "run_id\tsample\tcreated_at\tpad\twindow\tdefined\tlength\tmedian"

func ToAPIRun(r store.RunSummary) api.RunV1 {
	return api.RunV1{
		RunID:     r.ID,
		Sample:    r.Sample,
		Pad:       r.Pad,
		Window:    r.Window,
		Length:    r.Length,
		Defined:   r.Defined,
		Median:    optFloat(r.Median),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteRuns lists stored runs as text, a JSON array or JSON lines.
func WriteRuns(w io.Writer, format string, list []store.RunSummary, header bool) error {
	switch format {
	case FormatText:
		if header {
			if _, err := fmt.Fprintln(w, RunsHeader); err != nil {
				return err
			}
		}
		for _, r := range list {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				r.ID, r.Sample, r.CreatedAt.UTC().Format(time.RFC3339),
				r.Pad, r.Window, r.Defined, r.Length, FormatScore(r.Median)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		out := make([]api.RunV1, 0, len(list))
		for _, r := range list {
			out = append(out, ToAPIRun(r))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, r := range list {
			if err := enc.Encode(ToAPIRun(r)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

// FromStoredRun rebuilds a printable record from a stored run.
func FromStoredRun(r store.RunRecord) Record {
	return Record{
		Sample:   r.Sample,
		RunID:    r.ID,
		Sequence: r.Sequence,
		Result:   r.Result,
		Start:    1,
		End:      r.Result.Len(),
	}
}
