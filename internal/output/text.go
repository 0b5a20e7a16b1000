// internal/output/text.go
package output

import (
	"fmt"
	"io"
)

// summaryLine is the "# ..." line that opens each sample block.
func summaryLine(r Record) string {
	return fmt.Sprintf("# sample=%s window=%d defined=%d/%d median=%s region=%d-%d",
		r.Sample, r.Result.Window, r.Result.DefinedCount(), r.Result.Len(),
		FormatScore(r.Result.Median), r.Start, r.End)
}

func writeRecordText(w io.Writer, r Record) error {
	if _, err := fmt.Fprintln(w, summaryLine(r)); err != nil {
		return err
	}
	for k, v := range r.Scores() {
		pos := r.Start + k
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Sample, pos, r.Base(pos), FormatScore(v)); err != nil {
			return err
		}
	}
	return nil
}

// WriteText prints a header (optional) then one block per record.
func WriteText(w io.Writer, list []Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, r := range list {
		if err := writeRecordText(w, r); err != nil {
			return err
		}
	}
	return nil
}

// StreamText is WriteText over a channel.
func StreamText(w io.Writer, in <-chan Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for r := range in {
		if err := writeRecordText(w, r); err != nil {
			return err
		}
	}
	return nil
}
