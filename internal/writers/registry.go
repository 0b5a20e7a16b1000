// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"rnaroc/internal/output"
)

// BatchFunc writes a complete, already ordered list of records.
type BatchFunc func(w io.Writer, list []output.Record, header bool) error

// Writer registry (format → handler). Last registration wins.
var batchWriters = map[string]BatchFunc{}

func Register(format string, fn BatchFunc) { batchWriters[format] = fn }

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(batchWriters))
	for k := range batchWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteBatch dispatches to the handler registered for format.
func WriteBatch(format string, w io.Writer, list []output.Record, header bool) error {
	fn, ok := batchWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, list, header)
}

func init() {
	Register(output.FormatText, output.WriteText)
	Register(output.FormatJSON, func(w io.Writer, list []output.Record, _ bool) error {
		return output.WriteJSON(w, list)
	})
	Register(output.FormatJSONL, func(w io.Writer, list []output.Record, _ bool) error {
		in, done := StartJSONLWriter(w, len(list))
		for _, r := range list {
			in <- r
		}
		close(in)
		return <-done
	})
}
