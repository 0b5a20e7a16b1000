// internal/writers/jsonl.go
package writers

import (
	"io"

	"rnaroc/internal/jsonlutil"
	"rnaroc/internal/output"
)

// StartJSONLWriter streams each Record as one JSON line (v1).
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- output.Record, <-chan error) {
	return jsonlutil.Start[output.Record](out, bufSize,
		func(r output.Record) any { return output.ToAPIEvaluation(r) },
		IsBrokenPipe,
	)
}
