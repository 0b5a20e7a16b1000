// internal/writers/record.go
package writers

import (
	"io"

	"rnaroc/internal/output"
)

// StartRecordWriter spins up a writer goroutine for evaluation records.
// text and jsonl stream as records arrive unless sort is set; json and
// sorted output are buffered until the channel is closed.
func StartRecordWriter(out io.Writer, format string, sort, header bool, bufSize int) (chan<- output.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	if format == output.FormatJSONL && !sort {
		return StartJSONLWriter(out, bufSize)
	}

	in := make(chan output.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch {
		case format == output.FormatText && !sort:
			err = output.StreamText(out, in, header)
		default:
			var buf []output.Record
			for r := range in {
				buf = append(buf, r)
			}
			if sort {
				output.SortRecords(buf)
			}
			err = WriteBatch(format, out, buf, header)
		}
		// drain on early failure so senders never block
		for range in {
		}
		errCh <- err
	}()

	return in, errCh
}
