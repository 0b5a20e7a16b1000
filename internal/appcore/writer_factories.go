package appcore

import (
	"io"

	"rnaroc/internal/output"
	"rnaroc/internal/writers"
)

// RecordWriterFactory starts the writer goroutine for one output format.
type RecordWriterFactory struct {
	Format string
	Sort   bool
	Header bool
}

func NewRecordWriterFactory(format string, sort, header bool) RecordWriterFactory {
	return RecordWriterFactory{Format: format, Sort: sort, Header: header}
}

func (w RecordWriterFactory) Start(out io.Writer, bufSize int) (chan<- output.Record, <-chan error) {
	return writers.StartRecordWriter(out, w.Format, w.Sort, w.Header, bufSize)
}
