package jsonlutil

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStartWritesOneLinePerValue(t *testing.T) {
	var b bytes.Buffer
	in, done := Start[int](&b, 2, func(v int) any { return map[string]int{"n": v} }, func(error) bool { return false })
	for i := 1; i <= 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n" {
		t.Fatalf("got %q", got)
	}
}

type failWriter struct{}

var errBoom = errors.New("boom")

func (failWriter) Write([]byte) (int, error) { return 0, errBoom }

func TestStartDrainsAfterError(t *testing.T) {
	in, done := Start[string](failWriter{}, 1, func(s string) any { return strings.Repeat(s, 70<<10) }, func(error) bool { return false })
	// more values than the buffer holds; senders must not block
	for i := 0; i < 5; i++ {
		in <- "x"
	}
	close(in)
	if err := <-done; !errors.Is(err, errBoom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestStartSuppressesBrokenPipe(t *testing.T) {
	in, done := Start[string](failWriter{}, 1, func(s string) any { return s }, func(err error) bool { return errors.Is(err, errBoom) })
	in <- "x"
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be suppressed, got %v", err)
	}
}
