package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err means the reader went away (head, less).
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// ExitCode folds a write error into the exit code. A closed reader ends the
// run successfully; any other error is printed to stderr and becomes 3.
// Without an error code is returned unchanged.
func ExitCode(err error, stderr io.Writer, code int) int {
	switch {
	case err == nil:
		return code
	case IsBrokenPipe(err):
		return 0
	default:
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
}

// Flush flushes w and returns ExitCode of the result.
func Flush(w *bufio.Writer, stderr io.Writer, code int) int {
	return ExitCode(w.Flush(), stderr, code)
}
