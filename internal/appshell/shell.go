// Package appshell connects a command's RunContext to the process.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature shared by the rnaroc commands.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Args returns the command's arguments; a bare invocation asks for help.
func Args(osArgs []string) []string {
	if len(osArgs) <= 1 {
		return []string{"-h"}
	}
	return osArgs[1:]
}

// ExitCode reports 130 for a run that was interrupted, even when it had
// already written everything and returned 0.
func ExitCode(ctx context.Context, code int) int {
	if code == 0 && ctx.Err() != nil {
		return 130
	}
	return code
}

// Main runs run until it returns or SIGINT/SIGTERM cancels it, then exits.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := ExitCode(ctx, run(ctx, Args(os.Args), os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}
