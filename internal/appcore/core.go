// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"rnaroc-core/auroc"
	"rnaroc-core/profile"
	"rnaroc/internal/cmdutil"
	"rnaroc/internal/output"
	"rnaroc/internal/pipeline"
	"rnaroc/internal/runutil"
	"rnaroc/internal/sample"
	"rnaroc/internal/store"
	"rnaroc/internal/version"
	"rnaroc/internal/writers"
)

type Options struct {
	Samples []sample.Sample

	Pad       int
	Column    string
	Normalize profile.Method

	Threads int

	DB string

	Quiet          bool
	NoDataExitCode int
}

type VisitorFunc func(pipeline.Evaluation) (keep bool, out output.Record, err error)

type WriterFactory interface {
	Start(out io.Writer, bufSize int) (chan<- output.Record, <-chan error)
}

// inputError marks failures caused by the user's files rather than by I/O
// on our side, so they map to exit code 2.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func loadSample(s sample.Sample, opt sample.ReadOptions) (sample.Input, error) {
	in, err := sample.Load(s, opt)
	if err != nil {
		return in, inputError{err}
	}
	return in, nil
}

// Run evaluates every sample and writes one record per sample. Exit codes:
// 0 ok, NoDataExitCode when no sample has a defined median, 2 bad input,
// 3 I/O failure, 130 cancelled.
func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	visit VisitorFunc,
	wf WriterFactory,
) int {
	outw := bufio.NewWriter(stdout)

	if o.Pad < 0 {
		fmt.Fprintf(stderr, "error: --pad (%d) must be >= 0\n", o.Pad)
		return 2
	}

	var db *store.Store
	if o.DB != "" {
		var err error
		if db, err = store.Open(o.DB); err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", o.DB, err)
			return 3
		}
		defer func() { _ = db.Close() }()
	}

	thr := runutil.EffectiveThreads(o.Threads)
	if thr > len(o.Samples) && len(o.Samples) > 0 {
		thr = len(o.Samples)
	}

	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	withData := 0
	total, perr := cmdutil.RunStream[output.Record](
		ctx,
		pipeline.Config{
			Threads: thr,
			Pad:     o.Pad,
			Read:    sample.ReadOptions{Column: o.Column, Normalize: o.Normalize},
			Load:    loadSample,
		},
		o.Samples,
		pipeline.WindowedAUROC,
		func(e pipeline.Evaluation) (bool, output.Record, error) {
			keep, rec, err := visit(e)
			if err != nil || !keep {
				return keep, rec, err
			}
			if db != nil {
				id, err := db.SaveRun(ctx, store.RunRecord{
					Sample:        rec.Sample,
					ProfilePath:   e.Input.Profile,
					StructurePath: e.Input.Structure,
					Column:        o.Column,
					Normalize:     string(o.Normalize),
					Sequence:      e.Input.Sequence,
					Version:       version.Version,
					Result:        e.Result,
				})
				if err != nil {
					return false, rec, fmt.Errorf("sample %s: %w", rec.Sample, err)
				}
				rec.RunID = id
			}
			return true, rec, nil
		},
		func(rec output.Record) error {
			for _, w := range rec.Warnings {
				cmdutil.Warnf(stderr, o.Quiet, "sample %s: %s", rec.Sample, w)
			}
			if _, ok := rec.Result.MedianOK(); ok {
				withData++
			} else {
				cmdutil.Warnf(stderr, o.Quiet, "sample %s: no window has %d paired and %d unpaired positions with data",
					rec.Sample, auroc.MinSupport, auroc.MinSupport)
			}
			select {
			case inCh <- rec:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; werr != nil {
		return writers.ExitCode(werr, stderr, 0)
	}
	if e := outw.Flush(); e != nil {
		return writers.ExitCode(e, stderr, 0)
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		var ie inputError
		if errors.As(perr, &ie) || errors.Is(perr, auroc.ErrInvalidParameter) {
			return 2
		}
		return 3
	}
	if total == 0 || withData == 0 {
		return o.NoDataExitCode
	}
	return 0
}
