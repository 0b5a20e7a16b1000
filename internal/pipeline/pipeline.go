// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"rnaroc-core/auroc"
	"rnaroc/internal/sample"
)

// Config controls the evaluation pipeline.
type Config struct {
	Threads int    // number of worker goroutines (>=1)
	Pad     int    // window half-width for samples without their own
	Read    sample.ReadOptions

	// Load reads one sample; nil means sample.Load.
	Load func(sample.Sample, sample.ReadOptions) (sample.Input, error)
}

// Evaluation is one scored sample.
type Evaluation struct {
	Input  sample.Input
	Result auroc.Result
}

// ForEachEvaluation loads and scores every sample, calling visit once per
// sample from a single goroutine (order is not preserved). The first load,
// evaluation or visit error stops the remaining work and is returned, as is
// context cancellation.
func ForEachEvaluation(
	parent context.Context,
	cfg Config,
	samples []sample.Sample,
	ev Evaluator,
	visit func(Evaluation) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	load := cfg.Load
	if load == nil {
		load = sample.Load
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type result struct {
		ev  Evaluation
		err error
	}
	jobs := make(chan sample.Sample, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case s, ok := <-jobs:
					if !ok {
						return
					}
					var r result
					in, err := load(s, cfg.Read)
					if err == nil {
						pad := cfg.Pad
						if in.Pad >= 0 {
							pad = in.Pad
						}
						r.ev.Input = in
						r.ev.Result, err = ev.Evaluate(in.Signal, in.Labels, pad)
						if err != nil {
							err = fmt.Errorf("sample %s: %w", in.Name, err)
						}
					}
					r.err = err

					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if cerr != nil {
				continue
			}
			if r.err == nil {
				r.err = visit(r.ev)
			}
			if r.err != nil {
				cerr = r.err
				cancel()
			}
		}
	}()

	// Feed work
feed:
	for _, s := range samples {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- s:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return parent.Err()
}
