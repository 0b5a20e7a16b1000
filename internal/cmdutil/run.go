package cmdutil

import (
	"context"

	"rnaroc/internal/pipeline"
	"rnaroc/internal/sample"
)

// RunStream runs the shared pipeline, applies a visitor, and streams results via send.
// It returns the number of kept outputs and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	samples []sample.Sample,
	ev pipeline.Evaluator,
	visit func(pipeline.Evaluation) (bool, T, error),
	send func(T) error,
) (int, error) {
	total := 0
	err := pipeline.ForEachEvaluation(ctx, cfg, samples, ev, func(e pipeline.Evaluation) error {
		keep, out, vErr := visit(e)
		if vErr != nil {
			return vErr
		}
		if !keep {
			return nil
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, err
}
