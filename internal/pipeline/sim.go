// internal/pipeline/sim.go
package pipeline

import (
	"rnaroc-core/auroc"
)

// Evaluator is the minimal capability the pipeline needs.
// Any scorer (including fakes in tests) can satisfy this.
type Evaluator interface {
	Evaluate(signal []float64, labels []auroc.Label, pad int) (auroc.Result, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func([]float64, []auroc.Label, int) (auroc.Result, error)

func (f EvaluatorFunc) Evaluate(signal []float64, labels []auroc.Label, pad int) (auroc.Result, error) {
	return f(signal, labels, pad)
}

// WindowedAUROC is the production Evaluator.
var WindowedAUROC Evaluator = EvaluatorFunc(auroc.Evaluate)
