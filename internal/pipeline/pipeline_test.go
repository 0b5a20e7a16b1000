// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"testing"

	"rnaroc-core/auroc"
	"rnaroc/internal/sample"
)

// fakeLoad builds a perfectly separating 40-nt input for any sample.
func fakeLoad(s sample.Sample, _ sample.ReadOptions) (sample.Input, error) {
	if s.Profile == "broken" {
		return sample.Input{}, errors.New("cannot read profile")
	}
	in := sample.Input{Sample: s}
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			in.Signal = append(in.Signal, 0.1)
			in.Labels = append(in.Labels, auroc.Paired)
		} else {
			in.Signal = append(in.Signal, 1.0)
			in.Labels = append(in.Labels, auroc.Unpaired)
		}
	}
	return in, nil
}

func samplesN(n int) []sample.Sample {
	out := make([]sample.Sample, n)
	for i := range out {
		out[i] = sample.Sample{Name: fmt.Sprintf("s%02d", i), Pad: -1}
	}
	return out
}

func TestForEachEvaluation_AllSamplesOnce(t *testing.T) {
	var names []string
	err := ForEachEvaluation(context.Background(),
		Config{Threads: 4, Pad: 12, Load: fakeLoad},
		samplesN(9), WindowedAUROC,
		func(e Evaluation) error {
			names = append(names, e.Input.Name)
			if e.Result.Pad != 12 {
				t.Errorf("%s: pad=%d want 12", e.Input.Name, e.Result.Pad)
			}
			if m, ok := e.Result.MedianOK(); !ok || math.Abs(m-1) > 1e-9 {
				t.Errorf("%s: median=%v ok=%v", e.Input.Name, m, ok)
			}
			return nil
		})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	sort.Strings(names)
	if len(names) != 9 || names[0] != "s00" || names[8] != "s08" {
		t.Fatalf("visited %v", names)
	}
}

func TestForEachEvaluation_SamplePadOverridesDefault(t *testing.T) {
	s := samplesN(1)
	s[0].Pad = 15
	var got int
	err := ForEachEvaluation(context.Background(), Config{Threads: 1, Pad: 40, Load: fakeLoad}, s, WindowedAUROC,
		func(e Evaluation) error { got = e.Result.Pad; return nil })
	if err != nil {
		t.Fatal(err)
	}
	if got != 15 {
		t.Fatalf("pad=%d want 15", got)
	}
}

func TestForEachEvaluation_UsesEvaluator(t *testing.T) {
	var calls int32
	fake := EvaluatorFunc(func(sig []float64, lab []auroc.Label, pad int) (auroc.Result, error) {
		atomic.AddInt32(&calls, 1)
		return auroc.Result{Pad: pad, Scores: make([]float64, len(sig)), Median: 0.5}, nil
	})
	err := ForEachEvaluation(context.Background(), Config{Threads: 2, Pad: 3, Load: fakeLoad}, samplesN(5), fake,
		func(Evaluation) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Fatalf("evaluator called %d times, want 5", calls)
	}
}

func TestForEachEvaluation_LoadErrorStops(t *testing.T) {
	s := samplesN(3)
	s[1].Profile = "broken"
	err := ForEachEvaluation(context.Background(), Config{Threads: 1, Pad: 5, Load: fakeLoad}, s, WindowedAUROC,
		func(Evaluation) error { return nil })
	if err == nil {
		t.Fatalf("expected load error")
	}
}

func TestForEachEvaluation_InvalidPadSurfaces(t *testing.T) {
	s := samplesN(1)
	bad := EvaluatorFunc(func([]float64, []auroc.Label, int) (auroc.Result, error) {
		return auroc.Result{}, fmt.Errorf("%w: nope", auroc.ErrInvalidParameter)
	})
	err := ForEachEvaluation(context.Background(), Config{Threads: 1, Load: fakeLoad}, s, bad,
		func(Evaluation) error { return nil })
	if !errors.Is(err, auroc.ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter, got %v", err)
	}
}

func TestForEachEvaluation_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachEvaluation(ctx, Config{Threads: 2, Pad: 5, Load: fakeLoad}, samplesN(50), WindowedAUROC,
		func(Evaluation) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
