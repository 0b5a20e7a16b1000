// Package visitors turns pipeline evaluations into output records.
package visitors

import (
	"fmt"

	"rnaroc/internal/output"
	"rnaroc/internal/pipeline"
	"rnaroc/internal/runutil"
)

// Region selects which positions of each evaluation are printed. A region
// that starts past the end of an RNA keeps the record (its median is still
// reported) with no rows and a warning.
type Region struct {
	Region runutil.Region
}

func (v Region) Visit(e pipeline.Evaluation) (keep bool, out output.Record, err error) {
	in := e.Input
	rec := output.Record{
		Sample:   in.Name,
		Sequence: in.Sequence,
		Result:   e.Result,
		Warnings: append([]string(nil), in.Warnings...),
	}
	start, end, ok := v.Region.Clamp(e.Result.Len())
	if !ok {
		if !v.Region.IsZero() {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("region %s is outside 1-%d", v.Region, e.Result.Len()))
		}
		return true, rec, nil
	}
	rec.Start, rec.End = start, end
	return true, rec, nil
}
