package diagnostics

import (
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/montanaflynn/stats"
)

// Summary describes the marginal posterior of a scalar chain.
type Summary struct {
	Mean float64
	Std  float64
	P5   float64
	P50  float64
	P95  float64
}

// Summarize computes the mean, sample standard deviation and the 5th, 50th
// and 95th nearest-rank percentiles of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, errors.NewModelError("Summarize", "empty chain", errors.ErrEmptyData)
	}
	data := stats.Float64Data(values)

	var s Summary
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	if len(values) > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, errors.Wrap(err, "std")
		}
	}
	if s.P5, err = stats.PercentileNearestRank(data, 5); err != nil {
		return Summary{}, errors.Wrap(err, "p5")
	}
	if s.P50, err = stats.Median(data); err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	if s.P95, err = stats.PercentileNearestRank(data, 95); err != nil {
		return Summary{}, errors.Wrap(err, "p95")
	}
	return s, nil
}

// PostBurnIn returns the part of a trace kept for posterior summaries.
func PostBurnIn(values []float64, burnIn int) []float64 {
	if burnIn >= len(values) {
		return nil
	}
	if burnIn < 0 {
		burnIn = 0
	}
	return values[burnIn:]
}
