package bart

import (
	"github.com/YuminosukeSato/bartgo/pkg/log"
	"github.com/montanaflynn/stats"
)

// CallbackEnv is passed to callbacks once per iteration, after the sigma draw.
type CallbackEnv struct {
	Iteration  int
	NumDraws   int
	BurnIn     int
	Sigma      float64
	Moves      [numMoves]MoveStats // cumulative since the start of the run
	LeafCounts []int               // per tree
	MaxDepths  []int               // per tree
}

// InBurnIn reports whether the iteration is discarded from the average.
func (env *CallbackEnv) InBurnIn() bool {
	return env.Iteration < env.BurnIn
}

// Callback is called during sampling. A non-nil error aborts the run.
type Callback func(env *CallbackEnv) error

// RecordSigma appends every sigma draw to trace.
func RecordSigma(trace *[]float64) Callback {
	return func(env *CallbackEnv) error {
		*trace = append(*trace, env.Sigma)
		return nil
	}
}

// LogProgress logs chain state every period iterations and on the last one.
func LogProgress(logger log.Logger, period int) Callback {
	if period < 1 {
		period = 1
	}
	return func(env *CallbackEnv) error {
		if env.Iteration%period != 0 && env.Iteration != env.NumDraws-1 {
			return nil
		}

		counts := stats.LoadRawData(env.LeafCounts)
		mean, err := stats.Mean(counts)
		if err != nil {
			return err
		}
		maxLeaves, err := stats.Max(counts)
		if err != nil {
			return err
		}
		p90, err := stats.PercentileNearestRank(counts, 90)
		if err != nil {
			return err
		}
		maxDepth, err := stats.Max(stats.LoadRawData(env.MaxDepths))
		if err != nil {
			return err
		}

		var accepted, proposed int
		for _, s := range env.Moves {
			accepted += s.Accepted
			proposed += s.Proposed
		}
		phase := log.PhaseSampling
		if env.InBurnIn() {
			phase = log.PhaseBurnIn
		}

		logger.Info("MCMC progress",
			log.IterationKey, env.Iteration,
			log.PhaseKey, phase,
			log.SigmaKey, env.Sigma,
			log.AcceptedKey, accepted,
			log.ProposedKey, proposed,
			log.AcceptRateKey, MoveStats{Proposed: proposed, Accepted: accepted}.AcceptRate(),
			log.LeavesMeanKey, mean,
			log.LeavesMaxKey, maxLeaves,
			log.LeavesP90Key, p90,
			log.TreeDepthMaxKey, maxDepth,
		)
		return nil
	}
}
