package bart

import (
	"math"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/YuminosukeSato/bartgo/pkg/log"
)

// MoveProbabilities are the chances of each move family per tree update.
type MoveProbabilities struct {
	BirthDeath float64
	Change     float64
	Swap       float64
}

// Options configures a BART run.
type Options struct {
	NumTrees    int     // ensemble size
	BurnIn      int     // iterations discarded before averaging
	NumDraws    int     // total MCMC iterations
	Alpha       float64 // structural prior base
	Beta        float64 // structural prior depth exponent
	K           float64 // leaf prior scale divisor
	Moves       MoveProbabilities
	Nu          float64 // degrees of freedom of the sigma prior
	Quantile    float64 // prior mass placed below sigma_hat²
	RandomState uint64

	Logger       log.Logger
	Callbacks    []Callback
	ShowProgress bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		NumTrees:    10,
		BurnIn:      200,
		NumDraws:    1000,
		Alpha:       0.95,
		Beta:        2.0,
		K:           2.0,
		Moves:       MoveProbabilities{BirthDeath: 0.5, Change: 0.4, Swap: 0.1},
		Nu:          3,
		Quantile:    0.90,
		RandomState: 42,
	}
}

// NewOptions applies opts to the defaults and validates the result.
func NewOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// WithNumTrees sets the number of trees.
func WithNumTrees(n int) Option { return func(o *Options) { o.NumTrees = n } }

// WithBurnIn sets the number of discarded iterations.
func WithBurnIn(n int) Option { return func(o *Options) { o.BurnIn = n } }

// WithNumDraws sets the total number of iterations, burn-in included.
func WithNumDraws(n int) Option { return func(o *Options) { o.NumDraws = n } }

// WithTreePrior sets alpha and beta of the structural prior.
func WithTreePrior(alpha, beta float64) Option {
	return func(o *Options) {
		o.Alpha = alpha
		o.Beta = beta
	}
}

// WithK sets the leaf prior scale divisor.
func WithK(k float64) Option { return func(o *Options) { o.K = k } }

// WithMoveProbabilities sets the birth/death, change and swap probabilities.
func WithMoveProbabilities(birthDeath, change, swap float64) Option {
	return func(o *Options) {
		o.Moves = MoveProbabilities{BirthDeath: birthDeath, Change: change, Swap: swap}
	}
}

// WithSigmaPrior sets the degrees of freedom and the calibration quantile of the sigma prior.
func WithSigmaPrior(nu, quantile float64) Option {
	return func(o *Options) {
		o.Nu = nu
		o.Quantile = quantile
	}
}

// WithRandomState seeds the single random stream of the run.
func WithRandomState(seed uint64) Option { return func(o *Options) { o.RandomState = seed } }

// WithLogger sets the logger used for run-level messages.
func WithLogger(l log.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithCallbacks appends per-iteration callbacks.
func WithCallbacks(cbs ...Callback) Option {
	return func(o *Options) { o.Callbacks = append(o.Callbacks, cbs...) }
}

// WithProgress logs progress roughly ten times per run.
func WithProgress() Option { return func(o *Options) { o.ShowProgress = true } }

// Validate checks every parameter before any sampling starts.
func (o Options) Validate() error {
	switch {
	case o.NumTrees < 1:
		return errors.NewValidationError("NumTrees", "must be at least 1", o.NumTrees)
	case o.BurnIn < 0:
		return errors.NewValidationError("BurnIn", "must be non-negative", o.BurnIn)
	case o.NumDraws <= o.BurnIn:
		return errors.NewValidationError("NumDraws", "must exceed BurnIn", o.NumDraws)
	case !(o.Alpha > 0 && o.Alpha < 1):
		return errors.NewValidationError("Alpha", "must be in (0, 1)", o.Alpha)
	case !(o.Beta >= 0):
		return errors.NewValidationError("Beta", "must be non-negative", o.Beta)
	case !(o.K > 0):
		return errors.NewValidationError("K", "must be positive", o.K)
	case !(o.Nu > 0):
		return errors.NewValidationError("Nu", "must be positive", o.Nu)
	case !(o.Quantile > 0 && o.Quantile < 1):
		return errors.NewValidationError("Quantile", "must be in (0, 1)", o.Quantile)
	}

	m := o.Moves
	if !(m.BirthDeath >= 0 && m.Change >= 0 && m.Swap >= 0) {
		return errors.NewValidationError("Moves", "probabilities must be non-negative", m)
	}
	if math.Abs(m.BirthDeath+m.Change+m.Swap-1) > 1e-9 {
		return errors.NewValidationError("Moves", "probabilities must sum to 1", m)
	}
	return nil
}
