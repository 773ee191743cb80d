// Attribute keys shared by every log call site. Keys follow a dotted
// "category.name" convention so records can be filtered by prefix.

package log

// Model and operation context.
const (
	ModelNameKey   = "model.name"
	EstimatorIDKey = "estimator.id"
	OperationKey   = "ml.operation"
	ComponentKey   = "ml.component"
	PhaseKey       = "ml.phase"
)

// Data shape.
const (
	SamplesKey     = "data.samples"
	TestSamplesKey = "data.test_samples"
	FeaturesKey    = "data.features"
)

// Performance and results.
const (
	DurationMsKey = "perf.duration_ms"
	R2ScoreKey    = "metrics.r2_score"
	RMSEKey       = "metrics.rmse"
	IterationKey  = "training.iteration"
)

// MCMC chain state. These are emitted by the progress callback once per
// reported iteration.
const (
	SigmaKey        = "mcmc.sigma"
	AcceptedKey     = "mcmc.accepted"
	ProposedKey     = "mcmc.proposed"
	AcceptRateKey   = "mcmc.accept_rate"
	BurnInKey       = "mcmc.burn_in"
	DrawsKey        = "mcmc.draws"
	NumTreesKey     = "mcmc.num_trees"
	LeavesMeanKey   = "tree.leaves_mean"
	LeavesMaxKey    = "tree.leaves_max"
	LeavesP90Key    = "tree.leaves_p90"
	TreeDepthMaxKey = "tree.depth_max"
)

// Priors.
const (
	SigmaHatKey   = "prior.sigma_hat"
	LambdaKey     = "prior.lambda"
	NuKey         = "prior.nu"
	LeafPriorKey  = "prior.leaf_sigma"
	RandomSeedKey = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseBurnIn    = "burn_in"
	PhaseSampling  = "sampling"
	PhaseInference = "inference"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
