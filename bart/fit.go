package bart

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/YuminosukeSato/bartgo/core/model"
	"github.com/YuminosukeSato/bartgo/core/parallel"
	"github.com/YuminosukeSato/bartgo/metrics"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/YuminosukeSato/bartgo/pkg/log"
	"github.com/YuminosukeSato/bartgo/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// predictParallelThreshold is the test-set size above which a tree's
// predictions are computed on several goroutines.
const predictParallelThreshold = 2048

// Regressor fits a BART model and returns posterior-mean predictions.
type Regressor struct {
	model.BaseEstimator

	Options Options

	trees      []*Tree
	priors     Priors
	sigma      float64
	sigmaTrace []float64
	moves      [numMoves]MoveStats
	scaler     *preprocessing.ResponseScaler
	logger     log.Logger
}

var _ model.Regressor = (*Regressor)(nil)

// NewRegressor returns a Regressor configured by opts.
func NewRegressor(opts ...Option) (*Regressor, error) {
	o, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Regressor{Options: o}, nil
}

// FitPredict runs the sampler on the training data and returns the posterior
// mean prediction for every row of xTest.
func FitPredict(xTrain, yTrain mat.Matrix, opts Options, xTest mat.Matrix) (*mat.VecDense, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Regressor{Options: opts}
	return r.FitPredict(xTrain, yTrain, xTest)
}

// FitPredict runs num_draws iterations of the sampler. The model keeps the
// final ensemble, the sigma trace and the move counts for inspection.
func (r *Regressor) FitPredict(xTrain, yTrain, xTest mat.Matrix) (pred *mat.VecDense, err error) {
	defer errors.Recover(&err, "Regressor.FitPredict")

	if err := r.Options.Validate(); err != nil {
		return nil, err
	}
	cols, y, testRows, err := validateInputs(xTrain, yTrain, xTest)
	if err != nil {
		return nil, err
	}

	r.Reset()
	r.logger = r.Options.Logger
	if r.logger == nil {
		r.logger = log.GetLoggerWithName("bart.regressor")
	}

	start := time.Now()
	r.scaler = preprocessing.NewResponseScaler()
	yNorm, err := r.scaler.FitTransform(y)
	if err != nil {
		return nil, err
	}

	r.priors = computePriors(xTrain, yNorm, r.Options)
	r.logger.Info("Starting BART sampler",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, y.Len(),
		log.TestSamplesKey, len(testRows),
		log.FeaturesKey, len(cols),
		log.NumTreesKey, r.Options.NumTrees,
		log.BurnInKey, r.Options.BurnIn,
		log.DrawsKey, r.Options.NumDraws,
		log.SigmaHatKey, r.priors.SigmaHat,
		log.LambdaKey, r.priors.Lambda,
		log.NuKey, r.priors.Nu,
		log.LeafPriorKey, r.priors.SigmaPrior,
		log.RandomSeedKey, r.Options.RandomState,
	)

	s := newSampler(r.Options, r.priors, cols, mat.Col(nil, 0, yNorm), testRows)
	callbacks := r.Options.Callbacks
	if r.Options.ShowProgress {
		callbacks = append(slices.Clip(callbacks), LogProgress(r.logger, max(1, r.Options.NumDraws/10)))
	}

	sum, err := s.run(callbacks)
	if err != nil {
		return nil, err
	}

	r.trees = s.trees
	r.sigma = s.sigma
	r.sigmaTrace = s.sigmaTrace
	r.moves = s.moves

	pred = mat.NewVecDense(len(sum), sum)
	pred.ScaleVec(1/float64(r.Options.NumDraws-r.Options.BurnIn), pred)
	pred, err = r.scaler.InverseTransform(pred)
	if err != nil {
		return nil, err
	}
	r.SetFitted()

	r.logger.Info("BART sampler finished",
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.SigmaKey, r.sigma,
	)
	return pred, nil
}

// Score fits on the training data and returns R² of the predictions for xTest.
func (r *Regressor) Score(xTrain, yTrain, xTest, yTest mat.Matrix) (float64, error) {
	pred, err := r.FitPredict(xTrain, yTrain, xTest)
	if err != nil {
		return 0, err
	}
	rows, c := yTest.Dims()
	if c != 1 {
		return 0, errors.NewDimensionError("Regressor.Score", 1, c, 1)
	}
	score, err := metrics.R2Score(mat.NewVecDense(rows, mat.Col(nil, 0, yTest)), pred)
	if err != nil {
		return 0, err
	}
	r.logger.Info("Scored BART predictions", log.OperationKey, log.OperationScore, log.R2ScoreKey, score)
	return score, nil
}

// Trees returns the ensemble as it stood after the last iteration.
func (r *Regressor) Trees() ([]*Tree, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "Trees")
	}
	return r.trees, nil
}

// SigmaTrace returns the sigma drawn at every iteration, in normalized units.
func (r *Regressor) SigmaTrace() ([]float64, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "SigmaTrace")
	}
	return r.sigmaTrace, nil
}

// Acceptance returns proposal and acceptance counts per move type.
func (r *Regressor) Acceptance() (map[Move]MoveStats, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "Acceptance")
	}
	out := make(map[Move]MoveStats, numMoves)
	for m := Move(0); m < numMoves; m++ {
		out[m] = r.moves[m]
	}
	return out, nil
}

// Priors returns the hyperparameters derived during the last fit.
func (r *Regressor) Priors() (Priors, error) {
	if !r.IsFitted() {
		return Priors{}, errors.NewNotFittedError("Regressor", "Priors")
	}
	return r.priors, nil
}

// validateInputs checks shapes and values and returns the training features
// column-major, the response, and the test rows.
func validateInputs(xTrain, yTrain, xTest mat.Matrix) ([][]float64, *mat.VecDense, [][]float64, error) {
	n, p := xTrain.Dims()
	if n == 0 || p == 0 {
		return nil, nil, nil, errors.NewModelError("FitPredict", "empty training data", errors.ErrEmptyData)
	}
	yr, yc := yTrain.Dims()
	if yc != 1 {
		return nil, nil, nil, errors.NewDimensionError("FitPredict.yTrain", 1, yc, 1)
	}
	if yr != n {
		return nil, nil, nil, errors.NewDimensionError("FitPredict.yTrain", n, yr, 0)
	}
	m, tp := xTest.Dims()
	if m == 0 {
		return nil, nil, nil, errors.NewModelError("FitPredict", "empty test data", errors.ErrEmptyData)
	}
	if tp != p {
		return nil, nil, nil, errors.NewDimensionError("FitPredict.xTest", p, tp, 1)
	}

	if err := errors.CheckMatrix("FitPredict.xTrain", xTrain, n, p, -1); err != nil {
		return nil, nil, nil, err
	}
	if err := errors.CheckMatrix("FitPredict.yTrain", yTrain, n, 1, -1); err != nil {
		return nil, nil, nil, err
	}
	if err := errors.CheckMatrix("FitPredict.xTest", xTest, m, p, -1); err != nil {
		return nil, nil, nil, err
	}

	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = mat.Col(nil, j, xTrain)
	}
	rows := make([][]float64, m)
	for i := range rows {
		rows[i] = mat.Row(nil, i, xTest)
	}
	return cols, mat.NewVecDense(n, mat.Col(nil, 0, yTrain)), rows, nil
}

// sampler holds the mutable ensemble state of one run. Trees are updated
// strictly in order and share one random stream.
type sampler struct {
	opts   Options
	priors Priors
	rng    *rand.Rand

	cols     [][]float64 // training features, column-major
	y        []float64   // normalized response
	testRows [][]float64

	trees      []*Tree
	treeTrain  [][]float64 // per-tree train predictions
	treeTest   [][]float64 // per-tree test predictions
	trainTotal []float64
	testTotal  []float64
	residual   []float64

	sigma      float64
	sigmaTrace []float64
	moves      [numMoves]MoveStats
}

func newSampler(o Options, p Priors, cols [][]float64, y []float64, testRows [][]float64) *sampler {
	n, m := len(y), len(testRows)
	s := &sampler{
		opts:       o,
		priors:     p,
		rng:        rand.New(rand.NewPCG(o.RandomState, o.RandomState)),
		cols:       cols,
		y:          y,
		testRows:   testRows,
		trees:      make([]*Tree, o.NumTrees),
		treeTrain:  make([][]float64, o.NumTrees),
		treeTest:   make([][]float64, o.NumTrees),
		trainTotal: make([]float64, n),
		testTotal:  make([]float64, m),
		residual:   make([]float64, n),
		sigma:      p.SigmaHat,
		sigmaTrace: make([]float64, 0, o.NumDraws),
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	params := s.leafParams()
	for j := range s.trees {
		t := NewTree(append([]int(nil), all...))
		t.UpdateStats(y)
		resampleLeaves(t, params, s.rng)
		s.trees[j] = t
		s.treeTrain[j] = make([]float64, n)
		s.treeTest[j] = make([]float64, m)
		s.refreshPredictions(j)
		floats.Add(s.trainTotal, s.treeTrain[j])
		floats.Add(s.testTotal, s.treeTest[j])
	}
	return s
}

func (s *sampler) leafParams() LeafParams {
	return LeafParams{Sigma: s.sigma, SigmaPrior: s.priors.SigmaPrior}
}

// refreshPredictions recomputes tree j's train and test contributions.
func (s *sampler) refreshPredictions(j int) {
	t := s.trees[j]
	t.fillTrainPredictions(s.treeTrain[j])
	dst := s.treeTest[j]
	parallel.ParallelizeWithThreshold(len(s.testRows), predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = t.Predict(s.testRows[i])
		}
	})
}

// run performs every iteration and returns the sum of the test predictions
// over the post burn-in iterations, in normalized units.
func (s *sampler) run(callbacks []Callback) ([]float64, error) {
	sum := make([]float64, len(s.testTotal))
	for it := 0; it < s.opts.NumDraws; it++ {
		s.iterate()
		if err := errors.CheckScalar("FitPredict.sigma", s.sigma, it); err != nil {
			return nil, err
		}
		if it >= s.opts.BurnIn {
			floats.Add(sum, s.testTotal)
		}
		if len(callbacks) == 0 {
			continue
		}
		env := s.callbackEnv(it)
		for _, cb := range callbacks {
			if err := cb(env); err != nil {
				return nil, errors.Wrapf(err, "callback failed at iteration %d", it)
			}
		}
	}
	return sum, nil
}

// iterate updates every tree once, then draws sigma.
func (s *sampler) iterate() {
	m := &mover{
		cols:     s.cols,
		residual: s.residual,
		params:   s.leafParams(),
		alpha:    s.opts.Alpha,
		beta:     s.opts.Beta,
		probs:    s.opts.Moves,
		rng:      s.rng,
	}
	for j, t := range s.trees {
		floats.Sub(s.trainTotal, s.treeTrain[j])
		floats.Sub(s.testTotal, s.treeTest[j])
		floats.SubTo(s.residual, s.y, s.trainTotal)

		t.UpdateStats(s.residual)
		move, _, accepted := m.propose(t)
		s.moves[move].Proposed++
		if accepted {
			s.moves[move].Accepted++
		}
		resampleLeaves(t, m.params, s.rng)

		s.refreshPredictions(j)
		floats.Add(s.trainTotal, s.treeTrain[j])
		floats.Add(s.testTotal, s.treeTest[j])
	}

	floats.SubTo(s.residual, s.y, s.trainTotal)
	s.sigma = drawSigma(s.residual, s.priors.Nu, s.priors.Lambda, s.rng)
	s.sigmaTrace = append(s.sigmaTrace, s.sigma)
}

func (s *sampler) callbackEnv(it int) *CallbackEnv {
	env := &CallbackEnv{
		Iteration:  it,
		NumDraws:   s.opts.NumDraws,
		BurnIn:     s.opts.BurnIn,
		Sigma:      s.sigma,
		Moves:      s.moves,
		LeafCounts: make([]int, len(s.trees)),
		MaxDepths:  make([]int, len(s.trees)),
	}
	for j, t := range s.trees {
		env.LeafCounts[j] = len(t.Leaves())
		env.MaxDepths[j] = t.MaxDepth()
	}
	return env
}
