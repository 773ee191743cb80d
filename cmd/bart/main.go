// Command bart fits a BART regression on .npy data and writes the posterior
// mean predictions for the test rows.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bartgo/bart"
	"github.com/YuminosukeSato/bartgo/dataset"
	"github.com/YuminosukeSato/bartgo/diagnostics"
	"github.com/YuminosukeSato/bartgo/metrics"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/YuminosukeSato/bartgo/pkg/log"
)

type options struct {
	XTrain string `arg:"--x-train,required" help:"training features (.npy, rows x features)"`
	YTrain string `arg:"--y-train,required" help:"training response (.npy)"`
	XTest  string `arg:"--x-test,required" help:"test features (.npy)"`
	Out    string `arg:"--out" help:"where to write the predictions (.npy)"`
	YTest  string `arg:"--y-test" help:"optional test response, enables RMSE and R2 reporting"`

	Trees  int     `arg:"--trees" help:"number of trees in the ensemble"`
	BurnIn int     `arg:"--burn-in" help:"iterations discarded before averaging"`
	Draws  int     `arg:"--draws" help:"total MCMC iterations"`
	Alpha  float64 `arg:"--alpha" help:"tree prior base"`
	Beta   float64 `arg:"--beta" help:"tree prior depth power"`
	K      float64 `arg:"--k" help:"leaf prior shrinkage"`
	Seed   uint64  `arg:"--seed" help:"random seed"`

	TracePlot string `arg:"--trace-plot" help:"write a sigma trace plot to this path (.png, .svg, .pdf)"`
	TreeDir   string `arg:"--tree-dir" help:"render the final trees into this directory"`
	TreeFmt   string `arg:"--tree-format" help:"tree image format: svg, png or jpg"`
	LogLevel  string `arg:"--log-level" help:"debug, info, warn or error"`
	Progress  bool   `arg:"--progress" help:"log sampler progress"`
}

func defaultOptions() options {
	d := bart.DefaultOptions()
	return options{
		Out:      "predictions.npy",
		Trees:    d.NumTrees,
		BurnIn:   d.BurnIn,
		Draws:    d.NumDraws,
		Alpha:    d.Alpha,
		Beta:     d.Beta,
		K:        d.K,
		Seed:     d.RandomState,
		TreeFmt:  "svg",
		LogLevel: "info",
	}
}

func main() {
	args := defaultOptions()
	arg.MustParse(&args)

	if err := log.SetupLogger(args.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(args, log.GetLoggerWithName("cmd.bart")); err != nil {
		log.GetLogger().Error("bart failed", log.ErrAttr(err)...)
		os.Exit(1)
	}
}

var treeFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

func run(args options, logger log.Logger) error {
	treeFormat, ok := treeFormats[strings.ToLower(args.TreeFmt)]
	if !ok {
		return errors.NewValidationError("tree_format", "must be one of svg, png, jpg", args.TreeFmt)
	}

	xTrain, err := dataset.LoadNpy(args.XTrain)
	if err != nil {
		return err
	}
	yTrain, err := dataset.LoadNpy(args.YTrain)
	if err != nil {
		return err
	}
	xTest, err := dataset.LoadNpy(args.XTest)
	if err != nil {
		return err
	}

	opts := []bart.Option{
		bart.WithNumTrees(args.Trees),
		bart.WithBurnIn(args.BurnIn),
		bart.WithNumDraws(args.Draws),
		bart.WithTreePrior(args.Alpha, args.Beta),
		bart.WithK(args.K),
		bart.WithRandomState(args.Seed),
		bart.WithLogger(logger),
	}
	if args.Progress {
		opts = append(opts, bart.WithProgress())
	}
	r, err := bart.NewRegressor(opts...)
	if err != nil {
		return err
	}

	pred, err := r.FitPredict(xTrain, yTrain, xTest)
	if err != nil {
		return err
	}
	if err := dataset.SaveNpy(args.Out, pred); err != nil {
		return err
	}
	logger.Info("Predictions written", "path", args.Out, log.TestSamplesKey, pred.Len())

	if args.YTest != "" {
		if err := report(args.YTest, pred, logger); err != nil {
			return err
		}
	}

	trace, err := r.SigmaTrace()
	if err != nil {
		return err
	}
	if s, err := diagnostics.Summarize(diagnostics.PostBurnIn(trace, args.BurnIn)); err == nil {
		logger.Info("Sigma posterior", log.SigmaKey, s.Mean, "std", s.Std, "p5", s.P5, "p95", s.P95)
	}
	if args.TracePlot != "" {
		if err := diagnostics.PlotTrace(trace, args.BurnIn, args.TracePlot); err != nil {
			return err
		}
	}

	if args.TreeDir != "" {
		trees, err := r.Trees()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(args.TreeDir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", args.TreeDir)
		}
		if err := diagnostics.RenderTrees(trees, treeFormat, args.TreeDir); err != nil {
			return err
		}
	}
	return nil
}

func report(path string, pred *mat.VecDense, logger log.Logger) error {
	yTest, err := dataset.LoadNpy(path)
	if err != nil {
		return err
	}
	r, c := yTest.Dims()
	if c != 1 {
		return errors.NewDimensionError("report", 1, c, 1)
	}
	if r != pred.Len() {
		return errors.NewDimensionError("report", pred.Len(), r, 0)
	}
	y := mat.VecDenseCopyOf(yTest.ColView(0))

	rmse, err := metrics.RMSE(y, pred)
	if err != nil {
		return err
	}
	r2, err := metrics.R2Score(y, pred)
	if err != nil {
		return err
	}
	logger.Info("Test metrics", log.RMSEKey, rmse, log.R2ScoreKey, r2)
	return nil
}
