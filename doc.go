// Package bartgo implements Bayesian Additive Regression Trees for Go,
// sampled with a Metropolis-within-Gibbs MCMC over tree structures.
//
// A BART model writes the response as a sum of many shallow trees plus
// Gaussian noise. Each iteration visits every tree in turn, proposes one
// structural move against the residual left by the other trees (grow a leaf,
// prune a pair of leaves, change a split rule or swap a parent and child
// rule), accepts or rejects it, redraws the leaf values and finally redraws
// the noise level. Predictions are the average ensemble output over the
// post burn-in draws.
//
// # Installation
//
//	go get github.com/YuminosukeSato/bartgo
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/bartgo/bart"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9})
//	    y := mat.NewVecDense(6, []float64{0, 0, 0, 3, 3, 3})
//	    xTest := mat.NewDense(2, 1, []float64{0.25, 0.75})
//
//	    reg, err := bart.NewRegressor(
//	        bart.WithNumTrees(20),
//	        bart.WithBurnIn(100),
//	        bart.WithNumDraws(500),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, err := reg.FitPredict(X, y, xTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(pred))
//	}
//
// # Packages
//
//   - bart: trees, priors, MCMC moves and the Regressor
//   - diagnostics: sigma trace plots, tree rendering, posterior summaries
//   - dataset: .npy loading and saving
//   - linear: ordinary least squares, used for the noise prior
//   - metrics: MSE, RMSE, MAE, R²
//   - preprocessing: response scaling to [-0.5, 0.5]
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: chunked parallel loops
//   - pkg/errors, pkg/log: error types and structured logging
//
// The cmd/bart command runs the whole pipeline on .npy files.
package bartgo
