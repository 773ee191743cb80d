package bart

import (
	"math"

	"github.com/YuminosukeSato/bartgo/linear"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Priors are the hyperparameters derived from the training data.
type Priors struct {
	SigmaHat   float64 // OLS residual std of the normalized response
	SigmaPrior float64 // std of the leaf-mean prior
	Nu         float64
	Lambda     float64
}

// computePriors derives the priors from x and the normalized response.
func computePriors(x mat.Matrix, yNorm *mat.VecDense, o Options) Priors {
	sigmaHat := estimateSigmaHat(x, yNorm)
	return Priors{
		SigmaHat:   sigmaHat,
		SigmaPrior: 0.5 / (o.K * math.Sqrt(float64(o.NumTrees))),
		Nu:         o.Nu,
		Lambda:     calibrateLambda(sigmaHat, o.Nu, o.Quantile),
	}
}

// calibrateLambda chooses lambda so that P(sigma² < sigmaHat²) = quantile
// under the prior sigma² ~ nu·lambda / X, X ~ noncentral χ²(nu, 1).
func calibrateLambda(sigmaHat, nu, quantile float64) float64 {
	return sigmaHat * sigmaHat * NoncentralChiSquaredQuantile(1-quantile, nu, 1) / nu
}

// estimateSigmaHat is the std of the OLS residuals of y on x, falling back
// to the std of y when the fit is singular or leaves no residual spread.
func estimateSigmaHat(x mat.Matrix, y *mat.VecDense) float64 {
	s, err := linear.ResidualStd(x, y)
	if err == nil && s > 0 && errors.IsFinite(s) {
		return s
	}

	reason := "least squares residuals have zero spread"
	if err != nil {
		reason = err.Error()
	}
	fallback := stat.StdDev(mat.Col(nil, 0, y), nil)
	errors.Warn(errors.NewPriorFallbackWarning("sigma_hat", reason, fallback))
	return fallback
}

// noncentralTerms bounds the Poisson mixture; the weight of later terms is
// below double precision for the noncentrality used here.
const noncentralTerms = 200

// NoncentralChiSquaredCDF evaluates the noncentral chi-squared distribution
// with k degrees of freedom and noncentrality nc at x, as a Poisson(nc/2)
// mixture of central chi-squared distributions.
func NoncentralChiSquaredCDF(x, k, nc float64) float64 {
	if x <= 0 {
		return 0
	}
	if nc == 0 {
		return distuv.ChiSquared{K: k}.CDF(x)
	}
	pois := distuv.Poisson{Lambda: nc / 2}
	var cdf float64
	for j := 0; j < noncentralTerms; j++ {
		w := pois.Prob(float64(j))
		cdf += w * distuv.ChiSquared{K: k + 2*float64(j)}.CDF(x)
		if float64(j) > nc && w < 1e-17 {
			break
		}
	}
	return math.Min(cdf, 1)
}

// NoncentralChiSquaredQuantile inverts NoncentralChiSquaredCDF by bisection.
func NoncentralChiSquaredQuantile(p, k, nc float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return math.Inf(1)
	}
	lo, hi := 0.0, k+nc+1
	for NoncentralChiSquaredCDF(hi, k, nc) < p {
		lo = hi
		hi *= 2
	}
	for i := 0; i < 200 && hi-lo > 1e-12*math.Max(1, hi); i++ {
		mid := (lo + hi) / 2
		if NoncentralChiSquaredCDF(mid, k, nc) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
