// Package linear は最小二乗法による線形回帰を提供する。
// BARTでは誤差分散の事前分布を較正するために残差の標準偏差を求める用途で使われる。
package linear

import (
	"github.com/YuminosukeSato/bartgo/core/model"
	"github.com/YuminosukeSato/bartgo/core/parallel"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
func (lr *LinearRegression) Fit(X mat.Matrix, y mat.Vector) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, y.Len(), 0)
	}

	lr.Reset()
	lr.NFeatures = c

	// X_with_intercept = [1, X]
	XWithIntercept := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var XTX mat.Dense
	XTX.Mul(XWithIntercept.T(), XWithIntercept)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var XTy mat.VecDense
	XTy.MulVec(XWithIntercept.T(), y)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.VecDenseCopyOf(weights.SliceVec(1, c+1))
	lr.SetFitted()

	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// y = X * weights + intercept
	predictions := mat.NewVecDense(r, nil)
	predictions.MulVec(X, lr.Weights)
	for i := 0; i < r; i++ {
		predictions.SetVec(i, predictions.AtVec(i)+lr.Intercept)
	}

	return predictions, nil
}

// Residuals は y - Predict(X) を返す
func (lr *LinearRegression) Residuals(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return nil, err
	}
	if y.Len() != pred.Len() {
		return nil, errors.NewDimensionError("LinearRegression.Residuals", pred.Len(), y.Len(), 0)
	}
	pred.SubVec(y, pred)
	return pred, nil
}

// ResidualStd は X に対する y の最小二乗残差の標準偏差を返す。
// 正規方程式が特異な場合は errors.ErrSingularMatrix をラップしたエラーを返す。
func ResidualStd(X mat.Matrix, y mat.Vector) (float64, error) {
	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		return 0, err
	}
	res, err := lr.Residuals(X, y)
	if err != nil {
		return 0, err
	}
	if res.Len() < 2 {
		return 0, nil
	}
	return stat.StdDev(mat.Col(nil, 0, res), nil), nil
}
