package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/bartgo/core/model"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ResponseScaler は応答変数を [-0.5, 0.5] の範囲に正規化するスケーラー
//
//	y' = (y - y_min) / (y_max - y_min) - 0.5
//
// BART の残差計算はすべて正規化された空間で行い、予測値は出力時のみ元のスケールに戻す。
type ResponseScaler struct {
	model.BaseEstimator

	// YMin は学習データの最小値
	YMin float64

	// YMax は学習データの最大値
	YMax float64
}

// NewResponseScaler は新しいResponseScalerを作成する
func NewResponseScaler() *ResponseScaler {
	return &ResponseScaler{}
}

// Fit は応答ベクトルの最小値・最大値を記録する
//
// 戻り値:
//   - error: 空のデータ、または定数の応答（範囲が0）の場合
func (s *ResponseScaler) Fit(y mat.Vector) error {
	n := y.Len()
	if n == 0 {
		return errors.NewModelError("ResponseScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	values := vectorValues(y)
	s.YMin = floats.Min(values)
	s.YMax = floats.Max(values)
	if s.YMax == s.YMin {
		return errors.NewValueError("ResponseScaler.Fit",
			fmt.Sprintf("response is constant (%g); cannot normalize", s.YMin))
	}

	s.SetFitted()
	return nil
}

// Transform は応答ベクトルを正規化する
func (s *ResponseScaler) Transform(y mat.Vector) (*mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ResponseScaler", "Transform")
	}
	span := s.YMax - s.YMin
	out := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		out.SetVec(i, (y.AtVec(i)-s.YMin)/span-0.5)
	}
	return out, nil
}

// FitTransform はFitとTransformを続けて実行する
func (s *ResponseScaler) FitTransform(y mat.Vector) (*mat.VecDense, error) {
	if err := s.Fit(y); err != nil {
		return nil, err
	}
	return s.Transform(y)
}

// InverseTransform は正規化された値を元のスケールに戻す
func (s *ResponseScaler) InverseTransform(y mat.Vector) (*mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ResponseScaler", "InverseTransform")
	}
	span := s.YMax - s.YMin
	out := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		out.SetVec(i, (y.AtVec(i)+0.5)*span+s.YMin)
	}
	return out, nil
}

// String はスケーラーの文字列表現を返す
func (s *ResponseScaler) String() string {
	if !s.IsFitted() {
		return "ResponseScaler()"
	}
	return fmt.Sprintf("ResponseScaler(y_min=%g, y_max=%g)", s.YMin, s.YMax)
}

func vectorValues(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
