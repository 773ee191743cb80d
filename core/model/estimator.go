package model

import "gonum.org/v1/gonum/mat"

// FitPredictor は学習とテストデータへの予測を一度に行うモデルのインターフェース。
// 事後分布の平均を返すMCMCモデルのように、学習中にテストデータを必要とするモデルが実装する。
type FitPredictor interface {
	// FitPredict は訓練データで学習し、テストデータの予測値を返す
	FitPredict(xTrain, yTrain, xTest mat.Matrix) (*mat.VecDense, error)
}

// Scorer は予測性能を評価できるモデルのインターフェース
type Scorer interface {
	// Score はテストデータに対する決定係数（R²）を返す
	Score(xTrain, yTrain, xTest, yTest mat.Matrix) (float64, error)
}

// Estimator は学習状態を持つモデルのインターフェース
type Estimator interface {
	IsFitted() bool
	Reset()
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Estimator
	FitPredictor
	Scorer
}
