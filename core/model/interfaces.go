// Package model はrbfsvmのモデルが満たすインターフェースと永続化ヘルパーを提供します。
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Evaluator は単一の特徴量ベクトルから決定値を計算するモデルのインターフェース
type Evaluator interface {
	// Evaluate は長さ InputDimension() のベクトルを1つのスカラーに変換する
	Evaluate(x []float64) (float64, error)

	// InputDimension はモデルが期待する特徴量の数を返す
	InputDimension() int
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データの各行に対する予測を n×1 の行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は予測の決定係数 R² を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor は回帰モデルとして使えるインターフェースの組み合わせ
type Regressor interface {
	Evaluator
	Predictor
	Scorer
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// InverseTransform は変換を逆方向に適用する
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
