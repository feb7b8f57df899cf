package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/rbfsvm/core/model"
	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/YuminosukeSato/rbfsvm/svm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	_ model.Transformer = (*StandardScaler)(nil)
	_ model.Transformer = (*MinMaxScaler)(nil)
)

// 分散・範囲がこれより小さい特徴量は定数とみなし、スケールを1にする
const constantFeatureTol = 1e-8

// StandardScaler はデータを平均0、標準偏差1に変換する
//
// 学習結果は Scaling() で svm.Scaling に変換でき、
// 入力の正規化をモデルのパラメータに埋め込める。
type StandardScaler struct {
	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差（母標準偏差）
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool

	fitted bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// IsFitted は Fit 済みかどうかを返す
func (s *StandardScaler) IsFitted() bool { return s.fitted }

// Fit は訓練データから各特徴量の平均と標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Mark(errors.NewValueError("StandardScaler.Fit", "empty data"), errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)

		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1.0
		if s.WithStd && std >= constantFeatureTol {
			// 平均を引かない場合も分散は平均まわりで測る
			s.Scale[j] = std
		}
	}

	s.fitted = true
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

// Scaling は学習結果を svm.Scaling（中心化定数と乗数）として返す
//
// 使用例:
//
//	x, _ := scaler.Scaling()
//	params, err := libsvmModel.Parameters(x, target.Output())
func (s *StandardScaler) Scaling() (svm.Scaling, error) {
	if !s.fitted {
		return svm.Scaling{}, errors.NewNotFittedError("StandardScaler", "Scaling")
	}
	mult := make([]float64, s.NFeatures)
	for j, sd := range s.Scale {
		mult[j] = 1 / sd
	}
	return svm.Scaling{Bias: append([]float64(nil), s.Mean...), Scale: mult}, nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler はデータを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	// DataMin は学習データの最小値
	DataMin []float64

	// DataMax は学習データの最大値
	DataMax []float64

	// Scale は各特徴量のスケール (max - min)。定数特徴量は1
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64

	fitted bool
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// IsFitted は Fit 済みかどうかを返す
func (m *MinMaxScaler) IsFitted() bool { return m.fitted }

// Fit は訓練データから最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Mark(errors.NewValueError("MinMaxScaler.Fit", "empty data"), errors.ErrEmptyData)
	}
	if !(m.FeatureRange[1] > m.FeatureRange[0]) {
		return errors.NewValidationError("feature_range", "upper bound must exceed lower bound", m.FeatureRange)
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m.DataMin[j] = floats.Min(col)
		m.DataMax[j] = floats.Max(col)

		m.Scale[j] = m.DataMax[j] - m.DataMin[j]
		if math.Abs(m.Scale[j]) < constantFeatureTol {
			m.Scale[j] = 1.0
		}
	}

	m.fitted = true
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v-m.DataMin[j])/m.Scale[j]*width + m.FeatureRange[0]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v-m.FeatureRange[0])/width*m.Scale[j] + m.DataMin[j]
	}, X)
	return result, nil
}

// Scaling は学習結果を svm.Scaling として返す
//
// s = (x - bias) * mult が Transform と同じ値になるように
// bias = min - lo*range/width, mult = width/range とする。
func (m *MinMaxScaler) Scaling() (svm.Scaling, error) {
	if !m.fitted {
		return svm.Scaling{}, errors.NewNotFittedError("MinMaxScaler", "Scaling")
	}
	lo := m.FeatureRange[0]
	width := m.FeatureRange[1] - lo
	bias := make([]float64, m.NFeatures)
	mult := make([]float64, m.NFeatures)
	for j := range bias {
		bias[j] = m.DataMin[j] - lo*m.Scale[j]/width
		mult[j] = width / m.Scale[j]
	}
	return svm.Scaling{Bias: bias, Scale: mult}, nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if !m.fitted {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}

// TargetScaler は目的変数を平均0、標準偏差1に正規化する
//
// モデルは正規化された目的変数で学習されるため、
// Output() が決定値を元の単位に戻す svm.OutputScaling を返す。
type TargetScaler struct {
	Mean float64
	Std  float64

	fitted bool
}

// Fit は目的変数の平均と母標準偏差を計算する
func (t *TargetScaler) Fit(y []float64) error {
	if len(y) == 0 {
		return errors.Mark(errors.NewValueError("TargetScaler.Fit", "empty target"), errors.ErrEmptyData)
	}
	t.Mean, t.Std = stat.PopMeanStdDev(y, nil)
	if t.Std < constantFeatureTol {
		t.Std = 1.0
	}
	t.fitted = true
	return nil
}

// Transform は y を正規化した新しいスライスを返す
func (t *TargetScaler) Transform(y []float64) ([]float64, error) {
	if !t.fitted {
		return nil, errors.NewNotFittedError("TargetScaler", "Transform")
	}
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = (v - t.Mean) / t.Std
	}
	return out, nil
}

// Output は決定値を元の単位に戻すための svm.OutputScaling を返す
func (t *TargetScaler) Output() svm.OutputScaling {
	if !t.fitted {
		return svm.IdentityOutput
	}
	return svm.OutputScaling{Bias: t.Mean, Scale: t.Std}
}
