package svm

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/rbfsvm/core/model"
	"github.com/YuminosukeSato/rbfsvm/core/parallel"
	"github.com/YuminosukeSato/rbfsvm/metrics"
	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/YuminosukeSato/rbfsvm/pkg/log"
	"gonum.org/v1/gonum/mat"
)

var _ model.Regressor = (*KernelPredictor)(nil)

// KernelPredictor evaluates an RBF-kernel SVM decision function over a fixed
// ModelParameters. It holds no mutable state; all methods are safe for
// concurrent use.
type KernelPredictor struct {
	params *ModelParameters

	logger            log.Logger
	parallelThreshold int
	maxWorkers        int
}

// NewKernelPredictor binds params to a predictor.
//
// 使用例:
//
//	params, err := svm.NewModelParameters(set)
//	predictor, err := svm.NewKernelPredictor(params)
//	y, err := predictor.Evaluate([]float64{1, 1})
func NewKernelPredictor(params *ModelParameters, opts ...Option) (*KernelPredictor, error) {
	if params == nil {
		return nil, errors.NewModelError("NewKernelPredictor", "nil parameters", nil)
	}

	p := &KernelPredictor{
		params:            params,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("svm.predictor")
	}
	p.logger = p.logger.With(
		log.ModelNameKey, "KernelPredictor",
		log.ModelFingerprintKey, fmt.Sprintf("%016x", params.Fingerprint()),
	)

	p.logger.Debug("Kernel predictor ready",
		log.InputDimensionKey, params.InputDimension(),
		log.SupportVectorsKey, params.SupportVectorCount(),
		log.GammaKey, params.Gamma(),
		log.RhoKey, params.Rho(),
	)
	return p, nil
}

// Parameters returns the bundle the predictor evaluates.
func (p *KernelPredictor) Parameters() *ModelParameters { return p.params }

// InputDimension returns the feature count D expected by Evaluate.
func (p *KernelPredictor) InputDimension() int { return p.params.dim }

// Evaluate computes the decision value for one feature vector:
//
//	s[j]   = (x[j] - featureBias[j]) * featureScale[j]
//	total  = Σ_i dualCoefficients[i] * exp(-‖supportVectors[i] - s‖² * gamma)
//	result = (total - rho) * outputScale + outputBias
//
// len(x) must equal InputDimension(); otherwise an error marked
// errors.ErrInvalidArgument is returned and nothing is computed. NaN and
// ±Inf results are returned as is.
func (p *KernelPredictor) Evaluate(x []float64) (float64, error) {
	if len(x) != p.params.dim {
		return 0, errors.NewInvalidArgumentError("KernelPredictor.Evaluate", p.params.dim, len(x))
	}
	scaled := make([]float64, p.params.dim)
	p.params.scaleInto(scaled, x)
	return p.params.decision(scaled), nil
}

// KernelContributions returns the weighted kernel response of every support
// vector for x, in support-vector order. Their sum is the decision value
// before rho and output scaling are applied.
func (p *KernelPredictor) KernelContributions(x []float64) ([]float64, error) {
	if len(x) != p.params.dim {
		return nil, errors.NewInvalidArgumentError("KernelPredictor.KernelContributions", p.params.dim, len(x))
	}
	scaled := make([]float64, p.params.dim)
	p.params.scaleInto(scaled, x)

	out := make([]float64, p.params.nSV)
	for i := range out {
		out[i] = p.params.kernelTerm(i, scaled)
	}
	return out, nil
}

// Predict evaluates every row of X and returns an n×1 matrix of decision
// values. Each row gives exactly the value Evaluate would return for it.
// Large inputs are split across goroutines.
func (p *KernelPredictor) Predict(X mat.Matrix) (mat.Matrix, error) {
	const op = "KernelPredictor.Predict"

	r, c := X.Dims()
	if c != p.params.dim {
		return nil, errors.NewInvalidArgumentError(op, p.params.dim, c)
	}
	if r == 0 {
		return nil, errors.Mark(errors.NewValueError(op, "no rows to predict"), errors.ErrEmptyData)
	}

	start := time.Now()
	out := make([]float64, r)
	workers, err := parallel.ParallelizeWithThreshold(r, p.parallelThreshold, p.maxWorkers, func(lo, hi int) error {
		return errors.SafeExecute(op, func() error {
			row := make([]float64, c)
			scaled := make([]float64, c)
			for i := lo; i < hi; i++ {
				mat.Row(row, i, X)
				p.params.scaleInto(scaled, row)
				out[i] = p.params.decision(scaled)
			}
			return nil
		})
	})
	if err != nil {
		p.logger.Error("Batch prediction failed", err, log.OperationKey, "predict", log.SamplesKey, r)
		return nil, err
	}

	if w := errors.CheckNonFinite(op, out); w != nil {
		errors.Warn(w)
		p.logger.Debug("Batch prediction produced non-finite values",
			log.OperationKey, "predict",
			log.NonFiniteKey, w.Count,
		)
	}

	p.logger.Debug("Batch prediction finished",
		log.OperationKey, "predict",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.WorkersKey, workers,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return mat.NewDense(r, 1, out), nil
}

// Score returns the coefficient of determination R² of Predict(X) against
// the column vector y.
func (p *KernelPredictor) Score(X, y mat.Matrix) (float64, error) {
	const op = "KernelPredictor.Score"

	r, _ := X.Dims()
	ry, cy := y.Dims()
	if ry != r {
		return 0, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return 0, errors.NewValueError(op, "y must be a column vector")
	}

	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}

	yTrue := mat.NewVecDense(r, mat.Col(nil, 0, y))
	yPred := mat.NewVecDense(r, mat.Col(nil, 0, pred))
	score, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	p.logger.Debug("Score computed", log.OperationKey, "score", log.SamplesKey, r, log.R2ScoreKey, score)
	return score, nil
}
