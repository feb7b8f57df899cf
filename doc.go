// Package rbfsvm evaluates trained support vector machines that use a
// Gaussian (RBF) kernel, for backend services and embedded inference where
// a model trained elsewhere must produce the same decision values in Go.
//
// # Features
//
// - Exact decision function: normalise, sum weighted kernel responses, subtract rho, de-normalise
// - Immutable parameter bundles safe to share across goroutines
// - Loaders for libsvm model files and for JSON/zstd/gob bundles
// - Batch prediction with automatic parallelization
// - Structured errors and logging
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/rbfsvm/svm"
//	)
//
//	func main() {
//	    params, err := svm.NewModelParameters(svm.ParameterSet{
//	        InputDimension:     2,
//	        SupportVectorCount: 1,
//	        FeatureBias:        []float64{0, 0},
//	        FeatureScale:       []float64{1, 1},
//	        SupportVectors:     [][]float64{{1, 1}},
//	        DualCoefficients:   []float64{2},
//	        Gamma:              0.5,
//	        Rho:                0.1,
//	        OutputScale:        1,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    predictor, err := svm.NewKernelPredictor(params)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    y, err := predictor.Evaluate([]float64{1, 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(y) // 1.9
//	}
//
// # Packages
//
//   - svm: ModelParameters, KernelPredictor, libsvm reader, bundle persistence
//   - preprocessing: StandardScaler, MinMaxScaler and TargetScaler producing svm.Scaling values
//   - metrics: Evaluation metrics (MSE, RMSE, MAE, R²)
//   - diagnostics: Decision profiles and plots
//   - core/model: Core interfaces and gob persistence
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: Error types, warnings and structured logging
//   - cmd/svmeval: Command-line evaluator
//
// # Errors
//
// A parameter bundle that is internally inconsistent is rejected when it is
// built, with an error marked errors.ErrInvalidModel. An input vector of the
// wrong length is rejected by Evaluate with an error marked
// errors.ErrInvalidArgument. Non-finite results are returned unchanged.
package rbfsvm
