// Package log defines standard attribute keys for rbfsvm operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.fingerprint",
// "data.samples") so logs can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "KernelPredictor".
	ModelNameKey = "model.name"

	// ModelFingerprintKey carries the xxhash fingerprint of a parameter bundle.
	ModelFingerprintKey = "model.fingerprint"

	// OperationKey specifies the operation being performed.
	// Standard values: "predict", "score", "load", "save", "profile"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"
)

// Model shape
const (
	// InputDimensionKey is the number of features D the model expects.
	InputDimensionKey = "model.input_dimension"

	// SupportVectorsKey is the number of support vectors N.
	SupportVectorsKey = "model.support_vectors"

	// GammaKey is the Gaussian kernel width.
	GammaKey = "model.gamma"

	// RhoKey is the decision-function offset.
	RhoKey = "model.rho"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) supplied.
	FeaturesKey = "data.features"

	// SourceKey names where data or a model was read from (path or "stdin").
	SourceKey = "data.source"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey records how many goroutines served a batch.
	WorkersKey = "perf.workers"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// NonFiniteKey records how many outputs were NaN or ±Inf.
	NonFiniteKey = "preds.non_finite"
)
