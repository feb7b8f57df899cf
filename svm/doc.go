// Package svm evaluates support vector regression and classification models
// that use a Gaussian (RBF) kernel.
//
// A trained model is captured in a ModelParameters, built from a
// ParameterSet literal, a libsvm model file (ReadLibSVMModel) or a saved
// bundle (LoadBundle, LoadBundleFile). A KernelPredictor binds one
// ModelParameters and computes
//
//	s[j]   = (x[j] - featureBias[j]) * featureScale[j]
//	f(x)   = (Σ_i coef[i] * exp(-gamma * ‖sv[i] - s‖²) - rho) * outputScale + outputBias
//
// Neither type is mutated after construction, so both may be shared freely
// between goroutines.
package svm
