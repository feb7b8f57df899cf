package svm

import "github.com/YuminosukeSato/rbfsvm/pkg/log"

// DefaultParallelThreshold is the row count at or below which Predict stays
// on the calling goroutine.
const DefaultParallelThreshold = 256

// Option is a function that configures KernelPredictor
type Option func(*KernelPredictor)

// WithLogger sets the logger used by batch operations. Evaluate never logs.
func WithLogger(logger log.Logger) Option {
	return func(p *KernelPredictor) {
		p.logger = logger
	}
}

// WithParallelThreshold sets the row count above which Predict fans out
func WithParallelThreshold(rows int) Option {
	return func(p *KernelPredictor) {
		p.parallelThreshold = rows
	}
}

// WithMaxWorkers caps the goroutines used by Predict; 0 means one per CPU
func WithMaxWorkers(n int) Option {
	return func(p *KernelPredictor) {
		p.maxWorkers = n
	}
}
