package errors

import (
	"math"
)

// CheckNonFinite scans values for NaN or ±Inf and returns a warning describing
// them, or nil when every value is finite. The values are never modified.
func CheckNonFinite(operation string, values []float64) *NumericalWarning {
	var w *NumericalWarning
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			continue
		}
		if w == nil {
			w = &NumericalWarning{Operation: operation, FirstIndex: i, FirstValue: v}
		}
		w.Count++
	}
	return w
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
