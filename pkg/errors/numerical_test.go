package errors

import (
	"math"
	"testing"
)

func TestCheckNonFinite(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantNil   bool
		wantCount int
		wantIndex int
	}{
		{name: "all finite", values: []float64{1, -2, 0, 1e300}, wantNil: true},
		{name: "empty", values: nil, wantNil: true},
		{name: "single nan", values: []float64{1, math.NaN(), 3}, wantCount: 1, wantIndex: 1},
		{name: "mixed", values: []float64{math.Inf(1), 2, math.Inf(-1), math.NaN()}, wantCount: 3, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := CheckNonFinite("test", tt.values)
			if tt.wantNil {
				if w != nil {
					t.Errorf("Expected nil warning, got %v", w)
				}
				return
			}
			if w == nil {
				t.Fatal("Expected warning, got nil")
			}
			if w.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", w.Count, tt.wantCount)
			}
			if w.FirstIndex != tt.wantIndex {
				t.Errorf("FirstIndex = %d, want %d", w.FirstIndex, tt.wantIndex)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("NaN and Inf should not be finite")
	}
}
