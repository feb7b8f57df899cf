package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewInvalidArgumentError(t *testing.T) {
	err := NewInvalidArgumentError("KernelPredictor.Evaluate", 3, 2)

	want := "rbfsvm: KernelPredictor.Evaluate: dimension mismatch on axis 1 (features). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// 種別はマークで判定する
	if !Is(err, ErrInvalidArgument) {
		t.Error("Expected Is(err, ErrInvalidArgument) to be true")
	}
	if Is(err, ErrInvalidModel) {
		t.Error("Expected Is(err, ErrInvalidModel) to be false")
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("DimensionError = %+v, want Expected=3 Got=2", dimErr)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewInvalidModelError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "length mismatch",
			param:   "feature_scale",
			reason:  "length must equal input dimension 3",
			value:   2,
			wantMsg: "rbfsvm: validation failed for parameter 'feature_scale': length must equal input dimension 3 (got: 2)",
		},
		{
			name:    "non-positive dimension",
			param:   "input_dimension",
			reason:  "must be positive",
			value:   0,
			wantMsg: "rbfsvm: validation failed for parameter 'input_dimension': must be positive (got: 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInvalidModelError(tt.param, tt.reason, tt.value)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
			if !Is(err, ErrInvalidModel) {
				t.Error("Expected Is(err, ErrInvalidModel) to be true")
			}
			if Is(err, ErrInvalidArgument) {
				t.Error("Expected Is(err, ErrInvalidArgument) to be false")
			}

			var valErr *ValidationError
			if !As(err, &valErr) {
				t.Fatal("Error should be castable to *ValidationError")
			}
			if valErr.ParamName != tt.param {
				t.Errorf("ParamName = %q, want %q", valErr.ParamName, tt.param)
			}
		})
	}
}

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "ReadLibSVMModel",
			kind:    "malformed header",
			err:     fmt.Errorf("unexpected token"),
			wantMsg: "rbfsvm: ReadLibSVMModel: malformed header: unexpected token",
		},
		{
			name:    "without original error",
			op:      "LoadBundle",
			kind:    "fingerprint mismatch",
			err:     nil,
			wantMsg: "rbfsvm: LoadBundle: fingerprint mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
			if !Is(err, ErrInvalidModel) {
				t.Error("ModelError should be marked as ErrInvalidModel")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("MSE", "empty vector")

	want := "rbfsvm: MSE: empty vector"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in MinMaxScaler.Fit")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in MinMaxScaler.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}

	// ラップしてもマークは保持される
	marked := Wrapf(NewInvalidArgumentError("Predict", 4, 5), "row %d", 7)
	if !Is(marked, ErrInvalidArgument) {
		t.Error("Expected mark to survive wrapping")
	}
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewParameterWarning("gamma", 0, "kernel does not decay with distance"))

	if len(got) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(got))
	}
	want := "parameter 'gamma' = 0: kernel does not decay with distance"
	if got[0].Error() != want {
		t.Errorf("Error() = %v, want %v", got[0].Error(), want)
	}

	// zerolog関数が設定されていればそちらが優先される
	var bridged int
	SetZerologWarnFunc(func(error) { bridged++ })
	defer SetZerologWarnFunc(nil)

	Warn(NewParameterWarning("gamma", -1, "negative"))
	if bridged != 1 || len(got) != 1 {
		t.Errorf("Expected warning to be routed to zerolog func, bridged=%d handler=%d", bridged, len(got))
	}
}
