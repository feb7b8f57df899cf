package svm

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
)

// Scale modes accepted by ReadScalingConfig.
const (
	// ScaleMultiply stores multipliers: s = (x - bias) * scale.
	ScaleMultiply = "multiply"
	// ScaleDivide stores spreads such as a standard deviation or range:
	// s = (x - bias) / scale. They are converted to multipliers on load.
	ScaleDivide = "divide"
)

// ScalingConfig is the JSON form of the scalers that accompany a libsvm
// model:
//
//	{"x": [[bias...], [scale...]], "y": [bias, scale], "scale_mode": "divide"}
//
// An absent y means the identity output mapping; an absent scale_mode means
// ScaleMultiply.
type ScalingConfig struct {
	X         [][]float64 `json:"x"`
	Y         []float64   `json:"y,omitempty"`
	ScaleMode string      `json:"scale_mode,omitempty"`
}

// ReadScalingConfig decodes a ScalingConfig and resolves it into the input
// and output mappings that LibSVMModel.Parameters expects.
func ReadScalingConfig(r io.Reader) (Scaling, OutputScaling, error) {
	var cfg ScalingConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Scaling{}, OutputScaling{}, errors.NewModelError("ReadScalingConfig", "decode", err)
	}
	return cfg.Resolve()
}

// Resolve validates the config and converts spreads to multipliers when
// ScaleMode is ScaleDivide.
func (c ScalingConfig) Resolve() (Scaling, OutputScaling, error) {
	if len(c.X) != 2 {
		return Scaling{}, OutputScaling{}, errors.NewInvalidModelError("x", "must have a bias row and a scale row", len(c.X))
	}
	bias, scale := c.X[0], c.X[1]
	if len(bias) != len(scale) {
		return Scaling{}, OutputScaling{}, errors.NewInvalidModelError("x", lengthReason("bias row length", len(bias)), len(scale))
	}

	x := Scaling{Bias: cloneFloats(bias), Scale: cloneFloats(scale)}
	switch c.ScaleMode {
	case "", ScaleMultiply:
	case ScaleDivide:
		for j, v := range x.Scale {
			if v == 0 {
				return Scaling{}, OutputScaling{}, errors.NewInvalidModelError("x", "zero spread in divide mode at feature "+strconv.Itoa(j), v)
			}
			x.Scale[j] = 1 / v
		}
	default:
		return Scaling{}, OutputScaling{}, errors.NewInvalidModelError("scale_mode", "must be multiply or divide", c.ScaleMode)
	}

	y := IdentityOutput
	switch len(c.Y) {
	case 0:
	case 2:
		y = OutputScaling{Bias: c.Y[0], Scale: c.Y[1]}
	default:
		return Scaling{}, OutputScaling{}, errors.NewInvalidModelError("y", "must be [bias, scale]", len(c.Y))
	}
	return x, y, nil
}
