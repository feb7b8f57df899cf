package svm

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// ParameterSet is the literal form of a trained model, as emitted by a code
// generator or read from a bundle. It carries no behaviour; pass it to
// NewModelParameters to obtain a validated, immutable ModelParameters.
type ParameterSet struct {
	InputDimension     int         `json:"input_dimension"`
	SupportVectorCount int         `json:"support_vector_count"`
	FeatureBias        []float64   `json:"feature_bias"`
	FeatureScale       []float64   `json:"feature_scale"`
	SupportVectors     [][]float64 `json:"support_vectors"` // N rows of length D
	DualCoefficients   []float64   `json:"dual_coefficients"`
	Gamma              float64     `json:"gamma"`
	Rho                float64     `json:"rho"`
	OutputScale        float64     `json:"output_scale"`
	OutputBias         float64     `json:"output_bias"`
}

// ModelParameters is a validated parameter bundle for one trained RBF model.
// It is never mutated after construction and may be shared by any number of
// goroutines.
type ModelParameters struct {
	dim int
	nSV int

	featureBias  []float64
	featureScale []float64

	// N×D, one row per support vector
	supportVectors *mat.Dense

	dualCoefficients []float64

	gamma       float64
	rho         float64
	outputScale float64
	outputBias  float64

	fingerprint uint64
}

// NewModelParameters validates set and copies it into an immutable bundle.
//
// Every structural inconsistency (non-positive D or N, slice lengths that do
// not match D or N, ragged support-vector rows) is reported as an error
// marked with errors.ErrInvalidModel. Non-positive gamma or output scale are
// accepted; they only raise a ParameterWarning.
func NewModelParameters(set ParameterSet) (*ModelParameters, error) {
	d, n := set.InputDimension, set.SupportVectorCount

	if d <= 0 {
		return nil, errors.NewInvalidModelError("input_dimension", "must be positive", d)
	}
	if n <= 0 {
		return nil, errors.NewInvalidModelError("support_vector_count", "must be positive", n)
	}
	if len(set.FeatureBias) != d {
		return nil, errors.NewInvalidModelError("feature_bias", lengthReason("input dimension", d), len(set.FeatureBias))
	}
	if len(set.FeatureScale) != d {
		return nil, errors.NewInvalidModelError("feature_scale", lengthReason("input dimension", d), len(set.FeatureScale))
	}
	if len(set.DualCoefficients) != n {
		return nil, errors.NewInvalidModelError("dual_coefficients", lengthReason("support vector count", n), len(set.DualCoefficients))
	}
	if len(set.SupportVectors) != n {
		return nil, errors.NewInvalidModelError("support_vectors", "row count must equal support vector count", len(set.SupportVectors))
	}

	sv := mat.NewDense(n, d, nil)
	for i, row := range set.SupportVectors {
		if len(row) != d {
			return nil, errors.NewInvalidModelError("support_vectors", lengthReason("input dimension", d)+" in every row", len(row))
		}
		sv.SetRow(i, row)
	}

	if !(set.Gamma > 0) {
		errors.Warn(errors.NewParameterWarning("gamma", set.Gamma, "kernel width is not positive; kernel response no longer decays with distance"))
	}
	if !(set.OutputScale > 0) {
		errors.Warn(errors.NewParameterWarning("output_scale", set.OutputScale, "output scale is not positive"))
	}

	p := &ModelParameters{
		dim:              d,
		nSV:              n,
		featureBias:      cloneFloats(set.FeatureBias),
		featureScale:     cloneFloats(set.FeatureScale),
		supportVectors:   sv,
		dualCoefficients: cloneFloats(set.DualCoefficients),
		gamma:            set.Gamma,
		rho:              set.Rho,
		outputScale:      set.OutputScale,
		outputBias:       set.OutputBias,
	}
	p.fingerprint = p.computeFingerprint()
	return p, nil
}

func lengthReason(what string, want int) string {
	return "length must equal " + what + " " + strconv.Itoa(want)
}

// InputDimension returns D.
func (p *ModelParameters) InputDimension() int { return p.dim }

// SupportVectorCount returns N.
func (p *ModelParameters) SupportVectorCount() int { return p.nSV }

// Gamma returns the Gaussian kernel width.
func (p *ModelParameters) Gamma() float64 { return p.gamma }

// Rho returns the decision-function offset.
func (p *ModelParameters) Rho() float64 { return p.rho }

// OutputScale returns the de-normalisation multiplier.
func (p *ModelParameters) OutputScale() float64 { return p.outputScale }

// OutputBias returns the de-normalisation offset.
func (p *ModelParameters) OutputBias() float64 { return p.outputBias }

// FeatureBias returns a copy of the per-feature centering constants.
func (p *ModelParameters) FeatureBias() []float64 { return cloneFloats(p.featureBias) }

// FeatureScale returns a copy of the per-feature multipliers.
func (p *ModelParameters) FeatureScale() []float64 { return cloneFloats(p.featureScale) }

// DualCoefficients returns a copy of the support-vector weights.
func (p *ModelParameters) DualCoefficients() []float64 { return cloneFloats(p.dualCoefficients) }

// SupportVector returns a copy of support vector i.
func (p *ModelParameters) SupportVector(i int) []float64 {
	return mat.Row(nil, i, p.supportVectors)
}

// SupportVectors returns a copy of the N×D support-vector matrix.
func (p *ModelParameters) SupportVectors() *mat.Dense {
	return mat.DenseCopyOf(p.supportVectors)
}

// Fingerprint identifies the bundle by an xxhash64 of its shape and the
// IEEE-754 bits of every parameter; bit-identical bundles share a fingerprint.
func (p *ModelParameters) Fingerprint() uint64 { return p.fingerprint }

// ParameterSet returns a deep copy of the bundle in literal form.
func (p *ModelParameters) ParameterSet() ParameterSet {
	rows := make([][]float64, p.nSV)
	for i := range rows {
		rows[i] = p.SupportVector(i)
	}
	return ParameterSet{
		InputDimension:     p.dim,
		SupportVectorCount: p.nSV,
		FeatureBias:        p.FeatureBias(),
		FeatureScale:       p.FeatureScale(),
		SupportVectors:     rows,
		DualCoefficients:   p.DualCoefficients(),
		Gamma:              p.gamma,
		Rho:                p.rho,
		OutputScale:        p.outputScale,
		OutputBias:         p.outputBias,
	}
}

func (p *ModelParameters) computeFingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(bits uint64) {
		binary.LittleEndian.PutUint64(buf[:], bits)
		_, _ = h.Write(buf[:])
	}
	putAll := func(vs []float64) {
		for _, v := range vs {
			put(math.Float64bits(v))
		}
	}

	put(uint64(p.dim))
	put(uint64(p.nSV))
	putAll(p.featureBias)
	putAll(p.featureScale)
	for i := 0; i < p.nSV; i++ {
		putAll(p.supportVectors.RawRowView(i))
	}
	putAll(p.dualCoefficients)
	putAll([]float64{p.gamma, p.rho, p.outputScale, p.outputBias})
	return h.Sum64()
}

func cloneFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
