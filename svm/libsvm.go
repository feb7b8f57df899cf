package svm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
)

// SparseNode is one index:value pair of a libsvm support vector. Index is
// 1-based.
type SparseNode struct {
	Index int
	Value float64
}

// LibSVMModel is the content of a text model file written by libsvm's
// svm-train. Only the fields needed to rebuild an RBF decision function are
// interpreted; probA/probB, prob_density_marks, degree and coef0 are skipped.
type LibSVMModel struct {
	SVMType    string
	KernelType string
	Gamma      float64
	NrClass    int
	TotalSV    int
	Rho        []float64
	Labels     []int
	NrSV       []int

	// Coefficients has NrClass-1 columns of TotalSV weights each.
	Coefficients   [][]float64
	SupportVectors [][]SparseNode
}

// Scaling holds the per-feature centering constants and multipliers that
// map raw inputs into the space the model was trained in.
type Scaling struct {
	Bias  []float64
	Scale []float64
}

// OutputScaling maps the normalised decision value back to target units.
type OutputScaling struct {
	Bias  float64
	Scale float64
}

// IdentityOutput leaves the decision value untouched.
var IdentityOutput = OutputScaling{Bias: 0, Scale: 1}

// IdentityScaling returns a Scaling for d features that leaves inputs
// untouched.
func IdentityScaling(d int) Scaling {
	s := Scaling{Bias: make([]float64, d), Scale: make([]float64, d)}
	for j := range s.Scale {
		s.Scale[j] = 1
	}
	return s
}

const maxModelLine = 64 << 20

// ReadLibSVMModel parses a libsvm text model. Only rbf kernels are accepted;
// any malformed or unsupported content yields an error marked
// errors.ErrInvalidModel.
func ReadLibSVMModel(r io.Reader) (*LibSVMModel, error) {
	const op = "ReadLibSVMModel"

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxModelLine)

	m := &LibSVMModel{NrClass: 2}
	lineNo := 0
	inSV := false

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if inSV {
			if err := m.parseSVLine(line); err != nil {
				return nil, errors.NewModelError(op, "line "+strconv.Itoa(lineNo), err)
			}
			continue
		}

		fields := strings.Fields(line)
		key, args := fields[0], fields[1:]
		var err error
		switch key {
		case "svm_type":
			m.SVMType, err = single(args)
		case "kernel_type":
			m.KernelType, err = single(args)
			if err == nil && m.KernelType != "rbf" {
				return nil, errors.NewModelError(op, "unsupported kernel", errors.Newf("kernel_type %q", m.KernelType))
			}
		case "gamma":
			var s string
			if s, err = single(args); err == nil {
				m.Gamma, err = strconv.ParseFloat(s, 64)
			}
		case "nr_class":
			var s string
			if s, err = single(args); err == nil {
				m.NrClass, err = strconv.Atoi(s)
			}
		case "total_sv":
			var s string
			if s, err = single(args); err == nil {
				m.TotalSV, err = strconv.Atoi(s)
			}
		case "rho":
			m.Rho, err = parseFloats(args)
		case "label":
			m.Labels, err = parseInts(args)
		case "nr_sv":
			m.NrSV, err = parseInts(args)
		case "probA", "probB", "prob_density_marks", "degree", "coef0":
		case "SV":
			if m.NrClass < 2 {
				return nil, errors.NewModelError(op, "header", errors.Newf("nr_class %d", m.NrClass))
			}
			m.Coefficients = make([][]float64, m.NrClass-1)
			inSV = true
		default:
			return nil, errors.NewModelError(op, "line "+strconv.Itoa(lineNo), errors.Newf("unknown text in model file: %q", line))
		}
		if err != nil {
			return nil, errors.NewModelError(op, key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewModelError(op, "read", err)
	}

	switch {
	case !inSV:
		return nil, errors.NewModelError(op, "missing SV section", nil)
	case m.KernelType == "":
		return nil, errors.NewModelError(op, "missing kernel_type", nil)
	case len(m.Rho) == 0:
		return nil, errors.NewModelError(op, "missing rho", nil)
	case len(m.SupportVectors) == 0:
		return nil, errors.NewModelError(op, "no support vectors", nil)
	case m.TotalSV != 0 && m.TotalSV != len(m.SupportVectors):
		return nil, errors.NewModelError(op, "total_sv mismatch",
			errors.Newf("header says %d, file has %d", m.TotalSV, len(m.SupportVectors)))
	}
	m.TotalSV = len(m.SupportVectors)
	return m, nil
}

func (m *LibSVMModel) parseSVLine(line string) error {
	fields := strings.Fields(line)
	k := len(m.Coefficients)
	if len(fields) < k {
		return errors.Newf("expected %d coefficients, got %d fields", k, len(fields))
	}
	for c := 0; c < k; c++ {
		v, err := strconv.ParseFloat(fields[c], 64)
		if err != nil {
			return err
		}
		m.Coefficients[c] = append(m.Coefficients[c], v)
	}

	nodes := make([]SparseNode, 0, len(fields)-k)
	for _, f := range fields[k:] {
		idx, val, ok := strings.Cut(f, ":")
		if !ok {
			return errors.Newf("malformed node %q", f)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return err
		}
		if i < 1 {
			return errors.Newf("feature index %d is not 1-based", i)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		nodes = append(nodes, SparseNode{Index: i, Value: v})
	}
	m.SupportVectors = append(m.SupportVectors, nodes)
	return nil
}

// MaxIndex returns the largest feature index used by any support vector.
func (m *LibSVMModel) MaxIndex() int {
	hi := 0
	for _, sv := range m.SupportVectors {
		for _, n := range sv {
			if n.Index > hi {
				hi = n.Index
			}
		}
	}
	return hi
}

// Parameters builds a validated bundle from the first decision function of
// the model. The input dimension is len(x.Bias); sparse rows are padded with
// zeros up to it.
func (m *LibSVMModel) Parameters(x Scaling, y OutputScaling) (*ModelParameters, error) {
	d := len(x.Bias)
	if d < m.MaxIndex() {
		return nil, errors.NewInvalidModelError("feature_bias",
			"scaling covers fewer features than the support vectors use (max index "+strconv.Itoa(m.MaxIndex())+")", d)
	}

	rows := make([][]float64, len(m.SupportVectors))
	for i, sv := range m.SupportVectors {
		row := make([]float64, d)
		for _, n := range sv {
			row[n.Index-1] = n.Value
		}
		rows[i] = row
	}

	return NewModelParameters(ParameterSet{
		InputDimension:     d,
		SupportVectorCount: len(rows),
		FeatureBias:        x.Bias,
		FeatureScale:       x.Scale,
		SupportVectors:     rows,
		DualCoefficients:   m.Coefficients[0],
		Gamma:              m.Gamma,
		Rho:                m.Rho[0],
		OutputScale:        y.Scale,
		OutputBias:         y.Bias,
	})
}

func single(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Newf("expected one value, got %d", len(args))
	}
	return args[0], nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
