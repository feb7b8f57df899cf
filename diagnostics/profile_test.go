package diagnostics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/YuminosukeSato/rbfsvm/pkg/log"
	"github.com/YuminosukeSato/rbfsvm/svm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
)

func examplePredictor(t *testing.T, gamma float64) *svm.KernelPredictor {
	t.Helper()
	params, err := svm.NewModelParameters(svm.ParameterSet{
		InputDimension:     2,
		SupportVectorCount: 1,
		FeatureBias:        []float64{0, 0},
		FeatureScale:       []float64{1, 1},
		SupportVectors:     [][]float64{{1, 1}},
		DualCoefficients:   []float64{2.0},
		Gamma:              gamma,
		Rho:                0.1,
		OutputScale:        1.0,
		OutputBias:         0.0,
	})
	require.NoError(t, err)
	logger, _ := log.NewTestLogger(log.LevelError)
	p, err := svm.NewKernelPredictor(params, svm.WithLogger(logger))
	require.NoError(t, err)
	return p
}

func TestProfile(t *testing.T) {
	p := examplePredictor(t, 0.5)
	base := []float64{1, 1}

	prof, err := Profile(p, base, 0, -1, 3, 5)
	require.NoError(t, err)
	require.Len(t, prof.Points, 5)

	ys := prof.Values()
	assert.Equal(t, 1.9, ys[2], "peak sits on the support vector")
	assert.Equal(t, ys[1], ys[3], "profile is symmetric around the support vector")
	assert.Less(t, ys[0], ys[1])
	assert.Equal(t, []float64{-1, 0, 1, 2, 3}, []float64{
		prof.Points[0].X, prof.Points[1].X, prof.Points[2].X, prof.Points[3].X, prof.Points[4].X,
	})

	// base is copied
	base[1] = 42
	assert.Equal(t, []float64{1, 1}, prof.Base)
}

func TestProfile_InvalidArguments(t *testing.T) {
	p := examplePredictor(t, 0.5)

	_, err := Profile(p, []float64{1}, 0, 0, 1, 10)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = Profile(p, []float64{1, 1}, 2, 0, 1, 10)
	assert.Error(t, err)

	_, err = Profile(p, []float64{1, 1}, 0, 0, 1, 1)
	assert.Error(t, err)

	_, err = Profile(p, []float64{1, 1}, 0, 1, 1, 10)
	assert.Error(t, err)
}

func TestDecisionProfile_SavePlot(t *testing.T) {
	p := examplePredictor(t, 0.5)
	prof, err := Profile(p, []float64{1, 1}, 1, -2, 4, 50)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.png")
	require.NoError(t, prof.SavePlot(path, "feature 1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDecisionProfile_PlotDropsNonFinite(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	prof := &DecisionProfile{Feature: 0}
	prof.Points = append(prof.Points,
		plotter.XY{X: 0, Y: 1},
		plotter.XY{X: 1, Y: math.Inf(1)},
		plotter.XY{X: 2, Y: 0.5},
	)

	pl, err := prof.Plot("with gaps")
	require.NoError(t, err)
	assert.NotNil(t, pl)
	require.Len(t, warnings, 1)

	allInf := &DecisionProfile{}
	allInf.Points = append(allInf.Points, plotter.XY{X: 0, Y: math.NaN()})
	_, err = allInf.Plot("nothing")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
