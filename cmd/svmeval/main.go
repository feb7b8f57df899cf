// Command svmeval evaluates an RBF-kernel SVM over CSV feature rows and
// prints one decision value per row.
//
// Usage:
//
//	svmeval -model engine.json.zst < features.csv
//	svmeval -model engine.model -scaling scaler.json -input features.csv
//	svmeval -model engine.model -scaling scaler.json -save-bundle engine.json.zst
//
// Flags override the RBFSVM_* environment variables, which may also come
// from a dotenv file.
package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/YuminosukeSato/rbfsvm/diagnostics"
	"github.com/YuminosukeSato/rbfsvm/internal/config"
	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/YuminosukeSato/rbfsvm/pkg/log"
	"github.com/YuminosukeSato/rbfsvm/svm"
	"gonum.org/v1/gonum/mat"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("svmeval failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

type options struct {
	envFile    string
	model      string
	scaling    string
	input      string
	header     bool
	target     bool
	saveBundle string
	logLevel   string

	profile        string
	profileFeature int
	profileLo      float64
	profileHi      float64
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("svmeval", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.envFile, "env", "", "dotenv file to load (default .env if present)")
	fs.StringVar(&o.model, "model", "", "bundle (.json, .zst, .gob) or libsvm model file ($"+config.EnvModel+")")
	fs.StringVar(&o.scaling, "scaling", "", "scaler JSON for a libsvm model ($"+config.EnvScaling+")")
	fs.StringVar(&o.input, "input", "-", "CSV feature rows, - for stdin")
	fs.BoolVar(&o.header, "header", false, "skip the first CSV row")
	fs.BoolVar(&o.target, "target", false, "last CSV column is the observed value; report R² on stderr")
	fs.StringVar(&o.saveBundle, "save-bundle", "", "write the loaded model as a bundle and exit")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error ($"+config.EnvLogLevel+")")
	fs.StringVar(&o.profile, "profile", "", "render a decision profile through the first row to this image")
	fs.IntVar(&o.profileFeature, "profile-feature", 0, "feature swept by -profile")
	fs.Float64Var(&o.profileLo, "profile-lo", -1, "lower end of the -profile sweep")
	fs.Float64Var(&o.profileHi, "profile-hi", 1, "upper end of the -profile sweep")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if opts.model != "" {
		cfg.ModelPath = opts.model
	}
	if opts.scaling != "" {
		cfg.ScalingPath = opts.scaling
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := log.SetupLogger(stderr, cfg.LogLevel); err != nil {
		return err
	}
	if err := log.SetupZerolog(stderr, cfg.LogLevel); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("svmeval")

	if cfg.ModelPath == "" {
		return errors.Newf("no model given; use -model or %s", config.EnvModel)
	}
	params, err := loadModel(cfg.ModelPath, cfg.ScalingPath)
	if err != nil {
		return err
	}
	logger.Info("Model loaded",
		log.SourceKey, cfg.ModelPath,
		log.ModelFingerprintKey, fmt.Sprintf("%016x", params.Fingerprint()),
		log.InputDimensionKey, params.InputDimension(),
		log.SupportVectorsKey, params.SupportVectorCount(),
	)

	if opts.saveBundle != "" {
		if err := svm.SaveBundleFile(opts.saveBundle, params); err != nil {
			return err
		}
		logger.Info("Bundle written", log.SourceKey, opts.saveBundle)
		return nil
	}

	predictor, err := svm.NewKernelPredictor(params,
		svm.WithLogger(logger),
		svm.WithParallelThreshold(cfg.ParallelThreshold),
		svm.WithMaxWorkers(cfg.MaxWorkers),
	)
	if err != nil {
		return err
	}

	in := stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return errors.Wrap(err, "failed to open input")
		}
		defer f.Close()
		in = f
	}

	X, y, err := readRows(in, params.InputDimension(), opts.header, opts.target)
	if err != nil {
		return err
	}

	pred, err := predictor.Predict(X)
	if err != nil {
		return err
	}
	if err := writeColumn(stdout, pred); err != nil {
		return err
	}

	if opts.target {
		score, err := predictor.Score(X, y)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "R2 %s\n", strconv.FormatFloat(score, 'g', 6, 64))
	}

	if opts.profile != "" {
		prof, err := diagnostics.Profile(predictor, X.RawRowView(0), opts.profileFeature,
			opts.profileLo, opts.profileHi, 200)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s, feature %d", filepath.Base(cfg.ModelPath), opts.profileFeature)
		if err := prof.SavePlot(opts.profile, title); err != nil {
			return err
		}
		logger.Info("Profile written", log.SourceKey, opts.profile)
	}
	return nil
}

// loadModel opens a bundle by extension, or else parses a libsvm model and
// applies the scaler config. Without a scaler config the model is taken to
// be trained on raw features with an unscaled target.
func loadModel(path, scalingPath string) (*svm.ModelParameters, error) {
	switch filepath.Ext(path) {
	case ".json", ".zst", ".gob":
		return svm.LoadBundleFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open model")
	}
	defer f.Close()

	m, err := svm.ReadLibSVMModel(f)
	if err != nil {
		return nil, err
	}

	if scalingPath == "" {
		return m.Parameters(svm.IdentityScaling(m.MaxIndex()), svm.IdentityOutput)
	}
	sf, err := os.Open(scalingPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scaling config")
	}
	defer sf.Close()

	x, yScale, err := svm.ReadScalingConfig(sf)
	if err != nil {
		return nil, err
	}
	return m.Parameters(x, yScale)
}

// readRows parses CSV rows of d features, plus a trailing observed value
// when withTarget is set.
func readRows(r io.Reader, d int, skipHeader, withTarget bool) (*mat.Dense, *mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = d
	if withTarget {
		cr.FieldsPerRecord = d + 1
	}

	var xs, ys []float64
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, errors.Mark(errors.Wrap(err, "failed to read CSV"), errors.ErrInvalidArgument)
		}
		line++
		if skipHeader && line == 1 {
			continue
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "line %d, column %d", line, j+1)
			}
			if withTarget && j == d {
				ys = append(ys, v)
			} else {
				xs = append(xs, v)
			}
		}
	}

	n := len(xs) / d
	if n == 0 {
		return nil, nil, errors.Mark(errors.New("no feature rows"), errors.ErrEmptyData)
	}
	X := mat.NewDense(n, d, xs)
	if !withTarget {
		return X, nil, nil
	}
	return X, mat.NewDense(n, 1, ys), nil
}

func writeColumn(w io.Writer, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		bw.WriteString(strconv.FormatFloat(m.At(i, 0), 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "failed to write predictions")
}
