package svm

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/rbfsvm/core/model"
	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/klauspost/compress/zstd"
)

const (
	// BundleFormat identifies an rbfsvm parameter bundle.
	BundleFormat = "rbfsvm.rbf-svr"
	// BundleVersion is the bundle layout written by SaveBundle.
	BundleVersion = 1
)

// Bundle is the persisted form of a ModelParameters. Fingerprint is the hex
// form of ModelParameters.Fingerprint and is checked on load.
type Bundle struct {
	Format      string       `json:"format"`
	Version     int          `json:"version"`
	Fingerprint string       `json:"fingerprint"`
	Parameters  ParameterSet `json:"parameters"`
}

// NewBundle wraps p for persistence.
func NewBundle(p *ModelParameters) Bundle {
	return Bundle{
		Format:      BundleFormat,
		Version:     BundleVersion,
		Fingerprint: fingerprintHex(p.Fingerprint()),
		Parameters:  p.ParameterSet(),
	}
}

// Model validates the bundle header, rebuilds the parameters and verifies
// the fingerprint.
func (b Bundle) Model() (*ModelParameters, error) {
	const op = "Bundle.Model"

	if b.Format != BundleFormat {
		return nil, errors.NewModelError(op, "unknown format", errors.Newf("%q", b.Format))
	}
	if b.Version != BundleVersion {
		return nil, errors.NewModelError(op, "unsupported version", errors.Newf("%d", b.Version))
	}
	p, err := NewModelParameters(b.Parameters)
	if err != nil {
		return nil, err
	}
	if b.Fingerprint != "" && b.Fingerprint != fingerprintHex(p.Fingerprint()) {
		return nil, errors.NewModelError(op, "fingerprint mismatch",
			errors.Newf("bundle says %s, parameters hash to %s", b.Fingerprint, fingerprintHex(p.Fingerprint())))
	}
	return p, nil
}

func fingerprintHex(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// SaveBundle writes p to w as an indented JSON bundle.
// NaN and ±Inf parameters cannot be represented in JSON and are rejected.
func SaveBundle(w io.Writer, p *ModelParameters) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewBundle(p)); err != nil {
		return errors.Wrap(err, "failed to encode bundle")
	}
	return nil
}

// LoadBundle reads a JSON bundle written by SaveBundle.
func LoadBundle(r io.Reader) (*ModelParameters, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.NewModelError("LoadBundle", "decode", err)
	}
	return b.Model()
}

// SaveBundleFile writes p to path. The extension selects the encoding:
// ".zst" for zstd-compressed JSON, ".gob" for gob, anything else for JSON.
// The bundle is written to a temporary file in the same directory and
// renamed over path, so a failed save leaves any existing file untouched.
func SaveBundleFile(path string, p *ModelParameters) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create bundle file")
	}
	tmp := f.Name()

	if err := writeBundle(f, filepath.Ext(path), p); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to set bundle file mode")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to close bundle file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to replace bundle file")
	}
	return nil
}

func writeBundle(w io.Writer, ext string, p *ModelParameters) error {
	switch ext {
	case ".gob":
		return model.SaveModelToWriter(NewBundle(p), w)
	case ".zst":
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return errors.Wrap(err, "failed to create zstd writer")
		}
		if err := SaveBundle(zw, p); err != nil {
			_ = zw.Close()
			return err
		}
		return errors.Wrap(zw.Close(), "failed to flush zstd stream")
	default:
		return SaveBundle(w, p)
	}
}

// LoadBundleFile reads a bundle written by SaveBundleFile.
func LoadBundleFile(path string) (*ModelParameters, error) {
	if filepath.Ext(path) == ".gob" {
		var b Bundle
		if err := model.LoadModel(&b, path); err != nil {
			return nil, errors.NewModelError("LoadBundleFile", path, err)
		}
		return b.Model()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bundle file")
	}
	defer f.Close()

	if filepath.Ext(path) != ".zst" {
		return LoadBundle(f)
	}

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errors.NewModelError("LoadBundleFile", "zstd", err)
	}
	defer zr.Close()
	return LoadBundle(zr)
}
