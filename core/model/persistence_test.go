package model

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

type snapshot struct {
	Name    string
	Weights []float64
	Rows    [][]float64
}

func TestSaveLoadModel(t *testing.T) {
	want := snapshot{
		Name:    "rbf",
		Weights: []float64{1.5, -0.75},
		Rows:    [][]float64{{0.1, 0.2}, {0.3, 0.4}},
	}
	path := filepath.Join(t.TempDir(), "model.gob")

	if err := SaveModel(want, path); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	var got snapshot
	if err := LoadModel(&got, path); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	if got.Name != want.Name || len(got.Weights) != 2 || got.Weights[1] != -0.75 || got.Rows[1][0] != 0.3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestWriterReader(t *testing.T) {
	var buf bytes.Buffer
	if err := SaveModelToWriter(snapshot{Name: "x"}, &buf); err != nil {
		t.Fatal(err)
	}
	var got snapshot
	if err := LoadModelFromReader(&got, &buf); err != nil {
		t.Fatal(err)
	}
	if got.Name != "x" {
		t.Errorf("Name = %q, want x", got.Name)
	}
}

func TestLoadModel_Errors(t *testing.T) {
	var got snapshot
	if err := LoadModel(&got, filepath.Join(t.TempDir(), "absent.gob")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := LoadModelFromReader(&got, strings.NewReader("not gob")); err == nil {
		t.Error("expected error for corrupt stream")
	}
	if err := SaveModel(snapshot{}, filepath.Join(t.TempDir(), "no", "such", "dir.gob")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
