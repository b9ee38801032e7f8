package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const manifestFile = "manifest.json"

// Manifest describes one sweep written into a store.
type Manifest struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Model       string             `json:"model"`
	Integrator  string             `json:"integrator"`
	Params      map[string]float64 `json:"params,omitempty"`
	Dt          float64            `json:"dt"`
	TStart      float64            `json:"t_start"`
	TEnd        float64            `json:"t_end"`
	XCandidates []float64          `json:"ic_x"`
	YCandidates []float64          `json:"ic_y"`
	Plot        string             `json:"plot,omitempty"`
	Runs        []RunRecord        `json:"runs"`
}

// RunRecord is the manifest entry of one initial condition. Final values
// are omitted when the trajectory ended non-finite.
type RunRecord struct {
	Label   string   `json:"label"`
	X0      float64  `json:"x0"`
	Y0      float64  `json:"y0"`
	File    string   `json:"file,omitempty"`
	Samples int      `json:"samples"`
	FinalX  *float64 `json:"final_x,omitempty"`
	FinalY  *float64 `json:"final_y,omitempty"`
	Regime  string   `json:"regime,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func NewManifest(model, integrator string) *Manifest {
	return &Manifest{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Model:      model,
		Integrator: integrator,
	}
}

// Finite returns &v, or nil for NaN and Inf which JSON cannot encode.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (s *Store) SaveManifest(m *Manifest) (err error) {
	f, err := os.Create(filepath.Join(s.baseDir, manifestFile))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func (s *Store) LoadManifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, manifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the manifests of the stores directly below parent, keyed by
// directory name. Directories without a readable manifest are skipped.
func List(parent string) (map[string]*Manifest, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Manifest{}, nil
		}
		return nil, err
	}

	runs := make(map[string]*Manifest)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		m, err := New(filepath.Join(parent, entry.Name())).LoadManifest()
		if err != nil {
			continue
		}
		runs[entry.Name()] = m
	}

	return runs, nil
}
