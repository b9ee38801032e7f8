// Package sink persists and renders sweep results: one series file per
// initial condition, a manifest, and a phase-plane figure.
package sink

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/san-kum/edgesim/internal/dynamo"
	"github.com/san-kum/edgesim/internal/export"
	"github.com/san-kum/edgesim/internal/physics"
	"github.com/san-kum/edgesim/internal/storage"
	"github.com/san-kum/edgesim/internal/sweep"
)

var markerColors = map[physics.Regime]color.Color{
	physics.Laminar:   color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	physics.EdgeState: color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	physics.Turbulent: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// Sink implements sweep.Sink on top of a storage.Store and an
// export.Figure.
type Sink struct {
	store *storage.Store
	fig   *export.Figure
	log   zerolog.Logger
}

// New creates the output directory if needed and returns a sink writing
// into it.
func New(dir string, log zerolog.Logger) (*Sink, error) {
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", dir, err)
	}
	return &Sink{
		store: st,
		fig:   export.NewFigure("edge tracking"),
		log:   log,
	}, nil
}

func (s *Sink) Store() *storage.Store { return s.store }

func (s *Sink) WriteSeries(label string, tr *dynamo.Trajectory) error {
	if err := s.store.WriteSeries(label, tr); err != nil {
		return err
	}
	s.log.Debug().
		Str("label", label).
		Str("file", s.store.SeriesPath(label)).
		Int("samples", tr.Len()).
		Msg("series written")
	return nil
}

// PlotSeries adds the trajectory to the figure. A trajectory with fewer
// than two finite leading samples has no curve to draw and is skipped
// with a warning.
func (s *Sink) PlotSeries(label string, tr *dynamo.Trajectory) error {
	err := s.fig.AddTrajectory(label, tr)
	if errors.Is(err, export.ErrTooShort) {
		s.log.Warn().Str("label", label).Int("samples", tr.Len()).Msg("trajectory not plottable")
		return nil
	}
	return err
}

func (s *Sink) PlotReferences(markers []physics.Marker, edgeY float64) error {
	s.fig.AddHLine(edgeY)
	for _, m := range markers {
		s.fig.AddPoint(export.Point{
			Name:  string(m.Regime),
			X:     m.State[0],
			Y:     m.State[1],
			Color: markerColors[m.Regime],
		})
	}
	return nil
}

// Render writes the figure to name inside the output directory and
// returns the final path.
func (s *Sink) Render(name string) (string, error) {
	path, err := s.fig.Save(filepath.Join(s.store.Dir(), name))
	if err != nil {
		return "", err
	}
	s.log.Info().Str("file", path).Int("curves", s.fig.Len()).Msg("figure rendered")
	return path, nil
}

// Finish records the report in the manifest.
func (s *Sink) Finish(m *storage.Manifest, report *sweep.Report) error {
	m.Runs = make([]storage.RunRecord, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rec := storage.RunRecord{
			Label:   o.Label,
			X0:      o.X,
			Y0:      o.Y,
			Samples: o.Samples,
		}
		if o.Samples > 0 {
			rec.File = filepath.Base(s.store.SeriesPath(o.Label))
			rec.FinalX = storage.Finite(o.Final.X)
			rec.FinalY = storage.Finite(o.Final.Y)
			rec.Regime = string(o.Regime)
		}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		m.Runs = append(m.Runs, rec)
	}

	if err := s.store.SaveManifest(m); err != nil {
		return fmt.Errorf("sink: manifest: %w", err)
	}
	s.log.Info().Str("id", m.ID).Int("runs", len(m.Runs)).Msg("manifest saved")
	return nil
}
