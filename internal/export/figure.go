package export

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/edgesim/internal/dynamo"
)

var ErrTooShort = errors.New("export: curve needs at least two finite points")

// Default figure size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Point is a labelled scatter marker.
type Point struct {
	Name  string
	X, Y  float64
	Color color.Color
}

type curve struct {
	label string
	pts   plotter.XYs
}

// Figure collects phase-plane curves, markers and horizontal reference
// lines and renders them in one image. It is safe for concurrent use.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	mu     sync.Mutex
	curves []curve
	points []Point
	hlines []float64
}

func NewFigure(title string) *Figure {
	return &Figure{Title: title, XLabel: "x", YLabel: "y"}
}

// AddTrajectory adds the finite prefix of tr as an (x, y) curve. Plotting
// stops at the first NaN or Inf sample.
func (f *Figure) AddTrajectory(label string, tr *dynamo.Trajectory) error {
	pts := tr.Points()
	if len(pts) < 2 {
		return fmt.Errorf("%w: %s has %d", ErrTooShort, label, len(pts))
	}

	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X, xys[i].Y = p.X, p.Y
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.curves = append(f.curves, curve{label: label, pts: xys})
	return nil
}

func (f *Figure) AddPoint(p Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, p)
}

func (f *Figure) AddHLine(y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hlines = append(f.hlines, y)
}

// Len returns the number of curves added so far.
func (f *Figure) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.curves)
}

// Save renders the figure. The format follows the file extension
// (png, svg, pdf, ...); a path without extension gets ".png".
func (f *Figure) Save(path string) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".png"
	}

	p, err := f.build()
	if err != nil {
		return "", err
	}

	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return "", fmt.Errorf("export: save %s: %w", path, err)
	}
	return path, nil
}

func (f *Figure) build() (*plot.Plot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Add(plotter.NewGrid())

	// Workers finish in any order; sort so the colours are stable.
	curves := append([]curve(nil), f.curves...)
	sort.Slice(curves, func(i, j int) bool { return curves[i].label < curves[j].label })

	for i, c := range curves {
		l, err := plotter.NewLine(c.pts)
		if err != nil {
			return nil, fmt.Errorf("export: curve %s: %w", c.label, err)
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = plotutil.Color(i)
		p.Add(l)
	}

	for _, y := range f.hlines {
		y := y
		fn := plotter.NewFunction(func(float64) float64 { return y })
		fn.LineStyle.Width = vg.Points(1)
		fn.LineStyle.Color = color.Gray{Y: 96}
		fn.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(fn)
	}

	for _, pt := range f.points {
		s, err := plotter.NewScatter(plotter.XYs{{X: pt.X, Y: pt.Y}})
		if err != nil {
			return nil, fmt.Errorf("export: marker %s: %w", pt.Name, err)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(5)
		if pt.Color != nil {
			s.GlyphStyle.Color = pt.Color
		}
		p.Add(s)
		p.Legend.Add(strings.ToLower(pt.Name), s)
	}
	p.Legend.Top = true

	return p, nil
}
