package export

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/san-kum/edgesim/internal/dynamo"
)

func spiral(n int) *dynamo.Trajectory {
	tr := &dynamo.Trajectory{}
	for i := 0; i < n; i++ {
		t := float64(i) * 0.1
		tr.Samples = append(tr.Samples, dynamo.Sample{T: t, X: math.Exp(-t) * math.Cos(t), Y: math.Exp(-t) * math.Sin(t)})
	}
	return tr
}

func TestFigureSavePNG(t *testing.T) {
	fig := NewFigure("phase plane")
	if err := fig.AddTrajectory("a", spiral(50)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	fig.AddHLine(1)
	fig.AddPoint(Point{Name: "laminar", X: 0, Y: 0, Color: color.RGBA{B: 255, A: 255}})

	path, err := fig.Save(filepath.Join(t.TempDir(), "edge"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Ext(path) != ".png" {
		t.Errorf("expected .png default, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("expected PNG signature")
	}
}

func TestFigureSaveSVG(t *testing.T) {
	fig := NewFigure("phase plane")
	if err := fig.AddTrajectory("a", spiral(10)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	path, err := fig.Save(filepath.Join(t.TempDir(), "edge.svg"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty svg")
	}
}

func TestFigureTruncatesNonFinite(t *testing.T) {
	tr := spiral(5)
	tr.Samples[3].X = math.NaN()

	fig := NewFigure("")
	if err := fig.AddTrajectory("nan", tr); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := len(fig.curves[0].pts); got != 3 {
		t.Errorf("expected 3 finite points, got %d", got)
	}

	if _, err := fig.Save(filepath.Join(t.TempDir(), "nan.png")); err != nil {
		t.Errorf("save with truncated curve failed: %v", err)
	}
}

func TestFigureRejectsShortCurve(t *testing.T) {
	tr := spiral(3)
	tr.Samples[1].Y = math.Inf(1)

	fig := NewFigure("")
	err := fig.AddTrajectory("short", tr)
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if fig.Len() != 0 {
		t.Error("short curve should not be added")
	}
}

func TestFigureConcurrentAdd(t *testing.T) {
	fig := NewFigure("")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fig.AddTrajectory("c", spiral(20))
		}()
	}
	wg.Wait()

	if fig.Len() != 16 {
		t.Errorf("expected 16 curves, got %d", fig.Len())
	}
}
