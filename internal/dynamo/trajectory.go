package dynamo

import "math"

// Sample is one recorded point of a planar trajectory.
type Sample struct {
	T float64
	X float64
	Y float64
}

func (s Sample) State() State { return State{s.X, s.Y} }

func (s Sample) IsValid() bool {
	return isFinite(s.T) && isFinite(s.X) && isFinite(s.Y)
}

// Trajectory is the time-ordered output of one integration. It is not
// modified after the simulator returns it.
type Trajectory struct {
	Samples []Sample
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Samples)
}

func (tr *Trajectory) First() Sample {
	if tr.Len() == 0 {
		return Sample{T: math.NaN(), X: math.NaN(), Y: math.NaN()}
	}
	return tr.Samples[0]
}

func (tr *Trajectory) Last() Sample {
	if tr.Len() == 0 {
		return Sample{T: math.NaN(), X: math.NaN(), Y: math.NaN()}
	}
	return tr.Samples[len(tr.Samples)-1]
}

// IsFinite reports whether every sample is finite.
func (tr *Trajectory) IsFinite() bool {
	return tr.FiniteLen() == tr.Len()
}

// FiniteLen returns the length of the leading run of finite samples.
func (tr *Trajectory) FiniteLen() int {
	if tr == nil {
		return 0
	}
	for i, s := range tr.Samples {
		if !s.IsValid() {
			return i
		}
	}
	return tr.Len()
}

// Points returns the (x, y) pairs of the finite prefix of the trajectory.
func (tr *Trajectory) Points() []struct{ X, Y float64 } {
	n := tr.FiniteLen()
	pts := make([]struct{ X, Y float64 }, n)
	for i := 0; i < n; i++ {
		pts[i].X = tr.Samples[i].X
		pts[i].Y = tr.Samples[i].Y
	}
	return pts
}

// Series splits the trajectory into parallel time, x and y slices.
func (tr *Trajectory) Series() (ts, xs, ys []float64) {
	ts = make([]float64, tr.Len())
	xs = make([]float64, tr.Len())
	ys = make([]float64, tr.Len())
	for i, s := range tr.Samples {
		ts[i], xs[i], ys[i] = s.T, s.X, s.Y
	}
	return ts, xs, ys
}
