package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is an ODE right-hand side. Implementations must be pure: the
// returned slice is owned by the caller.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Span is the closed integration interval [Start, End].
type Span struct {
	Start float64
	End   float64
}

func (s Span) Length() float64 { return s.End - s.Start }

type Config struct {
	Dt   float64
	Span Span
}

func DefaultConfig() Config {
	return Config{
		Dt:   0.002,
		Span: Span{Start: 0, End: 50},
	}
}

// Validate rejects configurations that cannot start an integration.
func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, c.Dt)
	}
	if !isFinite(c.Span.Start) || !isFinite(c.Span.End) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidSpan, c.Span.Start, c.Span.End)
	}
	if c.Span.End < c.Span.Start {
		return fmt.Errorf("%w: end %g before start %g", ErrInvalidSpan, c.Span.End, c.Span.Start)
	}
	return nil
}

// Steps returns the number of whole steps that fit in the span.
// No final partial step is taken, so the last sample may fall short of
// Span.End by up to Dt.
func (c Config) Steps() int {
	return StepCount(c.Span, c.Dt)
}

// StepCount returns floor((End-Start)/dt), lowered when rounding would put
// Start+N*dt past End.
func StepCount(span Span, dt float64) int {
	if dt <= 0 || span.End <= span.Start {
		return 0
	}
	n := int(math.Floor(span.Length() / dt))
	for n > 0 && span.Start+float64(n)*dt > span.End {
		n--
	}
	return n
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
