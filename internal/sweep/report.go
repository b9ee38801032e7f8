package sweep

import (
	"github.com/san-kum/edgesim/internal/dynamo"
	"github.com/san-kum/edgesim/internal/physics"
)

// Outcome summarises one finished task.
type Outcome struct {
	Task
	Samples int
	Final   dynamo.Sample
	Regime  physics.Regime
	Err     error
}

// Report holds one Outcome per task, in task order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns how many successfully integrated tasks ended in regime.
func (r *Report) Count(regime physics.Regime) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Samples > 0 && o.Regime == regime {
			n++
		}
	}
	return n
}
