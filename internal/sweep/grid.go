package sweep

import (
	"errors"
	"fmt"

	"github.com/san-kum/edgesim/internal/dynamo"
)

// ErrLabelCollision marks a grid whose initial conditions are not
// distinguishable at label precision.
var ErrLabelCollision = errors.New("sweep: initial conditions share a label")

// Grid holds the candidate initial x and y values. The sweep covers their
// full Cartesian product.
type Grid struct {
	X []float64
	Y []float64
}

func (g Grid) Size() int {
	return len(g.X) * len(g.Y)
}

// Task is one grid point.
type Task struct {
	Index int
	X     float64
	Y     float64
	Label string
}

func (t Task) State() dynamo.State {
	return dynamo.State{t.X, t.Y}
}

// Tasks enumerates the grid with x as the outer loop. The order only fixes
// indices and labels; results do not depend on it.
func (g Grid) Tasks() []Task {
	tasks := make([]Task, 0, g.Size())
	for _, x := range g.X {
		for _, y := range g.Y {
			tasks = append(tasks, Task{
				Index: len(tasks),
				X:     x,
				Y:     y,
				Label: Label(x, y),
			})
		}
	}
	return tasks
}

// Validate rejects grids in which two tasks would share a label and
// therefore the same output files.
func (g Grid) Validate() error {
	seen := make(map[string]Task, g.Size())
	for _, t := range g.Tasks() {
		if prev, ok := seen[t.Label]; ok {
			return fmt.Errorf("%w: (%g, %g) and (%g, %g) are both %s",
				ErrLabelCollision, prev.X, prev.Y, t.X, t.Y, t.Label)
		}
		seen[t.Label] = t
	}
	return nil
}

// Label names the artifacts of the initial condition (x, y).
func Label(x, y float64) string {
	return fmt.Sprintf("x%.2f_y%.2f", x, y)
}
