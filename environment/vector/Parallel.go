package vector

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// Parallel is an Env that steps each instance in its own goroutine.
// The semantics are identical to Sync; only the scheduling of the
// per-instance work differs. Instances must not share mutable state.
type Parallel struct {
	envs []env.Environment
	done []bool
}

// NewParallel creates a vectorized environment from the given
// instances, stepped concurrently
func NewParallel(envs ...env.Environment) (*Parallel, error) {
	if err := validate(envs); err != nil {
		return nil, fmt.Errorf("newparallel: %v", err)
	}

	return &Parallel{envs: envs, done: make([]bool, len(envs))}, nil
}

// Len returns the number of environment instances
func (p *Parallel) Len() int {
	return len(p.envs)
}

// Reset resets every instance concurrently
func (p *Parallel) Reset() []ts.TimeStep {
	steps := make([]ts.TimeStep, len(p.envs))

	var wg sync.WaitGroup
	for i := range p.envs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			steps[i] = p.envs[i].Reset()
			p.done[i] = false
		}(i)
	}
	wg.Wait()

	return steps
}

// Step steps every instance concurrently with its corresponding
// action, auto-resetting instances whose episodes ended on the
// previous call
func (p *Parallel) Step(actions []*mat.VecDense) []ts.TimeStep {
	if len(actions) != len(p.envs) {
		panic(fmt.Sprintf("step: got %d actions for %d instances",
			len(actions), len(p.envs)))
	}

	steps := make([]ts.TimeStep, len(p.envs))

	var wg sync.WaitGroup
	for i := range p.envs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if p.done[i] {
				p.done[i] = false
				steps[i] = p.envs[i].Reset()
				return
			}

			step, last := p.envs[i].Step(actions[i])
			p.done[i] = last
			steps[i] = step
		}(i)
	}
	wg.Wait()

	return steps
}

// ObservationSpec returns the observation specification shared by all
// instances
func (p *Parallel) ObservationSpec() env.Spec {
	return p.envs[0].ObservationSpec()
}

// ActionSpec returns the action specification shared by all instances
func (p *Parallel) ActionSpec() env.Spec {
	return p.envs[0].ActionSpec()
}
