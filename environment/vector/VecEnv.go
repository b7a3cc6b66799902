// Package vector implements vectorized environments, which run
// multiple instances of an environment in lockstep for throughput
package vector

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// Env is a vectorized environment: a fixed number of environment
// instances sharing observation and action spaces, stepped in
// lockstep.
//
// When an instance's episode ends, its TimeStep for that call has
// StepType timestep.Last. On the following Step call the instance is
// automatically reset, its action is ignored, and the First TimeStep
// of the new episode is returned in its slot.
type Env interface {
	// Len returns the number of environment instances
	Len() int

	// Reset resets every instance and returns their First TimeSteps
	Reset() []ts.TimeStep

	// Step steps every instance simultaneously with the corresponding
	// action. Step panics if len(actions) != Len(); illegal actions
	// panic inside the instances themselves.
	Step(actions []*mat.VecDense) []ts.TimeStep

	ObservationSpec() env.Spec
	ActionSpec() env.Spec
}

// validate ensures a non-empty instance list with matching
// observation and action spaces
func validate(envs []env.Environment) error {
	if len(envs) == 0 {
		return fmt.Errorf("vector env needs at least one instance")
	}

	obs, act := envs[0].ObservationSpec(), envs[0].ActionSpec()
	for i, e := range envs[1:] {
		if !e.ObservationSpec().Eq(obs) {
			return fmt.Errorf("instance %d observation space does not "+
				"match instance 0", i+1)
		}
		if !e.ActionSpec().Eq(act) {
			return fmt.Errorf("instance %d action space does not match "+
				"instance 0", i+1)
		}
	}
	return nil
}

// Sync is an Env that steps its instances sequentially in the calling
// goroutine
type Sync struct {
	envs []env.Environment
	done []bool
}

// NewSync creates a vectorized environment from the given instances,
// stepped sequentially
func NewSync(envs ...env.Environment) (*Sync, error) {
	if err := validate(envs); err != nil {
		return nil, fmt.Errorf("newsync: %v", err)
	}

	return &Sync{envs: envs, done: make([]bool, len(envs))}, nil
}

// Len returns the number of environment instances
func (s *Sync) Len() int {
	return len(s.envs)
}

// Reset resets every instance
func (s *Sync) Reset() []ts.TimeStep {
	steps := make([]ts.TimeStep, len(s.envs))
	for i, e := range s.envs {
		steps[i] = e.Reset()
		s.done[i] = false
	}
	return steps
}

// Step steps every instance with its corresponding action,
// auto-resetting instances whose episodes ended on the previous call
func (s *Sync) Step(actions []*mat.VecDense) []ts.TimeStep {
	if len(actions) != len(s.envs) {
		panic(fmt.Sprintf("step: got %d actions for %d instances",
			len(actions), len(s.envs)))
	}

	steps := make([]ts.TimeStep, len(s.envs))
	for i := range s.envs {
		steps[i] = s.stepInstance(i, actions[i])
	}
	return steps
}

func (s *Sync) stepInstance(i int, action *mat.VecDense) ts.TimeStep {
	if s.done[i] {
		s.done[i] = false
		return s.envs[i].Reset()
	}

	step, last := s.envs[i].Step(action)
	s.done[i] = last
	return step
}

// ObservationSpec returns the observation specification shared by all
// instances
func (s *Sync) ObservationSpec() env.Spec {
	return s.envs[0].ObservationSpec()
}

// ActionSpec returns the action specification shared by all instances
func (s *Sync) ActionSpec() env.Spec {
	return s.envs[0].ActionSpec()
}
