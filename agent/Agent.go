// Package agent defines the action-selection interfaces that policy
// evaluation operates on
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goimitate/environment/vector"
	"github.com/samuelfneumann/goimitate/timestep"
)

// Policy determines how actions are selected in each state
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Seeder is a Policy whose random behaviour can be reseeded. Rollout
// generation reseeds Seeder policies from the caller's random source
// so that evaluation is reproducible.
type Seeder interface {
	Seed(seed uint64)
}

// Algorithm is a Policy produced by a training algorithm that owns an
// environment reference, for example because it wraps environments
// with preprocessing that its policy requires.
//
// SetEnv replaces the Algorithm's internal environment with e, which
// the Algorithm may decorate with its own wrappers. Env returns the
// Algorithm's current (possibly decorated) environment. After
// SetEnv(e), rollouts should be generated on Env() rather than on e
// directly so that any required preprocessing is applied.
type Algorithm interface {
	Policy

	SetEnv(e vector.Env) error
	Env() vector.Env
}
