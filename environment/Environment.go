// Package environment outlines the interfaces needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goimitate/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when an episode ends. An Ender inspects each new
// TimeStep and, if the episode should end there, modifies the TimeStep
// so that its StepType is timestep.Last and its EndType records why.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment. Rewards are a function of the state, the action taken
// in that state, and the resulting next state.
type Task interface {
	Starter
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool

	// End checks whether a TimeStep ends the episode, adjusting its
	// StepType if so
	End(*timestep.TimeStep) bool

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the
	// first TimeStep of the new episode
	Reset() timestep.TimeStep

	// Step takes one environmental step given an action, returning the
	// next TimeStep and whether it is the last in the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool)

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
