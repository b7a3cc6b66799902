// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended. It is only meaningful on a
// TimeStep whose StepType is Last.
type EndType int

const (
	// Nil denotes a step that does not end an episode
	Nil EndType = iota

	// TerminalStateReached denotes an episode that ended because the
	// environment reached a terminal state
	TerminalStateReached

	// Timeout denotes an episode that was cut off at a step limit
	Timeout
)

// TimeStep packages together a single timestep in an environment.
//
// Reward is the reward exposed to the agent, which environment wrappers
// may modify. Monitor always holds the reward of the innermost,
// unwrapped environment so that the ground-truth return of an episode
// can be recovered even when evaluating under a substituted reward.
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Monitor     float64
	Discount    float64
	Observation mat.Vector
	Number      int
	endType     EndType
}

// New constructs a new TimeStep. The Monitor reward is set equal to the
// environment reward; wrappers that substitute rewards overwrite Reward
// and leave Monitor untouched.
func New(t StepType, reward, discount float64, obs mat.Vector,
	number int) TimeStep {
	return TimeStep{t, reward, reward, discount, obs, number, Nil}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd records why the episode ended at this TimeStep
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// End returns the reason the episode ended at this TimeStep, or Nil if
// the TimeStep does not end an episode
func (t *TimeStep) End() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
