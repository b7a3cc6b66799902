// Package wrappers implements environment wrappers
package wrappers

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// RewardFn computes a reward for transitioning from state to nextState
// by taking action
type RewardFn func(state, action, nextState mat.Vector) float64

// Reward wraps an Environment and substitutes its reward signal with a
// RewardFn, for example a reward model learned by an imitation or
// inverse reinforcement learning algorithm.
//
// The ground-truth reward of the wrapped environment is preserved in
// the Monitor field of every TimeStep the wrapper returns, so the
// environment-native return of an episode can still be recovered.
type Reward struct {
	env.Environment
	fn       RewardFn
	bounds   r1.Interval
	lastStep ts.TimeStep
}

// NewReward wraps e so that rewards are computed by fn. The bounds
// argument gives the range of fn for the wrapper's reward
// specification.
func NewReward(e env.Environment, fn RewardFn, bounds r1.Interval) *Reward {
	return &Reward{Environment: e, fn: fn, bounds: bounds}
}

// Reset resets the wrapped environment between episodes
func (r *Reward) Reset() ts.TimeStep {
	step := r.Environment.Reset()
	r.lastStep = step
	return step
}

// Step takes one step in the wrapped environment, replacing the
// environment's reward with the substituted reward. The ground-truth
// reward remains available in the returned TimeStep's Monitor field.
func (r *Reward) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	step, last := r.Environment.Step(a)

	// ts.New set Monitor to the inner environment's reward; only the
	// agent-visible reward is replaced.
	step.Reward = r.fn(r.lastStep.Observation, a, step.Observation)

	r.lastStep = step
	return step, last
}

// GetReward returns the substituted reward for a transition
func (r *Reward) GetReward(state, action, nextState mat.Vector) float64 {
	return r.fn(state, action, nextState)
}

// RewardSpec returns the reward specification of the substituted
// reward function
func (r *Reward) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{r.bounds.Min})
	upperBound := mat.NewVecDense(1, []float64{r.bounds.Max})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
