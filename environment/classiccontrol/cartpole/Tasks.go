package cartpole

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// FailAngle is the default pole angle at which the Balance task fails
const FailAngle float64 = 12 * 2 * math.Pi / 360

// Balance implements the classic control Cartpole Balance task. In
// this task, the goal of the agent is to balance the pole on the cart
// in an upright position for as long as possible.
//
// The rewards are +1 for every timestep the pole is above the fail
// angle θ and -1 once the pole has fallen below it.
//
// Episodes end after a step limit or after the pole has fallen below
// the fail angle θ.
type Balance struct {
	env.Starter
	stepLimiter  env.Ender
	angleLimiter env.Ender
	failAngle    float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int, failAngle float64) *Balance {
	stepLimiter := env.NewStepLimit(episodeSteps)

	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleFeatureIndex := []int{2}
	angleLimiter := env.NewIntervalLimit(legalAngles, angleFeatureIndex,
		ts.TerminalStateReached)

	return &Balance{s, stepLimiter, angleLimiter, failAngle}
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType to timestep.Last and returns true.
// Otherwise, the function does not adjust the TimeStep and returns
// false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.angleLimiter.End(t); end {
		return true
	}
	return b.stepLimiter.End(t)
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState
func (b *Balance) GetReward(_, _, nextState mat.Vector) float64 {
	angle := math.Abs(nextState.AtVec(2))

	// An angle of 0 is pointing straight up, so the pole is balanced
	// while the angle stays below the fail angle
	if angle < b.failAngle {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether or not the goal position has been reached
func (b *Balance) AtGoal(state mat.Matrix) bool {
	return math.Abs(state.At(2, 0)) < b.failAngle
}

// Min returns the minimum possible reward
func (b *Balance) Min() float64 {
	return -1.0
}

// Max returns the maximum possible reward
func (b *Balance) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification for the environment
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
