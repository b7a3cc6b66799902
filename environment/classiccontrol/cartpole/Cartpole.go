// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
	"github.com/samuelfneumann/goimitate/utils/floatutils"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnitude of force applied to the cart
	Dt             float64 = 0.02 // Seconds between state updates

	// Bounds (+/-) on state variables
	PositionBounds        float64 = 4.8
	SpeedBounds           float64 = math.MaxFloat64
	AngleBounds           float64 = math.Pi
	AngularVelocityBounds float64 = math.MaxFloat64

	// Discrete actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	// Dimensionality of actions and observations
	ActionDims      int = 1
	ObservationDims int = 4
)

// Cartpole implements the classic control environment Cartpole. In
// this environment, a pole is attached to a cart, which can move
// horizontally. Gravity pulls the pole downwards so that balancing it
// in an upright position is difficult.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. All state features are
// bounded by the constants defined in this package. For the position
// feature, extreme values are clipped to within the legal range. For
// the pole's angle feature, extreme values are normalized so that all
// angles stay in the range (-π, π].
//
// Actions are discrete, consisting of the direction to apply
// horizontal force to the cart. Legal actions are in {0, 1, 2}:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Do nothing
//	  2			Apply force right
//
// Illegal actions will cause the environment to panic.
type Cartpole struct {
	env.Task
	lastStep       ts.TimeStep
	discount       float64
	positionBounds r1.Interval
	angleBounds    r1.Interval
}

// New constructs a new Cartpole environment with task t and returns
// it along with the first TimeStep of the first episode
func New(t env.Task, discount float64) (*Cartpole, ts.TimeStep) {
	positionBounds := r1.Interval{Min: -PositionBounds, Max: PositionBounds}
	angleBounds := r1.Interval{Min: -AngleBounds, Max: AngleBounds}

	state := t.Start()
	if state.Len() != ObservationDims {
		panic(fmt.Sprintf("new: starting state should have %d features, "+
			"got %d", ObservationDims, state.Len()))
	}

	firstStep := ts.New(ts.First, 0.0, discount, state, 0)

	cartpole := &Cartpole{t, firstStep, discount, positionBounds, angleBounds}
	return cartpole, firstStep
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *Cartpole) Reset() ts.TimeStep {
	state := c.Start()
	startStep := ts.New(ts.First, 0, c.discount, state, 0)
	c.lastStep = startStep

	return startStep
}

// Step takes one environmental step given action a and returns the
// next state as a timestep.TimeStep and a bool indicating whether or
// not the episode has ended. Legal actions are in the set {0, 1, 2}.
// Actions outside this range will cause the environment to panic.
func (c *Cartpole) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	if a.Len() != ActionDims {
		panic("step: actions should be 1-dimensional")
	}

	intAction := int(a.AtVec(0))
	if intAction < MinDiscreteAction || intAction > MaxDiscreteAction {
		panic(fmt.Sprintf("step: illegal action %v ∉ {0, 1, 2}",
			intAction))
	}

	// Convert action (0, 1, 2) to a force direction (-1, 0, 1)
	force := float64(intAction-1) * ForceMag

	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := PoleMass + CartMass
	poleMassLength := PoleMass * HalfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Euler kinematic integration
	x += Dt * xDot
	x = floatutils.ClipInterval(x, c.positionBounds)

	xDot += Dt * xAcc

	th += Dt * thDot
	th = normalizeAngle(th, c.angleBounds)

	thDot += Dt * thAcc

	newState := mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
	reward := c.GetReward(c.lastStep.Observation, a, newState)
	nextStep := ts.New(ts.Mid, reward, c.discount, newState,
		c.lastStep.Number+1)

	c.End(&nextStep)

	c.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// ActionSpec returns the action specification of the environment
func (c *Cartpole) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Cartpole) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lower := []float64{-PositionBounds, -SpeedBounds, -AngleBounds,
		-AngularVelocityBounds}
	lowerBound := mat.NewVecDense(ObservationDims, lower)

	upper := []float64{PositionBounds, SpeedBounds, AngleBounds,
		AngularVelocityBounds}
	upperBound := mat.NewVecDense(ObservationDims, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the
// environment
func (c *Cartpole) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{c.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

func (c *Cartpole) String() string {
	msg := "Cartpole  |  Position: %v  |  Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	return fmt.Sprintf(msg, state.AtVec(0), state.AtVec(1), state.AtVec(2),
		state.AtVec(3))
}

// normalizeAngle normalizes the pole angle to within the angle bounds
func normalizeAngle(th float64, angleBounds r1.Interval) float64 {
	if angleBounds.Max != -angleBounds.Min {
		panic("angle bounds should be centered around 0")
	}

	if th > angleBounds.Max {
		divisor := int(th / angleBounds.Max)
		return -math.Pi + th - (angleBounds.Max * float64(divisor))
	} else if th < angleBounds.Min {
		divisor := int(th / angleBounds.Min)
		return math.Pi + th - (angleBounds.Min * float64(divisor))
	}
	return th
}
