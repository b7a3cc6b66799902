package environment

import "gonum.org/v1/gonum/mat"

// SingleStarter starts every episode from the same fixed state
type SingleStarter struct {
	state mat.Vector
}

// NewSingleStarter returns a Starter that always starts episodes from
// state
func NewSingleStarter(state mat.Vector) SingleStarter {
	return SingleStarter{state}
}

// Start returns the fixed starting state
func (s SingleStarter) Start() mat.Vector {
	return s.state
}
