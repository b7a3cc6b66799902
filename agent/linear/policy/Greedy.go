package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goimitate/timestep"
	"github.com/samuelfneumann/goimitate/utils/matutils"
)

// Greedy implements a deterministic greedy policy using linear
// function approximation
type Greedy struct {
	weights *mat.Dense
}

// NewGreedy constructs a new Greedy policy, where features is the
// number of features in an observation vector and actions is the
// number of discrete actions available
func NewGreedy(features, actions int) *Greedy {
	return &Greedy{mat.NewDense(actions, features, nil)}
}

// SelectAction returns the action with the highest approximated value
func (p *Greedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	numActions, _ := p.weights.Dims()

	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, t.Observation)

	greedyAction := matutils.MaxVec(actionValues)
	return mat.NewVecDense(1, []float64{float64(greedyAction)})
}

// Weights gets and returns the weights of the Greedy policy as a map
// from weight name to weights
func (p *Greedy) Weights() map[string]*mat.Dense {
	return map[string]*mat.Dense{WeightsKey: p.weights}
}

// SetWeights sets the weight pointers to point to a new set of
// weights. SetWeights can take the output of a call to Weights() on
// another policy in this package directly.
func (p *Greedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setweights: no weights named %q", WeightsKey)
	}

	p.weights = newWeights
	return nil
}
