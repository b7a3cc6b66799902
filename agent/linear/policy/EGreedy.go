// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/goimitate/timestep"
	"github.com/samuelfneumann/goimitate/utils/matutils"
)

// WeightsKey is the key under which policy weights are stored in a
// weights map
const WeightsKey string = "weights"

// EGreedy implements an ε-greedy policy using linear function
// approximation. Action values are computed as the product of a
// weight matrix with the observation vector; with probability 1-ε the
// greedy action is taken, and a uniformly random action otherwise.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	source  rand.Source
}

// NewEGreedy constructs a new EGreedy policy, where epsilon is the
// probability with which a random action is selected, features is the
// number of features in an observation vector, and actions is the
// number of discrete actions available.
func NewEGreedy(epsilon float64, seed uint64, features,
	actions int) *EGreedy {
	weights := mat.NewDense(actions, features, nil)

	return &EGreedy{weights, epsilon, rand.NewSource(seed)}
}

// SelectAction selects an action from the ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	numActions, _ := p.weights.Dims()

	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, t.Observation)

	greedyAction := matutils.MaxVec(actionValues)

	// ε probability mass spread uniformly, remainder on the greedy
	// action
	prob := p.epsilon / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := range actionProbabilities {
		actionProbabilities[i] = prob
	}
	actionProbabilities[greedyAction] += 1.0 - p.epsilon

	dist := distuv.NewCategorical(actionProbabilities, p.source)

	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Seed reseeds the policy's random source
func (p *EGreedy) Seed(seed uint64) {
	p.source = rand.NewSource(seed)
}

// Weights gets and returns the weights of the EGreedy policy as a
// map from weight name to weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	return map[string]*mat.Dense{WeightsKey: p.weights}
}

// SetWeights sets the weight pointers to point to a new set of
// weights. SetWeights can take the output of a call to Weights() on
// another EGreedy policy directly.
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setweights: no weights named %q", WeightsKey)
	}

	p.weights = newWeights
	return nil
}
