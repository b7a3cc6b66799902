// Package policy implements policies using neural network function
// approximation with Gorgonia
package policy

import (
	"encoding/gob"
	"fmt"
	"os"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/goimitate/network"
	"github.com/samuelfneumann/goimitate/timestep"
	"github.com/samuelfneumann/goimitate/utils/floatutils"
)

// GreedyMLP implements a greedy policy over the action values
// predicted by a feedforward neural network. Given an environment
// with N actions, the network produces N outputs, each predicting the
// value of a distinct action; the policy selects an action of maximal
// predicted value, breaking ties uniformly at random.
//
// The policy owns the VM that runs its network's computational graph,
// so SelectAction can be called like on any other policy.
type GreedyMLP struct {
	net  *network.MLP
	vm   G.VM
	rng  *rand.Rand
	seed uint64
}

// NewGreedyMLP creates and returns a new GreedyMLP over a network
// with the given hidden layer sizes, biases, and activations. A final
// linear layer is always added so that the network predicts one value
// per action. See network.NewMLP for details on the layer arguments.
func NewGreedyMLP(features, actions int, hiddenSizes []int, biases []bool,
	activations []*network.Activation, init G.InitWFn,
	seed uint64) (*GreedyMLP, error) {
	g := G.NewGraph()

	net, err := network.NewMLP(features, 1, actions, g, hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newgreedymlp: could not create "+
			"network: %v", err)
	}

	return fromNetwork(net, seed)
}

func fromNetwork(net *network.MLP, seed uint64) (*GreedyMLP, error) {
	if net.BatchSize() != 1 {
		return nil, fmt.Errorf("newgreedymlp: action selection requires "+
			"a batch size of 1, got %v", net.BatchSize())
	}

	return &GreedyMLP{
		net:  net,
		vm:   G.NewTapeMachine(net.Graph()),
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}, nil
}

// SelectAction runs the policy's network on the observation of t and
// returns an action of maximal predicted value
func (p *GreedyMLP) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := make([]float64, t.Observation.Len())
	for i := range obs {
		obs[i] = t.Observation.AtVec(i)
	}

	if err := p.net.SetInput(obs); err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	if err := p.vm.RunAll(); err != nil {
		panic(fmt.Sprintf("selectaction: could not run network: %v", err))
	}

	actionValues := p.net.Output().Data().([]float64)
	p.vm.Reset()

	// If multiple actions have max value, choose one uniformly
	_, maxIndices := floatutils.MaxSlice(actionValues)
	action := maxIndices[p.rng.Intn(len(maxIndices))]

	return mat.NewVecDense(1, []float64{float64(action)})
}

// Seed reseeds the random source used to break ties between actions
// of equal predicted value
func (p *GreedyMLP) Seed(seed uint64) {
	p.seed = seed
	p.rng = rand.New(rand.NewSource(seed))
}

// Network returns the neural network function approximator that the
// policy uses
func (p *GreedyMLP) Network() *network.MLP {
	return p.net
}

// Close releases the VM that runs the policy's network
func (p *GreedyMLP) Close() error {
	return p.vm.Close()
}

// Save saves the policy's network to filename. The policy can later
// be reconstructed with Load.
func (p *GreedyMLP) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(p.net); err != nil {
		return fmt.Errorf("save: could not encode network: %v", err)
	}
	return nil
}

// Load reconstructs a GreedyMLP from a network checkpoint saved with
// Save
func Load(filename string, seed uint64) (*GreedyMLP, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open file: %v", err)
	}
	defer file.Close()

	var net network.MLP
	if err := gob.NewDecoder(file).Decode(&net); err != nil {
		return nil, fmt.Errorf("load: could not decode network: %v", err)
	}

	return fromNetwork(&net, seed)
}
