package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NeuralNet is a feedforward neural network function approximator.
// The network populates a gorgonia.ExprGraph; an external VM runs the
// graph. To get a prediction, first call SetInput with an observation,
// run the VM, then read Output.
type NeuralNet interface {
	Graph() *G.ExprGraph
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error
	Learnables() G.Nodes
	Output() G.Value
	Prediction() *G.Node
}

// MLP implements a multi-layered perceptron with one output node per
// value that should be predicted
type MLP struct {
	g         *G.ExprGraph
	layers    []*fcLayer
	input     *G.Node
	outputs   int
	features  int
	batchSize int

	// Construction arguments, needed for gobbing
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron on graph
// g with len(hiddenSizes)+1 layers. A final linear layer with a bias
// unit and no activation is always added so that the network produces
// outputs values. For index i, hiddenSizes[i] is the number of units
// in hidden layer i, biases[i] is whether hidden layer i has a bias
// unit, and activations[i] is the activation function of hidden layer
// i. The init parameter determines the weight initialization scheme.
//
// A linear network is created by giving empty hiddenSizes, biases,
// and activations.
func NewMLP(features, batch, outputs int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, init G.InitWFn,
	activations []*Activation) (*MLP, error) {
	if len(hiddenSizes) != len(activations) {
		return nil, fmt.Errorf("newmlp: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return nil, fmt.Errorf("newmlp: invalid number of biases"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(biases))
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Final linear layer so the network predicts outputs values
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	layerBiases := append(append([]bool{}, biases...), true)
	layerActivations := append(append([]*Activation{}, activations...),
		Identity())

	layers := newLayers(g, features, sizes, layerBiases, layerActivations,
		init)

	net := &MLP{
		g:           g,
		layers:      layers,
		input:       input,
		outputs:     outputs,
		features:    features,
		batchSize:   batch,
		hiddenSizes: hiddenSizes,
		biases:      biases,
		activations: activations,
	}

	if _, err := net.fwd(input); err != nil {
		return nil, fmt.Errorf("newmlp: could not compute forward "+
			"pass: %v", err)
	}

	return net, nil
}

// fwd performs the forward pass of the MLP on the input node
func (m *MLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			return nil, fmt.Errorf("fwd: could not compute forward pass "+
				"of layer %v: %v", i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Graph returns the computational graph of the MLP
func (m *MLP) Graph() *G.ExprGraph {
	return m.g
}

// BatchSize returns the batch size of inputs to the network
func (m *MLP) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single observation
// vector that the network takes as input
func (m *MLP) Features() int {
	return m.features
}

// Outputs returns the number of outputs of the network
func (m *MLP) Outputs() int {
	return m.outputs
}

// SetInput sets the value of the input node before running the
// forward pass
func (m *MLP) SetInput(input []float64) error {
	if len(input) != m.features*m.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs"+
			"\n\twant(%v)\n\thave(%v)", m.features*m.batchSize, len(input))
	}

	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Learnables returns the learnable nodes of the MLP
func (m *MLP) Learnables() G.Nodes {
	if m.learnables == nil {
		m.learnables = make(G.Nodes, 0, 2*len(m.layers))
		for _, layer := range m.layers {
			m.learnables = append(m.learnables, layer.weights)
			if layer.bias != nil {
				m.learnables = append(m.learnables, layer.bias)
			}
		}
	}
	return m.learnables
}

// Output returns the value of the network's prediction from the last
// run of the computational graph
func (m *MLP) Output() G.Value {
	return m.predVal
}

// Prediction returns the node of the computational graph that stores
// the output of the MLP
func (m *MLP) Prediction() *G.Node {
	return m.prediction
}

// gobTensor is the on-disk representation of one learnable tensor
type gobTensor struct {
	Shape []int
	Data  []float64
}

// GobEncode implements the gob.GobEncoder interface
func (m *MLP) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	for _, v := range []interface{}{
		m.features, m.batchSize, m.outputs, m.hiddenSizes, m.biases,
		m.activations,
	} {
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode network "+
				"structure: %v", err)
		}
	}

	for i, learnable := range m.Learnables() {
		t := learnable.Value().(*tensor.Dense)
		gt := gobTensor{
			Shape: []int(t.Shape()),
			Data:  t.Data().([]float64),
		}
		if err := enc.Encode(gt); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode learnable "+
				"%v: %v", i, err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (m *MLP) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var features, batchSize, outputs int
	var hiddenSizes []int
	var biases []bool
	var activations []*Activation

	for _, v := range []interface{}{
		&features, &batchSize, &outputs, &hiddenSizes, &biases,
		&activations,
	} {
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("gobdecode: could not decode network "+
				"structure: %v", err)
		}
	}

	g := G.NewGraph()
	newNet, err := NewMLP(features, batchSize, outputs, g, hiddenSizes,
		biases, G.Zeroes(), activations)
	if err != nil {
		return fmt.Errorf("gobdecode: could not construct new MLP: %v", err)
	}

	for i, learnable := range newNet.Learnables() {
		var gt gobTensor
		if err := dec.Decode(&gt); err != nil {
			return fmt.Errorf("gobdecode: could not decode learnable "+
				"%v: %v", i, err)
		}

		t := tensor.New(tensor.WithShape(gt.Shape...),
			tensor.WithBacking(gt.Data))
		if err := G.Let(learnable, t); err != nil {
			return fmt.Errorf("gobdecode: could not set learnable "+
				"%v: %v", i, err)
		}
	}

	*m = *newNet
	return nil
}
