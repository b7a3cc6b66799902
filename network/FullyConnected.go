package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	if f.weights != nil {
		x = G.Must(G.Mul(x, f.weights))
	}
	if f.bias != nil {
		// Broadcast the bias weights to all samples along the batch
		// dimension
		x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))
	}
	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

// newLayers constructs the fully connected layers of an MLP on graph
// g. For index i, sizes[i] is the number of units in layer i,
// biases[i] is whether layer i has a bias unit, and activations[i] is
// the activation function of layer i.
func newLayers(g *G.ExprGraph, features int, sizes []int, biases []bool,
	activations []*Activation, init G.InitWFn) []*fcLayer {
	layers := make([]*fcLayer, len(sizes))

	in := features
	for i, size := range sizes {
		weights := G.NewMatrix(g, tensor.Float64, G.WithShape(in, size),
			G.WithName(fmt.Sprintf("L%dW", i)), G.WithInit(init))

		var bias *G.Node
		if biases[i] {
			bias = G.NewMatrix(g, tensor.Float64, G.WithShape(1, size),
				G.WithName(fmt.Sprintf("L%dB", i)), G.WithInit(G.Zeroes()))
		}

		layers[i] = &fcLayer{weights, bias, activations[i]}
		in = size
	}
	return layers
}
