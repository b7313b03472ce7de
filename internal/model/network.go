package model

import (
	"fmt"
	"math"
	"sync"

	"github.com/patrikeh/go-deep"
)

// Network is a single-output network safe for concurrent use. go-deep keeps
// activations on the layers during a forward pass, so calls are serialised.
type Network struct {
	mu     sync.Mutex
	net    *deep.Neural
	inputs int
}

func newNetwork(d *deep.Dump) *Network {
	return &Network{net: deep.FromDump(d), inputs: d.Config.Inputs}
}

// Inputs is the expected feature width
func (n *Network) Inputs() int {
	return n.inputs
}

// Predict runs a forward pass and returns the single output value
func (n *Network) Predict(x []float64) (float64, error) {
	if len(x) != n.inputs {
		return 0, fmt.Errorf("network expects %d inputs, got %d", n.inputs, len(x))
	}

	n.mu.Lock()
	out := n.net.Predict(x)
	n.mu.Unlock()

	if len(out) != 1 {
		return 0, fmt.Errorf("network returned %d outputs, want 1", len(out))
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, fmt.Errorf("network returned non-finite output %v", out[0])
	}
	return out[0], nil
}
