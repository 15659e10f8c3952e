package neat

import (
	"fmt"

	"github.com/baldhumanity/neat-ff/neat/nn"
)

// Layer coordinates of seed nodes. Hidden nodes created by splitting a connection sit
// strictly between their endpoints.
const (
	InputX  = nn.InputMaxX
	OutputX = nn.OutputMinX
)

// NodeKind classifies a node gene by its layer coordinate.
type NodeKind int

const (
	InputNode NodeKind = iota
	HiddenNode
	OutputNode
)

func (k NodeKind) String() string {
	switch k {
	case InputNode:
		return "input"
	case OutputNode:
		return "output"
	default:
		return "hidden"
	}
}

// --------------------------- NodeGene ---------------------------

// NodeGene represents a node (neuron) of the network. Node genes are created by the Registry,
// never modified afterwards, and shared by pointer between every genome that contains them.
type NodeGene struct {
	Innovation int     // Unique identifier, dense from 0 within one Registry
	X          float64 // Layer coordinate: <= 0.1 input, >= 0.9 output, hidden in between
	Y          float64 // Vertical position, only used for display
}

// Kind returns the layer the node belongs to.
func (ng *NodeGene) Kind() NodeKind {
	switch {
	case ng.X <= InputX:
		return InputNode
	case ng.X >= OutputX:
		return OutputNode
	default:
		return HiddenNode
	}
}

// String returns a string representation of the NodeGene.
func (ng *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(Innovation: %d, X: %.3f, Y: %.3f)", ng.Innovation, ng.X, ng.Y)
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene represents a directed, weighted connection between two nodes.
// Each genome owns its own ConnectionGene instances; the endpoints and the innovation number
// are shared through the Registry.
type ConnectionGene struct {
	Innovation int
	From       *NodeGene
	To         *NodeGene
	Weight     float64
	Enabled    bool
}

// NewConnectionGene creates an enabled connection with weight 1.0.
func NewConnectionGene(innovation int, from, to *NodeGene) *ConnectionGene {
	return &ConnectionGene{
		Innovation: innovation,
		From:       from,
		To:         to,
		Weight:     1.0,
		Enabled:    true,
	}
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(Innovation: %d, %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.From.Innovation, cg.To.Innovation, cg.Weight, cg.Enabled)
}

// Copy returns a copy of the connection that shares the endpoint nodes.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	c := *cg
	return &c
}

// link converts the gene into the calculator's wire format.
func (cg *ConnectionGene) link() nn.Link {
	return nn.Link{
		From:    cg.From.Innovation,
		To:      cg.To.Innovation,
		Weight:  cg.Weight,
		Enabled: cg.Enabled,
	}
}
