package nn

import (
	"errors"
	"fmt"
	"sort"
)

// Layer boundaries on the X axis. Nodes at or left of InputMaxX are inputs, nodes at or
// right of OutputMinX are outputs, everything in between is hidden.
const (
	InputMaxX  = 0.1
	OutputMinX = 0.9
)

var (
	// ErrInputSize is returned by Run when fewer values than input nodes are supplied.
	ErrInputSize = errors.New("nn: not enough inputs")
	// ErrUnknownNode is returned when a link references a node that was not supplied.
	ErrUnknownNode = errors.New("nn: link references unknown node")
	// ErrDuplicateNode is returned when the same node id is supplied twice.
	ErrDuplicateNode = errors.New("nn: duplicate node")
	// ErrNotFeedForward is returned when an enabled link does not point strictly forward along X.
	ErrNotFeedForward = errors.New("nn: link is not feed-forward")
)

// Node describes one node of the network to compile.
type Node struct {
	ID int     // Stable identifier (the gene's innovation number)
	X  float64 // Layer coordinate
}

// Link describes one directed, weighted connection between two nodes.
type Link struct {
	From    int
	To      int
	Weight  float64
	Enabled bool
}

// edge is an incoming connection of a neuron: the storage slot of its source and a weight.
type edge struct {
	source int
	weight float64
}

type neuron struct {
	id       int
	x        float64
	incoming []edge
}

// Calculator is the compiled phenotype of a genome. It evaluates a feed-forward network
// whose evaluation order is derived from the nodes' X coordinates.
type Calculator struct {
	neurons     []neuron
	inputSlots  []int // positional index -> storage slot
	hiddenSlots []int // evaluation order (ascending X)
	outputSlots []int // positional index -> storage slot
	activation  Activation
}

// New compiles nodes and links into a Calculator.
// Positional indices of input and output nodes follow ascending node id. Disabled links are
// ignored. Every enabled link must join two known nodes and point strictly forward along X.
func New(nodes []Node, links []Link, activation Activation) (*Calculator, error) {
	if activation == nil {
		return nil, errors.New("nn: nil activation")
	}

	c := &Calculator{
		neurons:    make([]neuron, 0, len(nodes)),
		activation: activation,
	}

	slotByID := make(map[int]int, len(nodes))
	for _, n := range nodes {
		if _, dup := slotByID[n.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		slot := len(c.neurons)
		slotByID[n.ID] = slot
		c.neurons = append(c.neurons, neuron{id: n.ID, x: n.X})

		switch {
		case n.X <= InputMaxX:
			c.inputSlots = append(c.inputSlots, slot)
		case n.X >= OutputMinX:
			c.outputSlots = append(c.outputSlots, slot)
		default:
			c.hiddenSlots = append(c.hiddenSlots, slot)
		}
	}

	byID := func(slots []int) {
		sort.SliceStable(slots, func(i, j int) bool {
			return c.neurons[slots[i]].id < c.neurons[slots[j]].id
		})
	}
	byID(c.inputSlots)
	byID(c.outputSlots)
	sort.SliceStable(c.hiddenSlots, func(i, j int) bool {
		return c.neurons[c.hiddenSlots[i]].x < c.neurons[c.hiddenSlots[j]].x
	})

	for _, l := range links {
		if !l.Enabled {
			continue
		}
		from, ok := slotByID[l.From]
		if !ok {
			return nil, fmt.Errorf("%w: %d (link %d->%d)", ErrUnknownNode, l.From, l.From, l.To)
		}
		to, ok := slotByID[l.To]
		if !ok {
			return nil, fmt.Errorf("%w: %d (link %d->%d)", ErrUnknownNode, l.To, l.From, l.To)
		}

		src, dst := &c.neurons[from], &c.neurons[to]
		if src.x >= dst.x || src.x >= OutputMinX || dst.x <= InputMaxX {
			return nil, fmt.Errorf("%w: %d (x=%.3f) -> %d (x=%.3f)", ErrNotFeedForward, src.id, src.x, dst.id, dst.x)
		}
		dst.incoming = append(dst.incoming, edge{source: from, weight: l.Weight})
	}

	return c, nil
}

// InputCount returns the number of input nodes.
func (c *Calculator) InputCount() int {
	return len(c.inputSlots)
}

// OutputCount returns the number of output nodes and so the length of every Run result.
func (c *Calculator) OutputCount() int {
	return len(c.outputSlots)
}

// HiddenCount returns the number of hidden nodes.
func (c *Calculator) HiddenCount() int {
	return len(c.hiddenSlots)
}

// Run evaluates the network. inputs must hold at least InputCount values; extra values are ignored.
// Node outputs are recomputed on every call, so equal inputs always give equal outputs.
func (c *Calculator) Run(inputs []float64) ([]float64, error) {
	if len(inputs) < len(c.inputSlots) {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInputSize, len(inputs), len(c.inputSlots))
	}

	values := make([]float64, len(c.neurons))
	ready := make([]bool, len(c.neurons))

	for pos, slot := range c.inputSlots {
		values[slot] = inputs[pos]
		ready[slot] = true
	}

	for _, slot := range c.hiddenSlots {
		values[slot] = c.fire(slot, values, ready)
		ready[slot] = true
	}

	outputs := make([]float64, len(c.outputSlots))
	for pos, slot := range c.outputSlots {
		outputs[pos] = c.fire(slot, values, ready)
	}

	return outputs, nil
}

// fire computes activation(sum of weight * source output) for the neuron in slot.
func (c *Calculator) fire(slot int, values []float64, ready []bool) float64 {
	total := 0.0
	for _, e := range c.neurons[slot].incoming {
		if !ready[e.source] {
			// New only accepts links that point forward, so this is a compiler defect.
			panic(fmt.Sprintf("nn: node %d read before node %d was evaluated", c.neurons[slot].id, c.neurons[e.source].id))
		}
		total += e.weight * values[e.source]
	}
	return c.activation.Activate(total)
}
