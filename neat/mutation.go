package neat

import (
	"fmt"
	"math/rand"
)

// MutationKind names a mutation operator.
type MutationKind int

const (
	MutateAddNode MutationKind = iota
	MutateAddConnection
	MutateRandomWeight
	MutateWeightShift
	MutateToggleConnection
)

func (k MutationKind) String() string {
	switch k {
	case MutateAddNode:
		return "add_node"
	case MutateAddConnection:
		return "add_connection"
	case MutateRandomWeight:
		return "random_weight"
	case MutateWeightShift:
		return "weight_shift"
	case MutateToggleConnection:
		return "toggle_connection"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// MutationResult records one operator applied by MutateRandom. Err is nil on success.
type MutationResult struct {
	Kind MutationKind
	Err  error
}

// Mutator applies structural and weight mutations to genomes. Structural mutations register
// their innovations in Registry; every random decision is drawn from Rand.
type Mutator struct {
	Registry *Registry
	Rand     *rand.Rand
	Config   *MutationConfig
}

// NewMutator creates a Mutator.
func NewMutator(registry *Registry, rng *rand.Rand, config *MutationConfig) *Mutator {
	return &Mutator{Registry: registry, Rand: rng, Config: config}
}

// MutateRandom rolls every operator's 1-in-N chance independently and applies each one that
// fires, in a fixed order. A chance of 0 disables an operator, a chance of 1 always fires it.
func (m *Mutator) MutateRandom(g *Genome) []MutationResult {
	ops := []struct {
		kind   MutationKind
		chance int
		apply  func(*Genome) error
	}{
		{MutateAddNode, m.Config.ChanceAddNode, m.AddNode},
		{MutateAddConnection, m.Config.ChanceAddConnection, m.AddConnection},
		{MutateRandomWeight, m.Config.ChanceRandomWeight, m.RandomizeWeight},
		{MutateWeightShift, m.Config.ChanceWeightShift, m.ShiftWeight},
		{MutateToggleConnection, m.Config.ChanceToggleConnection, m.ToggleConnection},
	}

	var results []MutationResult
	for _, op := range ops {
		if !m.roll(op.chance) {
			continue
		}
		results = append(results, MutationResult{Kind: op.kind, Err: op.apply(g)})
	}
	return results
}

// AddNode splits a random enabled connection with a hidden node. The split connection is
// disabled and replaced by from->node (weight 1.0) and node->to (the old weight).
// Splitting the same connection anywhere yields the same node and the same innovations.
func (m *Mutator) AddNode(g *Genome) error {
	c, err := m.randomConnection(g)
	if err != nil {
		return err
	}
	if !c.Enabled {
		return fmt.Errorf("%w: %d", ErrConnectionDisabled, c.Innovation)
	}

	node := m.Registry.ReplacementNode(c)
	if g.HasNode(node.Innovation) {
		return fmt.Errorf("%w: connection %d", ErrAlreadySplit, c.Innovation)
	}

	in := m.Registry.NewConnection(c.From, node)
	out := m.Registry.NewConnection(node, c.To)
	out.Weight = c.Weight

	c.Enabled = false
	g.AddNode(node)
	g.AddConnection(in)
	g.AddConnection(out)
	return nil
}

// AddConnection links two random nodes that are not yet connected. The node with the lower X
// becomes the source; pairs on the same X are rejected.
func (m *Mutator) AddConnection(g *Genome) error {
	nodes := g.SortedNodes()
	if len(nodes) < 2 {
		return fmt.Errorf("%w: add_connection needs two nodes", ErrExhaustedAttempts)
	}

	return m.attempt(func() bool {
		a := nodes[m.Rand.Intn(len(nodes))]
		b := nodes[m.Rand.Intn(len(nodes))]
		if a.X == b.X {
			return false
		}
		if a.X > b.X {
			a, b = b, a
		}
		if g.HasLink(a, b) {
			return false
		}

		c := m.Registry.NewConnection(a, b)
		c.Weight = m.uniform(m.Config.RandomWeightMax)
		g.AddConnection(c)
		return true
	})
}

// RandomizeWeight replaces the weight of a random enabled connection.
func (m *Mutator) RandomizeWeight(g *Genome) error {
	return m.mutateEnabledWeight(g, func(c *ConnectionGene) {
		c.Weight = m.uniform(m.Config.RandomWeightMax)
	})
}

// ShiftWeight nudges the weight of a random enabled connection.
func (m *Mutator) ShiftWeight(g *Genome) error {
	return m.mutateEnabledWeight(g, func(c *ConnectionGene) {
		c.Weight += m.uniform(m.Config.RandomWeightShiftMax)
	})
}

// ToggleConnection flips the enabled flag of a random connection.
func (m *Mutator) ToggleConnection(g *Genome) error {
	c, err := m.randomConnection(g)
	if err != nil {
		return err
	}
	c.Enabled = !c.Enabled
	return nil
}

// RandomizeAllWeights draws a fresh weight for every connection of g.
func (m *Mutator) RandomizeAllWeights(g *Genome) {
	for _, c := range g.SortedConnections() {
		c.Weight = m.uniform(m.Config.RandomWeightMax)
	}
}

func (m *Mutator) mutateEnabledWeight(g *Genome, mutate func(*ConnectionGene)) error {
	conns := g.SortedConnections()
	if len(conns) == 0 {
		return ErrNoConnections
	}
	return m.attempt(func() bool {
		c := conns[m.Rand.Intn(len(conns))]
		if !c.Enabled {
			return false
		}
		mutate(c)
		return true
	})
}

// randomConnection picks a connection uniformly. Connections are drawn in innovation order so a
// seeded Rand gives reproducible choices.
func (m *Mutator) randomConnection(g *Genome) (*ConnectionGene, error) {
	if len(g.Connections) == 0 {
		return nil, ErrNoConnections
	}
	conns := g.SortedConnections()
	return conns[m.Rand.Intn(len(conns))], nil
}

// attempt calls try up to MaxMutationAttempts times and stops at the first success.
func (m *Mutator) attempt(try func() bool) error {
	for i := 0; i < m.Config.MaxMutationAttempts; i++ {
		if try() {
			return nil
		}
	}
	return fmt.Errorf("%w after %d tries", ErrExhaustedAttempts, m.Config.MaxMutationAttempts)
}

// roll reports whether a 1-in-n chance fires.
func (m *Mutator) roll(n int) bool {
	return n > 0 && m.Rand.Intn(n) == 0
}

// uniform returns a value drawn uniformly from [-bound, bound).
func (m *Mutator) uniform(bound float64) float64 {
	return (m.Rand.Float64()*2 - 1) * bound
}
