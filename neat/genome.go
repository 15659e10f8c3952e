package neat

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/baldhumanity/neat-ff/neat/nn"
)

// Genome is the genotype of one individual: a set of shared node genes and a set of owned
// connection genes, both keyed by innovation number.
// Every connection endpoint must be a member of Nodes.
type Genome struct {
	Nodes       map[int]*NodeGene       // Map node innovation -> NodeGene (shared)
	Connections map[int]*ConnectionGene // Map connection innovation -> ConnectionGene (owned)
}

// NewGenome creates an empty Genome.
func NewGenome() *Genome {
	return &Genome{
		Nodes:       make(map[int]*NodeGene),
		Connections: make(map[int]*ConnectionGene),
	}
}

// AddNode inserts n unless a node with the same innovation is present. It reports whether n was added.
func (g *Genome) AddNode(n *NodeGene) bool {
	if _, exists := g.Nodes[n.Innovation]; exists {
		return false
	}
	g.Nodes[n.Innovation] = n
	return true
}

// AddConnection inserts c unless a connection with the same innovation is present.
// It reports whether c was added. The caller is responsible for adding the endpoints.
func (g *Genome) AddConnection(c *ConnectionGene) bool {
	if _, exists := g.Connections[c.Innovation]; exists {
		return false
	}
	g.Connections[c.Innovation] = c
	return true
}

// HasNode reports whether the genome contains the node with the given innovation.
func (g *Genome) HasNode(innovation int) bool {
	_, ok := g.Nodes[innovation]
	return ok
}

// Connection returns the connection with the given innovation.
func (g *Genome) Connection(innovation int) (*ConnectionGene, bool) {
	c, ok := g.Connections[innovation]
	return c, ok
}

// HasLink reports whether the genome already connects from -> to.
func (g *Genome) HasLink(from, to *NodeGene) bool {
	for _, c := range g.Connections {
		if c.From.Innovation == from.Innovation && c.To.Innovation == to.Innovation {
			return true
		}
	}
	return false
}

// NodeInnovations returns the node innovation numbers in ascending order.
func (g *Genome) NodeInnovations() []int {
	keys := make([]int, 0, len(g.Nodes))
	for k := range g.Nodes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// ConnectionInnovations returns the connection innovation numbers in ascending order.
func (g *Genome) ConnectionInnovations() []int {
	keys := make([]int, 0, len(g.Connections))
	for k := range g.Connections {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// SortedNodes returns the node genes ordered by innovation number.
func (g *Genome) SortedNodes() []*NodeGene {
	keys := g.NodeInnovations()
	nodes := make([]*NodeGene, len(keys))
	for i, k := range keys {
		nodes[i] = g.Nodes[k]
	}
	return nodes
}

// SortedConnections returns the connection genes ordered by innovation number.
func (g *Genome) SortedConnections() []*ConnectionGene {
	keys := g.ConnectionInnovations()
	conns := make([]*ConnectionGene, len(keys))
	for i, k := range keys {
		conns[i] = g.Connections[k]
	}
	return conns
}

// Copy returns a genome with copied connection genes and shared node genes.
func (g *Genome) Copy() *Genome {
	c := &Genome{
		Nodes:       make(map[int]*NodeGene, len(g.Nodes)),
		Connections: make(map[int]*ConnectionGene, len(g.Connections)),
	}
	for k, n := range g.Nodes {
		c.Nodes[k] = n
	}
	for k, conn := range g.Connections {
		c.Connections[k] = conn.Copy()
	}
	return c
}

// Validate checks that the genome is a well formed feed-forward graph: keys match innovations,
// every connection endpoint is a member and every connection points forward along X, which
// rules out cycles. Disabled connections are included since they may be re-enabled.
func (g *Genome) Validate() error {
	for k, n := range g.Nodes {
		if n == nil || n.Innovation != k {
			return fmt.Errorf("%w: node key %d does not match its gene", ErrStructuralInvariant, k)
		}
	}

	for k, c := range g.Connections {
		if c == nil || c.Innovation != k {
			return fmt.Errorf("%w: connection key %d does not match its gene", ErrStructuralInvariant, k)
		}
		if c.From == nil || c.To == nil {
			return fmt.Errorf("%w: connection %d has a missing endpoint", ErrStructuralInvariant, k)
		}
		if g.Nodes[c.From.Innovation] != c.From || g.Nodes[c.To.Innovation] != c.To {
			return fmt.Errorf("%w: connection %d has an endpoint outside the genome", ErrStructuralInvariant, k)
		}
		if c.From.Innovation == c.To.Innovation || c.From.X >= c.To.X {
			return fmt.Errorf("%w: connection %d (%d->%d) does not point forward", ErrStructuralInvariant, k, c.From.Innovation, c.To.Innovation)
		}
	}
	return nil
}

// Phenotype compiles the genome into a feed-forward calculator.
func (g *Genome) Phenotype(activation nn.Activation) (*nn.Calculator, error) {
	nodes := make([]nn.Node, 0, len(g.Nodes))
	for _, n := range g.SortedNodes() {
		nodes = append(nodes, nn.Node{ID: n.Innovation, X: n.X})
	}
	links := make([]nn.Link, 0, len(g.Connections))
	for _, c := range g.SortedConnections() {
		links = append(links, c.link())
	}
	return nn.New(nodes, links, activation)
}

// String returns a short summary of the genome.
func (g *Genome) String() string {
	enabled := 0
	for _, c := range g.Connections {
		if c.Enabled {
			enabled++
		}
	}
	return fmt.Sprintf("Genome(Nodes: %d, Connections: %d/%d enabled)", len(g.Nodes), enabled, len(g.Connections))
}

// --------------------------- Distance & Crossover ---------------------------

// DistanceCoefficients weight the three terms of the compatibility distance.
type DistanceCoefficients struct {
	C1 float64 // Excess genes
	C2 float64 // Disjoint genes
	C3 float64 // Average weight difference of matching genes
}

// Genomes smaller than this are not normalized by their size.
const distanceNormalizationThreshold = 20

// Distance computes the compatibility distance between two genomes:
//
//	d = c1*E/N + c2*D/N + c3*W
//
// E counts genes beyond the other genome's highest innovation, D counts the remaining
// unmatched genes, W is the mean absolute weight difference of matching genes and N is the
// size of the larger genome (1 when it has fewer than 20 genes). Distance is symmetric.
func Distance(a, b *Genome, c DistanceCoefficients) float64 {
	ia, ib := a.ConnectionInnovations(), b.ConnectionInnovations()

	matching, disjoint := 0, 0
	weightDiff := 0.0

	i, j := 0, 0
	for i < len(ia) && j < len(ib) {
		switch {
		case ia[i] == ib[j]:
			weightDiff += math.Abs(a.Connections[ia[i]].Weight - b.Connections[ib[j]].Weight)
			matching++
			i++
			j++
		case ia[i] < ib[j]:
			disjoint++
			i++
		default:
			disjoint++
			j++
		}
	}
	// Whatever is left lies beyond the other genome's highest innovation.
	excess := (len(ia) - i) + (len(ib) - j)

	if matching > 0 {
		weightDiff /= float64(matching)
	}

	n := float64(max(len(ia), len(ib)))
	if n < distanceNormalizationThreshold {
		n = 1
	}

	return c.C1*float64(excess)/n + c.C2*float64(disjoint)/n + c.C3*weightDiff
}

// Crossover creates a child from two parents. Matching genes are copied from either parent
// with equal probability, genes only present in the fitter parent are always inherited and
// genes only present in the weaker parent are dropped. Neither parent is modified.
func Crossover(fitter, weaker *Genome, rng *rand.Rand) *Genome {
	child := NewGenome()

	for _, inn := range fitter.ConnectionInnovations() {
		gene := fitter.Connections[inn]
		if other, exists := weaker.Connections[inn]; exists && rng.Float64() < 0.5 {
			gene = other
		}
		child.AddConnection(gene.Copy())
		child.AddNode(gene.From)
		child.AddNode(gene.To)
	}

	return child
}
