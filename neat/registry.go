package neat

import "fmt"

// connectionKey identifies a connection by the innovation numbers of its endpoints.
type connectionKey struct {
	From int
	To   int
}

// Registry hands out innovation numbers. The same structural change performed independently
// on different genomes resolves to the same node gene and the same connection innovation.
// A Registry belongs to a single Manager.
type Registry struct {
	nodes        []*NodeGene           // node bank, indexed by innovation
	connections  map[connectionKey]int // (from, to) -> connection innovation
	replacements map[int]int           // connection innovation -> hidden node innovation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		connections:  make(map[connectionKey]int),
		replacements: make(map[int]int),
	}
}

// NewNode creates a node gene at (x, y) with the next node innovation number.
func (r *Registry) NewNode(x, y float64) *NodeGene {
	n := &NodeGene{Innovation: len(r.nodes), X: x, Y: y}
	r.nodes = append(r.nodes, n)
	return n
}

// Node returns the canonical node gene for an innovation number.
func (r *Registry) Node(innovation int) (*NodeGene, bool) {
	if innovation < 0 || innovation >= len(r.nodes) {
		return nil, false
	}
	return r.nodes[innovation], true
}

// NodeCount returns the number of node innovations handed out.
func (r *Registry) NodeCount() int {
	return len(r.nodes)
}

// ConnectionCount returns the number of connection innovations handed out.
func (r *Registry) ConnectionCount() int {
	return len(r.connections)
}

// ConnectionInnovation returns the innovation number of the connection from -> to,
// registering a new one if the pair has never been seen.
func (r *Registry) ConnectionInnovation(from, to *NodeGene) int {
	key := connectionKey{From: from.Innovation, To: to.Innovation}
	if inn, ok := r.connections[key]; ok {
		return inn
	}
	inn := len(r.connections)
	r.connections[key] = inn
	return inn
}

// NewConnection returns a fresh connection gene from -> to carrying the registered innovation.
func (r *Registry) NewConnection(from, to *NodeGene) *ConnectionGene {
	return NewConnectionGene(r.ConnectionInnovation(from, to), from, to)
}

// ReplacementNode returns the hidden node that splits connection c, creating it at the
// midpoint of c's endpoints the first time c is split anywhere.
func (r *Registry) ReplacementNode(c *ConnectionGene) *NodeGene {
	if inn, ok := r.replacements[c.Innovation]; ok {
		return r.nodes[inn]
	}
	if c.To.X-c.From.X <= 0 {
		panic(fmt.Sprintf("neat: cannot split non-forward connection %v", c))
	}
	n := r.NewNode((c.From.X+c.To.X)/2, (c.From.Y+c.To.Y)/2)
	r.replacements[c.Innovation] = n.Innovation
	return n
}
