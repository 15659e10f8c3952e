package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMutator(reg *Registry, seed int64) *Mutator {
	cfg := DefaultConfig().Mutation
	return NewMutator(reg, rand.New(rand.NewSource(seed)), &cfg)
}

func TestAddNode(t *testing.T) {
	f := newFixture(1, 1)
	g := f.seed()
	split := g.Connections[0]
	split.Weight = 0.7
	m := newTestMutator(f.reg, 1)

	require.NoError(t, m.AddNode(g))

	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Connections, 3)
	assert.False(t, split.Enabled)

	node, ok := g.Nodes[2]
	require.True(t, ok)
	assert.Equal(t, HiddenNode, node.Kind())
	assert.InDelta(t, (InputX+OutputX)/2, node.X, 1e-12)

	in, ok := g.Connections[1]
	require.True(t, ok)
	assert.Same(t, f.inputs[0], in.From)
	assert.Same(t, node, in.To)
	assert.Equal(t, 1.0, in.Weight)

	out, ok := g.Connections[2]
	require.True(t, ok)
	assert.Same(t, node, out.From)
	assert.Same(t, f.outputs[0], out.To)
	assert.Equal(t, 0.7, out.Weight)

	assert.NoError(t, g.Validate())
}

func TestAddNodeSharesInnovations(t *testing.T) {
	f := newFixture(1, 1)
	a, b := f.seed(), f.seed()

	require.NoError(t, newTestMutator(f.reg, 1).AddNode(a))
	require.NoError(t, newTestMutator(f.reg, 2).AddNode(b))

	assert.Equal(t, a.NodeInnovations(), b.NodeInnovations())
	assert.Equal(t, a.ConnectionInnovations(), b.ConnectionInnovations())
	assert.Equal(t, 3, f.reg.NodeCount())
	assert.Equal(t, 3, f.reg.ConnectionCount())
}

func TestAddNodeFailures(t *testing.T) {
	f := newFixture(1, 1)
	m := newTestMutator(f.reg, 1)

	assert.ErrorIs(t, m.AddNode(NewGenome()), ErrNoConnections)

	g := f.seed()
	g.Connections[0].Enabled = false
	assert.ErrorIs(t, m.AddNode(g), ErrConnectionDisabled)
	assert.Len(t, g.Connections, 1)
	assert.Len(t, g.Nodes, 2)

	// Connection 0 is split once, then a genome holding it re-enabled next to its
	// replacement node cannot split it again.
	split := f.seed()
	require.NoError(t, m.AddNode(split))
	replacement := split.Nodes[2]

	only := NewGenome()
	only.AddNode(f.inputs[0])
	only.AddNode(f.outputs[0])
	only.AddNode(replacement)
	only.AddConnection(f.reg.NewConnection(f.inputs[0], f.outputs[0]))

	assert.ErrorIs(t, m.AddNode(only), ErrAlreadySplit)
	assert.Len(t, only.Connections, 1)
	assert.True(t, only.Connections[0].Enabled)
}

func TestAddConnection(t *testing.T) {
	f := newFixture(2, 2)
	g := NewGenome()
	for _, n := range append(append([]*NodeGene{}, f.inputs...), f.outputs...) {
		g.AddNode(n)
	}
	m := newTestMutator(f.reg, 5)

	for i := 0; i < 4; i++ {
		require.NoError(t, m.AddConnection(g))
	}
	assert.Len(t, g.Connections, 4)
	for _, c := range g.Connections {
		assert.Equal(t, InputNode, c.From.Kind())
		assert.Equal(t, OutputNode, c.To.Kind())
		assert.LessOrEqual(t, c.Weight, m.Config.RandomWeightMax)
		assert.GreaterOrEqual(t, c.Weight, -m.Config.RandomWeightMax)
	}
	require.NoError(t, g.Validate())

	// Every input -> output pair exists now.
	assert.ErrorIs(t, m.AddConnection(g), ErrExhaustedAttempts)
	assert.Len(t, g.Connections, 4)
}

func TestAddConnectionNeedsTwoNodes(t *testing.T) {
	f := newFixture(1, 0)
	g := NewGenome()
	g.AddNode(f.inputs[0])
	assert.ErrorIs(t, newTestMutator(f.reg, 1).AddConnection(g), ErrExhaustedAttempts)
}

func TestAddConnectionSharesInnovations(t *testing.T) {
	f := newFixture(2, 1)
	a, b := NewGenome(), NewGenome()
	for _, g := range []*Genome{a, b} {
		g.AddNode(f.inputs[1])
		g.AddNode(f.outputs[0])
	}

	require.NoError(t, newTestMutator(f.reg, 1).AddConnection(a))
	require.NoError(t, newTestMutator(f.reg, 2).AddConnection(b))
	assert.Equal(t, []int{0}, a.ConnectionInnovations())
	assert.Equal(t, []int{0}, b.ConnectionInnovations())
}

func TestWeightMutations(t *testing.T) {
	f := newFixture(2, 1)
	g := f.seed()
	m := newTestMutator(f.reg, 9)

	require.NoError(t, m.RandomizeWeight(g))
	changed := 0
	for _, c := range g.Connections {
		if c.Weight != 1.0 {
			changed++
			assert.LessOrEqual(t, c.Weight, m.Config.RandomWeightMax)
		}
	}
	assert.Equal(t, 1, changed)

	before := map[int]float64{}
	for inn, c := range g.Connections {
		before[inn] = c.Weight
	}
	require.NoError(t, m.ShiftWeight(g))
	for inn, c := range g.Connections {
		assert.InDelta(t, before[inn], c.Weight, m.Config.RandomWeightShiftMax)
	}
}

func TestWeightMutationsExhaust(t *testing.T) {
	f := newFixture(2, 1)
	g := f.seed()
	for _, c := range g.Connections {
		c.Enabled = false
	}
	m := newTestMutator(f.reg, 1)

	assert.ErrorIs(t, m.ShiftWeight(g), ErrExhaustedAttempts)
	assert.ErrorIs(t, m.RandomizeWeight(g), ErrExhaustedAttempts)
	assert.ErrorIs(t, m.ShiftWeight(NewGenome()), ErrNoConnections)
	for _, c := range g.Connections {
		assert.Equal(t, 1.0, c.Weight)
	}
}

func TestToggleConnection(t *testing.T) {
	f := newFixture(1, 1)
	g := f.seed()
	m := newTestMutator(f.reg, 1)

	require.NoError(t, m.ToggleConnection(g))
	assert.False(t, g.Connections[0].Enabled)
	require.NoError(t, m.ToggleConnection(g))
	assert.True(t, g.Connections[0].Enabled)

	assert.ErrorIs(t, m.ToggleConnection(NewGenome()), ErrNoConnections)
}

func TestMutateRandomChances(t *testing.T) {
	f := newFixture(2, 1)
	m := newTestMutator(f.reg, 1)
	*m.Config = MutationConfig{
		ChanceAddNode:          1,
		ChanceAddConnection:    0,
		ChanceRandomWeight:     0,
		ChanceWeightShift:      1,
		ChanceToggleConnection: 0,
		RandomWeightMax:        1,
		RandomWeightShiftMax:   0.1,
		MaxMutationAttempts:    10,
	}

	g := f.seed()
	results := m.MutateRandom(g)
	require.Len(t, results, 2)
	assert.Equal(t, MutateAddNode, results[0].Kind)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, MutateWeightShift, results[1].Kind)
	assert.NoError(t, results[1].Err)
	assert.Len(t, g.Nodes, 4)

	*m.Config = MutationConfig{MaxMutationAttempts: 10}
	assert.Empty(t, m.MutateRandom(g), "a chance of 0 disables every operator")
}

func TestRandomizeAllWeights(t *testing.T) {
	f := newFixture(3, 2)
	g := f.seed()
	m := newTestMutator(f.reg, 4)
	m.RandomizeAllWeights(g)

	distinct := map[float64]bool{}
	for _, c := range g.Connections {
		assert.LessOrEqual(t, c.Weight, m.Config.RandomWeightMax)
		assert.GreaterOrEqual(t, c.Weight, -m.Config.RandomWeightMax)
		distinct[c.Weight] = true
	}
	assert.Len(t, distinct, 6)
}
