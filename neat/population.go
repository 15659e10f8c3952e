package neat

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/baldhumanity/neat-ff/neat/nn"
)

// Phase is the stage of the generation cycle a Manager is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEvaluating
	PhaseReallocating
	PhaseReproducing
	PhaseRespeciating
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseReallocating:
		return "reallocating"
	case PhaseReproducing:
		return "reproducing"
	case PhaseRespeciating:
		return "respeciating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Manager holds the state of the evolutionary process: the clients, their species, the
// innovation registry and the single random stream every evolutionary decision draws from.
// A Manager is not safe for concurrent use.
type Manager struct {
	config     *Config
	activation nn.Activation
	registry   *Registry
	rng        *rand.Rand
	mutator    *Mutator

	inputNodes  []*NodeGene // bias first
	outputNodes []*NodeGene

	species *OrderedSet[string, *Species]
	clients *OrderedSet[string, *Client]

	generation int
	phase      Phase
	reporters  []Reporter
	logger     *slog.Logger
}

// NewManager creates a Manager with no clients. A bias input is added in front of the
// configured inputs. If activation is nil the activation named in the config is used.
func NewManager(config *Config, activation nn.Activation) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if activation == nil {
		fn, err := nn.GetActivation(config.Network.Activation)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		activation = fn
	}

	seed := config.Population.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	registry := NewRegistry()

	m := &Manager{
		config:     config,
		activation: activation,
		registry:   registry,
		rng:        rng,
		mutator:    NewMutator(registry, rng, &config.Mutation),
		species:    NewOrderedSet[string, *Species](),
		clients:    NewOrderedSet[string, *Client](),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	inputs := config.Network.InputSize + 1
	for i := 0; i < inputs; i++ {
		m.inputNodes = append(m.inputNodes, registry.NewNode(InputX, float64(i+1)/float64(inputs+1)))
	}
	outputs := config.Network.OutputSize
	for i := 0; i < outputs; i++ {
		m.outputNodes = append(m.outputNodes, registry.NewNode(OutputX, float64(i+1)/float64(outputs+1)))
	}

	return m, nil
}

// SetLogger replaces the logger. A nil logger discards everything.
func (m *Manager) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.logger = l
}

// AddReporter registers a reporter that is called after every generation.
func (m *Manager) AddReporter(r Reporter) {
	m.reporters = append(m.reporters, r)
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() *Config {
	return m.config
}

// Registry returns the innovation registry shared by every genome of the population.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// NumberOfSpecies returns the number of species.
func (m *Manager) NumberOfSpecies() int {
	return m.species.Len()
}

// NumberOfClients returns the number of clients.
func (m *Manager) NumberOfClients() int {
	return m.clients.Len()
}

// ClientNames returns the client names in creation order.
func (m *Manager) ClientNames() []string {
	return m.clients.Keys()
}

// Generation returns the number of completed generations.
func (m *Manager) Generation() int {
	return m.generation
}

// Phase returns the current stage of the generation cycle.
func (m *Manager) Phase() Phase {
	return m.phase
}

// NewClient adds a client with a fresh seed genome and returns its name.
func (m *Manager) NewClient() (string, error) {
	if m.phase != PhaseIdle {
		return "", ErrGenerationInProgress
	}
	return m.addSeedClient().Name, nil
}

// UseClient runs the named client's network. The bias input 1.0 is prepended to inputs.
func (m *Manager) UseClient(name string, inputs []float64) ([]float64, error) {
	c, err := m.client(name)
	if err != nil {
		return nil, err
	}
	withBias := make([]float64, 0, len(inputs)+1)
	withBias = append(withBias, 1.0)
	withBias = append(withBias, inputs...)

	outputs, err := c.Calculate(withBias)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", name, err)
	}
	return outputs, nil
}

// ScoreClient sets the score of the named client for the current generation.
func (m *Manager) ScoreClient(name string, score float64) error {
	c, err := m.client(name)
	if err != nil {
		return err
	}
	c.Score = score
	return nil
}

// Species returns the species the named client belongs to.
func (m *Manager) Species(name string) (*Species, error) {
	c, err := m.client(name)
	if err != nil {
		return nil, err
	}
	s, ok := m.species.Get(c.Species)
	if !ok {
		return nil, fmt.Errorf("%w: %q (client %s)", ErrUnknownSpecies, c.Species, name)
	}
	return s, nil
}

// UpdateClients advances the population by one generation:
//  1. every species computes its fitness
//  2. species are resized to their share of the population
//  3. every client is reset, mutated and recompiled
//  4. clients that drifted away from their species are placed again
//
// Reporters are called at the end of the cycle, before the manager becomes idle again.
func (m *Manager) UpdateClients() error {
	if m.phase != PhaseIdle {
		return ErrGenerationInProgress
	}
	start := time.Now()
	defer func() { m.phase = PhaseIdle }()

	m.phase = PhaseEvaluating
	average, stats := m.evaluate()

	m.phase = PhaseReallocating
	m.reallocate(average)

	m.phase = PhaseReproducing
	m.reproduce()

	m.phase = PhaseRespeciating
	m.respeciate()

	m.generation++
	stats.Clients = m.clients.Len()
	stats.Species = m.species.Len()
	stats.NodeInnovations = m.registry.NodeCount()
	stats.ConnectionInnovations = m.registry.ConnectionCount()

	m.logger.Info("Generation finished", "stats", stats, "elapsed", time.Since(start))
	return m.report(stats)
}

// evaluate computes every species' fitness and the population-wide average adjusted fitness
// (sum of species adjusted fitness divided by the client count).
func (m *Manager) evaluate() (float64, GenerationStats) {
	total := 0.0
	for _, s := range m.species.Values() {
		s.CalculateFitnesses()
		total += s.AdjustedFitness()
	}
	average := total / float64(m.clients.Len())

	scores := make([]float64, 0, m.clients.Len())
	for _, c := range m.clients.Values() {
		scores = append(scores, c.Score)
	}
	stats := GenerationStats{Generation: m.generation, AverageAdjustedFitness: average}
	stats.scoreStats(scores)
	return average, stats
}

// reproduce resets, mutates and recompiles every client.
func (m *Manager) reproduce() {
	for _, c := range m.clients.Values() {
		c.Score = 0
		for _, r := range m.mutator.MutateRandom(c.Genome) {
			if r.Err != nil {
				m.logger.Debug("Mutation failed", "client", c.Name, "mutation", r.Kind.String(), "err", r.Err)
			}
		}
		if err := c.Rebuild(m.activation); err != nil {
			panic(err)
		}
	}
}

// respeciate places orphans and clients that drifted beyond the threshold of their
// representative. Representatives never move.
func (m *Manager) respeciate() {
	coeffs := m.config.Speciation.Coefficients()
	threshold := m.config.Speciation.DistanceThreshold

	for _, c := range m.clients.Values() {
		if c.Species != "" {
			s, ok := m.species.Get(c.Species)
			if !ok {
				panic(fmt.Sprintf("neat: client %s refers to missing species %s", c.Name, c.Species))
			}
			if s.Representative == c || c.Distance(s.Representative, coeffs) < threshold {
				continue
			}
			s.Remove(c)
		}
		m.speciate(c)
	}
}

// speciate puts c in the first species that accepts it or in a new one.
func (m *Manager) speciate(c *Client) {
	coeffs := m.config.Speciation.Coefficients()
	threshold := m.config.Speciation.DistanceThreshold

	for _, s := range m.species.Values() {
		if s.TryAddClient(c, coeffs, threshold) {
			return
		}
	}

	s := NewSpecies()
	s.TryAddClient(c, coeffs, threshold)
	m.species.Add(s.Name, s)
	m.logger.Debug("Species created", "species", s.Name, "representative", c.Name, "generation", m.generation)
}

// seedGenome returns a genome holding every input and output node, fully connected from inputs
// to outputs with random weights.
func (m *Manager) seedGenome() *Genome {
	g := NewGenome()
	for _, n := range m.inputNodes {
		g.AddNode(n)
	}
	for _, n := range m.outputNodes {
		g.AddNode(n)
	}
	for _, in := range m.inputNodes {
		for _, out := range m.outputNodes {
			g.AddConnection(m.registry.NewConnection(in, out))
		}
	}
	m.mutator.RandomizeAllWeights(g)
	return g
}

// addSeedClient creates a seed client, speciates it and registers it.
func (m *Manager) addSeedClient() *Client {
	c, err := newClient(m.seedGenome(), m.activation)
	if err != nil {
		panic(err)
	}
	m.speciate(c)
	m.clients.Add(c.Name, c)
	return c
}

func (m *Manager) client(name string) (*Client, error) {
	c, ok := m.clients.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClient, name)
	}
	return c, nil
}

// report sends stats to every reporter and joins their errors.
func (m *Manager) report(stats GenerationStats) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.ReportGeneration(stats); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
