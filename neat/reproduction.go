package neat

import (
	"math"
)

// reallocate resizes every species to the share of the population its adjusted fitness earns.
// Species over their target lose their lowest scorers, species under it breed new members.
// When the population average is not a positive number the shares are undefined; each species
// then culls ProportionToKill of its members and breeds back to its previous size.
func (m *Manager) reallocate(globalAverage float64) {
	previousSize := m.clients.Len()
	species := m.species.Values()

	undefined := globalAverage <= 0 || math.IsNaN(globalAverage) || math.IsInf(globalAverage, 0)
	if undefined {
		m.logger.Debug("Average adjusted fitness is undefined, culling proportionally",
			"generation", m.generation, "average", globalAverage)
	}

	targets := make([]int, len(species))
	if !undefined {
		targets = m.targetSizes(species, globalAverage, previousSize)
	}

	for i, s := range species {
		target := targets[i]
		if undefined {
			target = s.Size()
			m.killClients(s.CullProportion(m.config.Population.ProportionToKill))
		} else if size := s.Size(); size > target {
			m.killClients(s.KillLowestScoringClients(size - target))
		}

		for s.Size() > 0 && s.Size() < target {
			m.breedInto(s)
		}
	}

	m.dissolveSmallSpecies()
}

// targetSizes returns round(adjusted / average) for every species. Negative scores elsewhere
// can inflate these shares, so when they add up to more than the previous population they are
// scaled down proportionally (rounding down) to fit it.
func (m *Manager) targetSizes(species []*Species, globalAverage float64, previousSize int) []int {
	targets := make([]int, len(species))
	total := 0
	for i, s := range species {
		targets[i] = min(s.TargetPopulationSize(globalAverage), previousSize)
		total += targets[i]
	}
	if total <= previousSize {
		return targets
	}

	m.logger.Debug("Species targets exceed the population, scaling down",
		"generation", m.generation, "targets", total, "population", previousSize)
	for i := range targets {
		targets[i] = targets[i] * previousSize / total
	}
	return targets
}

// killClients drops clients that were already removed from their species from the client table.
func (m *Manager) killClients(victims []*Client) {
	for _, c := range victims {
		m.clients.Remove(c.Name)
	}
}

// breedInto adds one child of two random members of s to s.
func (m *Manager) breedInto(s *Species) *Client {
	c, err := newClient(s.Breed(m.rng), m.activation)
	if err != nil {
		panic(err)
	}
	s.put(c)
	m.clients.Add(c.Name, c)
	return c
}

// dissolveSmallSpecies removes every species left with at most one member. Survivors become
// orphans and are placed again during re-speciation.
func (m *Manager) dissolveSmallSpecies() {
	for _, s := range m.species.Values() {
		if s.Size() > 1 {
			continue
		}
		for _, c := range s.Members() {
			s.Remove(c)
		}
		m.species.Remove(s.Name)
		m.logger.Debug("Species dissolved", "species", s.Name, "generation", m.generation)
	}
}
