package neat

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Species represents a group of clients whose genomes are within the distance threshold of a
// shared representative.
type Species struct {
	Name           string                      // Unique identifier, species_<uuid>
	Clients        *OrderedSet[string, *Client] // Members in insertion order, keyed by client name
	Representative *Client                     // Member every candidate is compared against

	fitness         float64 // Sum of member scores
	adjustedFitness float64 // Mean member score
}

// NewSpecies creates an empty species. The first client offered to it becomes its representative.
func NewSpecies() *Species {
	return &Species{
		Name:    newName("species"),
		Clients: NewOrderedSet[string, *Client](),
	}
}

// Size returns the number of members.
func (s *Species) Size() int {
	return s.Clients.Len()
}

// Members returns the members in insertion order.
func (s *Species) Members() []*Client {
	return s.Clients.Values()
}

// TryAddClient admits c if the species has no representative yet (c becomes the representative)
// or if c is closer than threshold to the representative. It reports whether c was admitted.
func (s *Species) TryAddClient(c *Client, coeffs DistanceCoefficients, threshold float64) bool {
	if s.Representative == nil {
		s.Representative = c
		s.put(c)
		return true
	}
	if c.Distance(s.Representative, coeffs) < threshold {
		s.put(c)
		return true
	}
	return false
}

// put adds c to the members and points c at this species.
func (s *Species) put(c *Client) {
	s.Clients.Add(c.Name, c)
	c.Species = s.Name
}

// Remove takes c out of the species. If c was the representative, the first remaining member
// takes its place.
func (s *Species) Remove(c *Client) bool {
	if !s.Clients.Remove(c.Name) {
		return false
	}
	if c.Species == s.Name {
		c.Species = ""
	}
	if s.Representative == c {
		s.Representative = nil
		if s.Clients.Len() > 0 {
			_, s.Representative = s.Clients.At(0)
		}
	}
	return true
}

// CalculateFitnesses updates the raw fitness (sum of scores) and the adjusted fitness
// (raw fitness divided by the member count, 0 when the raw fitness is 0).
func (s *Species) CalculateFitnesses() {
	total := 0.0
	for _, c := range s.Clients.Values() {
		total += c.Score
	}
	s.fitness = total
	s.adjustedFitness = 0
	if total != 0 && s.Clients.Len() > 0 {
		s.adjustedFitness = total / float64(s.Clients.Len())
	}
}

// Fitness returns the raw fitness computed by the last CalculateFitnesses.
func (s *Species) Fitness() float64 {
	return s.fitness
}

// AdjustedFitness returns the adjusted fitness computed by the last CalculateFitnesses.
func (s *Species) AdjustedFitness() float64 {
	return s.adjustedFitness
}

// TargetPopulationSize returns how many members the species earns next generation given the
// population's average adjusted fitness. The result is never negative.
func (s *Species) TargetPopulationSize(globalAverage float64) int {
	target := math.Round(s.adjustedFitness / globalAverage)
	if math.IsNaN(target) || target < 0 {
		return 0
	}
	if math.IsInf(target, 1) || target > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(target)
}

// KillLowestScoringClients removes the n lowest scoring members and returns them, lowest first.
// Members with equal scores keep their insertion order.
func (s *Species) KillLowestScoringClients(n int) []*Client {
	members := s.Clients.Values()
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Score < members[j].Score
	})

	if n > len(members) {
		n = len(members)
	}
	if n <= 0 {
		return nil
	}

	victims := members[:n]
	for _, c := range victims {
		s.Remove(c)
	}
	return victims
}

// CullProportion kills ceil(size*p) of the lowest scoring members, always leaving at least one.
func (s *Species) CullProportion(p float64) []*Client {
	n := int(math.Ceil(float64(s.Size()) * p))
	if n >= s.Size() {
		n = s.Size() - 1
	}
	return s.KillLowestScoringClients(n)
}

// Breed draws two members with replacement and crosses them over. The member with the higher
// score is the fitter parent; on a tie the first drawn one is.
func (s *Species) Breed(rng *rand.Rand) *Genome {
	_, first, ok := s.Clients.Random(rng)
	if !ok {
		panic(fmt.Sprintf("neat: cannot breed empty species %s", s.Name))
	}
	_, second, _ := s.Clients.Random(rng)

	if second.Score > first.Score {
		return Crossover(second.Genome, first.Genome, rng)
	}
	return Crossover(first.Genome, second.Genome, rng)
}

// String returns a short summary of the species.
func (s *Species) String() string {
	return fmt.Sprintf("Species(%s, Members: %d, Fitness: %.3f, Adjusted: %.3f)", s.Name, s.Size(), s.fitness, s.adjustedFitness)
}
