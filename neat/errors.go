package neat

import "errors"

// Configuration errors.
var (
	// ErrUnknownClient is returned when a client name is not part of the population.
	ErrUnknownClient = errors.New("neat: unknown client")
	// ErrUnknownSpecies is returned when a client refers to a species that no longer exists.
	ErrUnknownSpecies = errors.New("neat: unknown species")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("neat: invalid config")
)

// ErrStructuralInvariant is returned by Genome.Validate when a genome is not a well formed
// feed-forward graph.
var ErrStructuralInvariant = errors.New("neat: structural invariant violated")

// Mutation failures. These are local and never fatal; the genome is left unchanged.
var (
	ErrExhaustedAttempts  = errors.New("neat: mutation attempts exhausted")
	ErrNoConnections      = errors.New("neat: genome has no connections")
	ErrConnectionDisabled = errors.New("neat: connection is disabled")
	ErrAlreadySplit       = errors.New("neat: connection already split in this genome")
)

// ErrGenerationInProgress is returned when UpdateClients is called while a generation is running.
var ErrGenerationInProgress = errors.New("neat: generation already in progress")
