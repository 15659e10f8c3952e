package neat

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/baldhumanity/neat-ff/neat/nn"
)

// Client is one individual of the population, addressed by name. It owns its genome and keeps
// a compiled calculator in sync with it.
type Client struct {
	Name    string
	Genome  *Genome
	Species string  // Name of the species the client belongs to, empty while being re-speciated
	Score   float64 // Reset to 0 at the start of every generation

	calculator *nn.Calculator
}

// newClient creates a client around genome and compiles its calculator.
func newClient(genome *Genome, activation nn.Activation) (*Client, error) {
	c := &Client{
		Name:   newName("client"),
		Genome: genome,
	}
	if err := c.Rebuild(activation); err != nil {
		return nil, err
	}
	return c, nil
}

// Rebuild validates the genome and recompiles the calculator. It must be called whenever the
// genome changes.
func (c *Client) Rebuild(activation nn.Activation) error {
	if err := c.Genome.Validate(); err != nil {
		return fmt.Errorf("client %s: %w", c.Name, err)
	}
	calc, err := c.Genome.Phenotype(activation)
	if err != nil {
		return fmt.Errorf("client %s: %w", c.Name, err)
	}
	c.calculator = calc
	return nil
}

// Calculate runs the client's network.
func (c *Client) Calculate(inputs []float64) ([]float64, error) {
	return c.calculator.Run(inputs)
}

// Distance returns the compatibility distance between the genomes of two clients.
func (c *Client) Distance(other *Client, coeffs DistanceCoefficients) float64 {
	return Distance(c.Genome, other.Genome, coeffs)
}

// newName returns prefix_<uuid>.
func newName(prefix string) string {
	return prefix + "_" + uuid.Must(uuid.NewV4()).String()
}
