package neat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neat-ff/neat/nn"
)

// Config stores the configuration parameters of a Manager.
type Config struct {
	Network    NetworkConfig    `yaml:"network"`
	Speciation SpeciationConfig `yaml:"speciation"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Population PopulationConfig `yaml:"population"`
}

// NetworkConfig describes the shape of every network in the population.
type NetworkConfig struct {
	InputSize  int    `ini:"input_size" yaml:"input_size"`   // Caller inputs, not counting the bias
	OutputSize int    `ini:"output_size" yaml:"output_size"` // Length of every UseClient result
	Activation string `ini:"activation" yaml:"activation"`   // Name understood by nn.GetActivation
}

// SpeciationConfig holds the compatibility distance parameters.
type SpeciationConfig struct {
	DistanceThreshold float64 `ini:"species_distance_threshold" yaml:"species_distance_threshold"`
	C1                float64 `ini:"c1" yaml:"c1"` // Excess gene coefficient
	C2                float64 `ini:"c2" yaml:"c2"` // Disjoint gene coefficient
	C3                float64 `ini:"c3" yaml:"c3"` // Weight difference coefficient
}

// Coefficients returns the distance coefficients as used by Distance.
func (sc *SpeciationConfig) Coefficients() DistanceCoefficients {
	return DistanceCoefficients{C1: sc.C1, C2: sc.C2, C3: sc.C3}
}

// MutationConfig holds the mutation parameters. Chances are 1-in-N per generation; 0 disables
// an operator.
type MutationConfig struct {
	ChanceAddNode          int     `ini:"mutate_chance_add_node" yaml:"mutate_chance_add_node"`
	ChanceAddConnection    int     `ini:"mutate_chance_add_connection" yaml:"mutate_chance_add_connection"`
	ChanceRandomWeight     int     `ini:"mutate_chance_random_weight" yaml:"mutate_chance_random_weight"`
	ChanceWeightShift      int     `ini:"mutate_chance_weight_shift" yaml:"mutate_chance_weight_shift"`
	ChanceToggleConnection int     `ini:"mutate_chance_toggle_connection" yaml:"mutate_chance_toggle_connection"`
	RandomWeightMax        float64 `ini:"random_weight_max" yaml:"random_weight_max"`
	RandomWeightShiftMax   float64 `ini:"random_weight_shift_max" yaml:"random_weight_shift_max"`
	MaxMutationAttempts    int     `ini:"max_mutation_attempts" yaml:"max_mutation_attempts"`
}

// PopulationConfig holds the generation parameters.
type PopulationConfig struct {
	ProportionToKill float64 `ini:"proportion_to_kill" yaml:"proportion_to_kill"`
	Seed             int64   `ini:"seed" yaml:"seed"` // 0 seeds from the clock
}

// DefaultConfig returns a configuration that evolves small networks reasonably well.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			InputSize:  2,
			OutputSize: 1,
			Activation: "sigmoid",
		},
		Speciation: SpeciationConfig{
			DistanceThreshold: 4.0,
			C1:                1.0,
			C2:                1.0,
			C3:                0.4,
		},
		Mutation: MutationConfig{
			ChanceAddNode:          30,
			ChanceAddConnection:    10,
			ChanceRandomWeight:     10,
			ChanceWeightShift:      3,
			ChanceToggleConnection: 20,
			RandomWeightMax:        1.0,
			RandomWeightShiftMax:   0.3,
			MaxMutationAttempts:    100,
		},
		Population: PopulationConfig{
			ProportionToKill: 0.2,
		},
	}
}

// LoadConfig reads a configuration file on top of DefaultConfig. Files ending in .yaml or .yml
// are read as YAML, anything else as INI with [Network], [Speciation], [Mutation] and
// [Population] sections. Keys missing from the file keep their default value.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := loadYAML(filePath, config); err != nil {
			return nil, err
		}
	default:
		if err := loadINI(filePath, config); err != nil {
			return nil, err
		}
	}

	config.Network.Activation = strings.TrimSpace(config.Network.Activation)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(filePath string, config *Config) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Allow # comments starting with # or ;
		UnescapeValueCommentSymbols: true, // If # or ; appear in value, treat as value
	}, filePath)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"Network", &config.Network},
		{"Speciation", &config.Speciation},
		{"Mutation", &config.Mutation},
		{"Population", &config.Population},
	}
	for _, s := range sections {
		if err := cfg.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	return nil
}

func loadYAML(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	// Unmarshal into the defaults so only fields present in the file are overwritten.
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks every parameter. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Network.InputSize <= 0 {
		return invalid("input_size must be positive")
	}
	if c.Network.OutputSize <= 0 {
		return invalid("output_size must be positive")
	}
	if _, err := nn.GetActivation(c.Network.Activation); err != nil {
		return invalid("activation: %v", err)
	}

	if c.Speciation.DistanceThreshold <= 0 {
		return invalid("species_distance_threshold must be positive")
	}
	if c.Speciation.C1 < 0 || c.Speciation.C2 < 0 || c.Speciation.C3 < 0 {
		return invalid("distance coefficients c1, c2 and c3 cannot be negative")
	}

	chances := map[string]int{
		"mutate_chance_add_node":          c.Mutation.ChanceAddNode,
		"mutate_chance_add_connection":    c.Mutation.ChanceAddConnection,
		"mutate_chance_random_weight":     c.Mutation.ChanceRandomWeight,
		"mutate_chance_weight_shift":      c.Mutation.ChanceWeightShift,
		"mutate_chance_toggle_connection": c.Mutation.ChanceToggleConnection,
	}
	for key, chance := range chances {
		if chance < 0 {
			return invalid("%s cannot be negative", key)
		}
	}
	if c.Mutation.RandomWeightMax < 0 {
		return invalid("random_weight_max cannot be negative")
	}
	if c.Mutation.RandomWeightShiftMax < 0 {
		return invalid("random_weight_shift_max cannot be negative")
	}
	if c.Mutation.MaxMutationAttempts <= 0 {
		return invalid("max_mutation_attempts must be positive")
	}

	if c.Population.ProportionToKill < 0 || c.Population.ProportionToKill > 1 {
		return invalid("proportion_to_kill must be between 0 and 1")
	}

	return nil
}
