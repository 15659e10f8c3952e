package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigINI(t *testing.T) {
	path := writeFile(t, "xor.ini", `
[Network]
input_size  = 3
output_size = 2
activation  = tanh

[Speciation]
species_distance_threshold = 2.5
c3 = 0.8

[Mutation]
mutate_chance_add_node = 0
max_mutation_attempts  = 7

[Population]
seed = 1234
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, config.Network.InputSize)
	assert.Equal(t, 2, config.Network.OutputSize)
	assert.Equal(t, 2.5, config.Speciation.DistanceThreshold)
	assert.Equal(t, 0.8, config.Speciation.C3)
	assert.Equal(t, 0, config.Mutation.ChanceAddNode)
	assert.Equal(t, 7, config.Mutation.MaxMutationAttempts)
	assert.Equal(t, int64(1234), config.Population.Seed)

	// Missing keys keep their defaults.
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Speciation.C1, config.Speciation.C1)
	assert.Equal(t, defaults.Mutation.ChanceAddConnection, config.Mutation.ChanceAddConnection)
	assert.Equal(t, defaults.Population.ProportionToKill, config.Population.ProportionToKill)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "xor.yaml", `
network:
  input_size: 4
  activation: relu
mutation:
  random_weight_max: 3.5
population:
  proportion_to_kill: 0.5
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, config.Network.InputSize)
	assert.Equal(t, 1, config.Network.OutputSize)
	assert.Equal(t, "relu", config.Network.Activation)
	assert.Equal(t, 3.5, config.Mutation.RandomWeightMax)
	assert.Equal(t, 0.5, config.Population.ProportionToKill)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Network.InputSize = 9
	config.Population.Seed = 77

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteYAML(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)

	path := writeFile(t, "bad.ini", "[Network]\nactivation = swish\n")
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	path = writeFile(t, "bad.yaml", "network: [not, a, map]\n")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"input size", func(c *Config) { c.Network.InputSize = 0 }},
		{"output size", func(c *Config) { c.Network.OutputSize = -1 }},
		{"activation", func(c *Config) { c.Network.Activation = "nope" }},
		{"threshold", func(c *Config) { c.Speciation.DistanceThreshold = 0 }},
		{"coefficient", func(c *Config) { c.Speciation.C2 = -1 }},
		{"chance", func(c *Config) { c.Mutation.ChanceToggleConnection = -1 }},
		{"weight max", func(c *Config) { c.Mutation.RandomWeightMax = -0.1 }},
		{"shift max", func(c *Config) { c.Mutation.RandomWeightShiftMax = -0.1 }},
		{"attempts", func(c *Config) { c.Mutation.MaxMutationAttempts = 0 }},
		{"proportion", func(c *Config) { c.Population.ProportionToKill = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}
