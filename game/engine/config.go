package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// BoardConfig describes a board in the catalogue. A board is either the
// generated default layout (Seed empty) or the layout encoded by Seed.
type BoardConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Mirrors     bool   `json:"mirrors" yaml:"mirrors"`
	Seed        string `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultBoardConfig describes the generated board with mirrors.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "classic",
		Description: "Fixed 16x16 layout with two mirrors per color",
		Mirrors:     true,
	}
}

// ValidateBoardConfig checks a descriptor and reports every problem found.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	var err error
	if strings.TrimSpace(config.Name) == "" {
		err = multierr.Append(err, fmt.Errorf("config validation: name is required"))
	}
	if strings.ContainsAny(config.Name, `/\`) {
		err = multierr.Append(err, fmt.Errorf("config validation: name %q must not contain path separators", config.Name))
	}
	if strings.TrimSpace(config.Description) == "" {
		err = multierr.Append(err, fmt.Errorf("config validation: description is required"))
	}

	if config.Seed != "" {
		board, parseErr := ParseSeed(config.Seed)
		switch {
		case parseErr != nil:
			err = multierr.Append(err, fmt.Errorf("config validation: seed: %w", parseErr))
		case (board.Options().Mirrors > 0) != config.Mirrors:
			err = multierr.Append(err, fmt.Errorf("config validation: mirrors=%t disagrees with seed header (%d mirrors per color)",
				config.Mirrors, board.Options().Mirrors))
		case board.Seed() != strings.TrimSpace(config.Seed):
			err = multierr.Append(err, fmt.Errorf("config validation: seed is not in canonical form"))
		}
	}

	return err
}

// Options returns the board options the descriptor asks for.
func (c *BoardConfig) Options() Options {
	opts := DefaultOptions()
	if !c.Mirrors {
		opts.Mirrors = 0
	}
	return opts
}

// Build constructs the board described by the config.
func (c *BoardConfig) Build() (*Board, error) {
	if c.Seed != "" {
		return ParseSeed(c.Seed)
	}
	return NewBoard(c.Options())
}

// LoadBoardConfig reads and validates a YAML board descriptor.
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseBoardConfig(data)
}

// ParseBoardConfig decodes and validates a YAML board descriptor.
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	var config BoardConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse board config: %w", err)
	}
	config.Seed = strings.TrimSpace(config.Seed)
	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// MarshalBoardConfig encodes a descriptor as YAML.
func MarshalBoardConfig(config *BoardConfig) ([]byte, error) {
	return yaml.Marshal(config)
}

// BoardConfigPath returns the descriptor file for name inside dir.
func BoardConfigPath(dir, name string) string {
	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}
	return filepath.Join(dir, name)
}
