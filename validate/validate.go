// Command validate checks the YAML board descriptors in a boards directory.
// It checks:
//   - YAML structure, rejecting unknown keys
//   - Required fields (name, description) and the name matching the file name
//   - The seed, when present: header, entries and canonical form
//   - The mirrors flag agreeing with the seed header
//   - That the board can be built and its seed parses back to the same seed
//   - That the descriptor survives a marshal and parse round trip
//
// Usage:
//
//	validate [boards-dir]
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds summary lines and is only filled for valid descriptors.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateDescriptor loads and validates a single board descriptor.
func validateDescriptor(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, board, err := checkDescriptor(filePath)
	if err != nil {
		result.Valid = false
		for _, e := range multierr.Errors(err) {
			result.Errors = append(result.Errors, e.Error())
		}
		return result
	}

	kind := "generated"
	if config.Seed != "" {
		kind = "seeded"
	}
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Board: %dx%d, %s", board.Size(), board.Size(), kind),
		fmt.Sprintf("✓ Walls: %d sides", engine.CountWalls(board)),
		fmt.Sprintf("✓ Mirrors: %d", engine.CountMirrors(board)),
		fmt.Sprintf("✓ Chips: %d", len(board.Goals())),
		"✓ Seed round trip",
	)
	return result
}

// checkDescriptor runs every check on one file and returns all the problems
// found, combined with multierr.
func checkDescriptor(filePath string) (*engine.BoardConfig, *engine.Board, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config engine.BoardConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("descriptor is empty")
		}
		return nil, nil, fmt.Errorf("invalid YAML: %w", err)
	}
	config.Seed = strings.TrimSpace(config.Seed)

	errs := engine.ValidateBoardConfig(&config)

	base := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(filePath), ".yaml"), ".yml")
	if config.Name != "" && config.Name != base {
		errs = multierr.Append(errs, fmt.Errorf("name %q does not match file name %q", config.Name, base))
	}
	if errs != nil {
		return nil, nil, errs
	}

	board, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build board: %w", err)
	}

	errs = multierr.Append(errs, checkSeedRoundTrip(board))
	errs = multierr.Append(errs, checkDescriptorRoundTrip(&config))
	if errs != nil {
		return nil, nil, errs
	}
	return &config, board, nil
}

// checkSeedRoundTrip verifies that parsing a board's seed yields the same seed.
func checkSeedRoundTrip(board *engine.Board) error {
	seed := board.Seed()
	parsed, err := engine.ParseSeed(seed)
	if err != nil {
		return fmt.Errorf("seed does not parse back: %w", err)
	}
	if parsed.Seed() != seed {
		return fmt.Errorf("seed changes after a parse round trip")
	}
	if parsed.InitialPawns() != board.InitialPawns() {
		return fmt.Errorf("pawns change after a parse round trip")
	}
	return nil
}

// checkDescriptorRoundTrip verifies that marshalling and parsing the
// descriptor gives it back unchanged.
func checkDescriptorRoundTrip(config *engine.BoardConfig) error {
	data, err := engine.MarshalBoardConfig(config)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	parsed, err := engine.ParseBoardConfig(data)
	if err != nil {
		return fmt.Errorf("marshalled descriptor does not parse: %w", err)
	}
	if *parsed != *config {
		return fmt.Errorf("descriptor changes after a marshal round trip")
	}
	return nil
}

// validateDir validates every descriptor in dir, prints a report to w and
// reports whether all of them are valid.
func validateDir(w io.Writer, dir string) (bool, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return false, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no board descriptors in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateDescriptor(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All board descriptors are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some board descriptors have errors")
	}
	return allValid, nil
}

func main() {
	boardsDir := "boards"
	if len(os.Args) > 1 {
		boardsDir = os.Args[1]
	}

	ok, err := validateDir(os.Stdout, boardsDir)
	if err != nil {
		fmt.Printf("Error finding board descriptors: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
