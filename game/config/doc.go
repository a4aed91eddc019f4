// Package config provides the board catalogue of the Ricochet solver.
//
// The config package handles:
//   - Loading board descriptors from YAML files
//   - Descriptor validation, including seed decoding
//   - Default board selection
//   - Descriptor discovery and listing
//
// Descriptor Format:
//
// Each descriptor is a YAML file in the boards directory:
//
//	name: classic
//	description: Fixed 16x16 layout with two mirrors per color
//	mirrors: true
//	seed: ""   # optional, a full board seed
//
// A descriptor without a seed builds the generated default layout, with or
// without mirrors. A seeded descriptor must use the canonical form returned
// by Board.Seed.
//
// Usage:
//
//	manager, err := config.NewManager("boards")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	descriptor, err := manager.LoadBoard("classic")
//	board, err := descriptor.Build()
//
// The default board is "classic" when present, otherwise the first valid
// descriptor, otherwise the generated board with mirrors.
package config
