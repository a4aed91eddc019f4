// Package engine provides the core puzzle logic of the Ricochet solver.
//
// The engine package implements:
//   - The static board model: walls, mirrors, goal chips and initial pawns
//   - Seed encoding and decoding of a board's full configuration
//   - Slide resolution through walls, mirrors and other pawns
//   - A breadth-first solver returning shortest move sequences
//   - A small runtime that draws targets and keeps a solve history
//
// Core Types:
//
// Board is immutable once built and may be shared between goroutines.
// Resolve computes where a single slide ends. Solver runs the search over
// immutable snapshots stored in an append-only arena; every pawn owns a
// visited bitset so the search always terminates. GameEngine ties one board
// to a current target and is what sessions hold.
//
// Usage:
//
//	board, err := engine.NewBoard(engine.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	goal := engine.Goal{Color: engine.Red, Shape: engine.Square}
//	solution, err := engine.Solve(board, board.InitialPawns(), engine.Red, goal)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if solution.Solved {
//		fmt.Println(solution.Moves)
//	}
//
// Rules:
//
// A pawn slides until a wall on its current cell faces the travel direction,
// the next cell holds another pawn, or the board edge. A mirror owned by the
// pawn's color turns it by 90 degrees; mirrors of other colors are ignored.
// A target is reached when the pawn of the chip's color stops on the chip.
package engine
