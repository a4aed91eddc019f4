// Command analyze prints quick, human-readable statistics about the board
// descriptors in a boards directory. For each board it summarizes walls,
// mirrors and chips, how many cells each pawn can stop on alone, and the
// shortest solve of every target from the initial pawn positions.
//
// Usage:
//
//	analyze [boards-dir]
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
)

// TargetSolve is the outcome of solving one chip from the initial pawns.
type TargetSolve struct {
	Goal     engine.Goal
	Location engine.Coordinate
	Solved   bool
	Moves    int
	Expanded int
	// Distance is the Manhattan distance from the pawn's start to the chip.
	Distance int
}

// BoardReport collects the statistics printed for a board.
type BoardReport struct {
	Name    string
	Seed    string
	Walls   int
	Mirrors int
	Chips   int
	Reach   [engine.NumColors]int
	Targets []TargetSolve
}

// Unsolvable counts the targets that cannot be reached.
func (r *BoardReport) Unsolvable() int {
	n := 0
	for _, t := range r.Targets {
		if !t.Solved {
			n++
		}
	}
	return n
}

// Hardest returns the solvable target needing the most moves.
func (r *BoardReport) Hardest() (TargetSolve, bool) {
	var hardest TargetSolve
	found := false
	for _, t := range r.Targets {
		if t.Solved && (!found || t.Moves > hardest.Moves) {
			hardest, found = t, true
		}
	}
	return hardest, found
}

func main() {
	boardsDir := "boards"
	if len(os.Args) > 1 {
		boardsDir = os.Args[1]
	}

	files, err := descriptorFiles(boardsDir)
	if err != nil {
		fmt.Printf("Error finding board descriptors: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Printf("No descriptors in %s, analyzing the built-in board\n", boardsDir)
		report, err := analyzeConfig(engine.DefaultBoardConfig())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printReport(os.Stdout, report)
		return
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeFile(os.Stdout, file)
	}
}

// descriptorFiles lists *.yaml and *.yml files in dir, sorted by name.
func descriptorFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// analyzeFile loads one descriptor and prints its report, or the error.
func analyzeFile(w io.Writer, path string) {
	config, err := engine.LoadBoardConfig(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading descriptor: %v\n", err)
		return
	}

	report, err := analyzeConfig(config)
	if err != nil {
		fmt.Fprintf(w, "Error analyzing board: %v\n", err)
		return
	}
	printReport(w, report)
}

// analyzeConfig builds the described board and gathers its statistics.
func analyzeConfig(config *engine.BoardConfig) (*BoardReport, error) {
	board, err := config.Build()
	if err != nil {
		return nil, err
	}

	pawns := board.InitialPawns()
	goals := board.Goals()

	report := &BoardReport{
		Name:    config.Name,
		Seed:    board.Seed(),
		Walls:   engine.CountWalls(board),
		Mirrors: engine.CountMirrors(board),
		Chips:   len(goals),
	}

	for i := range report.Reach {
		cells, err := engine.ReachableCells(board, pawns, engine.Color(i))
		if err != nil {
			return nil, err
		}
		report.Reach[i] = len(cells)
	}

	solver := engine.NewSolver(board)
	for _, placement := range goals {
		solution, err := solver.Solve(pawns, placement.Goal.Color, placement.Goal)
		if err != nil {
			return nil, fmt.Errorf("solving %s: %w", placement.Goal, err)
		}
		report.Targets = append(report.Targets, TargetSolve{
			Goal:     placement.Goal,
			Location: placement.Location,
			Solved:   solution.Solved,
			Moves:    solution.Length(),
			Expanded: solution.Stats.Expanded,
			Distance: engine.ManhattanDistance(pawns[placement.Goal.Color], placement.Location),
		})
	}

	return report, nil
}

func printReport(w io.Writer, r *BoardReport) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Seed: %s\n", r.Seed)
	fmt.Fprintf(w, "Wall sides: %d\n", r.Walls)
	fmt.Fprintf(w, "Mirrors: %d\n", r.Mirrors)
	fmt.Fprintf(w, "Chips: %d\n", r.Chips)

	for i, n := range r.Reach {
		fmt.Fprintf(w, "Cells reachable by %s alone: %d\n", engine.Color(i), n)
	}

	for _, t := range r.Targets {
		if t.Solved {
			fmt.Fprintf(w, "  %-16s %s: %d moves, distance %d (%d expanded)\n", t.Goal, t.Location, t.Moves, t.Distance, t.Expanded)
		} else {
			fmt.Fprintf(w, "  %-16s %s: unsolvable, distance %d (%d expanded)\n", t.Goal, t.Location, t.Distance, t.Expanded)
		}
	}

	if unsolvable := r.Unsolvable(); unsolvable > 0 {
		fmt.Fprintf(w, "⚠️  %d/%d targets cannot be reached from the initial positions\n", unsolvable, len(r.Targets))
	} else {
		fmt.Fprintf(w, "✅ All %d targets are reachable\n", len(r.Targets))
	}
	if hardest, ok := r.Hardest(); ok {
		fmt.Fprintf(w, "Hardest target: %s in %d moves\n", hardest.Goal, hardest.Moves)
	}
}
