package engine

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Solution is the outcome of a search. Solved is false when the frontier was
// exhausted without reaching the goal; that is a normal result, not an error.
type Solution struct {
	Pawn   Color       `json:"pawn"`
	Target Goal        `json:"target"`
	Goal   Coordinate  `json:"goal"`
	Solved bool        `json:"solved"`
	Moves  []Move      `json:"moves"`
	Stats  SearchStats `json:"stats"`
}

// Length returns the number of moves of the solution.
func (s *Solution) Length() int {
	return len(s.Moves)
}

// SearchStats reports how much of the state space a search explored.
type SearchStats struct {
	Expanded int `json:"expanded"`
	Enqueued int `json:"enqueued"`
	DeadEnds int `json:"dead_ends"`
}

// resolutionState is one immutable snapshot of the search. Parents are arena
// indexes, so lineages share history without owning pointers.
type resolutionState struct {
	pawns  PawnSet
	cost   int
	parent int
}

// visitedSet records, per pawn, the cells already produced as destinations.
type visitedSet struct {
	size int
	bits [NumColors][]uint64
}

func newVisitedSet(size int) *visitedSet {
	v := &visitedSet{size: size}
	words := (size*size + 63) / 64
	for i := range v.bits {
		v.bits[i] = make([]uint64, words)
	}
	return v
}

func (v *visitedSet) index(c Coordinate) int {
	return c.Y*v.size + c.X
}

func (v *visitedSet) has(pawn Color, c Coordinate) bool {
	i := v.index(c)
	return v.bits[pawn][i/64]&(1<<(uint(i)%64)) != 0
}

func (v *visitedSet) add(pawn Color, c Coordinate) {
	i := v.index(c)
	v.bits[pawn][i/64] |= 1 << (uint(i) % 64)
}

// Solver runs breadth-first searches on a single board.
type Solver struct {
	board  *Board
	logger log.FieldLogger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(logger log.FieldLogger) SolverOption {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSolver returns a solver for board.
func NewSolver(board *Board, opts ...SolverOption) *Solver {
	discard := log.New()
	discard.SetOutput(io.Discard)
	s := &Solver{board: board, logger: discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve is a shorthand for NewSolver(board).Solve(pawns, target, goal).
func Solve(board *Board, pawns PawnSet, target Color, goal Goal) (*Solution, error) {
	return NewSolver(board).Solve(pawns, target, goal)
}

// Solve finds a shortest sequence of slides of the target pawn that brings it
// onto the goal chip. Only the target pawn moves; the other pawns are
// obstacles. The search always terminates: every pawn can be produced as a
// destination at most once per cell.
func (s *Solver) Solve(pawns PawnSet, target Color, goal Goal) (*Solution, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPawn, int(target))
	}
	if err := s.board.ValidatePawns(pawns); err != nil {
		return nil, err
	}
	goalCell, err := s.board.GoalLocation(goal.Color, goal.Shape)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(log.Fields{
		"pawn":   target.String(),
		"target": goal.String(),
		"goal":   goalCell.String(),
	})
	logger.Debug("starting search")

	solution := &Solution{Pawn: target, Target: goal, Goal: goalCell, Moves: []Move{}}

	// The arena doubles as the FIFO frontier: states are appended in
	// discovery order and head walks over them.
	arena := []resolutionState{{pawns: pawns, cost: 0, parent: noParent}}
	visited := newVisitedSet(s.board.Size())
	visited.add(target, pawns[target])

	for head := 0; head < len(arena); head++ {
		current := arena[head]
		solution.Stats.Expanded++

		if current.pawns[target] == goalCell {
			solution.Solved = true
			solution.Moves = reconstruct(arena, head)
			logger.WithFields(log.Fields{
				"moves":    len(solution.Moves),
				"expanded": solution.Stats.Expanded,
			}).Debug("goal reached")
			return solution, nil
		}

		accepted := 0
		for _, d := range Directions {
			dest, err := Resolve(s.board, current.pawns, target, d)
			if err != nil {
				return nil, err
			}
			if dest == current.pawns[target] || visited.has(target, dest) {
				continue
			}
			visited.add(target, dest)
			arena = append(arena, resolutionState{
				pawns:  current.pawns.With(target, dest),
				cost:   current.cost + 1,
				parent: head,
			})
			accepted++
		}
		solution.Stats.Enqueued += accepted

		if accepted == 0 {
			solution.Stats.DeadEnds++
			logger.WithFields(log.Fields{
				"cost": current.cost,
				"at":   current.pawns[target].String(),
			}).Trace("dead end")
		}
	}

	logger.WithField("expanded", solution.Stats.Expanded).Debug("no solution")
	return solution, nil
}

// reconstruct walks parent links from arena[i] back to the root and returns
// the moves in chronological order.
func reconstruct(arena []resolutionState, i int) []Move {
	var moves []Move
	for arena[i].parent != noParent {
		state, parent := arena[i], arena[arena[i].parent]
		for pawn := range state.pawns {
			if state.pawns[pawn] != parent.pawns[pawn] {
				moves = append(moves, Move{Pawn: Color(pawn), To: state.pawns[pawn]})
				break
			}
		}
		i = state.parent
	}
	for l, r := 0, len(moves)-1; l < r; l, r = l+1, r-1 {
		moves[l], moves[r] = moves[r], moves[l]
	}
	if moves == nil {
		moves = []Move{}
	}
	return moves
}
