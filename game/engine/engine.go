package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Engine provides the main interface for puzzle operations on one board.
type Engine interface {
	// Board and pawns
	Board() *Board
	Pawns() PawnSet

	// Targets
	Target() (Goal, bool)
	SetTarget(goal Goal) error
	NextTarget() (Goal, error)
	TargetsUsed() []Goal

	// Solving
	Solve() (*Solution, error)
	Resolve(pawn Color, dir Direction) (Coordinate, error)

	// History
	History() []SolveRecord
	LastSolve() *SolveRecord
	Reset()
}

// SolveRecord is one entry of the solve history.
type SolveRecord struct {
	Target    Goal        `json:"target"`
	Solved    bool        `json:"solved"`
	Moves     []Move      `json:"moves"`
	Stats     SearchStats `json:"stats"`
	Duration  string      `json:"duration"`
	Timestamp int64       `json:"timestamp"`
	Number    int         `json:"number"`
}

// GameEngine implements Engine. It is safe for concurrent use; solves on the
// same engine run one at a time.
type GameEngine struct {
	mu      sync.Mutex
	board   *Board
	pawns   PawnSet
	target  *Goal
	used    []Goal
	history []SolveRecord
	rng     *rand.Rand
	logger  log.FieldLogger
}

// EngineOption configures a GameEngine.
type EngineOption func(*GameEngine)

// WithRand sets the random source used to draw targets.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *GameEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithEngineLogger sets the logger handed to the solver.
func WithEngineLogger(logger log.FieldLogger) EngineOption {
	return func(e *GameEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine for board with the pawns on their initial cells.
func NewEngine(board *Board, opts ...EngineOption) (*GameEngine, error) {
	if board == nil {
		return nil, fmt.Errorf("board cannot be nil")
	}
	e := &GameEngine{
		board: board,
		pawns: board.InitialPawns(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineWithDefaults creates an engine on the default mirrored board.
func NewEngineWithDefaults() *GameEngine {
	e, _ := NewEngine(MustDefaultBoard())
	return e
}

// Board returns the engine's board.
func (e *GameEngine) Board() *Board {
	return e.board
}

// Pawns returns the current pawn positions.
func (e *GameEngine) Pawns() PawnSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pawns
}

// Target returns the current target, if one was chosen.
func (e *GameEngine) Target() (Goal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target == nil {
		return Goal{}, false
	}
	return *e.target, true
}

// SetTarget selects goal as the current target. The goal must be on the board.
func (e *GameEngine) SetTarget(goal Goal) error {
	if _, err := e.board.GoalLocation(goal.Color, goal.Shape); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setTargetLocked(goal)
	return nil
}

// NextTarget draws a random target that was not drawn before.
func (e *GameEngine) NextTarget() (Goal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var candidates []Goal
	for _, placement := range e.board.Goals() {
		if !e.usedLocked(placement.Goal) {
			candidates = append(candidates, placement.Goal)
		}
	}
	if len(candidates) == 0 {
		return Goal{}, ErrNoTargetsLeft
	}

	goal := candidates[e.rng.Intn(len(candidates))]
	e.setTargetLocked(goal)
	return goal, nil
}

// TargetsUsed returns the targets drawn or set so far, oldest first.
func (e *GameEngine) TargetsUsed() []Goal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Goal(nil), e.used...)
}

// Solve searches a shortest solution for the current target. The pawn of the
// target's color is the one that moves.
func (e *GameEngine) Solve() (*Solution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.target == nil {
		return nil, ErrNoTarget
	}
	goal := *e.target

	started := time.Now()
	solution, err := NewSolver(e.board, WithLogger(e.logger)).Solve(e.pawns, goal.Color, goal)
	if err != nil {
		return nil, err
	}

	e.history = append(e.history, SolveRecord{
		Target:    goal,
		Solved:    solution.Solved,
		Moves:     solution.Moves,
		Stats:     solution.Stats,
		Duration:  time.Since(started).String(),
		Timestamp: time.Now().Unix(),
		Number:    len(e.history) + 1,
	})
	return solution, nil
}

// Resolve previews where pawn would slide in direction dir without moving it.
func (e *GameEngine) Resolve(pawn Color, dir Direction) (Coordinate, error) {
	return Resolve(e.board, e.Pawns(), pawn, dir)
}

// History returns every solve performed since the last reset.
func (e *GameEngine) History() []SolveRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]SolveRecord(nil), e.history...)
}

// LastSolve returns the most recent solve, or nil if there was none.
func (e *GameEngine) LastSolve() *SolveRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// Reset clears the target, the drawn targets and the solve history.
func (e *GameEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pawns = e.board.InitialPawns()
	e.target = nil
	e.used = nil
	e.history = nil
}

func (e *GameEngine) setTargetLocked(goal Goal) {
	e.target = &goal
	if !e.usedLocked(goal) {
		e.used = append(e.used, goal)
	}
}

func (e *GameEngine) usedLocked(goal Goal) bool {
	for _, g := range e.used {
		if g == goal {
			return true
		}
	}
	return false
}
