package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new session on the named board, or on the default
// board when boardName is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, boardName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var board *engine.BoardConfig
	if boardName != "" {
		var err error
		board, err = s.configs.LoadBoard(boardName)
		if err != nil {
			// Provide helpful error message with available options
			if available, listErr := s.configs.ListBoards(); listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, b := range available {
					ids = append(ids, b.BoardID)
				}
				return nil, fmt.Errorf("failed to load board %q (available: %v): %w", boardName, ids, err)
			}
			return nil, fmt.Errorf("failed to load board %q: %w", boardName, err)
		}
	} else {
		board = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", board)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return newSessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SetTarget selects the (color, shape) chip as the session's target
func (s *gameServiceImpl) SetTarget(ctx context.Context, sessionID, color, shape string) (*TargetResult, error) {
	c, err := engine.ParseColor(color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	sh, err := engine.ParseShape(shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	goal := engine.Goal{Color: c, Shape: sh}
	if err := sess.Engine.SetTarget(goal); err != nil {
		return nil, err
	}
	return newTargetResult(sess, goal), nil
}

// NextTarget draws a random target not drawn before in this session
func (s *gameServiceImpl) NextTarget(ctx context.Context, sessionID string) (*TargetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	goal, err := sess.Engine.NextTarget()
	if err != nil {
		return nil, err
	}
	return newTargetResult(sess, goal), nil
}

// Solve searches a shortest solution for the session's current target
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string) (*SolveResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	pawns := sess.Engine.Pawns()
	solution, err := sess.Engine.Solve()
	if err != nil {
		return nil, err
	}
	record := sess.Engine.LastSolve()

	result := &SolveResult{
		SessionID: sess.ID,
		Target:    targetInfo(sess.Engine.Board(), solution.Target),
		Solved:    solution.Solved,
		Moves:     describeMoves(sess.Engine.Board(), pawns, solution.Moves),
		Stats:     solution.Stats,
	}
	if record != nil {
		result.Duration = record.Duration
		result.Number = record.Number
	}

	if solution.Solved {
		result.Message = fmt.Sprintf("%s reached in %d moves", solution.Target, solution.Length())
	} else {
		result.Message = fmt.Sprintf("%s cannot be reached by the %s pawn", solution.Target, solution.Pawn)
	}
	return result, nil
}

// ResolveMove previews a single slide without changing the session
func (s *gameServiceImpl) ResolveMove(ctx context.Context, sessionID, pawn, direction string) (*ResolveResult, error) {
	c, err := engine.ParseColor(pawn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	from := sess.Engine.Pawns()[c]
	to, err := sess.Engine.Resolve(c, d)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{
		SessionID: sess.ID,
		Pawn:      c.String(),
		Direction: d.String(),
		From:      from,
		To:        to,
		Moved:     from != to,
	}
	if goal, ok := sess.Engine.Board().GoalAt(to); ok {
		result.OnGoal = &goal
	}
	return result, nil
}

// GetSolveHistory returns a page of the session's solve history
func (s *gameServiceImpl) GetSolveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	var solves []engine.SolveRecord
	// Pages past the end are empty.
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}

		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
				solves = append(solves, history[i])
			}
		} else if start < total {
			solves = history[start:end]
		}
	}

	if solves == nil {
		solves = []engine.SolveRecord{}
	}

	return &HistoryResponse{
		Solves:      solves,
		TotalSolves: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeBoard renders the session's board, pawns and target as ASCII art
func (s *gameServiceImpl) DescribeBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	board := sess.Engine.Board()
	view := &BoardView{
		SessionID: sess.ID,
		Seed:      board.Seed(),
		Size:      board.Size(),
		Legend:    engine.Legend(),
	}
	var target *engine.Goal
	if goal, ok := sess.Engine.Target(); ok {
		target = &goal
		t := targetInfo(board, goal)
		view.Target = &t
	}
	view.Board = engine.Render(board, sess.Engine.Pawns(), target)
	return view, nil
}

// ListBoards returns the available board descriptors
func (s *gameServiceImpl) ListBoards(ctx context.Context) ([]*BoardInfo, error) {
	return s.configs.ListBoards()
}

// LoadBoard loads a board descriptor
func (s *gameServiceImpl) LoadBoard(ctx context.Context, boardName string) (*engine.BoardConfig, error) {
	return s.configs.LoadBoard(boardName)
}

// SaveBoard saves a board descriptor to the catalogue
func (s *gameServiceImpl) SaveBoard(ctx context.Context, boardName string, board *engine.BoardConfig) error {
	return s.configs.SaveBoard(boardName, board)
}

// getSession fetches a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		return nil, fmt.Errorf("session %s: %w: %w", sessionID, ErrSessionNotFound, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func newSessionInfo(sess *Session) *SessionInfo {
	board := sess.Engine.Board()
	info := &SessionInfo{
		ID:             sess.ID,
		Seed:           board.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Pawns:          sess.Engine.Pawns(),
		Goals:          board.Goals(),
		TargetsUsed:    len(sess.Engine.TargetsUsed()),
		SolveCount:     len(sess.Engine.History()),
	}
	if sess.Board != nil {
		info.BoardName = sess.Board.Name
	}
	if goal, ok := sess.Engine.Target(); ok {
		t := targetInfo(board, goal)
		info.Target = &t
	}
	return info
}

func newTargetResult(sess *Session, goal engine.Goal) *TargetResult {
	board := sess.Engine.Board()
	used := len(sess.Engine.TargetsUsed())
	return &TargetResult{
		SessionID:   sess.ID,
		Target:      targetInfo(board, goal),
		TargetsUsed: used,
		TargetsLeft: len(board.Goals()) - used,
	}
}

func targetInfo(board *engine.Board, goal engine.Goal) TargetInfo {
	loc, _ := board.GoalLocation(goal.Color, goal.Shape)
	return TargetInfo{Goal: goal, Name: goal.String(), Location: loc}
}

// describeMoves recovers the direction of every slide by replaying it from
// the starting pawns.
func describeMoves(board *engine.Board, pawns engine.PawnSet, moves []engine.Move) []MoveInfo {
	out := make([]MoveInfo, 0, len(moves))
	for i, m := range moves {
		info := MoveInfo{Idx: i + 1, Pawn: m.Pawn.String(), From: pawns[m.Pawn], To: m.To}
		if dests, err := engine.Destinations(board, pawns, m.Pawn); err == nil {
			for d, dest := range dests {
				if dest == m.To {
					info.Direction = engine.Direction(d).String()
					break
				}
			}
		}
		out = append(out, info)
		pawns = pawns.With(m.Pawn, m.To)
	}
	return out
}
