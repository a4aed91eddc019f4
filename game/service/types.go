package service

import (
	"errors"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
)

// SessionInfo provides information about a solver session
type SessionInfo struct {
	ID             string                 `json:"id"`
	BoardName      string                 `json:"board_name"`
	Seed           string                 `json:"seed"`
	CreatedAt      time.Time              `json:"created_at"`
	LastAccessedAt time.Time              `json:"last_accessed_at"`
	Pawns          engine.PawnSet         `json:"pawns"`
	Target         *TargetInfo            `json:"target,omitempty"`
	Goals          []engine.GoalPlacement `json:"goals"`
	TargetsUsed    int                    `json:"targets_used"`
	SolveCount     int                    `json:"solve_count"`
}

// TargetInfo describes the current target of a session
type TargetInfo struct {
	Goal     engine.Goal       `json:"goal"`
	Name     string            `json:"name"`
	Location engine.Coordinate `json:"location"`
}

// TargetResult is returned when a target is set or drawn
type TargetResult struct {
	SessionID   string     `json:"session_id"`
	Target      TargetInfo `json:"target"`
	TargetsUsed int        `json:"targets_used"`
	TargetsLeft int        `json:"targets_left"`
}

// SolveResult contains the outcome of a solve
type SolveResult struct {
	SessionID string             `json:"session_id"`
	Target    TargetInfo         `json:"target"`
	Solved    bool               `json:"solved"`
	Moves     []MoveInfo         `json:"moves"`
	Stats     engine.SearchStats `json:"stats"`
	Duration  string             `json:"duration"`
	Number    int                `json:"number"`
	Message   string             `json:"message"`
}

// MoveInfo is one slide of a solution with its direction recovered
type MoveInfo struct {
	Idx       int               `json:"idx"`
	Pawn      string            `json:"pawn"`
	Direction string            `json:"direction"`
	From      engine.Coordinate `json:"from"`
	To        engine.Coordinate `json:"to"`
}

// ResolveResult is the preview of a single slide
type ResolveResult struct {
	SessionID string            `json:"session_id"`
	Pawn      string            `json:"pawn"`
	Direction string            `json:"direction"`
	From      engine.Coordinate `json:"from"`
	To        engine.Coordinate `json:"to"`
	Moved     bool              `json:"moved"`
	OnGoal    *engine.Goal      `json:"on_goal,omitempty"`
}

// BoardView is a text rendering of a session's board
type BoardView struct {
	SessionID string      `json:"session_id"`
	Seed      string      `json:"seed"`
	Size      int         `json:"size"`
	Target    *TargetInfo `json:"target,omitempty"`
	Board     string      `json:"board"`
	Legend    string      `json:"legend"`
}

// HistoryOptions configures solve history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated solve history
type HistoryResponse struct {
	Solves      []engine.SolveRecord `json:"solves"`
	TotalSolves int                  `json:"total_solves"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	HasNext     bool                 `json:"has_next"`
	HasPrevious bool                 `json:"has_previous"`
}

// BoardInfo provides information about a board descriptor
type BoardInfo struct {
	Filename    string `json:"filename"`
	BoardID     string `json:"board_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Mirrors     bool   `json:"mirrors"`
	Seeded      bool   `json:"seeded"`
}
