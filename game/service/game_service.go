package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
)

// GameService defines all solver operations exposed to the transports
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, boardName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Targets
	SetTarget(ctx context.Context, sessionID, color, shape string) (*TargetResult, error)
	NextTarget(ctx context.Context, sessionID string) (*TargetResult, error)

	// Solving
	Solve(ctx context.Context, sessionID string) (*SolveResult, error)
	ResolveMove(ctx context.Context, sessionID, pawn, direction string) (*ResolveResult, error)
	GetSolveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeBoard(ctx context.Context, sessionID string) (*BoardView, error)

	// Boards
	ListBoards(ctx context.Context) ([]*BoardInfo, error)
	LoadBoard(ctx context.Context, boardName string) (*engine.BoardConfig, error)
	SaveBoard(ctx context.Context, boardName string, board *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, board *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board descriptor loading
type ConfigManager interface {
	LoadBoard(name string) (*engine.BoardConfig, error)
	ListBoards() ([]*BoardInfo, error)
	GetDefault() *engine.BoardConfig
	SaveBoard(name string, board *engine.BoardConfig) error
}

// Session represents an active solver session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Board          *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
