package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, board *engine.BoardConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, service.ErrSessionAlreadyExists
	}

	built, err := board.Build()
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewEngine(built)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Board:          board,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	boards map[string]*engine.BoardConfig
}

var errMockBoardNotFound = errors.New("board not found")

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		boards: map[string]*engine.BoardConfig{
			"classic": engine.DefaultBoardConfig(),
			"flat": {
				Name:        "flat",
				Description: "Four pawns on an empty board",
				Seed:        "10-4-4-0||||0,0;0,1;0,2;0,3",
			},
		},
	}
}

func (m *MockConfigManager) LoadBoard(name string) (*engine.BoardConfig, error) {
	if board, ok := m.boards[name]; ok {
		return board, nil
	}
	return nil, errMockBoardNotFound
}

func (m *MockConfigManager) ListBoards() ([]*service.BoardInfo, error) {
	return []*service.BoardInfo{
		{Filename: "classic.yaml", BoardID: "classic", Name: "classic", Mirrors: true},
		{Filename: "flat.yaml", BoardID: "flat", Name: "flat", Seeded: true},
	}, nil
}

func (m *MockConfigManager) GetDefault() *engine.BoardConfig {
	return m.boards["classic"]
}

func (m *MockConfigManager) SaveBoard(name string, board *engine.BoardConfig) error {
	if err := engine.ValidateBoardConfig(board); err != nil {
		return err
	}
	m.boards[name] = board
	return nil
}

func newTestService() service.GameService {
	return service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
}

func TestGameService_CreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("default board", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.BoardName != "classic" {
			t.Errorf("Expected classic, got %s", info.BoardName)
		}
		if info.Seed != engine.MustDefaultBoard().Seed() {
			t.Error("Expected the default board seed")
		}
		if len(info.Goals) != 16 {
			t.Errorf("Expected 16 goals, got %d", len(info.Goals))
		}
		if info.Target != nil {
			t.Error("New session should have no target")
		}
	})

	t.Run("named board", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "flat")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.BoardName != "flat" || len(info.Goals) != 0 {
			t.Errorf("Unexpected session %+v", info)
		}
	})

	t.Run("unknown board", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		if !errors.Is(err, errMockBoardNotFound) {
			t.Errorf("Expected board not found, got %v", err)
		}
	})
}

func TestGameService_GetSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, "")
	info, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if info.ID != created.ID {
		t.Errorf("Expected %s, got %s", created.ID, info.ID)
	}

	_, err = svc.GetSession(ctx, "zzzz")
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_Targets(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	t.Run("set by name", func(t *testing.T) {
		result, err := svc.SetTarget(ctx, info.ID, "red", "square")
		if err != nil {
			t.Fatalf("Failed to set target: %v", err)
		}
		if result.Target.Name != "red square" {
			t.Errorf("Expected red square, got %s", result.Target.Name)
		}
		if result.Target.Location != (engine.Coordinate{X: 3, Y: 4}) {
			t.Errorf("Expected (3,4), got %s", result.Target.Location)
		}
		if result.TargetsUsed != 1 || result.TargetsLeft != 15 {
			t.Errorf("Expected 1 used 15 left, got %d/%d", result.TargetsUsed, result.TargetsLeft)
		}
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := svc.SetTarget(ctx, info.ID, "purple", "square")
		if !errors.Is(err, service.ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("next target", func(t *testing.T) {
		result, err := svc.NextTarget(ctx, info.ID)
		if err != nil {
			t.Fatalf("Failed to draw target: %v", err)
		}
		if result.Target.Name == "red square" {
			t.Error("Drawn target must not repeat a used one")
		}
		session, _ := svc.GetSession(ctx, info.ID)
		if session.Target == nil || session.Target.Goal != result.Target.Goal {
			t.Error("Session should report the drawn target")
		}
	})

	t.Run("targets run out", func(t *testing.T) {
		for i := 0; i < 14; i++ {
			if _, err := svc.NextTarget(ctx, info.ID); err != nil {
				t.Fatalf("Draw %d failed: %v", i, err)
			}
		}
		_, err := svc.NextTarget(ctx, info.ID)
		if !errors.Is(err, engine.ErrNoTargetsLeft) {
			t.Errorf("Expected ErrNoTargetsLeft, got %v", err)
		}
	})

	t.Run("goal missing from board", func(t *testing.T) {
		flat, _ := svc.CreateSession(ctx, "flat")
		_, err := svc.SetTarget(ctx, flat.ID, "blue", "star")
		if !errors.Is(err, engine.ErrGoalNotFound) {
			t.Errorf("Expected ErrGoalNotFound, got %v", err)
		}
	})
}

func TestGameService_Solve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	_, err := svc.Solve(ctx, info.ID)
	if !errors.Is(err, engine.ErrNoTarget) {
		t.Errorf("Expected ErrNoTarget, got %v", err)
	}

	svc.SetTarget(ctx, info.ID, "yellow", "square")
	result, err := svc.Solve(ctx, info.ID)
	if err != nil {
		t.Fatalf("Failed to solve: %v", err)
	}
	if !result.Solved || len(result.Moves) != 5 {
		t.Fatalf("Expected 5-move solution, got %+v", result)
	}
	if result.Number != 1 {
		t.Errorf("Expected solve number 1, got %d", result.Number)
	}
	for i, m := range result.Moves {
		if m.Direction == "" {
			t.Errorf("Move %d has no direction", i+1)
		}
		if m.Pawn != "yellow" {
			t.Errorf("Move %d moved %s", i+1, m.Pawn)
		}
		if i > 0 && m.From != result.Moves[i-1].To {
			t.Errorf("Move %d does not start where move %d ended", i+1, i)
		}
	}
	last := result.Moves[len(result.Moves)-1]
	if last.To != result.Target.Location {
		t.Errorf("Expected to end on %s, got %s", result.Target.Location, last.To)
	}

	svc.SetTarget(ctx, info.ID, "red", "circle")
	result, err = svc.Solve(ctx, info.ID)
	if err != nil {
		t.Fatalf("Unsolvable target should not be an error: %v", err)
	}
	if result.Solved || len(result.Moves) != 0 {
		t.Errorf("Expected no solution, got %+v", result)
	}
}

func TestGameService_ResolveMove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	result, err := svc.ResolveMove(ctx, info.ID, "blue", "right")
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if result.To != (engine.Coordinate{X: 6, Y: 12}) || !result.Moved {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.OnGoal == nil || *result.OnGoal != (engine.Goal{Color: engine.Blue, Shape: engine.Star}) {
		t.Errorf("Expected to land on the blue star, got %v", result.OnGoal)
	}

	// Pure query
	session, _ := svc.GetSession(ctx, info.ID)
	if session.Pawns[engine.Blue] != (engine.Coordinate{X: 1, Y: 12}) {
		t.Error("ResolveMove must not move the pawn")
	}

	if _, err := svc.ResolveMove(ctx, info.ID, "blue", "diagonal"); !errors.Is(err, service.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestGameService_DescribeBoard(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	view, err := svc.DescribeBoard(ctx, info.ID)
	if err != nil {
		t.Fatalf("Failed to describe board: %v", err)
	}
	if view.Size != engine.BoardSize || view.Seed != info.Seed {
		t.Errorf("Unexpected view %+v", view)
	}
	if view.Target != nil || strings.Contains(view.Board, "[") {
		t.Error("No target should be marked before one is set")
	}
	if !strings.Contains(view.Board, " R ") || view.Legend == "" {
		t.Error("Expected pawns and a legend in the view")
	}

	svc.SetTarget(ctx, info.ID, "red", "square")
	view, _ = svc.DescribeBoard(ctx, info.ID)
	if view.Target == nil || !strings.Contains(view.Board, "[#]") {
		t.Error("Expected the target to be marked")
	}

	if _, err := svc.DescribeBoard(ctx, "zzzz"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_GetSolveHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")
	svc.SetTarget(ctx, info.ID, "yellow", "triangle")

	for i := 0; i < 5; i++ {
		if _, err := svc.Solve(ctx, info.ID); err != nil {
			t.Fatalf("Solve %d failed: %v", i, err)
		}
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		count     int
		first     int
		pages     int
		hasNext   bool
		hasBefore bool
	}{
		{"defaults", service.HistoryOptions{}, 5, 5, 1, false, false},
		{"ascending", service.HistoryOptions{Order: "asc"}, 5, 1, 1, false, false},
		{"page 1 of 3", service.HistoryOptions{Limit: 2}, 2, 5, 3, true, false},
		{"page 3 of 3", service.HistoryOptions{Limit: 2, Page: 3}, 1, 1, 3, false, true},
		{"asc page 2", service.HistoryOptions{Limit: 2, Page: 2, Order: "asc"}, 2, 3, 3, true, true},
		{"past the end", service.HistoryOptions{Limit: 2, Page: 9}, 0, 0, 3, false, true},
		{"huge page", service.HistoryOptions{Limit: 20, Page: math.MaxInt64/20 + 3}, 0, 0, 1, false, true},
		{"huge page ascending", service.HistoryOptions{Limit: 20, Page: math.MaxInt64/20 + 3, Order: "asc"}, 0, 0, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetSolveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("Failed to get history: %v", err)
			}
			if len(resp.Solves) != tt.count {
				t.Fatalf("Expected %d solves, got %d", tt.count, len(resp.Solves))
			}
			if tt.count > 0 && resp.Solves[0].Number != tt.first {
				t.Errorf("Expected first solve #%d, got #%d", tt.first, resp.Solves[0].Number)
			}
			if resp.TotalSolves != 5 || resp.TotalPages != tt.pages {
				t.Errorf("Expected 5 total over %d pages, got %d over %d", tt.pages, resp.TotalSolves, resp.TotalPages)
			}
			if resp.HasNext != tt.hasNext || resp.HasPrevious != tt.hasBefore {
				t.Errorf("Expected next=%t prev=%t, got next=%t prev=%t",
					tt.hasNext, tt.hasBefore, resp.HasNext, resp.HasPrevious)
			}
		})
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "")
	svc.CreateSession(ctx, "flat")

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if err := svc.DeleteSession(ctx, a.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_Boards(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	boards, err := svc.ListBoards(ctx)
	if err != nil || len(boards) != 2 {
		t.Fatalf("Expected 2 boards, got %d (err %v)", len(boards), err)
	}

	board := &engine.BoardConfig{Name: "mine", Description: "Mine", Mirrors: true}
	if err := svc.SaveBoard(ctx, "mine", board); err != nil {
		t.Fatalf("Failed to save board: %v", err)
	}
	loaded, err := svc.LoadBoard(ctx, "mine")
	if err != nil || loaded.Name != "mine" {
		t.Errorf("Expected saved board, got %v (err %v)", loaded, err)
	}
}
