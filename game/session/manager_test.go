package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
)

func createTestBoard() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "test",
		Description: "Test board",
		Mirrors:     true,
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("generated ID", func(t *testing.T) {
		session, err := manager.Create("", createTestBoard())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected engine to be created")
		}
		if session.Board.Name != "test" {
			t.Errorf("Expected board test, got %s", session.Board.Name)
		}
		if engine.CountMirrors(session.Engine.Board()) != engine.NumColors*engine.MirrorsPerColor {
			t.Error("Expected mirrored board")
		}
	})

	t.Run("explicit ID", func(t *testing.T) {
		session, err := manager.Create("ab12", createTestBoard())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "ab12" {
			t.Errorf("Expected ID ab12, got %s", session.ID)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("AB12", createTestBoard())
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("nil board uses default", func(t *testing.T) {
		session, err := manager.Create("", nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.Board.Name != "classic" {
			t.Errorf("Expected classic, got %s", session.Board.Name)
		}
	})

	t.Run("bad seed", func(t *testing.T) {
		_, err := manager.Create("", &engine.BoardConfig{Name: "bad", Description: "bad", Seed: "nope"})
		if !errors.Is(err, engine.ErrMalformedSeed) {
			t.Errorf("Expected ErrMalformedSeed, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("../x", createTestBoard())
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("beef", createTestBoard())

	for _, id := range []string{"beef", "BEEF", "BeEf"} {
		got, err := manager.Get(id)
		if err != nil {
			t.Errorf("%s: unexpected error %v", id, err)
			continue
		}
		if got != created {
			t.Errorf("%s: expected the same session", id)
		}
	}

	if _, err := manager.Get("0000"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("dead", createTestBoard())

	if err := manager.Delete("DEAD"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := manager.Get("dead"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Session should be gone after delete")
	}
	if err := manager.Delete("dead"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_DeleteFromMemory(t *testing.T) {
	manager := NewManager()
	manager.Create("c0de", createTestBoard())

	if err := manager.DeleteFromMemory("c0de"); err != nil {
		t.Fatalf("Failed to delete from memory: %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", manager.Count())
	}
	if err := manager.DeleteFromMemory("c0de"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 3; i++ {
		if _, err := manager.Create("", createTestBoard()); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if len(manager.List()) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(manager.List()))
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("0001", createTestBoard())
	manager.Create("0002", createTestBoard())

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("0001"); err == nil {
		t.Error("Expired session should be removed")
	}
	if _, err := manager.Get("0002"); err != nil {
		t.Error("Fresh session should remain")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("aaaa", createTestBoard())
	before := session.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("AAAA"); err != nil {
		t.Fatalf("Failed to update: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("LastAccessedAt should move forward")
	}

	if err := manager.UpdateLastAccessed("ffff"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	ids := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", createTestBoard())
			if err != nil {
				t.Errorf("Failed to create session: %v", err)
				return
			}
			ids <- session.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Duplicate session ID %s", id)
		}
		seen[id] = true
	}
	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_CreateFailsWhenRandomSourceFails(t *testing.T) {
	broken := errors.New("entropy unavailable")
	original := randomBytes
	randomBytes = func([]byte) (int, error) { return 0, broken }
	defer func() { randomBytes = original }()

	manager := NewManager()
	if _, err := manager.Create("", createTestBoard()); !errors.Is(err, broken) {
		t.Errorf("Expected random source error, got %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected no session to be stored, got %d", manager.Count())
	}

	if _, err := manager.Create("ab12", createTestBoard()); err != nil {
		t.Errorf("Explicit IDs need no randomness, got %v", err)
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	s1, _ := manager.Create("", createTestBoard())
	s2, _ := manager.Create("", createTestBoard())

	if err := s1.Engine.SetTarget(engine.Goal{Color: engine.Red, Shape: engine.Square}); err != nil {
		t.Fatalf("Failed to set target: %v", err)
	}
	if _, ok := s2.Engine.Target(); ok {
		t.Error("Target of one session leaked into another")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", createTestBoard())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 || strings.Trim(session.ID, "0123456789abcdef") != "" {
			t.Errorf("Expected 4 hex characters, got %q", session.ID)
		}
	}
}
