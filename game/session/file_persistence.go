package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

const seedExt = ".seed"

// RestoredBoardName names the descriptor of a session rebuilt from its seed.
const RestoredBoardName = "restored"

// FilePersistence stores one file per session holding the board seed and
// nothing else. Targets and solve history are not persisted.
type FilePersistence struct {
	sessionsDir string
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FilePersistence{sessionsDir: sessionsDir}, nil
}

// Save writes the session's board seed to <id>.seed
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	seed := session.Engine.Board().Seed()
	if err := os.WriteFile(fp.getFilePath(session.ID), []byte(seed+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load rebuilds a session from its seed file. The file's modification time
// serves as both creation and last access time.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	stat, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat session file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	seed := strings.TrimSpace(string(data))
	board, err := engine.ParseSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed of session %s: %w", id, err)
	}

	eng, err := engine.NewEngine(board)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &service.Session{
		ID:     id,
		Engine: eng,
		Board: &engine.BoardConfig{
			Name:        RestoredBoardName,
			Description: "Board restored from session " + id,
			Mirrors:     board.Options().Mirrors > 0,
			Seed:        seed,
		},
		CreatedAt:      stat.ModTime(),
		LastAccessedAt: stat.ModTime(),
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), seedExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), seedExt))
	}
	return ids, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// Touch sets the session file's modification time
func (fp *FilePersistence) Touch(id string, at time.Time) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	return os.Chtimes(fp.getFilePath(id), at, at)
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, strings.ToLower(id)+seedExt)
}
