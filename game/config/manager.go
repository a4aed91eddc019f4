package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrInvalidBoard  = errors.New("invalid board")
)

const defaultBoardName = "classic"

// Manager handles board descriptor loading and caching
type Manager struct {
	boardsDir    string
	defaultBoard *engine.BoardConfig
	boards       map[string]*engine.BoardConfig
	mu           sync.RWMutex
}

// NewManager creates a new board catalogue over boardsDir
func NewManager(boardsDir string) (*Manager, error) {
	// Ensure boards directory exists
	if _, err := os.Stat(boardsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("boards directory does not exist: %s", boardsDir)
	}

	m := &Manager{
		boardsDir: boardsDir,
		boards:    make(map[string]*engine.BoardConfig),
	}

	m.loadDefaultBoard()
	return m, nil
}

// LoadBoard loads a board descriptor by name
func (m *Manager) LoadBoard(name string) (*engine.BoardConfig, error) {
	name = boardID(name)

	m.mu.RLock()
	if board, exists := m.boards[name]; exists {
		m.mu.RUnlock()
		return board, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if board, exists := m.boards[name]; exists {
		return board, nil
	}

	if strings.ContainsAny(name, `/\`) || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}

	board, err := engine.LoadBoardConfig(m.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBoard, name, err)
	}

	m.boards[name] = board
	return board, nil
}

// ListBoards returns information about every valid descriptor in the directory
func (m *Manager) ListBoards() ([]*service.BoardInfo, error) {
	entries, err := os.ReadDir(m.boardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read boards directory: %w", err)
	}

	var boards []*service.BoardInfo
	for _, entry := range entries {
		if entry.IsDir() || !isDescriptor(entry.Name()) {
			continue
		}

		id := boardID(entry.Name())
		board, err := m.LoadBoard(id)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Warn("skipping invalid board descriptor")
			continue
		}

		boards = append(boards, &service.BoardInfo{
			Filename:    entry.Name(),
			BoardID:     id,
			Name:        board.Name,
			Description: board.Description,
			Mirrors:     board.Mirrors,
			Seeded:      board.Seed != "",
		})
	}

	sort.Slice(boards, func(i, j int) bool {
		return boards[i].BoardID < boards[j].BoardID
	})
	return boards, nil
}

// GetDefault returns the default board descriptor
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultBoard
}

// SetDefault sets the default board by name
func (m *Manager) SetDefault(name string) error {
	board, err := m.LoadBoard(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultBoard = board
	return nil
}

// RefreshCache drops every cached descriptor and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.boards = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	m.loadDefaultBoard()
	return nil
}

// SaveBoard validates and writes a descriptor as YAML, then caches it
func (m *Manager) SaveBoard(name string, board *engine.BoardConfig) error {
	name = boardID(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad board name %q", ErrInvalidBoard, name)
	}
	if err := engine.ValidateBoardConfig(board); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	data, err := engine.MarshalBoardConfig(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := os.WriteFile(m.pathFor(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write board file: %w", err)
	}

	m.mu.Lock()
	m.boards[name] = board
	m.mu.Unlock()

	return nil
}

// loadDefaultBoard picks classic, then the first valid descriptor, then the
// generated board.
func (m *Manager) loadDefaultBoard() {
	board, err := m.LoadBoard(defaultBoardName)
	if err == nil {
		m.setDefault(board)
		return
	}

	boards, listErr := m.ListBoards()
	if listErr == nil && len(boards) > 0 {
		if board, err = m.LoadBoard(boards[0].BoardID); err == nil {
			m.setDefault(board)
			return
		}
	}

	m.setDefault(engine.DefaultBoardConfig())
}

func (m *Manager) setDefault(board *engine.BoardConfig) {
	m.mu.Lock()
	m.defaultBoard = board
	m.mu.Unlock()
}

// pathFor prefers name.yaml and falls back to an existing name.yml
func (m *Manager) pathFor(name string) string {
	path := engine.BoardConfigPath(m.boardsDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := engine.BoardConfigPath(m.boardsDir, name+".yml")
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return path
}

func isDescriptor(filename string) bool {
	ext := filepath.Ext(filename)
	return ext == ".yaml" || ext == ".yml"
}

// boardID strips the descriptor extension
func boardID(name string) string {
	name = strings.TrimSpace(name)
	if isDescriptor(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
