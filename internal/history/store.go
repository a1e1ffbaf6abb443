// Package history is the per-session conversation log: a bounded,
// insertion-ordered list of turns, oldest evicted first.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"translatorgo/internal/core"
	"translatorgo/internal/util"
)

// FileStore persists session histories as a single JSON document.
type FileStore struct {
	filePath string
	limit    int
	mu       sync.Mutex
}

// NewFileStore creates a file-backed history store, creating the parent
// directory if needed.
func NewFileStore(filePath string, limit int) (*FileStore, error) {
	if filePath == "" {
		filePath = core.HistoryFilePath
	}
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, core.DirPermission); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	return &FileStore{filePath: filePath, limit: limit}, nil
}

func (fs *FileStore) loadStore() map[string][]core.Turn {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return map[string][]core.Turn{}
	}

	var store map[string][]core.Turn
	if err := util.UnmarshalJSON(data, &store); err != nil {
		// Corrupt store, start fresh
		return map[string][]core.Turn{}
	}
	if store == nil {
		store = map[string][]core.Turn{}
	}
	return store
}

func (fs *FileStore) saveStore(store map[string][]core.Turn) error {
	data, err := util.MarshalJSON(store)
	if err != nil {
		return err
	}
	return os.WriteFile(fs.filePath, data, core.FilePermissionReadWrite)
}

// GetHistory returns the session's turns in insertion order.
func (fs *FileStore) GetHistory(sessionID string) ([]core.Turn, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.loadStore()[sessionID], nil
}

// AppendMessage appends one turn and evicts the oldest beyond the cap.
func (fs *FileStore) AppendMessage(sessionID, role, content, insight string) ([]core.Turn, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	store := fs.loadStore()
	turns := append(store[sessionID], core.Turn{Role: role, Content: content, Insight: insight})
	turns = capTurns(turns, fs.limit)
	store[sessionID] = turns

	if err := fs.saveStore(store); err != nil {
		return nil, err
	}
	return turns, nil
}

// ClearHistory removes the session's log.
func (fs *FileStore) ClearHistory(sessionID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	store := fs.loadStore()
	if _, ok := store[sessionID]; !ok {
		return nil
	}
	delete(store, sessionID)
	return fs.saveStore(store)
}

// Close is a no-op for file stores.
func (fs *FileStore) Close() error {
	return nil
}

func capTurns(turns []core.Turn, limit int) []core.Turn {
	if len(turns) <= limit {
		return turns
	}
	return turns[len(turns)-limit:]
}
