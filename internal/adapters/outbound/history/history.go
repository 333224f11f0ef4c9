package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/testology/psyengine/internal/domain"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("history record not found")

// Store is a domain.HistoryStore that holds resources until closed.
type Store interface {
	domain.HistoryStore
	Close() error
}

// Open returns the store for driver ("file" or "sqlite") at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "file", "":
		return New(path), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown history driver %q", driver)
	}
}

// FileHistory implements domain.HistoryStore using a single JSON file.
type FileHistory struct {
	path string
	mu   sync.Mutex
}

func New(path string) *FileHistory {
	return &FileHistory{path: path}
}

func (h *FileHistory) Append(ctx context.Context, rec domain.HistoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.load()
	if err != nil {
		return err
	}
	records = append(records, rec)

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a truncated file behind.
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, h.path)
}

func (h *FileHistory) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.load()
	if err != nil {
		return nil, err
	}
	var out []domain.HistoryRecord
	for _, r := range records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *FileHistory) Get(ctx context.Context, id string) (domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistoryRecord{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.load()
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.HistoryRecord{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (h *FileHistory) Close() error { return nil }

func (h *FileHistory) load() ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", h.path, err)
	}
	return records, nil
}
