package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/storage"
)

var ErrScanNotFound = errors.New("scan not found")

type historyState struct {
	Scans []models.Scan `json:"scans"`
}

// History is the list of recorded scans, newest first.
type History struct {
	mu      sync.RWMutex
	backend storage.Backend
	logger  *zap.Logger
	scans   []models.Scan
}

func NewHistory(backend storage.Backend, logger *zap.Logger) *History {
	return &History{
		backend: backend,
		logger:  logger,
	}
}

func (h *History) Load(ctx context.Context) error {
	var st historyState
	found, err := load(ctx, h.backend, HistoryStoreName, &st)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	h.mu.Lock()
	h.scans = st.Scans
	h.mu.Unlock()

	h.logger.Debug("history loaded", zap.Bool("found", found), zap.Int("scans", len(st.Scans)))
	return nil
}

// Add records scan at the front of the history and flushes.
func (h *History) Add(ctx context.Context, scan *models.Scan) error {
	if err := scan.NutritionalInfo.Validate(); err != nil {
		return fmt.Errorf("invalid scan %s: %w", scan.ID, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.scans
	next := make([]models.Scan, 0, len(prev)+1)
	next = append(next, *scan)
	next = append(next, prev...)

	if err := save(ctx, h.backend, HistoryStoreName, historyState{Scans: next}); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	h.scans = next
	return nil
}

// Clear drops every scan. It is the only way scans are ever removed.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := save(ctx, h.backend, HistoryStoreName, historyState{Scans: []models.Scan{}}); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	h.logger.Info("history cleared", zap.Int("removed", len(h.scans)))
	h.scans = nil
	return nil
}

// Recent returns at most limit scans, newest first. limit <= 0 means all.
func (h *History) Recent(limit int) []models.Scan {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.scans)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Scan, n)
	copy(out, h.scans[:n])
	return out
}

func (h *History) Get(id string) (models.Scan, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.scans {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Scan{}, fmt.Errorf("%w: %s", ErrScanNotFound, id)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scans)
}
