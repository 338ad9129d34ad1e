package state

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/storage"
)

// Settings is the singleton user preference record.
type Settings struct {
	mu       sync.RWMutex
	backend  storage.Backend
	logger   *zap.Logger
	settings models.Settings
}

func NewSettings(backend storage.Backend, logger *zap.Logger) *Settings {
	return &Settings{
		backend:  backend,
		logger:   logger,
		settings: models.DefaultSettings(),
	}
}

// Load reads persisted settings. Missing or invalid fields fall back to the
// defaults.
func (s *Settings) Load(ctx context.Context) error {
	st := models.DefaultSettings()
	if _, err := load(ctx, s.backend, SettingsStoreName, &st); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	def := models.DefaultSettings()
	if theme, err := models.ParseTheme(string(st.Theme)); err != nil {
		s.logger.Warn("ignoring stored theme", zap.String("theme", string(st.Theme)))
		st.Theme = def.Theme
	} else {
		st.Theme = theme
	}
	if units, err := models.ParseUnits(string(st.Units)); err != nil {
		s.logger.Warn("ignoring stored units", zap.String("units", string(st.Units)))
		st.Units = def.Units
	} else {
		st.Units = units
	}

	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()
	return nil
}

func (s *Settings) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Settings) SetTheme(ctx context.Context, theme string) (models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{Theme: &theme})
}

func (s *Settings) SetUnits(ctx context.Context, units string) (models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{Units: &units})
}

// Update applies a partial change and flushes. Nothing changes if validation
// or the flush fails.
func (s *Settings) Update(ctx context.Context, u models.SettingsUpdate) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.settings.Apply(u)
	if err != nil {
		return s.settings, err
	}
	if err := save(ctx, s.backend, SettingsStoreName, next); err != nil {
		return s.settings, fmt.Errorf("failed to save settings: %w", err)
	}
	s.settings = next
	return next, nil
}
