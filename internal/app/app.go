// Package app wires configuration, storage, state and the model provider
// into the pieces the CLI and the HTTP server use.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"nutrisnap/internal/analysis"
	"nutrisnap/internal/config"
	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/state"
	"nutrisnap/internal/storage"
	"nutrisnap/internal/vision"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Backend  storage.Backend
	History  *state.History
	Settings *state.Settings

	// Set by ConnectProvider.
	Provider vision.Provider
	Analyzer *analysis.Service
}

// New opens the database and loads both persistent stores.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a, err := NewWithBackend(ctx, cfg, logger, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return a, nil
}

// NewWithBackend is New over an already opened backend.
func NewWithBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger, backend storage.Backend) (*App, error) {
	history := state.NewHistory(backend, logger.Named("history"))
	if err := history.Load(ctx); err != nil {
		return nil, err
	}
	settings := state.NewSettings(backend, logger.Named("settings"))
	if err := settings.Load(ctx); err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Backend:  backend,
		History:  history,
		Settings: settings,
	}, nil
}

// ConnectProvider builds the configured model provider and the analysis
// service on top of it.
func (a *App) ConnectProvider(ctx context.Context) error {
	if err := a.Config.ValidateProvider(); err != nil {
		return err
	}

	provider, err := NewProvider(ctx, a.Config, a.Logger.Named("vision"))
	if err != nil {
		return err
	}
	a.UseProvider(provider)
	return nil
}

// UseProvider installs p and rebuilds the analysis service around it.
func (a *App) UseProvider(p vision.Provider) {
	a.Provider = p
	a.Analyzer = analysis.NewService(p, nutrition.NewRandomGenerator(), a.History, a.Logger.Named("analysis"))
	a.Logger.Info("provider ready", zap.String("provider", p.Name()))
}

func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (vision.Provider, error) {
	timeout, err := cfg.ProviderTimeout()
	if err != nil {
		return nil, err
	}

	var p vision.Provider
	switch cfg.Provider.Name {
	case config.ProviderGemini:
		gc, err := vision.NewGeminiClient(ctx, cfg.Provider.APIKey, cfg.Provider.Model, logger)
		if err != nil {
			return nil, err
		}
		p = gc
	case config.ProviderGateway:
		p = vision.NewGatewayClient(vision.GatewayOptions{
			URL:        cfg.Provider.Gateway.URL,
			APIKey:     cfg.Provider.Gateway.APIKey,
			Model:      cfg.Provider.Gateway.Model,
			HTTPClient: &http.Client{},
		}, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
	return vision.WithTimeout(p, timeout), nil
}

const TipsWarning = "Could not load AI tips. This usually happens when the API key is missing or invalid. Please check your environment variables."

// Tips fetches scan tips. A failure is logged and reported as a warning on
// the response rather than returned.
func (a *App) Tips(ctx context.Context) models.TipsResponse {
	if a.Provider == nil {
		return models.TipsResponse{Tips: []string{}, Warning: TipsWarning}
	}

	tips, err := a.Provider.SuggestTips(ctx)
	if err != nil {
		a.Logger.Warn("failed to load tips", zap.Error(err))
		return models.TipsResponse{Tips: []string{}, Warning: TipsWarning}
	}
	return models.TipsResponse{Tips: tips}
}

func (a *App) Close() error {
	if a.Backend == nil {
		return nil
	}
	return a.Backend.Close()
}
