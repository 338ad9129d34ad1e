// Package vision talks to hosted generative models: it identifies the food in
// an image and fetches scanning tips.
package vision

import (
	"context"
	"time"

	"nutrisnap/internal/models"
)

// Identifier names the food shown in an image.
type Identifier interface {
	Identify(ctx context.Context, img *DataURI) (*models.Identification, error)
}

// TipsSuggester returns advice on taking photos that identify well.
type TipsSuggester interface {
	SuggestTips(ctx context.Context) ([]string, error)
}

type Provider interface {
	Identifier
	TipsSuggester
	Name() string
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

// WithTimeout bounds every provider call by d. A zero d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, timeout: d}
}

func (t *timeoutProvider) Identify(ctx context.Context, img *DataURI) (*models.Identification, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Identify(ctx, img)
}

func (t *timeoutProvider) SuggestTips(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.SuggestTips(ctx)
}
