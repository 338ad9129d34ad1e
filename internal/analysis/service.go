// Package analysis turns a food photo into a recorded scan: identify the
// food, estimate its nutrition, stamp the record.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/vision"
)

// Recorder stores finished scans.
type Recorder interface {
	Add(ctx context.Context, scan *models.Scan) error
}

type Service struct {
	identifier vision.Identifier
	generator  *nutrition.Generator
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(identifier vision.Identifier, generator *nutrition.Generator, recorder Recorder, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		identifier: identifier,
		generator:  generator,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze identifies the food in photoDataURI and builds a scan for it. The
// scan is not recorded.
func (s *Service) Analyze(ctx context.Context, photoDataURI string) (*models.Scan, error) {
	img, err := vision.ParseDataURI(photoDataURI)
	if err != nil {
		s.logger.Warn("rejected photo", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrIdentificationFailed, err)
	}

	result, err := s.identifier.Identify(ctx, img)
	if err != nil {
		s.logger.Error("food identification failed", zap.String("mime_type", img.MIMEType), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrIdentificationFailed, err)
	}

	foodName := result.FoodName
	if strings.TrimSpace(foodName) == "" {
		s.logger.Warn("no food identified", zap.String("mime_type", img.MIMEType))
		return nil, ErrUnidentified
	}
	if !result.TriggerNutritionalAnalysis {
		s.logger.Warn("nutritional analysis not available", zap.String("food_name", foodName))
		return nil, &UnavailableError{FoodName: foodName}
	}

	scan := &models.Scan{
		ID:              s.newID(),
		FoodName:        foodName,
		ImageURL:        photoDataURI,
		NutritionalInfo: s.generator.Generate(foodName),
		CreatedAt:       s.now().UTC(),
	}

	s.logger.Info("food analyzed",
		zap.String("scan_id", scan.ID),
		zap.String("food_name", scan.FoodName),
		zap.Int("calories", scan.NutritionalInfo.Calories))
	return scan, nil
}

// AnalyzeAndRecord runs Analyze and adds the result to history.
func (s *Service) AnalyzeAndRecord(ctx context.Context, photoDataURI string) (*models.Scan, error) {
	scan, err := s.Analyze(ctx, photoDataURI)
	if err != nil {
		return nil, err
	}
	if err := s.recorder.Add(ctx, scan); err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}
	return scan, nil
}
