package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

// TitleStore persists title generations and favorite toggles.
type TitleStore interface {
	SaveGeneration(ctx context.Context, result *models.TitleGenerationResult) error
	Favorites(ctx context.Context, userID uuid.UUID) ([]models.GeneratedTitle, error)
	ToggleFavorite(ctx context.Context, titleID, userID uuid.UUID) (*models.GeneratedTitle, error)
}

// TrendingSource supplies trending-video statistics used to enrich
// title prompts. It is optional; enrichment is skipped when it fails.
type TrendingSource interface {
	Snapshot(ctx context.Context, region string) (*models.TrendingSnapshot, error)
}

// TitleService generates SEO titles through the provider chain and
// persists each generation for the requesting user.
type TitleService struct {
	chain    *Chain
	store    TitleStore
	trending TrendingSource
	region   string
	log      *logrus.Entry
}

func NewTitleService(chain *Chain, store TitleStore, trending TrendingSource, region string) *TitleService {
	return &TitleService{
		chain:    chain,
		store:    store,
		trending: trending,
		region:   region,
		log:      logrus.WithField("component", "titles"),
	}
}

// Generate produces five titles for the prompt. Trending statistics are
// folded into the prompt when available; persistence failures are logged
// and never surfaced, the generated titles are already in hand.
func (s *TitleService) Generate(ctx context.Context, prompt string, userID *uuid.UUID) (*models.TitleGenerationResult, error) {
	brief := TitleBrief{Prompt: prompt}

	if s.trending != nil {
		if snap, err := s.trending.Snapshot(ctx, s.region); err != nil {
			s.log.Warnf("trending enrichment unavailable: %v", err)
		} else {
			for _, kw := range snap.TopKeywords {
				brief.TrendingKeywords = append(brief.TrendingKeywords, kw.Term)
			}
			limit := len(snap.Videos)
			if limit > 5 {
				limit = 5
			}
			for _, v := range snap.Videos[:limit] {
				brief.TrendingExamples = append(brief.TrendingExamples, v.Title)
			}
			brief.TrendingAvgViews = AverageViews(snap.Videos)
		}
	}

	titles, provider := s.chain.GenerateTitles(ctx, brief)
	for i := range titles {
		titles[i].ID = uuid.New()
	}

	result := &models.TitleGenerationResult{
		ID:       uuid.New(),
		UserID:   userID,
		Prompt:   prompt,
		Provider: provider,
		Titles:   titles,
	}

	if err := s.store.SaveGeneration(ctx, result); err != nil {
		s.log.Errorf("failed to persist title generation: %v", err)
	}
	return result, nil
}

// Favorites lists the user's favorited titles.
func (s *TitleService) Favorites(ctx context.Context, userID uuid.UUID) ([]models.GeneratedTitle, error) {
	titles, err := s.store.Favorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading favorites: %v", ErrPersistence, err)
	}
	return titles, nil
}

// ToggleFavorite flips the favorite flag on one of the user's titles.
func (s *TitleService) ToggleFavorite(ctx context.Context, titleID, userID uuid.UUID) (*models.GeneratedTitle, error) {
	title, err := s.store.ToggleFavorite(ctx, titleID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: toggling favorite %s: %v", ErrPersistence, titleID, err)
	}
	return title, nil
}
