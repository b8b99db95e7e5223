package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

// KeywordStore persists keyword analyses and their derived snapshots.
type KeywordStore interface {
	FindLatest(ctx context.Context, keyword string, userID *uuid.UUID) (*models.KeywordAnalysis, error)
	TouchSearch(ctx context.Context, analysisID uuid.UUID) (*models.KeywordAnalysis, error)
	SaveAnalysis(ctx context.Context, keyword string, userID *uuid.UUID, insights models.KeywordInsights, videos []models.VideoRecord) (*models.KeywordAnalysis, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.KeywordHistoryEntry, error)
	Trending(ctx context.Context, limit int) ([]models.TrendingKeyword, error)
	Details(ctx context.Context, analysisID uuid.UUID, userID *uuid.UUID) (*models.KeywordAnalysis, error)
}

// KeywordAnalysisService runs the full keyword pipeline: cache lookup,
// metadata fetch, score derivation, insight generation, persistence.
type KeywordAnalysisService struct {
	videos    VideoSource
	store     KeywordStore
	chain     *Chain
	freshFor  time.Duration
	searchMax int
	now       func() time.Time
	log       *logrus.Entry
}

func NewKeywordAnalysisService(videos VideoSource, store KeywordStore, chain *Chain, freshFor time.Duration, searchMax int) *KeywordAnalysisService {
	return &KeywordAnalysisService{
		videos:    videos,
		store:     store,
		chain:     chain,
		freshFor:  freshFor,
		searchMax: searchMax,
		now:       time.Now,
		log:       logrus.WithField("component", "keyword_analysis"),
	}
}

// Analyze returns a fresh or cached analysis for the keyword. A stored
// analysis updated within the freshness window is served as-is, except
// that its search count still increments. Anything older is recomputed
// from live video metadata.
func (s *KeywordAnalysisService) Analyze(ctx context.Context, keyword string, userID *uuid.UUID) (*models.KeywordAnalysisResult, error) {
	existing, err := s.store.FindLatest(ctx, keyword, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: looking up analysis for %q: %v", ErrPersistence, keyword, err)
	}

	// Freshness is judged on the age of the newest insight snapshot, not on
	// lastUpdated, which also moves on cache hits.
	if existing != nil {
		latest := existing.LatestInsights()
		if latest != nil && s.now().Sub(latest.AnalysisDate) < s.freshFor {
			touched, err := s.store.TouchSearch(ctx, existing.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: recording repeat search for %q: %v", ErrPersistence, keyword, err)
			}
			s.log.Infof("serving cached analysis for %q (age %s)", keyword, s.now().Sub(latest.AnalysisDate).Round(time.Minute))
			return &models.KeywordAnalysisResult{
				Keyword:    touched.Keyword,
				AnalysisID: touched.ID,
				Insights:   *latest,
				Videos:     touched.Videos,
				FromCache:  true,
			}, nil
		}
	}

	return s.recompute(ctx, keyword, userID)
}

func (s *KeywordAnalysisService) recompute(ctx context.Context, keyword string, userID *uuid.UUID) (*models.KeywordAnalysisResult, error) {
	found, err := s.videos.Search(ctx, keyword, s.searchMax)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: keyword %q", ErrNoVideosFound, keyword)
	}

	ids := make([]string, 0, len(found))
	for _, v := range found {
		ids = append(ids, v.VideoID)
	}
	videos, err := s.videos.Details(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: keyword %q", ErrNoVideosFound, keyword)
	}

	now := s.now()
	insights := models.KeywordInsights{
		CompetitionScore: CompetitionScore(videos, now),
		AverageViews:     AverageViews(videos),
		TrendDirection:   TrendDirection(videos, now),
		RecentVideoCount: RecentVideoCount(videos, now),
		TopChannels:      TopChannels(videos, 5),
		AnalysisDate:     now,
	}
	insights.ContentOpportunity = ContentOpportunity(insights.CompetitionScore, insights.AverageViews)

	aiInsights, provider := s.chain.GenerateInsights(ctx, InsightBrief{
		Keyword:          keyword,
		CompetitionScore: insights.CompetitionScore,
		AverageViews:     insights.AverageViews,
		RecentVideoCount: insights.RecentVideoCount,
		Trend:            insights.TrendDirection,
		TopChannels:      insights.TopChannels,
		TopVideos:        videos,
	})
	insights.AIInsights = aiInsights
	s.log.Infof("generated insights for %q via %s", keyword, provider)

	saved, err := s.store.SaveAnalysis(ctx, keyword, userID, insights, videos)
	if err != nil {
		// A computed analysis is still worth returning when the write fails.
		s.log.Errorf("failed to persist analysis for %q: %v", keyword, err)
		return &models.KeywordAnalysisResult{
			Keyword:  keyword,
			Insights: insights,
			Videos:   videos,
		}, nil
	}

	latest := saved.LatestInsights()
	if latest == nil {
		latest = &insights
	}
	return &models.KeywordAnalysisResult{
		Keyword:    saved.Keyword,
		AnalysisID: saved.ID,
		Insights:   *latest,
		Videos:     videos,
	}, nil
}

// History lists the user's past analyses, most recent first.
func (s *KeywordAnalysisService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.KeywordHistoryEntry, error) {
	entries, err := s.store.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: loading history: %v", ErrPersistence, err)
	}
	return entries, nil
}

// Trending lists the most searched keywords over the recent window.
func (s *KeywordAnalysisService) Trending(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	keywords, err := s.store.Trending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: loading trending keywords: %v", ErrPersistence, err)
	}
	return keywords, nil
}

// Details loads one stored analysis with its full snapshot history.
func (s *KeywordAnalysisService) Details(ctx context.Context, analysisID uuid.UUID, userID *uuid.UUID) (*models.KeywordAnalysis, error) {
	analysis, err := s.store.Details(ctx, analysisID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: loading analysis %s: %v", ErrPersistence, analysisID, err)
	}
	return analysis, nil
}
