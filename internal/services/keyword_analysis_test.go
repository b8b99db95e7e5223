package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubelens-backend/internal/models"
)

type stubVideoSource struct {
	searchResults []models.VideoRecord
	searchErr     error
	details       []models.VideoRecord
	detailsErr    error
	searchCalls   int
	detailsCalls  int
}

func (s *stubVideoSource) Search(ctx context.Context, keyword string, max int) ([]models.VideoRecord, error) {
	s.searchCalls++
	return s.searchResults, s.searchErr
}

func (s *stubVideoSource) Details(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	s.detailsCalls++
	return s.details, s.detailsErr
}

func (s *stubVideoSource) MostPopular(ctx context.Context, region string, max int) ([]models.VideoRecord, error) {
	return nil, nil
}

type memKeywordStore struct {
	analysis  *models.KeywordAnalysis
	findErr   error
	saveCalls int
	saveErr   error
}

func (m *memKeywordStore) FindLatest(ctx context.Context, keyword string, userID *uuid.UUID) (*models.KeywordAnalysis, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.analysis == nil {
		return nil, ErrNotFound
	}
	return m.analysis, nil
}

func (m *memKeywordStore) TouchSearch(ctx context.Context, analysisID uuid.UUID) (*models.KeywordAnalysis, error) {
	m.analysis.SearchCount++
	m.analysis.LastUpdated = time.Now()
	return m.analysis, nil
}

func (m *memKeywordStore) SaveAnalysis(ctx context.Context, keyword string, userID *uuid.UUID, insights models.KeywordInsights, videos []models.VideoRecord) (*models.KeywordAnalysis, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}

	if m.analysis == nil {
		m.analysis = &models.KeywordAnalysis{
			ID:          uuid.New(),
			Keyword:     keyword,
			UserID:      userID,
			SearchCount: 1,
		}
	} else {
		m.analysis.SearchCount++
	}
	insights.AnalysisID = m.analysis.ID
	m.analysis.Insights = append(m.analysis.Insights, insights)
	m.analysis.Videos = videos
	m.analysis.LastUpdated = time.Now()
	return m.analysis, nil
}

func (m *memKeywordStore) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.KeywordHistoryEntry, error) {
	return nil, nil
}

func (m *memKeywordStore) Trending(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	return nil, nil
}

func (m *memKeywordStore) Details(ctx context.Context, analysisID uuid.UUID, userID *uuid.UUID) (*models.KeywordAnalysis, error) {
	if m.analysis == nil || m.analysis.ID != analysisID {
		return nil, ErrNotFound
	}
	return m.analysis, nil
}

func fallbackOnlyChain() *Chain {
	failing := &stubProvider{tag: models.ProviderGemini, err: errors.New("provider down")}
	return NewChain(failing, nil, time.Second)
}

func detailedVideos(now time.Time) []models.VideoRecord {
	return []models.VideoRecord{
		{VideoID: "a", Title: "First", Views: 9000, UploadDate: now.Add(-time.Hour), ChannelName: "Chan A"},
		{VideoID: "b", Title: "Second", Views: 4000, UploadDate: now.Add(-48 * time.Hour), ChannelName: "Chan B"},
		{VideoID: "c", Title: "Third", Views: 2000, UploadDate: now.Add(-10 * 24 * time.Hour), ChannelName: "Chan A"},
	}
}

func TestAnalyze_FirstCallComputesAndPersists(t *testing.T) {
	now := time.Now()
	source := &stubVideoSource{
		searchResults: detailedVideos(now),
		details:       detailedVideos(now),
	}
	store := &memKeywordStore{}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	result, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, 2, result.Insights.RecentVideoCount)
	assert.Len(t, result.Insights.AIInsights, 3)
	assert.Equal(t, []string{"Chan A", "Chan B"}, result.Insights.TopChannels)
	assert.Len(t, result.Videos, 3)
}

func TestAnalyze_FreshSnapshotServedFromCache(t *testing.T) {
	now := time.Now()
	source := &stubVideoSource{
		searchResults: detailedVideos(now),
		details:       detailedVideos(now),
	}
	store := &memKeywordStore{}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	first, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err)

	assert.True(t, second.FromCache)
	assert.Equal(t, 1, store.saveCalls, "fresh hit must not recompute")
	assert.Equal(t, 1, source.searchCalls, "fresh hit must not refetch")
	assert.Equal(t, 2, store.analysis.SearchCount, "cache hit still counts the search")
	assert.Equal(t, first.Insights.AnalysisDate, second.Insights.AnalysisDate, "snapshot unchanged on cache hit")
}

func TestAnalyze_StaleSnapshotRecomputes(t *testing.T) {
	now := time.Now()
	source := &stubVideoSource{
		searchResults: detailedVideos(now),
		details:       detailedVideos(now),
	}
	store := &memKeywordStore{}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	_, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err)

	// Age the snapshot past the freshness window.
	store.analysis.Insights[0].AnalysisDate = now.Add(-7 * time.Hour)

	result, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 2, store.saveCalls)
	assert.Len(t, store.analysis.Insights, 2, "snapshots accumulate, old ones are kept")
}

func TestAnalyze_NoVideosFound(t *testing.T) {
	source := &stubVideoSource{}
	store := &memKeywordStore{}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	_, err := svc.Analyze(context.Background(), "zxqvnothing", nil)
	assert.ErrorIs(t, err, ErrNoVideosFound)
}

func TestAnalyze_MetadataFailureSurfaces(t *testing.T) {
	source := &stubVideoSource{searchErr: ErrMetadataUnavailable}
	store := &memKeywordStore{}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	_, err := svc.Analyze(context.Background(), "react tutorial", nil)
	assert.ErrorIs(t, err, ErrMetadataUnavailable)
}

func TestAnalyze_ReadPathPersistenceFailureSurfaces(t *testing.T) {
	store := &memKeywordStore{findErr: errors.New("connection refused")}
	svc := NewKeywordAnalysisService(&stubVideoSource{}, store, fallbackOnlyChain(), 6*time.Hour, 50)

	_, err := svc.Analyze(context.Background(), "react tutorial", nil)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestAnalyze_SaveFailureStillReturnsResult(t *testing.T) {
	now := time.Now()
	source := &stubVideoSource{
		searchResults: detailedVideos(now),
		details:       detailedVideos(now),
	}
	store := &memKeywordStore{saveErr: errors.New("disk full")}
	svc := NewKeywordAnalysisService(source, store, fallbackOnlyChain(), 6*time.Hour, 50)

	result, err := svc.Analyze(context.Background(), "react tutorial", nil)
	require.NoError(t, err, "write-path failures are swallowed")
	assert.Len(t, result.Videos, 3)
	assert.Len(t, result.Insights.AIInsights, 3)
}
