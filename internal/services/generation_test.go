package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubelens-backend/internal/models"
)

type stubProvider struct {
	tag   models.Provider
	text  string
	err   error
	calls int
}

func (s *stubProvider) Tag() models.Provider { return s.tag }

func (s *stubProvider) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

const threeValidTitles = `{"titles":[
	{"title":"Master React Hooks in One Focused Weekend","keywords":["react","hooks"],"description":"A weekend plan for learning every core hook."},
	{"title":"The React Performance Guide Nobody Gave You","keywords":["react","performance"],"description":"Profiling and fixing slow React applications."},
	{"title":"Why Your React App Re-renders Too Much","keywords":["react","rendering"],"description":"Understanding and taming unnecessary re-renders."}
]}`

func TestChain_PrimaryFailureFallsToSecondary(t *testing.T) {
	primary := &stubProvider{tag: models.ProviderGemini, err: context.DeadlineExceeded}
	secondary := &stubProvider{tag: models.ProviderOpenRouter, text: threeValidTitles}
	chain := NewChain(primary, secondary, time.Second)

	titles, provider := chain.GenerateTitles(context.Background(), TitleBrief{Prompt: "react tutorial"})

	assert.Equal(t, models.ProviderOpenRouter, provider)
	require.Len(t, titles, 5)

	// 3 provider titles padded with 2 templates keeps the provider tag.
	assert.Equal(t, "Master React Hooks in One Focused Weekend", titles[0].Title)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	for _, title := range titles {
		assert.GreaterOrEqual(t, len(title.Title), titleMinLen)
		assert.LessOrEqual(t, len(title.Title), titleMaxLen)
		assert.NotEmpty(t, title.Keywords)
		assert.GreaterOrEqual(t, len(title.Description), titleDescMinLen)
	}
}

func TestChain_AllProvidersFailUsesTemplates(t *testing.T) {
	primary := &stubProvider{tag: models.ProviderGemini, err: errors.New("boom")}
	secondary := &stubProvider{tag: models.ProviderOpenRouter, err: errors.New("also boom")}
	chain := NewChain(primary, secondary, time.Second)

	titles, provider := chain.GenerateTitles(context.Background(), TitleBrief{Prompt: "go concurrency"})

	assert.Equal(t, models.ProviderFallback, provider)
	require.Len(t, titles, 5)
}

func TestChain_MalformedOutputSkipsToTemplates(t *testing.T) {
	// Primary responds, but with text that yields zero valid entries. The
	// chain treats that as malformed output, not a provider failure, so the
	// secondary is never consulted.
	primary := &stubProvider{tag: models.ProviderGemini, text: "I cannot respond in JSON today"}
	secondary := &stubProvider{tag: models.ProviderOpenRouter, text: threeValidTitles}
	chain := NewChain(primary, secondary, time.Second)

	titles, provider := chain.GenerateTitles(context.Background(), TitleBrief{Prompt: "keto recipes"})

	assert.Equal(t, models.ProviderFallback, provider)
	require.Len(t, titles, 5)
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_GenerateInsights(t *testing.T) {
	primary := &stubProvider{tag: models.ProviderGemini, text: `Here are my thoughts:
- Target the gap between beginner and expert content in this niche
- Batch-produce three related videos to dominate suggested feeds`}
	chain := NewChain(primary, nil, time.Second)

	insights, provider := chain.GenerateInsights(context.Background(), InsightBrief{Keyword: "react tutorial"})

	assert.Equal(t, models.ProviderGemini, provider)
	require.Len(t, insights, 3)
	assert.Equal(t, "Target the gap between beginner and expert content in this niche", insights[0])
}

func TestChain_InsightsAllFail(t *testing.T) {
	primary := &stubProvider{tag: models.ProviderGemini, err: errors.New("down")}
	chain := NewChain(primary, nil, time.Second)

	insights, provider := chain.GenerateInsights(context.Background(), InsightBrief{Keyword: "anything"})

	assert.Equal(t, models.ProviderFallback, provider)
	require.Len(t, insights, 3)
}

func TestBuildTitlePrompt_IncludesTrendingSignal(t *testing.T) {
	_, user := buildTitlePrompt(TitleBrief{
		Prompt:           "home workouts",
		TrendingKeywords: []string{"fitness", "nogym"},
		TrendingExamples: []string{"I Worked Out at Home for a Year"},
		TrendingAvgViews: 250000,
	})

	assert.Contains(t, user, "home workouts")
	assert.Contains(t, user, "fitness, nogym")
	assert.Contains(t, user, "I Worked Out at Home for a Year")
	assert.Contains(t, user, "250000")
}

func TestBuildInsightPrompt_IncludesScoredData(t *testing.T) {
	_, user := buildInsightPrompt(InsightBrief{
		Keyword:          "react tutorial",
		CompetitionScore: 80,
		AverageViews:     12000,
		RecentVideoCount: 8,
		Trend:            models.TrendUp,
		TopChannels:      []string{"Chan A", "Chan B"},
		TopVideos: []models.VideoRecord{
			{Title: "React Crash Course", Views: 50000},
		},
	})

	assert.Contains(t, user, `"react tutorial"`)
	assert.Contains(t, user, "80.0/100")
	assert.Contains(t, user, "Chan A, Chan B")
	assert.Contains(t, user, "React Crash Course (50000 views)")
}
