package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

// TextProvider is one generative-text backend in the fallback chain.
type TextProvider interface {
	Tag() models.Provider
	Complete(ctx context.Context, system, user string) (string, error)
}

// InsightBrief is the structured prompt for keyword insights.
type InsightBrief struct {
	Keyword          string
	CompetitionScore float64
	AverageViews     int64
	RecentVideoCount int
	Trend            models.TrendDirection
	TopChannels      []string
	TopVideos        []models.VideoRecord
}

// TitleBrief is the structured prompt for title generation, optionally
// enriched with trending-video statistics as few-shot signal.
type TitleBrief struct {
	Prompt           string
	TrendingKeywords []string
	TrendingExamples []string
	TrendingAvgViews int64
}

// Chain drives the primary provider, falls back to the secondary on
// failure, and falls back to deterministic templates when both fail or when
// no valid entries survive extraction. Callers never see a hard failure.
// The primary-to-secondary handoff is strictly sequential; each provider
// call carries its own timeout and is never retried here.
type Chain struct {
	providers []TextProvider
	timeout   time.Duration
	log       *logrus.Entry
}

func NewChain(primary, secondary TextProvider, timeout time.Duration) *Chain {
	var providers []TextProvider
	if primary != nil {
		providers = append(providers, primary)
	}
	if secondary != nil {
		providers = append(providers, secondary)
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		log:       logrus.WithField("component", "generation"),
	}
}

// Providers lists the configured backends in handoff order.
func (c *Chain) Providers() []models.Provider {
	tags := make([]models.Provider, 0, len(c.providers))
	for _, p := range c.providers {
		tags = append(tags, p.Tag())
	}
	return tags
}

// complete walks the provider list until one returns text. The returned
// error is ErrGenerationUnavailable once every provider has failed.
func (c *Chain) complete(ctx context.Context, system, user string) (string, models.Provider, error) {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := p.Complete(callCtx, system, user)
		cancel()

		if err != nil {
			c.log.Warnf("provider %s failed: %v", p.Tag(), err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.log.Warnf("provider %s returned empty output", p.Tag())
			continue
		}
		return text, p.Tag(), nil
	}
	return "", models.ProviderFallback, ErrGenerationUnavailable
}

// GenerateTitles produces exactly five validated titles. Provider output
// that yields no valid entries at all is treated as malformed and replaced
// wholesale by templates; partial output is padded.
func (c *Chain) GenerateTitles(ctx context.Context, brief TitleBrief) ([]models.GeneratedTitle, models.Provider) {
	system, user := buildTitlePrompt(brief)

	text, provider, err := c.complete(ctx, system, user)
	if err != nil {
		return FallbackTitles(brief.Prompt)[:maxTitles], models.ProviderFallback
	}

	titles := ExtractTitles(text)
	if len(titles) == 0 {
		c.log.Warnf("provider %s output rejected by validation: %v", provider, ErrMalformedOutput)
		return FallbackTitles(brief.Prompt)[:maxTitles], models.ProviderFallback
	}

	return PadTitles(titles, brief.Prompt, maxTitles), provider
}

// GenerateInsights produces exactly three short actionable insights.
func (c *Chain) GenerateInsights(ctx context.Context, brief InsightBrief) ([]string, models.Provider) {
	system, user := buildInsightPrompt(brief)

	text, provider, err := c.complete(ctx, system, user)
	if err != nil {
		return PadInsights(nil, maxInsights), models.ProviderFallback
	}

	insights := ExtractInsights(text)
	if len(insights) == 0 {
		c.log.Warnf("provider %s output rejected by validation: %v", provider, ErrMalformedOutput)
		return PadInsights(nil, maxInsights), models.ProviderFallback
	}

	return PadInsights(insights, maxInsights), provider
}

func buildTitlePrompt(brief TitleBrief) (system, user string) {
	system = `You are an expert YouTube SEO strategist. Generate 5 engaging, click-worthy video titles. Each title must be between 20 and 120 characters. Respond ONLY with a JSON object in this exact format, no code fences, no extra text:
{"titles":[{"title":"Title text","keywords":["kw1","kw2","kw3"],"description":"One-sentence description of the video"}]}`

	var sb strings.Builder
	sb.WriteString("Generate 5 SEO-optimized YouTube titles for the following content brief: ")
	sb.WriteString(brief.Prompt)

	if len(brief.TrendingKeywords) > 0 {
		sb.WriteString("\n\nKeywords currently trending on the platform: ")
		sb.WriteString(strings.Join(brief.TrendingKeywords, ", "))
	}
	if len(brief.TrendingExamples) > 0 {
		sb.WriteString("\nExamples of titles performing well right now:\n")
		for _, ex := range brief.TrendingExamples {
			sb.WriteString("- ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	if brief.TrendingAvgViews > 0 {
		sb.WriteString(fmt.Sprintf("\nTrending videos currently average %d views.", brief.TrendingAvgViews))
	}

	sb.WriteString("\n\nEach entry needs a title, 1-7 keywords, and a description of at least 20 characters.")
	return system, sb.String()
}

func buildInsightPrompt(brief InsightBrief) (system, user string) {
	system = "You are an expert YouTube SEO specialist and content strategist. Analyze keyword data and provide exactly 3 actionable insights for content creators as bullet points."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze YouTube keyword %q with data:\n", brief.Keyword)
	fmt.Fprintf(&sb, "- Competition Score: %.1f/100\n", brief.CompetitionScore)
	fmt.Fprintf(&sb, "- Average Views: %d\n", brief.AverageViews)
	fmt.Fprintf(&sb, "- Recent Videos: %d\n", brief.RecentVideoCount)
	fmt.Fprintf(&sb, "- Trend: %s\n", brief.Trend)
	fmt.Fprintf(&sb, "- Top Channels: %s\n", strings.Join(brief.TopChannels, ", "))

	if len(brief.TopVideos) > 0 {
		sb.WriteString("\nTop video titles:\n")
		limit := len(brief.TopVideos)
		if limit > 10 {
			limit = 10
		}
		for _, v := range brief.TopVideos[:limit] {
			fmt.Fprintf(&sb, "- %s (%d views)\n", v.Title, v.Views)
		}
	}

	sb.WriteString("\nProvide exactly 3 actionable insights for content creators as bullet points.")
	return system, sb.String()
}

// FallbackTitles derives a full set of deterministic template titles from
// the input topic. Every entry satisfies the validation constraints
// regardless of topic length.
func FallbackTitles(topic string) []models.GeneratedTitle {
	topic = strings.TrimSpace(topic)
	if runes := []rune(topic); len(runes) > 40 {
		topic = strings.TrimSpace(string(runes[:37])) + "..."
	}
	if topic == "" {
		topic = "your next video"
	}

	keywords := topicKeywords(topic)
	desc := fmt.Sprintf("A practical walkthrough of %s with concrete steps creators can apply today.", topic)

	patterns := []string{
		"The Complete %s Guide Every Creator Needs",
		"%s Explained: What Nobody Tells Beginners",
		"I Tried %s for 30 Days and Here Is the Result",
		"5 %s Mistakes That Are Killing Your Channel",
		"How to Master %s Faster Than Everyone Else",
	}

	titles := make([]models.GeneratedTitle, 0, len(patterns))
	for _, p := range patterns {
		titles = append(titles, models.GeneratedTitle{
			Title:       fmt.Sprintf(p, topic),
			Keywords:    keywords,
			Description: desc,
		})
	}
	return titles
}

var fallbackInsights = []string{
	"Analyze competitor content gaps for opportunities",
	"Optimize titles with emotional triggers and numbers",
	"Create content series around this keyword cluster",
}

func topicKeywords(topic string) []string {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(topic)) {
		w = strings.Trim(w, ".,!?\"'")
		if len(w) < 3 {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 5 {
			break
		}
	}
	if len(keywords) == 0 {
		keywords = []string{"youtube", "content", "creator"}
	}
	return keywords
}
