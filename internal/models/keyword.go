package models

import (
	"time"

	"github.com/google/uuid"
)

// TrendDirection classifies recent upload activity for a keyword.
type TrendDirection string

const (
	TrendUp     TrendDirection = "UP"
	TrendDown   TrendDirection = "DOWN"
	TrendStable TrendDirection = "STABLE"
)

// Opportunity classifies how promising a keyword is for new content.
type Opportunity string

const (
	OpportunityHigh   Opportunity = "HIGH"
	OpportunityMedium Opportunity = "MEDIUM"
	OpportunityLow    Opportunity = "LOW"
)

// VideoRecord is a normalized snapshot of external video metadata.
// It is immutable once fetched and only persisted as part of an analysis.
type VideoRecord struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Views       int64     `json:"views"`
	UploadDate  time.Time `json:"upload_date"`
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
}

// KeywordInsights is one derived insight snapshot for a keyword.
// Snapshots accumulate over time, ordered by AnalysisDate.
type KeywordInsights struct {
	ID                 uuid.UUID      `json:"id"`
	AnalysisID         uuid.UUID      `json:"analysis_id"`
	CompetitionScore   float64        `json:"competition_score"`
	AverageViews       int64          `json:"average_views"`
	TrendDirection     TrendDirection `json:"trend_direction"`
	ContentOpportunity Opportunity    `json:"content_opportunity"`
	RecentVideoCount   int            `json:"recent_video_count"`
	TopChannels        []string       `json:"top_channels"`
	AIInsights         []string       `json:"ai_insights"`
	AnalysisDate       time.Time      `json:"analysis_date"`
}

// KeywordAnalysis is the aggregate root keyed by (keyword, owner).
// SearchCount strictly increases; video records are replaced on recompute
// while insight snapshots are appended.
type KeywordAnalysis struct {
	ID            uuid.UUID  `json:"id"`
	Keyword       string     `json:"keyword"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	SearchCount   int        `json:"search_count"`
	FirstAnalyzed time.Time  `json:"first_analyzed"`
	LastUpdated   time.Time  `json:"last_updated"`

	Insights []KeywordInsights `json:"insights,omitempty"`
	Videos   []VideoRecord     `json:"videos,omitempty"`
}

// LatestInsights returns the most recent insight snapshot, or nil if the
// analysis has never produced one.
func (a *KeywordAnalysis) LatestInsights() *KeywordInsights {
	if len(a.Insights) == 0 {
		return nil
	}
	latest := &a.Insights[0]
	for i := range a.Insights {
		if a.Insights[i].AnalysisDate.After(latest.AnalysisDate) {
			latest = &a.Insights[i]
		}
	}
	return latest
}

// KeywordAnalysisResult is what the pipeline returns to callers.
type KeywordAnalysisResult struct {
	Keyword    string          `json:"keyword"`
	AnalysisID uuid.UUID       `json:"analysis_id"`
	Insights   KeywordInsights `json:"insights"`
	Videos     []VideoRecord   `json:"video_analysis"`
	FromCache  bool            `json:"is_from_cache"`
}

// KeywordHistoryEntry is a single row of a user's analysis history.
type KeywordHistoryEntry struct {
	ID           uuid.UUID        `json:"id"`
	Keyword      string           `json:"keyword"`
	LastAnalyzed time.Time        `json:"last_analyzed"`
	SearchCount  int              `json:"search_count"`
	VideoCount   int              `json:"video_count"`
	Insights     *KeywordInsights `json:"insights,omitempty"`
}

// TrendingKeyword aggregates search counts across owners for one keyword.
type TrendingKeyword struct {
	Keyword       string    `json:"keyword"`
	TotalSearches int       `json:"total_searches"`
	LastSearched  time.Time `json:"last_searched"`
}
