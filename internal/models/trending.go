package models

import "time"

// KeywordScore is a ranked term from the trending-video corpus.
type KeywordScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// TrendingSnapshot is the cached view of the most-popular video feed plus
// the keywords aggregated from it.
type TrendingSnapshot struct {
	Videos      []VideoRecord  `json:"videos"`
	TopKeywords []KeywordScore `json:"top_keywords"`
	CachedAt    time.Time      `json:"cached_at"`
}
