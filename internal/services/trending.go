package services

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

const (
	trendingCacheTTL = 5 * time.Minute
	trendingFetchMax = 50
	topKeywordCount  = 10
)

// TrendingService serves the most-popular video feed for a region with a
// short Redis cache, filtered to English-language entries and annotated
// with the top keywords extracted from their titles and tags.
type TrendingService struct {
	videos VideoSource
	cache  *redis.Client
	log    *logrus.Entry
}

func NewTrendingService(videos VideoSource, cache *redis.Client) *TrendingService {
	return &TrendingService{
		videos: videos,
		cache:  cache,
		log:    logrus.WithField("component", "trending"),
	}
}

// Snapshot returns the cached snapshot for the region when one is live,
// otherwise fetches, filters, ranks and caches a fresh one.
func (s *TrendingService) Snapshot(ctx context.Context, region string) (*models.TrendingSnapshot, error) {
	key := "trending:" + strings.ToUpper(region)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var snap models.TrendingSnapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return &snap, nil
			}
			s.log.Warnf("discarding unreadable cache entry %s", key)
		}
	}

	videos, err := s.videos.MostPopular(ctx, region, trendingFetchMax)
	if err != nil {
		return nil, err
	}

	english := make([]models.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if isEnglish(v.Title) {
			english = append(english, v)
		}
	}

	snap := &models.TrendingSnapshot{
		Videos:      english,
		TopKeywords: topKeywords(english, topKeywordCount),
		CachedAt:    time.Now(),
	}

	if s.cache != nil {
		raw, err := json.Marshal(snap)
		if err == nil {
			if err := s.cache.Set(ctx, key, raw, trendingCacheTTL).Err(); err != nil {
				s.log.Warnf("failed to cache trending snapshot: %v", err)
			}
		}
	}
	return snap, nil
}

// isEnglish approximates language detection: at least 80% of the title's
// non-space characters must be printable ASCII.
func isEnglish(title string) bool {
	total, ascii := 0, 0
	for _, r := range title {
		if r == ' ' {
			continue
		}
		total++
		if r >= 0x20 && r < 0x7F {
			ascii++
		}
	}
	if total == 0 {
		return false
	}
	return float64(ascii)/float64(total) >= 0.8
}

// topKeywords ranks terms across video titles and tags by TF-IDF, treating
// each video as one document.
func topKeywords(videos []models.VideoRecord, n int) []models.KeywordScore {
	if len(videos) == 0 {
		return nil
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, v := range videos {
		terms := tokenize(v.Title + " " + strings.Join(v.Tags, " "))
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			termFreq[t]++
			if !seen[t] {
				docFreq[t]++
				seen[t] = true
			}
		}
	}

	scores := make([]models.KeywordScore, 0, len(termFreq))
	docs := float64(len(videos))
	for term, tf := range termFreq {
		idf := math.Log(docs / float64(docFreq[term]))
		scores = append(scores, models.KeywordScore{
			Term:  term,
			Score: float64(tf) * idf,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Term < scores[j].Term
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "you": true, "with": true,
	"this": true, "that": true, "how": true, "what": true, "why": true,
	"are": true, "was": true, "our": true, "your": true, "from": true,
	"video": true, "official": true, "new": true,
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	out := fields[:0]
	for _, f := range fields {
		if len(f) <= 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
