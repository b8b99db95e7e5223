package services

import (
	"math"
	"time"

	"tubelens-backend/internal/models"
)

// Scoring heuristics over a fetched video set. All functions here are pure
// and deterministic given a reference time; no I/O.

const (
	recentWindow = 7 * 24 * time.Hour
	olderWindow  = 14 * 24 * time.Hour
)

// CompetitionScore estimates how saturated a keyword is, on a 0-100 scale.
// Base: recent upload volume against a 10-per-week ceiling. Adjustment: the
// share of breakout videos (views above twice the mean) adds up to 20.
func CompetitionScore(videos []models.VideoRecord, now time.Time) float64 {
	if len(videos) == 0 {
		return 0
	}

	recent := 0
	for _, v := range videos {
		if now.Sub(v.UploadDate) < recentWindow {
			recent++
		}
	}

	base := math.Min(float64(recent)/10*100, 100)

	mean := float64(totalViews(videos)) / float64(len(videos))
	breakout := 0
	for _, v := range videos {
		if float64(v.Views) > mean*2 {
			breakout++
		}
	}
	adjustment := float64(breakout) / float64(len(videos)) * 20

	return math.Min(base+adjustment, 100)
}

// AverageViews is the rounded mean view count across the set.
func AverageViews(videos []models.VideoRecord) int64 {
	if len(videos) == 0 {
		return 0
	}
	return int64(math.Round(float64(totalViews(videos)) / float64(len(videos))))
}

// TrendDirection compares upload counts in the last week against the week
// before. With no older uploads the trend is UP only if anything recent
// exists, otherwise STABLE.
func TrendDirection(videos []models.VideoRecord, now time.Time) models.TrendDirection {
	recent, older := 0, 0
	for _, v := range videos {
		age := now.Sub(v.UploadDate)
		switch {
		case age < recentWindow:
			recent++
		case age < olderWindow:
			older++
		}
	}

	if older == 0 {
		if recent > 0 {
			return models.TrendUp
		}
		return models.TrendStable
	}

	switch {
	case float64(recent) > float64(older)*1.5:
		return models.TrendUp
	case float64(recent) < float64(older)*0.5:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// ContentOpportunity combines competition and audience size into a
// HIGH/MEDIUM/LOW classification.
func ContentOpportunity(competitionScore float64, averageViews int64) models.Opportunity {
	if competitionScore < 30 && averageViews > 5000 {
		return models.OpportunityHigh
	}
	if competitionScore < 60 && averageViews > 2000 {
		return models.OpportunityMedium
	}
	return models.OpportunityLow
}

// RecentVideoCount counts uploads within the last week.
func RecentVideoCount(videos []models.VideoRecord, now time.Time) int {
	count := 0
	for _, v := range videos {
		if now.Sub(v.UploadDate) < recentWindow {
			count++
		}
	}
	return count
}

// TopChannels ranks channel names by how often they appear, descending,
// ties broken by first appearance in the input.
func TopChannels(videos []models.VideoRecord, n int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, v := range videos {
		if v.ChannelName == "" {
			continue
		}
		if _, ok := counts[v.ChannelName]; !ok {
			firstSeen[v.ChannelName] = i
			order = append(order, v.ChannelName)
		}
		counts[v.ChannelName]++
	}

	// Insertion sort keeps the first-seen tiebreak stable for small n.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if counts[b] > counts[a] || (counts[b] == counts[a] && firstSeen[b] < firstSeen[a]) {
				order[j-1], order[j] = b, a
			} else {
				break
			}
		}
	}

	if len(order) > n {
		order = order[:n]
	}
	return order
}

func totalViews(videos []models.VideoRecord) int64 {
	var total int64
	for _, v := range videos {
		total += v.Views
	}
	return total
}
