package services

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"tubelens-backend/internal/models"
)

// Extraction and validation of raw generative-model text. Model output is
// expected to contain a JSON object but routinely arrives wrapped in code
// fences, with smart quotes, or with trailing commas; this layer repairs
// what it can and filters out entries that violate the shape constraints.

const (
	titleMinLen       = 20
	titleMaxLen       = 120
	titleMaxKeywords  = 7
	titleDescMinLen   = 20
	maxTitles         = 5
	maxInsights       = 3
	insightMinLen     = 10
)

var (
	codeFenceRe    = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[•\-\*]|\d+\.)\s*`)
	smartQuotes    = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
)

// NormalizeModelJSON strips code fences, locates the outermost JSON object
// and repairs the common formatting defects of model output.
func NormalizeModelJSON(raw string) string {
	content := strings.TrimSpace(raw)

	if strings.Contains(content, "```") {
		if m := codeFenceRe.FindStringSubmatch(content); len(m) > 1 {
			content = strings.TrimSpace(m[1])
		} else {
			content = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(content, "```json", ""), "```", ""))
		}
	}

	// Outermost {...} span.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	content = smartQuotes.Replace(content)
	content = trailingComma.ReplaceAllString(content, "$1")

	return content
}

type rawTitleEntry struct {
	Title       string   `json:"title"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

type titlesPayload struct {
	Titles []rawTitleEntry `json:"titles"`
	Items  []rawTitleEntry `json:"items"`
}

// ExtractTitles parses raw provider text into validated title entries.
// Entries failing the length/shape constraints are discarded; the result
// may be empty, in which case the caller falls through to its fallback.
func ExtractTitles(raw string) []models.GeneratedTitle {
	content := NormalizeModelJSON(raw)

	var payload titlesPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil
	}

	entries := payload.Titles
	if len(entries) == 0 {
		entries = payload.Items
	}

	var titles []models.GeneratedTitle
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		// Length bounds are in characters, not bytes.
		if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
			continue
		}

		var keywords []string
		for _, kw := range e.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			keywords = append(keywords, kw)
			if len(keywords) == titleMaxKeywords {
				break
			}
		}
		if len(keywords) == 0 {
			continue
		}

		desc := strings.TrimSpace(e.Description)
		if utf8.RuneCountInString(desc) < titleDescMinLen {
			continue
		}

		titles = append(titles, models.GeneratedTitle{
			Title:       title,
			Keywords:    keywords,
			Description: desc,
		})
		if len(titles) == maxTitles {
			break
		}
	}

	return titles
}

// ExtractInsights pulls bullet-point lines out of free-form provider text.
// Only bullet-prefixed lines longer than the minimum survive; at most three
// are kept.
func ExtractInsights(raw string) []string {
	var insights []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if !bulletPrefixRe.MatchString(trimmed) {
			continue
		}
		insight := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(trimmed, ""))
		if utf8.RuneCountInString(insight) <= insightMinLen {
			continue
		}
		insights = append(insights, insight)
		if len(insights) == maxInsights {
			break
		}
	}
	return insights
}

// PadTitles fills missing slots with deterministic templates so callers
// always receive a full set of well-formed entries.
func PadTitles(titles []models.GeneratedTitle, topic string, want int) []models.GeneratedTitle {
	templates := FallbackTitles(topic)
	for i := 0; len(titles) < want && i < len(templates); i++ {
		titles = append(titles, templates[i])
	}
	return titles
}

// PadInsights fills missing slots with deterministic template insights.
func PadInsights(insights []string, want int) []string {
	for _, t := range fallbackInsights {
		if len(insights) >= want {
			break
		}
		if containsString(insights, t) {
			continue
		}
		insights = append(insights, t)
	}
	return insights
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
