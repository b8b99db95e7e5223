package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractTitles_CodeFenceAndSmartQuotes(t *testing.T) {
	raw := "Here you go:\n```json\n{“titles”:[{\"title\":\"How to Learn Go in 30 Days Without Burning Out\",\"keywords\":[\"go\",\"learning\"],\"description\":\"A structured month-long plan for learning Go.\"},]}\n```"

	titles := ExtractTitles(raw)
	if len(titles) != 1 {
		t.Fatalf("expected 1 title, got %d", len(titles))
	}
	if titles[0].Title != "How to Learn Go in 30 Days Without Burning Out" {
		t.Fatalf("unexpected title %q", titles[0].Title)
	}
}

func TestExtractTitles_ItemsAlias(t *testing.T) {
	raw := `{"items":[{"title":"Five Docker Mistakes Every Beginner Makes Daily","keywords":["docker"],"description":"Common container pitfalls and how to avoid them."}]}`

	titles := ExtractTitles(raw)
	if len(titles) != 1 {
		t.Fatalf("expected 1 title from items alias, got %d", len(titles))
	}
}

func TestExtractTitles_FiltersInvalidEntries(t *testing.T) {
	raw := `{"titles":[
		{"title":"too short","keywords":["a"],"description":"This description is long enough to pass."},
		{"title":"` + strings.Repeat("x", 130) + `","keywords":["a"],"description":"This description is long enough to pass."},
		{"title":"A Perfectly Reasonable Video Title Right Here","keywords":[],"description":"This description is long enough to pass."},
		{"title":"A Perfectly Reasonable Video Title Right Here","keywords":["a"],"description":"short"},
		{"title":"The One Valid Entry That Should Survive Filtering","keywords":["k1","k2","k3","k4","k5","k6","k7","k8","k9"],"description":"This description is long enough to pass."}
	]}`

	titles := ExtractTitles(raw)
	if len(titles) != 1 {
		t.Fatalf("expected exactly 1 surviving title, got %d", len(titles))
	}
	if len(titles[0].Keywords) != 7 {
		t.Fatalf("expected keywords capped at 7, got %d", len(titles[0].Keywords))
	}
}

func TestExtractTitles_GarbageReturnsNil(t *testing.T) {
	if got := ExtractTitles("not json at all"); got != nil {
		t.Fatalf("expected nil for unparseable input, got %v", got)
	}
}

func TestExtractInsights(t *testing.T) {
	raw := `Some preamble from the model.
- Focus on long-tail variations of the keyword
* Upload consistently within the weekly window
1. Study the breakout channels in this niche closely
- tiny
- A fourth insight that should be cut by the cap entirely`

	insights := ExtractInsights(raw)
	if len(insights) != 3 {
		t.Fatalf("expected 3 insights, got %d: %v", len(insights), insights)
	}
	if insights[0] != "Focus on long-tail variations of the keyword" {
		t.Fatalf("unexpected first insight %q", insights[0])
	}
}

func TestPadTitles_FillsToFullSet(t *testing.T) {
	titles := ExtractTitles("completely malformed output")
	padded := PadTitles(titles, "react tutorial", maxTitles)

	if len(padded) != maxTitles {
		t.Fatalf("expected %d titles after padding, got %d", maxTitles, len(padded))
	}
	for _, title := range padded {
		if len(title.Title) < titleMinLen || len(title.Title) > titleMaxLen {
			t.Fatalf("padded title %q length %d out of [%d,%d]", title.Title, len(title.Title), titleMinLen, titleMaxLen)
		}
		if len(title.Keywords) < 1 || len(title.Keywords) > titleMaxKeywords {
			t.Fatalf("padded title keyword count %d out of [1,%d]", len(title.Keywords), titleMaxKeywords)
		}
		if len(title.Description) < titleDescMinLen {
			t.Fatalf("padded description %q too short", title.Description)
		}
	}
}

func TestPadInsights_FillsToFullSet(t *testing.T) {
	padded := PadInsights(nil, maxInsights)
	if len(padded) != maxInsights {
		t.Fatalf("expected %d insights, got %d", maxInsights, len(padded))
	}

	// A partial set keeps its provider-sourced entries first.
	partial := PadInsights([]string{"Study the top three competing channels"}, maxInsights)
	if len(partial) != maxInsights {
		t.Fatalf("expected %d insights, got %d", maxInsights, len(partial))
	}
	if partial[0] != "Study the top three competing channels" {
		t.Fatalf("provider insight should stay first, got %q", partial[0])
	}
}

func TestExtractTitles_CountsCharactersNotBytes(t *testing.T) {
	// 50 CJK characters: 150 bytes, well within the 120-character cap.
	title := strings.Repeat("動画", 25)
	raw := `{"titles":[{"title":"` + title + `","keywords":["動画"],"description":"` + strings.Repeat("説明", 15) + `"}]}`

	titles := ExtractTitles(raw)
	if len(titles) != 1 {
		t.Fatalf("expected multi-byte title to pass validation, got %d entries", len(titles))
	}
	if titles[0].Title != title {
		t.Fatalf("title mangled: %q", titles[0].Title)
	}

	// 7 characters reads as 21 bytes but is still below the 20-character
	// description minimum.
	short := `{"titles":[{"title":"` + title + `","keywords":["動画"],"description":"` + strings.Repeat("短", 7) + `"}]}`
	if got := ExtractTitles(short); len(got) != 0 {
		t.Fatalf("short multi-byte description should be rejected, got %d entries", len(got))
	}
}

func TestFallbackTitles_LongTopicStaysWithinBounds(t *testing.T) {
	topic := strings.Repeat("extremely long topic ", 20)
	for _, title := range FallbackTitles(topic) {
		if len(title.Title) < titleMinLen || len(title.Title) > titleMaxLen {
			t.Fatalf("title %q length %d out of bounds", title.Title, len(title.Title))
		}
	}

	for _, title := range FallbackTitles("") {
		if len(title.Title) < titleMinLen || len(title.Keywords) == 0 {
			t.Fatalf("empty-topic fallback produced invalid entry %+v", title)
		}
	}
}

func TestFallbackTitles_TruncatesOnRuneBoundary(t *testing.T) {
	topic := strings.Repeat("программирование ", 5)
	for _, title := range FallbackTitles(topic) {
		if !utf8.ValidString(title.Title) {
			t.Fatalf("truncation produced invalid UTF-8: %q", title.Title)
		}
	}
}
