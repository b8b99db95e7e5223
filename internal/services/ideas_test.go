package services

import (
	"context"
	"testing"

	"tubelens-backend/internal/models"
)

type memIdeaStore struct {
	ideas []models.Idea
}

func (m *memIdeaStore) ReplaceAll(ctx context.Context, ideas []models.Idea) error {
	m.ideas = ideas
	return nil
}

func (m *memIdeaStore) List(ctx context.Context, limit int) ([]models.Idea, error) {
	if len(m.ideas) > limit {
		return m.ideas[:limit], nil
	}
	return m.ideas, nil
}

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"react tutorial for beginners", "react tutorial for beginners", 1},
		{"react tutorial", "angular tutorial", 0.5},
		{"one two three four", "five six seven eight", 0},
		{"", "anything", 0},
	}

	for _, tt := range tests {
		if got := wordOverlap(tt.a, tt.b); got != tt.want {
			t.Fatalf("wordOverlap(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsNearDuplicate(t *testing.T) {
	kept := []string{"best react tutorial for beginners"}

	if !isNearDuplicate("best react tutorial for experts", kept) {
		t.Fatal("expected 4/5 word overlap to count as duplicate")
	}
	if isNearDuplicate("easy pasta recipes tonight", kept) {
		t.Fatal("unrelated topic flagged as duplicate")
	}
	if isNearDuplicate("anything", nil) {
		t.Fatal("empty kept list can never match")
	}
}

func TestTopicKeywords(t *testing.T) {
	got := topicKeywords("Budget Travel Destinations, This Year!")
	if len(got) == 0 || len(got) > 5 {
		t.Fatalf("expected 1-5 keywords, got %v", got)
	}
	for _, kw := range got {
		if len(kw) < 3 {
			t.Fatalf("short token %q survived filtering", kw)
		}
	}

	if got := topicKeywords("a an"); len(got) != 3 {
		t.Fatalf("expected default keywords for empty derivation, got %v", got)
	}
}

func TestIdeasRefresh_BuildsDedupedSetFromTopicPool(t *testing.T) {
	store := &memIdeaStore{}
	svc := NewIdeasService(store, fallbackOnlyChain(), 12)
	svc.feeds = nil // creative topic pool only

	ideas, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if len(ideas) == 0 || len(ideas) > 12 {
		t.Fatalf("expected 1-12 ideas, got %d", len(ideas))
	}
	if len(store.ideas) != len(ideas) {
		t.Fatalf("stored set diverges from returned set")
	}

	for i, idea := range ideas {
		if idea.Title == "" || idea.OriginalTopic == "" {
			t.Fatalf("idea %d incomplete: %+v", i, idea)
		}
		if idea.PubDate.IsZero() {
			t.Fatalf("idea %d has zero pub date", i)
		}
		for j := 0; j < i; j++ {
			if wordOverlap(idea.OriginalTopic, ideas[j].OriginalTopic) >= 0.7 {
				t.Fatalf("ideas %d and %d are near-duplicates", i, j)
			}
		}
	}
}

func TestIdeasRefresh_ReplacesPreviousSet(t *testing.T) {
	store := &memIdeaStore{ideas: []models.Idea{{Title: "stale idea from yesterday"}}}
	svc := NewIdeasService(store, fallbackOnlyChain(), 12)
	svc.feeds = nil

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	for _, idea := range store.ideas {
		if idea.Title == "stale idea from yesterday" {
			t.Fatal("previous set survived the refresh")
		}
	}
}
