package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider tags which step of the generation chain produced a result.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenRouter Provider = "openrouter"
	ProviderFallback   Provider = "fallback"
)

// GeneratedTitle is one validated title suggestion. The favorite flag is
// mutated by the user after generation, never by the pipeline.
type GeneratedTitle struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Keywords    []string  `json:"keywords"`
	Description string    `json:"description"`
	IsFavorite  bool      `json:"is_favorite"`
}

// TitleGenerationResult is one immutable generation run.
type TitleGenerationResult struct {
	ID        uuid.UUID        `json:"id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Prompt    string           `json:"prompt"`
	Provider  Provider         `json:"provider"`
	Titles    []GeneratedTitle `json:"titles"`
	CreatedAt time.Time        `json:"created_at"`
}
