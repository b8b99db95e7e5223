package models

import (
	"time"

	"github.com/google/uuid"
)

// Idea is one "idea of the day": a generated video title derived from a
// trending topic, refreshed daily as a full set.
type Idea struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	OriginalTopic string    `json:"original_topic"`
	Link          string    `json:"link"`
	Keywords      []string  `json:"keywords"`
	PubDate       time.Time `json:"pub_date"`
	CreatedAt     time.Time `json:"created_at"`
}
