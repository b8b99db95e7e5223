package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

// IdeaStore persists the daily idea set. Refresh replaces the whole set.
type IdeaStore interface {
	ReplaceAll(ctx context.Context, ideas []models.Idea) error
	List(ctx context.Context, limit int) ([]models.Idea, error)
}

// defaultFeeds are the news sources mined for video topics.
var defaultFeeds = []string{
	"https://news.google.com/rss?hl=en-US&gl=US&ceid=US:en",
	"https://feeds.bbci.co.uk/news/technology/rss.xml",
	"https://www.reddit.com/r/videos/.rss",
}

// creativeTopics pads the idea pool when feeds come up short.
var creativeTopics = []string{
	"productivity hacks for remote workers",
	"budget travel destinations this year",
	"beginner-friendly coding projects",
	"home workout routines without equipment",
	"easy meal prep for busy weeks",
	"side hustles that actually pay",
	"phone photography tips and tricks",
	"decluttering and minimalist living",
	"learning a language in 30 days",
	"small channel growth strategies",
	"AI tools for content creators",
	"sleep habits that changed my life",
}

// IdeasService builds a daily set of video ideas from RSS headlines and a
// creative topic pool, deduplicated by word overlap.
type IdeasService struct {
	store  IdeaStore
	chain  *Chain
	parser *gofeed.Parser
	feeds  []string
	max    int
	rng    *rand.Rand
	log    *logrus.Entry
}

func NewIdeasService(store IdeaStore, chain *Chain, max int) *IdeasService {
	return &IdeasService{
		store:  store,
		chain:  chain,
		parser: gofeed.NewParser(),
		feeds:  defaultFeeds,
		max:    max,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logrus.WithField("component", "ideas"),
	}
}

// List returns the current idea set.
func (s *IdeasService) List(ctx context.Context) ([]models.Idea, error) {
	ideas, err := s.store.List(ctx, s.max)
	if err != nil {
		return nil, fmt.Errorf("%w: loading ideas: %v", ErrPersistence, err)
	}
	return ideas, nil
}

// Refresh rebuilds the daily idea set: fetch feed headlines, pad with
// creative topics, shuffle, dedupe near-identical entries, and replace
// whatever set was stored before.
func (s *IdeasService) Refresh(ctx context.Context) ([]models.Idea, error) {
	candidates := s.collectTopics(ctx)
	for _, t := range creativeTopics {
		candidates = append(candidates, topicCandidate{topic: t})
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	ideas := make([]models.Idea, 0, s.max)
	var kept []string
	for _, c := range candidates {
		if len(ideas) == s.max {
			break
		}
		if isNearDuplicate(c.topic, kept) {
			continue
		}
		kept = append(kept, c.topic)

		if c.pubDate.IsZero() {
			c.pubDate = time.Now()
		}
		title, provider := s.titleFor(ctx, c.topic)
		ideas = append(ideas, models.Idea{
			Title:         title,
			OriginalTopic: c.topic,
			Link:          c.link,
			Keywords:      topicKeywords(c.topic),
			PubDate:       c.pubDate,
		})
		s.log.Debugf("idea %q from topic %q via %s", title, c.topic, provider)
	}

	if err := s.store.ReplaceAll(ctx, ideas); err != nil {
		return nil, fmt.Errorf("%w: storing ideas: %v", ErrPersistence, err)
	}
	s.log.Infof("refreshed idea set with %d entries", len(ideas))
	return ideas, nil
}

type topicCandidate struct {
	topic   string
	link    string
	pubDate time.Time
}

func (s *IdeasService) collectTopics(ctx context.Context) []topicCandidate {
	var out []topicCandidate
	for _, url := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			s.log.Warnf("feed %s unavailable: %v", url, err)
			continue
		}
		for _, item := range feed.Items {
			topic := strings.TrimSpace(item.Title)
			if topic == "" {
				continue
			}
			cand := topicCandidate{topic: topic, link: item.Link}
			if item.PublishedParsed != nil {
				cand.pubDate = *item.PublishedParsed
			}
			out = append(out, cand)
			if len(out) >= 40 {
				return out
			}
		}
	}
	return out
}

// titleFor asks the provider chain for a video title spun from the topic.
// The chain degrades to templates on its own, so this always yields one.
func (s *IdeasService) titleFor(ctx context.Context, topic string) (string, models.Provider) {
	titles, provider := s.chain.GenerateTitles(ctx, TitleBrief{Prompt: topic})
	return titles[0].Title, provider
}

// isNearDuplicate reports whether topic shares at least 70% of its words
// with any already-kept topic.
func isNearDuplicate(topic string, kept []string) bool {
	for _, other := range kept {
		if wordOverlap(topic, other) >= 0.7 {
			return true
		}
	}
	return false
}

func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}
	shared := 0
	for _, w := range wordsA {
		if setB[w] {
			shared++
		}
	}

	smaller := len(wordsA)
	if len(wordsB) < smaller {
		smaller = len(wordsB)
	}
	return float64(shared) / float64(smaller)
}
