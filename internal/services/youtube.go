package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/models"
)

// VideoSource is the metadata surface the pipeline consumes.
type VideoSource interface {
	Search(ctx context.Context, keyword string, max int) ([]models.VideoRecord, error)
	Details(ctx context.Context, ids []string) ([]models.VideoRecord, error)
	MostPopular(ctx context.Context, region string, max int) ([]models.VideoRecord, error)
}

// YouTubeClient wraps the YouTube Data API v3 search, videos and
// most-popular endpoints. Every external call takes a fresh credential from
// the pool; a quota-exceeded response burns the credential and retries the
// same call with the next one until the pool runs dry. Any other failure is
// surfaced immediately as ErrMetadataUnavailable.
type YouTubeClient struct {
	pool    *KeyPool
	client  *resty.Client
	baseURL string
	timeout time.Duration
	log     *logrus.Entry
}

func NewYouTubeClient(pool *KeyPool, baseURL string, timeout time.Duration) *YouTubeClient {
	return &YouTubeClient{
		pool: pool,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "TubeLens/1.0"),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     logrus.WithField("component", "youtube"),
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippetJSON `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string      `json:"id"`
		Snippet    snippetJSON `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type snippetJSON struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ChannelID    string   `json:"channelId"`
	ChannelTitle string   `json:"channelTitle"`
	PublishedAt  string   `json:"publishedAt"`
	Tags         []string `json:"tags"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Search returns lightweight records for videos matching the keyword,
// restricted to uploads from the last 30 days. View counts are not part of
// the search response; callers needing them follow up with Details.
func (c *YouTubeClient) Search(ctx context.Context, keyword string, max int) ([]models.VideoRecord, error) {
	publishedAfter := time.Now().Add(-30 * 24 * time.Hour).UTC().Format(time.RFC3339)

	body, err := c.doWithRotation(ctx, "/search", map[string]string{
		"part":           "snippet",
		"q":              keyword,
		"type":           "video",
		"order":          "relevance",
		"maxResults":     strconv.Itoa(max),
		"publishedAfter": publishedAfter,
	})
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse search response: %v", ErrMetadataUnavailable, err)
	}

	records := make([]models.VideoRecord, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		records = append(records, normalizeSnippet(item.ID.VideoID, item.Snippet, 0))
	}
	return records, nil
}

// Details fetches statistics and full snippets for the given ids in a
// single batched call (ids joined by comma, per the API contract).
func (c *YouTubeClient) Details(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	batch := strings.Join(ids, ",")
	body, err := c.doWithRotation(ctx, "/videos", map[string]string{
		"part": "snippet,statistics",
		"id":   batch,
	})
	if err != nil {
		return nil, err
	}

	return parseVideoItems(body)
}

// MostPopular fetches the most-popular chart for a region, used for the
// trending-video snapshot.
func (c *YouTubeClient) MostPopular(ctx context.Context, region string, max int) ([]models.VideoRecord, error) {
	body, err := c.doWithRotation(ctx, "/videos", map[string]string{
		"part":       "snippet,statistics",
		"chart":      "mostPopular",
		"regionCode": region,
		"maxResults": strconv.Itoa(max),
	})
	if err != nil {
		return nil, err
	}

	return parseVideoItems(body)
}

// doWithRotation performs one logical API call, rotating credentials on
// quota errors. The retry loop is bounded by the pool size.
func (c *YouTubeClient) doWithRotation(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	for {
		cred, err := c.pool.Next()
		if err != nil {
			return nil, err
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("key", cred.Key).
			Get(c.baseURL + path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
		}

		if resp.StatusCode() == 200 {
			return resp.Body(), nil
		}

		if isQuotaError(resp.StatusCode(), resp.Body()) {
			c.log.Warnf("credential quota exceeded on %s, rotating (remaining %d)", path, c.pool.Remaining())
			continue
		}

		return nil, fmt.Errorf("%w: status %d: %s", ErrMetadataUnavailable, resp.StatusCode(), truncateBody(resp.Body()))
	}
}

// isQuotaError recognizes the 403 quota/rate reasons the Data API reports.
func isQuotaError(status int, body []byte) bool {
	if status != 403 && status != 429 {
		return false
	}

	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// A 429 without a parseable body is still a rate problem.
		return status == 429
	}

	for _, e := range parsed.Error.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return status == 429
}

func parseVideoItems(body []byte) ([]models.VideoRecord, error) {
	var parsed videosResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse videos response: %v", ErrMetadataUnavailable, err)
	}

	records := make([]models.VideoRecord, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		records = append(records, normalizeSnippet(item.ID, item.Snippet, views))
	}
	return records, nil
}

func normalizeSnippet(id string, s snippetJSON, views int64) models.VideoRecord {
	uploadDate, _ := time.Parse(time.RFC3339, s.PublishedAt)
	return models.VideoRecord{
		VideoID:     id,
		Title:       s.Title,
		Views:       views,
		UploadDate:  uploadDate,
		ChannelID:   s.ChannelID,
		ChannelName: s.ChannelTitle,
		Tags:        s.Tags,
		Description: s.Description,
	}
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
