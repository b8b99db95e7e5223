package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubelens-backend/internal/models"
	"tubelens-backend/internal/services"
)

const storedVideoLimit = 20

// KeywordRepo persists keyword analyses, their insight snapshots and the
// video records backing each recompute.
type KeywordRepo struct {
	pool *pgxpool.Pool
}

func NewKeywordRepo(pool *pgxpool.Pool) *KeywordRepo {
	return &KeywordRepo{pool: pool}
}

// FindLatest loads the analysis for (keyword, owner) with its most recent
// insight snapshot and stored videos.
func (r *KeywordRepo) FindLatest(ctx context.Context, keyword string, userID *uuid.UUID) (*models.KeywordAnalysis, error) {
	a := &models.KeywordAnalysis{}
	query := `SELECT id, keyword, user_id, search_count, first_analyzed, last_updated
		FROM keyword_analyses
		WHERE keyword = $1
		  AND COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid)
		    = COALESCE($2, '00000000-0000-0000-0000-000000000000'::uuid)`

	err := r.pool.QueryRow(ctx, query, keyword, userID).Scan(
		&a.ID, &a.Keyword, &a.UserID, &a.SearchCount, &a.FirstAnalyzed, &a.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.hydrate(ctx, a, 1)
}

// TouchSearch atomically increments the search counter and bumps
// last_updated. Freshness is unaffected; it is derived from the newest
// insight snapshot, which only changes on recompute.
func (r *KeywordRepo) TouchSearch(ctx context.Context, analysisID uuid.UUID) (*models.KeywordAnalysis, error) {
	a := &models.KeywordAnalysis{}
	query := `UPDATE keyword_analyses SET search_count = search_count + 1, last_updated = NOW()
		WHERE id = $1
		RETURNING id, keyword, user_id, search_count, first_analyzed, last_updated`

	err := r.pool.QueryRow(ctx, query, analysisID).Scan(
		&a.ID, &a.Keyword, &a.UserID, &a.SearchCount, &a.FirstAnalyzed, &a.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.hydrate(ctx, a, 1)
}

// SaveAnalysis upserts the aggregate, appends one insight snapshot, and
// replaces the stored video records, all in one transaction.
func (r *KeywordRepo) SaveAnalysis(ctx context.Context, keyword string, userID *uuid.UUID, insights models.KeywordInsights, videos []models.VideoRecord) (*models.KeywordAnalysis, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a := &models.KeywordAnalysis{}
	upsert := `INSERT INTO keyword_analyses (keyword, user_id)
		VALUES ($1, $2)
		ON CONFLICT (keyword, COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid))
		DO UPDATE SET search_count = keyword_analyses.search_count + 1, last_updated = NOW()
		RETURNING id, keyword, user_id, search_count, first_analyzed, last_updated`

	err = tx.QueryRow(ctx, upsert, keyword, userID).Scan(
		&a.ID, &a.Keyword, &a.UserID, &a.SearchCount, &a.FirstAnalyzed, &a.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	snapshot := `INSERT INTO keyword_insights
		(analysis_id, competition_score, average_views, trend_direction, content_opportunity, recent_video_count, top_channels, ai_insights, analysis_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var insightID uuid.UUID
	err = tx.QueryRow(ctx, snapshot,
		a.ID, insights.CompetitionScore, insights.AverageViews, insights.TrendDirection,
		insights.ContentOpportunity, insights.RecentVideoCount, insights.TopChannels,
		insights.AIInsights, insights.AnalysisDate,
	).Scan(&insightID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM video_analyses WHERE analysis_id = $1", a.ID); err != nil {
		return nil, err
	}

	stored := videos
	if len(stored) > storedVideoLimit {
		stored = stored[:storedVideoLimit]
	}
	insertVideo := `INSERT INTO video_analyses
		(analysis_id, video_id, title, views, upload_date, channel_id, channel_name, tags, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, v := range stored {
		_, err := tx.Exec(ctx, insertVideo,
			a.ID, v.VideoID, v.Title, v.Views, v.UploadDate, v.ChannelID, v.ChannelName, v.Tags, v.Description,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	insights.ID = insightID
	insights.AnalysisID = a.ID
	a.Insights = []models.KeywordInsights{insights}
	a.Videos = stored
	return a, nil
}

// History lists the user's analyses with their latest snapshot.
func (r *KeywordRepo) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.KeywordHistoryEntry, error) {
	query := `SELECT a.id, a.keyword, a.last_updated, a.search_count,
			(SELECT COUNT(*) FROM video_analyses v WHERE v.analysis_id = a.id),
			i.id, i.competition_score, i.average_views, i.trend_direction,
			i.content_opportunity, i.recent_video_count, i.top_channels, i.ai_insights, i.analysis_date
		FROM keyword_analyses a
		LEFT JOIN LATERAL (
			SELECT * FROM keyword_insights
			WHERE analysis_id = a.id
			ORDER BY analysis_date DESC LIMIT 1
		) i ON TRUE
		WHERE a.user_id = $1
		ORDER BY a.last_updated DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.KeywordHistoryEntry
	for rows.Next() {
		var e models.KeywordHistoryEntry
		var insightID *uuid.UUID
		ins := models.KeywordInsights{}
		var score *float64
		var avgViews *int64
		var trend, opportunity *string
		var recent *int
		var channels, aiInsights []string
		var date *time.Time

		err := rows.Scan(
			&e.ID, &e.Keyword, &e.LastAnalyzed, &e.SearchCount, &e.VideoCount,
			&insightID, &score, &avgViews, &trend, &opportunity, &recent, &channels, &aiInsights, &date,
		)
		if err != nil {
			return nil, err
		}

		if insightID != nil {
			ins.ID = *insightID
			ins.AnalysisID = e.ID
			ins.CompetitionScore = *score
			ins.AverageViews = *avgViews
			ins.TrendDirection = models.TrendDirection(*trend)
			ins.ContentOpportunity = models.Opportunity(*opportunity)
			ins.RecentVideoCount = *recent
			ins.TopChannels = channels
			ins.AIInsights = aiInsights
			ins.AnalysisDate = *date
			e.Insights = &ins
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Trending aggregates search counts across all owners over the last week.
func (r *KeywordRepo) Trending(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	query := `SELECT keyword, SUM(search_count), MAX(last_updated)
		FROM keyword_analyses
		WHERE last_updated > NOW() - INTERVAL '7 days'
		GROUP BY keyword
		ORDER BY SUM(search_count) DESC, MAX(last_updated) DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []models.TrendingKeyword
	for rows.Next() {
		var k models.TrendingKeyword
		if err := rows.Scan(&k.Keyword, &k.TotalSearches, &k.LastSearched); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// Details loads one analysis with every stored snapshot and video. A
// non-nil userID restricts the lookup to that owner's analyses.
func (r *KeywordRepo) Details(ctx context.Context, analysisID uuid.UUID, userID *uuid.UUID) (*models.KeywordAnalysis, error) {
	a := &models.KeywordAnalysis{}
	query := `SELECT id, keyword, user_id, search_count, first_analyzed, last_updated
		FROM keyword_analyses
		WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2)`

	err := r.pool.QueryRow(ctx, query, analysisID, userID).Scan(
		&a.ID, &a.Keyword, &a.UserID, &a.SearchCount, &a.FirstAnalyzed, &a.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.hydrate(ctx, a, 0)
}

// hydrate attaches snapshots and videos. snapshotLimit 0 loads all.
func (r *KeywordRepo) hydrate(ctx context.Context, a *models.KeywordAnalysis, snapshotLimit int) (*models.KeywordAnalysis, error) {
	insightQuery := `SELECT id, analysis_id, competition_score, average_views, trend_direction,
			content_opportunity, recent_video_count, top_channels, ai_insights, analysis_date
		FROM keyword_insights
		WHERE analysis_id = $1
		ORDER BY analysis_date DESC`
	args := []any{a.ID}
	if snapshotLimit > 0 {
		insightQuery += " LIMIT $2"
		args = append(args, snapshotLimit)
	}

	rows, err := r.pool.Query(ctx, insightQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var i models.KeywordInsights
		err := rows.Scan(
			&i.ID, &i.AnalysisID, &i.CompetitionScore, &i.AverageViews, &i.TrendDirection,
			&i.ContentOpportunity, &i.RecentVideoCount, &i.TopChannels, &i.AIInsights, &i.AnalysisDate,
		)
		if err != nil {
			return nil, err
		}
		a.Insights = append(a.Insights, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	videoRows, err := r.pool.Query(ctx, `SELECT video_id, title, views, upload_date, channel_id, channel_name, tags, description
		FROM video_analyses WHERE analysis_id = $1 ORDER BY views DESC`, a.ID)
	if err != nil {
		return nil, err
	}
	defer videoRows.Close()

	for videoRows.Next() {
		var v models.VideoRecord
		err := videoRows.Scan(&v.VideoID, &v.Title, &v.Views, &v.UploadDate, &v.ChannelID, &v.ChannelName, &v.Tags, &v.Description)
		if err != nil {
			return nil, err
		}
		a.Videos = append(a.Videos, v)
	}
	return a, videoRows.Err()
}
