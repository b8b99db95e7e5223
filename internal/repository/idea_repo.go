package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubelens-backend/internal/models"
)

// IdeaRepo stores the daily idea set. The set is replaced wholesale on
// each refresh.
type IdeaRepo struct {
	pool *pgxpool.Pool
}

func NewIdeaRepo(pool *pgxpool.Pool) *IdeaRepo {
	return &IdeaRepo{pool: pool}
}

func (r *IdeaRepo) ReplaceAll(ctx context.Context, ideas []models.Idea) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM ideas_of_the_day"); err != nil {
		return err
	}

	query := `INSERT INTO ideas_of_the_day (id, title, original_topic, link, keywords, pub_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range ideas {
		if ideas[i].ID == uuid.Nil {
			ideas[i].ID = uuid.New()
		}
		_, err := tx.Exec(ctx, query,
			ideas[i].ID, ideas[i].Title, ideas[i].OriginalTopic, ideas[i].Link,
			ideas[i].Keywords, ideas[i].PubDate,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *IdeaRepo) List(ctx context.Context, limit int) ([]models.Idea, error) {
	query := `SELECT id, title, original_topic, link, keywords, pub_date, created_at
		FROM ideas_of_the_day ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		var i models.Idea
		err := rows.Scan(&i.ID, &i.Title, &i.OriginalTopic, &i.Link, &i.Keywords, &i.PubDate, &i.CreatedAt)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, i)
	}
	return ideas, rows.Err()
}
