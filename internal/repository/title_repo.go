package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubelens-backend/internal/models"
	"tubelens-backend/internal/services"
)

// TitleRepo persists title generations and favorite state.
type TitleRepo struct {
	pool *pgxpool.Pool
}

func NewTitleRepo(pool *pgxpool.Pool) *TitleRepo {
	return &TitleRepo{pool: pool}
}

func (r *TitleRepo) SaveGeneration(ctx context.Context, result *models.TitleGenerationResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO title_generations (id, user_id, prompt, provider)
		VALUES ($1, $2, $3, $4) RETURNING created_at`,
		result.ID, result.UserID, result.Prompt, result.Provider,
	).Scan(&result.CreatedAt)
	if err != nil {
		return err
	}

	for _, t := range result.Titles {
		_, err := tx.Exec(ctx,
			`INSERT INTO generated_titles (id, generation_id, title, keywords, description)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, result.ID, t.Title, t.Keywords, t.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *TitleRepo) Favorites(ctx context.Context, userID uuid.UUID) ([]models.GeneratedTitle, error) {
	query := `SELECT t.id, t.title, t.keywords, t.description, t.is_favorite
		FROM generated_titles t
		JOIN title_generations g ON g.id = t.generation_id
		WHERE g.user_id = $1 AND t.is_favorite
		ORDER BY g.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []models.GeneratedTitle
	for rows.Next() {
		var t models.GeneratedTitle
		if err := rows.Scan(&t.ID, &t.Title, &t.Keywords, &t.Description, &t.IsFavorite); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// ToggleFavorite flips the flag, scoped to titles the user generated.
func (r *TitleRepo) ToggleFavorite(ctx context.Context, titleID, userID uuid.UUID) (*models.GeneratedTitle, error) {
	t := &models.GeneratedTitle{}
	query := `UPDATE generated_titles t SET is_favorite = NOT is_favorite
		FROM title_generations g
		WHERE t.id = $1 AND g.id = t.generation_id AND g.user_id = $2
		RETURNING t.id, t.title, t.keywords, t.description, t.is_favorite`

	err := r.pool.QueryRow(ctx, query, titleID, userID).Scan(
		&t.ID, &t.Title, &t.Keywords, &t.Description, &t.IsFavorite,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
