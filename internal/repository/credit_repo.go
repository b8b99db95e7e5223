package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubelens-backend/internal/services"
)

// CreditRepo backs the credit ledger.
type CreditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

// Deduct decrements atomically; the WHERE clause keeps the balance from
// going negative, so a miss means either no row or not enough credits.
func (r *CreditRepo) Deduct(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	var balance int
	query := `UPDATE user_credits SET credits = credits - $2, updated_at = NOW()
		WHERE user_id = $1 AND credits >= $2
		RETURNING credits`

	err := r.pool.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		exists, checkErr := r.exists(ctx, userID)
		if checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, services.ErrNotFound
		}
		return 0, services.ErrInsufficientCredits
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepo) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx, "SELECT credits FROM user_credits WHERE user_id = $1", userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, services.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepo) exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM user_credits WHERE user_id = $1)", userID).Scan(&exists)
	return exists, err
}
