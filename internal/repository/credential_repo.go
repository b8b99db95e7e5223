package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CredentialRepo reads the API key pool from storage.
type CredentialRepo struct {
	pool *pgxpool.Pool
}

func NewCredentialRepo(pool *pgxpool.Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

func (r *CredentialRepo) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT api_key FROM api_credentials ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
