package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Remove deletes the pair and reports whether a row existed. The toggle
// endpoint relies on the statement-level atomicity of this delete.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM product_favorites WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Add inserts the pair. ON CONFLICT DO NOTHING under the unique (user,
// product) index keeps concurrent toggles from doubling the row.
func (r *FavoriteRepository) Add(ctx context.Context, userID, productID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_favorites (user_id, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID, time.Now())
	return err
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM product_favorites WHERE user_id = $1 AND product_id = $2)
	`, userID, productID)
	return exists, err
}

func (r *FavoriteRepository) ProductIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT product_id FROM product_favorites WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return ids, err
}
