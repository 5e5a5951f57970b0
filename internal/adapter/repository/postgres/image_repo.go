package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type imageRow struct {
	ID          int64  `db:"id"`
	ProductID   int64  `db:"product_id"`
	Image       string `db:"image"`
	Description string `db:"description"`
}

func (r *imageRow) toDomain() *domain.ProductImage {
	return &domain.ProductImage{ID: r.ID, ProductID: r.ProductID, Image: r.Image, Description: r.Description}
}

type ImageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.ProductImage) error {
	if image.Image == "" {
		image.Image = "default_image.png"
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO product_images (product_id, image, description) VALUES ($1, $2, $3) RETURNING id
	`, image.ProductID, image.Image, image.Description).Scan(&image.ID)
}

func (r *ImageRepository) FindByIDAndProduct(ctx context.Context, imageID, productID int64) (*domain.ProductImage, error) {
	var row imageRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, product_id, image, description FROM product_images WHERE id = $1 AND product_id = $2
	`, imageID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ImageRepository) Delete(ctx context.Context, imageID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, imageID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) ByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	var rows []imageRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, product_id, image, description FROM product_images WHERE product_id = $1 ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	images := make([]domain.ProductImage, 0, len(rows))
	for i := range rows {
		images = append(images, *rows[i].toDomain())
	}
	return images, nil
}
