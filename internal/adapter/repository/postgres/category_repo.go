package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type categoryRow struct {
	ID       int64         `db:"id"`
	Name     string        `db:"name"`
	ParentID sql.NullInt64 `db:"parent_id"`
}

func (r *categoryRow) toDomain() *domain.Category {
	c := &domain.Category{ID: r.ID, Name: r.Name}
	if r.ParentID.Valid {
		parentID := r.ParentID.Int64
		c.ParentID = &parentID
	}
	return c
}

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id
	`, category.Name, nullableID(category.ParentID)).Scan(&category.ID)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `SELECT id, name, parent_id FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, parent_id FROM categories ORDER BY id`); err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].toDomain())
	}
	return categories, nil
}

func (r *CategoryRepository) FindRoots(ctx context.Context) ([]*domain.Category, error) {
	var rows []categoryRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name, parent_id FROM categories WHERE parent_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].toDomain())
	}
	return categories, nil
}

func (r *CategoryRepository) ImagesByCategory(ctx context.Context, categoryID int64) ([]domain.CategoryImage, error) {
	var rows []struct {
		ID          int64  `db:"id"`
		CategoryID  int64  `db:"category_id"`
		Image       string `db:"image"`
		Description string `db:"description"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, category_id, image, description FROM category_images WHERE category_id = $1 ORDER BY id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	images := make([]domain.CategoryImage, 0, len(rows))
	for _, row := range rows {
		images = append(images, domain.CategoryImage{
			ID: row.ID, CategoryID: row.CategoryID, Image: row.Image, Description: row.Description,
		})
	}
	return images, nil
}
