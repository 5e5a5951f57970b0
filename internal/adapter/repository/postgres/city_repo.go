package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type CityRepository struct {
	db *sqlx.DB
}

func NewCityRepository(db *sqlx.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) FindAll(ctx context.Context) ([]*domain.City, error) {
	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM cities ORDER BY name`); err != nil {
		return nil, err
	}
	cities := make([]*domain.City, 0, len(rows))
	for _, row := range rows {
		cities = append(cities, &domain.City{ID: row.ID, Name: row.Name})
	}
	return cities, nil
}

func (r *CityRepository) FindByID(ctx context.Context, id int64) (*domain.City, error) {
	var row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT id, name FROM cities WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.City{ID: row.ID, Name: row.Name}, nil
}

func (r *CityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)`, id)
	return exists, err
}
