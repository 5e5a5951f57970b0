package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func productRows(products ...*domain.Product) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "price", "price_suffix", "is_lower_bound",
		"status", "author_id", "category_id", "city_id", "created_at", "updated_at",
	})
	for _, p := range products {
		var cityID interface{}
		if p.CityID != nil {
			cityID = *p.CityID
		}
		rows.AddRow(p.ID, p.Name, p.Description, p.Price, string(p.PriceSuffix), p.IsLowerBound,
			string(p.Status), p.AuthorID, p.CategoryID, cityID, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestProductCreateRunsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO product_features`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	product := &domain.Product{Name: "bike", Price: 100, Status: domain.StatusOnModerate}
	features := []domain.ProductFeature{{Name: "color", Value: "red"}}
	require.NoError(t, repo.Create(context.Background(), product, features))

	assert.Equal(t, int64(5), product.ID)
	assert.Equal(t, int64(9), features[0].ID)
	assert.Equal(t, int64(5), features[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateReplacesFeatures(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM product_features`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO product_features`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	product := &domain.Product{ID: 5, Name: "bike", Price: 100, Status: domain.StatusActive}
	err := repo.Update(context.Background(), product, []domain.ProductFeature{{Name: "size", Value: "L"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateMissingRowRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &domain.Product{ID: 99}, nil)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	cityID := int64(3)
	stored := &domain.Product{
		ID: 5, Name: "bike", Price: 100, PriceSuffix: domain.SuffixNone,
		Status: domain.StatusActive, AuthorID: 7, CategoryID: 2, CityID: &cityID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(productRows(stored))

	product, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "bike", product.Name)
	require.NotNil(t, product.CityID)
	assert.Equal(t, int64(3), *product.CityID)
}

func TestProductFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(productRows())

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductSearchSharesPredicateWithAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	stored := &domain.Product{ID: 1, Name: "phone", Price: 100, Status: domain.StatusActive}
	mock.ExpectQuery(`SELECT .+ FROM products WHERE status = 'AC' AND name ILIKE \$1 AND category_id IN \(\$2, \$3\) ORDER BY created_at DESC`).
		WithArgs("%phone%", int64(2), int64(3)).
		WillReturnRows(productRows(stored))
	mock.ExpectQuery(`SELECT MIN\(price\) AS min_price, MAX\(price\) AS max_price FROM products WHERE status = 'AC' AND name ILIKE \$1 AND category_id IN \(\$2, \$3\)`).
		WithArgs("%phone%", int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"min_price", "max_price"}).AddRow(100, 500))

	products, priceRange, err := repo.Search(context.Background(), domain.Filter{
		Name:        "phone",
		CategoryIDs: []int64{2, 3},
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, priceRange.Min)
	require.NotNil(t, priceRange.Max)
	assert.Equal(t, int64(100), *priceRange.Min)
	assert.Equal(t, int64(500), *priceRange.Max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSearchEmptySetHasNilBounds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE status = 'AC' AND price >= \$1 AND price <= \$2`).
		WithArgs(int64(100), int64(200)).
		WillReturnRows(productRows())
	mock.ExpectQuery(`SELECT MIN\(price\)`).
		WithArgs(int64(100), int64(200)).
		WillReturnRows(sqlmock.NewRows([]string{"min_price", "max_price"}).AddRow(nil, nil))

	products, priceRange, err := repo.Search(context.Background(), domain.Filter{
		HasPriceRange: true, MinPrice: 100, MaxPrice: 200,
	})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Nil(t, priceRange.Min)
	assert.Nil(t, priceRange.Max)
}

func TestProductListOwnMode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE status = \$1 AND author_id = \$2 ORDER BY created_at DESC LIMIT 20`).
		WithArgs("AC", int64(7)).
		WillReturnRows(productRows())

	_, err := repo.List(context.Background(), domain.ListQuery{
		Own: true, OwnerID: 7, Status: domain.StatusActive, Limit: 20,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
