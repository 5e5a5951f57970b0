package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type productRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Price        int64          `db:"price"`
	PriceSuffix  string         `db:"price_suffix"`
	IsLowerBound bool           `db:"is_lower_bound"`
	Status       string         `db:"status"`
	AuthorID     int64          `db:"author_id"`
	CategoryID   int64          `db:"category_id"`
	CityID       sql.NullInt64  `db:"city_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r *productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		PriceSuffix:  domain.PriceSuffix(r.PriceSuffix),
		IsLowerBound: r.IsLowerBound,
		Status:       domain.ProductStatus(r.Status),
		AuthorID:     r.AuthorID,
		CategoryID:   r.CategoryID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.CityID.Valid {
		cityID := r.CityID.Int64
		p.CityID = &cityID
	}
	return p
}

const productColumns = `id, name, description, price, price_suffix, is_lower_bound, status, author_id, category_id, city_id, created_at, updated_at`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts the product row and its features in one transaction.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product, features []domain.ProductFeature) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, price_suffix, is_lower_bound, status, author_id, category_id, city_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, product.Name, product.Description, product.Price, string(product.PriceSuffix), product.IsLowerBound,
		string(product.Status), product.AuthorID, product.CategoryID, nullableID(product.CityID),
		product.CreatedAt, product.UpdatedAt).Scan(&product.ID)
	if err != nil {
		return err
	}
	if err := insertFeatures(ctx, tx, product.ID, features); err != nil {
		return err
	}
	return tx.Commit()
}

// Update replaces the product row and its feature set wholesale in one
// transaction, so a mid-sequence failure cannot leave the product without
// features.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, features []domain.ProductFeature) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, price_suffix = $5, is_lower_bound = $6,
		    status = $7, category_id = $8, city_id = $9, updated_at = $10
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.Price, string(product.PriceSuffix),
		product.IsLowerBound, string(product.Status), product.CategoryID, nullableID(product.CityID),
		product.UpdatedAt)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrProductNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_features WHERE product_id = $1`, product.ID); err != nil {
		return err
	}
	if err := insertFeatures(ctx, tx, product.ID, features); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFeatures(ctx context.Context, tx *sqlx.Tx, productID int64, features []domain.ProductFeature) error {
	for i := range features {
		features[i].ProductID = productID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO product_features (product_id, name, value)
			VALUES ($1, $2, $3)
			RETURNING id
		`, productID, features[i].Name, features[i].Value).Scan(&features[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the product; features, images and favorites go with it via
// the schema's ON DELETE CASCADE.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Product, error) {
	where := `status = $1`
	args := []interface{}{string(q.Status)}
	if q.Own {
		where += ` AND author_id = $2`
		args = append(args, q.OwnerID)
	} else if q.CityID != 0 {
		where += ` AND city_id = $2`
		args = append(args, q.CityID)
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT %d`,
		productColumns, where, q.Limit)

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toDomain())
	}
	return products, nil
}

// Search applies the conjunctive filter over active products, then computes
// MIN(price)/MAX(price) with the same predicate so the aggregate reflects
// exactly the filtered set.
func (r *ProductRepository) Search(ctx context.Context, filter domain.Filter) ([]*domain.Product, *domain.PriceRange, error) {
	where := `status = '` + string(domain.StatusActive) + `'`
	var args []interface{}
	next := func() string {
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += ` AND name ILIKE ` + next()
	}
	if filter.CityID != 0 {
		args = append(args, filter.CityID)
		where += ` AND city_id = ` + next()
	}
	if len(filter.CategoryIDs) > 0 {
		placeholders := ""
		for _, id := range filter.CategoryIDs {
			args = append(args, id)
			if placeholders != "" {
				placeholders += ", "
			}
			placeholders += next()
		}
		where += ` AND category_id IN (` + placeholders + `)`
	}
	if filter.HasPriceRange {
		args = append(args, filter.MinPrice)
		where += ` AND price >= ` + next()
		args = append(args, filter.MaxPrice)
		where += ` AND price <= ` + next()
	}

	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, err
	}

	var agg struct {
		Min sql.NullInt64 `db:"min_price"`
		Max sql.NullInt64 `db:"max_price"`
	}
	aggQuery := `SELECT MIN(price) AS min_price, MAX(price) AS max_price FROM products WHERE ` + where
	if err := r.db.GetContext(ctx, &agg, aggQuery, args...); err != nil {
		return nil, nil, err
	}

	priceRange := &domain.PriceRange{}
	if agg.Min.Valid {
		min := agg.Min.Int64
		priceRange.Min = &min
	}
	if agg.Max.Valid {
		max := agg.Max.Int64
		priceRange.Max = &max
	}

	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toDomain())
	}
	return products, priceRange, nil
}

func (r *ProductRepository) FeaturesByProduct(ctx context.Context, productID int64) ([]domain.ProductFeature, error) {
	var rows []struct {
		ID        int64  `db:"id"`
		ProductID int64  `db:"product_id"`
		Name      string `db:"name"`
		Value     string `db:"value"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, product_id, name, value FROM product_features WHERE product_id = $1 ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	features := make([]domain.ProductFeature, 0, len(rows))
	for _, row := range rows {
		features = append(features, domain.ProductFeature{
			ID: row.ID, ProductID: row.ProductID, Name: row.Name, Value: row.Value,
		})
	}
	return features, nil
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
