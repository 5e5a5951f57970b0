package domain

import "context"

type ProductRepository interface {
	Create(ctx context.Context, product *Product, features []ProductFeature) error
	// Update replaces the product row and its features wholesale in one
	// transaction.
	Update(ctx context.Context, product *Product, features []ProductFeature) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, q ListQuery) ([]*Product, error)
	Search(ctx context.Context, filter Filter) ([]*Product, *PriceRange, error)
	FeaturesByProduct(ctx context.Context, productID int64) ([]ProductFeature, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
	FindRoots(ctx context.Context) ([]*Category, error)
	ImagesByCategory(ctx context.Context, categoryID int64) ([]CategoryImage, error)
}

type CityRepository interface {
	FindAll(ctx context.Context) ([]*City, error)
	FindByID(ctx context.Context, id int64) (*City, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type FavoriteRepository interface {
	// Remove deletes the (user, product) pair and reports whether a row
	// existed.
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	Add(ctx context.Context, userID, productID int64) error
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	ProductIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *ProductImage) error
	// FindByIDAndProduct resolves the (image, product) compound key.
	FindByIDAndProduct(ctx context.Context, imageID, productID int64) (*ProductImage, error)
	Delete(ctx context.Context, imageID int64) error
	ByProduct(ctx context.Context, productID int64) ([]ProductImage, error)
}
