package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrCityNotFound    = errors.New("city not found")
	ErrInvalidStatus   = errors.New("unknown product status")
	ErrInvalidSuffix   = errors.New("unknown price suffix")
)

// EventPublisher mirrors the messaging adapter; subjects are
// product.created, product.updated and product.deleted.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Mailer notifies a product author that their product entered moderation.
type Mailer interface {
	SendProductOnModerationEmail(toEmail, productName string) error
}

// AuthorDirectory resolves the author's contact data for notifications.
type AuthorDirectory interface {
	EmailByID(ctx context.Context, userID int64) (string, error)
}

// SubtreeResolver expands a category into its descendant id set; the search
// filter is subtree-inclusive.
type SubtreeResolver interface {
	Descendants(ctx context.Context, id int64) ([]int64, error)
}

type ProductUsecase struct {
	repo       domain.ProductRepository
	categories domain.CategoryRepository
	cities     domain.CityRepository
	subtree    SubtreeResolver
	events     EventPublisher
	mailer     Mailer
	authors    AuthorDirectory
	logger     *zap.Logger
}

func NewProductUsecase(
	repo domain.ProductRepository,
	categories domain.CategoryRepository,
	cities domain.CityRepository,
	subtree SubtreeResolver,
	events EventPublisher,
	mailer Mailer,
	authors AuthorDirectory,
	logger *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		repo:       repo,
		categories: categories,
		cities:     cities,
		subtree:    subtree,
		events:     events,
		mailer:     mailer,
		authors:    authors,
		logger:     logger,
	}
}

type FeatureInput struct {
	Name  string
	Value string
}

type CreateProductInput struct {
	Name         string
	Description  string
	Price        int64
	PriceSuffix  domain.PriceSuffix
	IsLowerBound bool
	CategoryID   int64
	CityID       *int64
	Features     []FeatureInput
}

// CreateProduct stores a new product owned by authorID. Products always start
// on moderation.
func (uc *ProductUsecase) CreateProduct(ctx context.Context, authorID int64, in CreateProductInput) (*domain.Product, error) {
	uc.logger.Info("ProductUsecase.CreateProduct: creating product",
		zap.Int64("author_id", authorID), zap.String("name", in.Name))

	if in.PriceSuffix == "" {
		in.PriceSuffix = domain.SuffixNone
	}
	if !domain.ValidPriceSuffix(in.PriceSuffix) {
		return nil, ErrInvalidSuffix
	}
	if _, err := uc.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if in.CityID != nil {
		ok, err := uc.cities.Exists(ctx, *in.CityID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCityNotFound
		}
	}

	product := &domain.Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		PriceSuffix:  in.PriceSuffix,
		IsLowerBound: in.IsLowerBound,
		Status:       domain.StatusOnModerate,
		AuthorID:     authorID,
		CategoryID:   in.CategoryID,
		CityID:       in.CityID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	features := make([]domain.ProductFeature, 0, len(in.Features))
	for _, f := range in.Features {
		features = append(features, domain.ProductFeature{Name: f.Name, Value: f.Value})
	}

	if err := uc.repo.Create(ctx, product, features); err != nil {
		uc.logger.Error("ProductUsecase.CreateProduct: failed to create product",
			zap.Int64("author_id", authorID), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, "product.created", product)
	uc.notifyAuthor(ctx, product)
	return product, nil
}

// UpdateProductInput carries the mutable fields; nil pointers are left
// untouched. Features, when non-nil, replace the stored set wholesale.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *int64
	PriceSuffix  *domain.PriceSuffix
	IsLowerBound *bool
	Status       *domain.ProductStatus
	CategoryID   *int64
	CityID       *int64
	Features     *[]FeatureInput
}

func (uc *ProductUsecase) UpdateProduct(ctx context.Context, id, userID int64, in UpdateProductInput) (*domain.Product, error) {
	uc.logger.Info("ProductUsecase.UpdateProduct: updating product",
		zap.Int64("product_id", id), zap.Int64("user_id", userID))

	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.OwnedBy(userID) {
		uc.logger.Warn("ProductUsecase.UpdateProduct: forbidden",
			zap.Int64("product_id", id), zap.Int64("owner_id", product.AuthorID), zap.Int64("user_id", userID))
		return nil, ErrForbidden
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.PriceSuffix != nil {
		if !domain.ValidPriceSuffix(*in.PriceSuffix) {
			return nil, ErrInvalidSuffix
		}
		product.PriceSuffix = *in.PriceSuffix
	}
	if in.IsLowerBound != nil {
		product.IsLowerBound = *in.IsLowerBound
	}
	if in.Status != nil {
		if !domain.ValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		product.Status = *in.Status
	}
	if in.CategoryID != nil {
		if _, err := uc.categories.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.CityID != nil {
		ok, err := uc.cities.Exists(ctx, *in.CityID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCityNotFound
		}
		product.CityID = in.CityID
	}
	product.UpdatedAt = time.Now()

	var features []domain.ProductFeature
	if in.Features != nil {
		features = make([]domain.ProductFeature, 0, len(*in.Features))
		for _, f := range *in.Features {
			features = append(features, domain.ProductFeature{Name: f.Name, Value: f.Value})
		}
	} else {
		existing, err := uc.repo.FeaturesByProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		features = existing
	}

	if err := uc.repo.Update(ctx, product, features); err != nil {
		uc.logger.Error("ProductUsecase.UpdateProduct: failed to update product",
			zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, "product.updated", product)
	return product, nil
}

func (uc *ProductUsecase) DeleteProduct(ctx context.Context, id, userID int64) error {
	uc.logger.Info("ProductUsecase.DeleteProduct: deleting product",
		zap.Int64("product_id", id), zap.Int64("user_id", userID))

	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if !product.OwnedBy(userID) {
		uc.logger.Warn("ProductUsecase.DeleteProduct: forbidden",
			zap.Int64("product_id", id), zap.Int64("owner_id", product.AuthorID), zap.Int64("user_id", userID))
		return ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("ProductUsecase.DeleteProduct: failed to delete product",
			zap.Int64("product_id", id), zap.Error(err))
		return err
	}
	uc.publish(ctx, "product.deleted", product)
	return nil
}

func (uc *ProductUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProducts serves the listing endpoint window: newest first, capped at
// q.Limit rows.
func (uc *ProductUsecase) ListProducts(ctx context.Context, q domain.ListQuery) ([]*domain.Product, error) {
	if q.Status == "" {
		q.Status = domain.StatusActive
	}
	if !domain.ValidStatus(q.Status) {
		return nil, ErrInvalidStatus
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	return uc.repo.List(ctx, q)
}

type SearchParams struct {
	Name       string
	CityID     int64
	CategoryID int64
	MinPrice   *int64
	MaxPrice   *int64
}

// Search applies the conjunctive filters over active products and computes
// the min/max price aggregate across the filtered set. The price range filter
// only applies when both bounds are supplied, inclusively.
func (uc *ProductUsecase) Search(ctx context.Context, params SearchParams) ([]*domain.Product, *domain.PriceRange, error) {
	filter := domain.Filter{
		Name:   params.Name,
		CityID: params.CityID,
	}
	if params.CategoryID != 0 {
		ids, err := uc.subtree.Descendants(ctx, params.CategoryID)
		if err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return nil, nil, ErrCategoryNotFound
			}
			return nil, nil, err
		}
		filter.CategoryIDs = ids
	}
	if params.MinPrice != nil && params.MaxPrice != nil {
		filter.HasPriceRange = true
		filter.MinPrice = *params.MinPrice
		filter.MaxPrice = *params.MaxPrice
	}
	return uc.repo.Search(ctx, filter)
}

func (uc *ProductUsecase) Features(ctx context.Context, productID int64) ([]domain.ProductFeature, error) {
	return uc.repo.FeaturesByProduct(ctx, productID)
}

func (uc *ProductUsecase) publish(ctx context.Context, subject string, product *domain.Product) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, product); err != nil {
		uc.logger.Warn("ProductUsecase: failed to publish event",
			zap.String("subject", subject), zap.Int64("product_id", product.ID), zap.Error(err))
	}
}

func (uc *ProductUsecase) notifyAuthor(ctx context.Context, product *domain.Product) {
	if uc.mailer == nil || uc.authors == nil {
		return
	}
	email, err := uc.authors.EmailByID(ctx, product.AuthorID)
	if err != nil || email == "" {
		return
	}
	if err := uc.mailer.SendProductOnModerationEmail(email, product.Name); err != nil {
		uc.logger.Warn("ProductUsecase: failed to send moderation email",
			zap.Int64("product_id", product.ID), zap.Error(err))
	}
}
