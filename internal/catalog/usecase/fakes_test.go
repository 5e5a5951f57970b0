package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

// In-memory repositories mirroring the Postgres adapter's observable behavior.

type fakeProductRepo struct {
	products map[int64]*domain.Product
	features map[int64][]domain.ProductFeature
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[int64]*domain.Product{},
		features: map[int64][]domain.ProductFeature{},
	}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product, features []domain.ProductFeature) error {
	r.nextID++
	product.ID = r.nextID
	clone := *product
	r.products[product.ID] = &clone
	r.features[product.ID] = features
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product, features []domain.ProductFeature) error {
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	clone := *product
	r.products[product.ID] = &clone
	r.features[product.ID] = features
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	delete(r.features, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context, q domain.ListQuery) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, p := range r.products {
		if p.Status != q.Status {
			continue
		}
		if q.Own {
			if p.AuthorID != q.OwnerID {
				continue
			}
		} else if q.CityID != 0 && (p.CityID == nil || *p.CityID != q.CityID) {
			continue
		}
		clone := *p
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (r *fakeProductRepo) Search(_ context.Context, filter domain.Filter) ([]*domain.Product, *domain.PriceRange, error) {
	var result []*domain.Product
	for _, p := range r.products {
		if p.Status != domain.StatusActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CityID != 0 && (p.CityID == nil || *p.CityID != filter.CityID) {
			continue
		}
		if len(filter.CategoryIDs) > 0 {
			match := false
			for _, id := range filter.CategoryIDs {
				if p.CategoryID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.HasPriceRange && (p.Price < filter.MinPrice || p.Price > filter.MaxPrice) {
			continue
		}
		clone := *p
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	priceRange := &domain.PriceRange{}
	for _, p := range result {
		if priceRange.Min == nil || p.Price < *priceRange.Min {
			v := p.Price
			priceRange.Min = &v
		}
		if priceRange.Max == nil || p.Price > *priceRange.Max {
			v := p.Price
			priceRange.Max = &v
		}
	}
	return result, priceRange, nil
}

func (r *fakeProductRepo) FeaturesByProduct(_ context.Context, productID int64) ([]domain.ProductFeature, error) {
	return r.features[productID], nil
}

type fakeCategoryRepo struct {
	categories []*domain.Category
	images     map[int64][]domain.CategoryImage
	nextID     int64
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{images: map[int64][]domain.CategoryImage{}}
	for _, c := range categories {
		repo.categories = append(repo.categories, c)
		if c.ID > repo.nextID {
			repo.nextID = c.ID
		}
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.nextID++
	category.ID = r.nextID
	r.categories = append(r.categories, category)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*domain.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) FindRoots(_ context.Context) ([]*domain.Category, error) {
	var roots []*domain.Category
	for _, c := range r.categories {
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	return roots, nil
}

func (r *fakeCategoryRepo) ImagesByCategory(_ context.Context, categoryID int64) ([]domain.CategoryImage, error) {
	return r.images[categoryID], nil
}

type fakeCityRepo struct {
	cities map[int64]string
}

func newFakeCityRepo(ids ...int64) *fakeCityRepo {
	repo := &fakeCityRepo{cities: map[int64]string{}}
	for _, id := range ids {
		repo.cities[id] = "city"
	}
	return repo
}

func (r *fakeCityRepo) FindAll(_ context.Context) ([]*domain.City, error) {
	var cities []*domain.City
	for id, name := range r.cities {
		cities = append(cities, &domain.City{ID: id, Name: name})
	}
	return cities, nil
}

func (r *fakeCityRepo) FindByID(_ context.Context, id int64) (*domain.City, error) {
	name, ok := r.cities[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	return &domain.City{ID: id, Name: name}, nil
}

func (r *fakeCityRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.cities[id]
	return ok, nil
}

type favoriteKey struct{ userID, productID int64 }

type fakeFavoriteRepo struct {
	pairs map[favoriteKey]bool
	order []favoriteKey
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{pairs: map[favoriteKey]bool{}}
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, productID int64) (bool, error) {
	key := favoriteKey{userID, productID}
	if !r.pairs[key] {
		return false, nil
	}
	delete(r.pairs, key)
	return true, nil
}

func (r *fakeFavoriteRepo) Add(_ context.Context, userID, productID int64) error {
	key := favoriteKey{userID, productID}
	if r.pairs[key] {
		return nil
	}
	r.pairs[key] = true
	r.order = append(r.order, key)
	return nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, productID int64) (bool, error) {
	return r.pairs[favoriteKey{userID, productID}], nil
}

func (r *fakeFavoriteRepo) ProductIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		if key.userID == userID && r.pairs[key] {
			ids = append(ids, key.productID)
		}
	}
	return ids, nil
}

type fakeImageRepo struct {
	images map[int64]*domain.ProductImage
	nextID int64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[int64]*domain.ProductImage{}}
}

func (r *fakeImageRepo) Create(_ context.Context, image *domain.ProductImage) error {
	r.nextID++
	image.ID = r.nextID
	if image.Image == "" {
		image.Image = PlaceholderImage
	}
	clone := *image
	r.images[image.ID] = &clone
	return nil
}

func (r *fakeImageRepo) FindByIDAndProduct(_ context.Context, imageID, productID int64) (*domain.ProductImage, error) {
	image, ok := r.images[imageID]
	if !ok || image.ProductID != productID {
		return nil, domain.ErrImageNotFound
	}
	clone := *image
	return &clone, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, imageID int64) error {
	if _, ok := r.images[imageID]; !ok {
		return domain.ErrImageNotFound
	}
	delete(r.images, imageID)
	return nil
}

func (r *fakeImageRepo) ByProduct(_ context.Context, productID int64) ([]domain.ProductImage, error) {
	var result []domain.ProductImage
	for _, image := range r.images {
		if image.ProductID == productID {
			result = append(result, *image)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeStorage struct {
	fail bool
}

func (s *fakeStorage) Upload(_ context.Context, fileName string, _ []byte) (string, error) {
	if s.fail {
		return "", errors.New("storage down")
	}
	return "http://storage/" + fileName, nil
}

type fakeSubtree struct {
	descendants map[int64][]int64
}

func (s *fakeSubtree) Descendants(_ context.Context, id int64) ([]int64, error) {
	ids, ok := s.descendants[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return ids, nil
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func testLogger() *zap.Logger { return zap.NewNop() }
