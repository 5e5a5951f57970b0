package handler

import (
	"context"

	"github.com/bazaar-team/bazaar-backend/internal/account/entity"
	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

type ImageJSON struct {
	ID  int64  `json:"id"`
	Img string `json:"img"`
}

type FeatureJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type AuthorJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ProductJSON is the wire shape of a product. MinPrice/MaxPrice carry the
// aggregate range of the surrounding result set, not per-item values; they
// feed the client's price slider.
type ProductJSON struct {
	ID           int64         `json:"id"`
	Images       []ImageJSON   `json:"images"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Price        int64         `json:"price"`
	PriceSuffix  string        `json:"price_suffix"`
	IsLowerBound bool          `json:"is_lower_bound"`
	Status       string        `json:"status"`
	Category     int64         `json:"category"`
	CityID       *int64        `json:"city_id"`
	CityName     *string       `json:"city_name"`
	MinPrice     int64         `json:"min_price"`
	MaxPrice     int64         `json:"max_price"`
	Features     []FeatureJSON `json:"features"`
	IsFavorite   bool          `json:"is_favorite"`
	Author       AuthorJSON    `json:"author"`
}

// UserAccount is the account usecase surface the serializer needs.
type UserAccount interface {
	GetProfile(ctx context.Context, userID int64) (*entity.User, error)
}

// ProductSerializer assembles the nested product representation: images,
// features, city, author and the viewer-relative favorite flag.
type ProductSerializer struct {
	products  *cataloguc.ProductUsecase
	images    *cataloguc.ImageUsecase
	favorites *cataloguc.FavoriteUsecase
	cities    domain.CityRepository
	users     UserAccount
}

func NewProductSerializer(
	products *cataloguc.ProductUsecase,
	images *cataloguc.ImageUsecase,
	favorites *cataloguc.FavoriteUsecase,
	cities domain.CityRepository,
	users UserAccount,
) *ProductSerializer {
	return &ProductSerializer{
		products:  products,
		images:    images,
		favorites: favorites,
		cities:    cities,
		users:     users,
	}
}

// Render builds the wire shape of one product. viewerID 0 means anonymous.
// priceRange nil means "no aggregate context": both hint fields fall back to
// the product's own price.
func (s *ProductSerializer) Render(ctx context.Context, p *domain.Product, viewerID int64, priceRange *domain.PriceRange) (*ProductJSON, error) {
	out := &ProductJSON{
		ID:           p.ID,
		Images:       []ImageJSON{},
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		PriceSuffix:  p.PriceSuffix.Display(),
		IsLowerBound: p.IsLowerBound,
		Status:       string(p.Status),
		Category:     p.CategoryID,
		CityID:       p.CityID,
		Features:     []FeatureJSON{},
		MinPrice:     p.Price,
		MaxPrice:     p.Price,
	}
	if priceRange != nil {
		if priceRange.Min != nil {
			out.MinPrice = *priceRange.Min
		}
		if priceRange.Max != nil {
			out.MaxPrice = *priceRange.Max
		}
	}

	images, err := s.images.ImagesByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		out.Images = append(out.Images, ImageJSON{ID: img.ID, Img: img.Image})
	}

	features, err := s.products.Features(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		out.Features = append(out.Features, FeatureJSON{Name: f.Name, Value: f.Value})
	}

	if p.CityID != nil {
		city, err := s.cities.FindByID(ctx, *p.CityID)
		if err == nil {
			out.CityName = &city.Name
		}
	}

	author, err := s.users.GetProfile(ctx, p.AuthorID)
	if err == nil {
		out.Author = AuthorJSON{ID: author.ID, Username: author.Username, Email: author.Email, Phone: author.Phone}
	}

	if viewerID != 0 {
		favorite, err := s.favorites.IsFavorite(ctx, viewerID, p.ID)
		if err == nil {
			out.IsFavorite = favorite
		}
	}
	return out, nil
}

// RenderMany renders a result set sharing one aggregate price range.
func (s *ProductSerializer) RenderMany(ctx context.Context, products []*domain.Product, viewerID int64, priceRange *domain.PriceRange) ([]*ProductJSON, error) {
	out := make([]*ProductJSON, 0, len(products))
	for _, p := range products {
		rendered, err := s.Render(ctx, p, viewerID, priceRange)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}
