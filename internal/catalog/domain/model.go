package domain

import "time"

type ProductStatus string

const (
	StatusActive     ProductStatus = "AC"
	StatusArchived   ProductStatus = "AR"
	StatusOnModerate ProductStatus = "MD"
	StatusCanceled   ProductStatus = "CN"
)

// ValidStatus reports whether s is one of the known lifecycle codes.
func ValidStatus(s ProductStatus) bool {
	switch s {
	case StatusActive, StatusArchived, StatusOnModerate, StatusCanceled:
		return true
	}
	return false
}

type PriceSuffix string

const (
	SuffixNone    PriceSuffix = "N"
	SuffixService PriceSuffix = "S"
	SuffixHour    PriceSuffix = "H"
	SuffixUnit    PriceSuffix = "U"
	SuffixDay     PriceSuffix = "D"
	SuffixMonth   PriceSuffix = "MT"
	SuffixM2      PriceSuffix = "M2"
	SuffixM       PriceSuffix = "M"
)

// priceSuffixLabels are the display labels the mobile client renders next to
// the price. They are stored as short codes and expanded at serialization time.
var priceSuffixLabels = map[PriceSuffix]string{
	SuffixNone:    "руб",
	SuffixService: "за услугу",
	SuffixHour:    "за час",
	SuffixUnit:    "за единицу",
	SuffixDay:     "за день",
	SuffixMonth:   "за месяц",
	SuffixM2:      "за м2",
	SuffixM:       "за м",
}

// Display returns the human-readable label for the suffix code. Unknown codes
// fall back to the code itself.
func (s PriceSuffix) Display() string {
	if label, ok := priceSuffixLabels[s]; ok {
		return label
	}
	return string(s)
}

func ValidPriceSuffix(s PriceSuffix) bool {
	_, ok := priceSuffixLabels[s]
	return ok
}

type City struct {
	ID   int64
	Name string
}

type Category struct {
	ID       int64
	Name     string
	ParentID *int64
}

type CategoryImage struct {
	ID          int64
	CategoryID  int64
	Image       string
	Description string
}

type Product struct {
	ID           int64
	Name         string
	Description  string
	Price        int64
	PriceSuffix  PriceSuffix
	IsLowerBound bool
	Status       ProductStatus
	AuthorID     int64
	CategoryID   int64
	CityID       *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy is the single ownership rule every mutating product operation
// checks against.
func (p *Product) OwnedBy(userID int64) bool {
	return p.AuthorID == userID
}

type ProductFeature struct {
	ID        int64
	ProductID int64
	Name      string
	Value     string
}

type ProductImage struct {
	ID          int64
	ProductID   int64
	Image       string
	Description string
}

type Favorite struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time
}

// Filter describes the conjunctive search constraints. Zero values mean the
// constraint is absent. MinPrice/MaxPrice are applied only when HasPriceRange
// is set, both bounds inclusive.
type Filter struct {
	Name          string
	CityID        int64
	CategoryIDs   []int64
	HasPriceRange bool
	MinPrice      int64
	MaxPrice      int64
}

// PriceRange is the aggregate over a filtered product set, used by the client
// as slider bounds for the next query. Min and Max are nil when the set is
// empty.
type PriceRange struct {
	Min *int64
	Max *int64
}

// ListQuery describes the public/own listing modes of the product list
// endpoint.
type ListQuery struct {
	Own     bool
	OwnerID int64
	CityID  int64
	Status  ProductStatus
	Limit   int
}
