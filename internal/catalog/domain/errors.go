package domain

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCityNotFound     = errors.New("city not found")
	ErrImageNotFound    = errors.New("product image not found")
	ErrCategoryCycle    = errors.New("category parent chain would form a cycle")
	ErrInvalidProduct   = errors.New("invalid product data")
)
