package catalog

import "errors"

var (
	ErrLoginRequired  = errors.New("login required")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrAdding         = errors.New("product is already being added")
	ErrInvalidProduct = errors.New("invalid product id")
	ErrNotLoaded      = errors.New("product not loaded")
	ErrOutOfStock     = errors.New("product is out of stock")
)

const (
	msgListFailed   = "Failed to load products. Please try again later."
	msgDetailFailed = "Failed to load product. Please try again."
	msgLoginToAdd   = "Please login to add items"
	msgAdded        = "Added to cart ✓"
	msgAddRetry     = "Failed to add, please retry."
	msgDetailAdd    = "Failed to add to cart. Please try again."
)
