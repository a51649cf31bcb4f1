package mockapi

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrUserExists        = errors.New("username already exists")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrMissingFields     = errors.New("username, password, email and full name are required")
)
