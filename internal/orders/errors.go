package orders

import "errors"

var ErrNoOrderID = errors.New("order id is required")

const (
	msgListFailed   = "Failed to load orders. Please try again."
	msgDetailFailed = "Failed to load order. Please try again."
)
