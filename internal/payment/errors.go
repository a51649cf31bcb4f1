package payment

import "errors"

var (
	ErrPayNotPermitted = errors.New("order is not awaiting payment")
	ErrPaying          = errors.New("payment already in flight")
	ErrNoOrderID       = errors.New("order id is required")
)

const (
	msgLoadFailed = "Failed to load order. Please try again."
	msgPayFailed  = "Payment failed. Please try again."
)
