package cart

import (
	"errors"
	"fmt"
)

// ErrRejected marks quantity edits refused locally; the gateway is never
// called for them.
var ErrRejected = errors.New("quantity change rejected")

var (
	ErrZeroDelta      = fmt.Errorf("%w: zero delta", ErrRejected)
	ErrNoProduct      = fmt.Errorf("%w: line has no product id", ErrRejected)
	ErrExceedsStock   = fmt.Errorf("%w: quantity would exceed stock", ErrRejected)
	ErrLineBusy       = fmt.Errorf("%w: line is busy", ErrRejected)
	ErrEmptySelection = errors.New("no cart items selected")
)

const (
	msgLoadFailed   = "Failed to load cart. Please try again."
	msgUpdateFailed = "Failed to update quantity."
)
