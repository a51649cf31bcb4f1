package checkout

import "errors"

// Validation failures, in the order they are checked.
var (
	ErrCartLoading     = errors.New("cart is still loading")
	ErrNoSelection     = errors.New("no cart items selected")
	ErrNameRequired    = errors.New("recipient name is required")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrPhoneInvalid    = errors.New("invalid phone number")
	ErrAddressRequired = errors.New("address is required")
)

var (
	ErrSubmitting           = errors.New("checkout already in flight")
	ErrAlreadySubmitted     = errors.New("selection already checked out")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

var messages = map[error]string{
	ErrCartLoading:     "Loading cart...",
	ErrNoSelection:     "No cart items selected.",
	ErrNameRequired:    "Recipient Name is required.",
	ErrPhoneRequired:   "Phone is required.",
	ErrPhoneInvalid:    "Invalid phone number.",
	ErrAddressRequired: "Address is required.",
}

// Message is the text shown for a validation error.
func Message(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

const (
	msgLoadCart       = "Failed to load cart. Please try again."
	msgCheckoutFailed = "Failed to checkout. Please try again."
	msgNotAccepted    = "Something went wrong"
	msgSubmitted      = "Order submitted successfully ✓"
)
