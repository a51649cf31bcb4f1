package orders

import "github.com/fjod/go_cart/storefront/internal/domain"

// Badge is the visual class of an order status.
type Badge string

const (
	BadgeWarning Badge = "warning"
	BadgeInfo    Badge = "info"
	BadgePrimary Badge = "primary"
	BadgeSuccess Badge = "success"
	BadgeDark    Badge = "dark"
	BadgeGray    Badge = "gray"
)

// StatusBadge classifies a status case-insensitively; unknown statuses are gray.
func StatusBadge(s domain.OrderStatus) Badge {
	switch s.Normalized() {
	case domain.OrderStatusPending:
		return BadgeWarning
	case domain.OrderStatusPaid:
		return BadgeInfo
	case domain.OrderStatusShipped:
		return BadgePrimary
	case domain.OrderStatusDelivered:
		return BadgeSuccess
	case domain.OrderStatusCancelled:
		return BadgeDark
	}
	return BadgeGray
}
