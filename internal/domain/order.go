package domain

import "strings"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Known reports whether the status is one of the documented values,
// compared case-insensitively.
func (s OrderStatus) Known() bool {
	switch s.Normalized() {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Normalized() OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

func (s OrderStatus) String() string {
	if s == "" {
		return "UNKNOWN"
	}
	return string(s)
}

// OrderLine is a snapshot of a cart line at checkout time.
type OrderLine struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   Money  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"imageUrl"`
	Subtotal    Money  `json:"subtotal"`
	CartItemID  ID     `json:"cartItemId,omitempty"`
}

type Order struct {
	OrderID        ID          `json:"orderId"`
	OrderNumber    string      `json:"orderNumber"`
	Status         OrderStatus `json:"status"`
	Items          []OrderLine `json:"items"`
	TotalQuantity  int         `json:"totalQuantity"`
	TotalPrice     Money       `json:"totalPrice"`
	RecipientName  string      `json:"recipientName"`
	RecipientPhone string      `json:"recipientPhone"`
	ShippingAddr   string      `json:"shippingAddr"`
	PaymentMethod  string      `json:"paymentMethod"`
	Notes          string      `json:"notes"`
	CreatedAt      string      `json:"createdAt"`
	UpdatedAt      string      `json:"updatedAt"`
}

// PayResult is the answer of the pay endpoint.
type PayResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
