package domain

// CartLine is one product entry in the user's cart.
type CartLine struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   Money  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
	Subtotal    Money  `json:"subtotal"`
	CartItemID  ID     `json:"cartItemId"`
}

// OverStock reports the display-only state where the server lowered stock
// below what the line already holds.
func (l CartLine) OverStock() bool {
	return l.Stock < l.Quantity
}

// MaxQuantity is the upper bound new quantity input is clamped to.
func (l CartLine) MaxQuantity() int {
	if l.Stock < 1 {
		return 1
	}
	return l.Stock
}

// Cart is the server-authoritative cart projection. Items keep server order.
type Cart struct {
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    Money      `json:"totalPrice"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Line finds a line by product id.
func (c *Cart) Line(productID int64) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, l := range c.Items {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// ItemIDs returns the cart item ids in server order.
func (c *Cart) ItemIDs() []ID {
	if c == nil {
		return nil
	}
	ids := make([]ID, 0, len(c.Items))
	for _, l := range c.Items {
		ids = append(ids, l.CartItemID)
	}
	return ids
}

// CartSummary is what add/remove endpoints answer with. Callers ignore it and
// reload the cart.
type CartSummary struct {
	TotalQuantity int    `json:"totalQuantity"`
	TotalPrice    Money  `json:"totalPrice"`
	Message       string `json:"message,omitempty"`
}
