package domain

type PaymentMethod string

const (
	PaymentOnline         PaymentMethod = "Online"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentWeChatPay      PaymentMethod = "WeChat Pay"
	PaymentAlipay         PaymentMethod = "Alipay"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentOnline, PaymentCashOnDelivery, PaymentWeChatPay, PaymentAlipay}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

type CheckoutForm struct {
	RecipientName  string
	RecipientPhone string
	ShippingAddr   string
	PaymentMethod  PaymentMethod
	Notes          string
}

type CheckoutRequest struct {
	CartItemIDs    []ID          `json:"cartItemIds"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	RecipientName  string        `json:"recipientName"`
	RecipientPhone string        `json:"recipientPhone"`
	ShippingAddr   string        `json:"shippingAddr"`
	Notes          string        `json:"notes"`
}

type CheckoutResult struct {
	Success bool   `json:"success"`
	OrderID ID     `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}
