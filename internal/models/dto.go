package models

// CreateOrderItem is one requested line of a new order.
type CreateOrderItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the inbound payload for order creation.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrdersQuery carries the pagination window and optional status filter for listing.
type OrdersQuery struct {
	Page   int          `json:"page" validate:"gte=1"`
	Limit  int          `json:"limit" validate:"gte=1"`
	Status *OrderStatus `json:"status,omitempty"`
}

// ChangeOrderStatusRequest is the inbound payload for a status transition.
type ChangeOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// PaymentSettlement is the payload delivered by the payment provider when a
// payment for an order has succeeded. Delivery may be retried by the provider.
type PaymentSettlement struct {
	ProviderPaymentID string `json:"provider_payment_id" validate:"required"`
	OrderID           string `json:"order_id" validate:"required,uuid"`
	ReceiptURL        string `json:"receipt_url" validate:"required,url"`
}

// OrderDetailItem is a presentation line: the persisted triple plus the
// product name resolved from the catalog at read time.
type OrderDetailItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}

// OrderDetail is the outward order shape: the persisted fields plus enriched
// items. It is built field-by-field and never exposes the raw relation.
type OrderDetail struct {
	Order
	Items []OrderDetailItem `json:"items"`
}

// PageMeta describes the pagination window of a listing result.
type PageMeta struct {
	Page  int   `json:"page"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// PagedOrders is the listing result shape.
type PagedOrders struct {
	Data []Order  `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PaymentSessionItem is one priced line sent to the payment provider.
type PaymentSessionItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PaymentSessionRequest is the payload for opening a payment session.
type PaymentSessionRequest struct {
	OrderID  string               `json:"order_id"`
	Currency string               `json:"currency"`
	Items    []PaymentSessionItem `json:"items"`
}

// PaymentSession is the session descriptor returned by the payment provider,
// passed through to the caller verbatim.
type PaymentSession struct {
	CancelURL  string `json:"cancel_url"`
	SuccessURL string `json:"success_url"`
	URL        string `json:"url"`
}
