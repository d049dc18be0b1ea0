package models

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatusList holds every accepted status value, used in validation messages.
var OrderStatusList = []OrderStatus{StatusPending, StatusPaid, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatusList {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem represents a single line within an order. The price is captured
// at order-creation time; later catalog price changes never affect it.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID int     `json:"product_id" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`
}

// OrderReceipt is created at most once per order, at successful payment.
type OrderReceipt struct {
	OrderID    string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	ReceiptURL string    `json:"receipt_url" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// Order represents a persisted purchase order. TotalAmount and TotalItems are
// fixed at creation from the line items and are not recomputed on later reads.
type Order struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TotalAmount float64       `json:"total_amount" gorm:"not null"`
	TotalItems  int           `json:"total_items" gorm:"not null"`
	Status      OrderStatus   `json:"status" gorm:"type:varchar(16);index;default:PENDING"`
	Paid        bool          `json:"paid" gorm:"default:false"`
	PaidAt      *time.Time    `json:"paid_at"`
	ChargeID    *string       `json:"charge_id"`
	Items       []OrderItem   `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Receipt     *OrderReceipt `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
