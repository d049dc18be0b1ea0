package repositories

import (
	"time"

	"orders/internal/models"
)

// OrderRepository defines the interface for order data access. Writes that
// touch an order and its children (Create, ApplySettlement) are atomic as a
// unit: a partial write is a correctness violation the implementation must
// prevent.
type OrderRepository interface {
	// Create persists the order and its line items in one transaction.
	Create(order *models.Order) error
	// GetByID returns the order with its line items, or errs.NotFoundError.
	GetByID(id string) (*models.Order, error)
	// CountByStatus counts orders, optionally filtered by status.
	CountByStatus(status *models.OrderStatus) (int64, error)
	// GetPage returns one listing window, optionally filtered by status.
	GetPage(status *models.OrderStatus, offset, limit int) ([]models.Order, error)
	// UpdateStatus performs a single-field status update and returns the updated order.
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
	// ApplySettlement marks the order paid and creates its receipt in one
	// transaction. Applying the same settlement twice must not create a
	// second receipt.
	ApplySettlement(id, chargeID, receiptURL string, paidAt time.Time) (*models.Order, error)
	// Delete(id string) error // Orders are never deleted; intentionally not exposed.
}
