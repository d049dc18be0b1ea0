package repositories

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/errs"
	"orders/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order together with its line items. GORM saves the
// association rows inside the same transaction as the order row, so either
// everything lands or nothing does.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its line items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Order", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// CountByStatus counts orders, restricted to status when it is non-nil.
func (r *GORMOrderRepository) CountByStatus(status *models.OrderStatus) (int64, error) {
	var total int64
	query := r.db.Model(&models.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// GetPage retrieves one listing window ordered by creation time.
func (r *GORMOrderRepository) GetPage(status *models.OrderStatus, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Order("created_at")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders page: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets only the status column and returns the updated order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFoundError("Order", id)
	}
	return r.GetByID(id)
}

// ApplySettlement marks the order paid and creates its receipt inside one
// transaction. The field update is absolute and the receipt is created only
// if absent, so a redelivered settlement callback lands on the same state.
func (r *GORMOrderRepository) ApplySettlement(id, chargeID, receiptURL string, paidAt time.Time) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
			"paid":      true,
			"status":    models.StatusPaid,
			"paid_at":   paidAt,
			"charge_id": chargeID,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to apply settlement for order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFoundError("Order", id)
		}

		receipt := models.OrderReceipt{OrderID: id, ReceiptURL: receiptURL}
		if err := tx.Where(models.OrderReceipt{OrderID: id}).FirstOrCreate(&receipt).Error; err != nil {
			return fmt.Errorf("failed to create receipt for order %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}
