package repositories

import (
	"sort"
	"sync"
	"time"

	"orders/internal/errs"
	"orders/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It also counts write operations so tests can assert that idempotent
// short-circuits perform no writes.
type MockOrderRepository struct {
	orders map[string]models.Order
	writes int
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// WriteCount returns how many mutating operations have been applied.
func (r *MockOrderRepository) WriteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}

// Create stores a new order with its line items.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	r.writes++
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errs.NewNotFoundError("Order", id)
	}
	return &order, nil
}

// CountByStatus counts stored orders, optionally filtered by status.
func (r *MockOrderRepository) CountByStatus(status *models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, order := range r.orders {
		if status == nil || order.Status == *status {
			total++
		}
	}
	return total, nil
}

// GetPage returns one listing window ordered by creation time.
func (r *MockOrderRepository) GetPage(status *models.OrderStatus, offset, limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status == nil || order.Status == *status {
			matching = append(matching, order)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].CreatedAt.Before(matching[j].CreatedAt)
	})

	if offset >= len(matching) {
		return []models.Order{}, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[offset:end], nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errs.NewNotFoundError("Order", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	r.writes++
	return &order, nil
}

// ApplySettlement marks an order paid and attaches its receipt. Re-applying
// the same settlement leaves the stored state unchanged.
func (r *MockOrderRepository) ApplySettlement(id, chargeID, receiptURL string, paidAt time.Time) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errs.NewNotFoundError("Order", id)
	}
	order.Paid = true
	order.Status = models.StatusPaid
	order.PaidAt = &paidAt
	order.ChargeID = &chargeID
	if order.Receipt == nil {
		order.Receipt = &models.OrderReceipt{OrderID: id, ReceiptURL: receiptURL, CreatedAt: time.Now()}
	}
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	r.writes++
	return &order, nil
}
