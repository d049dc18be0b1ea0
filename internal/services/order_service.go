package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"orders/internal/gateways"
	"orders/internal/models"
	"orders/internal/repositories"
)

// SessionCurrency is the currency every payment session is opened in.
const SessionCurrency = "usd"

// OrderService orchestrates the order lifecycle: creation against the product
// catalog, listing, enrichment reads, status transitions, and payment
// settlement. It holds its collaborators by injection and performs no local
// recovery: every collaborator failure is forwarded to the caller typed.
type OrderService struct {
	orderRepo repositories.OrderRepository
	products  gateways.ProductGateway
	payments  gateways.PaymentGateway
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, products gateways.ProductGateway, payments gateways.PaymentGateway) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		products:  products,
		payments:  payments,
	}
}

// CreateOrder validates the requested products against the catalog, prices
// each line with the current catalog price, and persists the order with its
// line items in one atomic write. No order is created if any requested
// product is unknown or unavailable.
func (s *OrderService) CreateOrder(req models.CreateOrderRequest) (*models.OrderDetail, error) {
	ids := distinctProductIDs(req.Items)

	products, err := s.products.ValidateProducts(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.ProductSnapshot, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	var totalAmount float64
	var totalItems int
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			// The gateway guarantees full coverage on success; a gap here is
			// a contract violation, not a user error.
			return nil, fmt.Errorf("product %d missing from validated snapshots", line.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		totalAmount += product.Price * float64(line.Quantity)
		totalItems += line.Quantity
	}

	order := &models.Order{
		TotalAmount: totalAmount,
		TotalItems:  totalItems,
		Status:      models.StatusPending,
		Items:       items,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	log.Printf("Order %s created: %d items, total %.2f", order.ID, order.TotalItems, order.TotalAmount)
	return buildDetail(order, byID), nil
}

// GetOrders returns one page of orders under an optional status filter,
// together with pagination metadata.
func (s *OrderService) GetOrders(query models.OrdersQuery) (*models.PagedOrders, error) {
	total, err := s.orderRepo.CountByStatus(query.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders, err := s.orderRepo.GetPage(query.Status, (query.Page-1)*query.Limit, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &models.PagedOrders{
		Data: orders,
		Meta: models.PageMeta{
			Page:  query.Page,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	}, nil
}

// GetOrderByID loads an order and re-resolves its product names against the
// catalog. Names are never stored on the order, so every read that needs them
// pays the catalog round-trip; this also re-validates that the referenced
// products still exist.
func (s *OrderService) GetOrderByID(id string) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(order.Items))
	seen := make(map[int]bool, len(order.Items))
	for _, item := range order.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.ValidateProducts(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.ProductSnapshot, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return buildDetail(order, byID), nil
}

// ChangeOrderStatus transitions an order to status. When the order already
// has the requested status it is returned unchanged and no write is
// performed.
func (s *OrderService) ChangeOrderStatus(id string, status models.OrderStatus) (*models.OrderDetail, error) {
	detail, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	if detail.Status == status {
		return detail, nil
	}

	updated, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	detail.Order = *updated
	return detail, nil
}

// CreatePaymentSession opens a payment session for an already-enriched order.
// It persists nothing; the resulting session reference is recorded later by
// the settlement callback.
func (s *OrderService) CreatePaymentSession(order *models.OrderDetail) (*models.PaymentSession, error) {
	items := make([]models.PaymentSessionItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.PaymentSessionItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	return s.payments.CreateSession(models.PaymentSessionRequest{
		OrderID:  order.ID,
		Currency: SessionCurrency,
		Items:    items,
	})
}

// PaymentSucceeded applies a payment-provider settlement: the order becomes
// paid with its charge reference and receipt in one atomic write. The
// provider may redeliver the callback; re-applying the same settlement is
// harmless.
func (s *OrderService) PaymentSucceeded(settlement models.PaymentSettlement) (*models.Order, error) {
	order, err := s.orderRepo.ApplySettlement(
		settlement.OrderID,
		settlement.ProviderPaymentID,
		settlement.ReceiptURL,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s settled, charge %s", order.ID, settlement.ProviderPaymentID)
	return order, nil
}

// distinctProductIDs extracts the set of product ids referenced by the
// requested lines, preserving first-seen order.
func distinctProductIDs(items []models.CreateOrderItem) []int {
	ids := make([]int, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// buildDetail assembles the outward order shape: persisted fields plus lines
// carrying the display name resolved from the catalog snapshots.
func buildDetail(order *models.Order, byID map[int]models.ProductSnapshot) *models.OrderDetail {
	items := make([]models.OrderDetailItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderDetailItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      byID[item.ProductID].Name,
		})
	}
	return &models.OrderDetail{Order: *order, Items: items}
}
