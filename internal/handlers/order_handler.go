package handlers

import (
	"fmt"
	"log"

	"orders/internal/errs"
	"orders/internal/models"
	"orders/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. The status
// route carries its own auth guard; everything else is open.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, statusGuard fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", statusGuard, h.HandleChangeOrderStatus)
}

// HandleCreateOrder creates a new order and opens a payment session for it.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.CreateOrder(req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return serviceFailed(c, "Could not create order", err)
	}

	session, err := h.service.CreatePaymentSession(order)
	if err != nil {
		log.Printf("Error creating payment session for order %s: %v", order.ID, err)
		return serviceFailed(c, "Could not create payment session", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":           order,
		"payment_session": session,
	})
}

// HandleGetOrders lists orders with pagination and an optional status filter.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	query := models.OrdersQuery{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Possible status values are %v", models.OrderStatusList),
			})
		}
		query.Status = &status
	}

	if err := h.validate.Struct(query); err != nil {
		return validationFailed(c, err)
	}

	page, err := h.service.GetOrders(query)
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return serviceFailed(c, "Could not retrieve orders", err)
	}
	return c.JSON(page)
}

// HandleGetOrderByID retrieves a single order by its ID, with product names
// attached.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if _, err := uuid.Parse(orderID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order id must be a UUID",
		})
	}

	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return serviceFailed(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleChangeOrderStatus transitions the status of an existing order.
func (h *OrderHandler) HandleChangeOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if _, err := uuid.Parse(orderID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order id must be a UUID",
		})
	}

	var req models.ChangeOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Possible status values are %v", models.OrderStatusList),
		})
	}

	order, err := h.service.ChangeOrderStatus(orderID, req.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return serviceFailed(c, "Could not update order status", err)
	}
	return c.JSON(order)
}

// validationFailed renders validator errors as a field-by-field 400 response.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// serviceFailed maps a typed service error to its HTTP status.
func serviceFailed(c *fiber.Ctx, message string, err error) error {
	return c.Status(errs.StatusOf(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
