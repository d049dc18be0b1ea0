package gateways

import (
	"encoding/json"
	"time"

	"orders/internal/errs"
	"orders/internal/models"
)

// ValidateProductsKey is the routing key the product service answers on.
const ValidateProductsKey = "validate_products"

// RabbitProductGateway calls the product service over RabbitMQ RPC.
type RabbitProductGateway struct {
	broker  Requester
	timeout time.Duration
}

// NewRabbitProductGateway creates a product gateway on the given transport.
func NewRabbitProductGateway(broker Requester, timeout time.Duration) *RabbitProductGateway {
	return &RabbitProductGateway{
		broker:  broker,
		timeout: timeout,
	}
}

// ValidateProducts asks the product service for the snapshots matching ids.
// The remote side fails the whole call if any id is unknown or unavailable;
// that structured failure is relayed unchanged.
func (g *RabbitProductGateway) ValidateProducts(ids []int) ([]models.ProductSnapshot, error) {
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, errs.NewUnknownRemoteError(err)
	}

	reply, err := g.broker.Request(ValidateProductsKey, body, g.timeout)
	if err != nil {
		return nil, errs.NewUnknownRemoteError(err)
	}

	var products []models.ProductSnapshot
	if err := decodeReply(reply, &products); err != nil {
		return nil, err
	}
	return products, nil
}
