package gateways

import (
	"encoding/json"
	"time"

	"orders/internal/errs"
	"orders/internal/models"
)

// CreatePaymentSessionKey is the routing key the payment service answers on.
const CreatePaymentSessionKey = "create.payment.session"

// RabbitPaymentGateway calls the payment service over RabbitMQ RPC.
type RabbitPaymentGateway struct {
	broker  Requester
	timeout time.Duration
}

// NewRabbitPaymentGateway creates a payment gateway on the given transport.
func NewRabbitPaymentGateway(broker Requester, timeout time.Duration) *RabbitPaymentGateway {
	return &RabbitPaymentGateway{
		broker:  broker,
		timeout: timeout,
	}
}

// CreateSession opens a payment session for an order and returns the
// provider's session descriptor verbatim.
func (g *RabbitPaymentGateway) CreateSession(req models.PaymentSessionRequest) (*models.PaymentSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.NewUnknownRemoteError(err)
	}

	reply, err := g.broker.Request(CreatePaymentSessionKey, body, g.timeout)
	if err != nil {
		return nil, errs.NewUnknownRemoteError(err)
	}

	var session models.PaymentSession
	if err := decodeReply(reply, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
