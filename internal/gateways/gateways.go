// Package gateways defines the remote collaborator contracts of the order
// service and their RabbitMQ implementations. Remote calls are blocking
// request/reply with no internal retry: a failure surfaces immediately.
package gateways

import (
	"encoding/json"
	"time"

	"orders/internal/errs"
	"orders/internal/models"
)

// ProductGateway is the external service of record for product existence,
// pricing, and availability. ValidateProducts returns a snapshot for every
// requested id or fails; it never partially succeeds.
type ProductGateway interface {
	ValidateProducts(ids []int) ([]models.ProductSnapshot, error)
}

// PaymentGateway opens payment sessions with the external payment provider.
type PaymentGateway interface {
	CreateSession(req models.PaymentSessionRequest) (*models.PaymentSession, error)
}

// Requester is the request/reply transport the RabbitMQ gateways run on.
// *rabbitmq.Client satisfies it.
type Requester interface {
	Request(routingKey string, body []byte, timeout time.Duration) ([]byte, error)
}

// errorEnvelope is the structured error shape remote services reply with.
type errorEnvelope struct {
	Error *struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeReply unmarshals a remote reply into out, relaying a structured error
// payload unchanged and wrapping anything undecodable as an unknown failure.
func decodeReply(reply []byte, out any) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(reply, &envelope); err == nil && envelope.Error != nil {
		return errs.NewRemoteError(envelope.Error.Status, envelope.Error.Message)
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return errs.NewUnknownRemoteError(err)
	}
	return nil
}
