package gateways_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"orders/internal/errs"
	"orders/internal/gateways"
	"orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRequester answers every request with a canned reply or error, recording
// what was asked.
type stubRequester struct {
	reply      []byte
	err        error
	routingKey string
	body       []byte
}

func (s *stubRequester) Request(routingKey string, body []byte, timeout time.Duration) ([]byte, error) {
	s.routingKey = routingKey
	s.body = body
	return s.reply, s.err
}

func TestRabbitProductGateway_ValidateProducts(t *testing.T) {
	snapshots := []models.ProductSnapshot{
		{ID: 1, Name: "Laptop", Price: 10.0, Available: true},
		{ID: 2, Name: "Mouse", Price: 5.0, Available: true},
	}
	reply, _ := json.Marshal(snapshots)
	broker := &stubRequester{reply: reply}
	gateway := gateways.NewRabbitProductGateway(broker, time.Second)

	products, err := gateway.ValidateProducts([]int{1, 2})

	require.NoError(t, err)
	assert.Equal(t, snapshots, products)
	assert.Equal(t, "validate_products", broker.routingKey)
	assert.JSONEq(t, `[1,2]`, string(broker.body))
}

func TestRabbitProductGateway_StructuredErrorRelayedUnchanged(t *testing.T) {
	broker := &stubRequester{
		reply: []byte(`{"error":{"status":400,"message":"Some products were not found"}}`),
	}
	gateway := gateways.NewRabbitProductGateway(broker, time.Second)

	products, err := gateway.ValidateProducts([]int{1, 99})

	require.Error(t, err)
	assert.Nil(t, products)
	var remote *errs.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.Equal(t, "Some products were not found", remote.Message)
}

func TestRabbitProductGateway_TransportFailureBecomesUnknownError(t *testing.T) {
	broker := &stubRequester{err: errors.New("timed out waiting for reply")}
	gateway := gateways.NewRabbitProductGateway(broker, time.Second)

	products, err := gateway.ValidateProducts([]int{1})

	require.Error(t, err)
	assert.Nil(t, products)
	var remote *errs.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Unknown error", remote.Message)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
}

func TestRabbitProductGateway_MalformedReplyBecomesUnknownError(t *testing.T) {
	broker := &stubRequester{reply: []byte("not json")}
	gateway := gateways.NewRabbitProductGateway(broker, time.Second)

	products, err := gateway.ValidateProducts([]int{1})

	require.Error(t, err)
	assert.Nil(t, products)
	assert.ErrorIs(t, err, errs.ErrRemote)
}

func TestRabbitPaymentGateway_CreateSession(t *testing.T) {
	broker := &stubRequester{
		reply: []byte(`{"cancel_url":"https://pay.example/cancel","success_url":"https://pay.example/success","url":"https://pay.example/s/abc"}`),
	}
	gateway := gateways.NewRabbitPaymentGateway(broker, time.Second)

	session, err := gateway.CreateSession(models.PaymentSessionRequest{
		OrderID:  "o-1",
		Currency: "usd",
		Items:    []models.PaymentSessionItem{{Name: "Laptop", Price: 10.0, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/abc", session.URL)
	assert.Equal(t, "create.payment.session", broker.routingKey)

	var sent models.PaymentSessionRequest
	require.NoError(t, json.Unmarshal(broker.body, &sent))
	assert.Equal(t, "o-1", sent.OrderID)
	assert.Equal(t, "usd", sent.Currency)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, models.PaymentSessionItem{Name: "Laptop", Price: 10.0, Quantity: 2}, sent.Items[0])
}

func TestRabbitPaymentGateway_StructuredErrorRelayedUnchanged(t *testing.T) {
	broker := &stubRequester{
		reply: []byte(`{"error":{"status":402,"message":"Card declined"}}`),
	}
	gateway := gateways.NewRabbitPaymentGateway(broker, time.Second)

	session, err := gateway.CreateSession(models.PaymentSessionRequest{OrderID: "o-1", Currency: "usd"})

	require.Error(t, err)
	assert.Nil(t, session)
	var remote *errs.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusPaymentRequired, remote.Status)
	assert.Equal(t, "Card declined", remote.Message)
}
