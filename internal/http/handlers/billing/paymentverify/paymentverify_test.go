package paymentverify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/services/billing"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) VerifyAndCommit(ctx context.Context, userUID, orderID, paymentID, signature string) (*models.Receipt, error) {
	args := m.Called(ctx, userUID, orderID, paymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentVerifyHandler_ServeHTTP(t *testing.T) {
	const userUID = "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de"

	validRequest := Request{
		OrderID:   "order_9A33XWu170gUtm",
		PaymentID: "pay_29QQoUBi66xm2f",
		Signature: "9ef4dffbfd84f1318f6739a3ce19f9d85851857ae648f114332d8401e0949a3d",
	}

	tests := []struct {
		name           string
		requestBody    any
		userUID        string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - subscription activated",
			requestBody:    validRequest,
			userUID:        userUID,
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_id":"pay_29QQoUBi66xm2f"`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			userUID:        userUID,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "missing signature",
			requestBody:    Request{OrderID: "order_9A33XWu170gUtm", PaymentID: "pay_29QQoUBi66xm2f"},
			userUID:        userUID,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field Signature is a required field"`,
		},
		{
			name:           "unauthorized",
			requestBody:    validRequest,
			userUID:        "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "signature mismatch",
			requestBody:    validRequest,
			userUID:        userUID,
			serviceErr:     billing.ErrSignatureMismatch,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"payment verification failed"`,
		},
		{
			name:           "stale order fails closed",
			requestBody:    validRequest,
			userUID:        userUID,
			serviceErr:     billing.ErrStaleOrder,
			expectedStatus: http.StatusConflict,
			expectedBody:   `"order not found, please restart the payment"`,
		},
		{
			name:           "foreign order",
			requestBody:    validRequest,
			userUID:        userUID,
			serviceErr:     billing.ErrOrderNotOwned,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"order does not belong to this user"`,
		},
		{
			name:           "gateway unavailable",
			requestBody:    validRequest,
			userUID:        userUID,
			serviceErr:     billing.ErrGatewayUnavailable,
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"payment gateway unavailable, try again later"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if tt.expectedStatus == http.StatusOK {
				service.On("VerifyAndCommit", mock.Anything, userUID,
					validRequest.OrderID, validRequest.PaymentID, validRequest.Signature).
					Return(&models.Receipt{
						PaymentID:       "pay_29QQoUBi66xm2f",
						PlanLabel:       "Standard",
						AmountPaise:     159900,
						BillingLabel:    "Monthly",
						NextPaymentDate: time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC),
					}, nil).Once()
			} else if tt.serviceErr != nil {
				service.On("VerifyAndCommit", mock.Anything, userUID,
					validRequest.OrderID, validRequest.PaymentID, validRequest.Signature).
					Return(nil, tt.serviceErr).Once()
			}
			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/verify", &body)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
