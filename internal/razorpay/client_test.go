package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 159900, req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.True(t, req.PaymentCapture)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_N8Xp2QzLr1",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("rzp_test_key", "rzp_test_secret")
	client.apiURL = srv.URL

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:         159900,
		Currency:       "INR",
		Receipt:        "receipt_standard_user1",
		PaymentCapture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_N8Xp2QzLr1", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrder_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("rzp_test_key", "rzp_test_secret")
	client.apiURL = srv.URL

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 59900, Currency: "INR"})
	require.Error(t, err)
	assert.Nil(t, order)
}

func signFor(t *testing.T, secret, orderID, paymentID string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("rzp_test_key", "rzp_test_secret")

	t.Run("valid signature", func(t *testing.T) {
		sig := signFor(t, "rzp_test_secret", "order_N8Xp2QzLr1", "pay_MkV7q1aab2")
		assert.NoError(t, client.VerifySignature("order_N8Xp2QzLr1", "pay_MkV7q1aab2", sig))
	})

	t.Run("forged signature", func(t *testing.T) {
		err := client.VerifySignature("order_N8Xp2QzLr1", "pay_MkV7q1aab2", "deadbeef")
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("signature for another order", func(t *testing.T) {
		sig := signFor(t, "rzp_test_secret", "order_other", "pay_MkV7q1aab2")
		err := client.VerifySignature("order_N8Xp2QzLr1", "pay_MkV7q1aab2", sig)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("wrong secret", func(t *testing.T) {
		sig := signFor(t, "another_secret", "order_N8Xp2QzLr1", "pay_MkV7q1aab2")
		err := client.VerifySignature("order_N8Xp2QzLr1", "pay_MkV7q1aab2", sig)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})
}
