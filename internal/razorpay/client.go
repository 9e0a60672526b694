// Package razorpay реализует клиент Razorpay: создание заказов через
// Orders API и локальную проверку подписи платёжного колбэка.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrSignatureMismatch возвращается, когда подпись колбэка не совпала
// с ожидаемой. Любая другая ошибка клиента — проблема связи со шлюзом.
var ErrSignatureMismatch = errors.New("razorpay: signature mismatch")

// Client — клиент API Razorpay.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Razorpay.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     "https://api.razorpay.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyID возвращает публичный идентификатор ключа для платёжного виджета.
// Секрет наружу не отдается.
func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder отправляет запрос на создание заказа и возвращает его данные.
func (c *Client) CreateOrder(ctx context.Context, reqParams CreateOrderRequest) (*Order, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/orders", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature проверяет подпись платёжного колбэка.
// Razorpay подписывает строку "<order_id>|<payment_id>" алгоритмом
// HMAC-SHA256 с секретным ключом; подпись передаётся в hex.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
