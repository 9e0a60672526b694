package razorpay

// CreateOrderRequest — запрос на создание заказа в Orders API.
type CreateOrderRequest struct {
	Amount         int    `json:"amount"` // сумма в пайсах
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture bool   `json:"payment_capture"`
}

// Order — ответ Orders API.
type Order struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}
