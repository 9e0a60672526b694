package models

import "time"

// Subscription хранит текущую подписку пользователя. На пользователя
// существует не более одной записи: повторная покупка перезаписывает
// план и срок, StartDate при этом не меняется.
type Subscription struct {
	UserUID    string
	PlanName   string
	OrderID    string    // идентификатор заказа платёжного шлюза
	PaymentID  string    // идентификатор платежа платёжного шлюза
	IsActive   bool
	StartDate  time.Time // выставляется один раз при первой покупке
	ExpiryDate time.Time // сдвигается вперёд при продлении
}

// IsExpired сообщает, истекла ли подписка на момент now.
func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.ExpiryDate)
}

// PendingOrder — ожидающая оплаты покупка. Создаётся при инициации заказа
// и удаляется при подтверждении платежа; связывает выбранный план с
// заказом шлюза вместо сессионного состояния.
type PendingOrder struct {
	OrderID     string
	UserUID     string
	PlanName    string
	AmountPaise int
	CreatedAt   time.Time
}

// OrderHandle — данные для платёжного виджета на стороне клиента.
type OrderHandle struct {
	OrderID      string `json:"order_id"`
	AmountPaise  int    `json:"amount"`
	Currency     string `json:"currency"`
	KeyID        string `json:"razorpay_key"`
	PlanName     string `json:"plan_name"`
	DisplayName  string `json:"plan_display_name"`
	DisplayPrice int    `json:"display_amount"`
}

// Receipt — итог успешной оплаты, отдаётся пользователю.
type Receipt struct {
	PaymentID       string    `json:"payment_id"`
	PlanLabel       string    `json:"plan"`
	AmountPaise     int       `json:"amount"`
	BillingLabel    string    `json:"billing_period"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}

// ReceiptEvent публикуется в очередь после подтверждения платежа,
// воркер квитанций отправляет по нему письмо.
type ReceiptEvent struct {
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PaymentID       string    `json:"payment_id"`
	PlanLabel       string    `json:"plan"`
	AmountPaise     int       `json:"amount"`
	BillingLabel    string    `json:"billing_period"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}
