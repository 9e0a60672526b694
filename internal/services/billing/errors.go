package billing

import "errors"

// Ошибки платёжного контура. Обработчики переводят их в HTTP-статусы;
// ни одна из них не сопровождается изменением состояния.
var (
	// ErrGatewayUnavailable — сбой связи с платёжным шлюзом при создании
	// заказа или подтверждении платежа. Повторяемая ошибка.
	ErrGatewayUnavailable = errors.New("billing: payment gateway unavailable")

	// ErrSignatureMismatch — колбэк не прошёл проверку подлинности.
	ErrSignatureMismatch = errors.New("billing: payment signature mismatch")

	// ErrStaleOrder — для заказа нет ожидающей покупки: заказ не выдавался,
	// уже подтверждён или протух. Покупку нужно инициировать заново.
	ErrStaleOrder = errors.New("billing: no pending purchase for order")

	// ErrOrderNotOwned — заказ был выдан другому пользователю.
	ErrOrderNotOwned = errors.New("billing: order belongs to another user")
)
