// Package metrics регистрирует счётчики Prometheus для платёжного
// контура и шлюза доступа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated считает созданные заказы по имени плана.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamingstar_orders_created_total",
		Help: "Payment orders created, by plan.",
	}, []string{"plan"})

	// PaymentVerifications считает попытки подтверждения платежа по исходу:
	// success, signature_mismatch, stale_order, gateway_error.
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamingstar_payment_verifications_total",
		Help: "Payment verification attempts, by outcome.",
	}, []string{"outcome"})

	// EntitlementDecisions считает решения шлюза доступа: allow или deny.
	EntitlementDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamingstar_entitlement_decisions_total",
		Help: "Entitlement gate decisions.",
	}, []string{"decision"})
)
