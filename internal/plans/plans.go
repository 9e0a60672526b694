// Package plans содержит статический справочник тарифных планов.
// Планы не хранятся в базе: это фиксированная таблица цен и сроков.
package plans

import "strings"

// Plan описывает тарифный план.
type Plan struct {
	Name        string `json:"name"`         // идентификатор: basic/standard/premium/pro
	DisplayName string `json:"display_name"` // человекочитаемое название
	Price       int    `json:"price"`        // цена в рупиях
	PeriodDays  int    `json:"period_days"`  // срок действия в днях
}

var catalog = map[string]Plan{
	"basic":    {Name: "basic", DisplayName: "Basic", Price: 599, PeriodDays: 30},
	"standard": {Name: "standard", DisplayName: "Standard", Price: 1599, PeriodDays: 30},
	"premium":  {Name: "premium", DisplayName: "Premium", Price: 1999, PeriodDays: 30},
	"pro":      {Name: "pro", DisplayName: "Pro", Price: 19999, PeriodDays: 365},
}

// порядок вывода планов для списков
var order = []string{"basic", "standard", "premium", "pro"}

// Resolve возвращает план по идентификатору без учёта регистра.
// Неизвестный идентификатор сводится к плану basic: вызывающий слой
// доверенный, строгий отказ здесь не нужен.
func Resolve(name string) Plan {
	if p, ok := catalog[strings.ToLower(name)]; ok {
		return p
	}
	return catalog["basic"]
}

// All возвращает все планы в фиксированном порядке.
func All() []Plan {
	result := make([]Plan, 0, len(order))
	for _, name := range order {
		result = append(result, catalog[name])
	}
	return result
}

// AmountPaise возвращает цену плана в пайсах для платёжного шлюза.
func (p Plan) AmountPaise() int {
	return p.Price * 100
}

// BillingLabel возвращает метку периода оплаты.
func (p Plan) BillingLabel() string {
	if p.PeriodDays == 365 {
		return "Yearly"
	}
	return "Monthly"
}
