package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownPlans(t *testing.T) {
	tests := []struct {
		name       string
		plan       string
		wantPrice  int
		wantPeriod int
		wantLabel  string
	}{
		{name: "basic", plan: "basic", wantPrice: 599, wantPeriod: 30, wantLabel: "Monthly"},
		{name: "standard", plan: "standard", wantPrice: 1599, wantPeriod: 30, wantLabel: "Monthly"},
		{name: "premium", plan: "premium", wantPrice: 1999, wantPeriod: 30, wantLabel: "Monthly"},
		{name: "pro", plan: "pro", wantPrice: 19999, wantPeriod: 365, wantLabel: "Yearly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.plan)
			assert.Equal(t, tt.plan, p.Name)
			assert.Equal(t, tt.wantPrice, p.Price)
			assert.Equal(t, tt.wantPeriod, p.PeriodDays)
			assert.Equal(t, tt.wantLabel, p.BillingLabel())
			assert.Equal(t, tt.wantPrice*100, p.AmountPaise())
		})
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "premium", Resolve("PREMIUM").Name)
	assert.Equal(t, "pro", Resolve("Pro").Name)
}

func TestResolve_UnknownFallsBackToBasic(t *testing.T) {
	for _, name := range []string{"", "gold", "ultimate", "basic2"} {
		p := Resolve(name)
		assert.Equal(t, "basic", p.Name)
		assert.Equal(t, 599, p.Price)
	}
}

func TestAll_OrderAndCount(t *testing.T) {
	all := All()
	assert.Len(t, all, 4)
	assert.Equal(t, "basic", all[0].Name)
	assert.Equal(t, "pro", all[3].Name)
}
