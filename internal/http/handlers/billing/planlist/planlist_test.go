package planlist

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPlanListHandler_ServeHTTP(t *testing.T) {
	handler := New(newNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/plans", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"basic"`)
	assert.Contains(t, rec.Body.String(), `"name":"pro"`)
	assert.Contains(t, rec.Body.String(), `"period_days":365`)
}
