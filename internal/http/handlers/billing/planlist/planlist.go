// Package planlist реализует HTTP-обработчик списка тарифов.
package planlist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/plans"
)

// Handler отдаёт список доступных тарифов.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Список тарифов
// @Description Возвращает доступные тарифы с ценами и периодами.
// @Tags Billing
// @Produce  json
// @Success 200 {array} plans.Plan
// @Router /billing/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.planlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("plan list requested")

	render.JSON(w, r, response.StatusOKWithData(plans.All()))
}
