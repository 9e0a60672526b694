// Package status реализует HTTP-обработчик статуса подписки пользователя.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/services/entitlement"
)

// Service описывает интерфейс проверки права на просмотр.
type Service interface {
	Check(ctx context.Context, userUID string) (entitlement.Decision, error)
}

// Handler отдаёт текущее состояние подписки пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает решение о праве на просмотр для текущего пользователя.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} entitlement.Decision
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/status [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decision, err := h.service.Check(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check subscription"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(decision))
}
