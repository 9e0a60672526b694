// Package ordercreate реализует HTTP-обработчик создания платёжного заказа.
//
// Handler принимает имя тарифа, создаёт заказ в платёжном шлюзе через сервис
// биллинга и возвращает данные для платёжного виджета на стороне клиента.
package ordercreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/services/billing"
)

// Request — входные данные для создания заказа.
type Request struct {
	PlanName string `json:"plan_name" validate:"required"`
}

// Service описывает интерфейс бизнес-логики создания заказа.
type Service interface {
	InitiateOrder(ctx context.Context, userUID, planName string) (*models.OrderHandle, error)
}

// Handler обрабатывает запросы на создание платёжного заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёжный заказ
// @Description Создает заказ в платёжном шлюзе для выбранного тарифа.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя тарифа"
// @Success 200 {object} models.OrderHandle "Данные для платёжного виджета"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /billing/order [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.ordercreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	handle, err := h.service.InitiateOrder(r.Context(), userUID, req.PlanName)
	if err != nil {
		if errors.Is(err, billing.ErrGatewayUnavailable) {
			log.Error("payment gateway unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable, try again later"))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create order"))
		return
	}

	log.Info("order created",
		slog.String("order_id", handle.OrderID),
		slog.String("plan", handle.PlanName))
	render.JSON(w, r, response.StatusOKWithData(handle))
}
