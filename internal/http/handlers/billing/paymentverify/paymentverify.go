// Package paymentverify реализует HTTP-обработчик подтверждения оплаты.
//
// Handler принимает идентификаторы заказа и платежа вместе с подписью шлюза,
// проверяет подпись и фиксирует подписку через сервис биллинга.
package paymentverify

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

// Request — параметры подтверждения, которые возвращает платёжный виджет.
type Request struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	VerifyAndCommit(ctx context.Context, userUID, orderID, paymentID, signature string) (*models.Receipt, error)
}

// Handler обрабатывает запросы на подтверждение оплаты.
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
// @Summary Подтвердить оплату
// @Description Проверяет подпись платежа и активирует подписку.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Параметры подтверждения от платёжного виджета"
// @Success 200 {object} models.Receipt "Квитанция об оплате"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подпись"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Заказ принадлежит другому пользователю"
// @Failure 409 {object} response.ErrorResponse "Заказ не найден, требуется новая попытка оплаты"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /billing/verify [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.paymentverify"

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

	receipt, err := h.service.VerifyAndCommit(r.Context(), userUID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrSignatureMismatch):
			log.Error("payment signature mismatch",
				slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		case errors.Is(err, billing.ErrStaleOrder):
			log.Error("stale or unknown order",
				slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("order not found, please restart the payment"))
		case errors.Is(err, billing.ErrOrderNotOwned):
			log.Error("order belongs to another user",
				slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("order does not belong to this user"))
		case errors.Is(err, billing.ErrGatewayUnavailable):
			log.Error("payment gateway unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable, try again later"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to verify payment"))
		}
		return
	}

	log.Info("payment verified",
		slog.String("payment_id", receipt.PaymentID))
	render.JSON(w, r, response.StatusOKWithData(receipt))
}
