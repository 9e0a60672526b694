// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
}

// Handler обрабатывает запросы на регистрацию нового пользователя.
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
// @Summary Зарегистрировать пользователя
// @Description Создает пользователя с профилем. Email служит именем для входа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные регистрации"
// @Success 200 {object} map[string]any "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
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

	uid, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			log.Info("registration rejected, email taken")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("user with this email already exists"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", sl.UID(uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": uid,
		"message":  "user created successfully",
	}))
}
