// Package profile реализует HTTP-обработчик профиля пользователя.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
)

// Repository описывает контракт чтения профиля из хранилища.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

// Handler отдаёт профиль текущего пользователя.
type Handler struct {
	log  *slog.Logger
	repo Repository
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, repo Repository) *Handler {
	return &Handler{
		log:  log,
		repo: repo,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Tags Profile
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile"

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

	user, err := h.repo.GetUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load profile"))
		return
	}
	prof, err := h.repo.GetProfile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":      user.UID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"mobile":        prof.Mobile,
		"is_subscribed": prof.IsSubscribed,
	}))
}
