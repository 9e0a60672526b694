// Package genres реализует HTTP-обработчик списка жанров.
package genres

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
)

// Service описывает интерфейс выдачи жанров.
type Service interface {
	Genres(ctx context.Context) ([]*models.Genre, error)
}

// Handler отдаёт список жанров для меню фильтров.
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
// @Summary Список жанров
// @Tags Catalog
// @Produce  json
// @Success 200 {array} models.Genre
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /genres [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.genres"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	genres, err := h.service.Genres(r.Context())
	if err != nil {
		log.Error("failed to list genres", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load genres"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(genres))
}
