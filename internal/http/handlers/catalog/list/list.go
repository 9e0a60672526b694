// Package list реализует HTTP-обработчик подборок каталога.
package list

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

// Service описывает интерфейс выдачи подборок каталога.
type Service interface {
	List(ctx context.Context, category, genreName string) ([]*models.Movie, error)
}

// Handler отдаёт подборку каталога по категории.
type Handler struct {
	log      *slog.Logger
	service  Service
	category string
}

// New создает Handler, закреплённый за категорией каталога.
func New(log *slog.Logger, service Service, category string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		category: category,
	}
}

// ServeHTTP godoc
// @Summary Подборка каталога
// @Description Возвращает фильмы или сериалы, опционально отфильтрованные по жанру.
// @Tags Catalog
// @Produce  json
// @Param genre query string false "Имя жанра"
// @Success 200 {array} models.Movie
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /movies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	genre := r.URL.Query().Get("genre")

	movies, err := h.service.List(r.Context(), h.category, genre)
	if err != nil {
		log.Error("failed to list catalog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load catalog"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(movies))
}
