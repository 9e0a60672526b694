// Package search реализует HTTP-обработчик поиска по каталогу.
package search

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

// Service описывает интерфейс поиска по каталогу.
type Service interface {
	Search(ctx context.Context, query string) ([]*models.SearchResult, error)
}

// Handler обрабатывает поисковые запросы.
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
// @Summary Поиск по каталогу
// @Description Ищет по названию, режиссёру и жанру. Короткие запросы дают пустую выдачу.
// @Tags Catalog
// @Produce  json
// @Param q query string true "Поисковый запрос"
// @Success 200 {array} models.SearchResult
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Error("search failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("search failed"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(results))
}
