// Package suggest реализует HTTP-обработчик подсказок поиска.
package suggest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
)

// Service описывает интерфейс подсказок по каталогу.
type Service interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Handler обрабатывает запросы подсказок для строки поиска.
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
// @Summary Подсказки поиска
// @Description Возвращает имена режиссёров и жанры, похожие на запрос.
// @Tags Catalog
// @Produce  json
// @Param q query string true "Начало имени или жанра"
// @Success 200 {array} string
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /search/suggest [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.suggest"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	names, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Error("suggest failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("suggest failed"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(names))
}
