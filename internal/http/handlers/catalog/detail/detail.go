// Package detail реализует HTTP-обработчик карточки каталога.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// Service описывает интерфейс выдачи карточки каталога.
type Service interface {
	Detail(ctx context.Context, id int) (*models.Movie, error)
}

// Handler отдаёт карточку фильма или сериала.
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
// @Summary Карточка каталога
// @Description Возвращает карточку по идентификатору.
// @Tags Catalog
// @Produce  json
// @Param movieID path int true "Идентификатор карточки"
// @Success 200 {object} models.Movie
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Карточка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /movies/{movieID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.detail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		log.Error("invalid movie id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid movie id"))
		return
	}

	movie, err := h.service.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not found"))
			return
		}
		log.Error("failed to load movie", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load movie"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(movie))
}
