// Package play реализует HTTP-обработчик запуска просмотра.
//
// Доступ к обработчику закрыт шлюзом подписки: сюда попадают только
// запросы пользователей с действующим правом на просмотр.
package play

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

// Handler отдаёт данные для плеера.
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
// @Summary Запустить просмотр
// @Description Возвращает адрес видеопотока. Требует действующую подписку.
// @Tags Play
// @Produce  json
// @Param movieID path int true "Идентификатор карточки"
// @Success 200 {object} map[string]any "Данные для плеера"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 403 {object} response.ErrorResponse "Нет действующей подписки"
// @Failure 404 {object} response.ErrorResponse "Карточка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /play/{movieID} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.play"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		log.Error("invalid movie id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid movie id"))
		return
	}

	movie, err := h.service.Detail(r.Context(), movieID)
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

	log.Info("playback started", slog.Int("movie_id", movie.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"movie_id": movie.ID,
		"title":    movie.Title,
		"video":    movie.Video,
	}))
}
