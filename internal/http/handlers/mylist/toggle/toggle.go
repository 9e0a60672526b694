// Package toggle реализует HTTP-обработчик добавления и удаления
// карточки из личного списка пользователя.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// Service описывает интерфейс работы с личным списком.
type Service interface {
	ToggleMyList(ctx context.Context, userUID string, movieID int) (bool, error)
}

// Handler переключает присутствие карточки в личном списке.
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
// @Summary Переключить карточку в личном списке
// @Description Добавляет карточку в список или убирает её, если она уже там.
// @Tags MyList
// @Produce  json
// @Param movieID path int true "Идентификатор карточки"
// @Success 200 {object} map[string]any "Текущее состояние"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Карточка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /my-list/{movieID} [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mylist.toggle"

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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	inList, err := h.service.ToggleMyList(r.Context(), userUID, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not found"))
			return
		}
		log.Error("failed to toggle my list", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update my list"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"movie_id": movieID,
		"in_list":  inList,
	}))
}
