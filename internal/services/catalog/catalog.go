// Package catalog содержит логику бизнес-уровня для каталога фильмов
// и сериалов: подборки, поиск, подсказки и личный список пользователя.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
)

const (
	// MinSearchLength — минимальная длина запроса для полнотекстового поиска.
	MinSearchLength = 3
	// MinSuggestLength — минимальная длина запроса для подсказок.
	MinSuggestLength = 2

	searchLimit  = 12
	suggestLimit = 6

	catalogCacheTTL = 5 * time.Minute
)

// Repository описывает контракт хранилища каталога.
type Repository interface {
	ListMovies(ctx context.Context, category, genreName string) ([]*models.Movie, error)
	GetMovie(ctx context.Context, id int) (*models.Movie, error)
	ListMovieCast(ctx context.Context, movieID int) ([]models.CastMember, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]*models.Movie, error)
	SuggestNames(ctx context.Context, query string, limit int) ([]string, error)
	ListGenres(ctx context.Context) ([]*models.Genre, error)
	InMyList(ctx context.Context, userUID string, movieID int) (bool, error)
	AddToMyList(ctx context.Context, userUID string, movieID int) error
	RemoveFromMyList(ctx context.Context, userUID string, movieID int) (int, error)
	ListMyList(ctx context.Context, userUID string) ([]*models.MyListItem, error)
}

// Cache описывает контракт кеша подборок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, ttl time.Duration) error
}

// Service отвечает за выдачу каталога и личные списки.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает подборку по категории (movie или tv) с необязательной
// фильтрацией по жанру. Подборки без фильтра кешируются.
func (s *Service) List(ctx context.Context, category, genreName string) ([]*models.Movie, error) {
	const op = "catalog.List"

	cacheKey := ""
	if genreName == "" {
		cacheKey = "catalog:" + category
		var cached []*models.Movie
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("catalog cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	movies, err := s.repo.ListMovies(ctx, category, genreName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cacheKey != "" {
		if err := s.cache.Set(cacheKey, movies, catalogCacheTTL); err != nil {
			s.log.Warn("catalog cache write failed", sl.Err(err))
		}
	}
	return movies, nil
}

// Detail возвращает карточку по идентификатору вместе с актёрским составом.
func (s *Service) Detail(ctx context.Context, id int) (*models.Movie, error) {
	const op = "catalog.Detail"

	movie, err := s.repo.GetMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cast, err := s.repo.ListMovieCast(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	movie.Cast = cast
	return movie, nil
}

// Search ищет по названию, режиссёру, жанру и имени актёра. Запросы короче
// MinSearchLength возвращают пустую выдачу без обращения к хранилищу.
func (s *Service) Search(ctx context.Context, query string) ([]*models.SearchResult, error) {
	const op = "catalog.Search"

	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return []*models.SearchResult{}, nil
	}

	movies, err := s.repo.SearchMovies(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := make([]*models.SearchResult, 0, len(movies))
	for _, m := range movies {
		results = append(results, &models.SearchResult{
			Title:  m.Title,
			Poster: m.Poster,
			ID:     m.ID,
			Year:   m.Year,
		})
	}
	return results, nil
}

// Suggest возвращает подсказки по именам режиссёров, актёров и жанрам.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	const op = "catalog.Suggest"

	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSuggestLength {
		return []string{}, nil
	}

	names, err := s.repo.SuggestNames(ctx, query, suggestLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}

// Genres возвращает список жанров для меню фильтров.
func (s *Service) Genres(ctx context.Context) ([]*models.Genre, error) {
	const op = "catalog.Genres"

	genres, err := s.repo.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return genres, nil
}

// ToggleMyList добавляет карточку в личный список или убирает её,
// если она уже там. Возвращает true, когда карточка оказалась в списке.
func (s *Service) ToggleMyList(ctx context.Context, userUID string, movieID int) (bool, error) {
	const op = "catalog.ToggleMyList"

	exists, err := s.repo.InMyList(ctx, userUID, movieID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		if _, err := s.repo.RemoveFromMyList(ctx, userUID, movieID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return false, nil
	}
	if err := s.repo.AddToMyList(ctx, userUID, movieID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// MyList возвращает личный список пользователя.
func (s *Service) MyList(ctx context.Context, userUID string) ([]*models.MyListItem, error) {
	const op = "catalog.MyList"

	items, err := s.repo.ListMyList(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
