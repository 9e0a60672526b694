package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamingstar/streaming-star/internal/models"
)

const movieColumns = `m.id, m.title, m.poster, m.video, m.genre_id, g.name,
			      COALESCE(m.director, ''), COALESCE(m.release_year, 0),
			      COALESCE(m.duration, ''), m.rating, COALESCE(m.description, ''),
			      m.category, m.is_featured`

func scanMovie(row interface{ Scan(...any) error }) (*models.Movie, error) {
	var m models.Movie
	if err := row.Scan(&m.ID, &m.Title, &m.Poster, &m.Video, &m.GenreID, &m.GenreName,
		&m.Director, &m.Year, &m.Duration, &m.Rating, &m.Description,
		&m.Category, &m.IsFeatured); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies возвращает записи каталога указанной категории,
// опционально отфильтрованные по имени жанра.
func (s *Storage) ListMovies(ctx context.Context, category, genreName string) ([]*models.Movie, error) {
	const op = "storage.ListMovies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + movieColumns + `
			  FROM movies m
			  JOIN genres g ON g.id = m.genre_id
			  WHERE m.category = $1
			    AND ($2::text = '' OR g.name = $2)
			  ORDER BY m.id`
	rows, err := s.DB.QueryContext(ctx, query, category, genreName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Movie
	for rows.Next() {
		item, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMovie возвращает запись каталога по ID.
func (s *Storage) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	const op = "storage.GetMovie"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + movieColumns + `
			  FROM movies m
			  JOIN genres g ON g.id = m.genre_id
			  WHERE m.id = $1`
	item, err := scanMovie(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListMovieCast возвращает актёрский состав записи каталога.
func (s *Storage) ListMovieCast(ctx context.Context, movieID int) ([]models.CastMember, error) {
	const op = "storage.ListMovieCast"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.real_name, c.image, COALESCE(mc.character_name, '')
			  FROM movie_casts mc
			  JOIN casts c ON c.id = mc.cast_id
			  WHERE mc.movie_id = $1
			  ORDER BY c.real_name`
	rows, err := s.DB.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.CastMember
	for rows.Next() {
		var c models.CastMember
		if err := rows.Scan(&c.ID, &c.RealName, &c.Image, &c.CharacterName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchMovies ищет записи по подстроке в названии, режиссёре, жанре
// или имени актёра.
func (s *Storage) SearchMovies(ctx context.Context, query string, limit int) ([]*models.Movie, error) {
	const op = "storage.SearchMovies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sqlQuery := `SELECT DISTINCT ` + movieColumns + `
			  FROM movies m
			  JOIN genres g ON g.id = m.genre_id
			  LEFT JOIN movie_casts mc ON mc.movie_id = m.id
			  LEFT JOIN casts c ON c.id = mc.cast_id
			  WHERE m.title ILIKE '%' || $1 || '%'
			     OR m.director ILIKE '%' || $1 || '%'
			     OR g.name ILIKE '%' || $1 || '%'
			     OR c.real_name ILIKE '%' || $1 || '%'
			  ORDER BY m.id
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Movie
	for rows.Next() {
		item, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SuggestNames возвращает подсказки автодополнения: имена режиссёров,
// актёров и жанры, содержащие введённую подстроку.
func (s *Storage) SuggestNames(ctx context.Context, query string, limit int) ([]string, error) {
	const op = "storage.SuggestNames"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sqlQuery := `SELECT DISTINCT name FROM (
			      SELECT director AS name FROM movies WHERE director ILIKE '%' || $1 || '%'
			      UNION
			      SELECT real_name AS name FROM casts WHERE real_name ILIKE '%' || $1 || '%'
			      UNION
			      SELECT name FROM genres WHERE name ILIKE '%' || $1 || '%'
			  ) AS names
			  WHERE name IS NOT NULL
			  ORDER BY name
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListGenres возвращает все жанры каталога.
func (s *Storage) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	const op = "storage.ListGenres"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, icon_class FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.IconClass); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
