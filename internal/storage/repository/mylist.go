package repository

import (
	"context"
	"fmt"

	"github.com/streamingstar/streaming-star/internal/models"
)

// InMyList сообщает, есть ли фильм в личном списке пользователя.
func (s *Storage) InMyList(ctx context.Context, userUID string, movieID int) (bool, error) {
	const op = "storage.InMyList"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM my_list WHERE user_uid = $1 AND movie_id = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AddToMyList добавляет фильм в личный список пользователя.
// Повторное добавление не является ошибкой.
func (s *Storage) AddToMyList(ctx context.Context, userUID string, movieID int) error {
	const op = "storage.AddToMyList"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO my_list (user_uid, movie_id)
			  VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, movieID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveFromMyList удаляет фильм из личного списка и возвращает
// количество удалённых строк.
func (s *Storage) RemoveFromMyList(ctx context.Context, userUID string, movieID int) (int, error) {
	const op = "storage.RemoveFromMyList"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM my_list WHERE user_uid = $1 AND movie_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, movieID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListMyList возвращает личный список пользователя вместе с данными фильмов.
func (s *Storage) ListMyList(ctx context.Context, userUID string) ([]*models.MyListItem, error) {
	const op = "storage.ListMyList"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + movieColumns + `
			  FROM my_list ml
			  JOIN movies m ON m.id = ml.movie_id
			  JOIN genres g ON g.id = m.genre_id
			  WHERE ml.user_uid = $1
			  ORDER BY m.id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MyListItem
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &models.MyListItem{UserUID: userUID, Movie: *movie})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
