package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamingstar/streaming-star/internal/models"
)

// CreateUserWithProfile сохраняет пользователя и его профиль в одной
// транзакции. Профиль существует ровно один и создаётся вместе с
// пользователем.
func (s *Storage) CreateUserWithProfile(ctx context.Context, user models.User, mobile string) (string, error) {
	const op = "storage.CreateUserWithProfile"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (uid, email, username, full_name, password_hash)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	if err := tx.QueryRowContext(ctx, query,
		user.UID, user.Email, user.Username, user.FullName, user.PasswordHash).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO profiles (user_uid, mobile, is_subscribed)
			 VALUES ($1, $2, false)`
	if _, err := tx.ExecContext(ctx, query, newUID, mobile); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, full_name, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.FullName,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, full_name, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.FullName,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetProfile возвращает профиль пользователя.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, COALESCE(mobile, ''), is_subscribed
			  FROM profiles
			  WHERE user_uid = $1`
	p := &models.Profile{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&p.UserUID, &p.Mobile, &p.IsSubscribed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetSubscribed выставляет денормализованный флаг доступа в профиле.
func (s *Storage) SetSubscribed(ctx context.Context, userUID string, subscribed bool) error {
	const op = "storage.SetSubscribed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET is_subscribed = $1
			  WHERE user_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, subscribed, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
