// Package auth содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/streamingstar/streaming-star/internal/lib/jwt"
	"github.com/streamingstar/streaming-star/internal/lib/password"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserExists возвращается при попытке регистрации с занятым email.
var ErrUserExists = errors.New("user already exists")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUserWithProfile сохраняет пользователя вместе с профилем и возвращает его UID.
	CreateUserWithProfile(ctx context.Context, user models.User, mobile string) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Email используется как имя пользователя для входа.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Username:     email,
		FullName:     req.FullName,
		PasswordHash: hashed,
	}
	uid, err := s.users.CreateUserWithProfile(ctx, user, req.Mobile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		UID:      claims.UserUID,
		Username: claims.Username,
	}, nil
}
