package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamingstar/streaming-star/internal/lib/jwt"
	"github.com/streamingstar/streaming-star/internal/lib/password"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

type mockUsers struct {
	CreateUserWithProfileFunc func(ctx context.Context, user models.User, mobile string) (string, error)
	GetUserByUsernameFunc     func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUsers) CreateUserWithProfile(ctx context.Context, user models.User, mobile string) (string, error) {
	return m.CreateUserWithProfileFunc(ctx, user, mobile)
}

func (m *mockUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetUserByUsernameFunc(ctx, username)
}

func TestRegister(t *testing.T) {
	var saved models.User
	var savedMobile string
	users := &mockUsers{
		CreateUserWithProfileFunc: func(_ context.Context, user models.User, mobile string) (string, error) {
			saved = user
			savedMobile = mobile
			return user.UID, nil
		},
	}
	svc := New(users, jwt.NewJWTMaker("test-secret", time.Hour))

	uid, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "Raj Malhotra",
		Email:    "Raj@Example.com",
		Mobile:   "+919876543210",
		Password: "str0ng-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	// email нормализуется и служит именем пользователя
	assert.Equal(t, "raj@example.com", saved.Email)
	assert.Equal(t, "raj@example.com", saved.Username)
	assert.Equal(t, "Raj Malhotra", saved.FullName)
	assert.Equal(t, "+919876543210", savedMobile)
	assert.NoError(t, password.CompareHash(saved.PasswordHash, "str0ng-password"))
	assert.NotEqual(t, "str0ng-password", saved.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mockUsers{
		CreateUserWithProfileFunc: func(_ context.Context, _ models.User, _ string) (string, error) {
			return "", fmt.Errorf("storage.CreateUserWithProfile: %w", repository.ErrDuplicate)
		},
	}
	svc := New(users, jwt.NewJWTMaker("test-secret", time.Hour))

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "Raj Malhotra",
		Email:    "raj@example.com",
		Mobile:   "+919876543210",
		Password: "str0ng-password",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	hashed, err := password.GetHash("str0ng-password")
	require.NoError(t, err)

	stored := &models.User{
		UID:          "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de",
		Email:        "raj@example.com",
		Username:     "raj@example.com",
		PasswordHash: hashed,
	}
	users := &mockUsers{
		GetUserByUsernameFunc: func(_ context.Context, username string) (*models.User, error) {
			if username != stored.Username {
				return nil, repository.ErrNotFound
			}
			return stored, nil
		},
	}
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := New(users, maker)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "raj@example.com", "str0ng-password")
		require.NoError(t, err)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.UID, claims.UserUID)
		assert.Equal(t, stored.Username, claims.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "raj@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "str0ng-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := New(&mockUsers{}, maker)

	token, err := maker.GenerateToken("raj@example.com", "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de")
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "raj@example.com", user.Username)
	assert.Equal(t, "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de", user.UID)

	_, err = svc.ValidateToken(context.Background(), token+"tampered")
	assert.Error(t, err)
}
