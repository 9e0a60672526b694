package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/services/entitlement"
)

type validatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (*models.User, error)
}

func (m *validatorMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	return m.ValidateTokenFunc(ctx, token)
}

type checkerMock struct {
	CheckFunc func(ctx context.Context, userUID string) (entitlement.Decision, error)
}

func (m *checkerMock) Check(ctx context.Context, userUID string) (entitlement.Decision, error) {
	return m.CheckFunc(ctx, userUID)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	const uid = "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de"

	validator := &validatorMock{
		ValidateTokenFunc: func(_ context.Context, token string) (*models.User, error) {
			if token != "good-token" {
				return nil, errors.New("token is invalid")
			}
			return &models.User{UID: uid, Username: "raj@example.com"}, nil
		},
	}

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "raj@example.com", r.Context().Value(middlewarectx.User))
		assert.Equal(t, uid, r.Context().Value(middlewarectx.UserUID))
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(validator, newNoopLogger())(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer bad-token",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer good-token",
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestEntitlementMiddleware(t *testing.T) {
	const uid = "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de"
	expiry := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		ctxUID         any
		decision       entitlement.Decision
		checkErr       error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "allowed",
			ctxUID:         uid,
			decision:       entitlement.Decision{Allowed: true, PlanName: "standard", ExpiryDate: &expiry},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "denied without subscription",
			ctxUID:         uid,
			decision:       entitlement.Decision{Allowed: false, Reason: entitlement.ReasonNoSubscription},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "denied expired",
			ctxUID:         uid,
			decision:       entitlement.Decision{Allowed: false, Reason: entitlement.ReasonExpired},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "missing user identity",
			ctxUID:         nil,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "checker failure",
			ctxUID:         uid,
			checkErr:       errors.New("storage is down"),
			wantStatusCode: http.StatusInternalServerError,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &checkerMock{
				CheckFunc: func(_ context.Context, userUID string) (entitlement.Decision, error) {
					require.Equal(t, uid, userUID)
					return tt.decision, tt.checkErr
				},
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.EntitlementMiddleware(checker, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/play/42", nil)
			if tt.ctxUID != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.ctxUID))
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
