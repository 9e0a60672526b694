package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/razorpay"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

type mockRepo struct {
	CreatePendingOrderFunc func(ctx context.Context, order models.PendingOrder) error
	FindPendingOrderFunc   func(ctx context.Context, orderID string) (*models.PendingOrder, error)
	DeletePendingOrderFunc func(ctx context.Context, orderID string) (int, error)
	UpsertSubscriptionFunc func(ctx context.Context, sub models.Subscription) error
	SetSubscribedFunc      func(ctx context.Context, userUID string, subscribed bool) error
	GetUserFunc            func(ctx context.Context, userUID string) (*models.User, error)
}

func (m *mockRepo) CreatePendingOrder(ctx context.Context, order models.PendingOrder) error {
	return m.CreatePendingOrderFunc(ctx, order)
}

func (m *mockRepo) FindPendingOrder(ctx context.Context, orderID string) (*models.PendingOrder, error) {
	return m.FindPendingOrderFunc(ctx, orderID)
}

func (m *mockRepo) DeletePendingOrder(ctx context.Context, orderID string) (int, error) {
	return m.DeletePendingOrderFunc(ctx, orderID)
}

func (m *mockRepo) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	return m.UpsertSubscriptionFunc(ctx, sub)
}

func (m *mockRepo) SetSubscribed(ctx context.Context, userUID string, subscribed bool) error {
	return m.SetSubscribedFunc(ctx, userUID, subscribed)
}

func (m *mockRepo) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return m.GetUserFunc(ctx, userUID)
}

type mockGateway struct {
	CreateOrderFunc     func(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	VerifySignatureFunc func(orderID, paymentID, signature string) error
}

func (m *mockGateway) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	return m.CreateOrderFunc(ctx, req)
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) error {
	return m.VerifySignatureFunc(orderID, paymentID, signature)
}

func (m *mockGateway) KeyID() string { return "rzp_test_key" }

type mockCache struct {
	InvalidateFunc func(key string) error
}

func (m *mockCache) Invalidate(key string) error {
	if m.InvalidateFunc == nil {
		return nil
	}
	return m.InvalidateFunc(key)
}

type mockPublisher struct {
	events []models.ReceiptEvent
	err    error
}

func (m *mockPublisher) PublishReceipt(event models.ReceiptEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

const testUserUID = "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de"

func TestInitiateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("standard plan", func(t *testing.T) {
		var savedPending *models.PendingOrder
		repo := &mockRepo{
			CreatePendingOrderFunc: func(_ context.Context, order models.PendingOrder) error {
				savedPending = &order
				return nil
			},
		}
		gateway := &mockGateway{
			CreateOrderFunc: func(_ context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
				require.Equal(t, 159900, req.Amount)
				require.Equal(t, "INR", req.Currency)
				require.Equal(t, fmt.Sprintf("receipt_standard_%s", testUserUID), req.Receipt)
				require.True(t, req.PaymentCapture)
				return &razorpay.Order{ID: "order_N8Xp2QzLr1", Amount: req.Amount, Status: "created"}, nil
			},
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		handle, err := svc.InitiateOrder(ctx, testUserUID, "standard")
		require.NoError(t, err)

		assert.Equal(t, "order_N8Xp2QzLr1", handle.OrderID)
		assert.Equal(t, 159900, handle.AmountPaise)
		assert.Equal(t, "rzp_test_key", handle.KeyID)
		assert.Equal(t, "standard", handle.PlanName)
		assert.Equal(t, "Standard", handle.DisplayName)
		assert.Equal(t, 1599, handle.DisplayPrice)

		require.NotNil(t, savedPending)
		assert.Equal(t, "order_N8Xp2QzLr1", savedPending.OrderID)
		assert.Equal(t, testUserUID, savedPending.UserUID)
		assert.Equal(t, "standard", savedPending.PlanName)
		assert.Equal(t, 159900, savedPending.AmountPaise)
	})

	t.Run("pro plan amount", func(t *testing.T) {
		repo := &mockRepo{
			CreatePendingOrderFunc: func(_ context.Context, _ models.PendingOrder) error { return nil },
		}
		gateway := &mockGateway{
			CreateOrderFunc: func(_ context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
				require.Equal(t, 1999900, req.Amount)
				return &razorpay.Order{ID: "order_pro1", Amount: req.Amount}, nil
			},
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		handle, err := svc.InitiateOrder(ctx, testUserUID, "pro")
		require.NoError(t, err)
		assert.Equal(t, 1999900, handle.AmountPaise)
	})

	t.Run("unknown plan falls back to basic", func(t *testing.T) {
		repo := &mockRepo{
			CreatePendingOrderFunc: func(_ context.Context, order models.PendingOrder) error {
				require.Equal(t, "basic", order.PlanName)
				return nil
			},
		}
		gateway := &mockGateway{
			CreateOrderFunc: func(_ context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
				require.Equal(t, 59900, req.Amount)
				return &razorpay.Order{ID: "order_basic1", Amount: req.Amount}, nil
			},
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		handle, err := svc.InitiateOrder(ctx, testUserUID, "platinum")
		require.NoError(t, err)
		assert.Equal(t, "basic", handle.PlanName)
	})

	t.Run("gateway failure", func(t *testing.T) {
		repo := &mockRepo{
			CreatePendingOrderFunc: func(_ context.Context, _ models.PendingOrder) error {
				t.Fatal("pending order must not be created on gateway failure")
				return nil
			},
		}
		gateway := &mockGateway{
			CreateOrderFunc: func(_ context.Context, _ razorpay.CreateOrderRequest) (*razorpay.Order, error) {
				return nil, errors.New("connection refused")
			},
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		handle, err := svc.InitiateOrder(ctx, testUserUID, "standard")
		require.ErrorIs(t, err, ErrGatewayUnavailable)
		assert.Nil(t, handle)
	})
}

func TestVerifyAndCommit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	newCommitRepo := func(plan string, amount int) (*mockRepo, *bool, *bool) {
		subscribedSet := false
		pendingDeleted := false
		repo := &mockRepo{
			FindPendingOrderFunc: func(_ context.Context, orderID string) (*models.PendingOrder, error) {
				return &models.PendingOrder{
					OrderID:     orderID,
					UserUID:     testUserUID,
					PlanName:    plan,
					AmountPaise: amount,
				}, nil
			},
			UpsertSubscriptionFunc: func(_ context.Context, _ models.Subscription) error {
				return nil
			},
			SetSubscribedFunc: func(_ context.Context, userUID string, subscribed bool) error {
				require.Equal(t, testUserUID, userUID)
				require.True(t, subscribed)
				subscribedSet = true
				return nil
			},
			DeletePendingOrderFunc: func(_ context.Context, _ string) (int, error) {
				pendingDeleted = true
				return 1, nil
			},
			GetUserFunc: func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{UID: testUserUID, Email: "viewer@example.com", Username: "viewer@example.com"}, nil
			},
		}
		return repo, &subscribedSet, &pendingDeleted
	}

	t.Run("standard plan success", func(t *testing.T) {
		var savedSub *models.Subscription
		repo, subscribedSet, pendingDeleted := newCommitRepo("standard", 159900)
		repo.UpsertSubscriptionFunc = func(_ context.Context, sub models.Subscription) error {
			savedSub = &sub
			return nil
		}
		gateway := &mockGateway{
			VerifySignatureFunc: func(_, _, _ string) error { return nil },
		}
		var invalidated []string
		cache := &mockCache{InvalidateFunc: func(key string) error {
			invalidated = append(invalidated, key)
			return nil
		}}
		publisher := &mockPublisher{}

		svc := New(repo, gateway, cache, publisher, makeLogger())
		svc.now = func() time.Time { return now }

		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_N8Xp2QzLr1", "pay_MkV7q1aab2", "sig")
		require.NoError(t, err)

		require.NotNil(t, savedSub)
		assert.Equal(t, testUserUID, savedSub.UserUID)
		assert.Equal(t, "standard", savedSub.PlanName)
		assert.Equal(t, "order_N8Xp2QzLr1", savedSub.OrderID)
		assert.Equal(t, "pay_MkV7q1aab2", savedSub.PaymentID)
		assert.True(t, savedSub.IsActive)
		assert.Equal(t, now.AddDate(0, 0, 30), savedSub.ExpiryDate)

		assert.True(t, *subscribedSet)
		assert.True(t, *pendingDeleted)
		assert.Contains(t, invalidated, "subscription:"+testUserUID)

		assert.Equal(t, "pay_MkV7q1aab2", receipt.PaymentID)
		assert.Equal(t, "Standard", receipt.PlanLabel)
		assert.Equal(t, 159900, receipt.AmountPaise)
		assert.Equal(t, "Monthly", receipt.BillingLabel)
		assert.Equal(t, now.AddDate(0, 0, 30), receipt.NextPaymentDate)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, "viewer@example.com", publisher.events[0].Email)
		assert.Equal(t, "Standard", publisher.events[0].PlanLabel)
	})

	t.Run("pro plan yearly period", func(t *testing.T) {
		var savedSub *models.Subscription
		repo, _, _ := newCommitRepo("pro", 1999900)
		repo.UpsertSubscriptionFunc = func(_ context.Context, sub models.Subscription) error {
			savedSub = &sub
			return nil
		}
		gateway := &mockGateway{VerifySignatureFunc: func(_, _, _ string) error { return nil }}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		svc.now = func() time.Time { return now }

		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_pro1", "pay_pro1", "sig")
		require.NoError(t, err)

		assert.Equal(t, now.AddDate(0, 0, 365), savedSub.ExpiryDate)
		assert.Equal(t, "Yearly", receipt.BillingLabel)
		assert.Equal(t, 1999900, receipt.AmountPaise)
	})

	t.Run("signature mismatch mutates nothing", func(t *testing.T) {
		repo := &mockRepo{
			FindPendingOrderFunc: func(_ context.Context, _ string) (*models.PendingOrder, error) {
				t.Fatal("pending order must not be read on signature mismatch")
				return nil, nil
			},
		}
		gateway := &mockGateway{
			VerifySignatureFunc: func(_, _, _ string) error { return razorpay.ErrSignatureMismatch },
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_N8Xp2QzLr1", "pay_MkV7q1aab2", "forged")
		require.ErrorIs(t, err, ErrSignatureMismatch)
		assert.Nil(t, receipt)
	})

	t.Run("other gateway fault is uniform", func(t *testing.T) {
		repo := &mockRepo{
			FindPendingOrderFunc: func(_ context.Context, _ string) (*models.PendingOrder, error) {
				t.Fatal("pending order must not be read on gateway fault")
				return nil, nil
			},
		}
		gateway := &mockGateway{
			VerifySignatureFunc: func(_, _, _ string) error { return errors.New("tls handshake failed") },
		}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_N8Xp2QzLr1", "pay_MkV7q1aab2", "sig")
		require.ErrorIs(t, err, ErrGatewayUnavailable)
		assert.Nil(t, receipt)
	})

	t.Run("stale order fails closed", func(t *testing.T) {
		repo := &mockRepo{
			FindPendingOrderFunc: func(_ context.Context, _ string) (*models.PendingOrder, error) {
				return nil, fmt.Errorf("storage.FindPendingOrder: %w", repository.ErrNotFound)
			},
			UpsertSubscriptionFunc: func(_ context.Context, _ models.Subscription) error {
				t.Fatal("subscription must not be written for a stale order")
				return nil
			},
		}
		gateway := &mockGateway{VerifySignatureFunc: func(_, _, _ string) error { return nil }}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_unknown", "pay_x", "sig")
		require.ErrorIs(t, err, ErrStaleOrder)
		assert.Nil(t, receipt)
	})

	t.Run("order of another user rejected", func(t *testing.T) {
		repo := &mockRepo{
			FindPendingOrderFunc: func(_ context.Context, orderID string) (*models.PendingOrder, error) {
				return &models.PendingOrder{
					OrderID:  orderID,
					UserUID:  "someone-else",
					PlanName: "standard",
				}, nil
			},
			UpsertSubscriptionFunc: func(_ context.Context, _ models.Subscription) error {
				t.Fatal("subscription must not be written for a foreign order")
				return nil
			},
		}
		gateway := &mockGateway{VerifySignatureFunc: func(_, _, _ string) error { return nil }}

		svc := New(repo, gateway, &mockCache{}, nil, makeLogger())
		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_N8Xp2QzLr1", "pay_x", "sig")
		require.ErrorIs(t, err, ErrOrderNotOwned)
		assert.Nil(t, receipt)
	})

	t.Run("publish failure does not fail the commit", func(t *testing.T) {
		repo, _, _ := newCommitRepo("basic", 59900)
		repo.UpsertSubscriptionFunc = func(_ context.Context, _ models.Subscription) error { return nil }
		gateway := &mockGateway{VerifySignatureFunc: func(_, _, _ string) error { return nil }}
		publisher := &mockPublisher{err: errors.New("broker down")}

		svc := New(repo, gateway, &mockCache{}, publisher, makeLogger())
		svc.now = func() time.Time { return now }

		receipt, err := svc.VerifyAndCommit(ctx, testUserUID, "order_b1", "pay_b1", "sig")
		require.NoError(t, err)
		assert.NotNil(t, receipt)
	})
}
