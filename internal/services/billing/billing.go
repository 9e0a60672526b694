// Package billing реализует платёжный контур: инициацию заказа в
// платёжном шлюзе и подтверждение оплаты с фиксацией подписки.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/metrics"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/plans"
	"github.com/streamingstar/streaming-star/internal/razorpay"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// Repository определяет методы хранилища, нужные платёжному контуру.
type Repository interface {
	CreatePendingOrder(ctx context.Context, order models.PendingOrder) error
	FindPendingOrder(ctx context.Context, orderID string) (*models.PendingOrder, error)
	DeletePendingOrder(ctx context.Context, orderID string) (int, error)
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
	SetSubscribed(ctx context.Context, userUID string, subscribed bool) error
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Gateway описывает используемую часть клиента платёжного шлюза.
type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}

// Cache описывает методы кеша, нужные для инвалидации решения о доступе.
type Cache interface {
	Invalidate(key string) error
}

// Publisher публикует событие квитанции для почтового воркера.
type Publisher interface {
	PublishReceipt(event models.ReceiptEvent) error
}

// Service реализует бизнес-логику платёжного контура.
type Service struct {
	repo      Repository
	gateway   Gateway
	cache     Cache
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр Service. publisher может быть nil —
// тогда квитанции по почте не рассылаются.
func New(repo Repository, gateway Gateway, cache Cache, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// InitiateOrder резервирует заказ в платёжном шлюзе для выбранного плана
// и сохраняет ожидающую покупку. Возвращает данные для платёжного виджета.
func (s *Service) InitiateOrder(ctx context.Context, userUID, planName string) (*models.OrderHandle, error) {
	const op = "billing.InitiateOrder"

	plan := plans.Resolve(planName)
	amount := plan.AmountPaise()

	order, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:         amount,
		Currency:       "INR",
		Receipt:        fmt.Sprintf("receipt_%s_%s", plan.Name, userUID),
		PaymentCapture: true,
	})
	if err != nil {
		s.log.Error("failed to create gateway order", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayUnavailable)
	}

	pending := models.PendingOrder{
		OrderID:     order.ID,
		UserUID:     userUID,
		PlanName:    plan.Name,
		AmountPaise: amount,
	}
	if err := s.repo.CreatePendingOrder(ctx, pending); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order initiated",
		slog.String("order_id", order.ID),
		slog.String("plan", plan.Name),
		slog.Int("amount_paise", amount))
	metrics.OrdersCreated.WithLabelValues(plan.Name).Inc()

	return &models.OrderHandle{
		OrderID:      order.ID,
		AmountPaise:  amount,
		Currency:     "INR",
		KeyID:        s.gateway.KeyID(),
		PlanName:     plan.Name,
		DisplayName:  plan.DisplayName,
		DisplayPrice: plan.Price,
	}, nil
}

// VerifyAndCommit проверяет подлинность платёжного колбэка и фиксирует
// подписку. До успешной проверки подписи и привязки заказа к пользователю
// состояние не меняется.
func (s *Service) VerifyAndCommit(ctx context.Context, userUID, orderID, paymentID, signature string) (*models.Receipt, error) {
	const op = "billing.VerifyAndCommit"

	if err := s.gateway.VerifySignature(orderID, paymentID, signature); err != nil {
		if errors.Is(err, razorpay.ErrSignatureMismatch) {
			s.log.Warn("payment signature mismatch", slog.String("order_id", orderID))
			metrics.PaymentVerifications.WithLabelValues("signature_mismatch").Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrSignatureMismatch)
		}
		s.log.Error("gateway verification fault", sl.Err(err))
		metrics.PaymentVerifications.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayUnavailable)
	}

	pending, err := s.repo.FindPendingOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("no pending purchase for verified order", slog.String("order_id", orderID))
			metrics.PaymentVerifications.WithLabelValues("stale_order").Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrStaleOrder)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pending.UserUID != userUID {
		s.log.Warn("order issued to another user",
			slog.String("order_id", orderID),
			sl.UID(userUID))
		metrics.PaymentVerifications.WithLabelValues("stale_order").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotOwned)
	}

	plan := plans.Resolve(pending.PlanName)
	now := s.now()
	expiry := now.AddDate(0, 0, plan.PeriodDays)

	sub := models.Subscription{
		UserUID:    userUID,
		PlanName:   plan.Name,
		OrderID:    orderID,
		PaymentID:  paymentID,
		IsActive:   true,
		StartDate:  now,
		ExpiryDate: expiry,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetSubscribed(ctx, userUID, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.DeletePendingOrder(ctx, orderID); err != nil {
		s.log.Warn("failed to delete pending order", sl.Err(err))
	}

	cacheKey := fmt.Sprintf("subscription:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("payment committed",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
		slog.String("plan", plan.Name))
	metrics.PaymentVerifications.WithLabelValues("success").Inc()

	receipt := &models.Receipt{
		PaymentID:       paymentID,
		PlanLabel:       plan.DisplayName,
		AmountPaise:     pending.AmountPaise,
		BillingLabel:    plan.BillingLabel(),
		NextPaymentDate: expiry,
	}
	s.publishReceipt(ctx, userUID, receipt)
	return receipt, nil
}

// publishReceipt отправляет событие квитанции. Сбой публикации не
// влияет на уже зафиксированную подписку.
func (s *Service) publishReceipt(ctx context.Context, userUID string, receipt *models.Receipt) {
	if s.publisher == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for receipt event", sl.Err(err))
		return
	}
	event := models.ReceiptEvent{
		Email:           user.Email,
		Username:        user.Username,
		PaymentID:       receipt.PaymentID,
		PlanLabel:       receipt.PlanLabel,
		AmountPaise:     receipt.AmountPaise,
		BillingLabel:    receipt.BillingLabel,
		NextPaymentDate: receipt.NextPaymentDate,
	}
	if err := s.publisher.PublishReceipt(event); err != nil {
		s.log.Warn("failed to publish receipt event", sl.Err(err))
	}
}
