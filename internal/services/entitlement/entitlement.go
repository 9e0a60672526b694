// Package entitlement реализует шлюз доступа: решает, имеет ли
// пользователь право на просмотр защищённого контента, и лениво
// выравнивает устаревший флаг профиля.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/metrics"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// Причины отказа в доступе.
const (
	ReasonNoSubscription = "no_subscription"
	ReasonInactive       = "inactive"
	ReasonExpired        = "expired"
)

// Decision — результат проверки доступа.
type Decision struct {
	Allowed    bool       `json:"allowed"`
	Reason     string     `json:"reason,omitempty"`
	PlanName   string     `json:"plan,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// Repository определяет методы хранилища, нужные шлюзу доступа.
type Repository interface {
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	SetSubscribed(ctx context.Context, userUID string, subscribed bool) error
	DeactivateSubscription(ctx context.Context, userUID string) error
}

// Cache описывает методы для кэширования подписки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// cacheTTL — время жизни закэшированной подписки. Короткое, поскольку
// истечение срока всё равно вычисляется на каждом запросе.
const cacheTTL = time.Minute

// Service реализует проверку права доступа.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Check принимает решение о доступе пользователя к защищённому контенту.
// Флаг профиля is_subscribed в решении не участвует: истина выводится
// из записи подписки и текущего времени. Повторный вызов без изменения
// состояния даёт то же решение.
func (s *Service) Check(ctx context.Context, userUID string) (Decision, error) {
	const op = "entitlement.Check"

	sub, err := s.loadSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.EntitlementDecisions.WithLabelValues("deny").Inc()
			return Decision{Allowed: false, Reason: ReasonNoSubscription}, nil
		}
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	switch {
	case sub.IsExpired(now):
		s.reconcile(ctx, userUID, sub, true)
		metrics.EntitlementDecisions.WithLabelValues("deny").Inc()
		return Decision{Allowed: false, Reason: ReasonExpired, PlanName: sub.PlanName, ExpiryDate: &sub.ExpiryDate}, nil
	case !sub.IsActive:
		s.reconcile(ctx, userUID, sub, false)
		metrics.EntitlementDecisions.WithLabelValues("deny").Inc()
		return Decision{Allowed: false, Reason: ReasonInactive, PlanName: sub.PlanName, ExpiryDate: &sub.ExpiryDate}, nil
	default:
		metrics.EntitlementDecisions.WithLabelValues("allow").Inc()
		return Decision{Allowed: true, PlanName: sub.PlanName, ExpiryDate: &sub.ExpiryDate}, nil
	}
}

// loadSubscription читает подписку через кеш.
func (s *Service) loadSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	cacheKey := fmt.Sprintf("subscription:%s", userUID)

	var cached models.Subscription
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, sub, cacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return sub, nil
}

// reconcile лениво выравнивает состояние после отказа: сбрасывает
// флаг профиля, если тот всё ещё true, и деактивирует истёкшую запись.
// Запись идёт только при реальном расхождении, поэтому повторные
// проверки лишних записей не порождают.
func (s *Service) reconcile(ctx context.Context, userUID string, sub *models.Subscription, expired bool) {
	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load profile for reconciliation", sl.Err(err))
		return
	}
	if !profile.IsSubscribed {
		return
	}

	if err := s.repo.SetSubscribed(ctx, userUID, false); err != nil {
		s.log.Warn("failed to reset stale subscription flag", sl.Err(err))
		return
	}
	if expired && sub.IsActive {
		if err := s.repo.DeactivateSubscription(ctx, userUID); err != nil {
			s.log.Warn("failed to deactivate expired subscription", sl.Err(err))
		}
	}

	cacheKey := fmt.Sprintf("subscription:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("reconciled stale subscription flag", sl.UID(userUID))
}
