package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamingstar/streaming-star/internal/models"
)

// UpsertSubscription вставляет подписку пользователя или перезаписывает
// существующую. start_date при конфликте не трогается: дата первой
// покупки неизменна, продление двигает только expiry_date.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan_name, order_id, payment_id,
			      is_active, start_date, expiry_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET plan_name = EXCLUDED.plan_name,
			      order_id = EXCLUDED.order_id,
			      payment_id = EXCLUDED.payment_id,
			      is_active = EXCLUDED.is_active,
			      expiry_date = EXCLUDED.expiry_date`
	_, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.PlanName, sub.OrderID, sub.PaymentID,
		sub.IsActive, sub.StartDate, sub.ExpiryDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает подписку пользователя.
func (s *Storage) GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, plan_name, order_id, payment_id, is_active,
			      start_date, expiry_date
			  FROM subscriptions
			  WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Subscription
	if err := row.Scan(&result.UserUID, &result.PlanName, &result.OrderID,
		&result.PaymentID, &result.IsActive, &result.StartDate, &result.ExpiryDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// DeactivateSubscription сбрасывает флаг is_active у истёкшей подписки.
func (s *Storage) DeactivateSubscription(ctx context.Context, userUID string) error {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = false
			  WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
