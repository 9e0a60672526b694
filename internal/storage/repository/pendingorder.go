package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamingstar/streaming-star/internal/models"
)

// CreatePendingOrder сохраняет ожидающую оплаты покупку. Запись живёт
// от инициации заказа до подтверждения платежа.
func (s *Storage) CreatePendingOrder(ctx context.Context, order models.PendingOrder) error {
	const op = "storage.CreatePendingOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO pending_orders (order_id, user_uid, plan_name, amount_paise)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		order.OrderID, order.UserUID, order.PlanName, order.AmountPaise); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindPendingOrder возвращает ожидающую покупку по идентификатору заказа шлюза.
func (s *Storage) FindPendingOrder(ctx context.Context, orderID string) (*models.PendingOrder, error) {
	const op = "storage.FindPendingOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT order_id, user_uid, plan_name, amount_paise, created_at
			  FROM pending_orders
			  WHERE order_id = $1`
	row := s.DB.QueryRowContext(ctx, query, orderID)

	var result models.PendingOrder
	if err := row.Scan(&result.OrderID, &result.UserUID, &result.PlanName,
		&result.AmountPaise, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// DeletePendingOrder удаляет запись после подтверждения платежа и
// возвращает количество удалённых строк.
func (s *Storage) DeletePendingOrder(ctx context.Context, orderID string) (int, error) {
	const op = "storage.DeletePendingOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM pending_orders WHERE order_id = $1`
	result, err := s.DB.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
