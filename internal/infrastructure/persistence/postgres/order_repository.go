package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

const orderColumns = `
	id, order_number, status,
	subtotal, tax, shipping, total, currency,
	customer_email, customer_name,
	created_at, updated_at`

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	m := toOrderModel(order)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID, m.OrderNumber, m.Status,
		m.Subtotal, m.Tax, m.Shipping, m.Total, m.Currency,
		m.CustomerEmail, m.CustomerName,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	m := toOrderModel(order)
	result, err := r.db.executor(ctx).Exec(ctx, query, m.Status, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.executor(ctx).QueryRow(ctx, query, id))
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.db.executor(ctx).QueryRow(ctx, query, id))
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var m OrderModel
	err := row.Scan(
		&m.ID, &m.OrderNumber, &m.Status,
		&m.Subtotal, &m.Tax, &m.Shipping, &m.Total, &m.Currency,
		&m.CustomerEmail, &m.CustomerName,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return toOrderDomain(m), nil
}
