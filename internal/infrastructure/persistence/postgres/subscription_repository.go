package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

const subscriptionColumns = `
	id, processor_subscription_id, plan_name,
	amount, currency, billing_cycle, status, payer_email,
	created_at, updated_at, activated_at, cancelled_at`

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	m := toSubscriptionModel(sub)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID, m.ProcessorSubscriptionID, m.PlanName,
		m.Amount, m.Currency, m.BillingCycle, m.Status, m.PayerEmail,
		m.CreatedAt, m.UpdatedAt, m.ActivatedAt, m.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = $2, activated_at = $3, cancelled_at = $4
		WHERE id = $5
	`

	m := toSubscriptionModel(sub)
	result, err := r.db.executor(ctx).Exec(ctx, query, m.Status, m.UpdatedAt, m.ActivatedAt, m.CancelledAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) FindByProcessorSubscriptionIDForUpdate(ctx context.Context, processorSubscriptionID string) (*domain.Subscription, error) {
	query := `SELECT` + subscriptionColumns + ` FROM subscriptions WHERE processor_subscription_id = $1 FOR UPDATE`
	return scanSubscription(r.db.executor(ctx).QueryRow(ctx, query, processorSubscriptionID))
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var m SubscriptionModel
	err := row.Scan(
		&m.ID, &m.ProcessorSubscriptionID, &m.PlanName,
		&m.Amount, &m.Currency, &m.BillingCycle, &m.Status, &m.PayerEmail,
		&m.CreatedAt, &m.UpdatedAt, &m.ActivatedAt, &m.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return toSubscriptionDomain(m), nil
}
