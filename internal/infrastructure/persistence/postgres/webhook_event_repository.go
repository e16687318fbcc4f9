package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

const webhookEventColumns = `
	id, event_id, event_type, resource_type, resource_id, payload,
	processed, received_at, processed_at`

type WebhookEventRepository struct {
	db *DB
}

func NewWebhookEventRepository(db *DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Insert(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (` + webhookEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	m := toWebhookEventModel(event)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID, m.EventID, m.EventType, m.ResourceType, m.ResourceID, m.Payload,
		m.Processed, m.ReceivedAt, m.ProcessedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, "webhook_events_event_id_key") {
			return application.ErrDuplicateEventID
		}
		return fmt.Errorf("failed to insert webhook event: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) FindByEventID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	query := `SELECT` + webhookEventColumns + ` FROM webhook_events WHERE event_id = $1`
	return scanWebhookEvent(r.db.executor(ctx).QueryRow(ctx, query, eventID))
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, event *domain.WebhookEvent) error {
	query := `UPDATE webhook_events SET processed = $1, processed_at = $2 WHERE event_id = $3`

	result, err := r.db.executor(ctx).Exec(ctx, query, event.Processed, event.ProcessedAt, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *WebhookEventRepository) ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	query := `
		SELECT` + webhookEventColumns + `
		FROM webhook_events
		WHERE processed = false
		ORDER BY received_at ASC
		LIMIT $1
	`

	rows, err := r.db.executor(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed webhook events: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.WebhookEvent, error) {
		var m WebhookEventModel
		err := row.Scan(
			&m.ID, &m.EventID, &m.EventType, &m.ResourceType, &m.ResourceID, &m.Payload,
			&m.Processed, &m.ReceivedAt, &m.ProcessedAt,
		)
		return toWebhookEventDomain(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan unprocessed webhook events: %w", err)
	}
	return results, nil
}

func scanWebhookEvent(row pgx.Row) (*domain.WebhookEvent, error) {
	var m WebhookEventModel
	err := row.Scan(
		&m.ID, &m.EventID, &m.EventType, &m.ResourceType, &m.ResourceID, &m.Payload,
		&m.Processed, &m.ReceivedAt, &m.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan webhook event: %w", err)
	}
	return toWebhookEventDomain(m), nil
}
