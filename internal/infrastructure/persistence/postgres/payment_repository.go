package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

const paymentColumns = `
	id, idempotency_key, intent, status,
	amount, currency, authorized_amount, captured_amount, refunded_amount,
	description, refund_reason, order_id,
	processor_payment_id, sale_id, authorization_id, capture_id,
	payer_id, payer_email, payer_name, approval_url,
	created_at, updated_at, completed_at`

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	m := toPaymentModel(payment)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID, m.IdempotencyKey, m.Intent, m.Status,
		m.Amount, m.Currency, m.AuthorizedAmount, m.CapturedAmount, m.RefundedAmount,
		m.Description, m.RefundReason, m.OrderID,
		m.ProcessorPaymentID, m.SaleID, m.AuthorizationID, m.CaptureID,
		m.PayerID, m.PayerEmail, m.PayerName, m.ApprovalURL,
		m.CreatedAt, m.UpdatedAt, m.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, "payments_idempotency_key_key") {
			return application.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1,
		    authorized_amount = $2, captured_amount = $3, refunded_amount = $4,
		    refund_reason = $5,
		    processor_payment_id = $6, sale_id = $7, authorization_id = $8, capture_id = $9,
		    payer_id = $10, payer_email = $11, payer_name = $12, approval_url = $13,
		    updated_at = $14, completed_at = $15
		WHERE id = $16
	`

	m := toPaymentModel(payment)
	result, err := r.db.executor(ctx).Exec(ctx, query,
		m.Status,
		m.AuthorizedAmount, m.CapturedAmount, m.RefundedAmount,
		m.RefundReason,
		m.ProcessorPaymentID, m.SaleID, m.AuthorizationID, m.CaptureID,
		m.PayerID, m.PayerEmail, m.PayerName, m.ApprovalURL,
		m.UpdatedAt, m.CompletedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, id))
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, id))
}

func (r *PaymentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE idempotency_key = $1`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, key))
}

func (r *PaymentRepository) FindByProcessorPaymentIDForUpdate(ctx context.Context, processorPaymentID string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE processor_payment_id = $1 FOR UPDATE`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, processorPaymentID))
}

func (r *PaymentRepository) FindByAuthorizationIDForUpdate(ctx context.Context, authorizationID string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE authorization_id = $1 FOR UPDATE`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, authorizationID))
}

// FindByCaptureIDForUpdate also matches sale ids, so refunds for single-step
// sales and multi-step captures share one lookup.
func (r *PaymentRepository) FindByCaptureIDForUpdate(ctx context.Context, captureID string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE capture_id = $1 OR sale_id = $1 FOR UPDATE`
	return scanPayment(r.db.executor(ctx).QueryRow(ctx, query, captureID))
}

// scanPayment converts a database row into a domain Payment.
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.IdempotencyKey, &m.Intent, &m.Status,
		&m.Amount, &m.Currency, &m.AuthorizedAmount, &m.CapturedAmount, &m.RefundedAmount,
		&m.Description, &m.RefundReason, &m.OrderID,
		&m.ProcessorPaymentID, &m.SaleID, &m.AuthorizationID, &m.CaptureID,
		&m.PayerID, &m.PayerEmail, &m.PayerName, &m.ApprovalURL,
		&m.CreatedAt, &m.UpdatedAt, &m.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return toPaymentDomain(m), nil
}
