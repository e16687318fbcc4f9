// Package services orchestrates the payment lifecycle against the processor
// and the persistence layer.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
	"github.com/stackpay/paygate/internal/metrics"
)

type PaymentService struct {
	payments  application.PaymentRepository
	orders    application.OrderRepository
	processor application.ProcessorClient
	uow       application.UnitOfWork
	logger    *slog.Logger
}

func NewPaymentService(
	payments application.PaymentRepository,
	orders application.OrderRepository,
	processor application.ProcessorClient,
	uow application.UnitOfWork,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		orders:    orders,
		processor: processor,
		uow:       uow,
		logger:    logger,
	}
}

// Create registers a payment with the processor. Requests carrying an
// idempotency key already seen return the stored payment without touching
// the processor; the row insert itself reserves the key, so two racing
// requests produce exactly one processor call.
func (s *PaymentService) Create(ctx context.Context, cmd CreatePaymentCommand) (*domain.Payment, error) {
	intent, err := domain.ParseIntent(cmd.Intent)
	if err != nil {
		return nil, err
	}
	amount, err := domain.MoneyFromString(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}

	key := cmd.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}

	if existing, err := s.payments.FindByIdempotencyKey(ctx, key); err == nil {
		s.logger.Info("idempotent create hit", "idempotency_key", key, "payment_id", existing.ID)
		metrics.IdempotentHits.Inc()
		return existing, nil
	} else if !errors.Is(err, application.ErrNotFound) {
		return nil, application.NewInternalError(err)
	}

	payment, err := domain.NewPayment(uuid.New().String(), key, intent, amount, cmd.Description, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.payments.Save(ctx, payment); err != nil {
		if errors.Is(err, application.ErrDuplicateIdempotencyKey) {
			// Lost the race: another request reserved the key first.
			metrics.IdempotentHits.Inc()
			existing, findErr := s.payments.FindByIdempotencyKey(ctx, key)
			if findErr != nil {
				return nil, application.NewInternalError(findErr)
			}
			return existing, nil
		}
		return nil, application.NewInternalError(err)
	}

	resp, err := s.processor.CreatePayment(ctx, application.CreatePaymentRequest{
		Intent:      intent,
		Amount:      amount,
		Description: cmd.Description,
		ReturnURL:   cmd.ReturnURL,
		CancelURL:   cmd.CancelURL,
	})
	if err != nil {
		s.logger.Error("processor create failed", "payment_id", payment.ID, "error", err)
		metrics.PaymentsFailed.Inc()
		if failErr := payment.Fail(); failErr == nil {
			if updErr := s.payments.Update(ctx, payment); updErr != nil {
				s.logger.Error("failed to persist FAILED status", "payment_id", payment.ID, "error", updErr)
			}
		}
		return nil, err
	}

	if err := payment.AttachProcessorPayment(resp.ProcessorPaymentID, resp.ApprovalURL); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment created", "payment_id", payment.ID, "processor_payment_id", resp.ProcessorPaymentID, "intent", intent)
	metrics.PaymentsCreated.Inc()
	return payment, nil
}

// Execute finalizes a buyer-approved payment. The row lock is held across
// the processor call so concurrent executes for the same payment serialize;
// the loser then fails its transition guard.
func (s *PaymentService) Execute(ctx context.Context, cmd ExecutePaymentCommand) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByProcessorPaymentIDForUpdate(ctx, cmd.ProcessorPaymentID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("payment", cmd.ProcessorPaymentID)
			}
			return application.NewInternalError(err)
		}

		if payment.Status != domain.StatusCreated {
			return application.NewInvalidStateError(domain.NewInvalidStateError(string(payment.Status), "executed"))
		}

		resp, err := s.processor.ExecutePayment(ctx, application.ExecutePaymentRequest{
			ProcessorPaymentID: cmd.ProcessorPaymentID,
			PayerID:            cmd.PayerID,
		})
		if err != nil {
			return err
		}

		if err := payment.Approve(resp.PayerID, resp.PayerEmail, resp.PayerName); err != nil {
			return application.NewInvalidStateError(err)
		}

		switch payment.Intent {
		case domain.IntentCapture:
			if resp.Sale == nil {
				s.logger.Warn("execute response missing sale resource", "payment_id", payment.ID)
				break
			}
			if err := payment.RecordSale(resp.Sale.SaleID, resp.Sale.Amount); err != nil {
				return err
			}
		case domain.IntentAuthorize:
			if resp.Authorization == nil {
				s.logger.Warn("execute response missing authorization resource", "payment_id", payment.ID)
				break
			}
			if err := payment.RecordAuthorization(resp.Authorization.AuthorizationID, resp.Authorization.Amount); err != nil {
				return err
			}
		}

		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		return s.moveOrderToProcessing(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment executed", "payment_id", payment.ID, "status", payment.Status)
	metrics.PaymentsExecuted.Inc()
	return payment, nil
}

// Capture draws funds from an authorization hold.
func (s *PaymentService) Capture(ctx context.Context, cmd CaptureCommand) (*domain.Payment, error) {
	amount, err := domain.MoneyFromString(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByAuthorizationIDForUpdate(ctx, cmd.AuthorizationID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("authorization", cmd.AuthorizationID)
			}
			return application.NewInternalError(err)
		}

		// Guards run before the processor is contacted.
		if !payment.IsCaptureable() {
			return application.NewInvalidStateError(domain.NewInvalidStateError(string(payment.Status), "captured"))
		}
		if !payment.Amount.SameCurrency(amount) {
			return domain.NewCurrencyMismatchError(payment.Amount.Currency, amount.Currency)
		}
		captureable := payment.CaptureableAmount()
		if amount.GreaterThan(captureable) {
			return domain.NewCaptureExceededError(amount.StringFixed(), captureable.StringFixed())
		}
		final := cmd.Final || amount.Cmp(captureable) == 0

		resp, err := s.processor.CaptureAuthorization(ctx, application.CaptureRequest{
			AuthorizationID: cmd.AuthorizationID,
			Amount:          amount,
			IsFinalCapture:  final,
		})
		if err != nil {
			return err
		}

		if err := payment.ApplyCapture(amount, resp.CaptureID, final); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("authorization captured", "payment_id", payment.ID, "captured_amount", payment.CapturedAmount.StringFixed())
	metrics.PaymentsCaptured.Inc()
	return payment, nil
}

// Refund returns captured funds by capture (or sale) id. An absent amount
// refunds the full remaining refundable balance.
func (s *PaymentService) Refund(ctx context.Context, cmd RefundCommand) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByCaptureIDForUpdate(ctx, cmd.CaptureID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("capture", cmd.CaptureID)
			}
			return application.NewInternalError(err)
		}

		if !payment.IsRefundable() {
			return application.NewInvalidStateError(domain.NewInvalidStateError(string(payment.Status), "refunded"))
		}

		refundable := payment.RefundableAmount()
		amount := refundable
		if cmd.Amount != nil {
			currency := cmd.Currency
			if currency == "" {
				currency = payment.Amount.Currency
			}
			amount, err = domain.MoneyFromString(*cmd.Amount, currency)
			if err != nil {
				return err
			}
			if !payment.Amount.SameCurrency(amount) {
				return domain.NewCurrencyMismatchError(payment.Amount.Currency, amount.Currency)
			}
			if amount.GreaterThan(refundable) {
				return domain.NewRefundExceededError(amount.StringFixed(), refundable.StringFixed())
			}
		}

		req := application.RefundRequest{TransactionID: cmd.CaptureID, Amount: amount}
		var resp *application.RefundResponse
		if payment.Intent == domain.IntentCapture {
			// Single-step sales refund through the sale resource.
			req.TransactionID = *payment.SaleID
			resp, err = s.processor.RefundSale(ctx, req)
		} else {
			resp, err = s.processor.RefundCapture(ctx, req)
		}
		if err != nil {
			return err
		}
		s.logger.Debug("processor refund accepted", "payment_id", payment.ID, "refund_id", resp.RefundID)

		if err := payment.ApplyRefund(amount, cmd.Reason); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		if payment.Status == domain.StatusRefunded {
			return s.moveOrderToRefunded(ctx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment refunded", "payment_id", payment.ID, "refunded_amount", payment.RefundedAmount.StringFixed(), "status", payment.Status)
	metrics.PaymentsRefunded.Inc()
	return payment, nil
}

// Void releases an authorization hold without moving funds.
func (s *PaymentService) Void(ctx context.Context, cmd VoidCommand) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByIDForUpdate(ctx, cmd.PaymentID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("payment", cmd.PaymentID)
			}
			return application.NewInternalError(err)
		}

		if payment.Status != domain.StatusAuthorized || payment.AuthorizationID == nil {
			return application.NewInvalidStateError(domain.NewInvalidStateError(string(payment.Status), "voided"))
		}

		if _, err := s.processor.VoidAuthorization(ctx, *payment.AuthorizationID); err != nil {
			return err
		}

		if err := payment.Void(); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("authorization voided", "payment_id", payment.ID)
	metrics.PaymentsVoided.Inc()
	return payment, nil
}

// GetPayment retrieves a payment by its internal id.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return nil, application.NewNotFoundError("payment", id)
		}
		return nil, application.NewInternalError(err)
	}
	return payment, nil
}

func (s *PaymentService) moveOrderToProcessing(ctx context.Context, payment *domain.Payment) error {
	if payment.OrderID == nil {
		return nil
	}
	order, err := s.orders.FindByIDForUpdate(ctx, *payment.OrderID)
	if err != nil {
		return application.NewInternalError(err)
	}
	if order.Status != domain.OrderStatusPending {
		return nil
	}
	if err := order.MarkProcessing(); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}
	return nil
}

func (s *PaymentService) moveOrderToRefunded(ctx context.Context, payment *domain.Payment) error {
	if payment.OrderID == nil {
		return nil
	}
	order, err := s.orders.FindByIDForUpdate(ctx, *payment.OrderID)
	if err != nil {
		return application.NewInternalError(err)
	}
	if order.Status == domain.OrderStatusRefunded {
		return nil
	}
	if err := order.MarkRefunded(); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}
	return nil
}
