package services

import (
	"context"
	"errors"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

// Reconcile methods apply processor-originated notifications through the
// same guarded transitions as the API operations. Each is a no-op when the
// local record already reflects the notified state.

// ReconcileCaptureCompleted settles a captured payment.
func (s *PaymentService) ReconcileCaptureCompleted(ctx context.Context, captureID string) error {
	return s.uow.Run(ctx, func(ctx context.Context) error {
		payment, err := s.payments.FindByCaptureIDForUpdate(ctx, captureID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("capture", captureID)
			}
			return application.NewInternalError(err)
		}

		if payment.Status != domain.StatusCaptured {
			s.logger.Info("capture completion already reflected", "payment_id", payment.ID, "status", payment.Status)
			return nil
		}
		if err := payment.Complete(); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		s.logger.Info("payment settled via notification", "payment_id", payment.ID)
		return nil
	})
}

// ReconcileCaptureRefunded applies a processor-side refund the service did
// not initiate. Without an amount in the notification the full remaining
// refundable balance is considered returned.
func (s *PaymentService) ReconcileCaptureRefunded(ctx context.Context, captureID string) error {
	return s.uow.Run(ctx, func(ctx context.Context) error {
		payment, err := s.payments.FindByCaptureIDForUpdate(ctx, captureID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("capture", captureID)
			}
			return application.NewInternalError(err)
		}

		if !payment.IsRefundable() {
			s.logger.Info("refund notification already reflected", "payment_id", payment.ID, "status", payment.Status)
			return nil
		}
		remaining := payment.RefundableAmount()
		if err := payment.ApplyRefund(remaining, "processor notification"); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		if payment.Status == domain.StatusRefunded {
			if err := s.moveOrderToRefunded(ctx, payment); err != nil {
				return err
			}
		}
		s.logger.Info("payment refunded via notification", "payment_id", payment.ID, "amount", remaining.StringFixed())
		return nil
	})
}

// ReconcileAuthorizationVoided releases a hold voided on the processor side.
func (s *PaymentService) ReconcileAuthorizationVoided(ctx context.Context, authorizationID string) error {
	return s.uow.Run(ctx, func(ctx context.Context) error {
		payment, err := s.payments.FindByAuthorizationIDForUpdate(ctx, authorizationID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("authorization", authorizationID)
			}
			return application.NewInternalError(err)
		}

		if payment.Status == domain.StatusVoided {
			return nil
		}
		if err := payment.Void(); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			return application.NewInternalError(err)
		}
		s.logger.Info("authorization voided via notification", "payment_id", payment.ID)
		return nil
	})
}
