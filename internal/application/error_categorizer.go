package application

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stackpay/paygate/internal/domain"
)

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeMissingRequiredField,
			domain.ErrCodeInvalidAmount,
			domain.ErrCodeInvalidCurrency,
			domain.ErrCodeCurrencyMismatch,
			domain.ErrCodeInvalidIntent:
			return http.StatusBadRequest
		case domain.ErrCodeInvalidTransition,
			domain.ErrCodeInvalidState,
			domain.ErrCodeCaptureExceeded,
			domain.ErrCodeRefundExceeded,
			domain.ErrCodeProcessorIDConflict:
			return http.StatusConflict
		}
	}

	if procErr, ok := IsProcessorError(err); ok {
		if procErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if procErr, ok := IsProcessorError(err); ok {
		return strings.ToUpper(procErr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return "INTERNAL_ERROR"
}
