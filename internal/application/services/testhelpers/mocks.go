package testhelpers

import (
	"context"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stretchr/testify/mock"
)

// MockProcessorClient is a testify mock for the processor port.
type MockProcessorClient struct {
	mock.Mock
}

func (m *MockProcessorClient) CreatePayment(ctx context.Context, req application.CreatePaymentRequest) (*application.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CreatePaymentResponse), args.Error(1)
}

func (m *MockProcessorClient) ExecutePayment(ctx context.Context, req application.ExecutePaymentRequest) (*application.ExecutePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ExecutePaymentResponse), args.Error(1)
}

func (m *MockProcessorClient) CaptureAuthorization(ctx context.Context, req application.CaptureRequest) (*application.CaptureResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CaptureResponse), args.Error(1)
}

func (m *MockProcessorClient) RefundSale(ctx context.Context, req application.RefundRequest) (*application.RefundResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.RefundResponse), args.Error(1)
}

func (m *MockProcessorClient) RefundCapture(ctx context.Context, req application.RefundRequest) (*application.RefundResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.RefundResponse), args.Error(1)
}

func (m *MockProcessorClient) VoidAuthorization(ctx context.Context, authorizationID string) (*application.VoidResponse, error) {
	args := m.Called(ctx, authorizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.VoidResponse), args.Error(1)
}
