package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

type OrderService struct {
	orders application.OrderRepository
	logger *slog.Logger
}

func NewOrderService(orders application.OrderRepository, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

func (s *OrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	subtotal, err := domain.MoneyFromString(cmd.Subtotal, cmd.Currency)
	if err != nil {
		return nil, err
	}
	tax, err := domain.MoneyFromString(cmd.Tax, cmd.Currency)
	if err != nil {
		return nil, err
	}
	shipping, err := domain.MoneyFromString(cmd.Shipping, cmd.Currency)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(uuid.New().String(), subtotal, tax, shipping, cmd.CustomerEmail, cmd.CustomerName)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.StringFixed())
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return nil, application.NewNotFoundError("order", id)
		}
		return nil, application.NewInternalError(err)
	}
	return order, nil
}
