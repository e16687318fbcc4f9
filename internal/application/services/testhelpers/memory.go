// Package testhelpers provides in-memory ports for service tests.
package testhelpers

import (
	"context"
	"sync"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

// MemoryPaymentRepository keeps every lookup key in its own map so tests
// exercise the same indexed access paths the SQL schema provides.
type MemoryPaymentRepository struct {
	mu                 sync.Mutex
	byID               map[string]*domain.Payment
	byIdempotencyKey   map[string]string
	byProcessorPayment map[string]string
	byAuthorization    map[string]string
	byCapture          map[string]string
	bySale             map[string]string
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		byID:               make(map[string]*domain.Payment),
		byIdempotencyKey:   make(map[string]string),
		byProcessorPayment: make(map[string]string),
		byAuthorization:    make(map[string]string),
		byCapture:          make(map[string]string),
		bySale:             make(map[string]string),
	}
}

func (r *MemoryPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byIdempotencyKey[payment.IdempotencyKey]; exists {
		return application.ErrDuplicateIdempotencyKey
	}
	r.store(payment)
	return nil
}

func (r *MemoryPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[payment.ID]; !exists {
		return application.ErrNotFound
	}
	r.store(payment)
	return nil
}

func (r *MemoryPaymentRepository) store(payment *domain.Payment) {
	copied := *payment
	r.byID[payment.ID] = &copied
	r.byIdempotencyKey[payment.IdempotencyKey] = payment.ID
	if payment.ProcessorPaymentID != nil {
		r.byProcessorPayment[*payment.ProcessorPaymentID] = payment.ID
	}
	if payment.AuthorizationID != nil {
		r.byAuthorization[*payment.AuthorizationID] = payment.ID
	}
	if payment.CaptureID != nil {
		r.byCapture[*payment.CaptureID] = payment.ID
	}
	if payment.SaleID != nil {
		r.bySale[*payment.SaleID] = payment.ID
	}
}

func (r *MemoryPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *MemoryPaymentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *MemoryPaymentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byIdempotencyKey[key]
	if !ok {
		return nil, application.ErrNotFound
	}
	return r.get(id)
}

func (r *MemoryPaymentRepository) FindByProcessorPaymentIDForUpdate(ctx context.Context, processorPaymentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byProcessorPayment[processorPaymentID]
	if !ok {
		return nil, application.ErrNotFound
	}
	return r.get(id)
}

func (r *MemoryPaymentRepository) FindByAuthorizationIDForUpdate(ctx context.Context, authorizationID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byAuthorization[authorizationID]
	if !ok {
		return nil, application.ErrNotFound
	}
	return r.get(id)
}

func (r *MemoryPaymentRepository) FindByCaptureIDForUpdate(ctx context.Context, captureID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byCapture[captureID]; ok {
		return r.get(id)
	}
	if id, ok := r.bySale[captureID]; ok {
		return r.get(id)
	}
	return nil, application.ErrNotFound
}

func (r *MemoryPaymentRepository) get(id string) (*domain.Payment, error) {
	payment, ok := r.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	copied := *payment
	return &copied, nil
}

type MemoryOrderRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{byID: make(map[string]*domain.Order)}
}

func (r *MemoryOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.byID[order.ID] = &copied
	return nil
}

func (r *MemoryOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[order.ID]; !ok {
		return application.ErrNotFound
	}
	copied := *order
	r.byID[order.ID] = &copied
	return nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *MemoryOrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

type MemorySubscriptionRepository struct {
	mu             sync.Mutex
	byProcessorSub map[string]*domain.Subscription
}

func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{byProcessorSub: make(map[string]*domain.Subscription)}
}

func (r *MemorySubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sub
	r.byProcessorSub[sub.ProcessorSubscriptionID] = &copied
	return nil
}

func (r *MemorySubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	return r.Save(ctx, sub)
}

func (r *MemorySubscriptionRepository) FindByProcessorSubscriptionIDForUpdate(ctx context.Context, processorSubscriptionID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byProcessorSub[processorSubscriptionID]
	if !ok {
		return nil, application.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

type MemoryWebhookEventRepository struct {
	mu        sync.Mutex
	byEventID map[string]*domain.WebhookEvent
}

func NewMemoryWebhookEventRepository() *MemoryWebhookEventRepository {
	return &MemoryWebhookEventRepository{byEventID: make(map[string]*domain.WebhookEvent)}
}

func (r *MemoryWebhookEventRepository) Insert(ctx context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEventID[event.EventID]; exists {
		return application.ErrDuplicateEventID
	}
	copied := *event
	r.byEventID[event.EventID] = &copied
	return nil
}

func (r *MemoryWebhookEventRepository) FindByEventID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.byEventID[eventID]
	if !ok {
		return nil, application.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *MemoryWebhookEventRepository) MarkProcessed(ctx context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byEventID[event.EventID]
	if !ok {
		return application.ErrNotFound
	}
	stored.Processed = event.Processed
	stored.ProcessedAt = event.ProcessedAt
	return nil
}

func (r *MemoryWebhookEventRepository) ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.WebhookEvent
	for _, event := range r.byEventID {
		if event.Processed {
			continue
		}
		copied := *event
		out = append(out, &copied)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// PassthroughUnitOfWork runs the function directly; in-memory repositories
// have no transactions to coordinate.
type PassthroughUnitOfWork struct{}

func (PassthroughUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
