package mocks

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/stretchr/testify/mock"
)

type OrderServiceMock struct {
	mock.Mock
}

func NewOrderServiceMock() *OrderServiceMock {
	return &OrderServiceMock{}
}

func (m *OrderServiceMock) Create(ctx context.Context, req model.CreateOrderRequest, user *model.User) (*model.OrderPaymentRequired, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderPaymentRequired), args.Error(1)
}

func (m *OrderServiceMock) Reconcile(ctx context.Context, sessionID string, user *model.User) (*model.Order, error) {
	args := m.Called(ctx, sessionID, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderServiceMock) FindByID(ctx context.Context, id int64, user *model.User) (*model.Order, error) {
	args := m.Called(ctx, id, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderServiceMock) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paginator.Page[*model.Order]), args.Error(1)
}
