package mocks

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type OrderRepositoryMock struct {
	mock.Mock
}

func NewOrderRepositoryMock() *OrderRepositoryMock {
	return &OrderRepositoryMock{}
}

func (m *OrderRepositoryMock) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderRepositoryMock) FindByCheckoutSession(ctx context.Context, sessionID string, customerID int64) (*model.Order, error) {
	args := m.Called(ctx, sessionID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderRepositoryMock) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paginator.Page[*model.Order]), args.Error(1)
}

func (m *OrderRepositoryMock) SetCheckoutSession(ctx context.Context, id int64, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *OrderRepositoryMock) ForceStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *OrderRepositoryMock) Create(ctx context.Context, tx pgx.Tx, customerID int64) (*model.Order, error) {
	args := m.Called(ctx, tx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderRepositoryMock) AddReservation(ctx context.Context, tx pgx.Tx, orderID int64, customerID int64, screeningID int64) (*model.Reservation, error) {
	args := m.Called(ctx, tx, orderID, customerID, screeningID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *OrderRepositoryMock) AddReservationProduct(ctx context.Context, tx pgx.Tx, reservationID int64, productID int64, number int) (*model.ReservationProduct, error) {
	args := m.Called(ctx, tx, reservationID, productID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReservationProduct), args.Error(1)
}

func (m *OrderRepositoryMock) SettleStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, tx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}
