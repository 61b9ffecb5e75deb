package mocks

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/payment"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) CheckSeats(ctx context.Context, reservations []model.CreateReservationRequest) (bool, error) {
	args := m.Called(ctx, reservations)
	return args.Bool(0), args.Error(1)
}

func (m *ReservationServiceMock) RecheckSeatsInTx(ctx context.Context, tx pgx.Tx, order *model.Order) (bool, error) {
	args := m.Called(ctx, tx, order)
	return args.Bool(0), args.Error(1)
}

func (m *ReservationServiceMock) CheckoutLineItems(order *model.Order) []payment.LineItem {
	args := m.Called(order)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]payment.LineItem)
}
