package mocks

import (
	"context"

	"go-cinema-ticketing/internal/payment"

	"github.com/stretchr/testify/mock"
)

type GatewayMock struct {
	mock.Mock
}

func NewGatewayMock() *GatewayMock {
	return &GatewayMock{}
}

func (m *GatewayMock) OpenSession(ctx context.Context, items []payment.LineItem, customerEmail string) (*payment.Session, error) {
	args := m.Called(ctx, items, customerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *GatewayMock) Reconcile(ctx context.Context, sessionID string, shouldCapture bool) (bool, error) {
	args := m.Called(ctx, sessionID, shouldCapture)
	return args.Bool(0), args.Error(1)
}
