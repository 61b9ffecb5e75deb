package mocks

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type ScreeningRepositoryMock struct {
	mock.Mock
}

func NewScreeningRepositoryMock() *ScreeningRepositoryMock {
	return &ScreeningRepositoryMock{}
}

func (m *ScreeningRepositoryMock) Create(ctx context.Context, screening *model.Screening) (*model.Screening, error) {
	args := m.Called(ctx, screening)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screening), args.Error(1)
}

func (m *ScreeningRepositoryMock) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Screening], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paginator.Page[*model.Screening]), args.Error(1)
}

func (m *ScreeningRepositoryMock) FindByID(ctx context.Context, id int64) (*model.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screening), args.Error(1)
}

func (m *ScreeningRepositoryMock) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ScreeningRepositoryMock) InitialSeats(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *ScreeningRepositoryMock) TakenSeats(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *ScreeningRepositoryMock) LockForUpdate(ctx context.Context, tx pgx.Tx, ids []int64) error {
	args := m.Called(ctx, tx, ids)
	return args.Error(0)
}

func (m *ScreeningRepositoryMock) TakenSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	args := m.Called(ctx, tx, id)
	return args.Int(0), args.Error(1)
}

func (m *ScreeningRepositoryMock) InitialSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	args := m.Called(ctx, tx, id)
	return args.Int(0), args.Error(1)
}
