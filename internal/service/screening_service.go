package service

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/repository"
	"go-cinema-ticketing/pkg/paginator"
)

type ScreeningService interface {
	Create(ctx context.Context, req model.CreateScreeningRequest) (*model.Screening, error)
	List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Screening], error)
	GetByID(ctx context.Context, id int64) (*model.Screening, error)
	Deactivate(ctx context.Context, id int64) error
}

type ScreeningServiceImpl struct {
	repo   repository.ScreeningRepository
	ledger SeatLedger
}

func NewScreeningService(repo repository.ScreeningRepository, ledger SeatLedger) ScreeningService {
	return &ScreeningServiceImpl{
		repo:   repo,
		ledger: ledger,
	}
}

func (s *ScreeningServiceImpl) Create(ctx context.Context, req model.CreateScreeningRequest) (*model.Screening, error) {
	screening := &model.Screening{
		MovieID:               req.MovieID,
		CinemaID:              req.CinemaID,
		StartAt:               req.StartAt,
		EndAt:                 req.EndAt,
		InitialAvailableSeats: req.InitialAvailableSeats,
	}
	return s.repo.Create(ctx, screening)
}

func (s *ScreeningServiceImpl) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Screening], error) {
	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.AnnotateAvailability(ctx, page.Data); err != nil {
		return nil, err
	}

	return page, nil
}

func (s *ScreeningServiceImpl) GetByID(ctx context.Context, id int64) (*model.Screening, error) {
	screening, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	available, err := s.ledger.AvailableSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	screening.AvailableSeats = &available

	return screening, nil
}

func (s *ScreeningServiceImpl) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
