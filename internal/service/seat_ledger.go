package service

import (
	"context"
	"sync"

	"go-cinema-ticketing/internal/cache"
	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/repository"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeatLedger answers capacity questions for screenings. Capacity is always
// derived: initial seats minus the line items of PAYED orders. PAYING
// holds deliberately don't count. An uncaptured payment must not block
// other customers, and the settlement re-check is the authoritative gate.
type SeatLedger interface {
	InitialSeats(ctx context.Context, screeningID int64) (int, error)
	TakenSeats(ctx context.Context, screeningID int64) (int, error)
	AvailableSeats(ctx context.Context, screeningID int64) (int, error)
	HasCapacity(ctx context.Context, screeningID int64, requestedSeats int) (bool, error)
	// HasCapacityInTx evaluates capacity inside a transaction so settlement
	// can decide under its screening row locks.
	HasCapacityInTx(ctx context.Context, tx pgx.Tx, screeningID int64, requestedSeats int) (bool, error)
	// AnnotateAvailability fills the transient AvailableSeats field on a
	// batch of screening views, one aggregation per screening in parallel.
	AnnotateAvailability(ctx context.Context, screenings []*model.Screening) error
}

type SeatLedgerImpl struct {
	screenings repository.ScreeningRepository
	cache      cache.AvailabilityCache // optional, listing reads only
}

func NewSeatLedger(screenings repository.ScreeningRepository, availabilityCache cache.AvailabilityCache) SeatLedger {
	return &SeatLedgerImpl{
		screenings: screenings,
		cache:      availabilityCache,
	}
}

func (l *SeatLedgerImpl) InitialSeats(ctx context.Context, screeningID int64) (int, error) {
	return l.screenings.InitialSeats(ctx, screeningID)
}

func (l *SeatLedgerImpl) TakenSeats(ctx context.Context, screeningID int64) (int, error) {
	return l.screenings.TakenSeats(ctx, screeningID)
}

func (l *SeatLedgerImpl) AvailableSeats(ctx context.Context, screeningID int64) (int, error) {
	initial, err := l.screenings.InitialSeats(ctx, screeningID)
	if err != nil {
		return 0, err
	}

	taken, err := l.screenings.TakenSeats(ctx, screeningID)
	if err != nil {
		return 0, err
	}

	return initial - taken, nil
}

func (l *SeatLedgerImpl) HasCapacity(ctx context.Context, screeningID int64, requestedSeats int) (bool, error) {
	available, err := l.AvailableSeats(ctx, screeningID)
	if err != nil {
		return false, err
	}
	return hasCapacity(available, requestedSeats)
}

func (l *SeatLedgerImpl) HasCapacityInTx(ctx context.Context, tx pgx.Tx, screeningID int64, requestedSeats int) (bool, error) {
	initial, err := l.screenings.InitialSeatsInTx(ctx, tx, screeningID)
	if err != nil {
		return false, err
	}

	taken, err := l.screenings.TakenSeatsInTx(ctx, tx, screeningID)
	if err != nil {
		return false, err
	}

	return hasCapacity(initial-taken, requestedSeats)
}

// hasCapacity: a zero-seat probe asks "is anything left at all"; otherwise
// the request must fit entirely. A negative available count (possible in
// transient edge cases) simply means no capacity.
func hasCapacity(available int, requestedSeats int) (bool, error) {
	if requestedSeats < 0 {
		return false, apperrors.ErrInvalidInput
	}
	if requestedSeats == 0 {
		return available > 0, nil
	}
	return available >= requestedSeats, nil
}

func (l *SeatLedgerImpl) AnnotateAvailability(ctx context.Context, screenings []*model.Screening) error {
	var wg sync.WaitGroup
	errs := make([]error, len(screenings))

	for i, screening := range screenings {
		wg.Add(1)
		go func(i int, screening *model.Screening) {
			defer wg.Done()
			available, err := l.cachedAvailableSeats(ctx, screening.ID)
			if err != nil {
				errs[i] = err
				return
			}
			screening.AvailableSeats = &available
		}(i, screening)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *SeatLedgerImpl) cachedAvailableSeats(ctx context.Context, screeningID int64) (int, error) {
	if l.cache != nil {
		if seats, ok, err := l.cache.Get(ctx, screeningID); err == nil && ok {
			return seats, nil
		}
	}

	seats, err := l.AvailableSeats(ctx, screeningID)
	if err != nil {
		return 0, err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, screeningID, seats); err != nil {
			logger.WithComponent("ledger").Warn("failed to cache availability",
				zap.Int64("screening_id", screeningID), zap.Error(err))
		}
	}

	return seats, nil
}
