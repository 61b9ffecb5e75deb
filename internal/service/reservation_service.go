package service

import (
	"context"
	"math"
	"sort"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/payment"

	"github.com/jackc/pgx/v5"
)

// ReservationService validates purchase requests against the seat ledger
// and maps reservations to checkout line items.
type ReservationService interface {
	// CheckSeats is the advisory pre-check at order creation: it sums the
	// requested quantities per distinct screening and asks the ledger.
	// It fails closed: one screening without capacity rejects the batch.
	CheckSeats(ctx context.Context, reservations []model.CreateReservationRequest) (bool, error)
	// RecheckSeatsInTx re-runs the same check over a persisted order inside
	// a transaction; this is the authoritative gate at settlement.
	RecheckSeatsInTx(ctx context.Context, tx pgx.Tx, order *model.Order) (bool, error)
	// CheckoutLineItems flattens an order's product lines into gateway line
	// items, converting prices to the processor's minor currency unit.
	CheckoutLineItems(order *model.Order) []payment.LineItem
}

type ReservationServiceImpl struct {
	ledger SeatLedger
}

func NewReservationService(ledger SeatLedger) ReservationService {
	return &ReservationServiceImpl{
		ledger: ledger,
	}
}

func (s *ReservationServiceImpl) CheckSeats(ctx context.Context, reservations []model.CreateReservationRequest) (bool, error) {
	request := model.CreateOrderRequest{Reservations: reservations}

	for screeningID, seats := range request.SeatsByScreening() {
		ok, err := s.ledger.HasCapacity(ctx, screeningID, seats)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func (s *ReservationServiceImpl) RecheckSeatsInTx(ctx context.Context, tx pgx.Tx, order *model.Order) (bool, error) {
	seatsByScreening := order.SeatsByScreening()

	// Deterministic iteration; the caller already locked these rows in
	// ascending id order.
	ids := make([]int64, 0, len(seatsByScreening))
	for id := range seatsByScreening {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, screeningID := range ids {
		ok, err := s.ledger.HasCapacityInTx(ctx, tx, screeningID, seatsByScreening[screeningID])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func (s *ReservationServiceImpl) CheckoutLineItems(order *model.Order) []payment.LineItem {
	var items []payment.LineItem
	for _, reservation := range order.Reservations {
		for _, line := range reservation.Products {
			if line.Product == nil {
				continue
			}
			items = append(items, payment.LineItem{
				Name:       line.Product.Name,
				UnitAmount: int64(math.Round(line.Product.Price * 100)),
				Quantity:   line.Number,
			})
		}
	}
	return items
}
