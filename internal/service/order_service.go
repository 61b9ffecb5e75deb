package service

import (
	"context"
	"fmt"
	"sort"

	"go-cinema-ticketing/internal/cache"
	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/payment"
	"go-cinema-ticketing/internal/queue"
	"go-cinema-ticketing/internal/repository"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/logger"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DB is the transaction entry point; *pgxpool.Pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderService owns the order lifecycle: PAYING on creation, then exactly
// one transition to PAYED or CANCELLED at settlement.
type OrderService interface {
	Create(ctx context.Context, req model.CreateOrderRequest, user *model.User) (*model.OrderPaymentRequired, error)
	Reconcile(ctx context.Context, sessionID string, user *model.User) (*model.Order, error)
	FindByID(ctx context.Context, id int64, user *model.User) (*model.Order, error)
	List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error)
}

type OrderServiceImpl struct {
	db            DB
	orders        repository.OrderRepository
	screenings    repository.ScreeningRepository
	reservations  ReservationService
	gateway       payment.Gateway
	notifications queue.NotificationQueue
	availability  cache.AvailabilityCache // optional
}

func NewOrderService(
	db DB,
	orders repository.OrderRepository,
	screenings repository.ScreeningRepository,
	reservations ReservationService,
	gateway payment.Gateway,
	notifications queue.NotificationQueue,
	availability cache.AvailabilityCache,
) OrderService {
	return &OrderServiceImpl{
		db:            db,
		orders:        orders,
		screenings:    screenings,
		reservations:  reservations,
		gateway:       gateway,
		notifications: notifications,
		availability:  availability,
	}
}

// Create runs the optimistic admission path: an advisory capacity
// pre-check, then one transaction persisting the order with its
// reservations, then the checkout session. The pre-check is race-prone on
// purpose: PAYING orders don't consume capacity, and the settlement
// re-check in Reconcile is the gate that matters. Once the order row
// exists, any later failure flips it to CANCELLED before the error is
// returned; an observed failure never leaves an order in PAYING.
func (s *OrderServiceImpl) Create(ctx context.Context, req model.CreateOrderRequest, user *model.User) (*model.OrderPaymentRequired, error) {
	ok, err := s.reservations.CheckSeats(ctx, req.Reservations)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotEnoughSeats
	}

	order, err := s.persistOrder(ctx, req, user)
	if err != nil {
		return nil, err
	}

	// Reload with product details for the checkout line items.
	loaded, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		s.cancelFallback(order, err)
		return nil, err
	}
	order = loaded

	session, err := s.gateway.OpenSession(ctx, s.reservations.CheckoutLineItems(order), user.Email)
	if err != nil {
		err = fmt.Errorf("%w: %v", apperrors.ErrPaymentFailed, err)
		s.cancelFallback(order, err)
		return nil, err
	}

	if err := s.orders.SetCheckoutSession(ctx, order.ID, session.ID); err != nil {
		s.cancelFallback(order, err)
		return nil, err
	}
	order.CheckoutSessionID = &session.ID

	return &model.OrderPaymentRequired{URL: session.URL, Order: order}, nil
}

// persistOrder writes the order with its nested reservations and line
// items in one transaction; a failed referential guard rolls everything
// back so no partial order survives.
func (s *OrderServiceImpl) persistOrder(ctx context.Context, req model.CreateOrderRequest, user *model.User) (*model.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.orders.Create(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}

	for _, r := range req.Reservations {
		reservation, err := s.orders.AddReservation(ctx, tx, order.ID, user.ID, r.ScreeningID)
		if err != nil {
			return nil, err
		}

		for _, p := range r.Products {
			line, err := s.orders.AddReservationProduct(ctx, tx, reservation.ID, p.ProductID, p.Number)
			if err != nil {
				return nil, err
			}
			reservation.Products = append(reservation.Products, line)
		}

		order.Reservations = append(order.Reservations, reservation)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// cancelFallback flips an already-persisted order to CANCELLED after a
// failure in the checkout handshake or at settlement. Runs on a background
// context so the compensation happens even if the request was abandoned.
func (s *OrderServiceImpl) cancelFallback(order *model.Order, cause error) {
	if order == nil {
		return
	}

	log := logger.WithComponent("order").With(zap.Int64("order_id", order.ID))
	log.Warn("cancelling order after failure", zap.Error(cause))

	if err := s.orders.ForceStatus(context.Background(), order.ID, model.OrderStatusCancelled); err != nil {
		log.Error("failed to cancel order, it may be stuck in PAYING", zap.Error(err))
	}
}

// Reconcile settles an order when the customer returns from checkout. The
// capacity re-check and the settlement decision run under row locks on the
// order's screenings so two settlements for the same seats serialize: the
// second one observes the first one's PAYED write and cancels.
func (s *OrderServiceImpl) Reconcile(ctx context.Context, sessionID string, user *model.User) (*model.Order, error) {
	order, err := s.orders.FindByCheckoutSession(ctx, sessionID, user.ID)
	if err != nil {
		return nil, err
	}

	// Settlement already happened; never touch the gateway again.
	if order.Status.IsTerminal() {
		return order, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	screeningIDs := s.orderScreeningIDs(order)

	canCapture := false
	if err := s.screenings.LockForUpdate(ctx, tx, screeningIDs); err != nil {
		// A deactivated screening means the seats can no longer be honored;
		// release the hold instead of failing the callback.
		logger.WithComponent("order").Warn("screening lock failed, releasing payment",
			zap.Int64("order_id", order.ID), zap.Error(err))
	} else {
		canCapture, err = s.reservations.RecheckSeatsInTx(ctx, tx, order)
		if err != nil {
			logger.WithComponent("order").Warn("seat re-check failed, releasing payment",
				zap.Int64("order_id", order.ID), zap.Error(err))
			canCapture = false
		}
	}

	// Any gateway error counts as a payment failure; the order must not
	// stay ambiguous in PAYING.
	status := model.OrderStatusCancelled
	settled, err := s.gateway.Reconcile(ctx, sessionID, canCapture)
	if err != nil {
		logger.WithComponent("order").Error("gateway reconcile failed",
			zap.Int64("order_id", order.ID), zap.Error(err))
	} else if settled {
		status = model.OrderStatusPayed
	}

	updated, err := s.orders.SettleStatus(ctx, tx, order.ID, status)
	if err != nil {
		if err == apperrors.ErrInvalidOrderStatus {
			// Lost a settlement race on the same order; report the winner's
			// terminal state.
			return s.orders.FindByID(ctx, order.ID)
		}
		s.cancelFallback(order, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.cancelFallback(order, err)
		return nil, err
	}

	updated.Reservations = order.Reservations
	s.afterSettlement(updated, user.Email, screeningIDs)

	return updated, nil
}

// afterSettlement handles best-effort side effects: dropping cached
// availability and queueing the customer notification. Neither failure
// affects the settlement outcome.
func (s *OrderServiceImpl) afterSettlement(order *model.Order, email string, screeningIDs []int64) {
	log := logger.WithComponent("order").With(zap.Int64("order_id", order.ID))

	if s.availability != nil {
		if err := s.availability.Invalidate(context.Background(), screeningIDs...); err != nil {
			log.Warn("failed to invalidate availability cache", zap.Error(err))
		}
	}

	notification := &queue.Notification{
		OrderID: order.ID,
		Email:   email,
		Status:  order.Status,
	}
	if err := s.notifications.Publish(context.Background(), notification); err != nil {
		log.Warn("failed to publish settlement notification", zap.Error(err))
	}
}

func (s *OrderServiceImpl) orderScreeningIDs(order *model.Order) []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(order.Reservations))
	for _, reservation := range order.Reservations {
		if !seen[reservation.ScreeningID] {
			seen[reservation.ScreeningID] = true
			ids = append(ids, reservation.ScreeningID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FindByID is readable by the owner or an admin only.
func (s *OrderServiceImpl) FindByID(ctx context.Context, id int64, user *model.User) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user == nil || (!user.IsAdmin() && order.CustomerID != user.ID) {
		return nil, apperrors.ErrForbidden
	}

	return order, nil
}

func (s *OrderServiceImpl) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error) {
	return s.orders.List(ctx, opts)
}
