package repository

import (
	"context"
	"fmt"
	"time"

	"go-cinema-ticketing/internal/model"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindByCheckoutSession(ctx context.Context, sessionID string, customerID int64) (*model.Order, error)
	List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error)
	SetCheckoutSession(ctx context.Context, id int64, sessionID string) error
	// ForceStatus flips an order regardless of its current state; reserved
	// for the create-path compensation where the order must not stay PAYING.
	ForceStatus(ctx context.Context, id int64, status model.OrderStatus) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, customerID int64) (*model.Order, error)
	AddReservation(ctx context.Context, tx pgx.Tx, orderID int64, customerID int64, screeningID int64) (*model.Reservation, error)
	AddReservationProduct(ctx context.Context, tx pgx.Tx, reservationID int64, productID int64, number int) (*model.ReservationProduct, error)
	SettleStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) (*model.Order, error)
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, customerID int64) (*model.Order, error) {
	query := `
		INSERT INTO orders (customer_id, status)
		VALUES ($1, $2)
		RETURNING id, customer_id, status, checkout_session_id, created_at, updated_at
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, customerID, model.OrderStatusPaying).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.CheckoutSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &order, nil
}

// AddReservation inserts a reservation bound to an active screening whose
// movie is still published. Zero rows means the screening was deactivated
// or unpublished concurrently; no orphaned reservation is ever written.
func (r *OrderRepositoryImpl) AddReservation(ctx context.Context, tx pgx.Tx, orderID int64, customerID int64, screeningID int64) (*model.Reservation, error) {
	query := `
		INSERT INTO reservations (order_id, customer_id, screening_id)
		SELECT $1, $2, s.id
		FROM screenings s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.id = $3 AND s.active = TRUE AND m.published = TRUE
		RETURNING id, order_id, screening_id, customer_id
	`

	var reservation model.Reservation
	err := tx.QueryRow(ctx, query, orderID, customerID, screeningID).Scan(
		&reservation.ID,
		&reservation.OrderID,
		&reservation.ScreeningID,
		&reservation.CustomerID,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrScreeningNotFound
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return &reservation, nil
}

func (r *OrderRepositoryImpl) AddReservationProduct(ctx context.Context, tx pgx.Tx, reservationID int64, productID int64, number int) (*model.ReservationProduct, error) {
	query := `
		INSERT INTO reservation_products (reservation_id, product_id, number)
		SELECT $1, p.id, $3
		FROM products p
		WHERE p.id = $2
		RETURNING id, reservation_id, product_id, number
	`

	var line model.ReservationProduct
	err := tx.QueryRow(ctx, query, reservationID, productID, number).Scan(
		&line.ID,
		&line.ReservationID,
		&line.ProductID,
		&line.Number,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to create reservation product: %w", err)
	}

	return &line, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, customer_id, status, checkout_session_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.CheckoutSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	if err := r.loadReservations(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByCheckoutSession scopes the lookup to the session's owner so one
// customer can never reconcile another customer's checkout. A wrong owner
// is indistinguishable from a missing session.
func (r *OrderRepositoryImpl) FindByCheckoutSession(ctx context.Context, sessionID string, customerID int64) (*model.Order, error) {
	query := `
		SELECT id, customer_id, status, checkout_session_id, created_at, updated_at
		FROM orders
		WHERE checkout_session_id = $1 AND customer_id = $2
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, sessionID, customerID).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.CheckoutSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	if err := r.loadReservations(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepositoryImpl) loadReservations(ctx context.Context, order *model.Order) error {
	query := `
		SELECT r.id, r.order_id, r.screening_id, r.customer_id,
			rp.id, rp.reservation_id, rp.product_id, rp.number,
			p.id, p.name, p.price, p.created_at, p.updated_at
		FROM reservations r
		JOIN reservation_products rp ON rp.reservation_id = r.id
		JOIN products p ON p.id = rp.product_id
		WHERE r.order_id = $1
		ORDER BY r.id, rp.id
	`

	rows, err := r.pool.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[int64]*model.Reservation)
	for rows.Next() {
		var reservation model.Reservation
		var line model.ReservationProduct
		var product model.Product

		err := rows.Scan(
			&reservation.ID,
			&reservation.OrderID,
			&reservation.ScreeningID,
			&reservation.CustomerID,
			&line.ID,
			&line.ReservationID,
			&line.ProductID,
			&line.Number,
			&product.ID,
			&product.Name,
			&product.Price,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return err
		}

		existing, ok := byID[reservation.ID]
		if !ok {
			existing = &reservation
			byID[reservation.ID] = existing
			order.Reservations = append(order.Reservations, existing)
		}
		line.Product = &product
		existing.Products = append(existing.Products, &line)
	}

	return rows.Err()
}

func (r *OrderRepositoryImpl) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Order], error) {
	countQuery := `SELECT COUNT(*) FROM orders`
	listQuery := `
		SELECT id, customer_id, status, checkout_session_id, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return paginator.Paginate(ctx, r.pool, opts, countQuery, listQuery, func(rows pgx.Rows) (*model.Order, error) {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.Status,
			&order.CheckoutSessionID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &order, nil
	})
}

func (r *OrderRepositoryImpl) SetCheckoutSession(ctx context.Context, id int64, sessionID string) error {
	query := `
		UPDATE orders
		SET checkout_session_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, sessionID, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}

// SettleStatus moves a PAYING order to a terminal state. It refuses to
// touch an order that has already settled, which keeps terminal states
// monotonic even if two settlements race on the same order.
func (r *OrderRepositoryImpl) SettleStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) (*model.Order, error) {
	if !model.OrderStatusPaying.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING id, customer_id, status, checkout_session_id, created_at, updated_at
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, status, time.Now().UTC(), id, model.OrderStatusPaying).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.CheckoutSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidOrderStatus
		}
		return nil, fmt.Errorf("failed to settle order status: %w", err)
	}

	return &order, nil
}

func (r *OrderRepositoryImpl) ForceStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}
