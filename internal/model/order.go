package model

import "time"

// OrderStatus lifecycle: PAYING is the only initial state, PAYED and
// CANCELLED are terminal. Only PAYED orders consume seat capacity.
type OrderStatus string

const (
	OrderStatusPaying    OrderStatus = "PAYING"
	OrderStatusPayed     OrderStatus = "PAYED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPaying, OrderStatusPayed, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPayed || s == OrderStatusCancelled
}

// CanTransitionTo enforces the one-way progression; terminal states absorb.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPaying:    {OrderStatusPayed, OrderStatusCancelled},
		OrderStatusPayed:     {},
		OrderStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Order is the purchase envelope. Its reservations are fixed at creation;
// only the status and the checkout session reference ever change.
type Order struct {
	ID                int64       `json:"id" db:"id"`
	CustomerID        int64       `json:"customer_id" db:"customer_id"`
	Status            OrderStatus `json:"status" db:"status"`
	CheckoutSessionID *string     `json:"checkout_session_id,omitempty" db:"checkout_session_id"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`

	Reservations []*Reservation `json:"reservations,omitempty" db:"-"`
}

// Reservation is one screening-scoped claim within an order. The customer
// id is denormalized so ownership checks don't need the parent order.
type Reservation struct {
	ID          int64 `json:"id" db:"id"`
	OrderID     int64 `json:"order_id" db:"order_id"`
	ScreeningID int64 `json:"screening_id" db:"screening_id"`
	CustomerID  int64 `json:"customer_id" db:"customer_id"`

	Products []*ReservationProduct `json:"products,omitempty" db:"-"`
}

// ReservationProduct is a ticket-type line item; Number is the seat count
// the line consumes once the order is PAYED.
type ReservationProduct struct {
	ID            int64 `json:"id" db:"id"`
	ReservationID int64 `json:"reservation_id" db:"reservation_id"`
	ProductID     int64 `json:"product_id" db:"product_id"`
	Number        int   `json:"number" db:"number"`

	Product *Product `json:"product,omitempty" db:"-"`
}

type CreateOrderRequest struct {
	Reservations []CreateReservationRequest `json:"reservations" binding:"required,min=1,dive"`
}

type CreateReservationRequest struct {
	ScreeningID int64                             `json:"screeningId" binding:"required,min=1"`
	Products    []CreateReservationProductRequest `json:"products" binding:"required,min=1,dive"`
}

type CreateReservationProductRequest struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Number    int   `json:"number" binding:"required,min=1"`
}

// SeatsByScreening sums requested quantities per distinct screening.
func (r CreateOrderRequest) SeatsByScreening() map[int64]int {
	seats := make(map[int64]int)
	for _, res := range r.Reservations {
		for _, p := range res.Products {
			seats[res.ScreeningID] += p.Number
		}
	}
	return seats
}

// SeatsByScreening is the persisted-order counterpart used by the
// settlement re-check.
func (o *Order) SeatsByScreening() map[int64]int {
	seats := make(map[int64]int)
	for _, res := range o.Reservations {
		for _, p := range res.Products {
			seats[res.ScreeningID] += p.Number
		}
	}
	return seats
}

// OrderPaymentRequired is the create-order response: the checkout URL the
// customer must visit plus the persisted order.
type OrderPaymentRequired struct {
	URL   string `json:"url"`
	Order *Order `json:"order"`
}

type PaymentCallbackParams struct {
	SessionID string `form:"sessionId" binding:"required"`
}
