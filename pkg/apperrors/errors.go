package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotEnoughSeats     = errors.New("not enough seats")
	ErrScreeningNotFound  = errors.New("screening not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrPaymentFailed      = errors.New("payment failed")
)
