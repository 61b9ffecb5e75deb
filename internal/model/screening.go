package model

import "time"

// Screening is one showing of a movie at a cinema. Capacity is fixed at
// creation; rows are deactivated, never deleted.
type Screening struct {
	ID                    int64     `json:"id" db:"id"`
	MovieID               int64     `json:"movie_id" db:"movie_id"`
	CinemaID              int64     `json:"cinema_id" db:"cinema_id"`
	StartAt               time.Time `json:"start" db:"start_at"`
	EndAt                 time.Time `json:"end" db:"end_at"`
	InitialAvailableSeats int       `json:"initialAvailableSeats" db:"initial_available_seats"`
	Active                bool      `json:"active" db:"active"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`

	// AvailableSeats is derived for display, never stored.
	AvailableSeats *int `json:"availableSeats,omitempty" db:"-"`
}

type CreateScreeningRequest struct {
	MovieID               int64     `json:"movieId" binding:"required"`
	CinemaID              int64     `json:"cinemaId" binding:"required"`
	StartAt               time.Time `json:"start" binding:"required"`
	EndAt                 time.Time `json:"end" binding:"required,gtfield=StartAt"`
	InitialAvailableSeats int       `json:"initialAvailableSeats" binding:"required,min=1"`
}
