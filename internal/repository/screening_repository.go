package repository

import (
	"context"
	"time"

	"go-cinema-ticketing/internal/model"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScreeningRepository interface {
	Create(ctx context.Context, screening *model.Screening) (*model.Screening, error)
	List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Screening], error)
	FindByID(ctx context.Context, id int64) (*model.Screening, error)
	Deactivate(ctx context.Context, id int64) error
	InitialSeats(ctx context.Context, id int64) (int, error)
	TakenSeats(ctx context.Context, id int64) (int, error)

	// Transaction methods
	LockForUpdate(ctx context.Context, tx pgx.Tx, ids []int64) error
	TakenSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error)
	InitialSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error)
}

type ScreeningRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewScreeningRepository(pool *pgxpool.Pool) ScreeningRepository {
	return &ScreeningRepositoryImpl{
		pool: pool,
	}
}

// takenSeatsQuery sums confirmed consumption for one screening. Only PAYED
// orders count; PAYING holds and CANCELLED orders never block a seat.
const takenSeatsQuery = `
	SELECT COALESCE(SUM(rp.number), 0)
	FROM reservation_products rp
	JOIN reservations r ON r.id = rp.reservation_id
	JOIN orders o ON o.id = r.order_id
	WHERE r.screening_id = $1 AND o.status = 'PAYED'
`

func (r *ScreeningRepositoryImpl) Create(ctx context.Context, screening *model.Screening) (*model.Screening, error) {
	// The INSERT ... SELECT binds the screening to a published movie and an
	// existing cinema; zero rows means the guard failed.
	query := `
		INSERT INTO screenings (movie_id, cinema_id, start_at, end_at, initial_available_seats)
		SELECT m.id, c.id, $3, $4, $5
		FROM movies m, cinemas c
		WHERE m.id = $1 AND m.published = TRUE AND c.id = $2
		RETURNING id, movie_id, cinema_id, start_at, end_at,
			initial_available_seats, active, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		screening.MovieID, screening.CinemaID,
		screening.StartAt, screening.EndAt, screening.InitialAvailableSeats,
	).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.CinemaID,
		&screening.StartAt,
		&screening.EndAt,
		&screening.InitialAvailableSeats,
		&screening.Active,
		&screening.CreatedAt,
		&screening.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, err
	}

	return screening, nil
}

func (r *ScreeningRepositoryImpl) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Screening], error) {
	countQuery := `SELECT COUNT(*) FROM screenings WHERE active = TRUE`
	listQuery := `
		SELECT id, movie_id, cinema_id, start_at, end_at,
			initial_available_seats, active, created_at, updated_at
		FROM screenings
		WHERE active = TRUE
		ORDER BY start_at
		LIMIT $1 OFFSET $2
	`

	return paginator.Paginate(ctx, r.pool, opts, countQuery, listQuery, scanScreening)
}

func scanScreening(rows pgx.Rows) (*model.Screening, error) {
	var screening model.Screening
	err := rows.Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.CinemaID,
		&screening.StartAt,
		&screening.EndAt,
		&screening.InitialAvailableSeats,
		&screening.Active,
		&screening.CreatedAt,
		&screening.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &screening, nil
}

func (r *ScreeningRepositoryImpl) FindByID(ctx context.Context, id int64) (*model.Screening, error) {
	query := `
		SELECT id, movie_id, cinema_id, start_at, end_at,
			initial_available_seats, active, created_at, updated_at
		FROM screenings
		WHERE id = $1 AND active = TRUE
	`

	var screening model.Screening
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.CinemaID,
		&screening.StartAt,
		&screening.EndAt,
		&screening.InitialAvailableSeats,
		&screening.Active,
		&screening.CreatedAt,
		&screening.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrScreeningNotFound
		}
		return nil, err
	}

	return &screening, nil
}

func (r *ScreeningRepositoryImpl) Deactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE screenings
		SET active = FALSE, updated_at = $1
		WHERE id = $2 AND active = TRUE
	`

	result, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrScreeningNotFound
	}

	return nil
}

func (r *ScreeningRepositoryImpl) InitialSeats(ctx context.Context, id int64) (int, error) {
	query := `
		SELECT initial_available_seats
		FROM screenings
		WHERE id = $1 AND active = TRUE
	`

	var seats int
	err := r.pool.QueryRow(ctx, query, id).Scan(&seats)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.ErrScreeningNotFound
		}
		return 0, err
	}

	return seats, nil
}

func (r *ScreeningRepositoryImpl) TakenSeats(ctx context.Context, id int64) (int, error) {
	var taken int
	err := r.pool.QueryRow(ctx, takenSeatsQuery, id).Scan(&taken)
	if err != nil {
		return 0, err
	}

	return taken, nil
}

// LockForUpdate takes row locks on the given screenings in id order so that
// concurrent settlements for the same screening serialize instead of both
// passing the capacity re-check. Missing or inactive screenings fail the
// whole lock.
func (r *ScreeningRepositoryImpl) LockForUpdate(ctx context.Context, tx pgx.Tx, ids []int64) error {
	query := `
		SELECT id
		FROM screenings
		WHERE id = ANY($1) AND active = TRUE
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if locked != len(ids) {
		return apperrors.ErrScreeningNotFound
	}

	return nil
}

func (r *ScreeningRepositoryImpl) TakenSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	var taken int
	err := tx.QueryRow(ctx, takenSeatsQuery, id).Scan(&taken)
	if err != nil {
		return 0, err
	}

	return taken, nil
}

func (r *ScreeningRepositoryImpl) InitialSeatsInTx(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	query := `
		SELECT initial_available_seats
		FROM screenings
		WHERE id = $1 AND active = TRUE
	`

	var seats int
	err := tx.QueryRow(ctx, query, id).Scan(&seats)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.ErrScreeningNotFound
		}
		return 0, err
	}

	return seats, nil
}
