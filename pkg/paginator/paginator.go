package paginator

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const DefaultPerPage = 10

// Options is a 1-indexed page request. Zero values fall back to defaults.
type Options struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"perPage" binding:"omitempty,min=1"`
}

type Meta struct {
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
	Prev        *int `json:"prev"`
	Next        *int `json:"next"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Querier covers *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Paginate runs countSQL and listSQL with the same args and assembles a page.
// listSQL must end with LIMIT/OFFSET placeholders numbered len(args)+1 and
// len(args)+2.
func Paginate[T any](
	ctx context.Context,
	q Querier,
	opts Options,
	countSQL string,
	listSQL string,
	scan func(pgx.Rows) (T, error),
	args ...any,
) (*Page[T], error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := make([]any, 0, len(args)+2)
	listArgs = append(listArgs, args...)
	listArgs = append(listArgs, perPage, (page-1)*perPage)

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lastPage := (total + perPage - 1) / perPage

	meta := Meta{
		Total:       total,
		LastPage:    lastPage,
		CurrentPage: page,
		PerPage:     perPage,
	}
	if page > 1 {
		prev := page - 1
		meta.Prev = &prev
	}
	if page < lastPage {
		next := page + 1
		meta.Next = &next
	}

	return &Page[T]{Data: data, Meta: meta}, nil
}
