package author

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, a *Author) error {
	const sql = `
		INSERT INTO authors (name, birth_date, date_of_death, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql, a.Name, a.BirthDate, a.DateOfDeath).Scan(&a.ID, &a.CreatedAt)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Author, error) {
	const query = `
		SELECT a.id, a.name, a.birth_date, a.date_of_death, a.created_at, COUNT(b.id)
		FROM authors a
		LEFT JOIN books b ON b.author_id = a.id
		WHERE a.id = $1
		GROUP BY a.id`

	var a Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&a.ID, &a.Name, &a.BirthDate, &a.DateOfDeath, &a.CreatedAt, &a.BookCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Author, error) {
	const query = `
		SELECT a.id, a.name, a.birth_date, a.date_of_death, a.created_at, COUNT(b.id)
		FROM authors a
		LEFT JOIN books b ON b.author_id = a.id
		GROUP BY a.id
		ORDER BY a.name ASC, a.id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthDate, &a.DateOfDeath, &a.CreatedAt, &a.BookCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
