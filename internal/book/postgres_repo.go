package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgForeignKeyViolation is the SQLSTATE for a broken foreign key.
const pgForeignKeyViolation = "23503"

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

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const sql = `
		WITH inserted AS (
			INSERT INTO books (isbn, title, publication_year, author_id, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, author_id, created_at
		)
		SELECT i.id, i.created_at, a.name
		FROM inserted i
		JOIN authors a ON a.id = i.author_id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, b.ISBN, b.Title, b.PublicationYear, b.AuthorID).
		Scan(&b.ID, &b.CreatedAt, &b.AuthorName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrAuthorNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT b.id, b.isbn, b.title, b.publication_year, b.author_id, a.name, b.created_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR b.isbn ILIKE $%d)", argn, argn))
		args = append(args, "%"+escapeLike(q.Search)+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	var order string
	switch q.Sort {
	case SortTitle:
		order = "b.title " + direction(q.Desc) + ", b.id ASC"
	case SortAuthor:
		order = "a.name " + direction(q.Desc) + ", b.title ASC, b.id ASC"
	default:
		order = "b.id ASC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books b %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.isbn, b.title, b.publication_year, b.author_id, a.name, b.created_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName, &b.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Delete runs in one transaction. The author row is locked first so two
// deletions of an author's last books cannot both leave it behind.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return DeleteResult{}, err
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	var res DeleteResult
	err = tx.QueryRow(timeoutCtx, `SELECT author_id FROM books WHERE id = $1`, id).Scan(&res.Book.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResult{}, ErrNotFound
		}
		return DeleteResult{}, err
	}

	err = tx.QueryRow(timeoutCtx, `SELECT name FROM authors WHERE id = $1 FOR UPDATE`, res.Book.AuthorID).
		Scan(&res.AuthorName)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("lock author: %w", err)
	}

	const deleteBook = `
		DELETE FROM books
		WHERE id = $1
		RETURNING id, isbn, title, publication_year, author_id, created_at`
	err = tx.QueryRow(timeoutCtx, deleteBook, id).Scan(
		&res.Book.ID, &res.Book.ISBN, &res.Book.Title, &res.Book.PublicationYear,
		&res.Book.AuthorID, &res.Book.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResult{}, ErrNotFound
		}
		return DeleteResult{}, err
	}
	res.Book.AuthorName = res.AuthorName

	const deleteOrphan = `
		DELETE FROM authors
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM books WHERE author_id = $1)`
	tag, err := tx.Exec(timeoutCtx, deleteOrphan, res.Book.AuthorID)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete orphaned author: %w", err)
	}
	res.AuthorDeleted = tag.RowsAffected() == 1

	if err := tx.Commit(timeoutCtx); err != nil {
		return DeleteResult{}, err
	}
	return res, nil
}

func direction(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
