package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-library-server/catalog"
)

var (
	_ catalog.BookRepo    = (*BookRepo)(nil)
	_ catalog.BorrowRepo  = (*BorrowRepo)(nil)
	_ catalog.FineRepo    = (*FineRepo)(nil)
	_ catalog.PaymentRepo = (*PaymentRepo)(nil)
)

// NewRepos returns the full Postgres-backed catalog repo set over one pool.
func NewRepos(pool *pgxpool.Pool) catalog.Repos {
	return catalog.Repos{
		Books:    &BookRepo{pool: pool},
		Borrows:  &BorrowRepo{pool: pool},
		Fines:    &FineRepo{pool: pool},
		Payments: &PaymentRepo{pool: pool},
	}
}

type BookRepo struct {
	pool *pgxpool.Pool
}

const bookColumns = "book_id, title, author, publisher, publication_year, category, isbn, quantity, available_qty, price_cents"

func scanBook(row pgx.Row) (*catalog.Book, error) {
	b := &catalog.Book{}
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.PublicationYear,
		&b.Category, &b.ISBN, &b.Quantity, &b.AvailableQty, &b.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *BookRepo) Create(ctx context.Context, book *catalog.Book) error {
	query := `INSERT INTO books (title, author, publisher, publication_year, category, isbn, quantity, available_qty, price_cents)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING book_id`
	err := r.pool.QueryRow(ctx, query,
		book.Title, book.Author, book.Publisher, book.PublicationYear,
		book.Category, book.ISBN, book.Quantity, book.AvailableQty, book.PriceCents).Scan(&book.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*catalog.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1`
	return scanBook(r.pool.QueryRow(ctx, query, id))
}

func (r *BookRepo) List(ctx context.Context, offset, limit int) ([]*catalog.Book, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY book_id LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*catalog.Book, 0)
	for rows.Next() {
		b := &catalog.Book{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.PublicationYear,
			&b.Category, &b.ISBN, &b.Quantity, &b.AvailableQty, &b.PriceCents); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *BookRepo) Update(ctx context.Context, book *catalog.Book) error {
	query := `UPDATE books
	          SET title = $2, author = $3, publisher = $4, publication_year = $5,
	              category = $6, isbn = $7, quantity = $8, available_qty = $9, price_cents = $10
	          WHERE book_id = $1`
	tag, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Author, book.Publisher, book.PublicationYear,
		book.Category, book.ISBN, book.Quantity, book.AvailableQty, book.PriceCents)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// AdjustAvailable is a single guarded UPDATE, so the availability check and
// the decrement cannot race.
func (r *BookRepo) AdjustAvailable(ctx context.Context, id int64, delta int) error {
	query := `UPDATE books SET available_qty = available_qty + $2
	          WHERE book_id = $1 AND available_qty + $2 >= 0`
	tag, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return catalog.ErrNoCopies
	}
	return nil
}

type BorrowRepo struct {
	pool *pgxpool.Pool
}

const borrowColumns = "record_id, user_id, book_id, borrow_date, due_date, return_date, book_status"

func scanBorrow(row pgx.Row) (*catalog.BorrowRecord, error) {
	rec := &catalog.BorrowRecord{}
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate, &rec.ReturnDate, &rec.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *BorrowRepo) Create(ctx context.Context, record *catalog.BorrowRecord) error {
	query := `INSERT INTO borrow_records (user_id, book_id, borrow_date, due_date, return_date, book_status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING record_id`
	err := r.pool.QueryRow(ctx, query,
		record.UserID, record.BookID, record.BorrowDate, record.DueDate, record.ReturnDate, record.Status).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *BorrowRepo) GetByID(ctx context.Context, id int64) (*catalog.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE record_id = $1`
	return scanBorrow(r.pool.QueryRow(ctx, query, id))
}

func (r *BorrowRepo) ListByUser(ctx context.Context, userID int64) ([]*catalog.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE user_id = $1 ORDER BY record_id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*catalog.BorrowRecord, 0)
	for rows.Next() {
		rec := &catalog.BorrowRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate, &rec.ReturnDate, &rec.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *BorrowRepo) SetReturned(ctx context.Context, id int64, returnDate time.Time, status catalog.BorrowStatus) error {
	query := `UPDATE borrow_records SET return_date = $2, book_status = $3 WHERE record_id = $1`
	tag, err := r.pool.Exec(ctx, query, id, returnDate, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type FineRepo struct {
	pool *pgxpool.Pool
}

const fineColumns = "fine_id, record_id, fine_date, paid_status, fine_amount_cents"

func scanFine(row pgx.Row) (*catalog.Fine, error) {
	f := &catalog.Fine{}
	err := row.Scan(&f.ID, &f.RecordID, &f.FineDate, &f.PaidStatus, &f.AmountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *FineRepo) Create(ctx context.Context, fine *catalog.Fine) error {
	query := `INSERT INTO fines (record_id, fine_date, paid_status, fine_amount_cents)
	          VALUES ($1, $2, $3, $4)
	          RETURNING fine_id`
	err := r.pool.QueryRow(ctx, query,
		fine.RecordID, fine.FineDate, fine.PaidStatus, fine.AmountCents).Scan(&fine.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *FineRepo) GetByID(ctx context.Context, id int64) (*catalog.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE fine_id = $1`
	return scanFine(r.pool.QueryRow(ctx, query, id))
}

func (r *FineRepo) GetByRecord(ctx context.Context, recordID int64) (*catalog.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE record_id = $1`
	return scanFine(r.pool.QueryRow(ctx, query, recordID))
}

func (r *FineRepo) SetPaid(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE fines SET paid_status = $2 WHERE fine_id = $1`, id, catalog.FineStatusPaid)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func (r *PaymentRepo) Create(ctx context.Context, payment *catalog.Payment) error {
	query := `INSERT INTO payments (fine_id, amount_cents, payment_method, payment_date)
	          VALUES ($1, $2, $3, $4)
	          RETURNING payment_id`
	err := r.pool.QueryRow(ctx, query,
		payment.FineID, payment.AmountCents, payment.Method, payment.PaymentDate).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByFine(ctx context.Context, fineID int64) ([]*catalog.Payment, error) {
	query := `SELECT payment_id, fine_id, amount_cents, payment_method, payment_date
	          FROM payments WHERE fine_id = $1 ORDER BY payment_id`
	rows, err := r.pool.Query(ctx, query, fineID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*catalog.Payment, 0)
	for rows.Next() {
		p := &catalog.Payment{}
		if err := rows.Scan(&p.ID, &p.FineID, &p.AmountCents, &p.Method, &p.PaymentDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PaymentRepo) TotalForFine(ctx context.Context, fineID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE fine_id = $1`, fineID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
