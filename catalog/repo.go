package catalog

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")

	// ErrNoCopies is returned when a borrow would take available
	// quantity below zero.
	ErrNoCopies = errors.New("no copies available")

	// ErrAlreadyReturned is returned when returning a record that is
	// already closed.
	ErrAlreadyReturned = errors.New("borrow record already returned")

	// ErrFineAlreadyPaid is returned when paying against a settled fine.
	ErrFineAlreadyPaid = errors.New("fine already paid")
)

type BookRepo interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	List(ctx context.Context, offset, limit int) ([]*Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id int64) error

	// AdjustAvailable changes available quantity by delta; ErrNoCopies
	// if the adjustment would go negative. Must be atomic.
	AdjustAvailable(ctx context.Context, id int64, delta int) error
}

type BorrowRepo interface {
	Create(ctx context.Context, record *BorrowRecord) error
	GetByID(ctx context.Context, id int64) (*BorrowRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]*BorrowRecord, error)

	// SetReturned closes a record with the given return date and status.
	SetReturned(ctx context.Context, id int64, returnDate time.Time, status BorrowStatus) error
}

type FineRepo interface {
	Create(ctx context.Context, fine *Fine) error
	GetByID(ctx context.Context, id int64) (*Fine, error)
	GetByRecord(ctx context.Context, recordID int64) (*Fine, error)
	SetPaid(ctx context.Context, id int64) error
}

type PaymentRepo interface {
	Create(ctx context.Context, payment *Payment) error
	ListByFine(ctx context.Context, fineID int64) ([]*Payment, error)
	TotalForFine(ctx context.Context, fineID int64) (int64, error)
}

// Repos bundles the circulation dependencies.
type Repos struct {
	Books    BookRepo
	Borrows  BorrowRepo
	Fines    FineRepo
	Payments PaymentRepo
}
