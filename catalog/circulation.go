package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultLoanPeriod is how long a borrowed book may be kept.
	DefaultLoanPeriod = 14 * 24 * time.Hour

	// DefaultDailyFineCents is charged per day a return is late.
	DefaultDailyFineCents = int64(50)
)

// Circulation implements borrowing, returning, fine assessment and payment
// over the catalog repositories.
type Circulation struct {
	repos          Repos
	loanPeriod     time.Duration
	dailyFineCents int64
	nowTime        func() time.Time // nowTime function (injectable for testing)
	logger         zerolog.Logger
}

type CirculationOption func(*Circulation)

// WithCirculationNowTime sets the now time function (primarily for testing).
func WithCirculationNowTime(nowFunc func() time.Time) CirculationOption {
	return func(c *Circulation) {
		c.nowTime = nowFunc
	}
}

// WithLoanPeriod overrides the default 14-day loan period.
func WithLoanPeriod(d time.Duration) CirculationOption {
	return func(c *Circulation) {
		c.loanPeriod = d
	}
}

// WithDailyFine overrides the default per-day late fine.
func WithDailyFine(cents int64) CirculationOption {
	return func(c *Circulation) {
		c.dailyFineCents = cents
	}
}

// WithCirculationLogger sets the logger for circulation events.
func WithCirculationLogger(logger zerolog.Logger) CirculationOption {
	return func(c *Circulation) {
		c.logger = logger
	}
}

func NewCirculation(repos Repos, options ...CirculationOption) (*Circulation, error) {
	if repos.Books == nil {
		return nil, errors.New("[catalog.NewCirculation] Books repo is required")
	}
	if repos.Borrows == nil {
		return nil, errors.New("[catalog.NewCirculation] Borrows repo is required")
	}
	if repos.Fines == nil {
		return nil, errors.New("[catalog.NewCirculation] Fines repo is required")
	}
	if repos.Payments == nil {
		return nil, errors.New("[catalog.NewCirculation] Payments repo is required")
	}

	c := &Circulation{
		repos:          repos,
		loanPeriod:     DefaultLoanPeriod,
		dailyFineCents: DefaultDailyFineCents,
		nowTime:        time.Now,
		logger:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Borrow takes one available copy of a book and opens a borrow record due
// one loan period from now.
func (c *Circulation) Borrow(ctx context.Context, userID, bookID int64) (*BorrowRecord, error) {
	if err := c.repos.Books.AdjustAvailable(ctx, bookID, -1); err != nil {
		return nil, err
	}

	now := c.nowTime()
	record := &BorrowRecord{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.Add(c.loanPeriod),
		Status:     BorrowStatusBorrowed,
	}
	if err := c.repos.Borrows.Create(ctx, record); err != nil {
		// Put the copy back; the record never opened.
		if adjErr := c.repos.Books.AdjustAvailable(ctx, bookID, 1); adjErr != nil {
			c.logger.Error().Err(adjErr).Int64("book_id", bookID).Msg("failed to restore available copy")
		}
		return nil, fmt.Errorf("[Circulation.Borrow] create record: %w", err)
	}

	c.logger.Info().Int64("user_id", userID).Int64("book_id", bookID).Int64("record_id", record.ID).Msg("book borrowed")
	return record, nil
}

// Return closes a borrow record, restores the copy and, when the return is
// late, assesses a fine at the daily rate. The assessed fine (if any) is
// returned alongside the closed record.
//
// The steps run against separate repositories, so they are compensated
// rather than transactional: a failed close takes the restored copy back,
// and a fine that cannot be recorded is logged for manual assessment
// instead of failing a return that already happened.
func (c *Circulation) Return(ctx context.Context, recordID int64) (*BorrowRecord, *Fine, error) {
	record, err := c.repos.Borrows.GetByID(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}
	if record.Status == BorrowStatusReturned || record.ReturnDate != nil {
		return nil, nil, ErrAlreadyReturned
	}

	now := c.nowTime()
	status := BorrowStatusReturned
	var fine *Fine
	if now.After(record.DueDate) {
		daysLate := int64(now.Sub(record.DueDate)/(24*time.Hour)) + 1
		fine = &Fine{
			RecordID:    record.ID,
			FineDate:    now,
			PaidStatus:  FineStatusUnpaid,
			AmountCents: daysLate * c.dailyFineCents,
		}
	}

	if err := c.repos.Books.AdjustAvailable(ctx, record.BookID, 1); err != nil {
		return nil, nil, fmt.Errorf("[Circulation.Return] restore copy: %w", err)
	}
	if err := c.repos.Borrows.SetReturned(ctx, record.ID, now, status); err != nil {
		// Take the copy back; the record is still open.
		if adjErr := c.repos.Books.AdjustAvailable(ctx, record.BookID, -1); adjErr != nil {
			c.logger.Error().Err(adjErr).Int64("book_id", record.BookID).Msg("failed to take back restored copy")
		}
		return nil, nil, fmt.Errorf("[Circulation.Return] close record: %w", err)
	}
	if fine != nil {
		if err := c.repos.Fines.Create(ctx, fine); err != nil {
			c.logger.Error().Err(err).Int64("record_id", record.ID).
				Int64("fine_cents", fine.AmountCents).Msg("failed to record fine, assess manually")
			fine = nil
		} else {
			c.logger.Info().Int64("record_id", record.ID).Int64("fine_cents", fine.AmountCents).Msg("late return fined")
		}
	}

	record.Status = status
	record.ReturnDate = &now
	return record, fine, nil
}

// PayFine records a payment against a fine and marks the fine paid once
// the payments cover its amount.
func (c *Circulation) PayFine(ctx context.Context, fineID, amountCents int64, method string) (*Payment, error) {
	if amountCents <= 0 {
		return nil, errors.New("[Circulation.PayFine] payment amount must be positive")
	}

	fine, err := c.repos.Fines.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}
	if fine.PaidStatus == FineStatusPaid {
		return nil, ErrFineAlreadyPaid
	}

	payment := &Payment{
		FineID:      fineID,
		AmountCents: amountCents,
		Method:      method,
		PaymentDate: c.nowTime(),
	}
	if err := c.repos.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("[Circulation.PayFine] create payment: %w", err)
	}

	total, err := c.repos.Payments.TotalForFine(ctx, fineID)
	if err != nil {
		return nil, fmt.Errorf("[Circulation.PayFine] total payments: %w", err)
	}
	if total >= fine.AmountCents {
		if err := c.repos.Fines.SetPaid(ctx, fineID); err != nil {
			return nil, fmt.Errorf("[Circulation.PayFine] settle fine: %w", err)
		}
		c.logger.Info().Int64("fine_id", fineID).Msg("fine settled")
	}
	return payment, nil
}
