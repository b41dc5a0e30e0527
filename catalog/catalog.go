// Package catalog holds the library's book inventory and circulation
// records: books, borrow records, fines and payments.
package catalog

import "time"

type Book struct {
	ID              int64  `json:"book_id,omitempty"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Category        string `json:"category,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	Quantity        int    `json:"quantity"`
	AvailableQty    int    `json:"available_qty"`
	PriceCents      int64  `json:"price_cents,omitempty"` // Replacement price, in cents
}

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
	BorrowStatusOverdue  BorrowStatus = "overdue"
)

type BorrowRecord struct {
	ID         int64        `json:"record_id,omitempty"`
	UserID     int64        `json:"user_id"`
	BookID     int64        `json:"book_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"` // nil while the book is out
	Status     BorrowStatus `json:"book_status"`
}

type FineStatus string

const (
	FineStatusUnpaid FineStatus = "unpaid"
	FineStatusPaid   FineStatus = "paid"
)

type Fine struct {
	ID          int64      `json:"fine_id,omitempty"`
	RecordID    int64      `json:"record_id"`
	FineDate    time.Time  `json:"fine_date"`
	PaidStatus  FineStatus `json:"paid_status"`
	AmountCents int64      `json:"fine_amount_cents"`
}

type Payment struct {
	ID          int64     `json:"payment_id,omitempty"`
	FineID      int64     `json:"fine_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"payment_method"`
	PaymentDate time.Time `json:"payment_date"`
}
