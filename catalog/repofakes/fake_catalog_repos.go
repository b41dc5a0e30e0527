package fakecatalogrepos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-library-server/catalog"
)

var (
	_ catalog.BookRepo    = (*FakeBookRepo)(nil)
	_ catalog.BorrowRepo  = (*FakeBorrowRepo)(nil)
	_ catalog.FineRepo    = (*FakeFineRepo)(nil)
	_ catalog.PaymentRepo = (*FakePaymentRepo)(nil)
)

// NewRepos returns a full in-memory catalog repo set.
func NewRepos() catalog.Repos {
	return catalog.Repos{
		Books:    NewFakeBookRepo(),
		Borrows:  NewFakeBorrowRepo(),
		Fines:    NewFakeFineRepo(),
		Payments: NewFakePaymentRepo(),
	}
}

type FakeBookRepo struct {
	books  map[int64]*catalog.Book
	nextID int64
	lock   sync.RWMutex
}

func NewFakeBookRepo() *FakeBookRepo {
	return &FakeBookRepo{books: make(map[int64]*catalog.Book), nextID: 1}
}

func (br *FakeBookRepo) Create(_ context.Context, book *catalog.Book) error {
	br.lock.Lock()
	defer br.lock.Unlock()

	if book.ID == 0 {
		book.ID = br.nextID
		br.nextID++
	}
	cp := *book
	br.books[book.ID] = &cp
	return nil
}

func (br *FakeBookRepo) GetByID(_ context.Context, id int64) (*catalog.Book, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	book, ok := br.books[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *book
	return &cp, nil
}

func (br *FakeBookRepo) List(_ context.Context, offset, limit int) ([]*catalog.Book, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	list := make([]*catalog.Book, 0, len(br.books))
	for _, b := range br.books {
		cp := *b
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*catalog.Book{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (br *FakeBookRepo) Update(_ context.Context, book *catalog.Book) error {
	br.lock.Lock()
	defer br.lock.Unlock()

	if _, ok := br.books[book.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *book
	br.books[book.ID] = &cp
	return nil
}

func (br *FakeBookRepo) Delete(_ context.Context, id int64) error {
	br.lock.Lock()
	defer br.lock.Unlock()

	if _, ok := br.books[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(br.books, id)
	return nil
}

func (br *FakeBookRepo) AdjustAvailable(_ context.Context, id int64, delta int) error {
	br.lock.Lock()
	defer br.lock.Unlock()

	book, ok := br.books[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if book.AvailableQty+delta < 0 {
		return catalog.ErrNoCopies
	}
	book.AvailableQty += delta
	return nil
}

type FakeBorrowRepo struct {
	records map[int64]*catalog.BorrowRecord
	nextID  int64
	lock    sync.RWMutex
}

func NewFakeBorrowRepo() *FakeBorrowRepo {
	return &FakeBorrowRepo{records: make(map[int64]*catalog.BorrowRecord), nextID: 1}
}

func (rr *FakeBorrowRepo) Create(_ context.Context, record *catalog.BorrowRecord) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if record.ID == 0 {
		record.ID = rr.nextID
		rr.nextID++
	}
	cp := *record
	rr.records[record.ID] = &cp
	return nil
}

func (rr *FakeBorrowRepo) GetByID(_ context.Context, id int64) (*catalog.BorrowRecord, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	record, ok := rr.records[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (rr *FakeBorrowRepo) ListByUser(_ context.Context, userID int64) ([]*catalog.BorrowRecord, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	list := make([]*catalog.BorrowRecord, 0)
	for _, r := range rr.records {
		if r.UserID == userID {
			cp := *r
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (rr *FakeBorrowRepo) SetReturned(_ context.Context, id int64, returnDate time.Time, status catalog.BorrowStatus) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	record, ok := rr.records[id]
	if !ok {
		return catalog.ErrNotFound
	}
	record.ReturnDate = &returnDate
	record.Status = status
	return nil
}

type FakeFineRepo struct {
	fines  map[int64]*catalog.Fine
	nextID int64
	lock   sync.RWMutex
}

func NewFakeFineRepo() *FakeFineRepo {
	return &FakeFineRepo{fines: make(map[int64]*catalog.Fine), nextID: 1}
}

func (fr *FakeFineRepo) Create(_ context.Context, fine *catalog.Fine) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	if fine.ID == 0 {
		fine.ID = fr.nextID
		fr.nextID++
	}
	cp := *fine
	fr.fines[fine.ID] = &cp
	return nil
}

func (fr *FakeFineRepo) GetByID(_ context.Context, id int64) (*catalog.Fine, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	fine, ok := fr.fines[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *fine
	return &cp, nil
}

func (fr *FakeFineRepo) GetByRecord(_ context.Context, recordID int64) (*catalog.Fine, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	for _, f := range fr.fines {
		if f.RecordID == recordID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (fr *FakeFineRepo) SetPaid(_ context.Context, id int64) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	fine, ok := fr.fines[id]
	if !ok {
		return catalog.ErrNotFound
	}
	fine.PaidStatus = catalog.FineStatusPaid
	return nil
}

type FakePaymentRepo struct {
	payments map[int64]*catalog.Payment
	nextID   int64
	lock     sync.RWMutex
}

func NewFakePaymentRepo() *FakePaymentRepo {
	return &FakePaymentRepo{payments: make(map[int64]*catalog.Payment), nextID: 1}
}

func (pr *FakePaymentRepo) Create(_ context.Context, payment *catalog.Payment) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if payment.ID == 0 {
		payment.ID = pr.nextID
		pr.nextID++
	}
	cp := *payment
	pr.payments[payment.ID] = &cp
	return nil
}

func (pr *FakePaymentRepo) ListByFine(_ context.Context, fineID int64) ([]*catalog.Payment, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	list := make([]*catalog.Payment, 0)
	for _, p := range pr.payments {
		if p.FineID == fineID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (pr *FakePaymentRepo) TotalForFine(_ context.Context, fineID int64) (int64, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	var total int64
	for _, p := range pr.payments {
		if p.FineID == fineID {
			total += p.AmountCents
		}
	}
	return total, nil
}
