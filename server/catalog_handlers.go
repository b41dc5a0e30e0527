package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-library-server/catalog"
)

func (s *Server) ListBooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		books, err := s.books.List(r.Context(), offset, limit)
		if err != nil {
			s.logger.Error().Err(err).Msg("list books failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, books)
	}
}

func (s *Server) GetBookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		book, err := s.books.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeError(w, http.StatusNotFound, "book not found")
				return
			}
			s.logger.Error().Err(err).Int64("book_id", id).Msg("get book failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

func (s *Server) CreateBookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var book catalog.Book
		if !readJSON(w, r, &book) {
			return
		}
		if book.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if err := s.books.Create(r.Context(), &book); err != nil {
			s.logger.Error().Err(err).Msg("create book failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, book)
	}
}

type borrowRequest struct {
	BookID int64 `json:"book_id"`
}

// BorrowHandler opens a borrow record for the session owner.
func (s *Server) BorrowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "session required")
			return
		}
		var req borrowRequest
		if !readJSON(w, r, &req) {
			return
		}

		record, err := s.circ.Borrow(r.Context(), owner.UserID, req.BookID)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				writeError(w, http.StatusNotFound, "book not found")
			case errors.Is(err, catalog.ErrNoCopies):
				writeError(w, http.StatusConflict, "no copies available")
			default:
				s.logger.Error().Err(err).Int64("book_id", req.BookID).Msg("borrow failed")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

type returnResponse struct {
	Record *catalog.BorrowRecord `json:"record"`
	Fine   *catalog.Fine         `json:"fine,omitempty"`
}

func (s *Server) ReturnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		record, fine, err := s.circ.Return(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				writeError(w, http.StatusNotFound, "borrow record not found")
			case errors.Is(err, catalog.ErrAlreadyReturned):
				writeError(w, http.StatusConflict, "already returned")
			default:
				s.logger.Error().Err(err).Int64("record_id", id).Msg("return failed")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, returnResponse{Record: record, Fine: fine})
	}
}

type paymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"payment_method"`
}

func (s *Server) PayFineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req paymentRequest
		if !readJSON(w, r, &req) {
			return
		}

		payment, err := s.circ.PayFine(r.Context(), id, req.AmountCents, req.Method)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				writeError(w, http.StatusNotFound, "fine not found")
			case errors.Is(err, catalog.ErrFineAlreadyPaid):
				writeError(w, http.StatusConflict, "fine already paid")
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, payment)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
