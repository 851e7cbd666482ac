package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const requestsTable = "requests"

// Reserve creates an outstanding request for the book on behalf of the user.
// The per-user cap and the one-outstanding-request-per-book rule are checked
// against fresh state inside a single transaction, and the partial unique
// index on requests backstops the book rule against writers in other
// processes.
func (s *Store) Reserve(userID, bookID int64) (*Request, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if _, err := s.GetBook(bookID); err != nil {
		return nil, fmt.Errorf("book %d: %w", bookID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var outstanding int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM requests WHERE user_id=? AND return_date IS NULL`, userID).Scan(&outstanding); err != nil {
		return nil, fmt.Errorf("count outstanding: %w", err)
	}
	if outstanding >= s.cfg.MaxReservations {
		return nil, fmt.Errorf("%w: %d of %d reservations in use", ErrReservationLimit, outstanding, s.cfg.MaxReservations)
	}

	var reserved bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM requests WHERE book_id=? AND return_date IS NULL)`, bookID).Scan(&reserved); err != nil {
		return nil, fmt.Errorf("check book: %w", err)
	}
	if reserved {
		return nil, ErrBookAlreadyReserved
	}

	delivery := s.today()
	deadline := delivery.AddDate(0, 0, s.cfg.LoanPeriodDays)
	res, err := tx.Exec(`INSERT INTO requests(book_id,user_id,delivery_date,return_deadline) VALUES(?,?,?,?)`,
		bookID, userID, delivery, deadline)
	if err != nil {
		// The unique index fires when another writer reserved the book
		// between our check and the insert.
		if errors.Is(mapStorageErr(err), ErrDuplicateEntity) {
			return nil, ErrBookAlreadyReserved
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("request id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info("created request", "request_id", id, "book_id", bookID, "user_id", userID, "deadline", deadline.Format("2006-01-02"))
	return s.GetRequest(id)
}

// Return records the book as returned today. Returning twice is rejected;
// the confirmation dialog upstream does not excuse the core from the guard.
func (s *Store) Return(requestID int64) (*Request, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var returned sql.NullTime
	err = tx.QueryRow(`SELECT return_date FROM requests WHERE id=?`, requestID).Scan(&returned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch request: %w", err)
	}
	if returned.Valid {
		return nil, ErrAlreadyReturned
	}

	if _, err := tx.Exec(`UPDATE requests SET return_date=? WHERE id=?`, s.today(), requestID); err != nil {
		return nil, fmt.Errorf("set return date: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info("request returned", "request_id", requestID)
	return s.GetRequest(requestID)
}

// GetRequest fetches a request by id.
func (s *Store) GetRequest(id int64) (*Request, error) {
	var r Request
	if err := s.getOne(&r, s.qb.From(requestsTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &r, nil
}

// OutstandingByUser lists the user's not-yet-returned requests, oldest
// first.
func (s *Store) OutstandingByUser(userID int64) ([]*Request, error) {
	var requests []*Request
	err := s.selectAll(&requests, s.qb.From(requestsTable).
		Where(goqu.C("user_id").Eq(userID), goqu.C("return_date").IsNull()).
		Order(goqu.C("delivery_date").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// OutstandingByBook returns the book's outstanding request, or ErrNotFound
// when the book is free.
func (s *Store) OutstandingByBook(bookID int64) (*Request, error) {
	var r Request
	err := s.getOne(&r, s.qb.From(requestsTable).
		Where(goqu.C("book_id").Eq(bookID), goqu.C("return_date").IsNull()))
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RequestsByUser lists the user's full request history, newest first.
func (s *Store) RequestsByUser(userID int64) ([]*Request, error) {
	var requests []*Request
	err := s.selectAll(&requests, s.qb.From(requestsTable).
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("delivery_date").Desc(), goqu.C("id").Desc()))
	if err != nil {
		return nil, err
	}
	return requests, nil
}
