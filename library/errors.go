package library

import "errors"

// Business-rule and storage errors surfaced by the core. The interactive
// layer shows these verbatim; none of them terminate the session.
var (
	// ErrNotFound is returned when an entity id matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntity is returned when a uniqueness constraint rejects an
	// insert (for example a taken email address).
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrReservationLimit is returned by Reserve when the user already holds
	// the configured maximum of outstanding requests.
	ErrReservationLimit = errors.New("reservation limit reached")

	// ErrBookAlreadyReserved is returned by Reserve when the book has an
	// outstanding request.
	ErrBookAlreadyReserved = errors.New("book is already reserved")

	// ErrAlreadyReturned is returned by Return when the request's return
	// date is already set.
	ErrAlreadyReturned = errors.New("book was already returned")

	// ErrInvalidInput is returned for malformed emails, ids, ISBNs or dates
	// caught before they reach storage.
	ErrInvalidInput = errors.New("invalid input")
)
