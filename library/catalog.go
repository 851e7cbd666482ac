package library

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	authorsTable    = "authors"
	publishersTable = "publishers"
	booksTable      = "books"
)

// ---------------------------------------------------------------------------
// Authors
// ---------------------------------------------------------------------------

// CreateAuthor inserts an author unless one with the same name (any casing)
// exists, in which case the existing row is returned.
func (s *Store) CreateAuthor(firstName, lastName string) (*Author, error) {
	firstName, lastName = titleCase(firstName), titleCase(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: author name is required", ErrInvalidInput)
	}

	var existing Author
	err := s.getOne(&existing, s.authorByNameQuery(firstName, lastName))
	if err == nil {
		s.log.Warn("author already exists, no row inserted", "author_id", existing.ID, "name", existing.FullName())
		return &existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := s.insertRow(s.qb.Insert(authorsTable).Rows(goqu.Record{
		"first_name": firstName,
		"last_name":  lastName,
	}))
	if err != nil {
		return nil, err
	}

	s.log.Info("created author", "author_id", id, "name", firstName+" "+lastName)
	return s.GetAuthor(id)
}

func (s *Store) authorByNameQuery(firstName, lastName string) *goqu.SelectDataset {
	return s.qb.From(authorsTable).Where(
		goqu.L("lower(first_name)").Eq(strings.ToLower(firstName)),
		goqu.L("lower(last_name)").Eq(strings.ToLower(lastName)),
	)
}

// GetAuthor fetches an author by id.
func (s *Store) GetAuthor(id int64) (*Author, error) {
	var a Author
	if err := s.getOne(&a, s.qb.From(authorsTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &a, nil
}

// SearchAuthors matches the query against first or last name, case
// insensitively.
func (s *Store) SearchAuthors(q string) ([]*Author, error) {
	pattern := "%" + strings.TrimSpace(q) + "%"
	var authors []*Author
	err := s.selectAll(&authors, s.qb.From(authorsTable).
		Where(goqu.Or(
			goqu.C("first_name").Like(pattern),
			goqu.C("last_name").Like(pattern),
		)).
		Order(goqu.C("last_name").Asc(), goqu.C("first_name").Asc()))
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// ---------------------------------------------------------------------------
// Publishers
// ---------------------------------------------------------------------------

// CreatePublisher inserts a publisher unless the same normalized name and
// city pair exists already.
func (s *Store) CreatePublisher(name, city string) (*Publisher, error) {
	name, city = titleCase(name), capitalize(city)
	if name == "" || city == "" {
		return nil, fmt.Errorf("%w: publisher name and city are required", ErrInvalidInput)
	}

	var existing Publisher
	err := s.getOne(&existing, s.qb.From(publishersTable).
		Where(goqu.C("name").Eq(name), goqu.C("city").Eq(city)))
	if err == nil {
		s.log.Warn("publisher already exists, no row inserted", "publisher_id", existing.ID, "name", existing.Name)
		return &existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := s.insertRow(s.qb.Insert(publishersTable).Rows(goqu.Record{
		"name": name,
		"city": city,
	}))
	if err != nil {
		return nil, err
	}

	s.log.Info("created publisher", "publisher_id", id, "name", name, "city", city)
	return s.GetPublisher(id)
}

// GetPublisher fetches a publisher by id.
func (s *Store) GetPublisher(id int64) (*Publisher, error) {
	var p Publisher
	if err := s.getOne(&p, s.qb.From(publishersTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchPublishers matches the query against the publisher name.
func (s *Store) SearchPublishers(q string) ([]*Publisher, error) {
	pattern := "%" + strings.TrimSpace(q) + "%"
	var publishers []*Publisher
	err := s.selectAll(&publishers, s.qb.From(publishersTable).
		Where(goqu.C("name").Like(pattern)).
		Order(goqu.C("name").Asc()))
	if err != nil {
		return nil, err
	}
	return publishers, nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// CreateBook adds a book to the catalog. Author and publisher must exist;
// publishYear, volume and isbn may be nil. The ISBN is validated and stored
// in its canonical 13-digit form.
func (s *Store) CreateBook(name string, authorID, publisherID int64, publishYear, volume *int64, isbn *string) (*Book, error) {
	name = titleCase(name)
	if name == "" {
		return nil, fmt.Errorf("%w: book name is required", ErrInvalidInput)
	}
	if _, err := s.GetAuthor(authorID); err != nil {
		return nil, fmt.Errorf("author %d: %w", authorID, err)
	}
	if _, err := s.GetPublisher(publisherID); err != nil {
		return nil, fmt.Errorf("publisher %d: %w", publisherID, err)
	}
	if publishYear != nil {
		if *publishYear < 1900 || *publishYear > int64(time.Now().Year()) {
			return nil, fmt.Errorf("%w: publish year %d out of range", ErrInvalidInput, *publishYear)
		}
	}

	rec := goqu.Record{
		"name":         name,
		"author_id":    authorID,
		"publisher_id": publisherID,
	}
	if publishYear != nil {
		rec["publish_year"] = *publishYear
	}
	if volume != nil {
		rec["volume"] = *volume
	}
	if isbn != nil {
		ok, normalized := ValidateISBN(*isbn)
		if !ok {
			return nil, fmt.Errorf("%w: bad ISBN %q", ErrInvalidInput, *isbn)
		}
		rec["isbn"] = normalized
	}

	id, err := s.insertRow(s.qb.Insert(booksTable).Rows(rec))
	if err != nil {
		return nil, err
	}

	s.log.Info("created book", "book_id", id, "name", name)
	return s.GetBook(id)
}

// GetBook fetches a book by id.
func (s *Store) GetBook(id int64) (*Book, error) {
	var b Book
	if err := s.getOne(&b, s.qb.From(booksTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &b, nil
}

// SearchBooks matches the query as a case-insensitive substring of the book
// name.
func (s *Store) SearchBooks(q string) ([]*Book, error) {
	if strings.TrimSpace(q) == "" {
		return []*Book{}, nil
	}
	pattern := "%" + strings.TrimSpace(q) + "%"
	var books []*Book
	err := s.selectAll(&books, s.qb.From(booksTable).
		Where(goqu.C("name").Like(pattern)).
		Order(goqu.C("name").Asc()))
	if err != nil {
		return nil, err
	}
	return books, nil
}

// AllBooks returns the whole catalog ordered by id.
func (s *Store) AllBooks() ([]*Book, error) {
	var books []*Book
	err := s.selectAll(&books, s.qb.From(booksTable).Order(goqu.C("id").Asc()))
	if err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook applies the non-nil fields of upd to the book. Unknown fields
// cannot be smuggled in; the struct lists everything that may change.
func (s *Store) UpdateBook(id int64, upd BookUpdate) (*Book, error) {
	rec := goqu.Record{}
	if upd.Name != nil {
		n := titleCase(*upd.Name)
		if n == "" {
			return nil, fmt.Errorf("%w: book name cannot be blank", ErrInvalidInput)
		}
		rec["name"] = n
	}
	if upd.AuthorID != nil {
		if _, err := s.GetAuthor(*upd.AuthorID); err != nil {
			return nil, fmt.Errorf("author %d: %w", *upd.AuthorID, err)
		}
		rec["author_id"] = *upd.AuthorID
	}
	if upd.PublisherID != nil {
		if _, err := s.GetPublisher(*upd.PublisherID); err != nil {
			return nil, fmt.Errorf("publisher %d: %w", *upd.PublisherID, err)
		}
		rec["publisher_id"] = *upd.PublisherID
	}
	if upd.PublishYear != nil {
		rec["publish_year"] = *upd.PublishYear
	}
	if upd.Volume != nil {
		rec["volume"] = *upd.Volume
	}
	if upd.ISBN != nil {
		ok, normalized := ValidateISBN(*upd.ISBN)
		if !ok {
			return nil, fmt.Errorf("%w: bad ISBN %q", ErrInvalidInput, *upd.ISBN)
		}
		rec["isbn"] = normalized
	}
	if len(rec) == 0 {
		return s.GetBook(id)
	}

	query, args, err := s.qb.Update(booksTable).Set(rec).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	n, err := s.execRows(query, args)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	s.log.Info("updated book", "book_id", id)
	return s.GetBook(id)
}

// DeleteBook removes a book from the catalog. Books with request history
// are kept by the foreign key constraint; the caller sees the storage error.
func (s *Store) DeleteBook(id int64) error {
	query, args, err := s.qb.Delete(booksTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	n, err := s.execRows(query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Info("deleted book", "book_id", id)
	return nil
}
