package library

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		DBPath:          filepath.Join(dir, "test.db"),
		LogFile:         filepath.Join(dir, "test.log"),
		MaxReservations: 3,
		PenaltyRate:     10,
		LoanPeriodDays:  14,
	}
	s, err := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUserIsIdempotent(t *testing.T) {
	s := testStore(t)

	u1, err := s.CreateUser(400123456, "Jane.Doe@Example.COM", "jane", "doe", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u1.Email != "jane.doe@example.com" {
		t.Fatalf("email not lowercased: %q", u1.Email)
	}
	if u1.FirstName != "Jane" || u1.LastName != "Doe" {
		t.Fatalf("names not normalized: %q %q", u1.FirstName, u1.LastName)
	}
	if u1.Role != RoleStudent {
		t.Fatalf("default role: %q", u1.Role)
	}

	// Same id and email: no second row, same entity back.
	u2, err := s.CreateUser(400123456, "jane.doe@example.com", "jane", "doe", "")
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if u2.ID != u1.ID || !u2.CreatedAt.Equal(u1.CreatedAt) {
		t.Fatalf("expected the existing row back")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := testStore(t)

	if _, err := s.CreateUser(400123456, "same@example.com", "Jane", "Doe", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.CreateUser(400999999, "same@example.com", "John", "Smith", "")
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Fatalf("want ErrDuplicateEntity, got %v", err)
	}
}

func TestDefaultPasswordIsStudentID(t *testing.T) {
	s := testStore(t)

	u, err := s.CreateUser(400123456, "jane@example.com", "Jane", "Doe", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !CheckPassword("400123456", u.PasswordHash) {
		t.Fatalf("default password should be the student id")
	}

	if err := s.UpdatePassword(u.ID, "N3w.Secret!"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	updated, err := s.GetUser(u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if CheckPassword("400123456", updated.PasswordHash) {
		t.Fatalf("old password still valid")
	}
	if !CheckPassword("N3w.Secret!", updated.PasswordHash) {
		t.Fatalf("new password rejected")
	}
}

func TestStudentByIDExcludesManagers(t *testing.T) {
	s := testStore(t)

	if _, err := s.CreateUser(400111111, "mgr@example.com", "Max", "Mustermann", RoleManager); err != nil {
		t.Fatalf("create manager: %v", err)
	}
	if _, err := s.StudentByID(400111111); !errors.Is(err, ErrNotFound) {
		t.Fatalf("manager leaked through student lookup: %v", err)
	}
}

func TestCreateAuthorDedupAcrossCasing(t *testing.T) {
	s := testStore(t)

	a1, err := s.CreateAuthor("george", "orwell")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	if a1.FirstName != "George" || a1.LastName != "Orwell" {
		t.Fatalf("name not title-cased: %q %q", a1.FirstName, a1.LastName)
	}

	a2, err := s.CreateAuthor("GEORGE", "ORWELL")
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if a2.ID != a1.ID {
		t.Fatalf("dedup failed: %d vs %d", a2.ID, a1.ID)
	}
}

func TestCreatePublisherDedup(t *testing.T) {
	s := testStore(t)

	p1, err := s.CreatePublisher("penguin books", "LONDON")
	if err != nil {
		t.Fatalf("create publisher: %v", err)
	}
	if p1.Name != "Penguin Books" || p1.City != "London" {
		t.Fatalf("not normalized: %q %q", p1.Name, p1.City)
	}

	p2, err := s.CreatePublisher("Penguin Books", "london")
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if p2.ID != p1.ID {
		t.Fatalf("dedup failed")
	}

	// Same name in another city is a different publisher.
	p3, err := s.CreatePublisher("Penguin Books", "New York")
	if err != nil {
		t.Fatalf("create second city: %v", err)
	}
	if p3.ID == p1.ID {
		t.Fatalf("distinct cities collapsed")
	}
}

func addBook(t *testing.T, s *Store, name string) *Book {
	t.Helper()
	author, err := s.CreateAuthor("Test", "Author")
	if err != nil {
		t.Fatalf("author: %v", err)
	}
	publisher, err := s.CreatePublisher("Test House", "Berlin")
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	book, err := s.CreateBook(name, author.ID, publisher.ID, nil, nil, nil)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return book
}

func TestCreateBookValidation(t *testing.T) {
	s := testStore(t)
	author, _ := s.CreateAuthor("Test", "Author")
	publisher, _ := s.CreatePublisher("Test House", "Berlin")

	if _, err := s.CreateBook("X", 9999, publisher.ID, nil, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing author: %v", err)
	}

	badYear := int64(1800)
	if _, err := s.CreateBook("X", author.ID, publisher.ID, &badYear, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("year 1800 accepted: %v", err)
	}

	badISBN := "not-an-isbn"
	if _, err := s.CreateBook("X", author.ID, publisher.ID, nil, nil, &badISBN); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad isbn accepted: %v", err)
	}

	isbn := "0-306-40615-2"
	year := int64(1977)
	book, err := s.CreateBook("effective computation", author.ID, publisher.ID, &year, nil, &isbn)
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if book.Name != "Effective Computation" {
		t.Fatalf("name not title-cased: %q", book.Name)
	}
	if !book.ISBN.Valid || book.ISBN.String != "9780306406157" {
		t.Fatalf("isbn not normalized: %+v", book.ISBN)
	}
}

func TestSearchBooks(t *testing.T) {
	s := testStore(t)
	addBook(t, s, "Animal Farm")
	addBook(t, s, "Nineteen Eighty-Four")

	res, err := s.SearchBooks("animal")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || res[0].Name != "Animal Farm" {
		t.Fatalf("unexpected results: %+v", res)
	}

	res, err = s.SearchBooks("  ")
	if err != nil {
		t.Fatalf("blank search: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("blank query should match nothing")
	}
}

func TestUpdateBook(t *testing.T) {
	s := testStore(t)
	book := addBook(t, s, "Draft Title")

	name := "Final Title"
	volume := int64(2)
	updated, err := s.UpdateBook(book.ID, BookUpdate{Name: &name, Volume: &volume})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Final Title" || !updated.Volume.Valid || updated.Volume.Int64 != 2 {
		t.Fatalf("update not applied: %+v", updated)
	}
	// Untouched fields stay.
	if updated.AuthorID != book.AuthorID {
		t.Fatalf("author changed unexpectedly")
	}

	if _, err := s.UpdateBook(99999, BookUpdate{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing book: %v", err)
	}
}

func TestDeleteBook(t *testing.T) {
	s := testStore(t)
	book := addBook(t, s, "Ephemeral")

	if err := s.DeleteBook(book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBook(book.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("book still present: %v", err)
	}
	if err := s.DeleteBook(book.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
