package library

import (
	"database/sql"
	"fmt"
	"time"
)

// User roles. Students sign themselves up; managers are provisioned.
const (
	RoleStudent = "student"
	RoleManager = "manager"
)

// User is a registered library user. The id is the student identification
// number entered at sign-up, not an autoincrement value.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"password" json:"-"` // Don't serialize password hash
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName is the display name used in menus and dialogs.
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

// Author of one or more books. Deduplicated case-insensitively on creation.
type Author struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

func (a *Author) FullName() string { return a.FirstName + " " + a.LastName }

// Publisher deduplicated by exact (name, city) match after normalization.
type Publisher struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	City string `db:"city" json:"city"`
}

func (p *Publisher) String() string { return p.Name + ", " + p.City }

// Book references exactly one author and one publisher. Publish year, volume
// and ISBN are optional. The book itself carries no reservation state; that
// lives in requests.
type Book struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	AuthorID    int64          `db:"author_id" json:"author_id"`
	PublisherID int64          `db:"publisher_id" json:"publisher_id"`
	PublishYear sql.NullInt64  `db:"publish_year" json:"publish_year,omitempty"`
	Volume      sql.NullInt64  `db:"volume" json:"volume,omitempty"`
	ISBN        sql.NullString `db:"isbn" json:"isbn,omitempty"`
}

// BookUpdate lists the mutable book fields. A nil field is left unchanged.
type BookUpdate struct {
	Name        *string
	AuthorID    *int64
	PublisherID *int64
	PublishYear *int64
	Volume      *int64
	ISBN        *string
}

// Request is a reservation linking one user to one book. A request with no
// return date is outstanding; setting the return date is terminal.
type Request struct {
	ID             int64        `db:"id" json:"id"`
	BookID         int64        `db:"book_id" json:"book_id"`
	UserID         int64        `db:"user_id" json:"user_id"`
	DeliveryDate   time.Time    `db:"delivery_date" json:"delivery_date"`
	ReturnDate     sql.NullTime `db:"return_date" json:"return_date,omitempty"`
	ReturnDeadline time.Time    `db:"return_deadline" json:"return_deadline"`
}

// Outstanding reports whether the book has not been returned yet.
func (r *Request) Outstanding() bool { return !r.ReturnDate.Valid }

func (r *Request) String() string {
	return fmt.Sprintf("request %d (book %d, user %d)", r.ID, r.BookID, r.UserID)
}
