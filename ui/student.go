package ui

import (
	"errors"
	"fmt"

	"bookdesk/library"
)

func (s *Session) studentMenu(user *library.User) {
	for {
		choice := s.choose("Student Menu", []string{
			"Reserve Book",
			"Show Reserved Books",
			"Show Penalty",
			"Show Requests",
			"Change Password",
			"Exit",
		})
		switch choice {
		case 1:
			s.reserveBook(user)
		case 2:
			s.showReservedBooks(user)
		case 3:
			s.showPenalty(user.ID)
		case 4:
			s.showRequests(user.ID)
		case 5:
			s.changePassword(user, true)
		default:
			return
		}
	}
}

// reserveBook searches the catalog, lets the student pick a title and
// creates the request. Limit and already-reserved rejections come from the
// reservation engine and are shown verbatim.
func (s *Session) reserveBook(user *library.User) {
	book := s.pickBook("Reserve Book")
	if book == nil {
		return
	}

	request, err := s.store.Reserve(user.ID, book.ID)
	switch {
	case errors.Is(err, library.ErrReservationLimit):
		Error("You have already reached the maximum number of reservations.")
	case errors.Is(err, library.ErrBookAlreadyReserved):
		Error("The selected book is already reserved.")
	case err != nil:
		Error("Reservation failed: %v", err)
	default:
		Success("Book reserved. Return it by %s.", request.ReturnDeadline.Format("2006-01-02"))
	}
}

// showReservedBooks lists outstanding requests and optionally returns one.
func (s *Session) showReservedBooks(user *library.User) {
	requests, err := s.store.OutstandingByUser(user.ID)
	if err != nil {
		Error("Could not load reservations: %v", err)
		return
	}
	if len(requests) == 0 {
		Muted("You have no reserved books.")
		return
	}

	options := make([]string, 0, len(requests)+1)
	for _, r := range requests {
		options = append(options, fmt.Sprintf("%s (return by %s)", s.bookName(r.BookID), r.ReturnDeadline.Format("2006-01-02")))
	}
	options = append(options, "Back")

	choice := s.choose("Select a book to return", options)
	if choice == 0 || choice == len(options) {
		return
	}
	s.returnBook(requests[choice-1])
}

func (s *Session) returnBook(request *library.Request) {
	line, ok := s.readLine(fmt.Sprintf("Return %q? [y/N]:", s.bookName(request.BookID)))
	if !ok || (line != "y" && line != "Y") {
		return
	}

	_, err := s.store.Return(request.ID)
	switch {
	case errors.Is(err, library.ErrAlreadyReturned):
		Error("That book was already returned.")
	case err != nil:
		Error("Return failed: %v", err)
	default:
		Success("Book returned.")
	}
}

func (s *Session) showPenalty(userID int64) {
	penalty, err := s.store.Penalty(userID)
	if err != nil {
		Error("Could not compute penalty: %v", err)
		return
	}
	if penalty == 0 {
		Success("No penalty. Everything returned on time.")
		return
	}
	Warning("The current penalty is $%d.", penalty)
}

func (s *Session) showRequests(userID int64) {
	requests, err := s.store.RequestsByUser(userID)
	if err != nil {
		Error("Could not load requests: %v", err)
		return
	}
	if len(requests) == 0 {
		Muted("No requests found.")
		return
	}

	Title("Requests")
	for _, r := range requests {
		returned := "not returned"
		if r.ReturnDate.Valid {
			returned = r.ReturnDate.Time.Format("2006-01-02")
		}
		fmt.Printf("  %-30s delivered %s  returned %s\n",
			s.bookName(r.BookID), r.DeliveryDate.Format("2006-01-02"), returned)
	}
}

// bookName resolves a book id for display; missing rows degrade to a
// placeholder rather than aborting the listing.
func (s *Session) bookName(bookID int64) string {
	book, err := s.store.GetBook(bookID)
	if err != nil {
		return "Unknown Book"
	}
	return book.Name
}

// pickBook searches by name substring and lets the user choose one result.
func (s *Session) pickBook(title string) *library.Book {
	Title(title)
	for {
		q, ok := s.readLine("Book name:")
		if !ok || q == "" {
			return nil
		}
		books, err := s.store.SearchBooks(q)
		if err != nil {
			Error("Search failed: %v", err)
			return nil
		}
		if len(books) == 0 {
			Error("No books found.")
			continue
		}

		options := make([]string, 0, len(books)+1)
		for _, b := range books {
			label := b.Name
			if author, err := s.store.GetAuthor(b.AuthorID); err == nil {
				label += ", " + author.FullName()
			}
			options = append(options, label)
		}
		options = append(options, "Back")

		choice := s.choose("Select a book", options)
		if choice == 0 || choice == len(options) {
			return nil
		}
		return books[choice-1]
	}
}
