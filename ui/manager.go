package ui

import (
	"errors"
	"fmt"
	"strconv"

	"bookdesk/library"
)

func (s *Session) managerMenu(user *library.User) {
	for {
		choice := s.choose("Manager Menu", []string{
			"Add Book",
			"Search Book",
			"Search Student",
			"Change Password",
			"Exit",
		})
		switch choice {
		case 1:
			s.addBook()
		case 2:
			s.bookDetails()
		case 3:
			s.studentDetails()
		case 4:
			s.changePassword(user, true)
		default:
			return
		}
	}
}

// addBook collects book fields, adding or searching author and publisher on
// the way, and creates the catalog entry.
func (s *Session) addBook() {
	Title("Add Book")

	name, ok := s.readLine("Book name:")
	if !ok || name == "" {
		return
	}

	author := s.pickAuthor()
	if author == nil {
		return
	}
	publisher := s.pickPublisher()
	if publisher == nil {
		return
	}

	year, ok := s.readOptionalInt("Publish year (optional):")
	if !ok {
		return
	}
	volume, ok := s.readOptionalInt("Volume (optional):")
	if !ok {
		return
	}
	var isbn *string
	if line, ok := s.readLine("ISBN (optional):"); ok && line != "" {
		valid, normalized := library.ValidateISBN(line)
		if !valid {
			if normalized != "" {
				Error("ISBN check digit is wrong (would normalize to %s).", normalized)
			} else {
				Error("That is not an ISBN.")
			}
			return
		}
		isbn = &normalized
	}

	book, err := s.store.CreateBook(name, author.ID, publisher.ID, year, volume, isbn)
	if err != nil {
		Error("Could not add book: %v", err)
		return
	}
	Success("Added %q (id %d).", book.Name, book.ID)
}

// bookDetails searches for a book and offers update/delete.
func (s *Session) bookDetails() {
	book := s.pickBook("Search Book")
	if book == nil {
		return
	}

	for {
		s.printBook(book)
		choice := s.choose("Book Details", []string{"Update", "Delete", "Back"})
		switch choice {
		case 1:
			updated := s.updateBook(book)
			if updated == nil {
				return
			}
			book = updated
		case 2:
			if s.deleteBook(book) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) printBook(book *library.Book) {
	Title(book.Name)
	if author, err := s.store.GetAuthor(book.AuthorID); err == nil {
		fmt.Printf("  %-12s %s\n", "Author", author.FullName())
	}
	if publisher, err := s.store.GetPublisher(book.PublisherID); err == nil {
		fmt.Printf("  %-12s %s\n", "Publisher", publisher)
	}
	if book.PublishYear.Valid {
		fmt.Printf("  %-12s %d\n", "Publish Year", book.PublishYear.Int64)
	}
	if book.Volume.Valid {
		fmt.Printf("  %-12s %d\n", "Volume", book.Volume.Int64)
	}
	if book.ISBN.Valid {
		fmt.Printf("  %-12s %s\n", "ISBN", book.ISBN.String)
	}
}

// updateBook edits individual fields; empty input keeps the stored value.
func (s *Session) updateBook(book *library.Book) *library.Book {
	Title("Update Book")
	Muted("Press Enter to keep the current value.")

	var upd library.BookUpdate
	if line, ok := s.readLine(fmt.Sprintf("Name [%s]:", book.Name)); ok && line != "" {
		upd.Name = &line
	}
	if author := s.pickAuthorOptional(); author != nil {
		upd.AuthorID = &author.ID
	}
	if publisher := s.pickPublisherOptional(); publisher != nil {
		upd.PublisherID = &publisher.ID
	}
	if year, ok := s.readOptionalInt("Publish year:"); ok && year != nil {
		upd.PublishYear = year
	}
	if volume, ok := s.readOptionalInt("Volume:"); ok && volume != nil {
		upd.Volume = volume
	}
	if line, ok := s.readLine("ISBN:"); ok && line != "" {
		upd.ISBN = &line
	}

	updated, err := s.store.UpdateBook(book.ID, upd)
	if err != nil {
		Error("Update failed: %v", err)
		return book
	}
	Success("Book updated.")
	return updated
}

func (s *Session) deleteBook(book *library.Book) bool {
	line, ok := s.readLine(fmt.Sprintf("Delete %q? [y/N]:", book.Name))
	if !ok || (line != "y" && line != "Y") {
		return false
	}
	if err := s.store.DeleteBook(book.ID); err != nil {
		Error("Delete failed: %v", err)
		return false
	}
	Success("Book deleted.")
	return true
}

// studentDetails finds a student by id and offers penalty view and password
// reset.
func (s *Session) studentDetails() {
	Title("Search Student")
	line, ok := s.readLine("Student ID:")
	if !ok || line == "" {
		return
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		Error("Student IDs are numeric.")
		return
	}

	student, err := s.store.StudentByID(id)
	if errors.Is(err, library.ErrNotFound) {
		Error("Student not found.")
		return
	}
	if err != nil {
		Error("Lookup failed: %v", err)
		return
	}

	for {
		choice := s.choose(student.FullName(), []string{
			"Show Penalty",
			"Show Requests",
			"Reset Password",
			"Back",
		})
		switch choice {
		case 1:
			s.showPenalty(student.ID)
		case 2:
			s.showRequests(student.ID)
		case 3:
			s.changePassword(student, false)
		default:
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Author / publisher selection
// ---------------------------------------------------------------------------

func (s *Session) pickAuthor() *library.Author {
	for {
		choice := s.choose("Select Author", []string{"Add", "Search", "Back"})
		switch choice {
		case 1:
			first, ok := s.readLine("Author first name:")
			if !ok || first == "" {
				continue
			}
			last, ok := s.readLine("Author last name:")
			if !ok || last == "" {
				continue
			}
			author, err := s.store.CreateAuthor(first, last)
			if err != nil {
				Error("Could not add author: %v", err)
				continue
			}
			return author
		case 2:
			if author := s.searchAuthor(); author != nil {
				return author
			}
		default:
			return nil
		}
	}
}

func (s *Session) pickAuthorOptional() *library.Author {
	line, ok := s.readLine("Change author? [y/N]:")
	if !ok || (line != "y" && line != "Y") {
		return nil
	}
	return s.pickAuthor()
}

func (s *Session) searchAuthor() *library.Author {
	q, ok := s.readLine("Author name:")
	if !ok || q == "" {
		return nil
	}
	authors, err := s.store.SearchAuthors(q)
	if err != nil {
		Error("Search failed: %v", err)
		return nil
	}
	if len(authors) == 0 {
		Error("No authors found.")
		return nil
	}

	options := make([]string, 0, len(authors)+1)
	for _, a := range authors {
		options = append(options, a.FullName())
	}
	options = append(options, "Back")
	choice := s.choose("Select an author", options)
	if choice == 0 || choice == len(options) {
		return nil
	}
	return authors[choice-1]
}

func (s *Session) pickPublisher() *library.Publisher {
	for {
		choice := s.choose("Select Publisher", []string{"Add", "Search", "Back"})
		switch choice {
		case 1:
			name, ok := s.readLine("Publisher name:")
			if !ok || name == "" {
				continue
			}
			city, ok := s.readLine("City:")
			if !ok || city == "" {
				continue
			}
			publisher, err := s.store.CreatePublisher(name, city)
			if err != nil {
				Error("Could not add publisher: %v", err)
				continue
			}
			return publisher
		case 2:
			if publisher := s.searchPublisher(); publisher != nil {
				return publisher
			}
		default:
			return nil
		}
	}
}

func (s *Session) pickPublisherOptional() *library.Publisher {
	line, ok := s.readLine("Change publisher? [y/N]:")
	if !ok || (line != "y" && line != "Y") {
		return nil
	}
	return s.pickPublisher()
}

func (s *Session) searchPublisher() *library.Publisher {
	q, ok := s.readLine("Publisher name:")
	if !ok || q == "" {
		return nil
	}
	publishers, err := s.store.SearchPublishers(q)
	if err != nil {
		Error("Search failed: %v", err)
		return nil
	}
	if len(publishers) == 0 {
		Error("No publishers found.")
		return nil
	}

	options := make([]string, 0, len(publishers)+1)
	for _, p := range publishers {
		options = append(options, p.String())
	}
	options = append(options, "Back")
	choice := s.choose("Select a publisher", options)
	if choice == 0 || choice == len(options) {
		return nil
	}
	return publishers[choice-1]
}
