package main

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"bookdesk/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// catalogFile is the interchange format for import/export: books carry
// their author and publisher inline so a catalog file is self-contained.
type catalogFile struct {
	Books []catalogBook `json:"books"`
}

type catalogBook struct {
	Name        string `json:"name"`
	AuthorFirst string `json:"author_first"`
	AuthorLast  string `json:"author_last"`
	Publisher   string `json:"publisher"`
	City        string `json:"city"`
	PublishYear *int64 `json:"publish_year,omitempty"`
	Volume      *int64 `json:"volume,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <catalog.json>",
	Short: "Import a catalog of books, authors and publishers from JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := library.LoadConfig()
		log := library.NewLogger(cfg.LogFile)

		store, err := library.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		var catalog catalogFile
		if err := json.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("parse catalog: %w", err)
		}

		successCount := 0
		errorCount := 0
		for _, entry := range catalog.Books {
			fmt.Printf("Importing: %s by %s %s... ", entry.Name, entry.AuthorFirst, entry.AuthorLast)

			author, err := store.CreateAuthor(entry.AuthorFirst, entry.AuthorLast)
			if err != nil {
				fmt.Printf("ERROR - %v\n", err)
				errorCount++
				continue
			}
			publisher, err := store.CreatePublisher(entry.Publisher, entry.City)
			if err != nil {
				fmt.Printf("ERROR - %v\n", err)
				errorCount++
				continue
			}

			var isbn *string
			if entry.ISBN != "" {
				isbn = &entry.ISBN
			}
			book, err := store.CreateBook(entry.Name, author.ID, publisher.ID, entry.PublishYear, entry.Volume, isbn)
			if err != nil {
				fmt.Printf("ERROR - %v\n", err)
				errorCount++
				continue
			}

			fmt.Printf("SUCCESS (ID: %d)\n", book.ID)
			successCount++
		}

		fmt.Printf("\nImport complete!\n")
		fmt.Printf("Successfully imported: %d books\n", successCount)
		fmt.Printf("Errors: %d\n", errorCount)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <catalog.json>",
	Short: "Export the catalog to JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := library.LoadConfig()
		log := library.NewLogger(cfg.LogFile)

		store, err := library.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		books, err := store.AllBooks()
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}

		catalog := catalogFile{Books: make([]catalogBook, 0, len(books))}
		for _, b := range books {
			entry := catalogBook{Name: b.Name}
			if author, err := store.GetAuthor(b.AuthorID); err == nil {
				entry.AuthorFirst = author.FirstName
				entry.AuthorLast = author.LastName
			}
			if publisher, err := store.GetPublisher(b.PublisherID); err == nil {
				entry.Publisher = publisher.Name
				entry.City = publisher.City
			}
			if b.PublishYear.Valid {
				entry.PublishYear = &b.PublishYear.Int64
			}
			if b.Volume.Valid {
				entry.Volume = &b.Volume.Int64
			}
			if b.ISBN.Valid {
				entry.ISBN = b.ISBN.String
			}
			catalog.Books = append(catalog.Books, entry)
		}

		data, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}

		fmt.Printf("Exported %d books to %s.\n", len(catalog.Books), args[0])
		return nil
	},
}
