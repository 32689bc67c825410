package book

import (
	"errors"
	"strings"
	"time"

	"bookalchemy/internal/cover"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAuthorNotFound is returned when a book references a missing author.
	ErrAuthorNotFound = errors.New("author not found")
)

const (
	SortTitle  = "title"
	SortAuthor = "author"
)

// Book represents a book entity.
type Book struct {
	ID              int64     `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	AuthorID        int64     `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// WithCover is a book annotated for display.
type WithCover struct {
	Book
	Cover cover.Result `json:"cover"`
}

// Query defines search, ordering and pagination for listing books.
// An unknown Sort keeps insertion order.
type Query struct {
	Search string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

type CreateInput struct {
	ISBN            string `json:"isbn" validate:"required,isbn"`
	Title           string `json:"title" validate:"required,max=200"`
	PublicationYear *int   `json:"publication_year"`
	AuthorID        int64  `json:"author_id" validate:"required,gt=0"`
}

// Normalize trims the free text fields.
func (in *CreateInput) Normalize() {
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Title = strings.TrimSpace(in.Title)
}

// CreateResult reports whether Open Library knows the new book's ISBN.
type CreateResult struct {
	Book      Book `json:"book"`
	ISBNFound bool `json:"isbn_found"`
}

// DeleteResult describes a deletion. AuthorDeleted is set when the book was
// the author's last one and the author went with it.
type DeleteResult struct {
	Book          Book   `json:"book"`
	AuthorDeleted bool   `json:"author_deleted"`
	AuthorName    string `json:"author_name"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
