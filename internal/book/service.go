package book

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultCatalogTimeout = 5 * time.Second
	// coverWorkers bounds concurrent cover resolutions for one listing.
	coverWorkers = 8
)

// Service provides book-related business logic.
type Service struct {
	repo           Repository
	catalog        Catalog
	covers         CoverResolver
	catalogTimeout time.Duration
	now            func() time.Time
}

// NewService creates a new book service.
func NewService(repo Repository, catalog Catalog, covers CoverResolver, catalogTimeout time.Duration) *Service {
	if catalogTimeout <= 0 {
		catalogTimeout = defaultCatalogTimeout
	}
	return &Service{
		repo:           repo,
		catalog:        catalog,
		covers:         covers,
		catalogTimeout: catalogTimeout,
		now:            time.Now,
	}
}

// Create stores a new book and reports whether Open Library knows its ISBN.
// The catalog lookup never fails the creation.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	in.Normalize()
	if in.PublicationYear != nil && *in.PublicationYear > s.now().Year() {
		return CreateResult{}, &ValidationError{
			Field:   "publication_year",
			Message: "Publication year must be in the past.",
		}
	}

	b := Book{
		ISBN:            in.ISBN,
		Title:           in.Title,
		PublicationYear: in.PublicationYear,
		AuthorID:        in.AuthorID,
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return CreateResult{}, err
	}

	return CreateResult{Book: b, ISBNFound: s.lookup(ctx, b.ISBN)}, nil
}

func (s *Service) lookup(ctx context.Context, isbn string) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.catalogTimeout)
	defer cancel()
	if err := s.catalog.Exists(ctx, isbn); err != nil {
		log.Printf("book: catalog lookup failed isbn=%s error=%v", isbn, err)
		return false
	}
	return true
}

// List returns the page of books matching q, each annotated with its cover.
func (s *Service) List(ctx context.Context, q Query) ([]WithCover, int, error) {
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return s.annotate(ctx, books), total, nil
}

func (s *Service) annotate(ctx context.Context, books []Book) []WithCover {
	out := make([]WithCover, len(books))
	var g errgroup.Group
	g.SetLimit(coverWorkers)
	for i := range books {
		g.Go(func() error {
			out[i] = WithCover{
				Book:  books[i],
				Cover: s.covers.Resolve(ctx, books[i].ISBN, true),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GetByID returns a book with its cover.
func (s *Service) GetByID(ctx context.Context, id int64) (WithCover, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WithCover{}, err
	}
	return WithCover{Book: b, Cover: s.covers.Resolve(ctx, b.ISBN, true)}, nil
}

// Delete removes a book, and its author when no other book remains.
func (s *Service) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	return s.repo.Delete(ctx, id)
}
