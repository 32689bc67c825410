package author

import (
	"context"
	"time"
)

// Service provides author business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates the input and stores the author.
func (s *Service) Create(ctx context.Context, in CreateInput) (Author, error) {
	a, err := Validate(in, s.now())
	if err != nil {
		return Author{}, err
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every author ordered by name.
func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}
