package session

import (
	"context"
	"log"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Revoke(ctx context.Context, rev Revocation) error {
	if rev.JTI == "" {
		return ErrMissingTokenID
	}
	return s.repo.Revoke(ctx, rev)
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.repo.IsRevoked(ctx, jti)
}

// RunCleanup purges expired revocations every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.repo.CleanupExpired(ctx)
			if err != nil {
				log.Printf("session: cleanup failed error=%v", err)
				continue
			}
			if n > 0 {
				log.Printf("session: purged expired revocations count=%d", n)
			}
		}
	}
}
