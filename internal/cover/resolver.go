package cover

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookalchemy/internal/isbn"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultCatalogTimeout = 5 * time.Second
	DefaultCoverTimeout   = 3 * time.Second
)

type Options struct {
	PlaceholderURL string
	CatalogTimeout time.Duration
	CoverTimeout   time.Duration
	Metrics        Metrics
}

type Resolver struct {
	lookup  Lookup
	cache   *Cache
	opts    Options
	metrics Metrics
	group   singleflight.Group
}

func NewResolver(lookup Lookup, cache *Cache, opts Options) *Resolver {
	if opts.CatalogTimeout <= 0 {
		opts.CatalogTimeout = DefaultCatalogTimeout
	}
	if opts.CoverTimeout <= 0 {
		opts.CoverTimeout = DefaultCoverTimeout
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Resolver{
		lookup:  lookup,
		cache:   cache,
		opts:    opts,
		metrics: metrics,
	}
}

// Resolve returns the cover annotation for identifier. The first result for a
// non-empty identifier is cached and returned verbatim afterwards, whatever
// confirmRemotely says on later calls.
func (r *Resolver) Resolve(ctx context.Context, identifier string, confirmRemotely bool) Result {
	if identifier == "" {
		return Result{
			ImageURL: r.opts.PlaceholderURL,
			LinkURL:  DeadLink,
			Tooltip:  TooltipNoIdentifier,
		}
	}

	if res, ok := r.cache.Get(identifier); ok {
		r.metrics.CacheHit()
		return res
	}

	// Remote calls outlive the request so a client hanging up cannot leave a
	// placeholder in the cache. The per-call timeouts bound each HTTP
	// exchange, not the time spent waiting for the outbound rate limit.
	remoteCtx := context.WithoutCancel(ctx)

	// Callers sharing a flight share its single miss.
	v, _, _ := r.group.Do(identifier, func() (any, error) {
		if res, ok := r.cache.Get(identifier); ok {
			r.metrics.CacheHit()
			return res, nil
		}
		r.metrics.CacheMiss()
		res := r.resolve(remoteCtx, identifier, confirmRemotely)
		r.cache.Store(identifier, res)
		r.metrics.CacheSize(r.cache.Len())
		return res, nil
	})
	return v.(Result)
}

// ResolveAll resolves each identifier in order.
func (r *Resolver) ResolveAll(ctx context.Context, identifiers []string, confirmRemotely bool) []Result {
	out := make([]Result, len(identifiers))
	for i, id := range identifiers {
		out[i] = r.Resolve(ctx, id, confirmRemotely)
	}
	return out
}

func (r *Resolver) resolve(ctx context.Context, identifier string, confirmRemotely bool) Result {
	res := Result{
		LinkURL:      DeadLink,
		Tooltip:      TooltipInvalid,
		LocallyValid: isbn.IsValid(identifier),
	}
	if res.LocallyValid {
		res.LinkURL = r.lookup.BookURL(identifier)
		res.Tooltip = TooltipValid
	}

	if confirmRemotely && res.LocallyValid {
		if err := r.confirm(ctx, identifier); err != nil {
			r.metrics.RemoteFailure("catalog")
			log.Printf("cover: catalog lookup failed isbn=%s error=%v", identifier, err)
		} else {
			res.RemotelyConfirmed = true
		}
	}

	res.ImageURL = r.opts.PlaceholderURL
	if err := r.probe(ctx, identifier); err != nil {
		r.metrics.RemoteFailure("cover")
		log.Printf("cover: cover probe failed isbn=%s error=%v", identifier, err)
	} else {
		res.ImageURL = r.lookup.CoverURL(identifier)
	}

	return res
}

func (r *Resolver) confirm(ctx context.Context, identifier string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.CatalogTimeout)
	defer cancel()
	if err := r.lookup.Exists(ctx, identifier); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return nil
}

func (r *Resolver) probe(ctx context.Context, identifier string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.CoverTimeout)
	defer cancel()
	if err := r.lookup.ProbeCover(ctx, identifier); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return nil
}
