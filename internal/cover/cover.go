// Package cover annotates books with a cover image and a detail link resolved
// from an external catalog. Remote failures never reach the caller: every
// path ends in a usable Result.
package cover

import (
	"context"
	"errors"
)

const (
	DeadLink = "#"

	TooltipNoIdentifier = "No identifier provided"
	TooltipValid        = "View information about this book"
	TooltipInvalid      = "No book found (invalid identifier)"
)

// ErrRemoteUnavailable marks a failed catalog or cover call. It is consumed
// by the Resolver and never returned from it.
var ErrRemoteUnavailable = errors.New("remote unavailable")

// Result is what the presentation layer needs to show a cover. It is stored
// by value and must not be modified after it is produced.
type Result struct {
	ImageURL          string `json:"image_url"`
	LinkURL           string `json:"link_url"`
	Tooltip           string `json:"tooltip"`
	LocallyValid      bool   `json:"isbn_valid"`
	RemotelyConfirmed bool   `json:"isbn_found"`
}

// Lookup is the external catalog and cover service.
type Lookup interface {
	// Exists returns nil when the catalog knows the identifier.
	Exists(ctx context.Context, isbn string) error
	// ProbeCover returns nil when a cover image is served for the identifier.
	ProbeCover(ctx context.Context, isbn string) error
	BookURL(isbn string) string
	CoverURL(isbn string) string
}

// Metrics receives resolver events.
type Metrics interface {
	CacheHit()
	CacheMiss()
	RemoteFailure(call string)
	CacheSize(n int)
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()            {}
func (noopMetrics) CacheMiss()           {}
func (noopMetrics) RemoteFailure(string) {}
func (noopMetrics) CacheSize(int)        {}
