// Package scraper extracts structured design descriptions from reference sites.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

// ErrFetch is matched by every FetchError
var ErrFetch = errors.New("fetch failed")

// Source produces a ScrapedDesign for a single URL
type Source interface {
	Scrape(ctx context.Context, url string) (*design.ScrapedDesign, error)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context, url string) (*design.ScrapedDesign, error)

func (f SourceFunc) Scrape(ctx context.Context, url string) (*design.ScrapedDesign, error) {
	return f(ctx, url)
}

// FetchError reports an unreachable or unparseable reference page
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// NewFetchError creates a FetchError for url
func NewFetchError(url string, cause error) *FetchError {
	return &FetchError{URL: url, Cause: cause}
}

// IsFetchError checks if an error is a fetch error
func IsFetchError(err error) bool {
	if err == nil {
		return false
	}
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
