package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds walker configuration
type Config struct {
	// MaxPages is the last page number requested (inclusive)
	MaxPages int
}

// DefaultConfig returns the default page bound
func DefaultConfig() Config {
	return Config{
		MaxPages: 10,
	}
}

// PageFetcher fetches the raw body of a single page
type PageFetcher interface {
	FetchPage(ctx context.Context, pageNum int) ([]byte, error)
}

// FetcherFunc adapts a function to the PageFetcher interface
type FetcherFunc func(ctx context.Context, pageNum int) ([]byte, error)

// FetchPage calls f(ctx, pageNum)
func (f FetcherFunc) FetchPage(ctx context.Context, pageNum int) ([]byte, error) {
	return f(ctx, pageNum)
}

// PageFunc handles the body of one page
type PageFunc func(pageNum int, data []byte) error

// PageError reports a page that could not be fetched
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Walker requests pages sequentially
type Walker struct {
	fetcher PageFetcher
	config  Config
}

// NewWalker creates a new walker
func NewWalker(fetcher PageFetcher, config Config) *Walker {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultConfig().MaxPages
	}

	return &Walker{
		fetcher: fetcher,
		config:  config,
	}
}

// MaxPages returns the configured page bound
func (w *Walker) MaxPages() int {
	return w.config.MaxPages
}

// Walk fetches pages 1..MaxPages in order and passes each body to fn.
// Fetch failures are returned as *PageError; errors from fn are returned as is.
func (w *Walker) Walk(ctx context.Context, fn PageFunc) error {
	start := time.Now()

	log.Debug().
		Int("max_pages", w.config.MaxPages).
		Msg("Starting sequential page walk")

	for page := 1; page <= w.config.MaxPages; page++ {
		pageStart := time.Now()

		data, err := w.fetcher.FetchPage(ctx, page)
		if err != nil {
			log.Warn().
				Err(err).
				Int("page", page).
				Msg("Page fetch failed")
			return &PageError{Page: page, Err: err}
		}

		if err := fn(page, data); err != nil {
			return err
		}

		log.Debug().
			Int("page", page).
			Int("bytes", len(data)).
			Dur("duration", time.Since(pageStart)).
			Msg("Page processed")
	}

	log.Debug().
		Int("pages", w.config.MaxPages).
		Dur("duration", time.Since(start)).
		Msg("Page walk complete")

	return nil
}
