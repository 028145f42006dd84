package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/awesome-lists/pkg/logging"
	"github.com/Sternrassler/awesome-lists/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for harvest runs.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "awesome_pages_fetched_total",
		Help: "Total number of search result pages fetched and decoded",
	})

	itemsHarvestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "awesome_items_harvested_total",
		Help: "Total number of items decoded from search result pages",
	})

	harvestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "awesome_harvest_errors_total",
		Help: "Total number of fatal harvest errors by class",
	}, []string{"class"})

	harvestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "awesome_harvest_duration_seconds",
		Help:    "Duration of complete harvest runs in seconds",
		Buckets: []float64{1, 2, 5, 10, 30, 60},
	})
)

// Searcher fetches one page of search results for a query.
type Searcher interface {
	SearchPage(ctx context.Context, query string, page int) ([]byte, error)
}

// Config holds the harvester configuration.
type Config struct {
	// MaxPages is the number of pages requested, starting at 1.
	MaxPages int

	// Topic is the search topic; the query sent is "topic:<Topic>".
	Topic string
}

// DefaultConfig returns the default harvester configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages: pagination.DefaultConfig().MaxPages,
		Topic:    "awesome",
	}
}

// Query returns the search query for the configured topic.
func (c Config) Query() string {
	return "topic:" + c.Topic
}

// Harvester walks search result pages and collects their items.
type Harvester struct {
	searcher Searcher
	config   Config
	logger   zerolog.Logger
}

// New creates a new Harvester.
func New(searcher Searcher, cfg Config) (*Harvester, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.MaxPages < 1 {
		return nil, fmt.Errorf("max_pages must be >= 1 (got %d)", cfg.MaxPages)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	return &Harvester{
		searcher: searcher,
		config:   cfg,
		logger:   logging.NewLogger("harvester"),
	}, nil
}

// Harvest fetches pages 1..MaxPages in order and returns every item found,
// in page order then in-page order. The first error aborts the run and no
// items are returned.
func (h *Harvester) Harvest(ctx context.Context) ([]Item, error) {
	start := time.Now()
	query := h.config.Query()

	fetcher := pagination.FetcherFunc(func(ctx context.Context, page int) ([]byte, error) {
		return h.searcher.SearchPage(ctx, query, page)
	})
	walker := pagination.NewWalker(fetcher, pagination.Config{MaxPages: h.config.MaxPages})

	var items []Item
	err := walker.Walk(ctx, func(page int, data []byte) error {
		pageItems, err := DecodePage(page, data)
		if err != nil {
			return err
		}
		items = append(items, pageItems...)

		pagesFetchedTotal.Inc()
		itemsHarvestedTotal.Add(float64(len(pageItems)))
		h.logger.Info().
			Int("page", page).
			Int("items", len(pageItems)).
			Int("total", len(items)).
			Msg("Page harvested")
		return nil
	})
	if err != nil {
		var pageErr *pagination.PageError
		if errors.As(err, &pageErr) {
			err = fetchError(pageErr.Page, pageErr.Err)
		}
		class := ClassOf(err)
		harvestErrorsTotal.WithLabelValues(string(class)).Inc()
		h.logger.Error().
			Err(err).
			Str("error_class", string(class)).
			Msg("Harvest aborted")
		return nil, err
	}

	if items == nil {
		items = []Item{}
	}

	harvestDuration.Observe(time.Since(start).Seconds())
	h.logger.Info().
		Str("query", query).
		Int("pages", h.config.MaxPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Harvest complete")

	return items, nil
}
