package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoSeeds is returned when no seed survives loading and selection.
	ErrNoSeeds = errors.New("no seeds to crawl: provide --seeds or seeds in the configuration file")

	// ErrInvalidDepthLimit is returned when the depth limit is negative.
	ErrInvalidDepthLimit = errors.New("invalid depth limit: must be non-negative")

	// ErrInvalidConcurrency is returned when the global concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPerHost is returned when the per-host concurrency is not positive.
	ErrInvalidPerHost = errors.New("invalid per-host concurrency: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBudget is returned when the page or time budget is negative.
	ErrInvalidBudget = errors.New("invalid crawl budget: max pages and max duration must be non-negative")

	// ErrInvalidCount is returned when the pattern threshold, top hosts or
	// top-per-concept count is not positive.
	ErrInvalidCount = errors.New("invalid count: pattern threshold, top hosts and top per concept must be positive")

	// ErrInvalidThreshold is returned when a score threshold or weight is
	// outside [0,1].
	ErrInvalidThreshold = errors.New("invalid threshold: scores and weights must be within [0,1]")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMode is returned for an unknown crawl mode.
	ErrInvalidMode = errors.New("invalid mode: must be broad, prioritize or test")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
