package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/scholarscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "scholarscan"

	// DefaultDepthLimit is the maximum depth of a task. Depth resets to zero
	// whenever the crawler restarts a branch from a menu page.
	DefaultDepthLimit = 4

	// DefaultConcurrency is the number of fetches in flight across all hosts.
	DefaultConcurrency = 32

	// DefaultPerHost is the number of fetches in flight per host.
	DefaultPerHost = 8

	// DefaultCrawlDelay is the minimum delay between two requests to the
	// same host.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultTimeout is the timeout of a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the page budget of a run. Zero means unlimited.
	DefaultMaxPages = 0

	// DefaultMaxDuration is the time budget of a run. Zero means unlimited.
	DefaultMaxDuration = time.Duration(0)

	// DefaultPatternThreshold is the number of accepted profiles after
	// which a branch compiles its URL pattern.
	DefaultPatternThreshold = 10

	// DefaultTopHosts is how many of the most frequent hosts a compiled
	// pattern keeps.
	DefaultTopHosts = 2

	// DefaultSemanticWeight is the share of the semantic score in link
	// similarity.
	DefaultSemanticWeight = 0.8

	// DefaultTopPerConcept is how many links are followed per synonym.
	DefaultTopPerConcept = 3

	// DefaultMenuThreshold is the minimum score of a followed menu link.
	DefaultMenuThreshold = 0.7

	// DefaultPeopleOnlyThreshold is the minimum score of a followed people
	// link once a branch is inside a department.
	DefaultPeopleOnlyThreshold = 0.85

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies scholarscan in HTTP requests.
	DefaultUserAgent = "scholarscan/1.0 (+https://github.com/nao1215/scholarscan)"

	// DefaultCrawlerName is the name recorded in the crawl status table.
	DefaultCrawlerName = "core"
)

// Config holds all configuration options for a crawl.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed down explicitly.
type Config struct {
	// DepthLimit is the maximum depth of a task.
	DepthLimit int

	// Concurrency is the number of fetches in flight across all hosts.
	Concurrency int

	// PerHost is the number of fetches in flight per host.
	PerHost int

	// CrawlDelay is the minimum delay between requests to the same host.
	// Zero disables the delay.
	CrawlDelay time.Duration

	// Timeout is the timeout of a single HTTP request.
	Timeout time.Duration

	// MaxPages is the page budget of a run. Zero means unlimited.
	MaxPages int

	// MaxDuration is the time budget of a run. Zero means unlimited.
	MaxDuration time.Duration

	// PatternThreshold is the number of accepted profiles after which a
	// branch learns its URL pattern.
	PatternThreshold int

	// TopHosts is how many hosts a learned pattern keeps.
	TopHosts int

	// SemanticWeight is the share of the semantic score in link similarity.
	SemanticWeight float64

	// TopPerConcept is how many links are followed per synonym.
	TopPerConcept int

	// MenuThreshold is the minimum score of a followed menu link.
	MenuThreshold float64

	// PeopleOnlyThreshold is the minimum score of a followed people link.
	PeopleOnlyThreshold float64

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// CrawlerName is the name recorded in the crawl status table.
	CrawlerName string

	// Mode selects which seeds are crawled.
	Mode Mode

	// StartURL restricts the crawl to the seed with this URL.
	StartURL string

	// SeedsFile is the path of the CSV seed list.
	SeedsFile string

	// Seeds are the loaded entry points.
	Seeds []model.Seed

	// ConfigFilePath is the path to the configuration file.
	// If empty, .scholarscan is searched in the current and home directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file.
	File *File

	// DBDir is the directory of the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/scholarscan on Linux).
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLog switches log output to JSON lines.
	JSONLog bool

	// LogFile additionally writes logs to a size-rotated file when set.
	LogFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DepthLimit:          DefaultDepthLimit,
		Concurrency:         DefaultConcurrency,
		PerHost:             DefaultPerHost,
		CrawlDelay:          DefaultCrawlDelay,
		Timeout:             DefaultTimeout,
		MaxPages:            DefaultMaxPages,
		MaxDuration:         DefaultMaxDuration,
		PatternThreshold:    DefaultPatternThreshold,
		TopHosts:            DefaultTopHosts,
		SemanticWeight:      DefaultSemanticWeight,
		TopPerConcept:       DefaultTopPerConcept,
		MenuThreshold:       DefaultMenuThreshold,
		PeopleOnlyThreshold: DefaultPeopleOnlyThreshold,
		MaxBodySize:         DefaultMaxBodySize,
		UserAgent:           DefaultUserAgent,
		CrawlerName:         DefaultCrawlerName,
		Mode:                ModeBroad,
		DBDir:               XDGDataDir(),
		File:                &File{Sites: make(map[string]SiteConfig)},
	}
}

// XDGDataDir returns the XDG data directory for scholarscan.
// On Linux: ~/.local/share/scholarscan
// On macOS: ~/Library/Application Support/scholarscan
// On Windows: %LOCALAPPDATA%\scholarscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scholarscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the crawl overrides of f into c. Zero values in f are
// ignored.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f

	o := f.Crawl
	if o.DepthLimit > 0 {
		c.DepthLimit = o.DepthLimit
	}
	if o.Concurrency > 0 {
		c.Concurrency = o.Concurrency
	}
	if o.PerHost > 0 {
		c.PerHost = o.PerHost
	}
	if o.CrawlDelay != nil {
		c.CrawlDelay = *o.CrawlDelay
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.MaxPages > 0 {
		c.MaxPages = o.MaxPages
	}
	if o.MaxDuration > 0 {
		c.MaxDuration = o.MaxDuration
	}
	if o.PatternThreshold > 0 {
		c.PatternThreshold = o.PatternThreshold
	}
	if o.TopHosts > 0 {
		c.TopHosts = o.TopHosts
	}
	if o.SemanticWeight > 0 {
		c.SemanticWeight = o.SemanticWeight
	}
	if o.TopPerConcept > 0 {
		c.TopPerConcept = o.TopPerConcept
	}
	if o.MenuThreshold > 0 {
		c.MenuThreshold = o.MenuThreshold
	}
	if o.PeopleOnlyThreshold > 0 {
		c.PeopleOnlyThreshold = o.PeopleOnlyThreshold
	}
	if o.MaxBodySize > 0 {
		c.MaxBodySize = o.MaxBodySize
	}
	if f.Defaults.UserAgent != "" {
		c.UserAgent = f.Defaults.UserAgent
	}
	if o.CrawlerName != "" {
		c.CrawlerName = o.CrawlerName
	}
	if f.DataDir != "" {
		c.DBDir = f.DataDir
	}
	if f.LogFile != "" {
		c.LogFile = f.LogFile
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.DepthLimit < 0 {
		return ErrInvalidDepthLimit
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.PerHost <= 0 {
		return ErrInvalidPerHost
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages < 0 || c.MaxDuration < 0 {
		return ErrInvalidBudget
	}
	if c.PatternThreshold <= 0 || c.TopHosts <= 0 || c.TopPerConcept <= 0 {
		return ErrInvalidCount
	}
	for _, v := range []float64{c.SemanticWeight, c.MenuThreshold, c.PeopleOnlyThreshold} {
		if v < 0 || v > 1 {
			return ErrInvalidThreshold
		}
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !c.Mode.Valid() {
		return ErrInvalidMode
	}
	return nil
}
