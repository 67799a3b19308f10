package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/scholarscan/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".scholarscan"

// CrawlOverrides overrides the built-in crawl defaults.
// Zero values keep the default.
type CrawlOverrides struct {
	DepthLimit          int            `yaml:"depthLimit,omitempty"`
	Concurrency         int            `yaml:"concurrency,omitempty"`
	PerHost             int            `yaml:"perHost,omitempty"`
	CrawlDelay          *time.Duration `yaml:"crawlDelay,omitempty"`
	Timeout             time.Duration  `yaml:"timeout,omitempty"`
	MaxPages            int            `yaml:"maxPages,omitempty"`
	MaxDuration         time.Duration  `yaml:"maxDuration,omitempty"`
	PatternThreshold    int            `yaml:"patternThreshold,omitempty"`
	TopHosts            int            `yaml:"topHosts,omitempty"`
	SemanticWeight      float64        `yaml:"semanticWeight,omitempty"`
	TopPerConcept       int            `yaml:"topPerConcept,omitempty"`
	MenuThreshold       float64        `yaml:"menuThreshold,omitempty"`
	PeopleOnlyThreshold float64        `yaml:"peopleOnlyThreshold,omitempty"`
	MaxBodySize         int64          `yaml:"maxBodySize,omitempty"`
	CrawlerName         string         `yaml:"crawlerName,omitempty"`
}

// Concepts replaces the synonym lists used to classify links.
// An empty list keeps the built-in synonyms.
type Concepts struct {
	Department []string `yaml:"department,omitempty"`
	People     []string `yaml:"people,omitempty"`
}

// SiteConfig holds configuration for a single university host.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// IgnorePatterns are URL patterns never crawled.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .scholarscan configuration file.
type File struct {
	// Crawl overrides the crawl defaults.
	Crawl CrawlOverrides `yaml:"crawl,omitempty"`

	// DataDir overrides the directory of the SQLite database.
	DataDir string `yaml:"dataDir,omitempty"`

	// LogFile is a log file written in addition to stderr.
	LogFile string `yaml:"logFile,omitempty"`

	// Concepts overrides the link classification synonyms.
	Concepts Concepts `yaml:"concepts,omitempty"`

	// Institutions replaces the list of known degree-granting schools.
	Institutions []string `yaml:"institutions,omitempty"`

	// Defaults applies to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps hostnames (e.g. "www.example.edu") to their configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Seeds are entry points crawled in addition to the CSV seed list.
	Seeds []model.Seed `yaml:"seeds,omitempty"`
}

// GetSiteConfig returns the configuration for host, merged over Defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = make(map[string]string, len(cf.Defaults.Headers))
	for k, v := range cf.Defaults.Headers {
		result.Headers[k] = v
	}

	siteConfig, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}
	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	for k, v := range siteConfig.Headers {
		result.Headers[k] = v
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	return result
}

// HostHeaders returns the per-host request headers of every configured
// site, including a User-Agent override when one is set.
func (cf *File) HostHeaders() map[string]map[string]string {
	hosts := make(map[string]map[string]string, len(cf.Sites))
	for host := range cf.Sites {
		site := cf.GetSiteConfig(host)
		headers := site.Headers
		if site.UserAgent != "" {
			headers["User-Agent"] = site.UserAgent
		}
		if len(headers) > 0 {
			hosts[strings.ToLower(host)] = headers
		}
	}
	return hosts
}

// IgnorePatterns returns the ignore patterns of the defaults and of every
// site, without duplicates.
func (cf *File) IgnorePatterns() []string {
	seen := make(map[string]bool)
	var patterns []string
	add := func(list []string) {
		for _, p := range list {
			if p != "" && !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
	}
	add(cf.Defaults.IgnorePatterns)
	for _, site := range cf.Sites {
		add(site.IgnorePatterns)
	}
	return patterns
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}
	lowered := make(map[string]SiteConfig, len(cf.Sites))
	for host, site := range cf.Sites {
		lowered[strings.ToLower(host)] = site
	}
	cf.Sites = lowered

	for i := range cf.Seeds {
		cf.Seeds[i].Tag = model.ParseTag(string(cf.Seeds[i].Tag))
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .scholarscan in the current directory
// 3. Look for .scholarscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
