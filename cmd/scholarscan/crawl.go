package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarscan/internal/classify"
	"github.com/nao1215/scholarscan/internal/config"
	"github.com/nao1215/scholarscan/internal/crawler"
	"github.com/nao1215/scholarscan/internal/database"
	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/log"
	"github.com/nao1215/scholarscan/internal/model"
	"github.com/nao1215/scholarscan/internal/pattern"
	"github.com/nao1215/scholarscan/internal/profile"
	"github.com/nao1215/scholarscan/internal/similarity"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl seed universities for faculty profiles",
		Long: `Crawl starts from seed pages, navigates menus toward department and people
directories and stores every professor profile it finds.

Seeds come from a CSV file (columns: school_name,url,title,type,tag) and
from the seeds section of the configuration file. A type of "department"
marks a page that already belongs to one department.

Modes:
  broad       crawl every seed (default)
  prioritize  crawl only seeds tagged peer or aspirant
  test        crawl the first seed only

Examples:
  # Crawl all seeds
  scholarscan crawl --seeds universities.csv

  # Crawl one entry page
  scholarscan crawl --url https://www.example.edu/academics/ --university "Example University"

  # Crawl peer and aspirant universities for at most two hours
  scholarscan crawl --seeds universities.csv --mode prioritize --max-duration 2h`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Seed selection
	cmd.Flags().StringP("seeds", "s", "", "CSV seed list")
	cmd.Flags().StringP("url", "u", "", "Crawl only the seed with this URL, or this URL as a new seed")
	cmd.Flags().String("university", "", "University name used with --url when the URL is not a known seed")
	cmd.Flags().StringP("mode", "m", string(config.ModeBroad), "Seed selection: broad, prioritize or test")
	cmd.Flags().Bool("shuffle", false, "Randomize the seed order")

	// Crawl limits
	cmd.Flags().IntP("depth", "d", config.DefaultDepthLimit, "Maximum task depth")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Concurrent fetches across all hosts")
	cmd.Flags().Int("per-host", config.DefaultPerHost, "Concurrent fetches per host")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay, "Minimum delay between requests to one host")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout of a single request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages, "Page budget of the run (0: unlimited)")
	cmd.Flags().Duration("max-duration", config.DefaultMaxDuration, "Time budget of the run (0: unlimited)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header")

	// Classification
	cmd.Flags().Int("pattern-threshold", config.DefaultPatternThreshold, "Accepted profiles before a branch learns its URL pattern")
	cmd.Flags().Int("top-hosts", config.DefaultTopHosts, "Hosts kept by a learned URL pattern")
	cmd.Flags().Float64("semantic-weight", config.DefaultSemanticWeight, "Share of the semantic score in link similarity")
	cmd.Flags().Int("top-per-concept", config.DefaultTopPerConcept, "Links followed per synonym")
	cmd.Flags().Float64("menu-threshold", config.DefaultMenuThreshold, "Minimum score of a followed menu link")
	cmd.Flags().Float64("people-only-threshold", config.DefaultPeopleOnlyThreshold, "Minimum score of a followed people link")

	// Storage and output
	cmd.Flags().String("crawler-name", config.DefaultCrawlerName, "Name recorded in the crawl status table")
	cmd.Flags().String("data-dir", "", "Database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .scholarscan in current or home directory)")
	cmd.Flags().Bool("json-log", false, "Write logs as JSON lines")
	cmd.Flags().String("log-file", "", "Also write logs to this file, rotated by size")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, logCloser, err := log.NewLoggerWithFile(os.Stderr, cfg.LogFile, cfg.Verbose, cfg.JSONLog)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, finishing in-flight pages...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig layers defaults, the configuration file and the flags the
// user set, then loads and selects the seeds.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; a missing default file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	intFlags := map[string]*int{
		"depth":             &cfg.DepthLimit,
		"concurrency":       &cfg.Concurrency,
		"per-host":          &cfg.PerHost,
		"max-pages":         &cfg.MaxPages,
		"pattern-threshold": &cfg.PatternThreshold,
		"top-hosts":         &cfg.TopHosts,
		"top-per-concept":   &cfg.TopPerConcept,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetInt(name); err != nil {
				return nil, err
			}
		}
	}

	durationFlags := map[string]*time.Duration{
		"delay":        &cfg.CrawlDelay,
		"timeout":      &cfg.Timeout,
		"max-duration": &cfg.MaxDuration,
	}
	for name, dst := range durationFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetDuration(name); err != nil {
				return nil, err
			}
		}
	}

	floatFlags := map[string]*float64{
		"semantic-weight":       &cfg.SemanticWeight,
		"menu-threshold":        &cfg.MenuThreshold,
		"people-only-threshold": &cfg.PeopleOnlyThreshold,
	}
	for name, dst := range floatFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetFloat64(name); err != nil {
				return nil, err
			}
		}
	}

	stringFlags := map[string]*string{
		"user-agent":   &cfg.UserAgent,
		"crawler-name": &cfg.CrawlerName,
		"data-dir":     &cfg.DBDir,
		"log-file":     &cfg.LogFile,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return nil, err
			}
		}
	}

	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}

	mode, err := flags.GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode = config.Mode(mode)
	if cfg.StartURL, err = flags.GetString("url"); err != nil {
		return nil, err
	}
	if cfg.SeedsFile, err = flags.GetString("seeds"); err != nil {
		return nil, err
	}
	if cfg.JSONLog, err = flags.GetBool("json-log"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	university, err := flags.GetString("university")
	if err != nil {
		return nil, err
	}
	shuffle, err := flags.GetBool("shuffle")
	if err != nil {
		return nil, err
	}

	cfg.Seeds, err = loadSeeds(cfg, university)
	if err != nil {
		return nil, err
	}
	if shuffle {
		config.ShuffleSeeds(cfg.Seeds)
	}
	return cfg, nil
}

// loadSeeds collects the seeds of the CSV list and the configuration file
// and applies the mode and start URL. A start URL that matches no seed
// becomes a seed of its own.
func loadSeeds(cfg *config.Config, university string) ([]model.Seed, error) {
	var seeds []model.Seed
	if cfg.SeedsFile != "" {
		loaded, err := config.LoadSeeds(cfg.SeedsFile)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, loaded...)
	}
	if cfg.File != nil {
		seeds = append(seeds, cfg.File.Seeds...)
	}

	selected := config.SelectSeeds(seeds, cfg.Mode, cfg.StartURL)
	if len(selected) == 0 && cfg.StartURL != "" {
		if university == "" {
			university = extract.Hostname(cfg.StartURL)
		}
		selected = []model.Seed{{
			University: university,
			URL:        cfg.StartURL,
			Title:      extract.PathLabel(cfg.StartURL),
		}}
	}
	return selected, nil
}

// runCrawl opens the database, runs one crawl and prints its summary.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Debug("database opened", "path", db.Path())

	status, err := db.GetCrawlStatus(ctx, cfg.CrawlerName)
	if err != nil {
		return err
	}
	if status != nil && status.Running {
		logger.Warn("previous run is still marked as running; it was interrupted or is running elsewhere",
			"crawler", cfg.CrawlerName,
			"run", status.RunID,
			"since", status.UpdatedAt,
		)
	}

	scheduler, machine := newCrawler(cfg, db, logger)

	fmt.Fprintf(out, "Crawling %d seed(s) (concurrency %d, %d per host)...\n",
		len(cfg.Seeds), cfg.Concurrency, cfg.PerHost)

	stats, err := scheduler.Run(ctx, machine, cfg.Seeds)
	printStats(out, stats)

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Crawl interrupted; profiles found so far are stored.")
		return nil
	}
	return err
}

// newCrawler wires the crawl components from cfg.
func newCrawler(cfg *config.Config, store crawler.Store, logger *slog.Logger) (*crawler.Scheduler, *crawler.Machine) {
	file := cfg.File
	if file == nil {
		file = &config.File{}
	}

	fetcher := crawler.NewHTTPFetcher(
		&http.Client{Timeout: cfg.Timeout},
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithHeaders(file.Defaults.Headers),
		crawler.WithHostHeaders(file.HostHeaders()),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)
	logger.Debug("fetcher configured", "headers", file.Defaults.Headers, "sites", len(file.Sites))

	scheduler := crawler.NewScheduler(fetcher, store,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithPerHost(cfg.PerHost),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithMaxDepth(cfg.DepthLimit),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxDuration(cfg.MaxDuration),
		crawler.WithCrawlerName(cfg.CrawlerName),
		crawler.WithLogger(logger),
	)

	scorer := similarity.NewScorer(nil, similarity.WithSemanticWeight(cfg.SemanticWeight))
	classifier := classify.New(scorer,
		classify.WithConcepts(conceptSets(file.Concepts)),
		classify.WithLogger(logger),
	)
	parser := profile.New(
		profile.WithInstitutions(file.Institutions),
		profile.WithFetcher(scheduler),
		profile.WithLogger(logger),
	)

	machine := crawler.NewMachine(classifier, parser,
		pattern.NewStore(cfg.PatternThreshold, cfg.TopHosts),
		crawler.WithThresholds(cfg.MenuThreshold, cfg.PeopleOnlyThreshold),
		crawler.WithTopPerConcept(cfg.TopPerConcept),
		crawler.WithLinkFilter(crawler.NewLinkFilter(file.IgnorePatterns())),
		crawler.WithMachineLogger(logger),
	)
	return scheduler, machine
}

// conceptSets returns the built-in concept sets with the synonyms of
// concepts replacing the built-in ones where given.
func conceptSets(concepts config.Concepts) []classify.ConceptSet {
	sets := classify.DefaultConcepts()
	for i := range sets {
		switch sets[i].Concept {
		case model.ConceptDepartment:
			if len(concepts.Department) > 0 {
				sets[i].Synonyms = concepts.Department
			}
		case model.ConceptPeople:
			if len(concepts.People) > 0 {
				sets[i].Synonyms = concepts.People
			}
		}
	}
	return sets
}

func printStats(out io.Writer, stats crawler.Stats) {
	fmt.Fprintf(out, "\nCrawl %s completed in %s\n", stats.RunID, stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Pages fetched:  %d\n", stats.Fetched)
	fmt.Fprintf(out, "  Fetch failures: %d\n", stats.Failed)
	fmt.Fprintf(out, "  Tasks dropped:  %d\n", stats.Dropped)
	fmt.Fprintf(out, "  Profiles saved: %d\n", stats.Profiles)
}
