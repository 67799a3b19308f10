package crawler

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Scheduler defaults.
const (
	// DefaultConcurrency is the number of pages fetched at once.
	DefaultConcurrency = 32

	// DefaultPerHost is the number of pages fetched at once from one host.
	DefaultPerHost = 8

	// DefaultDelay is the minimum time between two requests to one host.
	DefaultDelay = 500 * time.Millisecond

	// DefaultMaxDepth is the largest depth counter a task may carry.
	DefaultMaxDepth = 4

	// DefaultCrawlerName is the name under which run status is recorded.
	DefaultCrawlerName = "core"
)

// Store receives the crawl output.
type Store interface {
	// Upsert stores a profile keyed by its URL.
	Upsert(ctx context.Context, rec model.ProfileRecord) error

	// SetCrawlRunning records whether the named crawler is running and
	// the ID of its current run.
	SetCrawlRunning(ctx context.Context, name, runID string, running bool) error
}

// Stats summarizes a finished crawl.
type Stats struct {
	// RunID identifies the run in logs.
	RunID string

	// Fetched is the number of pages requested.
	Fetched int

	// Failed is the number of fetches that returned an error.
	Failed int

	// Dropped is the number of tasks rejected before fetching, plus pages
	// that redirected off the seed domains.
	Dropped int

	// Profiles is the number of profiles stored.
	Profiles int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// hostSlot bounds the requests to one host.
type hostSlot struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// Scheduler fetches crawl tasks with bounded concurrency and passes each
// response to a Handler. A Scheduler runs one crawl at a time.
type Scheduler struct {
	fetcher     Fetcher
	store       Store
	logger      *slog.Logger
	name        string
	concurrency int
	perHost     int
	delay       time.Duration
	maxDepth    int
	maxPages    int
	maxDuration time.Duration

	hostMu sync.Mutex
	hosts  map[string]*hostSlot

	mu       sync.Mutex
	queue    taskQueue
	seq      uint64
	seen     map[string]bool
	domains  *DomainSet
	inflight int
	stats    Stats
	wake     chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithConcurrency sets the global fetch limit.
func WithConcurrency(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithPerHost sets the per-host fetch limit.
func WithPerHost(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.perHost = n
		}
	}
}

// WithDelay sets the minimum delay between requests to one host.
// Zero disables the delay.
func WithDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithMaxDepth sets the depth limit. Zero only fetches depth zero tasks.
func WithMaxDepth(depth int) SchedulerOption {
	return func(s *Scheduler) {
		if depth >= 0 {
			s.maxDepth = depth
		}
	}
}

// WithMaxPages stops fetching after n pages. Zero means no limit.
func WithMaxPages(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n >= 0 {
			s.maxPages = n
		}
	}
}

// WithMaxDuration stops fetching new pages after d. Zero means no limit.
func WithMaxDuration(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d >= 0 {
			s.maxDuration = d
		}
	}
}

// WithCrawlerName sets the name under which run status is recorded.
func WithCrawlerName(name string) SchedulerOption {
	return func(s *Scheduler) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler returns a Scheduler fetching through fetcher and storing
// profiles in store.
func NewScheduler(fetcher Fetcher, store Store, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		fetcher:     fetcher,
		store:       store,
		logger:      slog.Default(),
		name:        DefaultCrawlerName,
		concurrency: DefaultConcurrency,
		perHost:     DefaultPerHost,
		delay:       DefaultDelay,
		maxDepth:    DefaultMaxDepth,
		hosts:       make(map[string]*hostSlot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run crawls from seeds until no task is left or a budget is exhausted.
// Fetches in flight when a budget runs out complete and are handled. The
// run is recorded as running in the store for its whole duration.
func (s *Scheduler) Run(ctx context.Context, handler Handler, seeds []model.Seed) (Stats, error) {
	if len(seeds) == 0 {
		return Stats{}, ErrNoSeeds
	}

	started := time.Now()
	runID := s.reset(seeds)
	logger := s.logger.With("run", runID, "crawler", s.name)

	if err := s.store.SetCrawlRunning(ctx, s.name, runID, true); err != nil {
		return Stats{}, err
	}
	defer func() {
		if err := s.store.SetCrawlRunning(context.WithoutCancel(ctx), s.name, runID, false); err != nil {
			logger.Error("failed to record crawl end", "error", err)
		}
	}()

	for _, seed := range seeds {
		s.enqueue(model.NewSeedTask(seed))
	}
	logger.Info("crawl started", "seeds", len(seeds), "domains", s.domains.Len())

	dispatch := ctx
	if s.maxDuration > 0 {
		var cancel context.CancelFunc
		dispatch, cancel = context.WithTimeout(ctx, s.maxDuration)
		defer cancel()
	}

	profiles := make(chan model.ProfileRecord)
	written := make(chan int)
	go func() {
		written <- s.write(context.WithoutCancel(ctx), logger, profiles)
	}()

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for {
		task, ok := s.next(dispatch)
		if !ok {
			break
		}
		g.Go(func() error {
			s.process(ctx, logger, handler, task, profiles)
			return nil
		})
	}
	_ = g.Wait()
	close(profiles)

	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()
	stats.Profiles = <-written
	stats.Duration = time.Since(started)

	logger.Info("crawl finished",
		"fetched", stats.Fetched,
		"failed", stats.Failed,
		"dropped", stats.Dropped,
		"profiles", stats.Profiles,
		"duration", stats.Duration.String(),
	)
	return stats, ctx.Err()
}

// Fetch fetches target under the host limits of the running crawl. It
// lets handlers download auxiliary documents such as CVs politely.
func (s *Scheduler) Fetch(ctx context.Context, target string) (*model.Response, error) {
	slot := s.hostSlot(extract.Hostname(target))
	if err := slot.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer slot.sem.Release(1)

	if err := slot.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.fetcher.Fetch(ctx, target)
}

// reset prepares the state of a new run and returns its ID.
func (s *Scheduler) reset(seeds []model.Seed) string {
	urls := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		urls = append(urls, seed.URL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.seq = 0
	s.seen = make(map[string]bool)
	s.domains = NewDomainSet(urls)
	s.inflight = 0
	s.stats = Stats{RunID: uuid.NewString()}
	s.wake = make(chan struct{}, 1)
	return s.stats.RunID
}

// enqueue adds task to the queue unless it is invalid, too deep, off the
// seed domains or already requested.
func (s *Scheduler) enqueue(task model.CrawlTask) {
	drop := func(reason string) {
		s.stats.Dropped++
		s.logger.Debug("task dropped", "url", task.URL, "state", task.State.String(), "reason", reason)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := task.Validate(); err != nil {
		drop(err.Error())
		return
	}
	if task.MaxDepth() > s.maxDepth {
		drop("depth limit")
		return
	}
	if !s.domains.Allows(task.URL) {
		drop("outside seed domains")
		return
	}
	key := extract.NormalizeURL(task.URL)
	if s.seen[key] && !task.Revisit {
		drop("already requested")
		return
	}
	s.seen[key] = true

	s.seq++
	heap.Push(&s.queue, queued{task: task, seq: s.seq})
	s.signal()
}

// next blocks until a task is available. It reports false once the queue
// is empty with nothing in flight, the page budget is spent or ctx ends.
func (s *Scheduler) next(ctx context.Context) (model.CrawlTask, bool) {
	for {
		if ctx.Err() != nil {
			return model.CrawlTask{}, false
		}

		s.mu.Lock()
		if s.maxPages > 0 && s.stats.Fetched >= s.maxPages {
			s.mu.Unlock()
			s.logger.Info("page budget exhausted", "pages", s.maxPages)
			return model.CrawlTask{}, false
		}
		if s.queue.Len() > 0 {
			item := heap.Pop(&s.queue).(queued)
			s.inflight++
			s.stats.Fetched++
			s.mu.Unlock()
			return item.task, true
		}
		idle := s.inflight == 0
		s.mu.Unlock()
		if idle {
			return model.CrawlTask{}, false
		}

		select {
		case <-ctx.Done():
			return model.CrawlTask{}, false
		case <-s.wake:
		}
	}
}

// process fetches and handles one task, queueing its follow-up tasks.
func (s *Scheduler) process(ctx context.Context, logger *slog.Logger, handler Handler, task model.CrawlTask, profiles chan<- model.ProfileRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "url", task.URL, "state", task.State.String(), "panic", r)
		}
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
		s.signal()
	}()

	resp, err := s.Fetch(ctx, task.URL)
	if err != nil {
		s.mu.Lock()
		s.stats.Failed++
		s.mu.Unlock()
		switch {
		case errors.Is(err, ErrNotFound):
			logger.Info("page not found", "url", task.URL, "state", task.State.String())
		case ctx.Err() != nil:
		default:
			logger.Warn("fetch failed", "url", task.URL, "state", task.State.String(), "error", err)
		}
		return
	}

	if resp.Redirected() {
		s.mu.Lock()
		allowed := s.domains.Allows(resp.EffectiveURL())
		if !allowed {
			s.stats.Dropped++
		}
		s.mu.Unlock()
		if !allowed {
			logger.Debug("redirected outside seed domains", "url", task.URL, "to", resp.EffectiveURL())
			return
		}
	}

	result := handler.Handle(ctx, task, resp)
	if result.Profile != nil {
		select {
		case profiles <- *result.Profile:
		case <-ctx.Done():
			return
		}
	}
	for _, t := range result.Tasks {
		s.enqueue(t)
	}
}

// write stores profiles until the channel closes and returns how many
// were stored.
func (s *Scheduler) write(ctx context.Context, logger *slog.Logger, profiles <-chan model.ProfileRecord) int {
	n := 0
	for rec := range profiles {
		if err := s.store.Upsert(ctx, rec); err != nil {
			logger.Error("failed to store profile", "url", rec.URL, "error", err)
			continue
		}
		n++
	}
	return n
}

// signal wakes the dispatcher without blocking.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) hostSlot(host string) *hostSlot {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()
	if slot, ok := s.hosts[host]; ok {
		return slot
	}
	limit := rate.Inf
	if s.delay > 0 {
		limit = rate.Every(s.delay)
	}
	slot := &hostSlot{
		sem:     semaphore.NewWeighted(int64(s.perHost)),
		limiter: rate.NewLimiter(limit, 1),
	}
	s.hosts[host] = slot
	return slot
}
