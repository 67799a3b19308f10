package pattern

import (
	"sync"

	"github.com/nao1215/scholarscan/internal/model"
)

// DefaultThreshold is the number of confirmed profiles after which a
// branch compiles its Pattern.
const DefaultThreshold = 10

// BranchProfile is the mutable learning state of one people branch.
// It is safe for concurrent use.
type BranchProfile struct {
	mu        sync.Mutex
	threshold int
	topN      int
	count     int
	samples   []string
	pattern   *Pattern
}

// Decision is the outcome of observing a confirmed profile page.
type Decision struct {
	// Count is the number of confirmed profiles including this one.
	Count int

	// Accepted reports whether the page should be processed as a profile.
	Accepted bool

	// Learning is set while the branch is still collecting samples.
	Learning bool

	// Compiled is set on the observation that compiled the Pattern.
	Compiled bool
}

// Observe records a confirmed profile page at pageURL, linked from
// parentURL. Below the threshold the page is accepted and kept as a
// sample. The observation that reaches the threshold compiles the Pattern
// from the samples and parentURL; from then on pages are accepted only
// when they match it. The Pattern is compiled exactly once.
func (b *BranchProfile) Observe(pageURL, parentURL string) Decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	d := Decision{Count: b.count}
	if b.count < b.threshold {
		b.samples = append(b.samples, pageURL)
		d.Accepted = true
		d.Learning = true
		return d
	}

	if b.pattern == nil {
		b.pattern = Compile(b.samples, parentURL, b.topN)
		d.Compiled = true
	}
	d.Accepted = b.pattern.Matches(pageURL)
	return d
}

// Allows reports whether a link to target may be followed. Before the
// Pattern exists every link is allowed.
func (b *BranchProfile) Allows(target string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pattern == nil || b.pattern.Matches(target)
}

// Pattern returns the compiled Pattern, or nil while learning.
func (b *BranchProfile) Pattern() *Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pattern
}

// Count returns the number of confirmed profiles observed.
func (b *BranchProfile) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Samples returns a copy of the learning samples.
func (b *BranchProfile) Samples() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.samples...)
}

// Store holds the BranchProfile of every branch, keyed by original start.
// Lookups take a shared lock only long enough to find the entry; updates
// lock the entry itself, so branches never contend with each other.
type Store struct {
	mu        sync.RWMutex
	branches  map[model.Start]*BranchProfile
	threshold int
	topN      int
}

// NewStore returns an empty Store whose branches learn after threshold
// confirmed profiles and accept topN hosts. Non-positive values select
// the defaults.
func NewStore(threshold, topN int) *Store {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if topN <= 0 {
		topN = DefaultTopHosts
	}
	return &Store{
		branches:  make(map[model.Start]*BranchProfile),
		threshold: threshold,
		topN:      topN,
	}
}

// Get returns the BranchProfile of start.
func (s *Store) Get(start model.Start) (*BranchProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[start]
	return b, ok
}

// GetOrCreate returns the BranchProfile of start, creating it when absent.
// created reports whether this call created it.
func (s *Store) GetOrCreate(start model.Start) (b *BranchProfile, created bool) {
	if b, ok := s.Get(start); ok {
		return b, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.branches[start]; ok {
		return b, false
	}
	b = &BranchProfile{threshold: s.threshold, topN: s.topN}
	s.branches[start] = b
	return b, true
}

// Len returns the number of branches.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.branches)
}
