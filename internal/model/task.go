package model

import (
	"errors"
	"fmt"
)

// State is the navigation state a CrawlTask is fetched in.
type State int

const (
	// StateMenuScan classifies a page's navigation links into department
	// and people candidates.
	StateMenuScan State = iota

	// StateDepartmentScan walks the unique content of department pages.
	StateDepartmentScan

	// StatePeopleScan walks directory pages looking for personal profiles.
	StatePeopleScan
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateMenuScan:
		return "menu"
	case StateDepartmentScan:
		return "department"
	case StatePeopleScan:
		return "people"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Start identifies the page at which a branch committed to PeopleScan.
// It keys the branch's learned profile pattern.
type Start struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// IsZero reports whether the start is unset.
func (s Start) IsZero() bool {
	return s.URL == ""
}

// Errors returned by CrawlTask.Validate.
var (
	// ErrTaskNoURL is returned when a task has no target URL.
	ErrTaskNoURL = errors.New("crawl task has no url")

	// ErrTaskBadState is returned when a task carries an unknown state.
	ErrTaskBadState = errors.New("crawl task has an unknown state")

	// ErrTaskNoStart is returned when a people task has no original start.
	ErrTaskNoStart = errors.New("people task has no original start")

	// ErrTaskNegativeDepth is returned when a depth counter is negative.
	ErrTaskNegativeDepth = errors.New("crawl task has a negative depth")
)

// CrawlTask is an immutable description of one page to fetch.
// Handlers never modify a task they receive; successors are derived with
// Descend, Retry and Restart, which return new values.
type CrawlTask struct {
	// URL is the page to fetch.
	URL string

	// State selects the handler that processes the fetched page.
	State State

	// Depth is the general branch depth checked against the depth limit.
	// MenuScan re-entries reset it to zero.
	Depth int

	// DeptDepth counts DepartmentScan transitions along the branch.
	DeptDepth int

	// PeopleDepth counts PeopleScan transitions along the branch.
	PeopleDepth int

	// OriginalStart keys the branch's profile pattern. Set when the branch
	// first enters PeopleScan.
	OriginalStart Start

	// PrevURL is the URL of the page whose link produced this task.
	PrevURL string

	// Title is the label of the inbound link, or the seed's entry title.
	Title string

	// Seed is the entry this branch descends from.
	Seed Seed

	// FromDepartment is set once the branch has passed through a
	// department page; MenuScan then only looks for people links.
	FromDepartment bool

	// Fallback is set once the branch has used its single PeopleScan to
	// MenuScan reversion.
	Fallback bool

	// Iframe marks a task that fetches an iframe source of the previous page.
	Iframe bool

	// XMLRetry marks a task that fetches the XML variant of a page whose
	// unique content was empty.
	XMLRetry bool

	// Revisit bypasses duplicate-request suppression in the scheduler.
	Revisit bool

	// Past is the ordered list of pages previously visited by this branch.
	Past []PageDigest
}

// NewSeedTask returns the MenuScan task that starts a crawl at a seed.
func NewSeedTask(seed Seed) CrawlTask {
	return CrawlTask{
		URL:           seed.URL,
		State:         StateMenuScan,
		Title:         seed.Title,
		OriginalStart: Start{URL: seed.URL, Title: seed.Title},
		Seed:          seed,
	}
}

// Validate checks that the task carries everything its handler needs.
func (t CrawlTask) Validate() error {
	if t.URL == "" {
		return ErrTaskNoURL
	}
	switch t.State {
	case StateMenuScan, StateDepartmentScan:
	case StatePeopleScan:
		if t.OriginalStart.IsZero() {
			return ErrTaskNoStart
		}
	default:
		return ErrTaskBadState
	}
	if t.Depth < 0 || t.DeptDepth < 0 || t.PeopleDepth < 0 {
		return ErrTaskNegativeDepth
	}
	return nil
}

// MaxDepth returns the largest of the task's depth counters.
func (t CrawlTask) MaxDepth() int {
	return max(t.Depth, t.DeptDepth, t.PeopleDepth)
}

// Descend returns the task for a link followed from t into state.
// Depth grows by one and the counter belonging to state grows by one.
// past becomes the child's visited-page list.
func (t CrawlTask) Descend(state State, target, title string, past []PageDigest) CrawlTask {
	child := t
	child.URL = target
	child.State = state
	child.Title = title
	child.PrevURL = t.URL
	child.Depth = t.Depth + 1
	switch state {
	case StateDepartmentScan:
		child.DeptDepth = t.DeptDepth + 1
	case StatePeopleScan:
		child.PeopleDepth = t.PeopleDepth + 1
	}
	child.Iframe = false
	child.XMLRetry = false
	child.Revisit = false
	child.Past = past
	return child
}

// Retry returns a task that refetches the same logical page at target
// without counting a new level, as for iframe sources and XML variants.
func (t CrawlTask) Retry(target string) CrawlTask {
	child := t
	child.URL = target
	child.Iframe = false
	child.XMLRetry = false
	child.Revisit = false
	child.Past = t.PastWith()
	return child
}

// Restart returns a MenuScan task for target with the general depth reset.
// The task bypasses duplicate suppression because target is usually a page
// this branch already fetched in another state.
func (t CrawlTask) Restart(target string) CrawlTask {
	child := t
	child.URL = target
	child.State = StateMenuScan
	child.PrevURL = t.URL
	child.Depth = 0
	child.Iframe = false
	child.XMLRetry = false
	child.Revisit = true
	child.Past = nil
	return child
}

// PastWith returns a copy of the task's visited pages with extra appended.
// The returned slice never aliases t.Past.
func (t CrawlTask) PastWith(extra ...PageDigest) []PageDigest {
	past := make([]PageDigest, 0, len(t.Past)+len(extra))
	past = append(past, t.Past...)
	return append(past, extra...)
}

// Parent returns the most recently visited page of the branch.
func (t CrawlTask) Parent() (PageDigest, bool) {
	if len(t.Past) == 0 {
		return PageDigest{}, false
	}
	return t.Past[len(t.Past)-1], true
}
