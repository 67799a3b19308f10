package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/scholarscan/internal/classify"
	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
	"github.com/nao1215/scholarscan/internal/pattern"
	"github.com/nao1215/scholarscan/internal/profile"
)

// Result is what handling one fetched page produces.
type Result struct {
	// Tasks are the follow-up tasks to schedule.
	Tasks []model.CrawlTask

	// Profile is the confirmed profile found on the page, if any.
	Profile *model.ProfileRecord
}

// Handler processes a fetched page.
type Handler interface {
	Handle(ctx context.Context, task model.CrawlTask, resp *model.Response) Result
}

// Machine is the crawl state machine. It is safe for concurrent use; the
// only state shared between tasks is the branch store.
type Machine struct {
	classifier *classify.Classifier
	parser     *profile.Parser
	branches   *pattern.Store
	filter     *LinkFilter
	logger     *slog.Logger
	now        func() time.Time

	menuThreshold       float64
	peopleOnlyThreshold float64
	topPerConcept       int
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithThresholds sets the classification thresholds of the menu state:
// menu applies while both concepts are sought, peopleOnly once the branch
// only looks for directories.
func WithThresholds(menu, peopleOnly float64) MachineOption {
	return func(m *Machine) {
		if menu > 0 {
			m.menuThreshold = menu
		}
		if peopleOnly > 0 {
			m.peopleOnlyThreshold = peopleOnly
		}
	}
}

// WithTopPerConcept sets how many links are kept per concept synonym.
func WithTopPerConcept(n int) MachineOption {
	return func(m *Machine) {
		if n > 0 {
			m.topPerConcept = n
		}
	}
}

// WithLinkFilter replaces the link filter.
func WithLinkFilter(filter *LinkFilter) MachineOption {
	return func(m *Machine) {
		if filter != nil {
			m.filter = filter
		}
	}
}

// WithMachineLogger sets the logger.
func WithMachineLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source stamped on profiles.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMachine returns a Machine.
func NewMachine(classifier *classify.Classifier, parser *profile.Parser, branches *pattern.Store, opts ...MachineOption) *Machine {
	m := &Machine{
		classifier:          classifier,
		parser:              parser,
		branches:            branches,
		filter:              NewLinkFilter(nil),
		logger:              slog.Default(),
		now:                 time.Now,
		menuThreshold:       classify.DefaultThreshold,
		peopleOnlyThreshold: classify.DefaultPeopleOnlyThreshold,
		topPerConcept:       classify.DefaultTopPerConcept,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle implements Handler. It never panics; a failure while handling a
// page ends that task only.
func (m *Machine) Handle(ctx context.Context, task model.CrawlTask, resp *model.Response) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("task handler panicked",
				"url", task.URL,
				"state", task.State.String(),
				"panic", fmt.Sprint(r),
			)
			res = Result{}
		}
	}()

	if err := task.Validate(); err != nil {
		m.logger.Warn("invalid task", "url", task.URL, "error", err)
		return Result{}
	}
	if resp == nil {
		return Result{}
	}
	if resp.StatusCode == http.StatusNotFound {
		m.logger.Debug("page not found", "url", task.URL, "state", task.State.String())
		return Result{}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.IsPDF() {
		return Result{}
	}

	doc := extract.FromResponse(resp)
	switch task.State {
	case model.StateMenuScan:
		return m.menuScan(task, resp, doc)
	case model.StateDepartmentScan:
		return m.departmentScan(task, resp, doc)
	case model.StatePeopleScan:
		return m.peopleScan(ctx, task, doc)
	}
	return Result{}
}

// menuScan classifies the page's navigation and forks a department task
// per department candidate and a people task per people candidate.
func (m *Machine) menuScan(task model.CrawlTask, resp *model.Response, doc *extract.Document) Result {
	if resp.Redirected() {
		m.logger.Debug("menu page redirected", "from", task.URL, "to", resp.EffectiveURL())
	}

	peopleOnly := task.FromDepartment || task.Fallback || task.Seed.Department
	threshold := m.menuThreshold
	if peopleOnly {
		threshold = m.peopleOnlyThreshold
	}
	candidates := m.classifier.Classify(doc, classify.Options{
		Threshold:     threshold,
		TopPerConcept: m.topPerConcept,
		PeopleOnly:    peopleOnly,
		AllowFallback: true,
	})

	past := []model.PageDigest{doc.Digest()}
	var res Result
	for _, c := range candidates {
		if !m.filter.Allowed(model.Link{Text: c.Text, URL: c.URL}) {
			continue
		}
		switch c.Tag {
		case model.ConceptDepartment:
			res.Tasks = append(res.Tasks, task.Descend(model.StateDepartmentScan, c.URL, c.Text, past))
		case model.ConceptPeople:
			start := model.Start{URL: doc.URL(), Title: task.Title}
			if task.FromDepartment {
				start.Title = doc.Title()
			}
			child := task.Descend(model.StatePeopleScan, c.URL, c.Text, past)
			child.OriginalStart = start
			if _, created := m.branches.GetOrCreate(start); created {
				m.logger.Debug("people branch opened", "start", start.URL, "title", start.Title)
			}
			res.Tasks = append(res.Tasks, child)
		}
	}

	m.logger.Debug("menu scanned",
		"url", task.URL,
		"candidates", len(candidates),
		"tasks", len(res.Tasks),
		"peopleOnly", peopleOnly,
	)
	return res
}

// departmentScan follows the unique content of a department page. Links
// that leave the page's subtree start over in the menu state.
func (m *Machine) departmentScan(task model.CrawlTask, resp *model.Response, doc *extract.Document) Result {
	if resp.Redirected() {
		final := resp.EffectiveURL()
		if !m.filter.AllowedURL(final) {
			m.logger.Debug("department redirected to a filtered page", "from", task.URL, "to", final)
			return Result{}
		}
		// A redirect only escapes when it leaves the page that linked here;
		// /a/b/index landing on /a/b is still the same department.
		origin := task.PrevURL
		if origin == "" {
			origin = task.URL
		}
		if leavesSubtree(origin, final) {
			child := task.Restart(final)
			child.FromDepartment = true
			m.logger.Debug("department redirected out of its subtree", "from", task.URL, "to", final)
			return Result{Tasks: []model.CrawlTask{child}}
		}
	}

	links := doc.UniqueContent(task.Past)
	past := task.PastWith(doc.Digest())

	var res Result
	for _, l := range links {
		if !m.filter.Allowed(l) {
			continue
		}
		if leavesSubtree(doc.URL(), l.URL) {
			child := task.Descend(model.StateMenuScan, l.URL, l.Text, nil)
			child.Depth = 0
			child.FromDepartment = true
			res.Tasks = append(res.Tasks, child)
			continue
		}
		res.Tasks = append(res.Tasks, task.Descend(model.StateDepartmentScan, l.URL, l.Text, past))
	}
	return res
}

// peopleScan detects profile pages and otherwise walks the directory.
func (m *Machine) peopleScan(ctx context.Context, task model.CrawlTask, doc *extract.Document) Result {
	var res Result

	if !task.Iframe {
		for _, src := range doc.Iframes() {
			if !m.filter.AllowedURL(src) {
				continue
			}
			child := task.Retry(src)
			child.Iframe = true
			res.Tasks = append(res.Tasks, child)
		}
	}

	branch, _ := m.branches.GetOrCreate(task.OriginalStart)
	parent, _ := task.Parent()
	page := profile.Page{
		Doc:         doc,
		Label:       task.Title,
		ParentTitle: parent.Title,
		Past:        task.Past,
	}

	if task.PeopleDepth > 1 && m.parser.IsProfile(page) {
		d := branch.Observe(doc.URL(), task.PrevURL)
		if d.Compiled {
			m.logger.Info("profile pattern learned",
				"start", task.OriginalStart.URL,
				"hosts", branch.Pattern().Hosts,
				"prefixes", branch.Pattern().Prefixes,
				"samples", branch.Samples(),
			)
		}
		if !d.Accepted {
			m.logger.Debug("profile outside learned pattern", "url", doc.URL())
			return res
		}
		rec := m.parser.Extract(ctx, page)
		if !rec.Rank.IsProfessor() {
			m.logger.Debug("profile is not a professor", "url", doc.URL(), "name", rec.Name)
			return res
		}
		rec.Department = task.OriginalStart.Title
		if rec.Department == "" {
			rec.Department = task.Seed.Title
		}
		rec.University = task.Seed.University
		rec.Tag = task.Seed.Tag
		rec.CrawledAt = m.now()
		res.Profile = &rec
		m.logger.Info("profile found",
			"url", rec.URL,
			"name", rec.Name,
			"rank", string(rec.Rank),
			"count", d.Count,
		)
		return res
	}

	if !task.Fallback && pathDiverges(doc.URL(), task.PrevURL) {
		child := task.Restart(doc.URL())
		child.Fallback = true
		child.PeopleDepth = 0
		m.logger.Debug("people branch diverged, restarting in menu state",
			"url", doc.URL(),
			"prev", task.PrevURL,
		)
		res.Tasks = append(res.Tasks, child)
		return res
	}

	var links extract.Links
	if task.XMLRetry {
		links = extract.FilterSeen(doc.XMLLinks(), task.Past)
	} else {
		links = doc.UniqueContent(task.Past)
	}
	if len(links) == 0 {
		if !task.XMLRetry {
			if variant := xmlVariant(task.URL); variant != task.URL {
				child := task.Retry(variant)
				child.XMLRetry = true
				res.Tasks = append(res.Tasks, child)
			}
		}
		return res
	}

	past := task.PastWith(doc.Digest())
	for _, l := range links {
		if !m.filter.Allowed(l) || !branch.Allows(l.URL) {
			continue
		}
		res.Tasks = append(res.Tasks, task.Descend(model.StatePeopleScan, l.URL, l.Text, past))
	}
	return res
}
