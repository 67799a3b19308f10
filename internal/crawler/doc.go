// Package crawler drives the faculty profile crawl.
//
// # Architecture
//
// A crawl is a set of CrawlTask values flowing through a Scheduler. The
// Scheduler fetches each task's URL under global and per-host limits and
// hands the response to a Handler. The Machine is the Handler used in
// production: it looks at the task's navigation state and emits follow-up
// tasks and at most one profile.
//
// # States
//
//   - menu: classify the page's navigation links into department and
//     people candidates
//   - department: walk the unique content of department pages, jumping
//     back to the menu state when a link leaves the current subtree
//   - people: walk directory pages, detect personal profiles and learn
//     the URL pattern of a branch's profiles
//
// A people branch that wanders off its directory is restarted once in the
// menu state at the page where it went astray.
//
// # Politeness
//
//   - concurrent requests to one host are capped by the host limit
//   - a minimum delay separates requests to the same host
//   - tasks deeper than the depth limit are dropped
//   - only hosts under the registrable domains of the seeds are fetched
//
// # Usage
//
//	sched := crawler.NewScheduler(crawler.NewHTTPFetcher(nil), store)
//	parser := profile.New(profile.WithFetcher(sched))
//	machine := crawler.NewMachine(classifier, parser, pattern.NewStore(10, 2))
//	stats, err := sched.Run(ctx, machine, seeds)
package crawler
