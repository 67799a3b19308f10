package pattern

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultTopHosts is how many hosts a compiled Pattern accepts.
const DefaultTopHosts = 2

// Pattern is a learned set of accepted hosts and parent-path prefixes.
type Pattern struct {
	// Hosts are the accepted host names, most frequent first.
	Hosts []string

	// Prefixes are the accepted parent-path prefixes, sorted.
	Prefixes []string

	// AcceptRoot is set when a sample had no parent path, so URLs directly
	// under the host root are accepted too.
	AcceptRoot bool
}

// Compile derives a Pattern from sample URLs and the URL of the page the
// samples were linked from. Hosts are the topN most frequent hosts among
// urls and parentURL, ties broken by first appearance. Prefixes are the
// non-empty parent paths (path minus last segment) of all of them.
func Compile(urls []string, parentURL string, topN int) *Pattern {
	if topN <= 0 {
		topN = DefaultTopHosts
	}

	samples := append(append([]string(nil), urls...), parentURL)

	counts := make(map[string]int)
	var order []string
	prefixes := make(map[string]bool)
	p := &Pattern{}

	for i, raw := range samples {
		host, prefix, ok := split(raw)
		if !ok {
			continue
		}
		if counts[host] == 0 {
			order = append(order, host)
		}
		counts[host]++

		switch {
		case prefix != "":
			prefixes[prefix] = true
		case i < len(urls):
			p.AcceptRoot = true
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > topN {
		order = order[:topN]
	}
	p.Hosts = order

	for prefix := range prefixes {
		p.Prefixes = append(p.Prefixes, prefix)
	}
	sort.Strings(p.Prefixes)
	return p
}

// Matches reports whether raw's host is accepted and its parent path
// contains at least one accepted prefix.
func (p *Pattern) Matches(raw string) bool {
	if p == nil {
		return true
	}
	host, prefix, ok := split(raw)
	if !ok {
		return false
	}

	hostOK := false
	for _, h := range p.Hosts {
		if h == host {
			hostOK = true
			break
		}
	}
	if !hostOK {
		return false
	}

	if prefix == "" {
		return p.AcceptRoot
	}
	for _, accepted := range p.Prefixes {
		if strings.Contains(prefix, accepted) {
			return true
		}
	}
	return false
}

// split returns the lower-case host of raw and its parent path, the
// non-empty path segments except the last joined by "/".
func split(raw string) (string, string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", false
	}
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return strings.ToLower(u.Hostname()), "", true
	}
	return strings.ToLower(u.Hostname()), strings.Join(segs[:len(segs)-1], "/"), true
}
