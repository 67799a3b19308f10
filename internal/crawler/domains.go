package crawler

import (
	"net"
	"strings"

	"github.com/nao1215/scholarscan/internal/extract"
	"golang.org/x/net/publicsuffix"
)

// DomainSet holds the registrable domains a crawl may visit. A seed at
// www.cs.example.edu allows every host under example.edu.
type DomainSet struct {
	domains map[string]bool
}

// NewDomainSet returns the registrable domains of urls.
func NewDomainSet(urls []string) *DomainSet {
	d := &DomainSet{domains: make(map[string]bool)}
	for _, u := range urls {
		if domain := registrableDomain(extract.Hostname(u)); domain != "" {
			d.domains[domain] = true
		}
	}
	return d
}

// Allows reports whether target is on one of the domains.
func (d *DomainSet) Allows(target string) bool {
	domain := registrableDomain(extract.Hostname(target))
	return domain != "" && d.domains[domain]
}

// Len returns the number of domains.
func (d *DomainSet) Len() int {
	return len(d.domains)
}

// registrableDomain returns the eTLD+1 of host. Hosts that have none,
// such as IP addresses and localhost, are their own domain.
func registrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
