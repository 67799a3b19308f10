package crawler

import (
	"testing"

	"github.com/nao1215/scholarscan/internal/model"
)

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"dir wildcard matches child", "/admin/*", "/admin/users", true},
		{"dir wildcard matches dir", "/admin/*", "/admin", true},
		{"dir wildcard rejects sibling", "/admin/*", "/administrator", false},
		{"extension", "*.aspx", "/docs/file.aspx", true},
		{"extension mismatch", "*.aspx", "/docs/file.html", false},
		{"single char", "/api/v?", "/api/v1", true},
		{"base name", "print*", "/people/print-view", true},
		{"exact", "/people", "/people", true},
		{"bad pattern", "[", "/people", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestLinkFilter(t *testing.T) {
	t.Parallel()

	f := NewLinkFilter([]string{"/intranet/*"})
	tests := []struct {
		name string
		link model.Link
		want bool
	}{
		{"directory", model.Link{Text: "People", URL: "https://www.example.edu/people/"}, true},
		{"denied word in text", model.Link{Text: "Latest News", URL: "https://www.example.edu/updates"}, false},
		{"denied word with counter", model.Link{Text: "Events(2)", URL: "https://www.example.edu/whats-on"}, false},
		{"denied word inside a longer word is kept", model.Link{Text: "Laboratory Staff", URL: "https://www.example.edu/staff"}, true},
		{"denied substring in path", model.Link{Text: "Sign in", URL: "https://www.example.edu/user/login"}, false},
		{"denied extension", model.Link{Text: "Photo", URL: "https://www.example.edu/img/team.JPG"}, false},
		{"pdf", model.Link{Text: "Handbook", URL: "https://www.example.edu/handbook.pdf"}, false},
		{"ignore pattern", model.Link{Text: "Staff", URL: "https://www.example.edu/intranet/staff"}, false},
		{"non http", model.Link{Text: "Files", URL: "ftp://www.example.edu/people"}, false},
		{"denied subdomain", model.Link{Text: "People", URL: "https://news.example.edu/people/"}, false},
		{"library subdomain", model.Link{Text: "Staff", URL: "https://library.example.edu/staff/"}, false},
		{"events subdomain", model.Link{Text: "Jane Doe", URL: "https://events.example.edu/faculty/jane"}, false},
		{"denied word in path", model.Link{Text: "People", URL: "https://www.example.edu/search/people"}, false},
		{"paper segment", model.Link{Text: "Jane Doe", URL: "https://www.example.edu/paper/jane"}, false},
		{"registrable domain is not checked", model.Link{Text: "People", URL: "https://www.alabama.edu/people/"}, true},
		{"plural segment is not a denied word", model.Link{Text: "Jane Doe", URL: "https://www.example.edu/papers-committee/jane"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := f.Allowed(tt.link); got != tt.want {
				t.Errorf("Allowed(%+v) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"news.cs.example.edu", "news.cs"},
		{"www.alabama.edu", "www"},
		{"example.edu", ""},
		{"WWW.Example.EDU.", "www"},
		{"127.0.0.1", ""},
		{"localhost", ""},
	}
	for _, tt := range tests {
		if got := subdomain(tt.host); got != tt.want {
			t.Errorf("subdomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestPathDiverges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current string
		prev    string
		want    bool
	}{
		{"child of directory", "https://h.edu/dept/people/jane", "https://h.edu/dept/people", false},
		{"sibling page", "https://h.edu/people/jane.html", "https://h.edu/people/index.html", false},
		{"deeper subtree", "https://h.edu/dept/people/a/b", "https://h.edu/dept/people/", false},
		{"other subtree", "https://h.edu/about/history", "https://h.edu/dept/people", true},
		{"shallower", "https://h.edu/", "https://h.edu/dept/people/list", true},
		{"other host", "https://cs.h.edu/dept/people/jane", "https://h.edu/dept/people", true},
		{"no previous page", "https://h.edu/x", "", false},
		{"case insensitive", "https://h.edu/Dept/People/jane", "https://h.edu/dept/people/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pathDiverges(tt.current, tt.prev); got != tt.want {
				t.Errorf("pathDiverges(%q, %q) = %v, want %v", tt.current, tt.prev, got, tt.want)
			}
		})
	}
}

func TestLeavesSubtree(t *testing.T) {
	t.Parallel()

	page := "https://www.example.edu/engineering/physics"
	tests := map[string]bool{
		"https://www.example.edu/engineering/physics/people": false,
		"https://www.example.edu/engineering/chemistry":      false,
		"https://www.example.edu/engineering":                true,
		"https://physics.example.edu/engineering/physics/x":  true,
	}
	for target, want := range tests {
		if got := leavesSubtree(page, target); got != want {
			t.Errorf("leavesSubtree(%q) = %v, want %v", target, got, want)
		}
	}
}

func TestXMLVariant(t *testing.T) {
	t.Parallel()

	if got := xmlVariant("https://h.edu/people/list.html"); got != "https://h.edu/people/list.xml" {
		t.Errorf("xmlVariant() = %q", got)
	}
	if got := xmlVariant("https://h.edu/people/"); got != "https://h.edu/people/" {
		t.Errorf("xmlVariant() changed a URL without html: %q", got)
	}
}

func TestDomainSet(t *testing.T) {
	t.Parallel()

	d := NewDomainSet([]string{
		"https://www.physics.example.edu/",
		"https://www.cam.ac.uk/people",
		"http://127.0.0.1:8080/",
		"not a url",
	})

	tests := map[string]bool{
		"https://example.edu/people":   true,
		"https://cs.example.edu/":      true,
		"https://www.eng.cam.ac.uk/":   true,
		"https://www.ox.ac.uk/":        false,
		"https://example.com/":         false,
		"http://127.0.0.1:9090/people": true,
		"http://10.0.0.1/":             false,
		"mailto:someone@example.edu":   false,
	}
	for target, want := range tests {
		if got := d.Allows(target); got != want {
			t.Errorf("Allows(%q) = %v, want %v", target, got, want)
		}
	}
}
