package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/scholarscan/internal/database"
	"github.com/nao1215/scholarscan/internal/model"
)

// setupProfilesDB stores a few profiles in a new database and returns its
// directory.
func setupProfilesDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	crawledAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []model.ProfileRecord{
		{
			URL: "https://physics.example.edu/people/jane-doe", Name: "Jane Doe", Department: "Physics",
			University: "Example University", Tag: model.TagPeer, Rank: model.RankProfessor,
			PhDYear: "2005", PhDSchool: "Stanford University", PromotionYear: "2012",
			Text: "Jane Doe is a professor of physics.", CrawledAt: crawledAt,
		},
		{
			URL: "https://physics.example.edu/people/john-roe", Name: "John Roe", Department: "Physics",
			University: "Example University", Tag: model.TagPeer, Rank: model.RankAssistant,
			PhDYear: "2019", CrawledAt: crawledAt,
		},
		{
			URL: "https://www.other.edu/faculty/ann-lee", Name: "Ann Lee", Department: "History",
			University: "Other College", Rank: model.RankAssociate,
			PhDYear: "2010", PhDSchool: "Yale University", PromotionYear: "2018", CrawledAt: crawledAt,
		},
	}
	for _, rec := range records {
		if err := db.Upsert(context.Background(), rec); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}
	return dir
}

func TestParseRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    model.Rank
		wantErr bool
	}{
		{"", "", false},
		{"professor", model.RankProfessor, false},
		{"full", model.RankProfessor, false},
		{"associate", model.RankAssociate, false},
		{"assistant", model.RankAssistant, false},
		{"lecturer", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := parseRank(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRank(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRank(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseProfilesFlags(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, args ...string) (profilesOptions, error) {
		t.Helper()
		cmd := NewProfilesCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}
		return parseProfilesFlags(cmd)
	}

	t.Run("filters", func(t *testing.T) {
		t.Parallel()

		opts, err := parse(t, "-u", "Example University", "--rank", "associate", "--tag", "Peer", "-l", "5", "--data-dir", "/tmp/db")
		if err != nil {
			t.Fatalf("parseProfilesFlags() error = %v", err)
		}
		want := database.ProfileFilter{
			University: "Example University",
			Rank:       model.RankAssociate,
			Tag:        model.TagPeer,
			Limit:      5,
		}
		if opts.filter != want {
			t.Errorf("filter = %+v, want %+v", opts.filter, want)
		}
		if opts.dataDir != "/tmp/db" {
			t.Errorf("dataDir = %q", opts.dataDir)
		}
	})

	t.Run("default data dir", func(t *testing.T) {
		t.Parallel()

		opts, err := parse(t)
		if err != nil {
			t.Fatalf("parseProfilesFlags() error = %v", err)
		}
		if opts.dataDir == "" {
			t.Error("expected XDG data directory")
		}
	})

	errorTests := []struct {
		name string
		args []string
		want string
	}{
		{"json and markdown", []string{"--json", "--markdown"}, "conflicting output formats"},
		{"unknown tag", []string{"--tag", "rival"}, "unknown tag"},
		{"unknown rank", []string{"--rank", "dean"}, "unknown rank"},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunProfiles(t *testing.T) {
	t.Parallel()

	dataDir := setupProfilesDB(t)

	run := func(t *testing.T, opts profilesOptions) string {
		t.Helper()
		opts.dataDir = dataDir
		var buf bytes.Buffer
		if err := runProfiles(context.Background(), opts, &buf); err != nil {
			t.Fatalf("runProfiles() error = %v", err)
		}
		return buf.String()
	}

	t.Run("simple output", func(t *testing.T) {
		t.Parallel()

		output := run(t, profilesOptions{verbose: true})
		for _, want := range []string{
			"SCHOLARSCAN PROFILES",
			"EXAMPLE UNIVERSITY (2)",
			"OTHER COLLEGE (1)",
			"Jane Doe",
			"https://www.other.edu/faculty/ann-lee",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("json output with filter", func(t *testing.T) {
		t.Parallel()

		output := run(t, profilesOptions{
			filter: database.ProfileFilter{University: "example university"},
			json:   true,
		})

		var got struct {
			University string                `json:"university"`
			Count      int                   `json:"count"`
			Profiles   []model.ProfileRecord `json:"profiles"`
		}
		if err := json.Unmarshal([]byte(output), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if got.Count != 2 || len(got.Profiles) != 2 {
			t.Fatalf("count = %d, profiles = %d, want 2", got.Count, len(got.Profiles))
		}
		for _, p := range got.Profiles {
			if p.University != "Example University" {
				t.Errorf("unexpected university %q", p.University)
			}
			if p.Text != "" {
				t.Errorf("raw text exported without --raw-text: %q", p.Text)
			}
		}
	})

	t.Run("json output with raw text", func(t *testing.T) {
		t.Parallel()

		output := run(t, profilesOptions{
			filter:  database.ProfileFilter{Rank: model.RankProfessor},
			json:    true,
			rawText: true,
		})
		if !strings.Contains(output, "Jane Doe is a professor of physics.") {
			t.Errorf("expected raw text in output:\n%s", output)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		output := run(t, profilesOptions{markdown: true})
		for _, want := range []string{
			"# Faculty Profiles",
			"## Example University",
			"[Ann Lee](https://www.other.edu/faculty/ann-lee)",
			"```mermaid",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("counts", func(t *testing.T) {
		t.Parallel()

		output := run(t, profilesOptions{count: true})
		want := "     2  Example University\n" +
			"     1  Other College\n" +
			"     3  total\n"
		if output != want {
			t.Errorf("count output = %q, want %q", output, want)
		}
	})
}

func TestRunProfilesMissingDatabase(t *testing.T) {
	t.Parallel()

	opts := profilesOptions{dataDir: filepath.Join(t.TempDir(), "missing")}
	if err := runProfiles(context.Background(), opts, &bytes.Buffer{}); err == nil {
		t.Error("expected error for a missing database")
	}
}

func TestProfilesCmdOutputFile(t *testing.T) {
	t.Parallel()

	dataDir := setupProfilesDB(t)
	outputPath := filepath.Join(t.TempDir(), "reports", "profiles.md")

	cmd := NewProfilesCmd()
	cmd.SetArgs([]string{"--data-dir", dataDir, "--markdown", "-o", outputPath, "--rank", "assistant"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(content), "John Roe") {
		t.Errorf("expected John Roe in report:\n%s", content)
	}
	if strings.Contains(string(content), "Jane Doe") {
		t.Errorf("rank filter not applied:\n%s", content)
	}
}
