package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/scholarscan/internal/model"
)

func TestReadSeeds(t *testing.T) {
	t.Parallel()

	t.Run("parses every column", func(t *testing.T) {
		t.Parallel()

		input := "\ufeffschool_name,url,title,type,tag\n" +
			"Example University,https://www.example.edu/academics,Academics,,peer\n" +
			"Example University,https://physics.example.edu/,Physics,department,\n" +
			"Other College,,Missing,,\n" +
			"Other College,https://www.other.edu/schools/arts-and-sciences/,,,aspirant\n"

		seeds, err := ReadSeeds(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ReadSeeds() error = %v", err)
		}
		if len(seeds) != 3 {
			t.Fatalf("len(seeds) = %d, want 3", len(seeds))
		}

		want := model.Seed{
			University: "Example University",
			URL:        "https://www.example.edu/academics",
			Title:      "Academics",
			Tag:        model.TagPeer,
		}
		if seeds[0] != want {
			t.Errorf("seeds[0] = %+v, want %+v", seeds[0], want)
		}
		if !seeds[1].Department {
			t.Error("department type not recognized")
		}
		if seeds[2].Title != "arts and sciences" {
			t.Errorf("title from path = %q", seeds[2].Title)
		}
		if seeds[2].Tag != model.TagAspirant {
			t.Errorf("tag = %q", seeds[2].Tag)
		}
	})

	t.Run("columns in any order", func(t *testing.T) {
		t.Parallel()

		seeds, err := ReadSeeds(strings.NewReader("URL,School_Name\nhttps://a.edu/,A University\n"))
		if err != nil {
			t.Fatalf("ReadSeeds() error = %v", err)
		}
		if len(seeds) != 1 || seeds[0].University != "A University" || seeds[0].URL != "https://a.edu/" {
			t.Errorf("seeds = %+v", seeds)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()

		_, err := ReadSeeds(strings.NewReader("name,url\nA,https://a.edu/\n"))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("ReadSeeds() error = %v, want ErrMissingColumn", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		seeds, err := ReadSeeds(strings.NewReader(""))
		if err != nil || len(seeds) != 0 {
			t.Errorf("ReadSeeds() = %v, %v", seeds, err)
		}
	})
}

func TestLoadSeeds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seeds.csv")
	if err := os.WriteFile(path, []byte("school_name,url\nA University,https://a.edu/\n"), 0600); err != nil {
		t.Fatalf("failed to write seeds: %v", err)
	}

	seeds, err := LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds() error = %v", err)
	}
	if len(seeds) != 1 {
		t.Errorf("len(seeds) = %d", len(seeds))
	}

	if _, err := LoadSeeds(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing seed list")
	}
}

func TestSelectSeeds(t *testing.T) {
	t.Parallel()

	seeds := []model.Seed{
		{University: "A", URL: "https://a.edu/"},
		{University: "B", URL: "https://b.edu/", Tag: model.TagPeer},
		{University: "B", URL: "https://B.edu", Tag: model.TagPeer},
		{University: "C", URL: "https://c.edu/", Tag: model.TagAspirant},
	}

	tests := []struct {
		name     string
		mode     Mode
		startURL string
		want     []string
	}{
		{name: "broad", mode: ModeBroad, want: []string{"A", "B", "C"}},
		{name: "prioritize", mode: ModePrioritize, want: []string{"B", "C"}},
		{name: "test", mode: ModeTest, want: []string{"A"}},
		{name: "start url", mode: ModeBroad, startURL: "https://c.edu", want: []string{"C"}},
		{name: "start url filtered by mode", mode: ModePrioritize, startURL: "https://a.edu/", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SelectSeeds(seeds, tt.mode, tt.startURL)
			if len(got) != len(tt.want) {
				t.Fatalf("SelectSeeds() = %+v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].University != tt.want[i] {
					t.Errorf("SelectSeeds()[%d] = %q, want %q", i, got[i].University, tt.want[i])
				}
			}
		})
	}
}

func TestShuffleSeeds(t *testing.T) {
	t.Parallel()

	seeds := []model.Seed{{URL: "https://a.edu/"}, {URL: "https://b.edu/"}, {URL: "https://c.edu/"}}
	ShuffleSeeds(seeds)

	seen := make(map[string]bool)
	for _, s := range seeds {
		seen[s.URL] = true
	}
	if len(seen) != 3 {
		t.Errorf("ShuffleSeeds() lost seeds: %+v", seeds)
	}
}

func TestModeValid(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeBroad, ModePrioritize, ModeTest} {
		if !m.Valid() {
			t.Errorf("%q.Valid() = false", m)
		}
	}
	if Mode("deep").Valid() {
		t.Error(`"deep".Valid() = true`)
	}
}
