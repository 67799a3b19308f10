package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
)

// Mode selects which seeds a run crawls.
type Mode string

const (
	// ModeBroad crawls every seed.
	ModeBroad Mode = "broad"

	// ModePrioritize crawls only seeds tagged peer or aspirant.
	ModePrioritize Mode = "prioritize"

	// ModeTest crawls the first seed only.
	ModeTest Mode = "test"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeBroad, ModePrioritize, ModeTest:
		return true
	default:
		return false
	}
}

// Seed list column names. Only school_name and url are required.
const (
	columnSchool = "school_name"
	columnURL    = "url"
	columnTitle  = "title"
	columnType   = "type"
	columnTag    = "tag"
)

// ErrMissingColumn is returned when the seed list header lacks a required
// column.
var ErrMissingColumn = errors.New("seed list is missing a required column")

// LoadSeeds reads a CSV seed list from path.
func LoadSeeds(path string) ([]model.Seed, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided seed path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed list: %w", err)
	}
	defer f.Close()

	seeds, err := ReadSeeds(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed list %s: %w", path, err)
	}
	return seeds, nil
}

// ReadSeeds parses a CSV seed list with a header row. Rows without a URL
// are skipped. A type of "department" marks the seed as a department page.
func ReadSeeds(r io.Reader) ([]model.Seed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnSchool, columnURL} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var seeds []model.Seed
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		url := field(record, columnURL)
		if url == "" {
			continue
		}
		title := field(record, columnTitle)
		if title == "" {
			title = extract.PathLabel(url)
		}
		seeds = append(seeds, model.Seed{
			University: field(record, columnSchool),
			URL:        url,
			Title:      title,
			Department: strings.EqualFold(field(record, columnType), "department"),
			Tag:        model.ParseTag(field(record, columnTag)),
		})
	}
	return seeds, nil
}

// SelectSeeds applies mode and an optional start URL to seeds. Duplicate
// URLs keep their first occurrence.
func SelectSeeds(seeds []model.Seed, mode Mode, startURL string) []model.Seed {
	seen := make(map[string]bool, len(seeds))
	var selected []model.Seed
	for _, seed := range seeds {
		key := extract.NormalizeURL(seed.URL)
		if seen[key] {
			continue
		}
		if startURL != "" && key != extract.NormalizeURL(startURL) {
			continue
		}
		if mode == ModePrioritize && seed.Tag == model.TagNone {
			continue
		}
		seen[key] = true
		selected = append(selected, seed)
	}

	if mode == ModeTest && len(selected) > 1 {
		selected = selected[:1]
	}
	return selected
}

// ShuffleSeeds randomizes the order of seeds in place so that consecutive
// runs do not hit the same universities first.
func ShuffleSeeds(seeds []model.Seed) {
	rand.Shuffle(len(seeds), func(i, j int) {
		seeds[i], seeds[j] = seeds[j], seeds[i]
	})
}
