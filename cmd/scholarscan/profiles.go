package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarscan/internal/config"
	"github.com/nao1215/scholarscan/internal/database"
	"github.com/nao1215/scholarscan/internal/model"
	"github.com/nao1215/scholarscan/internal/report"
)

// NewProfilesCmd creates the profiles command.
func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Export stored faculty profiles",
		Long: `Profiles writes the faculty profiles stored by previous crawls.

Output is a text table by default, or JSON / Markdown with --json and
--markdown.

Examples:
  # Show all profiles
  scholarscan profiles

  # Markdown export of one university
  scholarscan profiles --university "Example University" --markdown -o report.md

  # Profile counts per university
  scholarscan profiles --count`,
		Args: cobra.NoArgs,
		RunE: runProfilesCmd,
	}

	cmd.Flags().StringP("university", "u", "", "Only profiles of this university")
	cmd.Flags().String("rank", "", "Only profiles of this rank (professor, associate, assistant)")
	cmd.Flags().String("tag", "", "Only universities with this tag (peer, aspirant)")
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of profiles (0: all)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("raw-text", false, "Include raw page text in JSON output")
	cmd.Flags().Bool("count", false, "Print profile counts per university only")
	cmd.Flags().StringP("output", "o", "", "Write to file path (creates directories if needed)")
	cmd.Flags().String("data-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// profilesOptions holds the parsed profiles flags.
type profilesOptions struct {
	filter   database.ProfileFilter
	json     bool
	markdown bool
	rawText  bool
	count    bool
	output   string
	dataDir  string
	verbose  bool
}

func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	opts, err := parseProfilesFlags(cmd)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return runProfiles(cmd.Context(), opts, cmd.OutOrStdout())
	}

	dir := filepath.Dir(opts.output)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return runProfiles(cmd.Context(), opts, f)
}

func parseProfilesFlags(cmd *cobra.Command) (profilesOptions, error) {
	flags := cmd.Flags()
	var (
		opts profilesOptions
		err  error
	)

	if opts.filter.University, err = flags.GetString("university"); err != nil {
		return opts, err
	}
	rank, err := flags.GetString("rank")
	if err != nil {
		return opts, err
	}
	if opts.filter.Rank, err = parseRank(rank); err != nil {
		return opts, err
	}
	tag, err := flags.GetString("tag")
	if err != nil {
		return opts, err
	}
	opts.filter.Tag = model.ParseTag(tag)
	if tag != "" && opts.filter.Tag == model.TagNone {
		return opts, fmt.Errorf("unknown tag %q: use peer or aspirant", tag)
	}
	if opts.filter.Limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.json && opts.markdown {
		return opts, fmt.Errorf("conflicting output formats: --json and --markdown cannot be used together")
	}
	if opts.rawText, err = flags.GetBool("raw-text"); err != nil {
		return opts, err
	}
	if opts.count, err = flags.GetBool("count"); err != nil {
		return opts, err
	}
	if opts.output, err = flags.GetString("output"); err != nil {
		return opts, err
	}
	if opts.dataDir, err = flags.GetString("data-dir"); err != nil {
		return opts, err
	}
	if opts.dataDir == "" {
		opts.dataDir = config.XDGDataDir()
	}
	opts.verbose = getVerboseFlag(cmd)
	return opts, nil
}

// parseRank maps a rank flag value to a professor rank.
func parseRank(s string) (model.Rank, error) {
	switch s {
	case "":
		return "", nil
	case "professor", "full":
		return model.RankProfessor, nil
	case "associate":
		return model.RankAssociate, nil
	case "assistant":
		return model.RankAssistant, nil
	default:
		return "", fmt.Errorf("unknown rank %q: use professor, associate or assistant", s)
	}
}

func runProfiles(ctx context.Context, opts profilesOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(opts.dataDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.count {
		counts, err := db.CountProfiles(ctx)
		if err != nil {
			return err
		}
		writeCounts(out, counts)
		return nil
	}

	profiles, err := db.ListProfiles(ctx, opts.filter)
	if err != nil {
		return err
	}
	export := report.NewExport(profiles, opts.filter.University)

	var writer report.Writer
	switch {
	case opts.json:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithRawText(opts.rawText))
	case opts.markdown:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewSimpleWriter(out, report.WithVerbose(opts.verbose))
	}
	_, err = writer.Write(export)
	return err
}

func writeCounts(out io.Writer, counts map[string]int) {
	universities := make([]string, 0, len(counts))
	total := 0
	for university, n := range counts {
		universities = append(universities, university)
		total += n
	}
	sort.Strings(universities)

	for _, university := range universities {
		fmt.Fprintf(out, "%6d  %s\n", counts[university], university)
	}
	fmt.Fprintf(out, "%6d  total\n", total)
}
