package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarscan/internal/config"
)

//go:embed templates/scholarscan.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a scholarscan configuration file",
		Long: `Init writes a commented .scholarscan file with every crawl setting
at its default. Command line flags of "scholarscan crawl" override it.

Sections of the generated file:
  crawl         depthLimit, concurrency, perHost, crawlDelay and timeout are
                set; maxPages, maxDuration, the pattern learning threshold
                and the classification thresholds are commented out
  dataDir       SQLite database directory (XDG data directory if unset)
  logFile       rotated log file written next to stderr
  concepts      department and people link synonyms replacing the built-ins
  institutions  degree-granting schools used to normalize PhD schools
  defaults      user agent, headers and ignorePatterns for every host
                ("/news/*" and "/events/*" are preset)
  sites         per-host overrides merged over defaults
  seeds         seeds crawled in addition to the --seeds CSV list

Examples:
  # Create .scholarscan in the current directory
  scholarscan init

  # Write a config for a dedicated crawl and use it
  scholarscan init -o crawls/physics.yaml
  scholarscan crawl -c crawls/physics.yaml -s seeds.csv

  # Replace an existing file with fresh defaults
  scholarscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if info, err := os.Stat(outputPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("configuration path is a directory: %s", outputPath)
		}
		if !force {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/scholarscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "Uncomment maxPages or maxDuration to bound a run, and list sites that need headers.")
	fmt.Fprintf(out, "Start a crawl with: scholarscan crawl -c %s -s <seeds.csv>\n", outputPath)
	return nil
}
