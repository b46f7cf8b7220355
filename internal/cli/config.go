package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mikebijl/attrm/internal/config"
	"github.com/mikebijl/attrm/internal/git"
	"github.com/mikebijl/attrm/internal/tui"
)

var (
	configRoot   string
	configAll    bool
	configSelect string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Choose which repositories to track",
	Long: `Search a directory for git repositories and choose which ones to track.

The directory is relative to your home directory. Every folder containing a
.git entry is offered. The chosen list replaces the previous configuration.

Examples:
  attrm config                      # Prompt for the directory and selection
  attrm config --root src           # Search ~/src, then select interactively
  attrm config --root src --all     # Track every repository under ~/src
  attrm config --root src --select 0,2`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&configRoot, "root", "", "Directory to search, relative to your home directory")
	configCmd.Flags().BoolVar(&configAll, "all", false, "Track every repository found")
	configCmd.Flags().StringVar(&configSelect, "select", "", "Track only these repositories (comma-separated indices)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	titleColor := color.New(color.FgHiCyan, color.Bold)
	successColor := color.New(color.FgHiGreen)
	warnColor := color.New(color.FgHiYellow)
	dimColor := color.New(color.FgHiBlack)

	if configAll && configSelect != "" {
		return userErrorf("--all and --select cannot be used together")
	}

	var sel Selector
	switch {
	case configAll:
		sel = StaticSelector{All: true}
	case configSelect != "":
		indices, err := ParseIndices(configSelect)
		if err != nil {
			return err
		}
		sel = StaticSelector{Indices: indices}
	default:
		if !isTerminal(cmd.InOrStdin()) {
			return userErrorf("no terminal available for interactive selection; use --all or --select")
		}
		sel = tui.MultiSelect{}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to find home directory: %w", err)
	}

	root := configRoot
	if root == "" && configSelect == "" && !configAll {
		root, err = tui.RunPathPrompt(
			"Where are your repositories located?",
			"Relative to your home directory. Leave empty to search all of it.",
			"~/", nil)
		if errors.Is(err, tui.ErrCanceled) {
			return userErrorf("Configuration cancelled. Nothing was changed.")
		}
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
	}
	searchDir := resolveRoot(home, root)
	VerboseLog("Searching %s for git repositories", searchDir)

	repos, err := git.FindRepositories(searchDir)
	if errors.Is(err, git.ErrRootNotFound) {
		warnColor.Fprintf(out, "  Warning: %s does not exist\n", searchDir)
	} else if err != nil {
		return fmt.Errorf("failed to search for repositories: %w", err)
	}
	VerboseLog("Found %d repositories", len(repos))

	projects := []string{}
	if len(repos) > 0 {
		projects, err = selectPaths(sel, fmt.Sprintf("Select repositories to track (%d found)", len(repos)), repos)
		if errors.Is(err, tui.ErrCanceled) {
			return userErrorf("Selection cancelled. Nothing was changed.")
		}
		if err != nil {
			return err
		}
	} else {
		warnColor.Fprintf(out, "  No git repositories found under %s\n", searchDir)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ReplaceProjects(projects)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	titleColor.Fprintf(out, "  Tracking %d repositories\n", len(projects))
	for _, p := range projects {
		dimColor.Fprintf(out, "    %s\n", p)
	}
	successColor.Fprintf(out, "\n  Saved to %s\n", cfg.Path())
	return nil
}

// resolveRoot interprets root relative to home. Absolute paths are kept.
func resolveRoot(home, root string) string {
	root = strings.TrimSpace(root)
	switch {
	case root == "" || root == "~":
		return home
	case strings.HasPrefix(root, "~/"):
		root = strings.TrimPrefix(root, "~/")
	case filepath.IsAbs(root):
		return filepath.Clean(root)
	}
	return filepath.Join(home, root)
}
