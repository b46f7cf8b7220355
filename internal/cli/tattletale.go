package cli

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mikebijl/attrm/internal/auth"
	"github.com/mikebijl/attrm/internal/config"
	"github.com/mikebijl/attrm/internal/constants"
	"github.com/mikebijl/attrm/internal/daterange"
	"github.com/mikebijl/attrm/internal/git"
	"github.com/mikebijl/attrm/internal/llm"
	"github.com/mikebijl/attrm/internal/report"
	"github.com/mikebijl/attrm/internal/summarizer"
)

const (
	engineExec  = "exec"
	engineGoGit = "go-git"

	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var (
	ttPeriod   string
	ttProvider string
	ttModel    string
	ttBaseURL  string
	ttEngine   string
	ttFormat   string
	ttTimeout  time.Duration
)

var tattletaleCmd = &cobra.Command{
	Use:   "tattletale <author> [day]",
	Short: "Summarize what an author did on a day",
	Long: `Summarize an author's git activity across the tracked repositories.

For every day and repository with commits by the author, the commit log is
sent to the LLM and a one-sentence summary is printed as JSON on stdout.
Days without commits are skipped.

The day is YYYY-MM-DD and defaults to yesterday. --period extends the range
backwards: P<n>D covers the n days before the day, P<n>W covers n weeks.

Examples:
  attrm tattletale jdoe                         # Yesterday
  attrm tattletale jdoe 2024-03-15              # A specific day
  attrm tattletale jdoe 2024-03-15 --period P1W # 2024-03-08 through 2024-03-15
  attrm tattletale "Jane Doe" --provider ollama --model llama3.2
  attrm tattletale jdoe --format markdown`,
	Args: userArgs(cobra.RangeArgs(1, 2)),
	RunE: runTattletale,
}

func init() {
	rootCmd.AddCommand(tattletaleCmd)

	tattletaleCmd.Flags().StringVar(&ttPeriod, "period", "", "Also cover the preceding period, e.g. P7D or P2W")
	tattletaleCmd.Flags().StringVar(&ttProvider, "provider", string(constants.DefaultProvider), "LLM provider ("+constants.ProviderNames()+")")
	tattletaleCmd.Flags().StringVar(&ttModel, "model", "", "Model to use (default: the provider's default model)")
	tattletaleCmd.Flags().StringVar(&ttBaseURL, "base-url", "", "Override the provider's API endpoint")
	tattletaleCmd.Flags().StringVar(&ttEngine, "engine", engineExec, "History engine: exec (git binary) or go-git (in-process)")
	tattletaleCmd.Flags().StringVar(&ttFormat, "format", formatJSON, "Output format: json or markdown")
	tattletaleCmd.Flags().DurationVar(&ttTimeout, "timeout", 2*time.Minute, "Timeout for each LLM request (0 disables it)")
}

// tattletaleRun is the validated input of one tattletale invocation.
type tattletaleRun struct {
	author   string
	days     []time.Time
	provider constants.Provider
	history  git.HistorySource
	projects []string
}

// prepareTattletale validates everything the run needs before any git or
// LLM work starts.
func prepareTattletale(args []string, now time.Time) (*tattletaleRun, error) {
	author := strings.TrimSpace(args[0])
	if author == "" {
		return nil, userErrorf("author must not be empty")
	}

	day := daterange.Yesterday(now)
	if len(args) > 1 {
		d, err := daterange.ParseDay(args[1])
		if err != nil {
			return nil, userErrorf("invalid day %q: expected YYYY-MM-DD", args[1])
		}
		day = d
	}

	var period *daterange.Period
	if ttPeriod != "" {
		p, err := daterange.ParsePeriod(ttPeriod)
		if err != nil {
			return nil, &UserError{Msg: fmt.Sprintf("invalid --period %q, expected P<n>D or P<n>W", ttPeriod), Err: err}
		}
		period = &p
	}

	provider, ok := constants.ParseProvider(ttProvider)
	if !ok {
		return nil, userErrorf("unknown provider %q (available: %s)", ttProvider, constants.ProviderNames())
	}

	var history git.HistorySource
	switch ttEngine {
	case engineExec:
		history = git.NewExecHistory()
	case engineGoGit:
		history = git.NewRepoHistory()
	default:
		return nil, userErrorf("unknown engine %q: expected %s or %s", ttEngine, engineExec, engineGoGit)
	}

	if ttFormat != formatJSON && ttFormat != formatMarkdown {
		return nil, userErrorf("unknown format %q: expected %s or %s", ttFormat, formatJSON, formatMarkdown)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Exists() {
		return nil, userErrorf("No configuration found, first run: attrm config")
	}
	if len(cfg.Projects) == 0 {
		return nil, userErrorf("No repositories are tracked, run: attrm config")
	}

	return &tattletaleRun{
		author:   author,
		days:     daterange.Resolve(day, period),
		provider: provider,
		history:  history,
		projects: cfg.Projects,
	}, nil
}

func newLLMClient(provider constants.Provider) (llm.Client, error) {
	key, source, err := auth.GetAPIKey(provider)
	if errors.Is(err, auth.ErrNoAPIKey) {
		info, _ := constants.GetProviderInfo(provider)
		return nil, &UserError{
			Msg: fmt.Sprintf("No API key for %s, run: attrm login --provider %s (or set %s)", info.Name, provider, info.APIKeyEnv),
			Err: err,
		}
	}
	if err != nil {
		return nil, err
	}
	VerboseLog("Using %s credentials from %s", provider, source)

	opts := []llm.Option{
		llm.WithAPIKey(key),
		llm.WithHTTPClient(&http.Client{Timeout: ttTimeout}),
	}
	if ttModel != "" {
		opts = append(opts, llm.WithModel(ttModel))
	}
	if ttBaseURL != "" {
		opts = append(opts, llm.WithBaseURL(ttBaseURL))
	}
	cfg := llm.DefaultConfig(provider, opts...)
	VerboseLog("Using model %s", cfg.Model)

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func runTattletale(cmd *cobra.Command, args []string) error {
	errOut := cmd.ErrOrStderr()
	warnColor := color.New(color.FgHiYellow)
	dimColor := color.New(color.FgHiBlack)

	run, err := prepareTattletale(args, time.Now())
	if err != nil {
		return err
	}

	client, err := newLLMClient(run.provider)
	if err != nil {
		return err
	}

	var emitter report.Emitter = report.NewJSONEmitter(cmd.OutOrStdout())
	if ttFormat == formatMarkdown {
		md, err := report.NewMarkdownEmitter(cmd.OutOrStdout(), "", 80)
		if err != nil {
			return err
		}
		emitter = md
	}

	runner := &report.Runner{
		History:    run.history,
		Summarizer: summarizer.New(client, summarizer.Options{}),
		Emitter:    emitter,
		OnPair: func(project string, day time.Time) {
			logger.Debug().Str("project", project).Str("day", daterange.Format(day)).Msg("reading history")
		},
		OnSummary: func(s report.Summary) {
			if summarizer.MentionsAuthor(s.Summary, run.author) {
				warnColor.Fprintf(errOut, "  Warning: the summary for %s on %s names %s\n", filepath.Base(s.Project), s.Day, run.author)
			}
		},
	}

	// Debug lines would tear through the spinner's line.
	if isTerminal(errOut) && !IsVerbose() {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		s.Color("cyan")
		runner.Emitter = &spinnerEmitter{Emitter: emitter, spinner: s}
		runner.OnPair = func(project string, day time.Time) {
			logger.Debug().Str("project", project).Str("day", daterange.Format(day)).Msg("reading history")
			s.Suffix = fmt.Sprintf(" %s  %s", daterange.Format(day), filepath.Base(project))
			s.Start()
		}
		defer s.Stop()
	}

	n, err := runner.Run(cmd.Context(), run.author, run.days, run.projects)
	if err != nil {
		return err
	}
	if n == 0 {
		first, last := run.days[0], run.days[len(run.days)-1]
		if len(run.days) == 1 {
			dimColor.Fprintf(errOut, "No commits by %s on %s\n", run.author, daterange.Format(first))
		} else {
			dimColor.Fprintf(errOut, "No commits by %s from %s to %s\n", run.author, daterange.Format(first), daterange.Format(last))
		}
	}
	return nil
}

// spinnerEmitter stops the spinner before a summary is written so the two
// never share a terminal line.
type spinnerEmitter struct {
	report.Emitter
	spinner *spinner.Spinner
}

func (e *spinnerEmitter) Emit(s report.Summary) error {
	e.spinner.Stop()
	return e.Emitter.Emit(s)
}
