package git

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// gitDateLayout is a format git's date parser accepts unambiguously.
const gitDateLayout = "2006-01-02 15:04:05 -0700"

// HistorySource returns the commit log of one author for one calendar day.
// An empty string means the author made no commits that day.
type HistorySource interface {
	Log(ctx context.Context, project, author string, day time.Time) (string, error)
}

// Window returns the half-open interval [start, end) covering day's calendar
// date in day's location.
func Window(day time.Time) (start, end time.Time) {
	y, m, d := day.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// ExecHistory runs the git binary to extract history.
type ExecHistory struct {
	// Binary defaults to "git".
	Binary string
}

// NewExecHistory creates a history source backed by the git binary.
func NewExecHistory() *ExecHistory {
	return &ExecHistory{Binary: "git"}
}

// Args builds the git log arguments for author on day. git treats both
// --since and --until as inclusive at second granularity, so the upper bound
// is one second before the next midnight.
func (h *ExecHistory) Args(author string, day time.Time) []string {
	start, end := Window(day)
	return []string{
		"log",
		"--branches",
		"--since=" + start.Format(gitDateLayout),
		"--until=" + end.Add(-time.Second).Format(gitDateLayout),
		"--author", author,
	}
}

func (h *ExecHistory) Log(ctx context.Context, project, author string, day time.Time) (string, error) {
	bin := h.Binary
	if bin == "" {
		bin = "git"
	}

	args := h.Args(author, day)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = project

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", newGitError(project, args, err, stderr.String())
	}

	return stdout.String(), nil
}
