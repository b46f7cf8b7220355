package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGitOperationFailed indicates a git command returned an error
	ErrGitOperationFailed = errors.New("git operation failed")

	// ErrRootNotFound indicates the discovery root does not exist
	ErrRootNotFound = errors.New("search root does not exist")
)

// GitError describes a failed git invocation, including its stderr output.
type GitError struct {
	Dir    string
	Args   []string
	Err    error
	Stderr string
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed in %s", strings.Join(e.Args, " "), e.Dir)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, stderr)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}

func newGitError(dir string, args []string, err error, stderr string) *GitError {
	return &GitError{
		Dir:    dir,
		Args:   args,
		Err:    fmt.Errorf("%w: %v", ErrGitOperationFailed, err),
		Stderr: stderr,
	}
}
