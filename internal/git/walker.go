package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// logDateLayout matches the Date: line of git log's medium format.
const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// RepoHistory extracts history in-process with go-git, without requiring a
// git binary. Output mirrors `git log --branches --author` in medium format.
type RepoHistory struct{}

// NewRepoHistory creates a go-git backed history source.
func NewRepoHistory() *RepoHistory {
	return &RepoHistory{}
}

func (h *RepoHistory) Log(ctx context.Context, project, author string, day time.Time) (string, error) {
	repo, err := OpenRepo(project)
	if err != nil {
		return "", err
	}

	matcher, err := authorMatcher(author)
	if err != nil {
		return "", err
	}

	start, end := Window(day)
	commits, err := WalkCommits(ctx, repo, WalkOptions{
		Since: start,
		Until: end,
		Match: func(c *object.Commit) bool {
			return matcher.MatchString(c.Author.Name + " <" + c.Author.Email + ">")
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, c := range commits {
		if i > 0 {
			b.WriteString("\n")
		}
		writeMedium(&b, c)
	}
	return b.String(), nil
}

// authorMatcher compiles author the way git does for --author, falling back
// to a literal match when it is not a valid regular expression.
func authorMatcher(author string) (*regexp.Regexp, error) {
	if re, err := regexp.Compile(author); err == nil {
		return re, nil
	}
	re, err := regexp.Compile(regexp.QuoteMeta(author))
	if err != nil {
		return nil, fmt.Errorf("invalid author pattern %q: %w", author, err)
	}
	return re, nil
}

type WalkOptions struct {
	Since time.Time // inclusive
	Until time.Time // exclusive
	Match func(*object.Commit) bool
}

// WalkCommits collects commits reachable from any local branch whose
// committer time falls in [Since, Until), newest first and deduplicated.
func WalkCommits(ctx context.Context, repo *Repository, opts WalkOptions) ([]*object.Commit, error) {
	heads, err := repo.BranchHeads()
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	var commits []*object.Commit

	for _, head := range heads {
		iter, err := repo.Git().Log(&git.LogOptions{
			From:  head,
			Order: git.LogOrderCommitterTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create log iterator: %w", err)
		}

		err = iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			when := c.Committer.When
			if !opts.Since.IsZero() && when.Before(opts.Since) {
				return storer.ErrStop
			}
			if seen[c.Hash] {
				return nil
			}
			seen[c.Hash] = true

			if !opts.Until.IsZero() && !when.Before(opts.Until) {
				return nil
			}
			if opts.Match != nil && !opts.Match(c) {
				return nil
			}
			commits = append(commits, c)
			return nil
		})
		iter.Close()
		if err != nil && !errors.Is(err, storer.ErrStop) {
			return nil, fmt.Errorf("failed to iterate commits: %w", err)
		}
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Committer.When.After(commits[j].Committer.When)
	})
	return commits, nil
}

func writeMedium(b *strings.Builder, c *object.Commit) {
	fmt.Fprintf(b, "commit %s\n", c.Hash)
	if len(c.ParentHashes) > 1 {
		parents := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			parents[i] = p.String()[:7]
		}
		fmt.Fprintf(b, "Merge: %s\n", strings.Join(parents, " "))
	}
	fmt.Fprintf(b, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(b, "Date:   %s\n\n", c.Author.When.Format(logDateLayout))
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
