package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type fixtureRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	n    int
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &fixtureRepo{t: t, dir: dir, repo: repo}
}

// commit writes a new file and commits it as name/email at when.
func (f *fixtureRepo) commit(name, email, message string, when time.Time) plumbing.Hash {
	f.t.Helper()
	f.n++

	wt, err := f.repo.Worktree()
	require.NoError(f.t, err)

	file := fmt.Sprintf("file-%d.txt", f.n)
	require.NoError(f.t, os.WriteFile(filepath.Join(f.dir, file), []byte(message), 0644))
	_, err = wt.Add(file)
	require.NoError(f.t, err)

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: when},
	})
	require.NoError(f.t, err)
	return hash
}

// branch creates a local branch at HEAD and checks it out.
func (f *fixtureRepo) branch(name string) {
	f.t.Helper()
	head, err := f.repo.Head()
	require.NoError(f.t, err)

	ref := plumbing.NewBranchReferenceName(name)
	require.NoError(f.t, f.repo.Storer.SetReference(plumbing.NewHashReference(ref, head.Hash())))

	wt, err := f.repo.Worktree()
	require.NoError(f.t, err)
	require.NoError(f.t, wt.Checkout(&git.CheckoutOptions{Branch: ref}))
}

func at(day string, hour int) time.Time {
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

// scenarioRepo has two commits by jdoe on 2024-03-15 and none on the
// adjacent days except boundary commits.
func scenarioRepo(t *testing.T) *fixtureRepo {
	f := newFixtureRepo(t)
	f.commit("Jane Doe", "jdoe@example.com", "Set up project skeleton", at("2024-03-14", 23))
	f.commit("Jane Doe", "jdoe@example.com", "Add login form", at("2024-03-15", 0))
	f.commit("Bob Smith", "bob@example.com", "Fix typo in README", at("2024-03-15", 12))
	f.commit("Jane Doe", "jdoe@example.com", "Validate email addresses\n\nRejects empty input.", at("2024-03-15", 17))
	f.commit("Jane Doe", "jdoe@example.com", "Deploy to staging", at("2024-03-16", 0))
	return f
}
