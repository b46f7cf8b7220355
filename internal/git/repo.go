package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps an in-process go-git repository.
type Repository struct {
	repo *git.Repository
	path string
}

func OpenRepo(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", absPath, err)
	}

	return &Repository{
		repo: repo,
		path: absPath,
	}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Git() *git.Repository {
	return r.repo
}

// BranchHeads returns the tip commit of every local branch.
func (r *Repository) BranchHeads() ([]plumbing.Hash, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	var heads []plumbing.Hash
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		heads = append(heads, ref.Hash())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	return heads, nil
}
