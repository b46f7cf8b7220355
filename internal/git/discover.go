package git

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindRepositories walks root and returns the parent directory of every
// entry named .git, in traversal order. Unreadable directories are skipped.
// A missing root yields no repositories and ErrRootNotFound.
func FindRepositories(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var repos []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != ".git" {
			return nil
		}

		repos = append(repos, filepath.Dir(path))
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return repos, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return repos, nil
}
