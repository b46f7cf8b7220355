package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

func TestFindRepositories(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"alpha/.git/objects",
		"work/beta/.git",
		"work/beta/vendor/nested/.git",
		"notes",
		"delta/.git/modules/sub/.git",
	)
	// worktrees and submodules use a .git file
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gamma"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gamma", ".git"), []byte("gitdir: ../alpha/.git"), 0644))

	repos, err := FindRepositories(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "delta"),
		filepath.Join(root, "gamma"),
		filepath.Join(root, "work", "beta"),
		filepath.Join(root, "work", "beta", "vendor", "nested"),
	}, repos)
}

func TestFindRepositories_RootIsRepo(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, ".git")

	repos, err := FindRepositories(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, repos)
}

func TestFindRepositories_Empty(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c")

	repos, err := FindRepositories(root)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestFindRepositories_MissingRoot(t *testing.T) {
	repos, err := FindRepositories(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, repos)
	assert.True(t, errors.Is(err, ErrRootNotFound))
}

func TestFindRepositories_SkipsUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	mkdirs(t, root, "ok/.git", "locked/inner/.git")
	require.NoError(t, os.Chmod(filepath.Join(root, "locked"), 0000))
	t.Cleanup(func() { os.Chmod(filepath.Join(root, "locked"), 0755) })

	repos, err := FindRepositories(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ok")}, repos)
}
