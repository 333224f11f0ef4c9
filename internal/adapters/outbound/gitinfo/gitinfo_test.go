package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testology/psyengine/internal/adapters/outbound/gitinfo"
)

func TestRevision_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	assert.True(t, gitinfo.New(dir).IsGitRepo())
}

func TestRevision_IsGitRepo_False(t *testing.T) {
	assert.False(t, gitinfo.New(t.TempDir()).IsGitRepo())
}

func TestRevision_ReturnsHeadFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	hash := commitFile(t, dir, filepath.Join("configs", "tests", "gad7.yaml"))

	rev, err := gitinfo.New(filepath.Join(dir, "configs")).Revision()
	require.NoError(t, err)
	assert.Len(t, rev, 40, "should be a full SHA-1 hash")
	assert.Equal(t, hash, rev)
}

func TestRevision_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gitinfo.New(dir).Revision()
	assert.ErrorContains(t, err, "getting HEAD")
}

func TestRevision_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New(t.TempDir()).Revision()
	assert.ErrorContains(t, err, "opening git repo")
}

func commitFile(t *testing.T, dir, rel string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("id: GAD7\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)

	hash, err := wt.Commit("add definitions", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}
