package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/sthobeck/lit/config"
)

func createLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	logger.SetOutput(os.Stderr)
	return logger
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestInitAddCommitStatus(t *testing.T) {
	root := t.TempDir()
	logger := createLogger()

	r, err := Init(root, config.Default(), logger)
	require.NoError(t, err)

	writeFile(t, root, "hello.txt", "line one\nline two\n")
	require.NoError(t, r.Add("hello.txt", true))

	c, err := r.Commit("first commit")
	require.NoError(t, err)
	require.Equal(t, 1, len(c.Changes))

	status, err := r.Status()
	require.NoError(t, err)
	require.Equal(t, "origin", status.Branch)
	require.Equal(t, 1, status.CommitCount)
	require.Equal(t, 0, status.ShelvedCount)
	require.False(t, status.ReadOnly)
	require.Equal(t, "current branch: 'origin', 0 change(s) shelved, with 1 commit(s), writable.", status.String())
}

func TestCommitWithNothingShelvedFails(t *testing.T) {
	root := t.TempDir()
	r, err := Init(root, config.Default(), createLogger())
	require.NoError(t, err)

	_, err = r.Commit("empty")
	require.Error(t, err)
}

func TestAddModifyCommitRoundTrip(t *testing.T) {
	root := t.TempDir()
	r, err := Init(root, config.Default(), createLogger())
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\n")
	require.NoError(t, r.Add("a.txt", true))
	_, err = r.Commit("add a.txt")
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\nv2\n")
	require.NoError(t, r.Add("a.txt", true))
	c2, err := r.Commit("modify a.txt")
	require.NoError(t, err)
	require.Equal(t, 1, len(c2.Changes))
	require.Equal(t, "a.txt", c2.Changes[0].NewPath)
}

func TestRollbackThenCheckoutRoundTrip(t *testing.T) {
	root := t.TempDir()
	r, err := Init(root, config.Default(), createLogger())
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\n")
	require.NoError(t, r.Add("a.txt", true))
	c1, err := r.Commit("first")
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\nv2\n")
	require.NoError(t, r.Add("a.txt", true))
	_, err = r.Commit("second")
	require.NoError(t, err)

	require.NoError(t, r.Rollback(c1.Sha1, false))
	status, err := r.Status()
	require.NoError(t, err)
	require.True(t, status.ReadOnly)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "v1\n", string(data))

	_, b, err := r.ActiveBranch()
	require.NoError(t, err)
	require.NoError(t, r.Checkout(b.Commits[len(b.Commits)-1].Sha1, false))

	status, err = r.Status()
	require.NoError(t, err)
	require.False(t, status.ReadOnly)
}

func TestCreateBranchAddTagDeleteTag(t *testing.T) {
	root := t.TempDir()
	r, err := Init(root, config.Default(), createLogger())
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\n")
	require.NoError(t, r.Add("a.txt", true))
	c1, err := r.Commit("first")
	require.NoError(t, err)

	_, err = r.CreateBranch("feature", "origin")
	require.NoError(t, err)

	require.NoError(t, r.AddTag("v1.0", c1.Sha1))
	tags, err := r.Tags()
	require.NoError(t, err)
	require.Equal(t, 1, len(tags))
	require.Equal(t, "v1.0", tags[0].Name)

	require.NoError(t, r.DeleteTag("v1.0"))
	tags, err = r.Tags()
	require.NoError(t, err)
	require.Equal(t, 0, len(tags))
}

func TestClearCacheKeepsReferencedObjects(t *testing.T) {
	root := t.TempDir()
	r, err := Init(root, config.Default(), createLogger())
	require.NoError(t, err)

	writeFile(t, root, "a.txt", "v1\n")
	require.NoError(t, r.Add("a.txt", true))
	_, err = r.Commit("first")
	require.NoError(t, err)

	report, err := r.ClearCache()
	require.NoError(t, err)
	require.Equal(t, 0, report.RemovedFiles)
}
