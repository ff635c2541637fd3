package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/wyag/pkg/object"
)

func writeRefFile(t *testing.T, r *Repo, name, content string) {
	t.Helper()
	p := filepath.Join(r.GitDir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestResolveSymbolic_UnbornHead(t *testing.T) {
	r := newTestRepo(t)
	h, ok, err := r.ResolveSymbolic("HEAD")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, h)
}

func TestResolveSymbolic_Chain(t *testing.T) {
	r := newTestRepo(t)
	commit, _ := simpleHistory(t, r)

	writeRefFile(t, r, "refs/heads/alias", "ref: refs/heads/master\n")
	writeRefFile(t, r, "HEAD", "ref: refs/heads/alias\n")

	h, ok, err := r.ResolveSymbolic("HEAD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, commit, h)
}

func TestResolveSymbolic_DetachedHead(t *testing.T) {
	r := newTestRepo(t)
	commit, _ := simpleHistory(t, r)
	writeRefFile(t, r, "HEAD", string(commit)+"\n")

	h, ok, err := r.ResolveSymbolic("HEAD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, commit, h)
}

func TestResolveSymbolic_Cycle(t *testing.T) {
	r := newTestRepo(t)
	writeRefFile(t, r, "refs/heads/a", "ref: refs/heads/b\n")
	writeRefFile(t, r, "refs/heads/b", "ref: refs/heads/a\n")

	_, _, err := r.ResolveSymbolic("refs/heads/a")
	require.ErrorIs(t, err, ErrRefCycle)
}

func TestResolveSymbolic_EscapingName(t *testing.T) {
	r := newTestRepo(t)
	_, _, err := r.ResolveSymbolic("../outside")
	require.Error(t, err)
}

func TestUpdateRef_WritesHash(t *testing.T) {
	r := newTestRepo(t)
	h := writeBlob(t, r, "x")

	require.NoError(t, r.UpdateRef("refs/heads/feature/deep", h))
	data, err := os.ReadFile(filepath.Join(r.GitDir, "refs", "heads", "feature", "deep"))
	require.NoError(t, err)
	require.Equal(t, string(h)+"\n", string(data))

	_, err = os.Stat(filepath.Join(r.GitDir, "refs", "heads", "feature", "deep.lock"))
	require.True(t, os.IsNotExist(err), "lock file left behind")

	require.Error(t, r.UpdateRef("refs/heads/bad", object.Hash("nothex")))
}

func TestListRefs_SortedTree(t *testing.T) {
	r := newTestRepo(t)
	commit, tree := simpleHistory(t, r)
	require.NoError(t, r.UpdateRef("refs/tags/v1", commit))
	require.NoError(t, r.UpdateRef("refs/heads/dev", tree))
	require.NoError(t, r.UpdateRef("refs/remotes/origin/master", commit))
	writeRefFile(t, r, "refs/heads/dangling", "ref: refs/heads/missing\n")

	root, err := r.ListRefs("")
	require.NoError(t, err)
	require.True(t, root.IsDir())
	require.Equal(t, "refs", root.Name)

	var top []string
	for _, c := range root.Children {
		top = append(top, c.Name)
	}
	require.Equal(t, []string{"heads", "remotes", "tags"}, top)

	require.Equal(t, []Ref{
		{Name: "refs/heads/dev", Hash: tree},
		{Name: "refs/heads/master", Hash: commit},
		{Name: "refs/remotes/origin/master", Hash: commit},
		{Name: "refs/tags/v1", Hash: commit},
	}, root.Flatten())
}

func TestListRefs_Subdirectory(t *testing.T) {
	r := newTestRepo(t)
	commit, _ := simpleHistory(t, r)

	root, err := r.ListRefs("refs/heads")
	require.NoError(t, err)
	require.Equal(t, []Ref{{Name: "refs/heads/master", Hash: commit}}, root.Flatten())

	empty, err := r.ListRefs("refs/remotes")
	require.NoError(t, err)
	require.Empty(t, empty.Flatten())
}
