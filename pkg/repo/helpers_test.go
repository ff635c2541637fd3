package repo

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/wyag/pkg/object"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Create(t.TempDir())
	require.NoError(t, err)
	return r
}

func writeBlob(t *testing.T, r *Repo, content string) object.Hash {
	t.Helper()
	h, err := r.Store.Write(&object.Blob{Data: []byte(content)})
	require.NoError(t, err)
	return h
}

func writeTree(t *testing.T, r *Repo, entries ...object.TreeEntry) object.Hash {
	t.Helper()
	h, err := r.Store.Write(&object.Tree{Entries: entries})
	require.NoError(t, err)
	return h
}

func writeCommit(t *testing.T, r *Repo, tree object.Hash, msg string, parents ...object.Hash) object.Hash {
	t.Helper()
	c := object.NewCommit()
	c.Add("tree", string(tree))
	for _, p := range parents {
		c.Add("parent", string(p))
	}
	c.Add("author", "A U Thor <author@example.com> 1527025023 +0200")
	c.Add("committer", "A U Thor <author@example.com> 1527025023 +0200")
	c.SetMessage(msg)
	h, err := r.Store.Write(c)
	require.NoError(t, err)
	return h
}

// simpleHistory creates one commit on master holding hello.txt and
// returns the commit and its tree.
func simpleHistory(t *testing.T, r *Repo) (commit, tree object.Hash) {
	t.Helper()
	blob := writeBlob(t, r, "hello\n")
	tree = writeTree(t, r, object.TreeEntry{Mode: object.TreeModeFile, Path: "hello.txt", Hash: blob})
	commit = writeCommit(t, r, tree, "initial\n")
	require.NoError(t, r.UpdateRef("refs/heads/master", commit))
	return commit, tree
}

func hashBytes(t *testing.T, h object.Hash) []byte {
	t.Helper()
	raw, err := hex.DecodeString(string(h))
	require.NoError(t, err)
	return raw
}
