package repo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/wyag/pkg/object"
)

func TestLogGraph_DiamondVisitsAncestorOnce(t *testing.T) {
	r := newTestRepo(t)
	_, tree := simpleHistory(t, r)

	root := writeCommit(t, r, tree, "root\n")
	left := writeCommit(t, r, tree, "left\n", root)
	right := writeCommit(t, r, tree, "right\n", root)
	merge := writeCommit(t, r, tree, "merge left and right\n\nbody text\n", left, right)

	seen := make(map[object.Hash]struct{})
	nodes, err := r.LogGraph(merge, seen)
	require.NoError(t, err)

	var order []object.Hash
	for _, n := range nodes {
		order = append(order, n.Hash)
	}
	require.Equal(t, []object.Hash{merge, left, root, right}, order)
	require.Equal(t, []object.Hash{left, right}, nodes[0].Parents)
	require.Equal(t, shortHash(merge)+": merge left and right", nodes[0].Label)
	require.Len(t, seen, 4)

	// The seen set carries over: nothing new is reachable.
	again, err := r.LogGraph(merge, seen)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestLogGraph_LongLinearHistory(t *testing.T) {
	r := newTestRepo(t)
	_, tree := simpleHistory(t, r)

	var head object.Hash
	for i := 0; i < 500; i++ {
		if head == "" {
			head = writeCommit(t, r, tree, "c\n")
			continue
		}
		head = writeCommit(t, r, tree, "c\n", head)
	}
	nodes, err := r.LogGraph(head, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 500)
	require.Empty(t, nodes[len(nodes)-1].Parents)
}

func TestLogGraph_NonCommitNotExpanded(t *testing.T) {
	r := newTestRepo(t)
	blob := writeBlob(t, r, "data")
	nodes, err := r.LogGraph(blob, nil)
	require.NoError(t, err)
	require.Equal(t, []GraphNode{{Hash: blob, Type: object.TypeBlob}}, nodes)
}

func TestLogGraph_MissingParent(t *testing.T) {
	r := newTestRepo(t)
	_, tree := simpleHistory(t, r)
	c := writeCommit(t, r, tree, "orphan\n", object.Hash("1234567890123456789012345678901234567890"))

	_, err := r.LogGraph(c, nil)
	require.ErrorIs(t, err, object.ErrNotFound)
}

func TestWriteGraphviz(t *testing.T) {
	r := newTestRepo(t)
	_, tree := simpleHistory(t, r)
	root := writeCommit(t, r, tree, `say "hi" \ bye`+"\nsecond line\n")
	child := writeCommit(t, r, tree, "  child  \n", root)

	nodes, err := r.LogGraph(child, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGraphviz(&buf, nodes))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "digraph wyaglog{\n"))
	require.True(t, strings.HasSuffix(out, "}\n"))
	require.Contains(t, out, "c_"+string(child)+` [label="`+string(child[:8])+`: child"]`)
	require.Contains(t, out, `: say \"hi\" \\ bye"]`)
	require.Contains(t, out, "c_"+string(child)+" -> c_"+string(root)+";")
	require.NotContains(t, out, "second line")
}
