package repo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

// GraphNode is one object reached by LogGraph. Only commits carry a label
// and parents; other objects are reported but not expanded.
type GraphNode struct {
	Hash    object.Hash
	Type    object.ObjectType
	Label   string
	Parents []object.Hash
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// LogGraph walks the history reachable from start depth-first, first
// parent first, and returns the visited objects in preorder. Hashes
// already in seen are skipped and every visited hash is added to it, so a
// shared ancestor is visited once and seen may be reused across calls. A
// nil seen starts empty.
func (r *Repo) LogGraph(start object.Hash, seen map[object.Hash]struct{}) ([]GraphNode, error) {
	if seen == nil {
		seen = make(map[object.Hash]struct{})
	}

	var nodes []GraphNode
	stack := []object.Hash{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		obj, err := r.Store.Read(h)
		if err != nil {
			return nil, fmt.Errorf("log %s: %w", start, err)
		}
		c, ok := obj.(*object.Commit)
		if !ok {
			nodes = append(nodes, GraphNode{Hash: h, Type: obj.Type()})
			continue
		}

		parents := c.Parents()
		nodes = append(nodes, GraphNode{
			Hash:    h,
			Type:    object.TypeCommit,
			Label:   commitLabel(h, c),
			Parents: parents,
		})
		// Push in reverse so the first parent is popped first.
		for i := len(parents) - 1; i >= 0; i-- {
			if _, ok := seen[parents[i]]; !ok {
				stack = append(stack, parents[i])
			}
		}
	}
	return nodes, nil
}

func commitLabel(h object.Hash, c *object.Commit) string {
	msg, _ := c.Message()
	msg = strings.TrimSpace(msg)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return fmt.Sprintf("%s: %s", shortHash(h), labelEscaper.Replace(msg))
}

func shortHash(h object.Hash) string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

// WriteGraphviz renders nodes as a Graphviz digraph.
func WriteGraphviz(w io.Writer, nodes []GraphNode) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph wyaglog{")
	fmt.Fprintln(bw, "\tnode[shape=rect]")
	for _, n := range nodes {
		if n.Type != object.TypeCommit {
			fmt.Fprintf(bw, "\tc_%s [label=\"%s (%s)\"]\n", n.Hash, shortHash(n.Hash), n.Type)
			continue
		}
		fmt.Fprintf(bw, "\tc_%s [label=\"%s\"]\n", n.Hash, n.Label)
		for _, p := range n.Parents {
			fmt.Fprintf(bw, "\tc_%s -> c_%s;\n", n.Hash, p)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
