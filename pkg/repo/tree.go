package repo

import (
	"fmt"
	"path"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

// TreeListing is one row of ls-tree output.
type TreeListing struct {
	Mode string // six digits, zero-padded
	Type object.ObjectType
	Hash object.Hash
	Path string // slash-separated, relative to the listed tree
}

// ListTree resolves name to a tree and lists its entries. With recursive
// set, subtrees are expanded in place of their own row.
func (r *Repo) ListTree(name string, recursive bool) ([]TreeListing, error) {
	h, err := r.FindObject(name, object.TypeTree, true)
	if err != nil {
		return nil, fmt.Errorf("ls-tree: %w", err)
	}
	var out []TreeListing
	if err := r.listTreeRec(h, "", recursive, &out); err != nil {
		return nil, fmt.Errorf("ls-tree: %w", err)
	}
	return out, nil
}

func (r *Repo) listTreeRec(h object.Hash, prefix string, recursive bool, out *[]TreeListing) error {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries {
		kind, err := kindFromMode(e.Mode)
		if err != nil {
			return fmt.Errorf("tree %s: %w", h, err)
		}
		full := e.Path
		if prefix != "" {
			full = path.Join(prefix, e.Path)
		}
		if recursive && kind == kindTree {
			if err := r.listTreeRec(e.Hash, full, recursive, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, TreeListing{
			Mode: strings.ReplaceAll(e.Mode, " ", "0"),
			Type: kind.objectType(),
			Hash: e.Hash,
			Path: full,
		})
	}
	return nil
}
