package repo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

// ErrRefCycle reports a chain of symbolic refs longer than maxSymrefDepth.
var ErrRefCycle = errors.New("symbolic ref chain too deep")

// maxSymrefDepth bounds how many "ref: " hops ResolveSymbolic follows.
const maxSymrefDepth = 5

const symrefPrefix = "ref: "

// ResolveSymbolic reads the ref at name (relative to .git/, e.g. "HEAD" or
// "refs/heads/master") and follows "ref: " indirections. ok is false when
// a ref in the chain does not exist, which is the normal state of an
// unborn branch.
func (r *Repo) ResolveSymbolic(name string) (h object.Hash, ok bool, err error) {
	cur := name
	for hops := 0; hops <= maxSymrefDepth; hops++ {
		p, err := r.refPath(cur)
		if err != nil {
			return "", false, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("resolve ref %q: %w", cur, err)
		}
		content := strings.TrimSpace(string(data))
		if target, isSym := strings.CutPrefix(content, symrefPrefix); isSym {
			cur = strings.TrimSpace(target)
			continue
		}
		return object.Hash(content), true, nil
	}
	return "", false, fmt.Errorf("resolve ref %q: %w (more than %d hops)", name, ErrRefCycle, maxSymrefDepth)
}

// refPath maps a slash-separated ref name to a file under .git/. Names
// that would escape the metadata directory are rejected.
func (r *Repo) refPath(name string) (string, error) {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid ref name %q", name)
	}
	return r.Path(filepath.FromSlash(clean)), nil
}

// UpdateRef points the named ref at h. The new content is written to a
// lock file and renamed into place.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	if err := object.ValidateHash(h); err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	refPath, err := r.refPath(name)
	if err != nil {
		return fmt.Errorf("update ref: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		lockFile.Close()
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	if err := os.Rename(lockPath, refPath); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}

	r.logger.WithField("ref", name).WithField("hash", h).Debug("ref updated")
	return nil
}

// RefNode is one level of a ref listing: a directory with children, or a
// leaf ref with its resolved hash.
type RefNode struct {
	Name     string
	Hash     object.Hash
	Children []*RefNode
	dir      bool
}

// IsDir reports whether the node is a directory of refs.
func (n *RefNode) IsDir() bool { return n.dir }

// Ref is a fully named ref and the hash it resolves to.
type Ref struct {
	Name string
	Hash object.Hash
}

// Flatten lists every leaf under n in sorted order, named by its full path
// starting at n.
func (n *RefNode) Flatten() []Ref {
	var out []Ref
	var walk func(prefix string, node *RefNode)
	walk = func(prefix string, node *RefNode) {
		full := node.Name
		if prefix != "" {
			full = prefix + "/" + node.Name
		}
		if !node.dir {
			out = append(out, Ref{Name: full, Hash: node.Hash})
			return
		}
		for _, c := range node.Children {
			walk(full, c)
		}
	}
	walk("", n)
	return out
}

// ListRefs returns the refs under dir (relative to .git/, "refs" when
// empty) as a tree sorted by name. Symbolic refs are resolved; refs that
// do not resolve are left out.
func (r *Repo) ListRefs(dir string) (*RefNode, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "refs"
	}
	dir = path.Clean(dir)
	p, err := r.refPath(dir)
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	root := &RefNode{Name: dir, dir: true}
	if err := r.listRefsInto(root, dir, p); err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return root, nil
}

func (r *Repo) listRefsInto(node *RefNode, name, dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	// os.ReadDir returns entries sorted by filename.
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".lock") {
			continue
		}
		childName := name + "/" + e.Name()
		if e.IsDir() {
			child := &RefNode{Name: e.Name(), dir: true}
			if err := r.listRefsInto(child, childName, filepath.Join(dirPath, e.Name())); err != nil {
				return err
			}
			node.Children = append(node.Children, child)
			continue
		}
		h, ok, err := r.ResolveSymbolic(childName)
		if err != nil {
			return err
		}
		if !ok {
			r.logger.WithField("ref", childName).Debug("skipping dangling ref")
			continue
		}
		node.Children = append(node.Children, &RefNode{Name: e.Name(), Hash: h})
	}
	return nil
}
