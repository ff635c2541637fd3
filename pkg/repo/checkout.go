package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

// ErrInvalidWorkingTree reports a checkout destination that is not an
// empty directory.
var ErrInvalidWorkingTree = errors.New("invalid checkout destination")

// Checkout resolves name to a tree (peeling tags and commits) and writes
// it into dest.
func (r *Repo) Checkout(name, dest string) error {
	treeHash, err := r.FindObject(name, object.TypeTree, true)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.CheckoutTree(treeHash, dest)
}

// CheckoutTree writes the tree treeHash into dest. dest must be missing or
// an empty directory; otherwise nothing is written.
//
// Regular and executable files become files with 0644/0755 permissions,
// symlink entries become symlinks, and submodule entries become empty
// directories.
func (r *Repo) CheckoutTree(treeHash object.Hash, dest string) error {
	info, err := os.Stat(dest)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("checkout: %w: %s is not a directory", ErrInvalidWorkingTree, dest)
		}
		entries, err := os.ReadDir(dest)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("checkout: %w: %s is not empty", ErrInvalidWorkingTree, dest)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", dest, err)
		}
	default:
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.checkoutTree(treeHash, dest); err != nil {
		return fmt.Errorf("checkout %s: %w", treeHash, err)
	}
	r.logger.WithField("tree", treeHash).WithField("dest", dest).Info("checked out tree")
	return nil
}

func (r *Repo) checkoutTree(treeHash object.Hash, dir string) error {
	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries {
		if e.Path == "" || e.Path == "." || e.Path == ".." || strings.ContainsAny(e.Path, `/\`) {
			return fmt.Errorf("%w: unsafe entry path %q in tree %s", object.ErrMalformedObject, e.Path, treeHash)
		}
		kind, err := kindFromMode(e.Mode)
		if err != nil {
			return err
		}
		dest := filepath.Join(dir, e.Path)

		switch kind {
		case kindTree:
			if err := os.Mkdir(dest, 0o755); err != nil {
				return fmt.Errorf("mkdir %q: %w", dest, err)
			}
			if err := r.checkoutTree(e.Hash, dest); err != nil {
				return err
			}
		case kindGitlink:
			if err := os.Mkdir(dest, 0o755); err != nil {
				return fmt.Errorf("mkdir %q: %w", dest, err)
			}
		case kindSymlink:
			blob, err := r.Store.ReadBlob(e.Hash)
			if err != nil {
				return fmt.Errorf("read symlink %q: %w", e.Path, err)
			}
			if err := os.Symlink(string(blob.Data), dest); err != nil {
				return fmt.Errorf("symlink %q: %w", dest, err)
			}
		default:
			blob, err := r.Store.ReadBlob(e.Hash)
			if err != nil {
				return fmt.Errorf("read blob for %q: %w", e.Path, err)
			}
			if err := os.WriteFile(dest, blob.Data, filePermFromKind(kind)); err != nil {
				return fmt.Errorf("write %q: %w", dest, err)
			}
		}
	}
	return nil
}
