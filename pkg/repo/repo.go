// Package repo ties the object store, refs and index of a repository
// together.
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/wyag/pkg/object"
)

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working tree root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config

	logger *logrus.Entry
}

// Path joins parts onto the metadata directory.
func (r *Repo) Path(parts ...string) string {
	return filepath.Join(append([]string{r.GitDir}, parts...)...)
}

// File returns Path(parts...) after making sure its parent directory
// exists when mkdir is set.
func (r *Repo) File(mkdir bool, parts ...string) (string, error) {
	if len(parts) > 1 {
		if _, err := r.Dir(mkdir, parts[:len(parts)-1]...); err != nil {
			return "", err
		}
	}
	return r.Path(parts...), nil
}

// Dir returns Path(parts...) if it is a directory. A missing directory is
// created when mkdir is set and reported as "" otherwise. A non-directory
// at that path is an error.
func (r *Repo) Dir(mkdir bool, parts ...string) (string, error) {
	p := r.Path(parts...)
	info, err := os.Stat(p)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("repo dir %s: not a directory", p)
		}
		return p, nil
	case !os.IsNotExist(err):
		return "", fmt.Errorf("repo dir %s: %w", p, err)
	case !mkdir:
		return "", nil
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", fmt.Errorf("repo dir %s: %w", p, err)
	}
	return p, nil
}
