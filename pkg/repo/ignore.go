package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreChecker matches working tree paths against .git/info/exclude and
// the root .gitignore. Patterns from .gitignore take precedence.
type IgnoreChecker struct {
	ignorer *gitignore.GitIgnore
}

// NewIgnoreChecker loads the ignore rules of r. Missing rule files are
// treated as empty.
func (r *Repo) NewIgnoreChecker() (*IgnoreChecker, error) {
	lines := []string{metaDirName}
	for _, p := range []string{r.Path("info", "exclude"), filepath.Join(r.RootDir, ".gitignore")} {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("ignore rules %s: %w", p, err)
		}
		lines = append(lines, strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")...)
	}
	return &IgnoreChecker{ignorer: gitignore.CompileIgnoreLines(lines...)}, nil
}

// IsIgnored reports whether relPath, slash-separated and relative to the
// working tree root, is ignored.
func (ic *IgnoreChecker) IsIgnored(relPath string) bool {
	if ic == nil || ic.ignorer == nil {
		return false
	}
	return ic.ignorer.MatchesPath(relPath)
}

// CheckIgnore returns the subset of paths that are ignored, in input
// order. Relative paths are taken relative to the working tree root.
func (r *Repo) CheckIgnore(paths []string) ([]string, error) {
	ic, err := r.NewIgnoreChecker()
	if err != nil {
		return nil, fmt.Errorf("check-ignore: %w", err)
	}
	var out []string
	for _, p := range paths {
		rel, err := r.relPath(p)
		if err != nil {
			return nil, fmt.Errorf("check-ignore: %w", err)
		}
		if ic.IsIgnored(rel) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repo) relPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(r.RootDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the working tree %s", p, r.RootDir)
	}
	return filepath.ToSlash(rel), nil
}
