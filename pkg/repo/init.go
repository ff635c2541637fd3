package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/wyag/internal/log"
	"github.com/odvcencio/wyag/pkg/object"
)

var (
	// ErrNotRepository reports a directory with no .git/ directory in it
	// or, for Find, in any of its parents.
	ErrNotRepository = errors.New("not a repository")

	// ErrRepositoryExists reports a Create over a non-empty .git/.
	ErrRepositoryExists = errors.New("repository already exists")
)

const (
	metaDirName      = ".git"
	defaultCacheSize = 256

	defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"
	defaultHead        = "ref: refs/heads/master\n"
)

// Create initializes a new repository at path. The working tree may be
// missing or an existing directory; its .git/ directory must be missing or
// empty.
func Create(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("create repository: abs path: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("create repository: %s is not a directory", abs)
	}

	gitDir := filepath.Join(abs, metaDirName)
	if entries, err := os.ReadDir(gitDir); err == nil {
		if len(entries) > 0 {
			return nil, fmt.Errorf("create repository %s: %w", abs, ErrRepositoryExists)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("create repository %s: %w", abs, err)
	}

	r, err := newRepo(abs, gitDir)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}
	for _, d := range [][]string{{"branches"}, {"objects"}, {"refs", "tags"}, {"refs", "heads"}} {
		if _, err := r.Dir(true, d...); err != nil {
			return nil, fmt.Errorf("create repository: %w", err)
		}
	}

	files := []struct {
		name, content string
	}{
		{"description", defaultDescription},
		{"HEAD", defaultHead},
	}
	for _, f := range files {
		if err := os.WriteFile(r.Path(f.name), []byte(f.content), 0o644); err != nil {
			return nil, fmt.Errorf("create repository: write %s: %w", f.name, err)
		}
	}

	r.Config = DefaultConfig()
	if err := r.WriteConfig(r.Config); err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	r.logger.WithField("path", abs).Info("initialized empty repository")
	return r, nil
}

// Open opens the repository whose working tree is path. The .git/
// directory must exist and hold a config with repositoryformatversion 0.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	gitDir := filepath.Join(abs, metaDirName)
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
	}

	r, err := newRepo(abs, gitDir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	r.Config = cfg
	return r, nil
}

// Find searches upward from start for a directory containing .git/ and
// opens it.
func Find(start string) (*Repo, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("find repository: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, metaDirName))
		if err == nil && info.IsDir() {
			return Open(cur)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("find repository from %s: %w (or any parent up to /)", abs, ErrNotRepository)
		}
		cur = parent
	}
}

func newRepo(root, gitDir string) (*Repo, error) {
	logger := log.Default().WithField("repo", root)
	store, err := object.NewStore(gitDir, object.WithCacheSize(defaultCacheSize), object.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Repo{
		RootDir: root,
		GitDir:  gitDir,
		Store:   store,
		logger:  logger,
	}, nil
}
