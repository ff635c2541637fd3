package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Create(dir)
	require.NoError(t, err)
	require.Equal(t, dir, r.RootDir)
	require.Equal(t, filepath.Join(dir, ".git"), r.GitDir)
	require.NotNil(t, r.Store)

	for _, d := range []string{"branches", "objects", "refs/tags", "refs/heads"} {
		info, err := os.Stat(filepath.Join(r.GitDir, d))
		require.NoError(t, err, d)
		require.True(t, info.IsDir(), d)
	}

	head, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	require.NoError(t, err)
	require.Equal(t, "ref: refs/heads/master\n", string(head))

	desc, err := os.ReadFile(filepath.Join(r.GitDir, "description"))
	require.NoError(t, err)
	require.Equal(t, "Unnamed repository; edit this file 'description' to name the repository.\n", string(desc))

	cfg, err := r.ReadConfig()
	require.NoError(t, err)
	require.Equal(t, *DefaultConfig(), *cfg)
}

func TestCreate_MissingWorktreeIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	r, err := Create(dir)
	require.NoError(t, err)
	require.DirExists(t, r.GitDir)
}

func TestCreate_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(dir)
	require.NoError(t, err)

	_, err = Create(dir)
	require.ErrorIs(t, err, ErrRepositoryExists)
}

func TestCreate_EmptyGitDirAllowed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	_, err := Create(dir)
	require.NoError(t, err)
}

func TestCreate_WorktreeIsFile_Error(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := Create(file)
	require.Error(t, err)
}

func TestOpen_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	created, err := Create(dir)
	require.NoError(t, err)
	h := writeBlob(t, created, "shared\n")

	opened, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, created.GitDir, opened.GitDir)
	require.True(t, opened.Store.Has(h))
}

func TestOpen_NotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestOpen_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *string
	}{
		{"missing file", nil},
		{"unsupported version", strPtr("[core]\n\trepositoryformatversion = 1\n")},
		{"version not set", strPtr("[core]\n\tbare = false\n")},
		{"not parseable", strPtr("[core\nrepositoryformatversion = 0\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			r, err := Create(dir)
			require.NoError(t, err)
			cfgPath := filepath.Join(r.GitDir, "config")
			if tc.config == nil {
				require.NoError(t, os.Remove(cfgPath))
			} else {
				require.NoError(t, os.WriteFile(cfgPath, []byte(*tc.config), 0o644))
			}

			_, err = Open(dir)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestFind_WalksUpward(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(dir)
	require.NoError(t, err)

	deep := filepath.Join(dir, "x", "y", "z")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	r, err := Find(deep)
	require.NoError(t, err)
	require.Equal(t, dir, r.RootDir)
}

func TestFind_NoRepository(t *testing.T) {
	_, err := Find(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestRepoDirAndFile(t *testing.T) {
	r := newTestRepo(t)

	p, err := r.Dir(false, "refs", "remotes")
	require.NoError(t, err)
	require.Empty(t, p)

	p, err = r.Dir(true, "refs", "remotes", "origin")
	require.NoError(t, err)
	require.DirExists(t, p)

	f, err := r.File(true, "logs", "refs", "heads", "master")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(r.GitDir, "logs", "refs", "heads", "master"), f)
	require.DirExists(t, filepath.Dir(f))

	_, err = r.Dir(false, "HEAD")
	require.Error(t, err)
}
