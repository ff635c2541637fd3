package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/wyag/pkg/object"
)

func TestListTree(t *testing.T) {
	r := newTestRepo(t)
	tree := nestedTree(t, r)
	commit := writeCommit(t, r, tree, "nested\n")
	require.NoError(t, r.UpdateRef("refs/heads/master", commit))

	rows, err := r.ListTree("master", false)
	require.NoError(t, err)

	var got []string
	for _, row := range rows {
		got = append(got, row.Mode+" "+string(row.Type)+" "+row.Path)
	}
	require.Equal(t, []string{
		"100644 blob README",
		"120000 blob link",
		"100755 blob run.sh",
		"040000 tree src",
		"040000 tree vendor",
	}, got)
}

func TestListTree_Recursive(t *testing.T) {
	r := newTestRepo(t)
	tree := nestedTree(t, r)

	rows, err := r.ListTree(string(tree), true)
	require.NoError(t, err)

	var got []string
	for _, row := range rows {
		got = append(got, string(row.Type)+" "+row.Path)
	}
	require.Equal(t, []string{
		"blob README",
		"blob link",
		"blob run.sh",
		"blob src/main.go",
		"commit vendor/mod",
	}, got)
}

func TestListTree_NotATree(t *testing.T) {
	r := newTestRepo(t)
	blob := writeBlob(t, r, "just a blob")
	_, err := r.ListTree(string(blob), false)
	require.ErrorIs(t, err, ErrNotFollowable)
}

func TestKindFromMode(t *testing.T) {
	tests := []struct {
		mode    string
		want    object.ObjectType
		wantErr bool
	}{
		{"40000", object.TypeTree, false},
		{" 40000", object.TypeTree, false},
		{"040000", object.TypeTree, false},
		{"100644", object.TypeBlob, false},
		{"100755", object.TypeBlob, false},
		{"120000", object.TypeBlob, false},
		{"160000", object.TypeCommit, false},
		{"777777", "", true},
		{"1006", "", true},
	}
	for _, tc := range tests {
		k, err := kindFromMode(tc.mode)
		if tc.wantErr {
			require.ErrorIs(t, err, object.ErrMalformedObject, tc.mode)
			continue
		}
		require.NoError(t, err, tc.mode)
		require.Equal(t, tc.want, k.objectType(), tc.mode)
	}
}
