package repo

import "github.com/odvcencio/wyag/pkg/index"

// ReadIndex parses .git/index. It is read fresh on every call; a missing
// file is an empty version 2 index.
func (r *Repo) ReadIndex() (*index.Index, error) {
	return index.Read(r.Path("index"))
}
