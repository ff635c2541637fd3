package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

// entryKind classifies a tree entry by the first two characters of its
// six-character mode.
type entryKind int

const (
	kindFile entryKind = iota
	kindExecutable
	kindSymlink
	kindTree
	kindGitlink
)

func kindFromMode(mode string) (entryKind, error) {
	m := mode
	if len(m) == 5 {
		m = " " + m
	}
	if len(m) != 6 {
		return 0, fmt.Errorf("%w: tree entry mode %q", object.ErrMalformedObject, mode)
	}
	switch m[:2] {
	case " 4", "04":
		return kindTree, nil
	case "10":
		if strings.TrimLeft(m, " ") == object.TreeModeExecutable {
			return kindExecutable, nil
		}
		return kindFile, nil
	case "12":
		return kindSymlink, nil
	case "16":
		return kindGitlink, nil
	}
	return 0, fmt.Errorf("%w: unknown tree entry mode %q", object.ErrMalformedObject, mode)
}

// objectType is the type of object an entry of this kind points at.
func (k entryKind) objectType() object.ObjectType {
	switch k {
	case kindTree:
		return object.TypeTree
	case kindGitlink:
		return object.TypeCommit
	default:
		return object.TypeBlob
	}
}

func filePermFromKind(k entryKind) os.FileMode {
	if k == kindExecutable {
		return 0o755
	}
	return 0o644
}
