package repo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/odvcencio/wyag/pkg/object"
)

var (
	// ErrUnresolvedReference reports a name that matches no object.
	ErrUnresolvedReference = errors.New("no such reference")

	// ErrAmbiguousReference reports a name that matches more than one
	// object. FindObject returns it as an *AmbiguousReferenceError.
	ErrAmbiguousReference = errors.New("ambiguous reference")

	// ErrNotFollowable reports an object that cannot be peeled to the
	// requested type.
	ErrNotFollowable = errors.New("object cannot be followed to the requested type")
)

// AmbiguousReferenceError lists every object a name could refer to.
type AmbiguousReferenceError struct {
	Name       string
	Candidates []object.Hash
}

func (e *AmbiguousReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q: candidates are:", ErrAmbiguousReference, e.Name)
	for _, c := range e.Candidates {
		b.WriteString("\n - ")
		b.WriteString(string(c))
	}
	return b.String()
}

func (e *AmbiguousReferenceError) Is(target error) bool {
	return target == ErrAmbiguousReference
}

var hashPrefixRe = regexp.MustCompile(`^[0-9A-Fa-f]{4,40}$`)

// ResolveName returns every object name could refer to, in the order
// found: HEAD, then hash prefixes, then refs/tags/<name>, then
// refs/heads/<name>. Duplicates are dropped.
func (r *Repo) ResolveName(name string) ([]object.Hash, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	if name == "HEAD" {
		h, ok, err := r.ResolveSymbolic("HEAD")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("resolve HEAD: %w (no commits yet?)", ErrUnresolvedReference)
		}
		return []object.Hash{h}, nil
	}

	var out []object.Hash
	seen := make(map[object.Hash]struct{})
	add := func(h object.Hash) {
		if _, dup := seen[h]; dup {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	if hashPrefixRe.MatchString(name) {
		matches, err := r.Store.MatchPrefix(name)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", name, err)
		}
		for _, h := range matches {
			add(h)
		}
	}

	for _, ns := range []string{"refs/tags/", "refs/heads/"} {
		h, ok, err := r.ResolveSymbolic(ns + name)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", name, err)
		}
		if ok {
			add(h)
		}
	}
	return out, nil
}

// FindObject resolves name to exactly one object. When want is set the
// object is peeled until it has that type: tags to their target, and
// commits to their tree when want is a tree. If follow is false, or the
// object cannot be peeled to want, the result is ErrNotFollowable.
func (r *Repo) FindObject(name string, want object.ObjectType, follow bool) (object.Hash, error) {
	candidates, err := r.ResolveName(name)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("find object %q: %w", name, ErrUnresolvedReference)
	case 1:
	default:
		return "", &AmbiguousReferenceError{Name: name, Candidates: candidates}
	}

	h := candidates[0]
	if want == "" {
		return h, nil
	}

	for {
		obj, err := r.Store.Read(h)
		if err != nil {
			return "", fmt.Errorf("find object %q: %w", name, err)
		}
		if obj.Type() == want {
			return h, nil
		}
		if !follow {
			return "", fmt.Errorf("find object %q: %w: %s is a %s, want %s", name, ErrNotFollowable, h, obj.Type(), want)
		}
		switch o := obj.(type) {
		case *object.Tag:
			h = o.Target()
		case *object.Commit:
			if want != object.TypeTree {
				return "", fmt.Errorf("find object %q: %w: %s is a commit, want %s", name, ErrNotFollowable, h, want)
			}
			h = o.TreeHash()
		default:
			return "", fmt.Errorf("find object %q: %w: %s is a %s, want %s", name, ErrNotFollowable, h, obj.Type(), want)
		}
	}
}
