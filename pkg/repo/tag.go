package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/odvcencio/wyag/pkg/object"
)

// ErrTagExists reports a tag name already present under refs/tags.
var ErrTagExists = errors.New("tag already exists")

// DefaultTagger identifies the tagger of annotated tags when none is given.
const DefaultTagger = "wyag <wyag@example.com>"

// CreateTag creates a lightweight tag: refs/tags/<name> pointing at target.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if err := r.checkNewTag(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if !r.Store.Has(target) {
		return fmt.Errorf("create tag: target %s: %w", target, object.ErrNotFound)
	}
	if err := r.UpdateRef("refs/tags/"+name, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag stores a tag object pointing at target and creates
// refs/tags/<name> pointing at the tag object.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, tagger, message string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if err := r.checkNewTag(name); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	tagger = strings.TrimSpace(tagger)
	if tagger == "" {
		tagger = DefaultTagger
	}

	targetType, _, err := r.Store.ReadRaw(target)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: read target: %w", err)
	}

	now := time.Now()
	tag := object.NewTag()
	tag.Add("object", string(target))
	tag.Add("type", string(targetType))
	tag.Add("tag", name)
	tag.Add("tagger", fmt.Sprintf("%s %d %s", tagger, now.Unix(), formatTimezoneOffset(now)))
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	tag.SetMessage(message)

	tagHash, err := r.Store.Write(tag)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: write tag object: %w", err)
	}
	if err := r.UpdateRef("refs/tags/"+name, tagHash); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	return tagHash, nil
}

// ListTags returns the tags under refs/tags, sorted by name. Names are
// relative to refs/tags.
func (r *Repo) ListTags() ([]Ref, error) {
	root, err := r.ListRefs("refs/tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	refs := root.Flatten()
	for i := range refs {
		refs[i].Name = strings.TrimPrefix(refs[i].Name, "refs/tags/")
	}
	return refs, nil
}

func (r *Repo) checkNewTag(name string) error {
	if err := validateTagName(name); err != nil {
		return err
	}
	if _, ok, err := r.ResolveSymbolic("refs/tags/" + name); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %q", ErrTagExists, name)
	}
	return nil
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name is required")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	return nil
}

func formatTimezoneOffset(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60)
}
