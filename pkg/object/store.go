package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"

	"github.com/odvcencio/wyag/internal/log"
)

// Store is a content-addressed loose object store with a 2-character
// fan-out directory layout: objects/ab/cdef0123...
//
// Objects are zlib-compressed on disk and never rewritten once present.
type Store struct {
	root   string
	cache  *lru.Cache
	logger *logrus.Entry
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithCacheSize keeps up to n inflated payloads in memory. Objects are
// immutable, so cached payloads never go stale.
func WithCacheSize(n int) StoreOption {
	return func(s *Store) error {
		c, err := lru.New(n)
		if err != nil {
			return fmt.Errorf("object cache: %w", err)
		}
		s.cache = c
		return nil
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *logrus.Entry) StoreOption {
	return func(s *Store) error {
		s.logger = l
		return nil
	}
}

type cachedObject struct {
	objType ObjectType
	data    []byte
}

// NewStore creates a Store rooted at the given metadata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string, opts ...StoreOption) (*Store, error) {
	s := &Store{root: root, logger: log.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if len(h) < 3 {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write encodes obj, stores it and returns its content hash.
func (s *Store) Write(obj Object) (Hash, error) {
	data, err := Encode(obj)
	if err != nil {
		return "", fmt.Errorf("object write: %w", err)
	}
	return s.WriteRaw(obj.Type(), data)
}

// WriteRaw stores a payload of the given type. The on-disk form is the
// zlib-compressed envelope "type len\0content". If an object with the same
// hash already exists nothing is written: equal hashes mean equal bytes.
// New objects are written to a temp file and renamed into place, so a
// concurrent write of the same object can never truncate the existing file.
func (s *Store) WriteRaw(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Valid() {
		return "", fmt.Errorf("object write: %w: %q", ErrUnsupportedFormat, objType)
	}
	h := hashEnvelope(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		s.logger.WithField("hash", h).Debug("object already stored")
		return h, nil
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	zw := zlib.NewWriter(tmp)
	if _, err := zw.Write(envelope(objType, data)); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write compress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	// Another writer may have won the race while we compressed.
	if s.Has(h) {
		os.Remove(tmpName)
		return h, nil
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"hash": h, "type": objType, "size": len(data)}).Debug("object written")
	return h, nil
}

// ReadRaw retrieves an object by hash, returning its type and payload.
// A missing object yields an error wrapping ErrNotFound.
func (s *Store) ReadRaw(h Hash) (ObjectType, []byte, error) {
	if err := ValidateHash(h); err != nil {
		return "", nil, fmt.Errorf("object read: %w", err)
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(h); ok {
			c := v.(cachedObject)
			return c.objType, append([]byte(nil), c.data...), nil
		}
	}

	f, err := os.Open(s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: inflate: %v", h, ErrMalformedObject, err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: inflate: %v", h, ErrMalformedObject, err)
	}

	objType, content, err := parseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, data: append([]byte(nil), content...)})
	}
	return objType, content, nil
}

// parseEnvelope splits "type len\0content" and checks the declared length
// against the payload.
func parseEnvelope(raw []byte) (ObjectType, []byte, error) {
	spc := bytes.IndexByte(raw, ' ')
	if spc < 0 {
		return "", nil, fmt.Errorf("%w: missing object type", ErrMalformedObject)
	}
	nul := indexFrom(raw, 0, spc)
	if nul < 0 {
		return "", nil, fmt.Errorf("%w: missing object size separator", ErrMalformedObject)
	}
	objType := ObjectType(raw[:spc])
	sizeStr := string(raw[spc+1 : nul])
	length, err := strconv.Atoi(sizeStr)
	if err != nil || length < 0 {
		return "", nil, fmt.Errorf("%w: invalid length %q", ErrMalformedObject, sizeStr)
	}
	content := raw[nul+1:]
	if len(content) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrMalformedObject, length, len(content))
	}
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w: unknown type %q", ErrUnsupportedFormat, objType)
	}
	return objType, content, nil
}

// Read retrieves and decodes an object. The returned value is independent
// of the store.
func (s *Store) Read(h Hash) (Object, error) {
	objType, data, err := s.ReadRaw(h)
	if err != nil {
		return nil, err
	}
	obj, err := Decode(objType, data)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return obj, nil
}

// MatchPrefix lists every stored hash beginning with prefix. The prefix
// must be at least two hex characters; it is matched case-insensitively.
func (s *Store) MatchPrefix(prefix string) ([]Hash, error) {
	prefix = strings.ToLower(prefix)
	if len(prefix) < 2 {
		return nil, fmt.Errorf("match prefix %q: too short", prefix)
	}
	dir := filepath.Join(s.root, "objects", prefix[:2])
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("match prefix %q: %w", prefix, err)
	}

	rest := prefix[2:]
	var out []Hash
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), rest) {
			continue
		}
		h := Hash(prefix[:2] + e.Name())
		if ValidateHash(h) != nil {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return obj.(*Blob), nil
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	obj, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return obj.(*Tree), nil
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	obj, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return obj.(*Commit), nil
}

// ReadTag reads and deserializes an annotated Tag.
func (s *Store) ReadTag(h Hash) (*Tag, error) {
	obj, err := s.readTyped(h, TypeTag)
	if err != nil {
		return nil, err
	}
	return obj.(*Tag), nil
}

func (s *Store) readTyped(h Hash, want ObjectType) (Object, error) {
	obj, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if obj.Type() != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, obj.Type(), want)
	}
	return obj, nil
}
