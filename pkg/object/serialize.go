package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Encode serializes obj into its payload (the bytes after the envelope
// header).
func Encode(obj Object) ([]byte, error) {
	switch o := obj.(type) {
	case *Blob:
		return MarshalBlob(o), nil
	case *Tree:
		return MarshalTree(o)
	case *Commit:
		return MarshalKVLM(o.KVLM), nil
	case *Tag:
		return MarshalKVLM(o.KVLM), nil
	case nil:
		return nil, fmt.Errorf("encode: nil object")
	default:
		return nil, fmt.Errorf("encode: %w: %T", ErrUnsupportedFormat, obj)
	}
}

// Decode parses a payload with the codec selected by objType.
func Decode(objType ObjectType, data []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeTree:
		return UnmarshalTree(data)
	case TypeCommit:
		k, err := UnmarshalKVLM(data)
		if err != nil {
			return nil, err
		}
		return &Commit{KVLM: k}, nil
	case TypeTag:
		k, err := UnmarshalKVLM(data)
		if err != nil {
			return nil, err
		}
		return &Tag{KVLM: k}, nil
	default:
		return nil, fmt.Errorf("decode: %w: %q", ErrUnsupportedFormat, objType)
	}
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree in Git's binary layout. Each entry is
//
//	<mode> SP <path> NUL <20-byte raw hash>
//
// Entries are sorted so that directories compare as if their path ended in
// "/", which places "foo/" after "foo.c" the way Git expects.
func MarshalTree(tr *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return treeSortKey(sorted[i]) < treeSortKey(sorted[j])
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		mode := strings.TrimLeft(e.Mode, " ")
		if !validMode(mode) {
			return nil, fmt.Errorf("marshal tree: entry %q: invalid mode %q", e.Path, e.Mode)
		}
		if e.Path == "" || strings.ContainsAny(e.Path, "/\x00") {
			return nil, fmt.Errorf("marshal tree: invalid entry path %q", e.Path)
		}
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != digestLength {
			return nil, fmt.Errorf("marshal tree: entry %q: invalid hash %q", e.Path, e.Hash)
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a binary tree payload one entry at a time.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	pos := 0
	for pos < len(data) {
		entry, next, err := parseTreeEntry(data, pos)
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		tr.Entries = append(tr.Entries, entry)
		pos = next
	}
	return tr, nil
}

// parseTreeEntry reads the entry starting at pos and returns it along with
// the offset of the following entry.
func parseTreeEntry(data []byte, pos int) (TreeEntry, int, error) {
	spc := indexFrom(data, ' ', pos)
	if spc < 0 {
		return TreeEntry{}, 0, fmt.Errorf("%w: entry at offset %d has no mode terminator", ErrMalformedObject, pos)
	}
	mode := string(data[pos:spc])
	if !validMode(mode) {
		return TreeEntry{}, 0, fmt.Errorf("%w: invalid mode %q at offset %d", ErrMalformedObject, mode, pos)
	}

	nul := indexFrom(data, 0, spc+1)
	if nul < 0 {
		return TreeEntry{}, 0, fmt.Errorf("%w: entry at offset %d has no path terminator", ErrMalformedObject, pos)
	}
	path := string(data[spc+1 : nul])

	end := nul + 1 + digestLength
	if end > len(data) {
		return TreeEntry{}, 0, fmt.Errorf("%w: entry %q truncated hash", ErrMalformedObject, path)
	}
	return TreeEntry{
		Mode: normalizeMode(mode),
		Path: path,
		Hash: Hash(hex.EncodeToString(data[nul+1 : end])),
	}, end, nil
}

// treeSortKey orders non-file entries as though their path had a trailing
// slash.
func treeSortKey(e TreeEntry) string {
	if strings.HasPrefix(normalizeMode(e.Mode), "10") {
		return e.Path
	}
	return e.Path + "/"
}

// normalizeMode pads five-digit modes to six characters with a leading
// space.
func normalizeMode(mode string) string {
	if len(mode) == 5 {
		return " " + mode
	}
	return mode
}

func validMode(mode string) bool {
	if len(mode) != 5 && len(mode) != 6 {
		return false
	}
	for i := 0; i < len(mode); i++ {
		if mode[i] < '0' || mode[i] > '7' {
			return false
		}
	}
	return true
}
