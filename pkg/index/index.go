// Package index reads the version 2 staging index ("DIRC" file).
package index

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/odvcencio/wyag/pkg/object"
)

var (
	// ErrBadSignature reports a file that does not start with "DIRC".
	ErrBadSignature = errors.New("index: bad signature")

	// ErrUnsupportedVersion reports an index version other than 2.
	ErrUnsupportedVersion = errors.New("index: unsupported version")

	// ErrReservedField reports an entry whose reserved 16 bits are set.
	ErrReservedField = errors.New("index: reserved field is not zero")

	// ErrExtendedFlags reports an entry with the extended flag, which only
	// later index versions define.
	ErrExtendedFlags = errors.New("index: extended flags are not supported")

	// ErrTruncated reports input that ends inside the header, an entry or
	// its padding.
	ErrTruncated = errors.New("index: truncated")
)

const (
	signature    = "DIRC"
	headerSize   = 12
	fixedSize    = 62
	maxNameLen   = 0xFFF
	flagValid    = 0x8000
	flagExtended = 0x4000
	stageMask    = 0x3000
	stageShift   = 12
)

// Entry mode types.
const (
	ModeTypeRegular uint8 = 0b1000
	ModeTypeSymlink uint8 = 0b1010
	ModeTypeGitlink uint8 = 0b1110
)

// Timestamp is a seconds/nanoseconds pair as stored in the index.
type Timestamp struct {
	Seconds     uint32
	Nanoseconds uint32
}

// Entry is one staged path.
type Entry struct {
	CTime       Timestamp
	MTime       Timestamp
	Dev         uint32
	Ino         uint32
	ModeType    uint8
	ModePerms   uint16
	UID         uint32
	GID         uint32
	Size        uint32
	Hash        object.Hash
	AssumeValid bool
	Stage       uint8
	Name        string
}

// ModeTypeName describes the entry's mode type the way ls-files --verbose
// prints it.
func (e Entry) ModeTypeName() string {
	switch e.ModeType {
	case ModeTypeRegular:
		return "regular file"
	case ModeTypeSymlink:
		return "symlink"
	case ModeTypeGitlink:
		return "git link"
	default:
		return fmt.Sprintf("unknown (%04b)", e.ModeType)
	}
}

// Index is a parsed staging index.
type Index struct {
	Version uint32
	Entries []Entry
}

// Read parses the index file at path. A missing file is an empty index.
func Read(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Index{Version: 2}, nil
		}
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	idx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	return idx, nil
}

// Parse decodes a version 2 index. Extensions and the trailing checksum
// after the last entry are ignored. On error no index is returned.
func Parse(data []byte) (*Index, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: header is %d bytes", ErrTruncated, len(data))
	}
	if string(data[:4]) != signature {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	entries := make([]Entry, 0, min(int(count), len(data)/fixedSize))
	pos := headerSize
	for i := uint32(0); i < count; i++ {
		e, next, err := parseEntry(data, pos)
		if err != nil {
			return nil, fmt.Errorf("entry %d at offset %d: %w", i, pos, err)
		}
		entries = append(entries, e)
		pos = next
	}
	return &Index{Version: version, Entries: entries}, nil
}

// parseEntry decodes the entry at pos and returns the offset of the next
// one. Entries are NUL-padded to a multiple of 8 bytes measured from the
// entry start.
func parseEntry(data []byte, pos int) (Entry, int, error) {
	if pos+fixedSize > len(data) {
		return Entry{}, 0, fmt.Errorf("%w: fixed record needs %d bytes, have %d", ErrTruncated, fixedSize, len(data)-pos)
	}
	rec := data[pos : pos+fixedSize]
	be := binary.BigEndian

	if reserved := be.Uint16(rec[24:26]); reserved != 0 {
		return Entry{}, 0, fmt.Errorf("%w: %#04x", ErrReservedField, reserved)
	}
	mode := be.Uint16(rec[26:28])
	flags := be.Uint16(rec[60:62])
	if flags&flagExtended != 0 {
		return Entry{}, 0, ErrExtendedFlags
	}

	e := Entry{
		CTime:       Timestamp{Seconds: be.Uint32(rec[0:4]), Nanoseconds: be.Uint32(rec[4:8])},
		MTime:       Timestamp{Seconds: be.Uint32(rec[8:12]), Nanoseconds: be.Uint32(rec[12:16])},
		Dev:         be.Uint32(rec[16:20]),
		Ino:         be.Uint32(rec[20:24]),
		ModeType:    uint8(mode >> 12),
		ModePerms:   mode & 0o777,
		UID:         be.Uint32(rec[28:32]),
		GID:         be.Uint32(rec[32:36]),
		Size:        be.Uint32(rec[36:40]),
		Hash:        object.Hash(hex.EncodeToString(rec[40:60])),
		AssumeValid: flags&flagValid != 0,
		Stage:       uint8((flags & stageMask) >> stageShift),
	}

	nameStart := pos + fixedSize
	nameLen := int(flags & maxNameLen)
	var nameEnd int
	if nameLen < maxNameLen {
		nameEnd = nameStart + nameLen
		if nameEnd >= len(data) {
			return Entry{}, 0, fmt.Errorf("%w: name needs %d bytes", ErrTruncated, nameLen+1)
		}
		if data[nameEnd] != 0 {
			return Entry{}, 0, fmt.Errorf("%w: name is not NUL-terminated", ErrTruncated)
		}
	} else {
		// The length field saturates; the real name ends at the first NUL.
		i := bytes.IndexByte(data[nameStart:], 0)
		if i < 0 {
			return Entry{}, 0, fmt.Errorf("%w: unterminated long name", ErrTruncated)
		}
		nameEnd = nameStart + i
	}
	e.Name = string(data[nameStart:nameEnd])

	// At least one NUL follows the name; round the entry up to 8 bytes.
	entryLen := (nameEnd - pos + 8) &^ 7
	next := pos + entryLen
	if next > len(data) {
		return Entry{}, 0, fmt.Errorf("%w: padding after %q", ErrTruncated, e.Name)
	}
	return e, next, nil
}
