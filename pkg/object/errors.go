package object

import "errors"

var (
	// ErrNotFound reports that no object exists at the expected path. It is
	// an ordinary outcome, not a corrupted store.
	ErrNotFound = errors.New("object not found")

	// ErrMalformedObject reports a stored object or payload that does not
	// follow its format: missing separators, a bad length or a truncated
	// entry.
	ErrMalformedObject = errors.New("malformed object")

	// ErrUnsupportedFormat reports an unknown object type tag.
	ErrUnsupportedFormat = errors.New("unsupported object format")

	// ErrTypeMismatch is returned by the typed read helpers when the stored
	// object has a different type.
	ErrTypeMismatch = errors.New("object type mismatch")
)
