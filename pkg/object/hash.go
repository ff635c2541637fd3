package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
)

// HashLength is the length of a Hash in hex characters.
const HashLength = 40

// digestLength is the raw size of a SHA-1 digest; tree entries store hashes
// in this form.
const digestLength = 20

var hashRegex = regexp.MustCompile(`\A[0-9a-f]{40}\z`)

// ValidateHash checks if h is syntactically a full object hash.
func ValidateHash(h Hash) error {
	if hashRegex.MatchString(string(h)) {
		return nil
	}
	return fmt.Errorf("invalid object hash: %q", h)
}

// envelope returns "type len\0content", the exact bytes that are hashed and
// stored for an object.
func envelope(objType ObjectType, data []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := make([]byte, 0, len(header)+len(data))
	raw = append(raw, header...)
	return append(raw, data...)
}

// hashEnvelope computes the SHA-1 of the envelope "type len\0content". This
// is the only way an object's identity is derived.
func hashEnvelope(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", objType, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashObject encodes obj and returns its identity without storing it.
func HashObject(obj Object) (Hash, error) {
	data, err := Encode(obj)
	if err != nil {
		return "", err
	}
	return hashEnvelope(obj.Type(), data), nil
}

// HashBytes returns the identity data would have as an object of type
// objType. The payload is decoded first, so malformed trees, commits and
// tags are rejected rather than hashed; the digest covers data as given.
func HashBytes(objType ObjectType, data []byte) (Hash, error) {
	if _, err := Decode(objType, data); err != nil {
		return "", fmt.Errorf("hash %s: %w", objType, err)
	}
	return hashEnvelope(objType, data), nil
}
