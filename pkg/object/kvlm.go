package object

import (
	"bytes"
	"fmt"
	"strings"
)

// KVLM is the "key-value list with message" format shared by commits and
// tags: a block of header lines followed by a blank line and a free-form
// message.
//
//	tree 29ff16c9c14e2652b22f8b78bb08a5a07930c147
//	parent 206941306e8a8af65b66eaaaea388a7ae24d49a0
//	author Thibault Polge <thibault@thb.lt> 1527025023 +0200
//
//	Create first draft
//
// Keys keep their first-seen order and a key may carry several values
// (repeated "parent" lines, for instance). A value spanning several lines
// is stored with literal newlines; on the wire every continuation line is
// prefixed with a single space.
type KVLM struct {
	keys       []string
	values     map[string][]string
	message    string
	hasMessage bool
}

// NewKVLM returns an empty KVLM with no headers and no message.
func NewKVLM() *KVLM {
	return &KVLM{values: make(map[string][]string)}
}

// Add appends value to key, keeping any values already present.
func (k *KVLM) Add(key, value string) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = append(k.values[key], value)
}

// Set replaces all values of key. The key keeps its position if it was
// already present. Setting no values removes the key.
func (k *KVLM) Set(key string, values ...string) {
	if len(values) == 0 {
		k.Del(key)
		return
	}
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = append([]string(nil), values...)
}

// Del removes key and all its values.
func (k *KVLM) Del(key string) {
	if _, ok := k.values[key]; !ok {
		return
	}
	delete(k.values, key)
	for i, existing := range k.keys {
		if existing == key {
			k.keys = append(k.keys[:i], k.keys[i+1:]...)
			break
		}
	}
}

// Get returns the first value of key.
func (k *KVLM) Get(key string) (string, bool) {
	vals := k.values[key]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns a copy of every value of key in encounter order.
func (k *KVLM) Values(key string) []string {
	vals := k.values[key]
	if len(vals) == 0 {
		return nil
	}
	return append([]string(nil), vals...)
}

// Keys returns the header keys in order.
func (k *KVLM) Keys() []string {
	return append([]string(nil), k.keys...)
}

// Message returns the message body and whether one is present.
func (k *KVLM) Message() (string, bool) {
	return k.message, k.hasMessage
}

// SetMessage sets the message body.
func (k *KVLM) SetMessage(msg string) {
	k.message = msg
	k.hasMessage = true
}

// ClearMessage removes the message body.
func (k *KVLM) ClearMessage() {
	k.message = ""
	k.hasMessage = false
}

// Equal reports whether two KVLMs hold the same keys, values and message in
// the same order.
func (k *KVLM) Equal(other *KVLM) bool {
	if k == nil || other == nil {
		return k == other
	}
	if k.hasMessage != other.hasMessage || k.message != other.message {
		return false
	}
	if len(k.keys) != len(other.keys) {
		return false
	}
	for i, key := range k.keys {
		if other.keys[i] != key {
			return false
		}
		a, b := k.values[key], other.values[key]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// MarshalKVLM serializes k. Headers are written in key order, one line per
// value, with embedded newlines folded as "\n ". The message, if any, follows
// a single blank line.
func MarshalKVLM(k *KVLM) []byte {
	var buf bytes.Buffer
	for _, key := range k.keys {
		for _, v := range k.values[key] {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.WriteString(strings.ReplaceAll(v, "\n", "\n "))
			buf.WriteByte('\n')
		}
	}
	if k.hasMessage {
		buf.WriteByte('\n')
		buf.WriteString(k.message)
	}
	return buf.Bytes()
}

// UnmarshalKVLM parses the KVLM format. It walks the buffer one header at a
// time; a blank line, or a line with no space before its newline, marks the
// start of the message.
func UnmarshalKVLM(data []byte) (*KVLM, error) {
	k := NewKVLM()
	pos := 0
	for pos < len(data) {
		spc := indexFrom(data, ' ', pos)
		nl := indexFrom(data, '\n', pos)

		if nl == pos {
			k.SetMessage(string(data[pos+1:]))
			return k, nil
		}
		if spc < 0 || (nl >= 0 && nl < spc) {
			k.SetMessage(string(data[pos:]))
			return k, nil
		}
		if spc == pos {
			return nil, fmt.Errorf("unmarshal kvlm: %w: empty header key at offset %d", ErrMalformedObject, pos)
		}

		key := string(data[pos:spc])

		// A newline followed by a space continues the value.
		end := spc
		for {
			next := indexFrom(data, '\n', end+1)
			if next < 0 {
				end = len(data)
				break
			}
			end = next
			if end+1 < len(data) && data[end+1] == ' ' {
				continue
			}
			break
		}

		value := strings.ReplaceAll(string(data[spc+1:end]), "\n ", "\n")
		k.Add(key, value)
		pos = end + 1
	}
	return k, nil
}

func indexFrom(data []byte, c byte, from int) int {
	if from >= len(data) {
		return -1
	}
	i := bytes.IndexByte(data[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}
