package item

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/grokify/mogo/encoding/base36"
)

// The wire form of an item is {"identity": "...", "metadata": {...}}. The
// metadata object is decoded with a token stream instead of a plain
// map[string]string so that key order survives the round trip.

// MarshalJSON writes the item with metadata keys in insertion order.
func (it *Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"identity":`)
	id, err := json.Marshal(it.identity)
	if err != nil {
		return nil, err
	}
	buf.Write(id)
	if len(it.names) > 0 {
		buf.WriteString(`,"metadata":{`)
		for i, name := range it.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(it.values[CanonicalName(name)])
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the wire form, preserving the metadata key order of
// the input document.
func (it *Item) UnmarshalJSON(b []byte) error {
	var raw struct {
		Identity string          `json:"identity"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return NewUnmarshalError(err)
	}

	*it = Item{identity: raw.Identity}
	if len(raw.Metadata) == 0 || string(raw.Metadata) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Metadata))
	tok, err := dec.Token()
	if err != nil {
		return NewUnmarshalError(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return NewUnmarshalError(fmt.Errorf("metadata must be an object, got %v", tok))
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return NewUnmarshalError(err)
		}
		key := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return NewUnmarshalError(fmt.Errorf("metadata value for %q must be a string: %w", key, err))
		}
		it.SetMetadata(key, value)
	}
	return nil
}

// String returns a compact JSON rendering, mostly for logs.
func (it *Item) String() string {
	b, err := json.Marshal(it)
	if err != nil {
		return fmt.Sprintf("%#v", *it)
	}
	return string(b)
}

// Fingerprint returns a short stable content hash over the identity and the
// ordered metadata. Two items with the same identity and the same metadata
// in the same order share a fingerprint.
func (it *Item) Fingerprint() string {
	js, err := json.Marshal(it)
	if err != nil {
		js = []byte(fmt.Sprintf("%#v", *it))
	}
	return base36.Md5Base36(string(js))[0:6]
}
