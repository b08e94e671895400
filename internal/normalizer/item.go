package normalizer

import (
	"bytes"
	"encoding/json"
)

// Field is one key/value pair of a normalized item.
type Field struct {
	Value any
	Key   string
}

// Item is a normalized record. Fields are kept in table order and every
// field is always present, absent values being null, "" or [].
type Item []Field

// Get returns the value stored under key.
func (it Item) Get(key string) (any, bool) {
	for _, f := range it {
		if f.Key == key {
			return f.Value, true
		}
	}

	return nil, false
}

// String returns the string value under key, or "" when it is null or not a string.
func (it Item) String(key string) string {
	v, _ := it.Get(key)
	s, _ := v.(string)

	return s
}

// MarshalJSON writes the item as a JSON object preserving field order.
func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range it {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := encodeRaw(&buf, f.Key); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := encodeRaw(&buf, f.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// encodeRaw appends v as JSON without HTML escaping, so URLs keep their '&'.
func encodeRaw(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return err
	}

	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)

	return nil
}
