package guildconfig

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind reports which variant a Value holds.
type Kind uint8

const (
	KindUnset Kind = iota
	KindText
	KindNumber
	KindBool
	KindIDs
)

// Value is a typed option value. The zero Value is unset.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	ids  []string
}

// Text returns a string value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// IDs returns a value holding role or channel ids.
func IDs(ids ...string) Value {
	return Value{kind: KindIDs, ids: slices.Clone(ids)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUnset reports whether v holds nothing meaningful.
func (v Value) IsUnset() bool {
	switch v.kind {
	case KindUnset:
		return true
	case KindIDs:
		return len(v.ids) == 0
	case KindText:
		return v.text == ""
	default:
		return false
	}
}

// AsText returns the string held by v.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsIDs returns a copy of the ids held by v.
func (v Value) AsIDs() ([]string, bool) {
	return slices.Clone(v.ids), v.kind == KindIDs
}

// HasID reports whether v holds the given id.
func (v Value) HasID(id string) bool {
	return v.kind == KindIDs && id != "" && slices.Contains(v.ids, id)
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindIDs:
		return slices.Equal(v.ids, o.ids)
	default:
		return true
	}
}

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindIDs:
		return strings.Join(v.ids, ", ")
	default:
		return ""
	}
}

// MarshalJSON encodes v in the stored blob format. A single id is written
// as a plain string, several ids as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindIDs:
		switch len(v.ids) {
		case 0:
			return json.Marshal("")
		case 1:
			return json.Marshal(v.ids[0])
		default:
			return json.Marshal(v.ids)
		}
	default:
		return json.Marshal("")
	}
}

// decodeValue interprets a stored blob field according to the entry type.
// Older rows store integers and booleans as strings, so both forms are accepted.
func decodeValue(entry Entry, raw json.RawMessage) (Value, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Value{}, fmt.Errorf("failed to decode %s: %w", entry.Key, err)
	}

	if s, ok := generic.(string); ok && s == "" {
		return Value{}, nil
	}

	switch entry.Type {
	case TypeRole, TypeChannel:
		switch data := generic.(type) {
		case string:
			return IDs(data), nil
		case []any:
			ids := make([]string, 0, len(data))
			for _, item := range data {
				s, ok := item.(string)
				if !ok {
					return Value{}, fmt.Errorf("%w: %s holds a non-string id", ErrInvalidValue, entry.Key)
				}
				if s != "" {
					ids = append(ids, s)
				}
			}
			return IDs(ids...), nil
		}

	case TypeInteger:
		switch data := generic.(type) {
		case float64:
			return Number(data), nil
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(data), 64)
			if err == nil {
				return Number(n), nil
			}
		}

	case TypeBoolean:
		switch data := generic.(type) {
		case bool:
			return Bool(data), nil
		case string:
			if b, err := strconv.ParseBool(data); err == nil {
				return Bool(b), nil
			}
		}

	default:
		if s, ok := generic.(string); ok {
			return Text(s), nil
		}
		// Free-form options may hold nested JSON; keep it verbatim.
		return Text(string(raw)), nil
	}

	return Value{}, fmt.Errorf("%w: %s holds %s", ErrInvalidValue, entry.Key, string(raw))
}
