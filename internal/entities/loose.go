package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Upstream records mix strings, numbers, objects and nulls for the same key.
// The Loose* types below never fail to decode: anything they cannot
// interpret becomes their zero value.

// LooseString holds strings, numbers and booleans as text.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*s = ""
		return nil
	}

	switch b[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err == nil {
			*s = LooseString(str)
			return nil
		}
	case 't', 'f':
		*s = LooseString(b)
		if *s != "true" && *s != "false" {
			*s = ""
		}
		return nil
	case 'n', '{', '[':
	default:
		// number literal, kept as written
		*s = LooseString(b)
		return nil
	}

	*s = ""
	return nil
}

func (s LooseString) String() string {
	return string(s)
}

// Present reports whether the value is usable, i.e. not empty and not a zero number.
func (s LooseString) Present() bool {
	str := strings.TrimSpace(string(s))
	if str == "" || str == "false" {
		return false
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return f != 0
	}
	return true
}

// LooseInt holds integers that may arrive as numbers, floats or numeric strings.
type LooseInt struct {
	Value int64
	Valid bool
}

func (i *LooseInt) UnmarshalJSON(b []byte) error {
	*i = LooseInt{}

	var str LooseString
	_ = str.UnmarshalJSON(b)
	text := strings.TrimSpace(string(str))
	if text == "" || text == "true" || text == "false" {
		return nil
	}

	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*i = LooseInt{Value: v, Valid: true}
		return nil
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil && inInt64Range(f) {
		*i = LooseInt{Value: int64(f), Valid: true}
	}
	return nil
}

// inInt64Range rejects NaN, infinities and floats that do not fit an int64.
// float64(math.MaxInt64) rounds up to 2^63, hence the strict upper bound.
func inInt64Range(f float64) bool {
	return !math.IsNaN(f) && f >= math.MinInt64 && f < math.MaxInt64
}

// Ptr returns nil for an absent value.
func (i LooseInt) Ptr() *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Value
	return &v
}

// Truthy reports a present, non-zero value.
func (i LooseInt) Truthy() bool {
	return i.Valid && i.Value != 0
}

// LooseBool is true for JSON true, non-zero numbers and non-empty strings other than "false"/"0".
type LooseBool bool

func (v *LooseBool) UnmarshalJSON(b []byte) error {
	var str LooseString
	_ = str.UnmarshalJSON(b)
	switch strings.ToLower(strings.TrimSpace(string(str))) {
	case "", "false", "0", "no":
		*v = false
	default:
		*v = LooseBool(str.Present() || str == "true")
	}
	return nil
}

// LooseList accepts a list, a single scalar or an object and keeps the raw elements.
type LooseList []json.RawMessage

func (l *LooseList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = nil

	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(b, &elements); err == nil {
			*l = elements
		}
		return nil
	}

	if bytes.Equal(b, []byte(`""`)) || bytes.Equal(b, []byte("false")) {
		return nil
	}

	*l = LooseList{json.RawMessage(append([]byte(nil), b...))}
	return nil
}

// Names resolves every element to text: strings and numbers as-is, objects by the
// first non-empty key from keys, otherwise the compact JSON text. Empty elements are dropped.
func (l LooseList) Names(keys ...string) []string {
	names := make([]string, 0, len(l))
	for _, element := range l {
		if name := elementName(element, keys); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func elementName(element json.RawMessage, keys []string) string {
	element = bytes.TrimSpace(element)
	if len(element) == 0 || bytes.Equal(element, []byte("null")) {
		return ""
	}

	if element[0] == '{' {
		var fields map[string]LooseString
		if err := json.Unmarshal(element, &fields); err == nil {
			for _, key := range keys {
				if value := strings.TrimSpace(fields[key].String()); value != "" {
					return value
				}
			}
		}
		var compact bytes.Buffer
		if json.Compact(&compact, element) == nil && compact.String() != "{}" {
			return compact.String()
		}
		return ""
	}

	var str LooseString
	_ = str.UnmarshalJSON(element)
	if element[0] == '"' || str != "" {
		if str == "false" {
			return ""
		}
		return strings.TrimSpace(str.String())
	}
	return string(element)
}
