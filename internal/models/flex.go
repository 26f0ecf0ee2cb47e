package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string, number, or null into a string.
// Saved snapshots and request bodies carry weight fields as either
// free text ("80kg") or bare numbers (80), depending on who wrote them.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*f = FlexString(s)
			return nil
		}
	}
	// Bare token (number, bool): keep its literal text.
	*f = FlexString(data)
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string { return string(f) }

// FlexInt decodes a JSON number, numeric string, empty string, or null.
// Blank or unparsable input yields nil rather than an error.
type FlexInt struct {
	value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) == 0 || s == "null" {
		f.value = nil
		return nil
	}
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			f.value = nil
			return nil
		}
		s = unquoted
	}
	s = strings.TrimSpace(s)
	if s == "" {
		f.value = nil
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.value = nil
		return nil
	}
	n := int(v)
	f.value = &n
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}

// Ptr returns the decoded value, or nil if the input was blank or unparsable.
func (f FlexInt) Ptr() *int {
	if f.value == nil {
		return nil
	}
	v := *f.value
	return &v
}

// NewFlexInt wraps a value for tests and marshalling.
func NewFlexInt(v int) FlexInt {
	return FlexInt{value: &v}
}

// FlexBool decodes a JSON bool, "true"/"false" string, number, or null.
// Anything unrecognized decodes as false.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
