package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque record identifier assigned by the persistence layer.
// Backends emit either JSON numbers or strings; both decode into ID and
// numeric ids encode back as numbers.
type ID string

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id ID) String() string {
	return string(id)
}

// MarshalJSON encodes numeric ids as JSON numbers and everything else as
// strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("model: invalid id %s", string(trimmed))
	}
	*id = ID(n.String())
	return nil
}

func isDigits(value string) bool {
	if value == "" || len(value) > 15 {
		return false
	}
	if len(value) > 1 && value[0] == '0' {
		return false
	}
	_, err := strconv.ParseUint(value, 10, 64)
	return err == nil
}

// User is a registry record. Fields holds the persisted string values keyed
// by descriptor name; the JSON form is flat ({"id":7,"firstName":"Al",...}).
type User struct {
	ID     ID
	Fields map[string]string
}

// NewUser builds a record from a normalized payload. Nil payload values are
// stored as empty strings.
func NewUser(id ID, payload Payload) User {
	fields := make(map[string]string, len(payload))
	for key := range payload {
		if key == "id" {
			continue
		}
		fields[key] = payload.String(key)
	}
	return User{ID: id, Fields: fields}
}

// Get returns the stored value for name.
func (u User) Get(name string) string {
	if u.Fields == nil {
		return ""
	}
	return u.Fields[name]
}

// Values converts the record into form values for reg, decoding every field
// through its kind (dates become time.Time). Fields missing from the record
// start blank.
func (u User) Values(reg *Registry) Values {
	values := reg.BlankValues()
	for _, field := range reg.Fields() {
		stored, ok := u.Fields[field.Name]
		if !ok {
			continue
		}
		values[field.Name] = field.Behavior().Decode(stored)
	}
	return values
}

// MarshalJSON flattens the record.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+1)
	for key, value := range u.Fields {
		out[key] = value
	}
	if !u.ID.IsZero() {
		out["id"] = u.ID
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat record. Non-string scalar values keep their
// JSON text and null reads as "".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := User{Fields: make(map[string]string, len(raw))}
	for key, value := range raw {
		if key == "id" {
			if err := json.Unmarshal(value, &out.ID); err != nil {
				return err
			}
			continue
		}
		out.Fields[key] = rawText(value)
	}
	*u = out
	return nil
}

func rawText(value json.RawMessage) string {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
