package id

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// Ref is an optional reference to another row.
//
// Decoding is lenient: JSON null, an empty string or a malformed identifier
// all decode to an unset Ref, which is stored as NULL.
type Ref struct {
	UUID  uuid.UUID
	Valid bool
}

// RefOf returns a set Ref pointing at v. A nil id gives an unset Ref.
func RefOf(v ID) Ref {
	return Ref{UUID: v, Valid: v != uuid.Nil}
}

// ParseRef parses s, returning an unset Ref when s is not a UUID.
func ParseRef(s string) Ref {
	v, err := uuid.Parse(s)
	if err != nil {
		return Ref{}
	}
	return RefOf(v)
}

// Ptr returns the referenced id or nil.
func (r Ref) Ptr() *ID {
	if !r.Valid {
		return nil
	}
	v := r.UUID
	return &v
}

// String returns the id or an empty string when unset.
func (r Ref) String() string {
	if !r.Valid {
		return ""
	}
	return r.UUID.String()
}

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.UUID.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*r = Ref{}
		return nil
	}
	*r = ParseRef(s)
	return nil
}

// Scan implements sql.Scanner.
func (r *Ref) Scan(src any) error {
	var n uuid.NullUUID
	if err := n.Scan(src); err != nil {
		return err
	}
	r.UUID, r.Valid = n.UUID, n.Valid
	return nil
}

// Value implements driver.Valuer.
func (r Ref) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return r.UUID.String(), nil
}
