package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"bizerp/internal/core/apperror"
)

// Patch holds the columns explicitly present in a partial update.
// A key mapped to nil writes NULL; absent keys are left untouched.
type Patch map[string]any

// Has reports whether column was supplied.
func (p Patch) Has(column string) bool {
	_, ok := p[column]
	return ok
}

// Columns returns the supplied columns in sorted order.
func (p Patch) Columns() []string {
	cols := make([]string, 0, len(p))
	for c := range p {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// RequireNonEmpty rejects a patch that blanks any of the given columns.
func (p Patch) RequireNonEmpty(columns ...string) error {
	for _, col := range columns {
		v, ok := p[col]
		if !ok {
			continue
		}
		if v == nil || reflect.ValueOf(v).IsZero() {
			return apperror.NewValidation(fmt.Sprintf("%s is required", col)).
				WithDetail("field", col)
		}
	}
	return nil
}

// Without returns a copy of p with the given columns removed.
func (p Patch) Without(columns ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, c := range columns {
		delete(out, c)
	}
	return out
}

// ImmutableColumns can never be written through a Patch.
var ImmutableColumns = []string{"id", "organization_id", "created_at", "updated_at"}

type patchField struct {
	column string
	typ    reflect.Type
}

var patchFieldCache sync.Map // reflect.Type -> map[string]patchField

// DecodePatch decodes a JSON object into a Patch for model T.
//
// JSON keys are matched against the json tags of T's db-mapped fields,
// including embedded structs. Keys that do not map to a writable column are
// returned in rest so callers can pick up nested payloads such as items.
func DecodePatch[T any](data []byte, readonly ...string) (Patch, map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, apperror.NewInvalidInput("request body must be a JSON object").WithCause(err)
	}

	fields := patchFields(reflect.TypeOf((*T)(nil)).Elem())
	blocked := make(map[string]struct{}, len(ImmutableColumns)+len(readonly))
	for _, c := range ImmutableColumns {
		blocked[c] = struct{}{}
	}
	for _, c := range readonly {
		blocked[c] = struct{}{}
	}

	patch := make(Patch)
	rest := make(map[string]json.RawMessage)
	for key, value := range raw {
		f, ok := fields[key]
		if !ok {
			rest[key] = value
			continue
		}
		if _, skip := blocked[f.column]; skip {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) && f.typ.Kind() == reflect.Ptr {
			patch[f.column] = nil
			continue
		}
		ptr := reflect.New(f.typ)
		if err := json.Unmarshal(value, ptr.Interface()); err != nil {
			return nil, nil, apperror.NewValidation(fmt.Sprintf("invalid value for %s", key)).
				WithDetail("field", key).
				WithCause(err)
		}
		patch[f.column] = ptr.Elem().Interface()
	}
	return patch, rest, nil
}

func patchFields(t reflect.Type) map[string]patchField {
	if cached, ok := patchFieldCache.Load(t); ok {
		return cached.(map[string]patchField)
	}
	out := make(map[string]patchField)
	collectPatchFields(t, out)
	patchFieldCache.Store(t, out)
	return out
}

func collectPatchFields(t reflect.Type, out map[string]patchField) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectPatchFields(f.Type, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		column := f.Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}
		key := column
		if tag := f.Tag.Get("json"); tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
				key = name
			}
		}
		out[key] = patchField{column: column, typ: f.Type}
	}
}

// ApplyPatch writes the patch onto dst, a pointer to a struct with db tags.
// Columns dst does not map are skipped. A nil value zeroes the field.
func ApplyPatch(dst any, p Patch) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return fmt.Errorf("apply patch: %T is not a non-nil pointer", dst)
	}
	target = target.Elem()
	for _, col := range p.Columns() {
		f := FieldByColumn(target, col)
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		v := p[col]
		if v == nil {
			f.Set(reflect.Zero(f.Type()))
			continue
		}
		rv := reflect.ValueOf(v)
		switch {
		case rv.Type().AssignableTo(f.Type()):
			f.Set(rv)
		case rv.Type().ConvertibleTo(f.Type()):
			f.Set(rv.Convert(f.Type()))
		case f.Kind() == reflect.Ptr && rv.Type().ConvertibleTo(f.Type().Elem()):
			ptr := reflect.New(f.Type().Elem())
			ptr.Elem().Set(rv.Convert(f.Type().Elem()))
			f.Set(ptr)
		default:
			return apperror.NewValidation(fmt.Sprintf("invalid value for %s", col)).
				WithDetail("field", col)
		}
	}
	return nil
}

// FieldByColumn returns the field of struct value v tagged db:"column",
// searching embedded structs. The result is invalid when none matches.
func FieldByColumn(v reflect.Value, column string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if f := FieldByColumn(v.Field(i), column); f.IsValid() {
				return f
			}
			continue
		}
		if sf.Tag.Get("db") == column {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
