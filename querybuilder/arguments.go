package querybuilder

import (
	"bytes"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/go-json-experiment/json"
)

var (
	marshalerType     = reflect.TypeFor[graphql.Marshaler]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// fieldInfo describes how a struct member is rendered as an argument.
type fieldInfo struct {
	index     int
	name      string
	omitEmpty bool
}

var fieldCache sync.Map // map[reflect.Type][]fieldInfo

func structFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	fields := make([]fieldInfo, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts := parseJSONTag(f.Tag.Get("json"))
		if name == "-" && len(opts) == 0 {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields = append(fields, fieldInfo{
			index:     i,
			name:      name,
			omitEmpty: slices.Contains(opts, "omitempty") || slices.Contains(opts, "omitzero"),
		})
	}

	cached, _ := fieldCache.LoadOrStore(t, fields)
	return cached.([]fieldInfo)
}

func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

// renderArguments renders the members of v as a GraphQL argument list without
// the surrounding parentheses. Nil members are left out.
func renderArguments(v any) (string, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}

	var b bytes.Buffer
	switch rv.Kind() {
	case reflect.Struct:
		if err := writeStructMembers(&b, rv); err != nil {
			return "", err
		}
	case reflect.Map:
		if err := writeMapMembers(&b, rv); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("arguments must be a struct or a map, got %s", rv.Type())
	}
	return b.String(), nil
}

func writeStructMembers(b *bytes.Buffer, rv reflect.Value) error {
	first := true
	for _, f := range structFields(rv.Type()) {
		fv := rv.Field(f.index)
		if isAbsent(fv) || f.omitEmpty && fv.IsZero() {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(f.name)
		b.WriteByte(':')
		if err := writeValue(b, fv); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func writeMapMembers(b *bytes.Buffer, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("map key must be a string, got %s", rv.Type().Key())
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})

	first := true
	for _, k := range keys {
		v := rv.MapIndex(k)
		if isAbsent(v) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(k.String())
		b.WriteByte(':')
		if err := writeValue(b, v); err != nil {
			return fmt.Errorf("%s: %w", k.String(), err)
		}
	}
	return nil
}

// isAbsent reports whether v stands for an argument that was not given.
func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}

// writeValue renders v as a GraphQL input value. Values implementing
// graphql.Marshaler write themselves, which is how enums become bare
// literals; JSON and text marshalers render as their JSON encoding.
func writeValue(b *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		b.WriteString("null")
		return nil
	}
	if m, ok := asMarshaler(v); ok {
		m.MarshalGQL(b)
		return nil
	}
	if v.Type().Implements(jsonMarshalerType) || v.Type().Implements(textMarshalerType) {
		return writeJSON(b, v)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("null")
			return nil
		}
		return writeValue(b, v.Elem())
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return writeJSON(b, v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			b.WriteString("null")
			return nil
		}
		b.WriteByte('[')
		for i := range v.Len() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeValue(b, v.Index(i)); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	case reflect.Struct:
		b.WriteByte('{')
		if err := writeStructMembers(b, v); err != nil {
			return err
		}
		b.WriteByte('}')
		return nil
	case reflect.Map:
		if v.IsNil() {
			b.WriteString("null")
			return nil
		}
		b.WriteByte('{')
		if err := writeMapMembers(b, v); err != nil {
			return err
		}
		b.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported argument type %s", v.Type())
	}
}

func asMarshaler(v reflect.Value) (graphql.Marshaler, bool) {
	if v.Type().Implements(marshalerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, false
		}
		m, ok := v.Interface().(graphql.Marshaler)
		return m, ok
	}
	if v.CanAddr() && v.Addr().Type().Implements(marshalerType) {
		m, ok := v.Addr().Interface().(graphql.Marshaler)
		return m, ok
	}
	return nil, false
}

func writeJSON(b *bytes.Buffer, v reflect.Value) error {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		b.WriteString("null")
		return nil
	}
	out, err := json.Marshal(v.Interface())
	if err != nil {
		return err
	}
	b.Write(out)
	return nil
}
