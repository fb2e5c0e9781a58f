// Package field resolves named fields on request and response values.
//
// Lookup order: Getter, string-keyed maps, then exported struct fields (json tag name,
// Go field name, lower-camel field name). Pointers and interfaces are dereferenced.
package field

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/curtisnewbie/misotime/encoding/json"
	"github.com/spf13/cast"
)

const (
	// Rendered for keys that can't be resolved.
	MissingValue = "<missing>"

	// Rendered for nil values.
	NilValue = "<nil>"
)

var (
	// reflect.Type -> *structFields
	structFieldCache sync.Map
)

// Getter is implemented by values that expose their fields explicitly.
type Getter interface {
	Field(key string) (any, bool)
}

type structFields struct {
	index map[string][]int
}

// Get value of the named field.
//
// The second return value is false if v is nil or the field can't be found.
func Get(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if g, ok := v.(Getter); ok {
		return g.Field(key)
	}
	if m, ok := v.(map[string]any); ok {
		fv, ok := m[key]
		return fv, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
		if rv.CanInterface() {
			if g, ok := rv.Interface().(Getter); ok {
				return g.Field(key)
			}
		}
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		idx, ok := lookupStructFields(rv.Type()).index[key]
		if !ok {
			return nil, false
		}
		fv, err := rv.FieldByIndexErr(idx)
		if err != nil || !fv.CanInterface() { // nil embedded pointer
			return nil, false
		}
		return fv.Interface(), true
	}
	return nil, false
}

// Render value as label text.
//
// Strings are returned as is, scalars are converted using cast, maps, slices and structs are written as json.
func Render(v any) string {
	if v == nil {
		return NilValue
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return NilValue
		}
	}

	switch tv := v.(type) {
	case string:
		return tv
	case fmt.Stringer:
		return tv.String()
	case error:
		return tv.Error()
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return Render(rv.Elem().Interface())
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		if s, err := json.SWriteJson(v); err == nil {
			return s
		}
		return fmt.Sprintf("%+v", v)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func lookupStructFields(t reflect.Type) *structFields {
	if v, ok := structFieldCache.Load(t); ok {
		return v.(*structFields)
	}
	sf := &structFields{index: map[string][]int{}}
	collectStructFields(t, nil, sf)
	v, _ := structFieldCache.LoadOrStore(t, sf)
	return v.(*structFields)
}

func collectStructFields(t reflect.Type, parent []int, sf *structFields) {
	var embedded []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			if f.Anonymous {
				embedded = append(embedded, f)
			}
			continue
		}
		idx := append(append([]int{}, parent...), i)

		if f.Anonymous {
			embedded = append(embedded, f)
		}

		tagName, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tagName == "-" {
			continue
		}
		for _, name := range []string{tagName, f.Name, json.LowercaseNamingStrategy(f.Name)} {
			if name == "" {
				continue
			}
			if _, ok := sf.index[name]; !ok {
				sf.index[name] = idx
			}
		}
	}

	// promoted fields never shadow fields declared on the outer struct
	for _, f := range embedded {
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		collectStructFields(ft, append(append([]int{}, parent...), f.Index[0]), sf)
	}
}
