package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/amadigan/teardown/internal/util"
)

// UnknownFieldError names a key in an override file that the layout has no
// field for. Typos would otherwise silently fall back to the defaults.
type UnknownFieldError struct {
	Field string
	Type  string
	Known []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q for %s (expected one of %s)", e.Field, e.Type, strings.Join(e.Known, ", "))
}

type fieldValidator struct {
	fields map[string]struct{}
	typ    string
}

func (f *fieldValidator) Validate(bs []byte) error {
	var m map[string]json.RawMessage

	if err := json.Unmarshal(bs, &m); err != nil {
		return err
	}

	for k := range m {
		if _, ok := f.fields[strings.ToLower(k)]; !ok {
			known := util.MapKeys(f.fields)
			sort.Strings(known)

			return &UnknownFieldError{Field: k, Type: f.typ, Known: known}
		}
	}

	return nil
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "yaml"} {
		if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" {
			return name
		}
	}

	return f.Name
}

// newFieldValidator collects the keys example, a struct value, accepts.
func newFieldValidator(example any) *fieldValidator {
	t := reflect.TypeOf(example)
	fields := make(map[string]struct{}, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := tagName(f)
		if name == "-" {
			continue
		}

		fields[strings.ToLower(name)] = struct{}{}
	}

	return &fieldValidator{fields: fields, typ: t.Name()}
}
