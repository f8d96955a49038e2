// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"reflect"
)

// Values is the result of a successful parse. Fields that were never
// assigned report their default.
type Values struct {
	r      *Resolved
	values map[string]any
}

// IsSet reports whether the field was assigned by the parsed tokens.
func (v *Values) IsSet(name string) bool {
	_, ok := v.values[name]
	return ok
}

// Get returns the field's value, or its default when it was not assigned.
// ok is false when the schema has no such field.
//
// Scalars are returned with the types listed on Coerce; arrays as []any.
func (v *Values) Get(name string) (val any, ok bool) {
	if x, ok := v.values[name]; ok {
		return x, true
	}
	f := v.r.field(name)
	if f == nil {
		return nil, false
	}
	return defaultOf(f), true
}

// Fields returns the names of the assigned fields in schema order.
func (v *Values) Fields() []string {
	var out []string
	for _, f := range v.r.schema.Fields {
		if _, ok := v.values[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Map returns every field's value, defaults included, keyed by field name.
func (v *Values) Map() map[string]any {
	out := make(map[string]any, len(v.r.schema.Fields))
	for _, f := range v.r.schema.Fields {
		out[f.Name], _ = v.Get(f.Name)
	}
	return out
}

func (v *Values) Bool(name string) bool {
	b, _ := v.get(name).(bool)
	return b
}

// String returns a string or enum field's value. Other kinds are formatted
// with fmt.
func (v *Values) String(name string) string {
	switch x := v.get(name).(type) {
	case nil:
		return ""
	case string:
		return x
	case Char:
		return string(rune(x))
	default:
		return fmt.Sprint(x)
	}
}

func (v *Values) Char(name string) Char {
	c, _ := v.get(name).(Char)
	return c
}

// Int64 returns a signed integer field's value.
func (v *Values) Int64(name string) int64 {
	rv := reflect.ValueOf(v.get(name))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	}
	return 0
}

// Uint64 returns an unsigned integer field's value.
func (v *Values) Uint64(name string) uint64 {
	rv := reflect.ValueOf(v.get(name))
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int())
	}
	return 0
}

func (v *Values) Float64(name string) float64 {
	switch x := v.get(name).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// List returns an array field's elements, or nil.
func (v *Values) List(name string) []any {
	l, _ := v.get(name).([]any)
	return l
}

// Strings returns an array field's elements formatted as strings.
func (v *Values) Strings(name string) []string {
	l := v.List(name)
	if l == nil {
		return nil
	}
	out := make([]string, len(l))
	for i, x := range l {
		if c, ok := x.(Char); ok {
			out[i] = string(rune(c))
			continue
		}
		out[i] = fmt.Sprint(x)
	}
	return out
}

func (v *Values) get(name string) any {
	x, _ := v.Get(name)
	return x
}

// defaultOf is the value of a field that was never assigned.
func defaultOf(f *Field) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case KindBool:
		return false
	case KindArray:
		return nil
	}
	return zeroOf(f)
}

func zeroOf(f *Field) any {
	switch f.Scalar {
	case ScalarString:
		return ""
	case ScalarChar:
		return Char(0)
	case ScalarInt:
		return int(0)
	case ScalarInt8:
		return int8(0)
	case ScalarInt16:
		return int16(0)
	case ScalarInt32:
		return int32(0)
	case ScalarInt64:
		return int64(0)
	case ScalarUint:
		return uint(0)
	case ScalarUint8:
		return uint8(0)
	case ScalarUint16:
		return uint16(0)
	case ScalarUint32:
		return uint32(0)
	case ScalarUint64:
		return uint64(0)
	case ScalarFloat32:
		return float32(0)
	case ScalarFloat64:
		return float64(0)
	case ScalarEnum:
		// Like an integer enum's zero value, the first member.
		if len(f.Members) > 0 {
			return f.Members[0]
		}
	}
	return nil
}
