// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Enumerator is implemented by integer types that act as closed
// enumerations. The field value is the index of the matched name.
type Enumerator interface {
	EnumNames() []string
}

// Describer is implemented by argument structs that carry a description
// for their help page.
type Describer interface {
	Description() string
}

var (
	charType       = reflect.TypeOf(Char(0))
	enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()
	describerType  = reflect.TypeOf((*Describer)(nil)).Elem()
)

// fieldBinding connects a schema field to a struct field.
type fieldBinding struct {
	name  string
	index []int
	// enum is set for Enumerator fields, whose values are indexes.
	enum       bool
	hasDefault bool
}

type typeBinding struct {
	resolved *Resolved
	fields   []fieldBinding
}

// bindings caches typeBinding (or error) values by struct type.
var bindings sync.Map

func bindingFor(t reflect.Type) (*typeBinding, error) {
	if v, ok := bindings.Load(t); ok {
		if err, ok := v.(error); ok {
			return nil, err
		}
		return v.(*typeBinding), nil
	}
	tb, err := newTypeBinding(t)
	if err != nil {
		bindings.Store(t, err)
		return nil, err
	}
	v, _ := bindings.LoadOrStore(t, tb)
	return v.(*typeBinding), nil
}

func newTypeBinding(t reflect.Type) (*typeBinding, error) {
	s, fields, err := schemaFor(t)
	if err != nil {
		return nil, err
	}
	r, err := Resolve(s)
	if err != nil {
		return nil, err
	}
	return &typeBinding{resolved: r, fields: fields}, nil
}

// SchemaOf derives a schema from the struct type T.
//
// Field tags:
//
//	flag:"name"      option name (default: lower-cased field name), "-" skips
//	short:"x"        an alias
//	alias:"a,b"      more aliases
//	pos:"N"          positional with explicit order N
//	pos:""           positional, ordered after the explicit ones
//	help:"text"      description
//	display:"name"   name shown in help placeholders
//	default:"value"  default, in invariant locale; comma separated for slices
//	enum:"A|B|C"     members of a string (or []string) enum
//
// Supported field types are bool, string, Char, every sized int and uint,
// float32, float64, integer types implementing Enumerator, pointers to any
// of those, and slices of the non-bool ones.
func SchemaOf[T any]() (*Schema, error) {
	s, _, err := schemaFor(reflect.TypeOf((*T)(nil)).Elem())
	return s, err
}

// Bind parses args into a new T. Fields not supplied hold their `default`
// tag value, or their zero value.
func Bind[T any](args []string, opts ParseOptions) (*T, error) {
	tb, err := bindingFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	dst := new(T)
	v := reflect.ValueOf(dst).Elem()
	for _, fb := range tb.fields {
		if !fb.hasDefault {
			continue
		}
		f := tb.resolved.field(fb.name)
		if err := setValue(v.FieldByIndex(fb.index), f.Default, fb); err != nil {
			return nil, err
		}
	}
	if err := bindInto(v, tb, args, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

// BindString splits line on whitespace and binds the tokens into a new T.
func BindString[T any](line string, opts ParseOptions) (*T, error) {
	return Bind[T](SplitArgs(line), opts)
}

// BindInto parses args into dst. Fields that are not supplied keep their
// current values, so dst may be pre-filled with defaults. dst is left
// untouched if parsing fails.
func BindInto[T any](dst *T, args []string, opts ParseOptions) error {
	tb, err := bindingFor(reflect.TypeOf(dst).Elem())
	if err != nil {
		return err
	}
	return bindInto(reflect.ValueOf(dst).Elem(), tb, args, opts)
}

// HelpFor renders the help page of the struct type T.
func HelpFor[T any](program string) (string, error) {
	tb, err := bindingFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return "", err
	}
	return tb.resolved.Help(program), nil
}

func bindInto(dst reflect.Value, tb *typeBinding, args []string, opts ParseOptions) error {
	vals, err := tb.resolved.Parse(args, opts)
	if err != nil {
		return err
	}
	tmp := reflect.New(dst.Type()).Elem()
	tmp.Set(dst)
	for _, fb := range tb.fields {
		if !vals.IsSet(fb.name) {
			continue
		}
		x, _ := vals.Get(fb.name)
		if err := setValue(tmp.FieldByIndex(fb.index), x, fb); err != nil {
			return err
		}
	}
	dst.Set(tmp)
	return nil
}

func schemaFor(t reflect.Type) (*Schema, []fieldBinding, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("argbind: %s is not a struct", t)
	}
	s := &Schema{}
	if t.Implements(describerType) {
		s.Description = reflect.Zero(t).Interface().(Describer).Description()
	} else if reflect.PointerTo(t).Implements(describerType) {
		s.Description = reflect.New(t).Interface().(Describer).Description()
	}

	var fields []fieldBinding
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("flag")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}

		f, enum, err := fieldFor(name, sf)
		if err != nil {
			return nil, nil, err
		}
		fb := fieldBinding{name: name, index: sf.Index, enum: enum}
		if def, ok := sf.Tag.Lookup("default"); ok {
			v, err := defaultValue(&f, def)
			if err != nil {
				return nil, nil, fmt.Errorf("argbind: default for %s: %w", name, err)
			}
			f.Default = v
			fb.hasDefault = true
		}
		s.Fields = append(s.Fields, f)
		fields = append(fields, fb)
	}
	return s, fields, nil
}

// fieldFor builds the schema field of sf. enum reports whether the Go type
// is an Enumerator.
func fieldFor(name string, sf reflect.StructField) (f Field, enum bool, err error) {
	ft := sf.Type
	if ft.Kind() == reflect.Pointer {
		ft = ft.Elem()
	}

	switch {
	case ft.Kind() == reflect.Bool:
		f = Bool(name)
	case ft.Kind() == reflect.Slice && sf.Type.Kind() != reflect.Pointer:
		elem, members, isEnum, ok := scalarKindOf(ft.Elem(), sf.Tag.Get("enum"))
		if !ok {
			return Field{}, false, unsupported(name, sf.Type)
		}
		f = Array(name, elem)
		f.Members = members
		enum = isEnum
	default:
		kind, members, isEnum, ok := scalarKindOf(ft, sf.Tag.Get("enum"))
		if !ok {
			return Field{}, false, unsupported(name, sf.Type)
		}
		f = Scalar(name, kind)
		f.Members = members
		enum = isEnum
	}

	if short := sf.Tag.Get("short"); short != "" {
		f.Aliases = append(f.Aliases, short)
	}
	for _, alias := range strings.Split(sf.Tag.Get("alias"), ",") {
		if alias = strings.TrimSpace(alias); alias != "" {
			f.Aliases = append(f.Aliases, alias)
		}
	}
	if pos, ok := sf.Tag.Lookup("pos"); ok {
		if pos == "" {
			f = f.AsPositional()
		} else {
			order, err := strconv.Atoi(pos)
			if err != nil {
				return Field{}, false, &SchemaError{Kind: InvalidField, Field: name, Reason: fmt.Sprintf("invalid pos tag %q", pos)}
			}
			f = f.At(order)
		}
	}
	f.Description = sf.Tag.Get("help")
	f.DisplayName = sf.Tag.Get("display")
	return f, enum, nil
}

func unsupported(name string, t reflect.Type) error {
	return &ParseError{Kind: UnsupportedType, Index: -1, Field: name, Err: errors.New(t.String())}
}

func scalarKindOf(t reflect.Type, enumTag string) (kind ScalarKind, members []string, enum, ok bool) {
	if t.Implements(enumeratorType) {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			names := reflect.Zero(t).Interface().(Enumerator).EnumNames()
			return ScalarEnum, slices.Clone(names), true, true
		}
	}
	if t == charType {
		return ScalarChar, nil, false, true
	}
	switch t.Kind() {
	case reflect.String:
		if enumTag != "" {
			return ScalarEnum, strings.Split(enumTag, "|"), false, true
		}
		return ScalarString, nil, false, true
	case reflect.Int:
		return ScalarInt, nil, false, true
	case reflect.Int8:
		return ScalarInt8, nil, false, true
	case reflect.Int16:
		return ScalarInt16, nil, false, true
	case reflect.Int32:
		return ScalarInt32, nil, false, true
	case reflect.Int64:
		return ScalarInt64, nil, false, true
	case reflect.Uint:
		return ScalarUint, nil, false, true
	case reflect.Uint8:
		return ScalarUint8, nil, false, true
	case reflect.Uint16:
		return ScalarUint16, nil, false, true
	case reflect.Uint32:
		return ScalarUint32, nil, false, true
	case reflect.Uint64:
		return ScalarUint64, nil, false, true
	case reflect.Float32:
		return ScalarFloat32, nil, false, true
	case reflect.Float64:
		return ScalarFloat64, nil, false, true
	}
	return ScalarInvalid, nil, false, false
}

// defaultValue coerces a default tag with the invariant locale.
func defaultValue(f *Field, def string) (any, error) {
	switch f.Kind {
	case KindBool:
		return strconv.ParseBool(def)
	case KindArray:
		out := []any{}
		for _, part := range strings.Split(def, ",") {
			if part == "" {
				continue
			}
			v, err := Coerce(f.Scalar, f.Members, part, Invariant)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return Coerce(f.Scalar, f.Members, def, Invariant)
}

// setValue stores a parsed value into a struct field.
func setValue(fv reflect.Value, x any, fb fieldBinding) error {
	if fv.Kind() == reflect.Pointer {
		nv := reflect.New(fv.Type().Elem())
		if err := setValue(nv.Elem(), x, fb); err != nil {
			return err
		}
		fv.Set(nv)
		return nil
	}
	if fv.Kind() == reflect.Slice {
		items, _ := x.([]any)
		slice := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			if err := setScalar(slice.Index(i), item, fb); err != nil {
				return err
			}
		}
		fv.Set(slice)
		return nil
	}
	return setScalar(fv, x, fb)
}

func setScalar(fv reflect.Value, x any, fb fieldBinding) error {
	if fb.enum {
		name, _ := x.(string)
		idx := slices.Index(reflect.Zero(fv.Type()).Interface().(Enumerator).EnumNames(), name)
		if idx < 0 {
			return fmt.Errorf("argbind: %s: %q is not a member", fb.name, name)
		}
		switch fv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fv.SetUint(uint64(idx))
		default:
			fv.SetInt(int64(idx))
		}
		return nil
	}
	xv := reflect.ValueOf(x)
	if !xv.IsValid() || !xv.Type().ConvertibleTo(fv.Type()) {
		return fmt.Errorf("argbind: %s: cannot store %T in %s", fb.name, x, fv.Type())
	}
	fv.Set(xv.Convert(fv.Type()))
	return nil
}
