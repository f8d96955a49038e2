// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"slices"
)

// Char is a single character value. It exists so struct fields can ask for
// character parsing without being confused with int32.
type Char rune

// ValueKind describes how a field consumes tokens.
type ValueKind int

const (
	// KindBool fields take no value token; presence sets them to true.
	KindBool ValueKind = iota + 1
	// KindScalar fields take exactly one value token.
	KindScalar
	// KindArray fields take zero or more value tokens.
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// ScalarKind is the type of a single value: the value of a scalar field or
// each element of an array field.
type ScalarKind int

const (
	ScalarInvalid ScalarKind = iota
	ScalarString
	ScalarChar
	ScalarInt
	ScalarInt8
	ScalarInt16
	ScalarInt32
	ScalarInt64
	ScalarUint
	ScalarUint8
	ScalarUint16
	ScalarUint32
	ScalarUint64
	ScalarFloat32
	ScalarFloat64
	ScalarEnum
)

var scalarNames = map[ScalarKind]string{
	ScalarString:  "string",
	ScalarChar:    "char",
	ScalarInt:     "int",
	ScalarInt8:    "int8",
	ScalarInt16:   "int16",
	ScalarInt32:   "int32",
	ScalarInt64:   "int64",
	ScalarUint:    "uint",
	ScalarUint8:   "uint8",
	ScalarUint16:  "uint16",
	ScalarUint32:  "uint32",
	ScalarUint64:  "uint64",
	ScalarFloat32: "float32",
	ScalarFloat64: "float64",
	ScalarEnum:    "enum",
}

func (k ScalarKind) String() string {
	if name, ok := scalarNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ScalarKind(%d)", int(k))
}

// Valid reports whether k is one of the kinds Coerce knows how to parse.
func (k ScalarKind) Valid() bool {
	_, ok := scalarNames[k]
	return ok
}

// ParseScalarKind returns the ScalarKind with the given name, as printed by
// ScalarKind.String.
func ParseScalarKind(name string) (ScalarKind, bool) {
	for k, n := range scalarNames {
		if n == name {
			return k, true
		}
	}
	return ScalarInvalid, false
}

// Field describes one bindable field of a schema.
//
// Fields are usually built with Bool, Scalar, Array, Enum or EnumArray and then
// refined with the With* modifiers, which return modified copies.
type Field struct {
	Name   string
	Kind   ValueKind
	Scalar ScalarKind // value kind for scalars, element kind for arrays
	// Members lists the accepted names of a ScalarEnum field.
	Members []string
	Aliases []string

	// Positional fields are bound by input order instead of by name.
	Positional bool
	// Order is the explicit position of a positional field; only meaningful
	// when Ordered is set.
	Order   int
	Ordered bool

	Description string
	// DisplayName replaces Name in help placeholders.
	DisplayName string
	// Default is reported by Values when the field is never assigned.
	Default any
}

// Bool returns a boolean flag field.
func Bool(name string) Field {
	return Field{Name: name, Kind: KindBool}
}

// Scalar returns a single-valued field of the given kind.
func Scalar(name string, kind ScalarKind) Field {
	return Field{Name: name, Kind: KindScalar, Scalar: kind}
}

// Array returns a repeated field whose elements have the given kind.
func Array(name string, elem ScalarKind) Field {
	return Field{Name: name, Kind: KindArray, Scalar: elem}
}

// Enum returns a single-valued field restricted to members.
func Enum(name string, members ...string) Field {
	return Field{Name: name, Kind: KindScalar, Scalar: ScalarEnum, Members: members}
}

// EnumArray returns a repeated field whose elements are restricted to members.
func EnumArray(name string, members ...string) Field {
	return Field{Name: name, Kind: KindArray, Scalar: ScalarEnum, Members: members}
}

func (f Field) WithAliases(aliases ...string) Field {
	f.Aliases = append(slices.Clone(f.Aliases), aliases...)
	return f
}

// At marks the field positional with an explicit order.
func (f Field) At(order int) Field {
	f.Positional = true
	f.Order = order
	f.Ordered = true
	return f
}

// AsPositional marks the field positional without an explicit order. It is
// placed after every explicitly ordered field, in declaration order.
func (f Field) AsPositional() Field {
	f.Positional = true
	f.Order = 0
	f.Ordered = false
	return f
}

func (f Field) WithDescription(desc string) Field {
	f.Description = desc
	return f
}

func (f Field) WithDisplayName(name string) Field {
	f.DisplayName = name
	return f
}

func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// label is the name used in help placeholders.
func (f *Field) label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func (f Field) clone() Field {
	f.Members = slices.Clone(f.Members)
	f.Aliases = slices.Clone(f.Aliases)
	return f
}

// Schema is the set of fields a parse binds against.
type Schema struct {
	Description string
	Fields      []Field
}

// NewSchema returns a schema with the given description and fields.
func NewSchema(description string, fields ...Field) *Schema {
	return &Schema{Description: description, Fields: fields}
}

// Add appends fields and returns s for chaining.
func (s *Schema) Add(fields ...Field) *Schema {
	s.Fields = append(s.Fields, fields...)
	return s
}
