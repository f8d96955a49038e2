// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors matched by SchemaError and ParseError through errors.Is.
var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidField  = errors.New("invalid field")

	ErrUnknownOption        = errors.New("unknown option")
	ErrDuplicateOption      = errors.New("duplicate option")
	ErrMissingValue         = errors.New("missing value")
	ErrUnexpectedPositional = errors.New("unexpected positional argument")
	ErrUnsupportedType      = errors.New("unsupported type")
	ErrFormat               = errors.New("invalid format")
)

// SchemaErrorKind classifies a SchemaError.
type SchemaErrorKind int

const (
	// DuplicateName means two names resolve to the same lookup key.
	DuplicateName SchemaErrorKind = iota + 1
	// EmptyName means a field or alias has no name.
	EmptyName
	// InvalidField means a field's kind or members cannot be parsed, or
	// there is no schema at all.
	InvalidField
)

func (k SchemaErrorKind) sentinel() error {
	switch k {
	case DuplicateName:
		return ErrDuplicateName
	case EmptyName:
		return ErrEmptyName
	case InvalidField:
		return ErrInvalidField
	}
	return nil
}

// SchemaError is returned by Resolve when a schema cannot be bound. It is
// always detected before any token is looked at.
type SchemaError struct {
	Kind SchemaErrorKind
	// Name is the offending lookup name, as declared.
	Name string
	// Field is the field that was being registered.
	Field string
	// Other is the field that already owned Name, for DuplicateName.
	Other  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case DuplicateName:
		if e.Other == e.Field {
			return fmt.Sprintf("schema: name %q is declared twice on field %s", e.Name, e.Field)
		}
		return fmt.Sprintf("schema: name %q of field %s is already used by field %s", e.Name, e.Field, e.Other)
	case EmptyName:
		if e.Field == "" {
			return "schema: field has an empty name"
		}
		return fmt.Sprintf("schema: field %s has an empty alias", e.Field)
	case InvalidField:
		if e.Field == "" {
			return "schema: " + e.Reason
		}
		return fmt.Sprintf("schema: field %s: %s", e.Field, e.Reason)
	}
	return "schema: invalid"
}

func (e *SchemaError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// UnknownOption means a marker-prefixed token matched no registered name.
	UnknownOption ErrorKind = iota + 1
	// DuplicateOption means an already assigned option was matched again.
	DuplicateOption
	// MissingValue means an option reached the next option or the end of
	// input before receiving its value.
	MissingValue
	// UnexpectedPositional means a value token arrived with no positional
	// slot left to take it.
	UnexpectedPositional
	// UnsupportedType means the target kind has no parser.
	UnsupportedType
	// FormatError means a token does not parse as its target kind.
	FormatError
)

var errorKindNames = map[ErrorKind]string{
	UnknownOption:        "UnknownOption",
	DuplicateOption:      "DuplicateOption",
	MissingValue:         "MissingValue",
	UnexpectedPositional: "UnexpectedPositional",
	UnsupportedType:      "UnsupportedType",
	FormatError:          "FormatError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case UnknownOption:
		return ErrUnknownOption
	case DuplicateOption:
		return ErrDuplicateOption
	case MissingValue:
		return ErrMissingValue
	case UnexpectedPositional:
		return ErrUnexpectedPositional
	case UnsupportedType:
		return ErrUnsupportedType
	case FormatError:
		return ErrFormat
	}
	return nil
}

// ParseError is returned when the tokens cannot be bound to a schema. The
// message is meant for users; Err carries the underlying parser failure, if
// any, for callers that want the full chain.
type ParseError struct {
	Kind ErrorKind
	// Token is the token being processed, empty at end of input.
	Token string
	// Index is the position of Token in the input, or len(tokens) at end
	// of input. It is -1 when the error did not come from a token.
	Index int
	// Field is the name of the field involved, if one was resolved.
	Field string
	// Target is the kind the token was coerced to, for UnsupportedType and
	// FormatError.
	Target ScalarKind
	// Err is the parser failure for FormatError. For UnsupportedType it
	// names the rejected type when Target can't.
	Err error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnknownOption:
		return fmt.Sprintf("unknown option: %s", e.Token)
	case DuplicateOption:
		return fmt.Sprintf("option %s was already set (%s)", e.Token, e.Field)
	case MissingValue:
		if e.Token == "" {
			return fmt.Sprintf("option %s requires a value", e.Field)
		}
		return fmt.Sprintf("option %s requires a value, got option %s", e.Field, e.Token)
	case UnexpectedPositional:
		return fmt.Sprintf("unexpected argument: %s", e.Token)
	case UnsupportedType:
		what := e.Target.String()
		if e.Err != nil {
			what = e.Err.Error()
		}
		if e.Field != "" {
			return fmt.Sprintf("field %s has unsupported type %s", e.Field, what)
		}
		return "unsupported type " + what
	case FormatError:
		msg := fmt.Sprintf("invalid %s value %q", e.Target, e.Token)
		if e.Field != "" {
			msg += " for " + e.Field
		}
		if e.Err != nil {
			msg += ": " + reasonOf(e.Err)
		}
		return msg
	}
	return "invalid arguments"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// reasonOf strips strconv's function prefix so messages stay readable.
func reasonOf(err error) string {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err.Error()
	}
	return err.Error()
}
