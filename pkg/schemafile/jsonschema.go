// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// DocumentJSONSchema returns a JSON Schema describing schema documents, for
// editors that validate YAML and JSON files against one.
func DocumentJSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(new(Document))
	s.Title = "argbind schema"

	if v, ok := s.Properties.Get("version"); ok {
		v.Description = "Document version, a semver in the " + SupportedVersions + " range"
	}
	fields, ok := s.Properties.Get("fields")
	if !ok || fields.Items == nil {
		return s
	}
	if kind, ok := fields.Items.Properties.Get("kind"); ok {
		kind.Enum = append(kind.Enum, "bool")
		for _, name := range kindNames() {
			kind.Enum = append(kind.Enum, name)
		}
	}
	return s
}

func kindNames() []string {
	var names []string
	for k := argbind.ScalarString; k.Valid(); k++ {
		names = append(names, k.String())
	}
	return names
}

// ValuesJSONSchema returns a JSON Schema describing the documents Encode
// writes for r. Unset fields hold their default or zero value, except
// arrays without a default, which are null.
func ValuesJSONSchema(r *argbind.Resolved) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Type:                 "object",
		Description:          r.Schema().Description,
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, f := range r.Schema().Fields {
		s.Properties.Set(f.Name, fieldJSONSchema(f))
		if !nullable(f) {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func fieldJSONSchema(f argbind.Field) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch f.Kind {
	case argbind.KindBool:
		return &jsonschema.Schema{Type: "boolean", Description: f.Description}
	case argbind.KindArray:
		s = &jsonschema.Schema{Type: "array", Items: scalarJSONSchema(f)}
	default:
		s = scalarJSONSchema(f)
	}
	s.Description = f.Description
	if f.Default != nil {
		s.Default = plain(f.Default)
	}
	if !nullable(f) {
		return s
	}
	return &jsonschema.Schema{
		Description: s.Description,
		AnyOf:       []*jsonschema.Schema{s, {Type: "null"}},
	}
}

func nullable(f argbind.Field) bool {
	return f.Kind == argbind.KindArray && f.Default == nil
}

func scalarJSONSchema(f argbind.Field) *jsonschema.Schema {
	switch f.Scalar {
	case argbind.ScalarString:
		return &jsonschema.Schema{Type: "string"}
	case argbind.ScalarChar:
		one := uint64(1)
		return &jsonschema.Schema{Type: "string", MinLength: &one, MaxLength: &one}
	case argbind.ScalarEnum:
		s := &jsonschema.Schema{Type: "string"}
		for _, m := range f.Members {
			s.Enum = append(s.Enum, m)
		}
		return s
	case argbind.ScalarFloat32, argbind.ScalarFloat64:
		// Encode writes non-finite floats as text.
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Enum: []any{"NaN", "+Inf", "-Inf"}},
		}}
	}
	lo, hi := intRange(f.Scalar)
	return &jsonschema.Schema{Type: "integer", Minimum: lo, Maximum: hi}
}

func intRange(k argbind.ScalarKind) (lo, hi json.Number) {
	signed := func(bits int) (json.Number, json.Number) {
		return json.Number(strconv.FormatInt(-1<<(bits-1), 10)), json.Number(strconv.FormatInt(1<<(bits-1)-1, 10))
	}
	unsigned := func(top uint64) (json.Number, json.Number) {
		return "0", json.Number(strconv.FormatUint(top, 10))
	}
	switch k {
	case argbind.ScalarInt8:
		return signed(8)
	case argbind.ScalarInt16:
		return signed(16)
	case argbind.ScalarInt32:
		return signed(32)
	case argbind.ScalarInt, argbind.ScalarInt64:
		return signed(64)
	case argbind.ScalarUint8:
		return unsigned(math.MaxUint8)
	case argbind.ScalarUint16:
		return unsigned(math.MaxUint16)
	case argbind.ScalarUint32:
		return unsigned(math.MaxUint32)
	case argbind.ScalarUint, argbind.ScalarUint64:
		return unsigned(math.MaxUint64)
	}
	return "", ""
}

// WriteJSONSchema writes s as indented JSON.
func WriteJSONSchema(w io.Writer, s *jsonschema.Schema) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
