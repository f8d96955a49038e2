// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemafile reads argbind schemas from TOML, YAML or JSON
// documents and writes parse results back out in those formats.
//
// A TOML schema looks like:
//
//	version = "1.0.0"
//	description = "Performs an operation on a set of files."
//
//	[[fields]]
//	name = "operation"
//	kind = "enum"
//	aliases = ["o"]
//	members = ["Create", "Delete", "Update"]
//	description = "The operation to perform"
//
//	[[fields]]
//	name = "files"
//	kind = "string"
//	array = true
//	positional = true
//	display = "file"
package schemafile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// SupportedVersions is the range of document versions this package reads.
const SupportedVersions = "^1"

var supported = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// Document is the on-disk form of a schema.
type Document struct {
	Version     string      `toml:"version,omitempty" yaml:"version,omitempty" json:"version,omitempty"`
	Description string      `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []FieldSpec `toml:"fields" yaml:"fields" json:"fields"`
}

// FieldSpec is the on-disk form of an argbind.Field.
type FieldSpec struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	// Kind is "bool" or a scalar kind name such as "int32" or "enum".
	Kind  string `toml:"kind" yaml:"kind" json:"kind" jsonschema_description:"bool or a scalar kind; array makes it a list"`
	Array bool   `toml:"array,omitempty" yaml:"array,omitempty" json:"array,omitempty"`

	Aliases []string `toml:"aliases,omitempty" yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Members []string `toml:"members,omitempty" yaml:"members,omitempty" json:"members,omitempty"`

	// Positional without Order places the field after the ordered ones.
	// Order implies Positional.
	Positional bool `toml:"positional,omitempty" yaml:"positional,omitempty" json:"positional,omitempty"`
	Order      *int `toml:"order,omitempty" yaml:"order,omitempty" json:"order,omitempty" jsonschema_description:"Explicit position, implies positional"`

	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Display     string `toml:"display,omitempty" yaml:"display,omitempty" json:"display,omitempty"`
	// Default is read with the invariant locale. Array defaults are lists.
	Default any `toml:"default,omitempty" yaml:"default,omitempty" json:"default,omitempty" jsonschema_description:"Default value, written with the invariant locale"`
}

// Load reads the schema at path. The format is picked from the extension.
func Load(path string) (*argbind.Schema, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	s, err := doc.Schema()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDocument reads the document at path without converting it.
func LoadDocument(path string) (*Document, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads a document and checks its version.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	if err := decode(r, f, &doc); err != nil {
		return nil, err
	}
	if f == JSON {
		for i := range doc.Fields {
			doc.Fields[i].Default = jsonNumbers(doc.Fields[i].Default)
		}
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	if !supported.Check(ver) {
		return fmt.Errorf("unsupported version %s (want %s)", ver, SupportedVersions)
	}
	return nil
}

// Schema converts the document into an argbind schema. It does not resolve
// it, so name collisions are reported later by argbind.Resolve.
func (d *Document) Schema() (*argbind.Schema, error) {
	s := argbind.NewSchema(d.Description)
	for i, spec := range d.Fields {
		f, err := spec.field()
		if err != nil {
			if spec.Name == "" {
				return nil, fmt.Errorf("fields[%d]: %w", i, err)
			}
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		s.Add(f)
	}
	return s, nil
}

func (spec FieldSpec) field() (argbind.Field, error) {
	var f argbind.Field
	if spec.Kind == "bool" {
		if spec.Array {
			return f, fmt.Errorf("bool fields cannot be arrays")
		}
		f = argbind.Bool(spec.Name)
	} else {
		kind, ok := argbind.ParseScalarKind(spec.Kind)
		if !ok {
			return f, fmt.Errorf("unknown kind %q", spec.Kind)
		}
		if spec.Array {
			f = argbind.Array(spec.Name, kind)
		} else {
			f = argbind.Scalar(spec.Name, kind)
		}
		f.Members = spec.Members
	}

	f = f.WithAliases(spec.Aliases...).
		WithDescription(spec.Description).
		WithDisplayName(spec.Display)
	switch {
	case spec.Order != nil:
		f = f.At(*spec.Order)
	case spec.Positional:
		f = f.AsPositional()
	}

	def, err := defaultFor(f, spec.Default)
	if err != nil {
		return f, fmt.Errorf("default: %w", err)
	}
	return f.WithDefault(def), nil
}

func defaultFor(f argbind.Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case argbind.KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(v)
		}
		return nil, fmt.Errorf("%v is not a boolean", raw)
	case argbind.KindArray:
		items, ok := raw.([]any)
		if !ok {
			items = []any{raw}
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := argbind.Coerce(f.Scalar, f.Members, scalarText(item), argbind.Invariant)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return argbind.Coerce(f.Scalar, f.Members, scalarText(raw), argbind.Invariant)
}

// scalarText formats a decoded scalar the way a user would type it.
func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// DocumentOf converts s into its on-disk form.
func DocumentOf(s *argbind.Schema) *Document {
	doc := &Document{Description: s.Description}
	for _, f := range s.Fields {
		spec := FieldSpec{
			Name:        f.Name,
			Kind:        f.Scalar.String(),
			Array:       f.Kind == argbind.KindArray,
			Aliases:     f.Aliases,
			Members:     f.Members,
			Description: f.Description,
			Display:     f.DisplayName,
			Default:     plain(f.Default),
		}
		if f.Kind == argbind.KindBool {
			spec.Kind = "bool"
		}
		if f.Positional {
			if f.Ordered {
				order := f.Order
				spec.Order = &order
			} else {
				spec.Positional = true
			}
		}
		doc.Fields = append(doc.Fields, spec)
	}
	return doc
}

// Encode writes the document in format f.
func (d *Document) Encode(w io.Writer, f Format) error {
	return encode(w, f, d)
}
