// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Resolved is a schema prepared for parsing: its alias table and its
// positional order. It is read-only after Resolve returns and may be shared
// by concurrent Parse calls.
type Resolved struct {
	schema Schema
	// aliases maps upper-cased option names to fields. Positional fields
	// are never present.
	aliases    map[string]*Field
	positional []*Field
}

// Resolve builds the alias table and the positional list for s.
//
// Every field registers its own name; non-positional fields also register
// their aliases. Names are compared case-insensitively and must be unique
// across the whole schema. Positional fields' names are reserved but can't
// be used as options, and their aliases are ignored.
func Resolve(s *Schema) (*Resolved, error) {
	if s == nil {
		return nil, &SchemaError{Kind: InvalidField, Reason: "nil schema"}
	}
	r := &Resolved{
		schema:  Schema{Description: s.Description, Fields: make([]Field, len(s.Fields))},
		aliases: make(map[string]*Field, len(s.Fields)),
	}
	// owners tracks every reserved key, positional names included.
	owners := make(map[string]string, len(s.Fields))
	register := func(name string, f *Field) error {
		if name == "" {
			return &SchemaError{Kind: EmptyName, Field: f.Name}
		}
		key := strings.ToUpper(name)
		if other, ok := owners[key]; ok {
			return &SchemaError{Kind: DuplicateName, Name: name, Field: f.Name, Other: other}
		}
		owners[key] = f.Name
		if !f.Positional {
			r.aliases[key] = f
		}
		return nil
	}

	type pending struct {
		field *Field
		seq   int
	}
	var ordered, unordered []pending

	for i := range s.Fields {
		r.schema.Fields[i] = s.Fields[i].clone()
		f := &r.schema.Fields[i]
		if err := validateField(f); err != nil {
			return nil, err
		}
		if err := register(f.Name, f); err != nil {
			return nil, err
		}
		if f.Positional {
			if f.Ordered {
				ordered = append(ordered, pending{f, i})
			} else {
				unordered = append(unordered, pending{f, i})
			}
			continue
		}
		for _, alias := range f.Aliases {
			if err := register(alias, f); err != nil {
				return nil, err
			}
		}
	}

	slices.SortStableFunc(ordered, func(a, b pending) int {
		if c := cmp.Compare(a.field.Order, b.field.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	r.positional = make([]*Field, 0, len(ordered)+len(unordered))
	for _, p := range ordered {
		r.positional = append(r.positional, p.field)
	}
	for _, p := range unordered {
		r.positional = append(r.positional, p.field)
	}
	return r, nil
}

// MustResolve is like Resolve but panics if the schema is invalid. It is
// meant for package-level schemas declared in code.
func MustResolve(s *Schema) *Resolved {
	r, err := Resolve(s)
	if err != nil {
		panic(err)
	}
	return r
}

func validateField(f *Field) error {
	if f.Name == "" {
		return &SchemaError{Kind: EmptyName}
	}
	invalid := func(format string, args ...any) error {
		return &SchemaError{Kind: InvalidField, Field: f.Name, Reason: fmt.Sprintf(format, args...)}
	}
	switch f.Kind {
	case KindBool:
		if f.Positional {
			return invalid("boolean fields cannot be positional")
		}
		return nil
	case KindScalar, KindArray:
	default:
		return invalid("unknown value kind %s", f.Kind)
	}
	if !f.Scalar.Valid() {
		return invalid("unsupported type %s", f.Scalar)
	}
	if f.Scalar == ScalarEnum && len(f.Members) == 0 {
		return invalid("enum has no members")
	}
	if f.Scalar == ScalarEnum {
		seen := make(map[string]string, len(f.Members))
		for _, m := range f.Members {
			key := strings.ToUpper(m)
			if other, ok := seen[key]; ok {
				return invalid("enum member %q duplicates %q", m, other)
			}
			seen[key] = m
		}
	}
	return nil
}

// Schema returns a copy of the resolved schema.
func (r *Resolved) Schema() *Schema {
	s := &Schema{Description: r.schema.Description, Fields: make([]Field, len(r.schema.Fields))}
	for i := range r.schema.Fields {
		s.Fields[i] = r.schema.Fields[i].clone()
	}
	return s
}

// Lookup returns the option registered under name, compared
// case-insensitively and without the option marker.
func (r *Resolved) Lookup(name string) (Field, bool) {
	f, ok := r.aliases[strings.ToUpper(name)]
	if !ok {
		return Field{}, false
	}
	return f.clone(), true
}

// Positional returns the positional fields in the order they consume tokens.
func (r *Resolved) Positional() []Field {
	out := make([]Field, len(r.positional))
	for i, f := range r.positional {
		out[i] = f.clone()
	}
	return out
}

// Names returns every registered option key (upper-cased), sorted.
func (r *Resolved) Names() []string {
	names := make([]string, 0, len(r.aliases))
	for k := range r.aliases {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// field returns the field named name, or nil.
func (r *Resolved) field(name string) *Field {
	for i := range r.schema.Fields {
		if r.schema.Fields[i].Name == name {
			return &r.schema.Fields[i]
		}
	}
	return nil
}
