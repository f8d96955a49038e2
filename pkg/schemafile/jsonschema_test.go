// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"bytes"
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/invopop/jsonschema"
	"github.com/yeetrun/argbind/pkg/argbind"
)

func TestDocumentJSONSchema(t *testing.T) {
	s := DocumentJSONSchema()
	if s.Version != jsonschema.Version {
		t.Errorf("Version = %q, want %q", s.Version, jsonschema.Version)
	}
	if !slices.Contains(s.Required, "fields") {
		t.Errorf("Required = %v, want fields", s.Required)
	}
	fields, ok := s.Properties.Get("fields")
	if !ok || fields.Items == nil {
		t.Fatalf("fields property = %+v", fields)
	}
	item := fields.Items
	if diff := cmp.Diff([]string{"name", "kind"}, item.Required); diff != "" {
		t.Errorf("field Required mismatch (-want +got):\n%s", diff)
	}
	kind, ok := item.Properties.Get("kind")
	if !ok {
		t.Fatal("kind property missing")
	}
	for _, name := range []string{"bool", "string", "char", "uint64", "float32", "enum"} {
		if !slices.Contains(kind.Enum, any(name)) {
			t.Errorf("kind enum %v missing %q", kind.Enum, name)
		}
	}
	if order, ok := item.Properties.Get("order"); !ok || order.Type != "integer" {
		t.Errorf("order property = %+v, want an integer", order)
	}

	var buf bytes.Buffer
	if err := WriteJSONSchema(&buf, s); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if m["title"] != "argbind schema" || m["additionalProperties"] != false {
		t.Errorf("unexpected document schema: %s", buf.String())
	}
}

func TestValuesJSONSchema(t *testing.T) {
	r, err := argbind.Resolve(argbind.NewSchema("Copies files.",
		argbind.Bool("force"),
		argbind.Scalar("sep", argbind.ScalarChar).WithDefault(argbind.Char(',')),
		argbind.Scalar("depth", argbind.ScalarInt8),
		argbind.Scalar("size", argbind.ScalarUint16),
		argbind.Scalar("ratio", argbind.ScalarFloat64),
		argbind.Enum("mode", "Fast", "Safe").WithDescription("Copy mode"),
		argbind.Array("files", argbind.ScalarString).AsPositional(),
	))
	if err != nil {
		t.Fatal(err)
	}
	s := ValuesJSONSchema(r)

	if s.Description != "Copies files." {
		t.Errorf("Description = %q", s.Description)
	}
	want := []string{"force", "sep", "depth", "size", "ratio", "mode"}
	if diff := cmp.Diff(want, s.Required); diff != "" {
		t.Errorf("Required mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for el := s.Properties.Oldest(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	if diff := cmp.Diff(append(want, "files"), names); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name     string
		typ      string
		min, max string
	}{
		{name: "force", typ: "boolean"},
		{name: "sep", typ: "string"},
		{name: "depth", typ: "integer", min: "-128", max: "127"},
		{name: "size", typ: "integer", min: "0", max: "65535"},
		{name: "mode", typ: "string"},
	}
	for _, tt := range tests {
		p, ok := s.Properties.Get(tt.name)
		if !ok {
			t.Errorf("property %s missing", tt.name)
			continue
		}
		if p.Type != tt.typ {
			t.Errorf("%s type = %q, want %q", tt.name, p.Type, tt.typ)
		}
		if string(p.Minimum) != tt.min || string(p.Maximum) != tt.max {
			t.Errorf("%s range = [%s, %s], want [%s, %s]", tt.name, p.Minimum, p.Maximum, tt.min, tt.max)
		}
	}

	ratio, _ := s.Properties.Get("ratio")
	if len(ratio.AnyOf) != 2 || ratio.AnyOf[0].Type != "number" || len(ratio.AnyOf[1].Enum) != 3 {
		t.Errorf("ratio = %+v, want a number or a non-finite name", ratio)
	}

	sep, _ := s.Properties.Get("sep")
	if sep.Default != "," {
		t.Errorf("sep default = %#v, want \",\"", sep.Default)
	}
	mode, _ := s.Properties.Get("mode")
	if diff := cmp.Diff([]any{"Fast", "Safe"}, mode.Enum); diff != "" || mode.Description != "Copy mode" {
		t.Errorf("mode = %+v, enum diff:\n%s", mode, diff)
	}
	files, _ := s.Properties.Get("files")
	if len(files.AnyOf) != 2 || files.AnyOf[0].Type != "array" || files.AnyOf[1].Type != "null" {
		t.Errorf("files = %+v, want an array or null", files)
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		kind     argbind.ScalarKind
		min, max string
	}{
		{argbind.ScalarInt64, "-9223372036854775808", "9223372036854775807"},
		{argbind.ScalarInt32, "-2147483648", "2147483647"},
		{argbind.ScalarUint64, "0", "18446744073709551615"},
		{argbind.ScalarUint8, "0", "255"},
		{argbind.ScalarString, "", ""},
	}
	for _, tt := range tests {
		lo, hi := intRange(tt.kind)
		if string(lo) != tt.min || string(hi) != tt.max {
			t.Errorf("intRange(%v) = [%s, %s], want [%s, %s]", tt.kind, lo, hi, tt.min, tt.max)
		}
	}
}
