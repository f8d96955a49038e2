// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/schemafile"
)

const fileOpTOML = `
version = "1.0.0"
description = "Performs an operation on a set of files."

[[fields]]
name = "operation"
kind = "enum"
aliases = ["o"]
members = ["Create", "Delete", "Update"]
description = "The operation to perform"

[[fields]]
name = "verbose"
kind = "bool"
description = "Print details"

[[fields]]
name = "files"
kind = "string"
array = true
positional = true
display = "file"
`

const fileOpUsage = `Performs an operation on a set of files.

Usage: fileop [options] [file1 file2 ...]

Options:
  -operation, -o  Create|Delete|Update  The operation to perform
  -verbose                              Print details
`

func writeSchema(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	return runCLIInput(t, "", args...)
}

func runCLIInput(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestParseCommand(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "json",
			args: []string{"parse", schema, "-o", "delete", "a.txt", "b.txt"},
			want: `{
  "files": [
    "a.txt",
    "b.txt"
  ],
  "operation": "Delete",
  "verbose": false
}
`,
		},
		{
			name: "yaml after double dash",
			args: []string{"parse", "--format", "yaml", schema, "--", "-verbose", "-operation", "Update"},
			want: `files: null
operation: Update
verbose: true
`,
		},
		{
			name: "toml",
			args: []string{"parse", schema, "--format=toml", "notes.txt", "-o", "create"},
			want: `files = ["notes.txt"]
operation = "Create"
verbose = false
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			if diff := cmp.Diff(tt.want, stdout); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCommandLocale(t *testing.T) {
	schema := writeSchema(t, "stats.yaml", `
fields:
  - name: ratio
    kind: float64
  - name: count
    kind: int
`)
	code, stdout, stderr := runCLI(t, "parse", "--locale", "de-DE", schema, "-ratio", "1.234,5", "-count", "12")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	want := "{\n  \"count\": 12,\n  \"ratio\": 1234.5\n}\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommandErrors(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)

	code, stdout, stderr := runCLI(t, "parse", schema, "-x")
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	want := "error: unknown option: -x\n\n" + fileOpUsage
	if diff := cmp.Diff(want, stderr); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}

	code, _, stderr = runCLI(t, "parse", "--program", "fop", schema, "-o", "move")
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.HasPrefix(stderr, `error: invalid enum value "move" for operation: must be one of Create|Delete|Update`) {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "Usage: fop [options]") {
		t.Errorf("stderr does not carry the usage page:\n%s", stderr)
	}

	for _, tt := range []struct {
		name string
		args []string
		code int
		want string
	}{
		{"bad format", []string{"parse", "--format", "xml", schema}, exitError, "invalid --format"},
		{"bad locale", []string{"parse", "--locale", "!!", schema}, exitError, "invalid --locale"},
		{"missing schema", []string{"parse"}, exitError, "'parse' requires a schema file"},
		{"missing file", []string{"parse", filepath.Join(t.TempDir(), "nope.toml")}, exitError, "nope.toml"},
		{"unknown global flag", []string{"--host", "x", "parse", schema}, exitUsage, "unknown flag: --host"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestUsageCommand(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)
	code, stdout, stderr := runCLI(t, "usage", schema)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if diff := cmp.Diff(fileOpUsage, stdout); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}

	_, stdout, _ = runCLI(t, "usage", "--program", "fo", schema)
	if !strings.Contains(stdout, "Usage: fo [options] [file1 file2 ...]\n") {
		t.Errorf("usage ignored --program:\n%s", stdout)
	}
}

func TestCheckCommand(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML+`
[[fields]]
name = "sep"
kind = "char"
default = ","
`)
	for _, cmd := range []string{"check", "validate"} {
		t.Run(cmd, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, cmd, schema)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			var got [][]string
			for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
				got = append(got, strings.Fields(line))
			}
			want := [][]string{
				{"FIELD", "TYPE", "BINDING", "DEFAULT"},
				{"operation", "enum(Create|Delete|Update)", "-operation,", "-o", "-"},
				{"verbose", "bool", "-verbose", "-"},
				{"files", "string[]", "position", "1", "-"},
				{"sep", "char", "-sep", ","},
				{"ok:", "4", "fields,", "3", "options,", "1", "positional"},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("check output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckCommandRejectsCollisions(t *testing.T) {
	schema := writeSchema(t, "dup.yaml", `
fields:
  - name: value
    kind: int
    aliases: [v]
  - name: verbose
    kind: bool
    aliases: [V]
`)
	code, _, stderr := runCLI(t, "check", schema)
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if !strings.Contains(stderr, "already used") {
		t.Errorf("stderr = %q, want a name collision", stderr)
	}
}

func TestSchemaConvertCommand(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)
	code, stdout, stderr := runCLI(t, "schema", "convert", schema, "--to", "yaml")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	doc, err := schemafile.Decode(strings.NewReader(stdout), schemafile.YAML)
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, stdout)
	}
	got, err := doc.Schema()
	if err != nil {
		t.Fatal(err)
	}
	want, err := schemafile.Load(schema)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("converted schema mismatch (-want +got):\n%s", diff)
	}
	if help, _ := argbind.RenderHelp(got, "fileop"); help != fileOpUsage {
		t.Errorf("converted schema help:\n%s", help)
	}

	code, _, stderr = runCLI(t, "schema", "convert", schema)
	if code != exitError || !strings.Contains(stderr, "requires --to or --out") {
		t.Errorf("convert without --to: code %d, stderr %q", code, stderr)
	}
}

func TestSchemaConvertToFile(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)
	out := filepath.Join(filepath.Dir(schema), "fileop.json")

	code, stdout, stderr := runCLI(t, "schema", "convert", schema, "--out", out)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if stderr != "wrote "+out+"\n" {
		t.Errorf("stderr = %q", stderr)
	}
	s, err := schemafile.Load(out)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", out, err)
	}
	if help, _ := argbind.RenderHelp(s, "fileop"); help != fileOpUsage {
		t.Errorf("converted schema help:\n%s", help)
	}

	// Same content: nothing to ask, nothing to write.
	code, _, stderr = runCLI(t, "schema", "convert", schema, "--out", out)
	if code != 0 || stderr != "" {
		t.Errorf("rewrite identical: code %d, stderr %q", code, stderr)
	}

	if err := os.WriteFile(out, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr = runCLIInput(t, "n\n", "schema", "convert", schema, "--out", out)
	if code != exitError || !strings.Contains(stderr, "Overwrite "+out+"? [y/N]: ") || !strings.Contains(stderr, "not overwriting") {
		t.Errorf("declined overwrite: code %d, stderr %q", code, stderr)
	}
	if b, _ := os.ReadFile(out); string(b) != "{}\n" {
		t.Errorf("declined overwrite changed the file: %q", b)
	}

	code, _, stderr = runCLIInput(t, "y\n", "schema", "convert", schema, "--out", out)
	if code != 0 {
		t.Fatalf("confirmed overwrite: code %d, stderr %q", code, stderr)
	}
	if _, err := schemafile.Load(out); err != nil {
		t.Errorf("Load after overwrite: %v", err)
	}

	if err := os.WriteFile(out, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _, stderr := runCLI(t, "schema", "convert", schema, "--out", out, "--yes"); code != 0 {
		t.Errorf("--yes overwrite: code %d, stderr %q", code, stderr)
	}
}

func TestSchemaJSONSchemaCommand(t *testing.T) {
	code, stdout, stderr := runCLI(t, "schema", "jsonschema")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if doc["title"] != "argbind schema" {
		t.Errorf("title = %v", doc["title"])
	}

	schema := writeSchema(t, "fileop.toml", fileOpTOML)
	out := filepath.Join(filepath.Dir(schema), "fileop.values.json")
	code, stdout, stderr = runCLI(t, "schema", "jsonschema", schema, "--out", out)
	if code != 0 || stdout != "" {
		t.Fatalf("exit code = %d, stdout %q, stderr:\n%s", code, stdout, stderr)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var values struct {
		Title      string
		Required   []string
		Properties map[string]struct {
			Type string
			Enum []string
		}
	}
	if err := json.Unmarshal(b, &values); err != nil {
		t.Fatalf("%s is not JSON: %v", out, err)
	}
	if values.Title != "fileop" {
		t.Errorf("title = %q, want fileop", values.Title)
	}
	if diff := cmp.Diff([]string{"operation", "verbose"}, values.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	op := values.Properties["operation"]
	if diff := cmp.Diff([]string{"Create", "Delete", "Update"}, op.Enum); diff != "" || op.Type != "string" {
		t.Errorf("operation = %+v, enum diff:\n%s", op, diff)
	}

	code, _, stderr = runCLI(t, "schema", "jsonschema", schema, schema)
	if code != exitError || !strings.Contains(stderr, "takes exactly 1 argument(s), got 2") {
		t.Errorf("two schemas: code %d, stderr %q", code, stderr)
	}
}

func TestVerboseLogging(t *testing.T) {
	schema := writeSchema(t, "fileop.toml", fileOpTOML)
	_, _, stderr := runCLI(t, "--verbose", "parse", schema, "a")
	if !strings.Contains(stderr, "argbind: loaded "+schema) {
		t.Errorf("stderr = %q, want a load log line", stderr)
	}
	_, _, stderr = runCLI(t, "parse", schema, "a")
	if stderr != "" {
		t.Errorf("stderr = %q, want nothing without --verbose", stderr)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	flags, rest, err := parseGlobalFlags([]string{"-v", "--no-color", "parse", "s.toml", "-verbose", "--no-color"})
	if err != nil {
		t.Fatalf("parseGlobalFlags failed: %v", err)
	}
	if !flags.Verbose || !flags.NoColor {
		t.Errorf("flags = %+v, want both set", flags)
	}
	if want := []string{"parse", "s.toml", "-verbose", "--no-color"}; !reflect.DeepEqual(rest, want) {
		t.Errorf("rest = %q, want %q", rest, want)
	}

	_, rest, err = parseGlobalFlags([]string{"--help"})
	if err != nil || !reflect.DeepEqual(rest, []string{"--help"}) {
		t.Errorf("parseGlobalFlags(--help) = %q, %v", rest, err)
	}
}

func TestProgramName(t *testing.T) {
	for _, tt := range []struct{ path, override, want string }{
		{"/tmp/fileop.toml", "", "fileop"},
		{"schemas/copy.schema.yaml", "", "copy.schema"},
		{"fileop.toml", "fo", "fo"},
	} {
		if got := programName(tt.path, tt.override); got != tt.want {
			t.Errorf("programName(%q, %q) = %q, want %q", tt.path, tt.override, got, tt.want)
		}
	}
}
