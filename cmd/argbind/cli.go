// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/cli"
	"github.com/yeetrun/argbind/pkg/cmdutil"
	"github.com/yeetrun/argbind/pkg/fileutil"
	"github.com/yeetrun/argbind/pkg/schemafile"
	"github.com/yeetrun/argbind/pkg/tui"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	colors tui.Colorizer
}

func (a *app) buildGroupHandlers() map[string]yargs.Group {
	schema := cli.GroupInfos()["schema"]
	return map[string]yargs.Group{
		"schema": {
			Description: schema.Description,
			Commands: map[string]yargs.SubcommandHandler{
				"convert":    a.handleSchemaConvert,
				"jsonschema": a.handleSchemaJSONSchema,
			},
		},
	}
}

// schemaArg returns the schema path from the command's positional args.
func schemaArg(path []string, args []string) (string, error) {
	name := strings.Join(path, " ")
	if len(args) == 0 {
		if spec, ok := cli.CommandRegistry().CommandSpec(path); ok {
			if arg, ok := yargs.ArgSpecAt(spec.ArgsSchema, 0); ok && cli.IsSchemaArgSpec(arg) {
				return "", fmt.Errorf("'%s' requires a schema file: %s", name, arg.Description)
			}
		}
		return "", cli.RequireArgsAtLeast(name, args, 1)
	}
	return args[0], nil
}

// programName is the name shown in usage pages: the schema file name
// without its extension unless overridden.
func programName(schemaPath, override string) string {
	if override != "" {
		return override
	}
	base := filepath.Base(schemaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadResolved(path string) (*argbind.Resolved, error) {
	s, err := schemafile.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := argbind.Resolve(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("loaded %s: %d fields, %d positional", path, len(s.Fields), len(r.Positional()))
	return r, nil
}

func (a *app) handleParse(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "parse" {
		args = args[1:]
	}
	flags, args, err := cli.ParseParse(args)
	if err != nil {
		return err
	}
	path, err := schemaArg([]string{"parse"}, args)
	if err != nil {
		return err
	}
	tokens := args[1:]

	format, err := schemafile.ParseFormat(flags.Format)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	loc, err := argbind.ParseLocale(flags.Locale)
	if err != nil {
		return fmt.Errorf("invalid --locale: %w", err)
	}
	r, err := loadResolved(path)
	if err != nil {
		return err
	}

	log.Printf("parsing %d tokens with locale %s", len(tokens), loc)
	vals, err := r.Parse(tokens, argbind.ParseOptions{Locale: loc})
	if err != nil {
		var pe *argbind.ParseError
		if errors.As(err, &pe) {
			return &usageError{err: err, usage: r.Help(programName(path, flags.Program))}
		}
		return err
	}
	return schemafile.Encode(a.stdout, format, vals)
}

func (a *app) handleUsage(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "usage" {
		args = args[1:]
	}
	flags, args, err := cli.ParseUsage(args)
	if err != nil {
		return err
	}
	path, err := schemaArg([]string{"usage"}, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly("usage", args, 1); err != nil {
		return err
	}
	r, err := loadResolved(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.stdout, r.Help(programName(path, flags.Program)))
	return err
}

func (a *app) handleCheck(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "check" {
		args = args[1:]
	}
	args, err := cli.ParseCheck(args)
	if err != nil {
		return err
	}
	path, err := schemaArg([]string{"check"}, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly("check", args, 1); err != nil {
		return err
	}
	r, err := loadResolved(path)
	if err != nil {
		return err
	}

	positions := make(map[string]int)
	for i, f := range r.Positional() {
		positions[f.Name] = i + 1
	}

	s := r.Schema()
	w := tabwriter.NewWriter(a.stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tBINDING\tDEFAULT")
	var options int
	for _, f := range s.Fields {
		binding := fmt.Sprintf("position %d", positions[f.Name])
		if !f.Positional {
			options++
			names := append([]string{f.Name}, f.Aliases...)
			binding = "-" + strings.Join(names, ", -")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, typeName(f), binding, defaultText(f))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	summary := fmt.Sprintf("ok: %d fields, %d options, %d positional", len(s.Fields), options, len(positions))
	_, err = fmt.Fprintln(a.stdout, a.colors.OK(summary))
	return err
}

func typeName(f argbind.Field) string {
	if f.Kind == argbind.KindBool {
		return "bool"
	}
	name := f.Scalar.String()
	if f.Scalar == argbind.ScalarEnum {
		name += "(" + strings.Join(f.Members, "|") + ")"
	}
	if f.Kind == argbind.KindArray {
		name += "[]"
	}
	return name
}

func defaultText(f argbind.Field) string {
	switch v := f.Default.(type) {
	case nil:
		return "-"
	case argbind.Char:
		return string(rune(v))
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(f.Default)
}

func (a *app) handleSchemaConvert(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "convert" {
		args = args[1:]
	}
	flags, args, err := cli.ParseConvert(args)
	if err != nil {
		return err
	}
	path, err := schemaArg([]string{"schema", "convert"}, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly("schema convert", args, 1); err != nil {
		return err
	}
	var format schemafile.Format
	switch {
	case flags.To != "":
		format, err = schemafile.ParseFormat(flags.To)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	case flags.Out != "":
		format, err = schemafile.FormatFor(flags.Out)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("'schema convert' requires --to or --out")
	}

	doc, err := schemafile.LoadDocument(path)
	if err != nil {
		return err
	}
	s, err := doc.Schema()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := argbind.Resolve(s); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("converting %s to %s", path, format)
	if flags.Out == "" {
		return doc.Encode(a.stdout, format)
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf, format); err != nil {
		return err
	}
	return a.writeOutput(flags.Out, buf.Bytes(), flags.Yes)
}

func (a *app) handleSchemaJSONSchema(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "jsonschema" {
		args = args[1:]
	}
	flags, args, err := cli.ParseJSONSchema(args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return cli.RequireArgsExactly("schema jsonschema", args, 1)
	}

	s := schemafile.DocumentJSONSchema()
	if len(args) == 1 {
		r, err := loadResolved(args[0])
		if err != nil {
			return err
		}
		s = schemafile.ValuesJSONSchema(r)
		s.Title = programName(args[0], "")
	}
	if flags.Out == "" {
		return schemafile.WriteJSONSchema(a.stdout, s)
	}

	var buf bytes.Buffer
	if err := schemafile.WriteJSONSchema(&buf, s); err != nil {
		return err
	}
	return a.writeOutput(flags.Out, buf.Bytes(), flags.Yes)
}

// writeOutput writes data to path, asking before replacing a file with
// different content unless overwrite is set.
func (a *app) writeOutput(path string, data []byte, overwrite bool) error {
	same, err := fileutil.Identical(path, data)
	if err != nil {
		return err
	}
	if same {
		log.Printf("%s is up to date", path)
		return nil
	}
	if _, err := os.Stat(path); err == nil && !overwrite {
		ok, err := cmdutil.Confirm(a.stdin, a.stderr, fmt.Sprintf("Overwrite %s?", path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not overwriting %s", path)
		}
	}
	if err := fileutil.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintln(a.stderr, a.colors.OK("wrote "+path))
	return nil
}
