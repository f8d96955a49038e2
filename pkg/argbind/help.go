// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// helpGap is the minimum number of spaces between help columns.
const helpGap = 2

// RenderHelp resolves s and renders its help page. See (*Resolved).Help.
func RenderHelp(s *Schema, program string) (string, error) {
	r, err := Resolve(s)
	if err != nil {
		return "", err
	}
	return r.Help(program), nil
}

// Help renders the usage page:
//
//	<description>
//
//	Usage: <program> [options] [<positional>]...
//
//	Options:
//	  -name, -alias  <placeholder>  description
//
// Positionals appear in the order they consume tokens. Options appear in
// declaration order, with columns padded to the widest entry.
func (r *Resolved) Help(program string) string {
	var b strings.Builder

	if r.schema.Description != "" {
		b.WriteString(r.schema.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("Usage: ")
	b.WriteString(program)
	b.WriteString(" [options]")
	for _, f := range r.positional {
		b.WriteString(" [")
		b.WriteString(placeholder(f, true))
		b.WriteString("]")
	}
	b.WriteString("\n")

	type row struct {
		names, arg, desc string
	}
	var rows []row
	var namesWidth, argWidth int
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		if f.Positional {
			continue
		}
		names := string(OptionMarker) + f.Name
		for _, alias := range f.Aliases {
			names += ", " + string(OptionMarker) + alias
		}
		rw := row{names: names, arg: placeholder(f, false), desc: f.Description}
		namesWidth = max(namesWidth, utf8.RuneCountInString(rw.names))
		argWidth = max(argWidth, utf8.RuneCountInString(rw.arg))
		rows = append(rows, rw)
	}
	if len(rows) == 0 {
		return b.String()
	}

	b.WriteString("\nOptions:\n")
	for _, rw := range rows {
		line := fmt.Sprintf("  %-*s", namesWidth+helpGap, rw.names)
		if argWidth > 0 {
			line += fmt.Sprintf("%-*s", argWidth+helpGap, rw.arg)
		}
		line += rw.desc
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// placeholder describes the value tokens a field takes. Positional scalars
// are shown bare since the brackets already mark them.
func placeholder(f *Field, positional bool) string {
	if f.Kind == KindBool {
		return ""
	}
	if f.Scalar == ScalarEnum {
		return strings.Join(f.Members, "|")
	}
	name := f.label()
	if f.Kind == KindArray {
		return name + "1 " + name + "2 ..."
	}
	if positional {
		return name
	}
	return "<" + name + ">"
}
