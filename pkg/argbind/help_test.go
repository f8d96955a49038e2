// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const fileOpHelp = `Performs an operation on a set of files.

Usage: fileop [options] [file1 file2 ...]

Options:
  -operation, -o  Create|Delete|Update  The operation to perform
  -verbose                              Print details
`

func TestHelp(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		program string
		want    string
	}{
		{
			name:    "file operation",
			schema:  fileOpSchema(),
			program: "fileop",
			want:    fileOpHelp,
		},
		{
			name: "placeholders",
			schema: NewSchema("",
				Scalar("count", ScalarInt).WithAliases("n").WithDescription("How many"),
				Bool("quiet"),
				Array("tags", ScalarString).WithDisplayName("tag"),
			),
			program: "tool",
			want: "Usage: tool [options]\n" +
				"\n" +
				"Options:\n" +
				"  -count, -n  <count>        How many\n" +
				"  -quiet\n" +
				"  -tags       tag1 tag2 ...\n",
		},
		{
			name: "non-ascii names",
			schema: NewSchema("",
				Scalar("über", ScalarInt).WithDescription("Over"),
				Bool("x").WithDescription("Flag"),
			),
			program: "tool",
			want: "Usage: tool [options]\n" +
				"\n" +
				"Options:\n" +
				"  -über  <über>  Over\n" +
				"  -x" + strings.Repeat(" ", 13) + "Flag\n",
		},
		{
			name: "only booleans",
			schema: NewSchema("",
				Bool("force").WithAliases("f").WithDescription("Overwrite"),
				Bool("dry"),
			),
			program: "tool",
			want: "Usage: tool [options]\n" +
				"\n" +
				"Options:\n" +
				"  -force, -f  Overwrite\n" +
				"  -dry\n",
		},
		{
			name: "only positionals",
			schema: NewSchema("Copies a file.",
				Scalar("dst", ScalarString).At(2),
				Scalar("src", ScalarString).At(1).WithDisplayName("source"),
				Enum("mode", "Fast", "Safe").AsPositional(),
			),
			program: "cp",
			want: "Copies a file.\n" +
				"\n" +
				"Usage: cp [options] [source] [dst] [Fast|Safe]\n",
		},
		{
			name:    "empty",
			schema:  NewSchema(""),
			program: "noop",
			want:    "Usage: noop [options]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderHelp(tt.schema, tt.program)
			if err != nil {
				t.Fatalf("RenderHelp() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RenderHelp() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHelp_InvalidSchema(t *testing.T) {
	_, err := RenderHelp(NewSchema("", Bool("a"), Bool("a")), "x")
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("RenderHelp() error = %v, want ErrDuplicateName", err)
	}
}

func TestHelp_Stable(t *testing.T) {
	r := MustResolve(fileOpSchema())
	first := r.Help("fileop")
	for range 5 {
		if got := r.Help("fileop"); got != first {
			t.Fatalf("Help() changed between calls:\n%s\nvs\n%s", first, got)
		}
	}
}
