// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.input), &out, "Overwrite out.yaml?")
		if err != nil {
			t.Fatalf("Confirm(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Overwrite out.yaml? [y/N]: " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}
