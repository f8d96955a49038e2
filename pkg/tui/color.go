// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Colorizer paints diagnostic text. The zero value prints plain text.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer for f. Color is used only when enabled
// is set, NO_COLOR is unset, TERM is not dumb and f is a terminal.
func NewColorizer(enabled bool, f *os.File) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Error(text string) string {
	return c.paint(text, color.FgRed, color.Bold)
}

func (c Colorizer) Warn(text string) string {
	return c.paint(text, color.FgYellow)
}

func (c Colorizer) OK(text string) string {
	return c.paint(text, color.FgGreen)
}

func (c Colorizer) Dim(text string) string {
	return c.paint(text, color.FgHiBlack)
}

func (c Colorizer) paint(text string, attrs ...color.Attribute) string {
	if !c.Enabled || text == "" {
		return text
	}
	p := color.New(attrs...)
	// The package-level switch follows os.Stdout; stderr decides for itself.
	p.EnableColor()
	return p.Sprint(text)
}
