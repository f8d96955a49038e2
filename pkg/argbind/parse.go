// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"strings"
)

// OptionMarker is the leading character of a named option token.
const OptionMarker = '-'

// ParseOptions controls a parse call. The zero value parses numbers with
// the invariant locale.
type ParseOptions struct {
	Locale Locale
}

// Parse resolves s and parses tokens against it. Callers parsing many times
// against one schema should Resolve once and call (*Resolved).Parse.
func Parse(s *Schema, tokens []string, opts ParseOptions) (*Values, error) {
	r, err := Resolve(s)
	if err != nil {
		return nil, err
	}
	return r.Parse(tokens, opts)
}

// ParseString splits line on whitespace and parses the tokens.
func (r *Resolved) ParseString(line string, opts ParseOptions) (*Values, error) {
	return r.Parse(SplitArgs(line), opts)
}

// Parse binds tokens to the resolved schema.
//
// Tokens starting with OptionMarker name an option; the marker is stripped
// and the rest is looked up case-insensitively. Booleans are set by their
// presence, scalar options take exactly the next token, array options take
// every following token up to the next option or the end of input. Any
// other token fills the next positional field.
//
// Parsing stops at the first error; no Values are returned in that case.
func (r *Resolved) Parse(tokens []string, opts ParseOptions) (*Values, error) {
	c := &cursor{
		r:        r,
		loc:      opts.Locale.orInvariant(),
		assigned: make(map[string]bool),
		values:   make(map[string]any),
	}
	for i := 0; i < len(tokens); {
		consumed, err := c.step(i, tokens[i])
		if err != nil {
			return nil, err
		}
		if consumed {
			i++
		}
	}
	if err := c.finish(len(tokens)); err != nil {
		return nil, err
	}
	return &Values{r: r, values: c.values}, nil
}

type parseState int

const (
	stateIdle parseState = iota
	stateAwaitingScalar
	stateAwaitingArray
)

// cursor is the state of one Parse call.
type cursor struct {
	r   *Resolved
	loc Locale

	state   parseState
	pending *Field
	buffer  []any

	assigned map[string]bool
	values   map[string]any
	nextPos  int
}

func isOption(token string) bool {
	return len(token) > 0 && token[0] == OptionMarker
}

// step processes the token at index i. It reports whether the token was
// consumed; an unconsumed token is processed again in the new state.
func (c *cursor) step(i int, token string) (bool, error) {
	switch c.state {
	case stateAwaitingScalar:
		if isOption(token) {
			return false, &ParseError{Kind: MissingValue, Token: token, Index: i, Field: c.pending.Name}
		}
		v, err := c.coerce(i, token)
		if err != nil {
			return false, err
		}
		c.assign(c.pending, v)
		c.idle()
		return true, nil

	case stateAwaitingArray:
		if isOption(token) {
			c.assign(c.pending, c.materialize())
			c.idle()
			return false, nil
		}
		v, err := c.coerce(i, token)
		if err != nil {
			return false, err
		}
		c.buffer = append(c.buffer, v)
		return true, nil
	}

	if !isOption(token) {
		if c.nextPos >= len(c.r.positional) {
			return false, &ParseError{Kind: UnexpectedPositional, Token: token, Index: i}
		}
		f := c.r.positional[c.nextPos]
		c.nextPos++
		c.await(f)
		return false, nil
	}

	f, ok := c.r.aliases[strings.ToUpper(token[1:])]
	if !ok {
		return false, &ParseError{Kind: UnknownOption, Token: token, Index: i}
	}
	if c.assigned[f.Name] {
		return false, &ParseError{Kind: DuplicateOption, Token: token, Index: i, Field: f.Name}
	}
	if f.Kind == KindBool {
		c.assign(f, true)
		return true, nil
	}
	c.await(f)
	return true, nil
}

// finish handles the end of input.
func (c *cursor) finish(n int) error {
	switch c.state {
	case stateAwaitingScalar:
		return &ParseError{Kind: MissingValue, Index: n, Field: c.pending.Name}
	case stateAwaitingArray:
		c.assign(c.pending, c.materialize())
		c.idle()
	}
	return nil
}

func (c *cursor) await(f *Field) {
	c.pending = f
	if f.Kind == KindArray {
		c.state = stateAwaitingArray
		c.buffer = []any{}
		return
	}
	c.state = stateAwaitingScalar
}

func (c *cursor) idle() {
	c.state = stateIdle
	c.pending = nil
	c.buffer = nil
}

func (c *cursor) assign(f *Field, v any) {
	c.assigned[f.Name] = true
	c.values[f.Name] = v
}

func (c *cursor) materialize() []any {
	out := make([]any, len(c.buffer))
	copy(out, c.buffer)
	return out
}

func (c *cursor) coerce(i int, token string) (any, error) {
	f := c.pending
	v, err := coerce(f.Scalar, f.Members, token, c.loc)
	if err != nil {
		return nil, &ParseError{Kind: FormatError, Token: token, Index: i, Field: f.Name, Target: f.Scalar, Err: err}
	}
	if v == nil {
		return nil, &ParseError{Kind: UnsupportedType, Token: token, Index: i, Field: f.Name, Target: f.Scalar}
	}
	return v, nil
}

// SplitArgs splits a command line on whitespace. It does no quoting.
func SplitArgs(line string) []string {
	return strings.Fields(line)
}
