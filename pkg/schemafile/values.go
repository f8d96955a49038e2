// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/yeetrun/argbind/pkg/argbind"
)

// Encode writes every field of vals, defaults included, as a single
// document keyed by field name. TOML has no null, so fields without a
// value are left out of TOML output. JSON has no NaN or infinity, so
// those floats are written to JSON as the strings "NaN", "+Inf" and "-Inf".
func Encode(w io.Writer, f Format, vals *argbind.Values) error {
	m := vals.Map()
	out := make(map[string]any, len(m))
	for k, v := range m {
		v = plain(v)
		if v == nil && f == TOML {
			continue
		}
		if f == JSON {
			v = nonFiniteText(v)
		}
		out[k] = v
	}
	return encode(w, f, out)
}

// plain converts parsed values into types every encoder writes the same
// way: Char as a one-character string, integers as int64 or uint64, and
// float32 as the float64 with the same shortest decimal form.
func plain(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case argbind.Char:
		return string(rune(x))
	case float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(x), 'g', -1, 32), 64)
		return f
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	}
	return v
}

func nonFiniteText(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = nonFiniteText(item)
		}
		return out
	}
	return v
}
