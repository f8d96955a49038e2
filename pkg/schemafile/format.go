// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	TOML Format = iota + 1
	YAML
	JSON
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("unknown format %q (want json, yaml or toml)", s)
}

// FormatFor picks a format from the extension of path.
func FormatFor(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%s: no file extension to pick a format from", path)
	}
	f, err := ParseFormat(ext[1:])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// decode reads a single document strictly: unknown keys are errors.
func decode(r io.Reader, f Format, v any) error {
	switch f {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(v)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			if err == io.EOF {
				return fmt.Errorf("empty document")
			}
			return err
		}
		return nil
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		dec.UseNumber()
		return dec.Decode(v)
	}
	return fmt.Errorf("unsupported format %v", f)
}

// jsonNumbers replaces the json.Number values in v with int64, uint64 or
// float64, whichever holds the number exactly, so documents decoded from
// JSON encode like the ones decoded from TOML and YAML.
func jsonNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return u
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i, item := range x {
			x[i] = jsonNumbers(item)
		}
	}
	return v
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case TOML:
		return toml.NewEncoder(w).Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unsupported format %v", f)
}
