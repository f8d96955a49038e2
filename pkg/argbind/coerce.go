// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errNotOneChar = errors.New("must be exactly one character")

// Coerce converts token to a value of the given kind, reading numbers with
// loc's symbols. The concrete result types are:
//
//	ScalarString                 string
//	ScalarChar                   Char
//	ScalarInt ... ScalarUint64   int, int8, ... uint64 (matching width)
//	ScalarFloat32, ScalarFloat64 float32, float64
//	ScalarEnum                   the matching member of members, as declared
//
// Failures are *ParseError values of kind UnsupportedType or FormatError.
func Coerce(kind ScalarKind, members []string, token string, loc Locale) (any, error) {
	v, err := coerce(kind, members, token, loc.orInvariant())
	if err != nil {
		return nil, &ParseError{Kind: FormatError, Token: token, Index: -1, Target: kind, Err: err}
	}
	if v == nil {
		return nil, &ParseError{Kind: UnsupportedType, Token: token, Index: -1, Target: kind}
	}
	return v, nil
}

// coerce returns (nil, nil) for kinds it does not know.
func coerce(kind ScalarKind, members []string, token string, loc Locale) (any, error) {
	switch kind {
	case ScalarString:
		return token, nil

	case ScalarChar:
		r, size := utf8.DecodeRuneInString(token)
		if size == 0 || size != len(token) || (r == utf8.RuneError && size == 1) {
			return nil, errNotOneChar
		}
		return Char(r), nil

	case ScalarInt, ScalarInt8, ScalarInt16, ScalarInt32, ScalarInt64:
		i, err := strconv.ParseInt(loc.integerText(token), 10, intBits(kind))
		if err != nil {
			return nil, err
		}
		switch kind {
		case ScalarInt:
			return int(i), nil
		case ScalarInt8:
			return int8(i), nil
		case ScalarInt16:
			return int16(i), nil
		case ScalarInt32:
			return int32(i), nil
		}
		return i, nil

	case ScalarUint, ScalarUint8, ScalarUint16, ScalarUint32, ScalarUint64:
		text := strings.TrimPrefix(loc.integerText(token), "+")
		u, err := strconv.ParseUint(text, 10, intBits(kind))
		if err != nil {
			return nil, err
		}
		switch kind {
		case ScalarUint:
			return uint(u), nil
		case ScalarUint8:
			return uint8(u), nil
		case ScalarUint16:
			return uint16(u), nil
		case ScalarUint32:
			return uint32(u), nil
		}
		return u, nil

	case ScalarFloat32:
		f, err := strconv.ParseFloat(loc.floatText(token), 32)
		if err != nil {
			return nil, err
		}
		return float32(f), nil

	case ScalarFloat64:
		f, err := strconv.ParseFloat(loc.floatText(token), 64)
		if err != nil {
			return nil, err
		}
		return f, nil

	case ScalarEnum:
		for _, m := range members {
			if strings.EqualFold(m, token) {
				return m, nil
			}
		}
		return nil, fmt.Errorf("must be one of %s", strings.Join(members, "|"))
	}
	return nil, nil
}

func intBits(kind ScalarKind) int {
	switch kind {
	case ScalarInt8, ScalarUint8:
		return 8
	case ScalarInt16, ScalarUint16:
		return 16
	case ScalarInt32, ScalarUint32:
		return 32
	case ScalarInt64, ScalarUint64:
		return 64
	}
	return strconv.IntSize
}
