// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale holds the number symbols used when coercing numeric tokens.
// The zero Locale behaves like Invariant.
type Locale struct {
	Tag     language.Tag
	Decimal rune
	Group   rune
	Minus   rune
}

// Invariant is the culture-neutral locale: '.' decimal, ',' grouping.
var Invariant = Locale{Tag: language.Und, Decimal: '.', Group: ',', Minus: '-'}

type numberSymbols struct {
	decimal rune
	group   rune
}

var (
	pointComma = numberSymbols{'.', ','}
	commaPoint = numberSymbols{',', '.'}
	commaSpace = numberSymbols{',', '\u00a0'}
)

// localeSymbols is keyed by full tag first, then by base language.
var localeSymbols = map[string]numberSymbols{
	"de-CH": {'.', '\u2019'},
	"de-LI": {'.', '\u2019'},
	"en-ZA": commaSpace,
	"es-MX": pointComma,
	"pt-PT": commaSpace,

	"en": pointComma,
	"ja": pointComma,
	"zh": pointComma,
	"ko": pointComma,
	"he": pointComma,
	"th": pointComma,
	"ga": pointComma,

	"de": commaPoint,
	"nl": commaPoint,
	"it": commaPoint,
	"es": commaPoint,
	"pt": commaPoint,
	"id": commaPoint,
	"tr": commaPoint,
	"da": commaPoint,
	"el": commaPoint,
	"ro": commaPoint,
	"hr": commaPoint,
	"sl": commaPoint,

	"fr": {',', '\u202f'},
	"ru": commaSpace,
	"uk": commaSpace,
	"pl": commaSpace,
	"cs": commaSpace,
	"sk": commaSpace,
	"sv": commaSpace,
	"nb": commaSpace,
	"no": commaSpace,
	"fi": commaSpace,
	"hu": commaSpace,
	"bg": commaSpace,
}

// LocaleFor returns the number symbols conventionally used by tag. Tags
// with no known convention get the invariant symbols.
func LocaleFor(tag language.Tag) Locale {
	loc := Invariant
	loc.Tag = tag
	if tag == language.Und {
		return loc
	}
	syms, ok := localeSymbols[tag.String()]
	if !ok {
		if base, region, err := baseAndRegion(tag); err == nil {
			syms, ok = localeSymbols[base+"-"+region]
			if !ok {
				syms, ok = localeSymbols[base]
			}
		}
	}
	if ok {
		loc.Decimal = syms.decimal
		loc.Group = syms.group
	}
	return loc
}

func baseAndRegion(tag language.Tag) (string, string, error) {
	base, conf := tag.Base()
	if conf == language.No {
		return "", "", fmt.Errorf("no base language for %s", tag)
	}
	region, _ := tag.Region()
	return base.String(), region.String(), nil
}

// ParseLocale parses a BCP 47 tag such as "de-DE". The empty string and
// "invariant" select Invariant.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "invariant") {
		return Invariant, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return LocaleFor(tag), nil
}

func (l Locale) String() string {
	if l.Tag == language.Und {
		return "invariant"
	}
	return l.Tag.String()
}

func (l Locale) orInvariant() Locale {
	if l.Decimal == 0 {
		return Invariant
	}
	if l.Minus == 0 {
		l.Minus = '-'
	}
	return l
}

// integerText rewrites an integer token into the form strconv expects.
// Group separators are not accepted in integers.
func (l Locale) integerText(token string) string {
	s := strings.TrimSpace(token)
	if l.Minus != '-' {
		if rest, ok := strings.CutPrefix(s, string(l.Minus)); ok {
			s = "-" + rest
		}
	}
	return s
}

// floatText rewrites a floating point token into the form strconv expects:
// group separators dropped, the decimal separator mapped to '.'.
func (l Locale) floatText(token string) string {
	s := l.integerText(token)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == l.Decimal:
			b.WriteByte('.')
		case r == l.Group, isSpaceGroup(l.Group) && isSpaceGroup(r):
			// Grouping is dropped.
		case r == '.' && l.Decimal != '.':
			// A '.' that is neither the decimal nor the group separator
			// must not be accepted as a decimal point.
			b.WriteRune('\ufffd')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSpaceGroup(r rune) bool {
	return r == ' ' || r == '\u00a0' || r == '\u202f'
}
