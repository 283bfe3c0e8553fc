// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n defines the closed set of content languages the catalog stores
// translations for.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Code is a supported content language code.
type Code string

// Supported language codes.
const (
	EN Code = "en"
	RU Code = "ru"
	HY Code = "hy"
)

// all is the canonical order. Reconciliation and projection iterate in this
// order so results never depend on map iteration.
var all = []Code{EN, RU, HY}

// Info describes a supported language for display purposes.
type Info struct {
	Code       Code   `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

var infos = map[Code]Info{
	EN: {Code: EN, Name: "English", NativeName: "English"},
	RU: {Code: RU, Name: "Russian", NativeName: "Русский"},
	HY: {Code: HY, Name: "Armenian", NativeName: "Հայերեն"},
}

// All returns the supported codes in canonical order.
func All() []Code {
	out := make([]Code, len(all))
	copy(out, all)
	return out
}

// Languages returns display information for every supported language.
func Languages() []Info {
	out := make([]Info, 0, len(all))
	for _, c := range all {
		out = append(out, infos[c])
	}
	return out
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}

// Valid reports whether c is one of the supported codes.
func (c Code) Valid() bool {
	switch c {
	case EN, RU, HY:
		return true
	}
	return false
}

// ParseCode parses a language code. Case and surrounding whitespace are
// normalised; anything other than a bare en, ru or hy tag is rejected,
// including region-qualified tags such as en-US.
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	c := Code(tag.String())
	if !c.Valid() {
		return "", false
	}
	return c, true
}
