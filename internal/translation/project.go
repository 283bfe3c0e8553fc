// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translation

import (
	"github.com/olegiv/petshop-go/internal/i18n"
)

// LanguageKey is the attribute a single-language view is tagged with.
const LanguageKey = "language"

// Node is a loaded entity ready for projection.
type Node struct {
	Schema Schema
	// Attrs holds the non-translatable attributes, including the fallback
	// copy of the primary field.
	Attrs map[string]any
	Rows  []Row
	// Many holds owned collections, e.g. "features".
	Many map[string][]Node
	// One holds owned singular associations, e.g. "author". A nil entry is
	// rendered as null.
	One map[string]*Node
}

// View is the projected, JSON-ready form of a Node.
type View map[string]any

// Project shapes n for lang.
//
// When lang is set and n has a row for it, translatable fields become plain
// values of that language and the view is tagged with the language. Otherwise,
// including when the requested language has no row, every translatable field
// becomes a map with an entry for each supported language, using "" where a
// row or value is missing. Collections and singular associations are
// projected with the same lang.
func Project(n Node, lang *i18n.Code) View {
	v := make(View, len(n.Attrs)+len(n.Schema.Fields)+len(n.Many)+len(n.One)+1)
	for k, a := range n.Attrs {
		v[k] = a
	}

	byLang := make(map[i18n.Code]Fields, len(n.Rows))
	for _, r := range n.Rows {
		byLang[r.Language] = r.Values
	}

	if f, ok := requested(byLang, lang); ok {
		for _, name := range n.Schema.Fields {
			v[name] = deref(f[name])
		}
		v[LanguageKey] = lang.String()
	} else {
		for _, name := range n.Schema.Fields {
			m := make(map[string]string, len(i18n.All()))
			for _, code := range i18n.All() {
				m[code.String()] = deref(byLang[code][name])
			}
			v[name] = m
		}
	}

	for name, children := range n.Many {
		list := make([]View, 0, len(children))
		for _, c := range children {
			list = append(list, Project(c, lang))
		}
		v[name] = list
	}
	for name, child := range n.One {
		if child == nil {
			v[name] = nil
			continue
		}
		v[name] = Project(*child, lang)
	}

	return v
}

// ProjectAll projects every node with the same lang.
func ProjectAll(nodes []Node, lang *i18n.Code) []View {
	out := make([]View, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Project(n, lang))
	}
	return out
}

func requested(byLang map[i18n.Code]Fields, lang *i18n.Code) (Fields, bool) {
	if lang == nil {
		return nil, false
	}
	f, ok := byLang[*lang]
	return f, ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
