// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translation keeps per-language companion rows in sync with incoming
// multilingual payloads and shapes loaded entities into single-language or
// all-language views.
//
// Every translatable entity family owns a companion table with exactly one row
// per (entity, language) pair. A Schema describes that table explicitly so the
// set of translatable columns is a static contract rather than something
// discovered at runtime.
package translation

import (
	"slices"

	"github.com/olegiv/petshop-go/internal/i18n"
)

// Schema describes the translation table of one entity family.
type Schema struct {
	// Table is the companion table name, e.g. "product_translations".
	Table string
	// ForeignKey is the column referencing the owning entity.
	ForeignKey string
	// Fields lists the translatable columns in display order. The id,
	// language and foreign key columns are never part of it.
	Fields []string
	// Primary is the field a bare string payload is assigned to.
	Primary string
}

// Has reports whether field is a translatable column of s.
func (s Schema) Has(field string) bool {
	return slices.Contains(s.Fields, field)
}

// Fields maps translatable column names to values. A nil value is SQL NULL.
type Fields map[string]*string

// Clone returns a shallow copy of f that is never nil.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Row is one persisted translation row.
type Row struct {
	ID       int64
	EntityID int64
	Language i18n.Code
	Values   Fields
}

// Input is a resolved multilingual payload keyed by raw language code.
// A nil Input means the caller supplied no translations at all, which is
// different from an empty, non-nil Input.
type Input map[string]Fields

// First returns the first non-empty value of field, scanning languages in
// canonical order. Keys that are not supported language codes are ignored.
func (in Input) First(field string) (string, bool) {
	norm := normalize(in)
	for _, code := range i18n.All() {
		f, ok := norm[code]
		if !ok {
			continue
		}
		if v := f[field]; v != nil && *v != "" {
			return *v, true
		}
	}
	return "", false
}

// normalize folds raw language keys onto supported codes, dropping the rest.
// When several raw keys fold onto the same code ("en" and "EN"), their fields
// are merged in sorted key order.
func normalize(in Input) map[i18n.Code]Fields {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[i18n.Code]Fields, len(in))
	for _, k := range keys {
		code, ok := i18n.ParseCode(k)
		if !ok {
			continue
		}
		merged, exists := out[code]
		if !exists {
			merged = make(Fields, len(in[k]))
		}
		for field, v := range in[k] {
			merged[field] = v
		}
		out[code] = merged
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
