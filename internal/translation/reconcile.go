// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translation

import (
	"context"
	"fmt"

	"github.com/olegiv/petshop-go/internal/i18n"
)

// RowStore reads and writes translation rows. Implementations run every call
// inside the caller's transaction; Reconcile never commits.
type RowStore interface {
	ListRows(ctx context.Context, s Schema, entityID int64) ([]Row, error)
	InsertRow(ctx context.Context, s Schema, entityID int64, lang i18n.Code, values Fields) error
	UpdateRow(ctx context.Context, s Schema, rowID int64, values Fields) error
	DeleteRow(ctx context.Context, s Schema, rowID int64) error
}

// Reconcile merges in into the translation rows of entityID.
//
// A nil Input leaves the rows untouched. Otherwise in governs membership:
// rows for languages missing from in are deleted, so an empty Input deletes
// every row. Keys that are not supported language codes are skipped.
//
// For a language that already has a row only the supplied fields are
// overwritten. A language without a row gets a new one; fields it does not
// supply are copied from the first pre-existing row in canonical language
// order (en, ru, hy), and stay unset when no such row has a value.
//
// Errors from rs are returned as is; the caller's transaction is expected to
// roll back.
func Reconcile(ctx context.Context, rs RowStore, s Schema, entityID int64, in Input) error {
	if in == nil {
		return nil
	}

	rows, err := rs.ListRows(ctx, s, entityID)
	if err != nil {
		return fmt.Errorf("listing %s rows: %w", s.Table, err)
	}

	existing := make(map[i18n.Code]*Row, len(rows))
	for i := range rows {
		existing[rows[i].Language] = &rows[i]
	}
	sibling := firstRow(existing)

	incoming := normalize(in)
	seen := make(map[i18n.Code]bool, len(incoming))

	for _, code := range i18n.All() {
		fields, ok := incoming[code]
		if !ok {
			continue
		}
		seen[code] = true

		if row, ok := existing[code]; ok {
			if len(fields) == 0 {
				continue
			}
			if err := rs.UpdateRow(ctx, s, row.ID, fields); err != nil {
				return fmt.Errorf("updating %s row %d: %w", s.Table, row.ID, err)
			}
			if row.Values == nil {
				row.Values = make(Fields, len(fields))
			}
			for name, v := range fields {
				row.Values[name] = v
			}
			continue
		}

		values := fields.Clone()
		if sibling != nil {
			for _, name := range s.Fields {
				if _, supplied := values[name]; supplied {
					continue
				}
				if v := sibling.Values[name]; v != nil {
					values[name] = strPtr(*v)
				}
			}
		}
		if err := rs.InsertRow(ctx, s, entityID, code, values); err != nil {
			return fmt.Errorf("inserting %s row for %s: %w", s.Table, code, err)
		}
	}

	for _, code := range i18n.All() {
		row, ok := existing[code]
		if !ok || seen[code] {
			continue
		}
		if err := rs.DeleteRow(ctx, s, row.ID); err != nil {
			return fmt.Errorf("deleting %s row %d: %w", s.Table, row.ID, err)
		}
	}

	return nil
}

// firstRow returns the pre-existing row of the first language in canonical
// order, or nil.
func firstRow(existing map[i18n.Code]*Row) *Row {
	for _, code := range i18n.All() {
		if row, ok := existing[code]; ok {
			return row
		}
	}
	return nil
}
