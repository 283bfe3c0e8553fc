// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/translation"
)

var _ translation.RowStore = (*Queries)(nil)

func selectRowsSQL(s translation.Schema) string {
	cols := append([]string{"id", s.ForeignKey, "language"}, s.Fields...)
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + s.Table
}

func scanRow(sc scanner, s translation.Schema) (translation.Row, error) {
	var (
		r    translation.Row
		lang string
	)
	vals := make([]sql.NullString, len(s.Fields))
	dest := make([]any, 0, len(s.Fields)+3)
	dest = append(dest, &r.ID, &r.EntityID, &lang)
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := sc.Scan(dest...); err != nil {
		return r, err
	}

	r.Language = i18n.Code(lang)
	r.Values = make(translation.Fields, len(s.Fields))
	for i, name := range s.Fields {
		if vals[i].Valid {
			v := vals[i].String
			r.Values[name] = &v
		} else {
			r.Values[name] = nil
		}
	}
	return r, nil
}

// ListRows returns the translation rows of one entity ordered by id.
func (q *Queries) ListRows(ctx context.Context, s translation.Schema, entityID int64) ([]translation.Row, error) {
	query := selectRowsSQL(s) + " WHERE " + s.ForeignKey + " = ? ORDER BY id"
	rows, err := q.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []translation.Row
	for rows.Next() {
		r, err := scanRow(rows, s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRowsFor loads the translation rows of several entities in one query,
// keyed by entity id.
func (q *Queries) ListRowsFor(ctx context.Context, s translation.Schema, ids []int64) (map[int64][]translation.Row, error) {
	out := make(map[int64][]translation.Row, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := selectRowsSQL(s) + " WHERE " + s.ForeignKey + " IN (" + placeholders(len(ids)) + ") ORDER BY id"
	rows, err := q.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		r, err := scanRow(rows, s)
		if err != nil {
			return nil, err
		}
		out[r.EntityID] = append(out[r.EntityID], r)
	}
	return out, rows.Err()
}

// InsertRow creates the row for (entityID, lang). Schema fields missing from
// values are stored as NULL.
func (q *Queries) InsertRow(ctx context.Context, s translation.Schema, entityID int64, lang i18n.Code, values translation.Fields) error {
	cols := append([]string{s.ForeignKey, "language"}, s.Fields...)
	args := make([]any, 0, len(cols))
	args = append(args, entityID, lang.String())
	for _, name := range s.Fields {
		args = append(args, nullable(values[name]))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.Table, strings.Join(cols, ", "), placeholders(len(cols)))
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

// UpdateRow overwrites the supplied schema fields of one row. Other columns
// are left as they are.
func (q *Queries) UpdateRow(ctx context.Context, s translation.Schema, rowID int64, values translation.Fields) error {
	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for _, name := range s.Fields {
		v, ok := values[name]
		if !ok {
			continue
		}
		sets = append(sets, name+" = ?")
		args = append(args, nullable(v))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, rowID)

	query := "UPDATE " + s.Table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteRow removes one translation row.
func (q *Queries) DeleteRow(ctx context.Context, s translation.Schema, rowID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM "+s.Table+" WHERE id = ?", rowID)
	return err
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
