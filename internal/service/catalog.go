// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the catalog's use cases on top of the store.
// Every write runs in a single transaction covering scalar columns, the
// translation rows and nested children; every read loads an entity, its
// translations and its relations from one snapshot and shapes the result
// with translation.Project.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
)

// Pagination bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// CatalogService serves animal types, categories, products, news and their
// translations.
type CatalogService struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{
		db:      db,
		queries: store.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListOptions controls language and window of a list read.
type ListOptions struct {
	Lang   *i18n.Code
	Limit  int64
	Offset int64
}

func (o ListOptions) params() store.ListParams {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := max(o.Offset, 0)
	return store.ListParams{Limit: limit, Offset: offset}
}

// Page is one window of projected items and the total number of matches.
type Page struct {
	Items []translation.View
	Total int64
}

// inTx runs fn inside a transaction and commits when it returns nil. Reads use
// it too, so an entity and its translation rows come from one snapshot.
func (s *CatalogService) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	return runInTx(ctx, s.db, s.queries, fn)
}

func runInTx(ctx context.Context, db *sql.DB, queries *store.Queries, fn func(q *store.Queries) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(queries.WithTx(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

// loadNodes turns items into translation nodes, fetching the translation
// rows of all of them with one query.
func loadNodes[T any](ctx context.Context, q *store.Queries, schema translation.Schema, items []T,
	id func(T) int64, attrs func(T) map[string]any) ([]translation.Node, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = id(it)
	}

	rows, err := q.ListRowsFor(ctx, schema, ids)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", schema.Table, err)
	}

	nodes := make([]translation.Node, len(items))
	for i, it := range items {
		nodes[i] = translation.Node{
			Schema: schema,
			Attrs:  attrs(it),
			Rows:   rows[id(it)],
		}
	}
	return nodes, nil
}

// indexNodes keys nodes by their "id" attribute.
func indexNodes(nodes []translation.Node) map[int64]*translation.Node {
	out := make(map[int64]*translation.Node, len(nodes))
	for i := range nodes {
		if id, ok := nodes[i].Attrs["id"].(int64); ok {
			out[id] = &nodes[i]
		}
	}
	return out
}

// uniqueIDs returns the valid ids in first-seen order without duplicates.
func uniqueIDs(ids []sql.NullInt64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !id.Valid || seen[id.Int64] {
			continue
		}
		seen[id.Int64] = true
		out = append(out, id.Int64)
	}
	return out
}

// one returns the node for id, or nil when id is NULL or unknown.
func one(index map[int64]*translation.Node, id sql.NullInt64) *translation.Node {
	if !id.Valid {
		return nil
	}
	n, ok := index[id.Int64]
	if !ok {
		return nil
	}
	c := *n
	return &c
}

// primaryValue picks the fallback scalar for a create: the explicit value
// when given, otherwise the first non-empty primary field of in.
func primaryValue(explicit *string, in translation.Input, schema translation.Schema) (string, error) {
	if explicit != nil {
		v := strings.TrimSpace(*explicit)
		if v == "" {
			return "", invalid(schema.Primary, "must not be empty")
		}
		return v, nil
	}
	if v, ok := in.First(schema.Primary); ok {
		return v, nil
	}
	return "", invalid(schema.Primary, "is required, either directly or in a translation")
}

// resyncPrimary returns the value the fallback scalar should take on update.
// An explicit value wins; otherwise, when translations were supplied, the
// scalar follows them so search and legacy display stay current.
func resyncPrimary(current string, explicit *string, in translation.Input, schema translation.Schema) (string, error) {
	if explicit != nil {
		return primaryValue(explicit, nil, schema)
	}
	if in != nil {
		if v, ok := in.First(schema.Primary); ok {
			return v, nil
		}
	}
	return current, nil
}

func mustExist(n int64, what string) error {
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// Statistics returns catalog-wide counters.
func (s *CatalogService) Statistics(ctx context.Context) (store.Statistics, error) {
	st, err := s.queries.GetStatistics(ctx)
	if err != nil {
		return store.Statistics{}, fmt.Errorf("loading statistics: %w", err)
	}
	return st, nil
}
