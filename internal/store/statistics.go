// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// GetStatistics returns catalog-wide counters in a single statement.
func (q *Queries) GetStatistics(ctx context.Context) (Statistics, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM animal_types),
		(SELECT COUNT(*) FROM categories),
		(SELECT COUNT(*) FROM subcategories),
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM products WHERE is_new = ?),
		(SELECT COUNT(*) FROM news),
		(SELECT COUNT(*) FROM news_authors)`

	var s Statistics
	err := q.db.QueryRowContext(ctx, query, true).Scan(
		&s.Users, &s.AnimalTypes, &s.Categories, &s.Subcategories,
		&s.Products, &s.NewProducts, &s.News, &s.NewsAuthors)
	return s, err
}
