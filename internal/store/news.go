// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ============================================================================
// News authors
// ============================================================================

const newsAuthorColumns = "id, name, image_url, created_at, updated_at"

func scanNewsAuthor(sc scanner) (NewsAuthor, error) {
	var a NewsAuthor
	err := sc.Scan(&a.ID, &a.Name, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateNewsAuthorParams holds the values for a new author.
type CreateNewsAuthorParams struct {
	Name      string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateNewsAuthor inserts an author and returns its id.
func (q *Queries) CreateNewsAuthor(ctx context.Context, arg CreateNewsAuthorParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO news_authors (name, image_url, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Name, arg.ImageURL, arg.CreatedAt, arg.UpdatedAt)
}

// GetNewsAuthor returns sql.ErrNoRows when the author does not exist.
func (q *Queries) GetNewsAuthor(ctx context.Context, id int64) (NewsAuthor, error) {
	return scanNewsAuthor(q.db.QueryRowContext(ctx, "SELECT "+newsAuthorColumns+" FROM news_authors WHERE id = ?", id))
}

// ListNewsAuthors returns a page of authors ordered by id.
func (q *Queries) ListNewsAuthors(ctx context.Context, arg ListParams) ([]NewsAuthor, error) {
	return queryList(ctx, q.db, scanNewsAuthor,
		"SELECT "+newsAuthorColumns+" FROM news_authors ORDER BY id LIMIT ? OFFSET ?", arg.Limit, arg.Offset)
}

// GetNewsAuthorsByIDs returns the authors with the given ids.
func (q *Queries) GetNewsAuthorsByIDs(ctx context.Context, ids []int64) ([]NewsAuthor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return queryList(ctx, q.db, scanNewsAuthor,
		"SELECT "+newsAuthorColumns+" FROM news_authors WHERE id IN ("+placeholders(len(ids))+")", int64Args(ids)...)
}

// CountNewsAuthors returns the number of authors.
func (q *Queries) CountNewsAuthors(ctx context.Context) (int64, error) {
	return q.count(ctx, "SELECT COUNT(*) FROM news_authors")
}

// UpdateNewsAuthorParams holds the full scalar state of an author.
type UpdateNewsAuthorParams struct {
	ID        int64
	Name      string
	ImageURL  sql.NullString
	UpdatedAt time.Time
}

// UpdateNewsAuthor overwrites the scalar columns of an author.
func (q *Queries) UpdateNewsAuthor(ctx context.Context, arg UpdateNewsAuthorParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE news_authors SET name = ?, image_url = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.ImageURL, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteNewsAuthor deletes an author and returns the number of rows removed.
// News written by the author keep existing without one.
func (q *Queries) DeleteNewsAuthor(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM news_authors WHERE id = ?", id)
}

// ============================================================================
// News
// ============================================================================

const newsColumns = "n.id, n.title, n.image_url, n.author_id, n.published_at, n.created_at, n.updated_at"

func scanNews(sc scanner) (News, error) {
	var n News
	err := sc.Scan(&n.ID, &n.Title, &n.ImageURL, &n.AuthorID, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// NewsFilter narrows news listings.
type NewsFilter struct {
	// Search matches the fallback title or any translated title or summary.
	Search   string
	AuthorID sql.NullInt64
}

func (f NewsFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AuthorID.Valid {
		conds = append(conds, "n.author_id = ?")
		args = append(args, f.AuthorID.Int64)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := likePattern(s)
		conds = append(conds, "(n.title LIKE ? ESCAPE '!' OR EXISTS ("+
			"SELECT 1 FROM news_translations t WHERE t.news_id = n.id AND "+
			"(t.title LIKE ? ESCAPE '!' OR t.summary LIKE ? ESCAPE '!')))")
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CreateNewsParams holds the values for a new news item.
type CreateNewsParams struct {
	Title       string
	ImageURL    sql.NullString
	AuthorID    sql.NullInt64
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNews inserts a news item and returns its id.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (int64, error) {
	return q.insert(ctx,
		`INSERT INTO news (title, image_url, author_id, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.ImageURL, arg.AuthorID, arg.PublishedAt, arg.CreatedAt, arg.UpdatedAt)
}

// GetNews returns sql.ErrNoRows when the news item does not exist.
func (q *Queries) GetNews(ctx context.Context, id int64) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx, "SELECT "+newsColumns+" FROM news n WHERE n.id = ?", id))
}

// ListNews returns a filtered page of news, most recently published first.
func (q *Queries) ListNews(ctx context.Context, f NewsFilter, page ListParams) ([]News, error) {
	where, args := f.where()
	args = append(args, page.Limit, page.Offset)
	return queryList(ctx, q.db, scanNews,
		"SELECT "+newsColumns+" FROM news n"+where+" ORDER BY n.published_at DESC, n.id DESC LIMIT ? OFFSET ?",
		args...)
}

// CountNews returns the number of news items matching f.
func (q *Queries) CountNews(ctx context.Context, f NewsFilter) (int64, error) {
	where, args := f.where()
	return q.count(ctx, "SELECT COUNT(*) FROM news n"+where, args...)
}

// UpdateNewsParams holds the full scalar state of a news item.
type UpdateNewsParams struct {
	ID          int64
	Title       string
	ImageURL    sql.NullString
	AuthorID    sql.NullInt64
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// UpdateNews overwrites the scalar columns of a news item.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE news SET title = ?, image_url = ?, author_id = ?, published_at = ?, updated_at = ? WHERE id = ?",
		arg.Title, arg.ImageURL, arg.AuthorID, arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteNews deletes a news item with its features and returns the number of
// items removed.
func (q *Queries) DeleteNews(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM news WHERE id = ?", id)
}

// ============================================================================
// News features
// ============================================================================

const newsFeatureColumns = "id, news_id, title, created_at"

func scanNewsFeature(sc scanner) (NewsFeature, error) {
	var f NewsFeature
	err := sc.Scan(&f.ID, &f.NewsID, &f.Title, &f.CreatedAt)
	return f, err
}

// CreateNewsFeatureParams holds the values for a new news feature.
type CreateNewsFeatureParams struct {
	NewsID    int64
	Title     string
	CreatedAt time.Time
}

// CreateNewsFeature inserts a feature and returns its id.
func (q *Queries) CreateNewsFeature(ctx context.Context, arg CreateNewsFeatureParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO news_features (news_id, title, created_at) VALUES (?, ?, ?)",
		arg.NewsID, arg.Title, arg.CreatedAt)
}

// GetNewsFeature returns sql.ErrNoRows when the feature does not exist.
func (q *Queries) GetNewsFeature(ctx context.Context, id int64) (NewsFeature, error) {
	return scanNewsFeature(q.db.QueryRowContext(ctx,
		"SELECT "+newsFeatureColumns+" FROM news_features WHERE id = ?", id))
}

// ListNewsFeaturesByNews returns the features of the given news items ordered
// by id.
func (q *Queries) ListNewsFeaturesByNews(ctx context.Context, newsIDs []int64) ([]NewsFeature, error) {
	if len(newsIDs) == 0 {
		return nil, nil
	}
	return queryList(ctx, q.db, scanNewsFeature,
		"SELECT "+newsFeatureColumns+" FROM news_features WHERE news_id IN ("+placeholders(len(newsIDs))+") ORDER BY id",
		int64Args(newsIDs)...)
}

// UpdateNewsFeatureTitle overwrites the fallback title of a feature.
func (q *Queries) UpdateNewsFeatureTitle(ctx context.Context, id int64, title string) error {
	_, err := q.db.ExecContext(ctx, "UPDATE news_features SET title = ? WHERE id = ?", title, id)
	return err
}

// DeleteNewsFeature deletes a feature and returns the number of rows removed.
func (q *Queries) DeleteNewsFeature(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM news_features WHERE id = ?", id)
}
