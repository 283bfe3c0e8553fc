// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

// NewsInput is the write model of a news item. PublishedAt defaults to the
// creation time. A non-nil Features replaces the item's features on update.
type NewsInput struct {
	Title        *string
	ImageURL     util.Optional[string]
	AuthorID     util.Optional[int64]
	PublishedAt  *time.Time
	Translations translation.Input
	Features     []FeatureInput
}

// NewsAuthorInput is the write model of a news author.
type NewsAuthorInput struct {
	Name         *string
	ImageURL     util.Optional[string]
	Translations translation.Input
}

func newsAuthorAttrs(a store.NewsAuthor) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"name":       a.Name,
		"image_url":  util.NullStringValue(a.ImageURL),
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}

func newsAttrs(n store.News) map[string]any {
	return map[string]any{
		"id":           n.ID,
		"title":        n.Title,
		"image_url":    util.NullStringValue(n.ImageURL),
		"author_id":    util.NullInt64Value(n.AuthorID),
		"published_at": n.PublishedAt,
		"created_at":   n.CreatedAt,
		"updated_at":   n.UpdatedAt,
	}
}

func newsFeatureAttrs(f store.NewsFeature) map[string]any {
	return map[string]any{
		"id":         f.ID,
		"news_id":    f.NewsID,
		"title":      f.Title,
		"created_at": f.CreatedAt,
	}
}

func newsAuthorNodes(ctx context.Context, q *store.Queries, items []store.NewsAuthor) ([]translation.Node, error) {
	return loadNodes(ctx, q, store.NewsAuthorTranslations, items,
		func(a store.NewsAuthor) int64 { return a.ID }, newsAuthorAttrs)
}

func newsFeatureNodes(ctx context.Context, q *store.Queries, items []store.NewsFeature) ([]translation.Node, error) {
	return loadNodes(ctx, q, store.NewsFeatureTranslations, items,
		func(f store.NewsFeature) int64 { return f.ID }, newsFeatureAttrs)
}

// newsNodes loads news items with their author and features.
func newsNodes(ctx context.Context, q *store.Queries, items []store.News) ([]translation.Node, error) {
	nodes, err := loadNodes(ctx, q, store.NewsTranslations, items,
		func(n store.News) int64 { return n.ID }, newsAttrs)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	authorIDs := make([]sql.NullInt64, len(items))
	for i, n := range items {
		ids[i] = n.ID
		authorIDs[i] = n.AuthorID
	}

	features, err := q.ListNewsFeaturesByNews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing news features: %w", err)
	}
	featureNodes, err := newsFeatureNodes(ctx, q, features)
	if err != nil {
		return nil, err
	}
	byNews := make(map[int64][]translation.Node, len(items))
	for i, f := range features {
		byNews[f.NewsID] = append(byNews[f.NewsID], featureNodes[i])
	}

	authors, err := q.GetNewsAuthorsByIDs(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("loading news authors: %w", err)
	}
	authorNodes, err := newsAuthorNodes(ctx, q, authors)
	if err != nil {
		return nil, err
	}
	authorIndex := indexNodes(authorNodes)

	for i, n := range items {
		nodes[i].Many = map[string][]translation.Node{"features": byNews[n.ID]}
		nodes[i].One = map[string]*translation.Node{"author": one(authorIndex, n.AuthorID)}
	}
	return nodes, nil
}

func newsNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	n, err := q.GetNews(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting news %d: %w", id, err)
	}
	nodes, err := newsNodes(ctx, q, []store.News{n})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// ListNews returns a filtered page of news, most recently published first.
func (s *CatalogService) ListNews(ctx context.Context, f store.NewsFilter, opts ListOptions) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.ListNews(ctx, f, opts.params())
		if err != nil {
			return fmt.Errorf("listing news: %w", err)
		}
		nodes, err := newsNodes(ctx, q, items)
		if err != nil {
			return err
		}
		total, err := q.CountNews(ctx, f)
		if err != nil {
			return fmt.Errorf("counting news: %w", err)
		}
		page = Page{Items: translation.ProjectAll(nodes, opts.Lang), Total: total}
		return nil
	})
	return page, err
}

// GetNews returns one news item with its author and features.
func (s *CatalogService) GetNews(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := newsNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

func newsFeatureTitles(features []FeatureInput) ([]string, error) {
	titles := make([]string, len(features))
	for i, f := range features {
		v, err := primaryValue(f.Title, f.Translations, store.NewsFeatureTranslations)
		if err != nil {
			return nil, invalid(fmt.Sprintf("features[%d].title", i), "is required, either directly or in a translation")
		}
		titles[i] = v
	}
	return titles, nil
}

func createNewsFeature(ctx context.Context, q *store.Queries, newsID int64, title string,
	in translation.Input, now time.Time) (int64, error) {
	id, err := q.CreateNewsFeature(ctx, store.CreateNewsFeatureParams{NewsID: newsID, Title: title, CreatedAt: now})
	if err != nil {
		return 0, fmt.Errorf("creating news feature: %w", err)
	}
	return id, translation.Reconcile(ctx, q, store.NewsFeatureTranslations, id, in)
}

// CreateNews inserts a news item, its translations and its features.
func (s *CatalogService) CreateNews(ctx context.Context, in NewsInput) (translation.View, error) {
	title, err := primaryValue(in.Title, in.Translations, store.NewsTranslations)
	if err != nil {
		return nil, err
	}
	titles, err := newsFeatureTitles(in.Features)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		now := s.now()
		published := now
		if in.PublishedAt != nil {
			published = in.PublishedAt.UTC()
		}
		id, err := q.CreateNews(ctx, store.CreateNewsParams{
			Title:       title,
			ImageURL:    util.ApplyString(sql.NullString{}, in.ImageURL),
			AuthorID:    util.ApplyInt64(sql.NullInt64{}, in.AuthorID),
			PublishedAt: published,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("creating news: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.NewsTranslations, id, in.Translations); err != nil {
			return err
		}
		for i, f := range in.Features {
			if _, err := createNewsFeature(ctx, q, id, titles[i], f.Translations, now); err != nil {
				return err
			}
		}
		node, err := newsNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateNews applies in to an existing news item.
func (s *CatalogService) UpdateNews(ctx context.Context, id int64, in NewsInput) (translation.View, error) {
	var titles []string
	if in.Features != nil {
		var err error
		if titles, err = newsFeatureTitles(in.Features); err != nil {
			return nil, err
		}
	}

	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetNews(ctx, id)
		if err != nil {
			return fmt.Errorf("getting news %d: %w", id, err)
		}
		title, err := resyncPrimary(cur.Title, in.Title, in.Translations, store.NewsTranslations)
		if err != nil {
			return err
		}
		published := cur.PublishedAt
		if in.PublishedAt != nil {
			published = in.PublishedAt.UTC()
		}
		now := s.now()
		if err := q.UpdateNews(ctx, store.UpdateNewsParams{
			ID:          id,
			Title:       title,
			ImageURL:    util.ApplyString(cur.ImageURL, in.ImageURL),
			AuthorID:    util.ApplyInt64(cur.AuthorID, in.AuthorID),
			PublishedAt: published,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("updating news %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.NewsTranslations, id, in.Translations); err != nil {
			return err
		}
		if in.Features != nil {
			if err := replaceNewsFeatures(ctx, q, id, in.Features, titles, now); err != nil {
				return err
			}
		}
		node, err := newsNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

func replaceNewsFeatures(ctx context.Context, q *store.Queries, newsID int64, features []FeatureInput,
	titles []string, now time.Time) error {
	existing, err := q.ListNewsFeaturesByNews(ctx, []int64{newsID})
	if err != nil {
		return fmt.Errorf("listing news features: %w", err)
	}
	for _, f := range existing {
		if _, err := q.DeleteNewsFeature(ctx, f.ID); err != nil {
			return fmt.Errorf("deleting news feature %d: %w", f.ID, err)
		}
	}
	for i, f := range features {
		if _, err := createNewsFeature(ctx, q, newsID, titles[i], f.Translations, now); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNews removes a news item with its features and translations.
func (s *CatalogService) DeleteNews(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteNews(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting news %d: %w", id, err)
		}
		return mustExist(n, "news")
	})
}

// ============================================================================
// News features
// ============================================================================

func newsFeatureNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	f, err := q.GetNewsFeature(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting news feature %d: %w", id, err)
	}
	nodes, err := newsFeatureNodes(ctx, q, []store.NewsFeature{f})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// CreateNewsFeature adds a feature to an existing news item.
func (s *CatalogService) CreateNewsFeature(ctx context.Context, newsID int64, in FeatureInput) (translation.View, error) {
	title, err := primaryValue(in.Title, in.Translations, store.NewsFeatureTranslations)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetNews(ctx, newsID); err != nil {
			return fmt.Errorf("getting news %d: %w", newsID, err)
		}
		id, err := createNewsFeature(ctx, q, newsID, title, in.Translations, s.now())
		if err != nil {
			return err
		}
		node, err := newsFeatureNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateNewsFeature applies in to an existing news feature.
func (s *CatalogService) UpdateNewsFeature(ctx context.Context, id int64, in FeatureInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetNewsFeature(ctx, id)
		if err != nil {
			return fmt.Errorf("getting news feature %d: %w", id, err)
		}
		title, err := resyncPrimary(cur.Title, in.Title, in.Translations, store.NewsFeatureTranslations)
		if err != nil {
			return err
		}
		if err := q.UpdateNewsFeatureTitle(ctx, id, title); err != nil {
			return fmt.Errorf("updating news feature %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.NewsFeatureTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := newsFeatureNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteNewsFeature removes a news feature and its translations.
func (s *CatalogService) DeleteNewsFeature(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteNewsFeature(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting news feature %d: %w", id, err)
		}
		return mustExist(n, "news feature")
	})
}

// ============================================================================
// News authors
// ============================================================================

func newsAuthorNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	a, err := q.GetNewsAuthor(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting news author %d: %w", id, err)
	}
	nodes, err := newsAuthorNodes(ctx, q, []store.NewsAuthor{a})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// ListNewsAuthors returns a page of news authors.
func (s *CatalogService) ListNewsAuthors(ctx context.Context, opts ListOptions) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.ListNewsAuthors(ctx, opts.params())
		if err != nil {
			return fmt.Errorf("listing news authors: %w", err)
		}
		nodes, err := newsAuthorNodes(ctx, q, items)
		if err != nil {
			return err
		}
		total, err := q.CountNewsAuthors(ctx)
		if err != nil {
			return fmt.Errorf("counting news authors: %w", err)
		}
		page = Page{Items: translation.ProjectAll(nodes, opts.Lang), Total: total}
		return nil
	})
	return page, err
}

// GetNewsAuthor returns one news author.
func (s *CatalogService) GetNewsAuthor(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := newsAuthorNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

// CreateNewsAuthor inserts a news author with translations.
func (s *CatalogService) CreateNewsAuthor(ctx context.Context, in NewsAuthorInput) (translation.View, error) {
	name, err := primaryValue(in.Name, in.Translations, store.NewsAuthorTranslations)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		now := s.now()
		id, err := q.CreateNewsAuthor(ctx, store.CreateNewsAuthorParams{
			Name:      name,
			ImageURL:  util.ApplyString(sql.NullString{}, in.ImageURL),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating news author: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.NewsAuthorTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := newsAuthorNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateNewsAuthor applies in to an existing news author.
func (s *CatalogService) UpdateNewsAuthor(ctx context.Context, id int64, in NewsAuthorInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetNewsAuthor(ctx, id)
		if err != nil {
			return fmt.Errorf("getting news author %d: %w", id, err)
		}
		name, err := resyncPrimary(cur.Name, in.Name, in.Translations, store.NewsAuthorTranslations)
		if err != nil {
			return err
		}
		if err := q.UpdateNewsAuthor(ctx, store.UpdateNewsAuthorParams{
			ID:        id,
			Name:      name,
			ImageURL:  util.ApplyString(cur.ImageURL, in.ImageURL),
			UpdatedAt: s.now(),
		}); err != nil {
			return fmt.Errorf("updating news author %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.NewsAuthorTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := newsAuthorNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteNewsAuthor removes a news author. Their news items are kept without
// an author.
func (s *CatalogService) DeleteNewsAuthor(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteNewsAuthor(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting news author %d: %w", id, err)
		}
		return mustExist(n, "news author")
	})
}
