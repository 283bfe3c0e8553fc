// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
)

// CategoryInput is the write model of a category. Subcategories are only
// read on create, where they are inserted together with the category.
type CategoryInput struct {
	Name          *string
	Translations  translation.Input
	Subcategories []SubcategoryInput
}

// SubcategoryInput is the write model of a subcategory. CategoryID is
// required on create and ignored when nested under a new category.
type SubcategoryInput struct {
	CategoryID   *int64
	Name         *string
	Translations translation.Input
}

func categoryAttrs(c store.Category) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func subcategoryAttrs(sc store.Subcategory) map[string]any {
	return map[string]any{
		"id":          sc.ID,
		"category_id": sc.CategoryID,
		"name":        sc.Name,
		"created_at":  sc.CreatedAt,
		"updated_at":  sc.UpdatedAt,
	}
}

func subcategoryNodes(ctx context.Context, q *store.Queries, items []store.Subcategory) ([]translation.Node, error) {
	return loadNodes(ctx, q, store.SubcategoryTranslations, items,
		func(sc store.Subcategory) int64 { return sc.ID }, subcategoryAttrs)
}

// categoryNodes loads categories with their subcategories.
func categoryNodes(ctx context.Context, q *store.Queries, items []store.Category) ([]translation.Node, error) {
	nodes, err := loadNodes(ctx, q, store.CategoryTranslations, items,
		func(c store.Category) int64 { return c.ID }, categoryAttrs)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}
	subs, err := q.ListSubcategoriesByCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing subcategories: %w", err)
	}
	subNodes, err := subcategoryNodes(ctx, q, subs)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]translation.Node, len(items))
	for i, sc := range subs {
		byCategory[sc.CategoryID] = append(byCategory[sc.CategoryID], subNodes[i])
	}
	for i, c := range items {
		nodes[i].Many = map[string][]translation.Node{"subcategories": byCategory[c.ID]}
	}
	return nodes, nil
}

func categoryNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	c, err := q.GetCategory(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting category %d: %w", id, err)
	}
	nodes, err := categoryNodes(ctx, q, []store.Category{c})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

func subcategoryNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	sc, err := q.GetSubcategory(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting subcategory %d: %w", id, err)
	}
	nodes, err := subcategoryNodes(ctx, q, []store.Subcategory{sc})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// ListCategories returns a page of categories with their subcategories.
func (s *CatalogService) ListCategories(ctx context.Context, opts ListOptions) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.ListCategories(ctx, opts.params())
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		nodes, err := categoryNodes(ctx, q, items)
		if err != nil {
			return err
		}
		total, err := q.CountCategories(ctx)
		if err != nil {
			return fmt.Errorf("counting categories: %w", err)
		}
		page = Page{Items: translation.ProjectAll(nodes, opts.Lang), Total: total}
		return nil
	})
	return page, err
}

// GetCategory returns one category with its subcategories.
func (s *CatalogService) GetCategory(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := categoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

// CreateCategory inserts a category, its translations and any nested
// subcategories in one transaction.
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (translation.View, error) {
	name, err := primaryValue(in.Name, in.Translations, store.CategoryTranslations)
	if err != nil {
		return nil, err
	}
	subNames := make([]string, len(in.Subcategories))
	for i, sub := range in.Subcategories {
		v, err := primaryValue(sub.Name, sub.Translations, store.SubcategoryTranslations)
		if err != nil {
			return nil, invalid(fmt.Sprintf("subcategories[%d].name", i), "is required, either directly or in a translation")
		}
		subNames[i] = v
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		now := s.now()
		id, err := q.CreateCategory(ctx, store.CreateCategoryParams{Name: name, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.CategoryTranslations, id, in.Translations); err != nil {
			return err
		}
		for i, sub := range in.Subcategories {
			if err := createSubcategory(ctx, q, id, subNames[i], sub.Translations, now); err != nil {
				return err
			}
		}
		node, err := categoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateCategory applies in to an existing category. Subcategories are
// managed through their own operations.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("getting category %d: %w", id, err)
		}
		name, err := resyncPrimary(cur.Name, in.Name, in.Translations, store.CategoryTranslations)
		if err != nil {
			return err
		}
		if err := q.UpdateCategory(ctx, store.UpdateCategoryParams{ID: id, Name: name, UpdatedAt: s.now()}); err != nil {
			return fmt.Errorf("updating category %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.CategoryTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := categoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteCategory removes a category with its subcategories. Products keep
// existing without a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting category %d: %w", id, err)
		}
		return mustExist(n, "category")
	})
}

// ============================================================================
// Subcategories
// ============================================================================

func createSubcategory(ctx context.Context, q *store.Queries, categoryID int64, name string,
	in translation.Input, now time.Time) error {
	id, err := q.CreateSubcategory(ctx, store.CreateSubcategoryParams{
		CategoryID: categoryID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("creating subcategory: %w", err)
	}
	return translation.Reconcile(ctx, q, store.SubcategoryTranslations, id, in)
}

// ListSubcategories returns the subcategories of a category.
func (s *CatalogService) ListSubcategories(ctx context.Context, categoryID int64, lang *i18n.Code) ([]translation.View, error) {
	var views []translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			return fmt.Errorf("getting category %d: %w", categoryID, err)
		}
		subs, err := q.ListSubcategoriesByCategories(ctx, []int64{categoryID})
		if err != nil {
			return fmt.Errorf("listing subcategories: %w", err)
		}
		nodes, err := subcategoryNodes(ctx, q, subs)
		if err != nil {
			return err
		}
		views = translation.ProjectAll(nodes, lang)
		return nil
	})
	return views, err
}

// GetSubcategory returns one subcategory.
func (s *CatalogService) GetSubcategory(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := subcategoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

// CreateSubcategory inserts a subcategory under an existing category.
func (s *CatalogService) CreateSubcategory(ctx context.Context, in SubcategoryInput) (translation.View, error) {
	if in.CategoryID == nil {
		return nil, invalid("category_id", "is required")
	}
	name, err := primaryValue(in.Name, in.Translations, store.SubcategoryTranslations)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		now := s.now()
		id, err := q.CreateSubcategory(ctx, store.CreateSubcategoryParams{
			CategoryID: *in.CategoryID,
			Name:       name,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("creating subcategory: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.SubcategoryTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := subcategoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateSubcategory applies in to an existing subcategory. Setting
// CategoryID moves it to another category.
func (s *CatalogService) UpdateSubcategory(ctx context.Context, id int64, in SubcategoryInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetSubcategory(ctx, id)
		if err != nil {
			return fmt.Errorf("getting subcategory %d: %w", id, err)
		}
		name, err := resyncPrimary(cur.Name, in.Name, in.Translations, store.SubcategoryTranslations)
		if err != nil {
			return err
		}
		categoryID := cur.CategoryID
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		if err := q.UpdateSubcategory(ctx, store.UpdateSubcategoryParams{
			ID:         id,
			CategoryID: categoryID,
			Name:       name,
			UpdatedAt:  s.now(),
		}); err != nil {
			return fmt.Errorf("updating subcategory %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.SubcategoryTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := subcategoryNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteSubcategory removes a subcategory. Products keep existing without one.
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteSubcategory(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting subcategory %d: %w", id, err)
		}
		return mustExist(n, "subcategory")
	})
}
