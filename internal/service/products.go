// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

// ProductInput is the write model of a product.
//
// On update, nil pointers and unset optionals keep the stored value, and nil
// Translations leaves the translation rows untouched. A non-nil Features
// replaces the product's features; nil keeps them.
type ProductInput struct {
	Name          *string
	Price         util.Optional[float64]
	Stock         *int64
	Manufacturer  util.Optional[string]
	ImageURL      util.Optional[string]
	IsNew         *bool
	AnimalTypeID  util.Optional[int64]
	CategoryID    util.Optional[int64]
	SubcategoryID util.Optional[int64]
	Translations  translation.Input
	Features      []FeatureInput
}

// FeatureInput is the write model of a product or news feature.
type FeatureInput struct {
	Title        *string
	Translations translation.Input
}

func (in ProductInput) validate() error {
	verr := &ValidationError{}
	if in.Price.Set && !in.Price.Null && in.Price.Value < 0 {
		verr.Add("price", "must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}
	return verr.Err()
}

func productAttrs(p store.Product) map[string]any {
	return map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"price":          util.NullFloat64Value(p.Price),
		"stock":          p.Stock,
		"manufacturer":   util.NullStringValue(p.Manufacturer),
		"image_url":      util.NullStringValue(p.ImageURL),
		"is_new":         p.IsNew,
		"animal_type_id": util.NullInt64Value(p.AnimalTypeID),
		"category_id":    util.NullInt64Value(p.CategoryID),
		"subcategory_id": util.NullInt64Value(p.SubcategoryID),
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

func productFeatureAttrs(f store.ProductFeature) map[string]any {
	return map[string]any{
		"id":         f.ID,
		"product_id": f.ProductID,
		"title":      f.Title,
		"created_at": f.CreatedAt,
	}
}

func productFeatureNodes(ctx context.Context, q *store.Queries, items []store.ProductFeature) ([]translation.Node, error) {
	return loadNodes(ctx, q, store.ProductFeatureTranslations, items,
		func(f store.ProductFeature) int64 { return f.ID }, productFeatureAttrs)
}

// productNodes loads products with their features, animal type, category and
// subcategory. Each relation costs a fixed number of queries regardless of
// how many products are loaded.
func productNodes(ctx context.Context, q *store.Queries, items []store.Product) ([]translation.Node, error) {
	nodes, err := loadNodes(ctx, q, store.ProductTranslations, items,
		func(p store.Product) int64 { return p.ID }, productAttrs)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	var animalIDs, categoryIDs, subcategoryIDs []sql.NullInt64
	for i, p := range items {
		ids[i] = p.ID
		animalIDs = append(animalIDs, p.AnimalTypeID)
		categoryIDs = append(categoryIDs, p.CategoryID)
		subcategoryIDs = append(subcategoryIDs, p.SubcategoryID)
	}

	features, err := q.ListProductFeaturesByProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing product features: %w", err)
	}
	featureNodes, err := productFeatureNodes(ctx, q, features)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64][]translation.Node, len(items))
	for i, f := range features {
		byProduct[f.ProductID] = append(byProduct[f.ProductID], featureNodes[i])
	}

	animals, err := q.GetAnimalTypesByIDs(ctx, uniqueIDs(animalIDs))
	if err != nil {
		return nil, fmt.Errorf("loading animal types: %w", err)
	}
	animalNodes, err := animalTypeNodes(ctx, q, animals)
	if err != nil {
		return nil, err
	}

	categories, err := q.GetCategoriesByIDs(ctx, uniqueIDs(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	catNodes, err := loadNodes(ctx, q, store.CategoryTranslations, categories,
		func(c store.Category) int64 { return c.ID }, categoryAttrs)
	if err != nil {
		return nil, err
	}

	subcategories, err := q.GetSubcategoriesByIDs(ctx, uniqueIDs(subcategoryIDs))
	if err != nil {
		return nil, fmt.Errorf("loading subcategories: %w", err)
	}
	subNodes, err := subcategoryNodes(ctx, q, subcategories)
	if err != nil {
		return nil, err
	}

	animalIndex := indexNodes(animalNodes)
	categoryIndex := indexNodes(catNodes)
	subcategoryIndex := indexNodes(subNodes)
	for i, p := range items {
		nodes[i].Many = map[string][]translation.Node{"features": byProduct[p.ID]}
		nodes[i].One = map[string]*translation.Node{
			"animal_type": one(animalIndex, p.AnimalTypeID),
			"category":    one(categoryIndex, p.CategoryID),
			"subcategory": one(subcategoryIndex, p.SubcategoryID),
		}
	}
	return nodes, nil
}

func productNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	p, err := q.GetProduct(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting product %d: %w", id, err)
	}
	nodes, err := productNodes(ctx, q, []store.Product{p})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// ListProducts returns a filtered page of products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter, opts ListOptions) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.ListProducts(ctx, f, opts.params())
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}
		nodes, err := productNodes(ctx, q, items)
		if err != nil {
			return err
		}
		total, err := q.CountProducts(ctx, f)
		if err != nil {
			return fmt.Errorf("counting products: %w", err)
		}
		page = Page{Items: translation.ProjectAll(nodes, opts.Lang), Total: total}
		return nil
	})
	return page, err
}

// ListNewProducts returns products flagged as new.
func (s *CatalogService) ListNewProducts(ctx context.Context, opts ListOptions) (Page, error) {
	return s.ListProducts(ctx, store.ProductFilter{IsNew: sql.NullBool{Bool: true, Valid: true}}, opts)
}

// GetProduct returns one product with its features and relations.
func (s *CatalogService) GetProduct(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := productNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

// resolveCategory checks that the subcategory, when set, belongs to the
// category. A product with a subcategory but no category takes the
// subcategory's category.
func resolveCategory(ctx context.Context, q *store.Queries, category, subcategory sql.NullInt64) (sql.NullInt64, error) {
	if !subcategory.Valid {
		return category, nil
	}
	sub, err := q.GetSubcategory(ctx, subcategory.Int64)
	if errors.Is(err, sql.ErrNoRows) {
		return category, invalid("subcategory_id", "does not exist")
	}
	if err != nil {
		return category, fmt.Errorf("getting subcategory %d: %w", subcategory.Int64, err)
	}
	if !category.Valid {
		return sql.NullInt64{Int64: sub.CategoryID, Valid: true}, nil
	}
	if category.Int64 != sub.CategoryID {
		return category, invalid("subcategory_id", "does not belong to the given category")
	}
	return category, nil
}

func featureTitles(features []FeatureInput) ([]string, error) {
	titles := make([]string, len(features))
	for i, f := range features {
		v, err := primaryValue(f.Title, f.Translations, store.ProductFeatureTranslations)
		if err != nil {
			return nil, invalid(fmt.Sprintf("features[%d].title", i), "is required, either directly or in a translation")
		}
		titles[i] = v
	}
	return titles, nil
}

func createProductFeature(ctx context.Context, q *store.Queries, productID int64, title string,
	in translation.Input, now time.Time) (int64, error) {
	id, err := q.CreateProductFeature(ctx, store.CreateProductFeatureParams{
		ProductID: productID,
		Title:     title,
		CreatedAt: now,
	})
	if err != nil {
		return 0, fmt.Errorf("creating product feature: %w", err)
	}
	return id, translation.Reconcile(ctx, q, store.ProductFeatureTranslations, id, in)
}

// CreateProduct inserts a product, its translations and its features.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (translation.View, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	name, err := primaryValue(in.Name, in.Translations, store.ProductTranslations)
	if err != nil {
		return nil, err
	}
	titles, err := featureTitles(in.Features)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		params := store.CreateProductParams{
			Name:          name,
			Price:         util.ApplyFloat64(sql.NullFloat64{}, in.Price),
			Manufacturer:  util.ApplyString(sql.NullString{}, in.Manufacturer),
			ImageURL:      util.ApplyString(sql.NullString{}, in.ImageURL),
			AnimalTypeID:  util.ApplyInt64(sql.NullInt64{}, in.AnimalTypeID),
			CategoryID:    util.ApplyInt64(sql.NullInt64{}, in.CategoryID),
			SubcategoryID: util.ApplyInt64(sql.NullInt64{}, in.SubcategoryID),
		}
		if in.Stock != nil {
			params.Stock = *in.Stock
		}
		if in.IsNew != nil {
			params.IsNew = *in.IsNew
		}
		category, err := resolveCategory(ctx, q, params.CategoryID, params.SubcategoryID)
		if err != nil {
			return err
		}
		params.CategoryID = category

		now := s.now()
		params.CreatedAt, params.UpdatedAt = now, now
		id, err := q.CreateProduct(ctx, params)
		if err != nil {
			return fmt.Errorf("creating product: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.ProductTranslations, id, in.Translations); err != nil {
			return err
		}
		for i, f := range in.Features {
			if _, err := createProductFeature(ctx, q, id, titles[i], f.Translations, now); err != nil {
				return err
			}
		}

		node, err := productNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateProduct applies in to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (translation.View, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var titles []string
	if in.Features != nil {
		var err error
		if titles, err = featureTitles(in.Features); err != nil {
			return nil, err
		}
	}

	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("getting product %d: %w", id, err)
		}
		name, err := resyncPrimary(cur.Name, in.Name, in.Translations, store.ProductTranslations)
		if err != nil {
			return err
		}

		params := store.UpdateProductParams{
			ID:            id,
			Name:          name,
			Price:         util.ApplyFloat64(cur.Price, in.Price),
			Stock:         cur.Stock,
			Manufacturer:  util.ApplyString(cur.Manufacturer, in.Manufacturer),
			ImageURL:      util.ApplyString(cur.ImageURL, in.ImageURL),
			IsNew:         cur.IsNew,
			AnimalTypeID:  util.ApplyInt64(cur.AnimalTypeID, in.AnimalTypeID),
			CategoryID:    util.ApplyInt64(cur.CategoryID, in.CategoryID),
			SubcategoryID: util.ApplyInt64(cur.SubcategoryID, in.SubcategoryID),
			UpdatedAt:     s.now(),
		}
		if in.Stock != nil {
			params.Stock = *in.Stock
		}
		if in.IsNew != nil {
			params.IsNew = *in.IsNew
		}
		if in.CategoryID.Set || in.SubcategoryID.Set {
			category, err := resolveCategory(ctx, q, params.CategoryID, params.SubcategoryID)
			if err != nil {
				return err
			}
			params.CategoryID = category
		}

		if err := q.UpdateProduct(ctx, params); err != nil {
			return fmt.Errorf("updating product %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.ProductTranslations, id, in.Translations); err != nil {
			return err
		}
		if in.Features != nil {
			if err := replaceProductFeatures(ctx, q, id, in.Features, titles, params.UpdatedAt); err != nil {
				return err
			}
		}

		node, err := productNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

func replaceProductFeatures(ctx context.Context, q *store.Queries, productID int64, features []FeatureInput,
	titles []string, now time.Time) error {
	existing, err := q.ListProductFeaturesByProducts(ctx, []int64{productID})
	if err != nil {
		return fmt.Errorf("listing product features: %w", err)
	}
	for _, f := range existing {
		if _, err := q.DeleteProductFeature(ctx, f.ID); err != nil {
			return fmt.Errorf("deleting product feature %d: %w", f.ID, err)
		}
	}
	for i, f := range features {
		if _, err := createProductFeature(ctx, q, productID, titles[i], f.Translations, now); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct removes a product with its features and translations.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting product %d: %w", id, err)
		}
		return mustExist(n, "product")
	})
}

// ============================================================================
// Product features
// ============================================================================

func productFeatureNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	f, err := q.GetProductFeature(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting product feature %d: %w", id, err)
	}
	nodes, err := productFeatureNodes(ctx, q, []store.ProductFeature{f})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// CreateProductFeature adds a feature to an existing product.
func (s *CatalogService) CreateProductFeature(ctx context.Context, productID int64, in FeatureInput) (translation.View, error) {
	title, err := primaryValue(in.Title, in.Translations, store.ProductFeatureTranslations)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			return fmt.Errorf("getting product %d: %w", productID, err)
		}
		id, err := createProductFeature(ctx, q, productID, title, in.Translations, s.now())
		if err != nil {
			return err
		}
		node, err := productFeatureNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateProductFeature applies in to an existing feature.
func (s *CatalogService) UpdateProductFeature(ctx context.Context, id int64, in FeatureInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetProductFeature(ctx, id)
		if err != nil {
			return fmt.Errorf("getting product feature %d: %w", id, err)
		}
		title, err := resyncPrimary(cur.Title, in.Title, in.Translations, store.ProductFeatureTranslations)
		if err != nil {
			return err
		}
		if err := q.UpdateProductFeatureTitle(ctx, id, title); err != nil {
			return fmt.Errorf("updating product feature %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.ProductFeatureTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := productFeatureNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteProductFeature removes a feature and its translations.
func (s *CatalogService) DeleteProductFeature(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteProductFeature(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting product feature %d: %w", id, err)
		}
		return mustExist(n, "product feature")
	})
}
