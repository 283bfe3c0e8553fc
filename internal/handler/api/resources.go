// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
)

// EntityFetcher loads one entity projected for lang.
type EntityFetcher func(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error)

// PageLister loads one page of entities.
type PageLister func(ctx context.Context, opts service.ListOptions) (service.Page, error)

// serveOne answers GET /{id} for entity.
func serveOne(w http.ResponseWriter, r *http.Request, entity string, fetch EntityFetcher) {
	id, ok := requireID(w, r, entity)
	if !ok {
		return
	}
	view, err := fetch(r.Context(), id, middleware.GetLanguage(r))
	if err != nil {
		writeServiceError(w, r, err, entity)
		return
	}
	WriteSuccess(w, view, nil)
}

// servePage answers a paginated list.
func servePage(w http.ResponseWriter, r *http.Request, entity string, list PageLister) {
	opts, p := listOptions(r)
	page, err := list(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, err, entity)
		return
	}
	WriteSuccess(w, page.Items, newMeta(page.Total, p))
}

// serveWrite decodes a Req body, converts it and applies it. status is the
// success code, 201 for creates and 200 for updates.
func serveWrite[Req, In any](w http.ResponseWriter, r *http.Request, entity string, status int,
	convert func(Req) (In, error), apply func(ctx context.Context, in In) (translation.View, error)) {
	var req Req
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := convert(req)
	if err != nil {
		writeServiceError(w, r, err, entity)
		return
	}
	view, err := apply(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, entity)
		return
	}
	WriteJSON(w, status, Response{Data: view})
}

// serveCreate answers POST on a collection.
func serveCreate[Req, In any](w http.ResponseWriter, r *http.Request, entity string,
	convert func(Req) (In, error), create func(ctx context.Context, in In) (translation.View, error)) {
	serveWrite(w, r, entity, http.StatusCreated, convert, create)
}

// serveUpdate answers PUT /{id}.
func serveUpdate[Req, In any](w http.ResponseWriter, r *http.Request, entity string,
	convert func(Req) (In, error), update func(ctx context.Context, id int64, in In) (translation.View, error)) {
	id, ok := requireID(w, r, entity)
	if !ok {
		return
	}
	serveWrite(w, r, entity, http.StatusOK, convert, func(ctx context.Context, in In) (translation.View, error) {
		return update(ctx, id, in)
	})
}

// serveDelete answers DELETE /{id} with 204.
func serveDelete(w http.ResponseWriter, r *http.Request, entity string, del func(ctx context.Context, id int64) error) {
	id, ok := requireID(w, r, entity)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeServiceError(w, r, err, entity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Animal types
// ============================================================================

// ListAnimalTypes handles GET /api/v1/animal-types
func (h *Handler) ListAnimalTypes(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "Animal type", h.catalog.ListAnimalTypes)
}

// GetAnimalType handles GET /api/v1/animal-types/{id}
func (h *Handler) GetAnimalType(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "Animal type", h.catalog.GetAnimalType)
}

// CreateAnimalType handles POST /api/v1/admin/animal-types
func (h *Handler) CreateAnimalType(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "Animal type", h.sanitizer.animalTypeInput, h.catalog.CreateAnimalType)
}

// UpdateAnimalType handles PUT /api/v1/admin/animal-types/{id}
func (h *Handler) UpdateAnimalType(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "Animal type", h.sanitizer.animalTypeInput, h.catalog.UpdateAnimalType)
}

// DeleteAnimalType handles DELETE /api/v1/admin/animal-types/{id}
func (h *Handler) DeleteAnimalType(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "Animal type", h.catalog.DeleteAnimalType)
}

// ============================================================================
// Categories and subcategories
// ============================================================================

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "Category", h.catalog.ListCategories)
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "Category", h.catalog.GetCategory)
}

// ListSubcategories handles GET /api/v1/categories/{id}/subcategories
func (h *Handler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "Category")
	if !ok {
		return
	}
	views, err := h.catalog.ListSubcategories(r.Context(), id, middleware.GetLanguage(r))
	if err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	WriteSuccess(w, views, nil)
}

// CreateCategory handles POST /api/v1/admin/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "Category", h.sanitizer.categoryInput, h.catalog.CreateCategory)
}

// UpdateCategory handles PUT /api/v1/admin/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "Category", h.sanitizer.categoryInput, h.catalog.UpdateCategory)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{id}
// Subcategories go with it; products keep existing without a category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "Category", h.catalog.DeleteCategory)
}

// GetSubcategory handles GET /api/v1/subcategories/{id}
func (h *Handler) GetSubcategory(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "Subcategory", h.catalog.GetSubcategory)
}

// CreateSubcategory handles POST /api/v1/admin/subcategories
func (h *Handler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "Subcategory", h.sanitizer.subcategoryInput, h.catalog.CreateSubcategory)
}

// UpdateSubcategory handles PUT /api/v1/admin/subcategories/{id}
func (h *Handler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "Subcategory", h.sanitizer.subcategoryInput, h.catalog.UpdateSubcategory)
}

// DeleteSubcategory handles DELETE /api/v1/admin/subcategories/{id}
func (h *Handler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "Subcategory", h.catalog.DeleteSubcategory)
}

// ============================================================================
// Products
// ============================================================================

// ListProducts handles GET /api/v1/products
// Filters: animal_type_id, category_id, subcategory_id, is_new, min_price,
// max_price, search.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	servePage(w, r, "Product", func(ctx context.Context, opts service.ListOptions) (service.Page, error) {
		return h.catalog.ListProducts(ctx, filter, opts)
	})
}

// ListNewProducts handles GET /api/v1/products/new
func (h *Handler) ListNewProducts(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "Product", h.catalog.ListNewProducts)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "Product", h.catalog.GetProduct)
}

// CreateProduct handles POST /api/v1/admin/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "Product", h.sanitizer.productInput, h.catalog.CreateProduct)
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "Product", h.sanitizer.productInput, h.catalog.UpdateProduct)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "Product", h.catalog.DeleteProduct)
}

func (h *Handler) productFeatureInput(req featureRequest) (service.FeatureInput, error) {
	errs := &service.ValidationError{}
	in := h.sanitizer.featureInput(store.ProductFeatureTranslations, req, errs, "")
	return in, errs.Err()
}

// CreateProductFeature handles POST /api/v1/admin/products/{id}/features
func (h *Handler) CreateProductFeature(w http.ResponseWriter, r *http.Request) {
	productID, ok := requireID(w, r, "Product")
	if !ok {
		return
	}
	serveCreate(w, r, "Product", h.productFeatureInput,
		func(ctx context.Context, in service.FeatureInput) (translation.View, error) {
			return h.catalog.CreateProductFeature(ctx, productID, in)
		})
}

// UpdateProductFeature handles PUT /api/v1/admin/product-features/{id}
func (h *Handler) UpdateProductFeature(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "Product feature", h.productFeatureInput, h.catalog.UpdateProductFeature)
}

// DeleteProductFeature handles DELETE /api/v1/admin/product-features/{id}
func (h *Handler) DeleteProductFeature(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "Product feature", h.catalog.DeleteProductFeature)
}

// ============================================================================
// News
// ============================================================================

// ListNews handles GET /api/v1/news
// Filters: search, author_id.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	filter := newsFilter(r)
	servePage(w, r, "News", func(ctx context.Context, opts service.ListOptions) (service.Page, error) {
		return h.catalog.ListNews(ctx, filter, opts)
	})
}

// GetNews handles GET /api/v1/news/{id}
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "News", h.catalog.GetNews)
}

// CreateNews handles POST /api/v1/admin/news
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "News", h.sanitizer.newsInput, h.catalog.CreateNews)
}

// UpdateNews handles PUT /api/v1/admin/news/{id}
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "News", h.sanitizer.newsInput, h.catalog.UpdateNews)
}

// DeleteNews handles DELETE /api/v1/admin/news/{id}
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "News", h.catalog.DeleteNews)
}

func (h *Handler) newsFeatureInput(req featureRequest) (service.FeatureInput, error) {
	errs := &service.ValidationError{}
	in := h.sanitizer.featureInput(store.NewsFeatureTranslations, req, errs, "")
	return in, errs.Err()
}

// CreateNewsFeature handles POST /api/v1/admin/news/{id}/features
func (h *Handler) CreateNewsFeature(w http.ResponseWriter, r *http.Request) {
	newsID, ok := requireID(w, r, "News")
	if !ok {
		return
	}
	serveCreate(w, r, "News", h.newsFeatureInput,
		func(ctx context.Context, in service.FeatureInput) (translation.View, error) {
			return h.catalog.CreateNewsFeature(ctx, newsID, in)
		})
}

// UpdateNewsFeature handles PUT /api/v1/admin/news-features/{id}
func (h *Handler) UpdateNewsFeature(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "News feature", h.newsFeatureInput, h.catalog.UpdateNewsFeature)
}

// DeleteNewsFeature handles DELETE /api/v1/admin/news-features/{id}
func (h *Handler) DeleteNewsFeature(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "News feature", h.catalog.DeleteNewsFeature)
}

// ListNewsAuthors handles GET /api/v1/news-authors
func (h *Handler) ListNewsAuthors(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "News author", h.catalog.ListNewsAuthors)
}

// GetNewsAuthor handles GET /api/v1/news-authors/{id}
func (h *Handler) GetNewsAuthor(w http.ResponseWriter, r *http.Request) {
	serveOne(w, r, "News author", h.catalog.GetNewsAuthor)
}

// CreateNewsAuthor handles POST /api/v1/admin/news-authors
func (h *Handler) CreateNewsAuthor(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "News author", h.sanitizer.newsAuthorInput, h.catalog.CreateNewsAuthor)
}

// UpdateNewsAuthor handles PUT /api/v1/admin/news-authors/{id}
func (h *Handler) UpdateNewsAuthor(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, "News author", h.sanitizer.newsAuthorInput, h.catalog.UpdateNewsAuthor)
}

// DeleteNewsAuthor handles DELETE /api/v1/admin/news-authors/{id}
// News by the author is kept and loses its author.
func (h *Handler) DeleteNewsAuthor(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, "News author", h.catalog.DeleteNewsAuthor)
}
