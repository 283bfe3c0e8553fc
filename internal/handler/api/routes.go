// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/petshop-go/internal/middleware"
)

// Routes returns the API router, meant to be mounted at /api/v1. authLimit
// throttles registration and login; nil disables it.
func (h *Handler) Routes(authLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Language)

	bearer := middleware.BearerAuth(h.users, h.tokens)
	limited := []func(http.Handler) http.Handler{}
	if authLimit != nil {
		limited = append(limited, authLimit)
	}
	login := limited
	if h.protection != nil {
		login = append(append([]func(http.Handler) http.Handler{}, limited...), h.protection.Middleware())
	}

	r.Get("/status", h.Status)
	r.Get("/languages", h.Languages)
	r.Get("/home", h.Home)

	r.Get("/animal-types", h.ListAnimalTypes)
	r.Get("/animal-types/{id}", h.GetAnimalType)

	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{id}", h.GetCategory)
	r.Get("/categories/{id}/subcategories", h.ListSubcategories)
	r.Get("/subcategories/{id}", h.GetSubcategory)

	r.Get("/products", h.ListProducts)
	r.Get("/products/new", h.ListNewProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Get("/news", h.ListNews)
	r.Get("/news/{id}", h.GetNews)
	r.Get("/news-authors", h.ListNewsAuthors)
	r.Get("/news-authors/{id}", h.GetNewsAuthor)

	r.Route("/auth", func(r chi.Router) {
		r.With(limited...).Post("/register", h.Register)
		r.With(login...).Post("/login", h.Login)
		r.With(bearer).Get("/me", h.Me)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(bearer, middleware.RequireAdmin)

		r.Get("/statistics", h.Statistics)
		r.Post("/uploads", h.UploadImage)

		registerCRUD(r, "/animal-types", crudHandlers{
			Create: h.CreateAnimalType, Update: h.UpdateAnimalType, Delete: h.DeleteAnimalType,
		})
		registerCRUD(r, "/categories", crudHandlers{
			Create: h.CreateCategory, Update: h.UpdateCategory, Delete: h.DeleteCategory,
		})
		registerCRUD(r, "/subcategories", crudHandlers{
			Create: h.CreateSubcategory, Update: h.UpdateSubcategory, Delete: h.DeleteSubcategory,
		})
		registerCRUD(r, "/products", crudHandlers{
			Create: h.CreateProduct, Update: h.UpdateProduct, Delete: h.DeleteProduct,
		})
		registerCRUD(r, "/news", crudHandlers{
			Create: h.CreateNews, Update: h.UpdateNews, Delete: h.DeleteNews,
		})
		registerCRUD(r, "/news-authors", crudHandlers{
			Create: h.CreateNewsAuthor, Update: h.UpdateNewsAuthor, Delete: h.DeleteNewsAuthor,
		})

		r.Post("/products/{id}/features", h.CreateProductFeature)
		r.Put("/product-features/{id}", h.UpdateProductFeature)
		r.Delete("/product-features/{id}", h.DeleteProductFeature)

		r.Post("/news/{id}/features", h.CreateNewsFeature)
		r.Put("/news-features/{id}", h.UpdateNewsFeature)
		r.Delete("/news-features/{id}", h.DeleteNewsFeature)
	})

	return r
}

// crudHandlers defines the admin write handlers of a resource.
type crudHandlers struct {
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// registerCRUD registers POST base, PUT base/{id} and DELETE base/{id}.
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Post(base, h.Create)
	r.Put(base+"/{id}", h.Update)
	r.Delete(base+"/{id}", h.Delete)
}
