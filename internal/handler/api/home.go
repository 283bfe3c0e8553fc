// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/petshop-go/internal/middleware"
)

// Home handles GET /api/v1/home
// Returns animal types, the latest news and new products in one response.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Home(r.Context(), middleware.GetLanguage(r))
	if err != nil {
		writeServiceError(w, r, err, "Home")
		return
	}
	WriteSuccess(w, home, nil)
}

// StatisticsResponse holds catalog-wide counters.
type StatisticsResponse struct {
	TotalUsers         int64 `json:"total_users"`
	TotalAnimalTypes   int64 `json:"total_animal_types"`
	TotalCategories    int64 `json:"total_categories"`
	TotalSubcategories int64 `json:"total_subcategories"`
	TotalProducts      int64 `json:"total_products"`
	NewProducts        int64 `json:"new_products"`
	TotalNews          int64 `json:"total_news"`
	TotalNewsAuthors   int64 `json:"total_news_authors"`
}

// Statistics handles GET /api/v1/admin/statistics
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.catalog.Statistics(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Statistics")
		return
	}
	WriteSuccess(w, StatisticsResponse{
		TotalUsers:         st.Users,
		TotalAnimalTypes:   st.AnimalTypes,
		TotalCategories:    st.Categories,
		TotalSubcategories: st.Subcategories,
		TotalProducts:      st.Products,
		NewProducts:        st.NewProducts,
		TotalNews:          st.News,
		TotalNewsAuthors:   st.NewsAuthors,
	}, nil)
}
