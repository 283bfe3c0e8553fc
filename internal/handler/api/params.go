// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/util"
)

// Pagination defaults for list endpoints.
const (
	defaultPerPage = service.DefaultLimit
	maxPerPage     = service.MaxLimit
	// maxPage keeps (page-1)*per_page far from overflow.
	maxPage     = 1 << 20
	maxJSONBody = 1 << 20
)

type pagination struct {
	Page    int
	PerPage int
}

// parsePagination reads page and per_page. Missing or malformed values fall
// back to the first page of the default size.
func parsePagination(r *http.Request) pagination {
	p := pagination{Page: 1, PerPage: defaultPerPage}
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = min(v, maxPage)
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 {
		p.PerPage = min(v, maxPerPage)
	}
	return p
}

// listOptions combines pagination with the request language.
func listOptions(r *http.Request) (service.ListOptions, pagination) {
	p := parsePagination(r)
	return service.ListOptions{
		Lang:   middleware.GetLanguage(r),
		Limit:  int64(p.PerPage),
		Offset: int64((p.Page - 1) * p.PerPage),
	}, p
}

// parseIDParam reads the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// requireID parses {id} and writes a 400 when it is not a positive integer.
func requireID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+strings.ToLower(entity)+" ID", nil)
		return 0, false
	}
	return id, true
}

func writeTooLarge(w http.ResponseWriter) {
	middleware.WriteAPIError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
		"Request body is too large", nil)
}

// decodeJSON decodes the request body into dst. Bodies over maxJSONBody get
// a 413, anything else that does not decode a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeTooLarge(w)
	case errors.Is(err, io.EOF):
		WriteBadRequest(w, "Request body is empty", nil)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		WriteBadRequest(w, "Invalid JSON body", map[string]string{typeErr.Field: "has the wrong type"})
	default:
		WriteBadRequest(w, "Invalid JSON body", nil)
	}
	return false
}

// productFilter reads the product list filters. Malformed numbers are
// ignored rather than rejected.
func productFilter(r *http.Request) store.ProductFilter {
	q := r.URL.Query()
	return store.ProductFilter{
		AnimalTypeID:  util.ParseNullInt64Positive(q.Get("animal_type_id")),
		CategoryID:    util.ParseNullInt64Positive(q.Get("category_id")),
		SubcategoryID: util.ParseNullInt64Positive(q.Get("subcategory_id")),
		IsNew:         util.ParseNullBool(q.Get("is_new")),
		MinPrice:      util.ParseNullFloat64(q.Get("min_price")),
		MaxPrice:      util.ParseNullFloat64(q.Get("max_price")),
		Search:        strings.TrimSpace(q.Get("search")),
	}
}

func newsFilter(r *http.Request) store.NewsFilter {
	q := r.URL.Query()
	return store.NewsFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		AuthorID: util.ParseNullInt64Positive(q.Get("author_id")),
	}
}
