// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

// richFields may carry basic formatting markup. Every other text field is
// reduced to plain text.
var richFields = map[string]bool{
	"description": true,
	"bio":         true,
	"summary":     true,
	"content":     true,
}

type sanitizer struct {
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{
		strict: bluemonday.StrictPolicy(),
		rich:   bluemonday.UGCPolicy(),
	}
}

// angleEscaper keeps angle brackets of plain fields as entities, so an
// entity-encoded tag never comes back as markup.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// text cleans v for field. Plain fields lose all markup and are unescaped
// again, except for angle brackets.
func (s *sanitizer) text(field, v string) string {
	if richFields[field] {
		return strings.TrimSpace(s.rich.Sanitize(v))
	}
	return strings.TrimSpace(angleEscaper.Replace(html.UnescapeString(s.strict.Sanitize(v))))
}

func (s *sanitizer) input(in translation.Input) translation.Input {
	if in == nil {
		return nil
	}
	out := make(translation.Input, len(in))
	for lang, fields := range in {
		clean := make(translation.Fields, len(fields))
		for name, v := range fields {
			if v == nil {
				clean[name] = nil
				continue
			}
			cv := s.text(name, *v)
			clean[name] = &cv
		}
		out[lang] = clean
	}
	return out
}

// scalar returns the plain string form of l, cleaned, or nil when l was
// absent or given as a language map.
func (s *sanitizer) scalar(field string, l translation.Localized) *string {
	v, ok := l.Plain()
	if !ok {
		return nil
	}
	cv := s.text(field, v)
	return &cv
}

// localized is one translatable request field. scalar marks fields that
// also exist as a column on the entity, so a plain string is meaningful.
type localized struct {
	name   string
	value  translation.Localized
	scalar bool
}

// translations resolves the translatable part of a write body. An explicit
// translations object wins; otherwise fields given as language maps are
// pivoted into one. A plain string on a field that only lives in the
// translation rows is reported in errs under prefix+name.
func (s *sanitizer) translations(schema translation.Schema, payload translation.Payload,
	fields []localized, errs *service.ValidationError, prefix string) translation.Input {
	if payload != nil {
		return s.input(payload.Resolve(schema))
	}

	byName := make(map[string]translation.Localized, len(fields))
	for _, f := range fields {
		if _, plain := f.value.Plain(); plain && !f.scalar {
			errs.Add(prefix+f.name, `must be a language map such as {"en": "..."}`)
			continue
		}
		byName[f.name] = f.value
	}
	return s.input(translation.Pivot(byName))
}

// animalTypeRequest is the body of animal type writes.
type animalTypeRequest struct {
	Name         translation.Localized `json:"name"`
	Description  translation.Localized `json:"description"`
	ImageURL     util.Optional[string] `json:"image_url"`
	Translations translation.Payload   `json:"translations"`
}

func (s *sanitizer) animalTypeInput(req animalTypeRequest) (service.AnimalTypeInput, error) {
	errs := &service.ValidationError{}
	in := service.AnimalTypeInput{
		Name:     s.scalar("name", req.Name),
		ImageURL: trimOptional(req.ImageURL),
		Translations: s.translations(store.AnimalTypeTranslations, req.Translations, []localized{
			{name: "name", value: req.Name, scalar: true},
			{name: "description", value: req.Description},
		}, errs, ""),
	}
	return in, errs.Err()
}

// categoryRequest is the body of category writes. Subcategories are only
// read on create.
type categoryRequest struct {
	Name          translation.Localized `json:"name"`
	Description   translation.Localized `json:"description"`
	Translations  translation.Payload   `json:"translations"`
	Subcategories []subcategoryRequest  `json:"subcategories"`
}

type subcategoryRequest struct {
	CategoryID   *int64                `json:"category_id"`
	Name         translation.Localized `json:"name"`
	Translations translation.Payload   `json:"translations"`
}

func (s *sanitizer) categoryInput(req categoryRequest) (service.CategoryInput, error) {
	errs := &service.ValidationError{}
	in := service.CategoryInput{
		Name: s.scalar("name", req.Name),
		Translations: s.translations(store.CategoryTranslations, req.Translations, []localized{
			{name: "name", value: req.Name, scalar: true},
			{name: "description", value: req.Description},
		}, errs, ""),
	}
	for i, sub := range req.Subcategories {
		in.Subcategories = append(in.Subcategories, s.subcategoryInputAt(sub, errs, fmt.Sprintf("subcategories[%d].", i)))
	}
	return in, errs.Err()
}

func (s *sanitizer) subcategoryInput(req subcategoryRequest) (service.SubcategoryInput, error) {
	errs := &service.ValidationError{}
	in := s.subcategoryInputAt(req, errs, "")
	return in, errs.Err()
}

func (s *sanitizer) subcategoryInputAt(req subcategoryRequest, errs *service.ValidationError, prefix string) service.SubcategoryInput {
	return service.SubcategoryInput{
		CategoryID: req.CategoryID,
		Name:       s.scalar("name", req.Name),
		Translations: s.translations(store.SubcategoryTranslations, req.Translations, []localized{
			{name: "name", value: req.Name, scalar: true},
		}, errs, prefix),
	}
}

// featureRequest is a product or news feature.
type featureRequest struct {
	Title        translation.Localized `json:"title"`
	Description  translation.Localized `json:"description"`
	Translations translation.Payload   `json:"translations"`
}

func (s *sanitizer) featureInput(schema translation.Schema, req featureRequest,
	errs *service.ValidationError, prefix string) service.FeatureInput {
	return service.FeatureInput{
		Title: s.scalar("title", req.Title),
		Translations: s.translations(schema, req.Translations, []localized{
			{name: "title", value: req.Title, scalar: true},
			{name: "description", value: req.Description},
		}, errs, prefix),
	}
}

// featureInputs keeps the nil/empty distinction: nil leaves features alone,
// an empty list removes them.
func (s *sanitizer) featureInputs(schema translation.Schema, reqs []featureRequest,
	errs *service.ValidationError) []service.FeatureInput {
	if reqs == nil {
		return nil
	}
	out := make([]service.FeatureInput, 0, len(reqs))
	for i, f := range reqs {
		out = append(out, s.featureInput(schema, f, errs, fmt.Sprintf("features[%d].", i)))
	}
	return out
}

// productRequest is the body of product writes.
type productRequest struct {
	Name          translation.Localized  `json:"name"`
	Description   translation.Localized  `json:"description"`
	Price         util.Optional[float64] `json:"price"`
	Stock         *int64                 `json:"stock"`
	Manufacturer  util.Optional[string]  `json:"manufacturer"`
	ImageURL      util.Optional[string]  `json:"image_url"`
	IsNew         *bool                  `json:"is_new"`
	AnimalTypeID  util.Optional[int64]   `json:"animal_type_id"`
	CategoryID    util.Optional[int64]   `json:"category_id"`
	SubcategoryID util.Optional[int64]   `json:"subcategory_id"`
	Translations  translation.Payload    `json:"translations"`
	Features      []featureRequest       `json:"features"`
}

func (s *sanitizer) productInput(req productRequest) (service.ProductInput, error) {
	errs := &service.ValidationError{}
	in := service.ProductInput{
		Name:          s.scalar("name", req.Name),
		Price:         req.Price,
		Stock:         req.Stock,
		Manufacturer:  s.optional("manufacturer", req.Manufacturer),
		ImageURL:      trimOptional(req.ImageURL),
		IsNew:         req.IsNew,
		AnimalTypeID:  req.AnimalTypeID,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Translations: s.translations(store.ProductTranslations, req.Translations, []localized{
			{name: "name", value: req.Name, scalar: true},
			{name: "description", value: req.Description},
		}, errs, ""),
		Features: s.featureInputs(store.ProductFeatureTranslations, req.Features, errs),
	}
	return in, errs.Err()
}

// newsRequest is the body of news writes.
type newsRequest struct {
	Title        translation.Localized `json:"title"`
	Summary      translation.Localized `json:"summary"`
	Content      translation.Localized `json:"content"`
	ImageURL     util.Optional[string] `json:"image_url"`
	AuthorID     util.Optional[int64]  `json:"author_id"`
	PublishedAt  *time.Time            `json:"published_at"`
	Translations translation.Payload   `json:"translations"`
	Features     []featureRequest      `json:"features"`
}

func (s *sanitizer) newsInput(req newsRequest) (service.NewsInput, error) {
	errs := &service.ValidationError{}
	in := service.NewsInput{
		Title:       s.scalar("title", req.Title),
		ImageURL:    trimOptional(req.ImageURL),
		AuthorID:    req.AuthorID,
		PublishedAt: req.PublishedAt,
		Translations: s.translations(store.NewsTranslations, req.Translations, []localized{
			{name: "title", value: req.Title, scalar: true},
			{name: "summary", value: req.Summary},
			{name: "content", value: req.Content},
		}, errs, ""),
		Features: s.featureInputs(store.NewsFeatureTranslations, req.Features, errs),
	}
	return in, errs.Err()
}

// newsAuthorRequest is the body of news author writes.
type newsAuthorRequest struct {
	Name         translation.Localized `json:"name"`
	Position     translation.Localized `json:"position"`
	Bio          translation.Localized `json:"bio"`
	ImageURL     util.Optional[string] `json:"image_url"`
	Translations translation.Payload   `json:"translations"`
}

func (s *sanitizer) newsAuthorInput(req newsAuthorRequest) (service.NewsAuthorInput, error) {
	errs := &service.ValidationError{}
	in := service.NewsAuthorInput{
		Name:     s.scalar("name", req.Name),
		ImageURL: trimOptional(req.ImageURL),
		Translations: s.translations(store.NewsAuthorTranslations, req.Translations, []localized{
			{name: "name", value: req.Name, scalar: true},
			{name: "position", value: req.Position},
			{name: "bio", value: req.Bio},
		}, errs, ""),
	}
	return in, errs.Err()
}

func (s *sanitizer) optional(field string, o util.Optional[string]) util.Optional[string] {
	if o.Set && !o.Null {
		o.Value = s.text(field, o.Value)
	}
	return o
}

// trimOptional trims URLs; an empty string clears the column.
func trimOptional(o util.Optional[string]) util.Optional[string] {
	if o.Set && !o.Null {
		o.Value = strings.TrimSpace(o.Value)
		if o.Value == "" {
			return util.Null[string]()
		}
	}
	return o
}
