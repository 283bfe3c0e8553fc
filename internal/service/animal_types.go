// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

// AnimalTypeInput is the write model of an animal type. Nil and unset fields
// are left unchanged on update; nil Translations leaves the rows untouched.
type AnimalTypeInput struct {
	Name         *string
	ImageURL     util.Optional[string]
	Translations translation.Input
}

func animalTypeAttrs(a store.AnimalType) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"name":       a.Name,
		"image_url":  util.NullStringValue(a.ImageURL),
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}

func animalTypeNodes(ctx context.Context, q *store.Queries, items []store.AnimalType) ([]translation.Node, error) {
	return loadNodes(ctx, q, store.AnimalTypeTranslations, items,
		func(a store.AnimalType) int64 { return a.ID }, animalTypeAttrs)
}

func animalTypeNode(ctx context.Context, q *store.Queries, id int64) (translation.Node, error) {
	a, err := q.GetAnimalType(ctx, id)
	if err != nil {
		return translation.Node{}, fmt.Errorf("getting animal type %d: %w", id, err)
	}
	nodes, err := animalTypeNodes(ctx, q, []store.AnimalType{a})
	if err != nil {
		return translation.Node{}, err
	}
	return nodes[0], nil
}

// ListAnimalTypes returns a page of animal types.
func (s *CatalogService) ListAnimalTypes(ctx context.Context, opts ListOptions) (Page, error) {
	var page Page
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.ListAnimalTypes(ctx, opts.params())
		if err != nil {
			return fmt.Errorf("listing animal types: %w", err)
		}
		nodes, err := animalTypeNodes(ctx, q, items)
		if err != nil {
			return err
		}
		total, err := q.CountAnimalTypes(ctx)
		if err != nil {
			return fmt.Errorf("counting animal types: %w", err)
		}
		page = Page{Items: translation.ProjectAll(nodes, opts.Lang), Total: total}
		return nil
	})
	return page, err
}

// GetAnimalType returns one animal type projected for lang.
func (s *CatalogService) GetAnimalType(ctx context.Context, id int64, lang *i18n.Code) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		node, err := animalTypeNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, lang)
		return nil
	})
	return view, err
}

// CreateAnimalType inserts an animal type with its translations.
func (s *CatalogService) CreateAnimalType(ctx context.Context, in AnimalTypeInput) (translation.View, error) {
	name, err := primaryValue(in.Name, in.Translations, store.AnimalTypeTranslations)
	if err != nil {
		return nil, err
	}

	var view translation.View
	err = s.inTx(ctx, func(q *store.Queries) error {
		now := s.now()
		id, err := q.CreateAnimalType(ctx, store.CreateAnimalTypeParams{
			Name:      name,
			ImageURL:  util.ApplyString(sql.NullString{}, in.ImageURL),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating animal type: %w", err)
		}
		if err := translation.Reconcile(ctx, q, store.AnimalTypeTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := animalTypeNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// UpdateAnimalType applies in to an existing animal type.
func (s *CatalogService) UpdateAnimalType(ctx context.Context, id int64, in AnimalTypeInput) (translation.View, error) {
	var view translation.View
	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetAnimalType(ctx, id)
		if err != nil {
			return fmt.Errorf("getting animal type %d: %w", id, err)
		}
		name, err := resyncPrimary(cur.Name, in.Name, in.Translations, store.AnimalTypeTranslations)
		if err != nil {
			return err
		}
		if err := q.UpdateAnimalType(ctx, store.UpdateAnimalTypeParams{
			ID:        id,
			Name:      name,
			ImageURL:  util.ApplyString(cur.ImageURL, in.ImageURL),
			UpdatedAt: s.now(),
		}); err != nil {
			return fmt.Errorf("updating animal type %d: %w", id, err)
		}
		if err := translation.Reconcile(ctx, q, store.AnimalTypeTranslations, id, in.Translations); err != nil {
			return err
		}
		node, err := animalTypeNode(ctx, q, id)
		if err != nil {
			return err
		}
		view = translation.Project(node, nil)
		return nil
	})
	return view, err
}

// DeleteAnimalType removes an animal type and its translations. Products of
// that type are kept without one.
func (s *CatalogService) DeleteAnimalType(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteAnimalType(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting animal type %d: %w", id, err)
		}
		return mustExist(n, "animal type")
	})
}
