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
)

// Home page section sizes.
const (
	HomeLatestNews  = 6
	HomeNewProducts = 8
)

// Home is the storefront landing data.
type Home struct {
	AnimalTypes []translation.View `json:"animal_types"`
	LatestNews  []translation.View `json:"latest_news"`
	NewProducts []translation.View `json:"new_products"`
}

// Home loads animal types, the latest news and new products from one
// snapshot, all projected for lang.
func (s *CatalogService) Home(ctx context.Context, lang *i18n.Code) (Home, error) {
	var home Home
	err := s.inTx(ctx, func(q *store.Queries) error {
		animals, err := q.ListAnimalTypes(ctx, store.ListParams{Limit: MaxLimit})
		if err != nil {
			return fmt.Errorf("listing animal types: %w", err)
		}
		animalNodes, err := animalTypeNodes(ctx, q, animals)
		if err != nil {
			return err
		}

		news, err := q.ListNews(ctx, store.NewsFilter{}, store.ListParams{Limit: HomeLatestNews})
		if err != nil {
			return fmt.Errorf("listing news: %w", err)
		}
		nodes, err := newsNodes(ctx, q, news)
		if err != nil {
			return err
		}

		products, err := q.ListProducts(ctx,
			store.ProductFilter{IsNew: sql.NullBool{Bool: true, Valid: true}},
			store.ListParams{Limit: HomeNewProducts})
		if err != nil {
			return fmt.Errorf("listing new products: %w", err)
		}
		productViews, err := productNodes(ctx, q, products)
		if err != nil {
			return err
		}

		home = Home{
			AnimalTypes: translation.ProjectAll(animalNodes, lang),
			LatestNews:  translation.ProjectAll(nodes, lang),
			NewProducts: translation.ProjectAll(productViews, lang),
		}
		return nil
	})
	return home, err
}
