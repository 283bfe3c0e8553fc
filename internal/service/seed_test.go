// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/translation"
)

func TestSeedCatalog(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, SeedCatalog(ctx, svc))

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoAnimalTypes)), st.AnimalTypes)
	assert.Equal(t, int64(len(demoCategories)), st.Categories)
	assert.Equal(t, int64(7), st.Subcategories)
	assert.Equal(t, int64(3), st.Products)
	assert.Equal(t, int64(2), st.NewProducts)
	assert.Equal(t, int64(2), st.News)
	assert.Equal(t, int64(2), st.NewsAuthors)

	require.NoError(t, SeedCatalog(ctx, svc), "second run is a no-op")
	again, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, again)

	home, err := svc.Home(ctx, lang(i18n.HY))
	require.NoError(t, err)
	require.Len(t, home.LatestNews, 2)
	assert.Equal(t, "Շները կարող են հասկանալ մինչև 250 բառ", home.LatestNews[1]["title"])
	assert.Equal(t, map[string]string{"en": "Why Cats Knead", "ru": "Почему кошки мнут лапками", "hy": ""},
		home.LatestNews[0]["title"], "no Armenian row falls back to every language")

	for _, p := range home.NewProducts {
		assert.NotNil(t, p["subcategory"])
		assert.NotNil(t, p["category"], "category follows the subcategory")
		assert.IsType(t, translation.View{}, p["animal_type"])
	}
}
