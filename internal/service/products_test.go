// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

type productFixture struct {
	svc        *CatalogService
	dogs       int64
	food       int64
	toys       int64
	dryFood    int64
	rubberToys int64
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()
	svc := newCatalog(t)
	ctx := context.Background()

	dogs, err := svc.CreateAnimalType(ctx, AnimalTypeInput{
		Translations: translation.Input{"en": {"name": sp("Dogs")}, "ru": {"name": sp("Собаки")}},
	})
	require.NoError(t, err)

	food, err := svc.CreateCategory(ctx, CategoryInput{
		Name:          sp("Food"),
		Subcategories: []SubcategoryInput{{Name: sp("Dry Food")}},
	})
	require.NoError(t, err)
	toys, err := svc.CreateCategory(ctx, CategoryInput{
		Name:          sp("Toys"),
		Subcategories: []SubcategoryInput{{Name: sp("Rubber Toys")}},
	})
	require.NoError(t, err)

	return productFixture{
		svc:        svc,
		dogs:       dogs["id"].(int64),
		food:       food["id"].(int64),
		toys:       toys["id"].(int64),
		dryFood:    food["subcategories"].([]translation.View)[0]["id"].(int64),
		rubberToys: toys["subcategories"].([]translation.View)[0]["id"].(int64),
	}
}

func TestCreateProduct_EmbedsRelations(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	view, err := f.svc.CreateProduct(ctx, ProductInput{
		Price:         util.Some(45.99),
		Stock:         ptrTo(int64(10)),
		IsNew:         ptrTo(true),
		AnimalTypeID:  util.Some(f.dogs),
		SubcategoryID: util.Some(f.dryFood),
		Translations: translation.Input{
			"en": {"name": sp("Premium Food"), "description": sp("Chicken")},
			"ru": {"name": sp("Премиум корм")},
		},
		Features: []FeatureInput{
			{Translations: translation.Input{"en": {"title": sp("Healthy")}}},
			{Title: sp("Tasty")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 45.99, view["price"])
	assert.Equal(t, f.food, view["category_id"], "category is derived from the subcategory")
	assert.Equal(t, true, view["is_new"])

	animal := view["animal_type"].(translation.View)
	assert.Equal(t, "Собаки", perLang(animal, "name")["ru"])
	assert.Equal(t, f.food, view["category"].(translation.View)["id"])
	assert.Equal(t, f.dryFood, view["subcategory"].(translation.View)["id"])

	features := view["features"].([]translation.View)
	require.Len(t, features, 2)
	assert.Equal(t, "Healthy", perLang(features[0], "title")["en"])

	ru, err := f.svc.GetProduct(ctx, view["id"].(int64), lang(i18n.RU))
	require.NoError(t, err)
	assert.Equal(t, "Премиум корм", ru["name"])
	assert.Equal(t, "", ru["description"])
	assert.Equal(t, "Собаки", ru["animal_type"].(translation.View)["name"])
	assert.Equal(t, map[string]string{"en": "Healthy", "ru": "", "hy": ""},
		ru["features"].([]translation.View)[0]["title"])
}

func TestCreateProduct_MissingRelationsRenderNull(t *testing.T) {
	svc := newCatalog(t)

	view, err := svc.CreateProduct(context.Background(), ProductInput{Name: sp("Plain")})
	require.NoError(t, err)

	assert.Nil(t, view["animal_type"])
	assert.Nil(t, view["category"])
	assert.Nil(t, view["subcategory"])
	assert.Nil(t, view["price"])
	assert.Equal(t, []translation.View{}, view["features"])
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{name: "no name", in: ProductInput{}, field: "name"},
		{name: "negative price", in: ProductInput{Name: sp("x"), Price: util.Some(-1.0)}, field: "price"},
		{name: "negative stock", in: ProductInput{Name: sp("x"), Stock: ptrTo(int64(-5))}, field: "stock"},
		{name: "unknown subcategory", in: ProductInput{Name: sp("x"), SubcategoryID: util.Some(int64(999))}, field: "subcategory_id"},
		{
			name:  "subcategory of another category",
			in:    ProductInput{Name: sp("x"), CategoryID: util.Some(f.food), SubcategoryID: util.Some(f.rubberToys)},
			field: "subcategory_id",
		},
		{
			name:  "feature without title",
			in:    ProductInput{Name: sp("x"), Features: []FeatureInput{{}}},
			field: "features[0].title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(ctx, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	st, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Products, "failed creates leave nothing behind")
}

func TestCreateProduct_UnknownAnimalType(t *testing.T) {
	svc := newCatalog(t)

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:         sp("x"),
		AnimalTypeID: util.Some(int64(12345)),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestUpdateProduct_Partial(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateProduct(ctx, ProductInput{
		Price:        util.Some(10.0),
		Manufacturer: util.Some("Acme"),
		AnimalTypeID: util.Some(f.dogs),
		Translations: translation.Input{"en": {"name": sp("Ball")}, "ru": {"name": sp("Мяч")}},
		Features:     []FeatureInput{{Title: sp("Bouncy")}},
	})
	require.NoError(t, err)
	id := created["id"].(int64)

	view, err := f.svc.UpdateProduct(ctx, id, ProductInput{
		Price:        util.Some(12.5),
		Manufacturer: util.Null[string](),
	})
	require.NoError(t, err)

	assert.Equal(t, 12.5, view["price"])
	assert.Nil(t, view["manufacturer"])
	assert.Equal(t, f.dogs, view["animal_type_id"])
	assert.Equal(t, map[string]string{"en": "Ball", "ru": "Мяч", "hy": ""}, perLang(view, "name"))
	assert.Len(t, view["features"], 1, "nil features keep the existing ones")
}

func TestUpdateProduct_ReplacesFeatures(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{
		Name:     sp("Leash"),
		Features: []FeatureInput{{Title: sp("Long")}, {Title: sp("Strong")}},
	})
	require.NoError(t, err)
	id := created["id"].(int64)

	view, err := svc.UpdateProduct(ctx, id, ProductInput{
		Features: []FeatureInput{{Translations: translation.Input{"ru": {"title": sp("Светоотражающий")}}}},
	})
	require.NoError(t, err)
	features := view["features"].([]translation.View)
	require.Len(t, features, 1)
	assert.Equal(t, "Светоотражающий", perLang(features[0], "title")["ru"])

	view, err = svc.UpdateProduct(ctx, id, ProductInput{Features: []FeatureInput{}})
	require.NoError(t, err)
	assert.Empty(t, view["features"])
}

func TestUpdateProduct_FailureRollsBackEverything(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{
		Price:        util.Some(10.0),
		Translations: translation.Input{"en": {"name": sp("Ball")}, "ru": {"name": sp("Мяч")}},
		Features:     []FeatureInput{{Title: sp("Bouncy")}},
	})
	require.NoError(t, err)
	id := created["id"].(int64)

	// Fails the feature step, after the scalar update and translation writes.
	_, err = svc.db.ExecContext(ctx, `CREATE TRIGGER fail_feature_translations
		BEFORE INSERT ON product_feature_translations
		BEGIN SELECT RAISE(ABORT, 'feature translations disabled'); END`)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, id, ProductInput{
		Price: util.Some(99.0),
		Translations: translation.Input{
			"en": {"name": sp("Renamed")},
			"hy": {"name": sp("Գնդակ")},
		},
		Features: []FeatureInput{{Translations: translation.Input{"en": {"title": sp("Chewy")}}}},
	})
	require.Error(t, err)

	q := store.New(svc.db)
	p, err := q.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ball", p.Name)
	assert.Equal(t, 10.0, p.Price.Float64)

	rows, err := q.ListRows(ctx, store.ProductTranslations, id)
	require.NoError(t, err)
	names := map[i18n.Code]string{}
	for _, r := range rows {
		if v := r.Values["name"]; v != nil {
			names[r.Language] = *v
		}
	}
	assert.Equal(t, map[i18n.Code]string{"en": "Ball", "ru": "Мяч"}, names)

	features, err := q.ListProductFeaturesByProducts(ctx, []int64{id})
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Bouncy", features[0].Title)
}

func TestUpdateProduct_SubcategoryMustMatch(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateProduct(ctx, ProductInput{Name: sp("Kibble"), SubcategoryID: util.Some(f.dryFood)})
	require.NoError(t, err)
	id := created["id"].(int64)

	_, err = f.svc.UpdateProduct(ctx, id, ProductInput{CategoryID: util.Some(f.toys)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	view, err := f.svc.UpdateProduct(ctx, id, ProductInput{
		CategoryID:    util.Null[int64](),
		SubcategoryID: util.Some(f.rubberToys),
	})
	require.NoError(t, err)
	assert.Equal(t, f.toys, view["category_id"])
}

func TestProductFeatures_CRUD(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, ProductInput{Name: sp("Bed")})
	require.NoError(t, err)
	productID := product["id"].(int64)

	_, err = svc.CreateProductFeature(ctx, productID+1, FeatureInput{Title: sp("Soft")})
	assert.ErrorIs(t, err, ErrNotFound)

	feature, err := svc.CreateProductFeature(ctx, productID, FeatureInput{
		Translations: translation.Input{"en": {"title": sp("Soft"), "description": sp("Memory foam")}},
	})
	require.NoError(t, err)
	featureID := feature["id"].(int64)
	assert.Equal(t, productID, feature["product_id"])

	updated, err := svc.UpdateProductFeature(ctx, featureID, FeatureInput{
		Translations: translation.Input{"en": {"description": sp("Orthopedic foam")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Soft", perLang(updated, "title")["en"])
	assert.Equal(t, "Orthopedic foam", perLang(updated, "description")["en"])

	require.NoError(t, svc.DeleteProductFeature(ctx, featureID))
	assert.ErrorIs(t, svc.DeleteProductFeature(ctx, featureID), ErrNotFound)
}

func TestListProducts_Filters(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	inputs := []ProductInput{
		{Name: sp("Dog Kibble"), Price: util.Some(30.0), AnimalTypeID: util.Some(f.dogs), SubcategoryID: util.Some(f.dryFood), IsNew: ptrTo(true)},
		{Name: sp("Chew Toy"), Price: util.Some(8.0), AnimalTypeID: util.Some(f.dogs), SubcategoryID: util.Some(f.rubberToys)},
		{Translations: translation.Input{"en": {"name": sp("Cat Nip")}, "ru": {"name": sp("Кошачья мята")}}, Price: util.Some(4.0), IsNew: ptrTo(true)},
	}
	for _, in := range inputs {
		_, err := f.svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter store.ProductFilter
		want   int64
	}{
		{name: "all", filter: store.ProductFilter{}, want: 3},
		{name: "animal type", filter: store.ProductFilter{AnimalTypeID: sql.NullInt64{Int64: f.dogs, Valid: true}}, want: 2},
		{name: "category", filter: store.ProductFilter{CategoryID: sql.NullInt64{Int64: f.food, Valid: true}}, want: 1},
		{name: "subcategory", filter: store.ProductFilter{SubcategoryID: sql.NullInt64{Int64: f.rubberToys, Valid: true}}, want: 1},
		{name: "price range", filter: store.ProductFilter{
			MinPrice: sql.NullFloat64{Float64: 5, Valid: true},
			MaxPrice: sql.NullFloat64{Float64: 10, Valid: true},
		}, want: 1},
		{name: "search fallback name", filter: store.ProductFilter{Search: "kibble"}, want: 1},
		{name: "search translated name", filter: store.ProductFilter{Search: "мята"}, want: 1},
		{name: "search no match", filter: store.ProductFilter{Search: "parrot"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListProducts(ctx, tt.filter, ListOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
			assert.Len(t, page.Items, int(tt.want))
		})
	}

	newest, err := f.svc.ListNewProducts(ctx, ListOptions{Lang: lang(i18n.RU)})
	require.NoError(t, err)
	require.Equal(t, int64(2), newest.Total)
	assert.Equal(t, "Кошачья мята", newest.Items[0]["name"], "newest first")
	assert.Equal(t, map[string]string{"en": "", "ru": "", "hy": ""}, newest.Items[1]["name"])
}

func TestDeleteProduct(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{Name: sp("Brush"), Features: []FeatureInput{{Title: sp("Soft")}}})
	require.NoError(t, err)
	id := created["id"].(int64)
	featureID := created["features"].([]translation.View)[0]["id"].(int64)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	_, err = svc.GetProduct(ctx, id, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProductFeature(ctx, featureID), ErrNotFound, "features go with the product")
}

func TestDeleteAnimalType_DetachesProducts(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateProduct(ctx, ProductInput{Name: sp("Collar"), AnimalTypeID: util.Some(f.dogs)})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAnimalType(ctx, f.dogs))

	view, err := f.svc.GetProduct(ctx, created["id"].(int64), nil)
	require.NoError(t, err)
	assert.Nil(t, view["animal_type_id"])
	assert.Nil(t, view["animal_type"])
}
