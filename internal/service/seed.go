// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/petshop-go/internal/translation"
	"github.com/olegiv/petshop-go/internal/util"
)

func names(en, ru, hy string) translation.Input {
	return translation.Input{
		"en": translation.Text(en).Fields("name"),
		"ru": translation.Text(ru).Fields("name"),
		"hy": translation.Text(hy).Fields("name"),
	}
}

func described(field string, en, enDesc, ru, ruDesc, hy, hyDesc string) translation.Input {
	return translation.Input{
		"en": {field: &en, "description": &enDesc},
		"ru": {field: &ru, "description": &ruDesc},
		"hy": {field: &hy, "description": &hyDesc},
	}
}

type demoSubcategory struct {
	en, ru, hy string
}

type demoCategory struct {
	en, ru, hy string
	subs       []demoSubcategory
}

var demoAnimalTypes = []struct {
	image        string
	translations translation.Input
}{
	{
		image: "https://images.unsplash.com/photo-1587300003388-59208cc962cb",
		translations: described("name",
			"Dogs", "Man's best friend. Loyal, loving companions for families and individuals alike.",
			"Собаки", "Лучший друг человека. Верные и любящие компаньоны для семей и отдельных людей.",
			"Շներ", "Մարդու լավագույն ընկերը: Հավատարիմ և սիրող ընկերներ ընտանիքների և անհատների համար:"),
	},
	{
		image: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba",
		translations: described("name",
			"Cats", "Independent and graceful pets.",
			"Кошки", "Независимые и грациозные питомцы.",
			"Կատուներ", "Անկախ և նրբագեղ կենդանիներ:"),
	},
	{
		image: "https://images.unsplash.com/photo-1552728089-57bdde30beb3",
		translations: described("name",
			"Birds", "Colorful and melodious companions.",
			"Птицы", "Красочные и мелодичные компаньоны.",
			"Թռչուններ", "Գունազարդ և մեղեդային ընկերներ:"),
	},
	{
		image: "https://images.unsplash.com/photo-1520990269312-e4e1bb9e0e01",
		translations: described("name",
			"Fish", "Peaceful aquatic pets.",
			"Рыбы", "Спокойные водные питомцы.",
			"Ձկներ", "Խաղաղ ջրային կենդանիներ:"),
	},
}

var demoCategories = []demoCategory{
	{en: "Food", ru: "Корм", hy: "Կեր", subs: []demoSubcategory{
		{"Dry Food", "Сухой корм", "Չոր կեր"},
		{"Wet Food", "Влажный корм", "Խոնավ կեր"},
		{"Treats", "Лакомства", "Մրցանակներ"},
	}},
	{en: "Toys", ru: "Игрушки", hy: "Խաղալիքներ", subs: []demoSubcategory{
		{"Rubber Toys", "Резиновые игрушки", "Ռետինե խաղալիքներ"},
		{"Interactive Toys", "Интерактивные игрушки", "Ինտերակտիվ խաղալիքներ"},
	}},
	{en: "Accessories", ru: "Аксессуары", hy: "Աքսեսուարներ", subs: []demoSubcategory{
		{"Collars & Leashes", "Ошейники и поводки", "Կոլարներ և վարիչներ"},
		{"Bowls & Feeders", "Миски и кормушки", "Սկուտեղներ և կերատարներ"},
	}},
}

// SeedCatalog inserts a small demo catalog through the regular write path.
// It does nothing when the catalog already has animal types or products.
func SeedCatalog(ctx context.Context, catalog *CatalogService) error {
	stats, err := catalog.Statistics(ctx)
	if err != nil {
		return err
	}
	if stats.AnimalTypes > 0 || stats.Products > 0 {
		slog.InfoContext(ctx, "catalog is not empty, skipping demo seed")
		return nil
	}

	animalIDs := make(map[string]int64, len(demoAnimalTypes))
	for _, a := range demoAnimalTypes {
		view, err := catalog.CreateAnimalType(ctx, AnimalTypeInput{
			ImageURL:     util.Some(a.image),
			Translations: a.translations,
		})
		if err != nil {
			return fmt.Errorf("seeding animal type: %w", err)
		}
		name, _ := a.translations.First("name")
		animalIDs[name] = view["id"].(int64)
	}

	categoryIDs := make(map[string]int64, len(demoCategories))
	subcategoryIDs := make(map[string]int64)
	for _, c := range demoCategories {
		subs := make([]SubcategoryInput, 0, len(c.subs))
		for _, sc := range c.subs {
			subs = append(subs, SubcategoryInput{Translations: names(sc.en, sc.ru, sc.hy)})
		}
		view, err := catalog.CreateCategory(ctx, CategoryInput{
			Translations:  names(c.en, c.ru, c.hy),
			Subcategories: subs,
		})
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", c.en, err)
		}
		categoryIDs[c.en] = view["id"].(int64)
		for _, sv := range view["subcategories"].([]translation.View) {
			subcategoryIDs[sv["name"].(map[string]string)["en"]] = sv["id"].(int64)
		}
	}

	authors := make([]int64, 0, 2)
	for _, in := range []translation.Input{
		{
			"en": fieldsOf("name", "Dr. Michael Roberts", "position", "Veterinary Scientist"),
			"ru": fieldsOf("name", "Доктор Майкл Робертс", "position", "Ветеринарный ученый"),
			"hy": fieldsOf("name", "Դոկտոր Մայքլ Ռոբերտս", "position", "Վետերինար գիտնական"),
		},
		{
			"en": fieldsOf("name", "Emily Chen", "position", "Feline Behavior Specialist"),
			"ru": fieldsOf("name", "Эмили Чен", "position", "Специалист по поведению кошек"),
			"hy": fieldsOf("name", "Էմիլի Չեն", "position", "Կատուների վարքագծի մասնագետ"),
		},
	} {
		view, err := catalog.CreateNewsAuthor(ctx, NewsAuthorInput{Translations: in})
		if err != nil {
			return fmt.Errorf("seeding news author: %w", err)
		}
		authors = append(authors, view["id"].(int64))
	}

	products := []ProductInput{
		{
			Price:         util.Some(45.99),
			Stock:         ptrTo(int64(150)),
			Manufacturer:  util.Some("PremiumPet Nutrition"),
			IsNew:         ptrTo(true),
			AnimalTypeID:  util.Some(animalIDs["Dogs"]),
			SubcategoryID: util.Some(subcategoryIDs["Dry Food"]),
			Translations: described("name",
				"Premium Dog Food - Chicken & Rice", "High-quality dry dog food with real chicken and brown rice.",
				"Премиум корм для собак - Курица и рис", "Высококачественный сухой корм для собак с настоящей курицей и рисом.",
				"Պրեմիում շների կեր - Հավ և բրինձ", "Բարձրորակ չոր կեր շների համար իրական հավով և բրինձով:"),
			Features: []FeatureInput{
				{Translations: described("title",
					"Complete Nutrition", "Essential vitamins, minerals and antioxidants.",
					"Полноценное питание", "Необходимые витамины, минералы и антиоксиданты.",
					"Լրիվ սնուցում", "Անհրաժեշտ վիտամիններ, հանքանյութեր և հակաօքսիդանտներ:")},
				{Translations: described("title",
					"Digestive Health", "Prebiotic fibers and probiotics.",
					"Здоровье пищеварения", "Пребиотические волокна и пробиотики.",
					"Մարսողական առողջություն", "Պրեբիոտիկ մանրաթելեր և պրոբիոտիկներ:")},
			},
		},
		{
			Price:         util.Some(12.99),
			Stock:         ptrTo(int64(200)),
			Manufacturer:  util.Some("PlaySafe Toys"),
			AnimalTypeID:  util.Some(animalIDs["Dogs"]),
			SubcategoryID: util.Some(subcategoryIDs["Rubber Toys"]),
			Translations: described("name",
				"Interactive Dog Toy Ball", "Durable rubber ball that bounces unpredictably.",
				"Интерактивный мяч для собак", "Прочный резиновый мяч, который непредсказуемо подпрыгивает.",
				"Ինտերակտիվ գնդակ շների համար", "Ամուր ռետինե գնդակ, որը անկանխատեսելի է ցատկում:"),
			Features: []FeatureInput{
				{Translations: described("title",
					"Durable Construction", "Non-toxic rubber that withstands heavy chewing.",
					"Прочная конструкция", "Нетоксичная резина, выдерживающая сильное жевание.",
					"Դիմացկուն կառուցվածք", "Ոչ թունավոր ռետին, որն դիմակայում է ծամելուն:")},
			},
		},
		{
			Price:         util.Some(8.49),
			Stock:         ptrTo(int64(80)),
			IsNew:         ptrTo(true),
			AnimalTypeID:  util.Some(animalIDs["Cats"]),
			CategoryID:    util.Some(categoryIDs["Accessories"]),
			SubcategoryID: util.Some(subcategoryIDs["Bowls & Feeders"]),
			Translations: described("name",
				"Ceramic Cat Bowl", "Shallow bowl that keeps whiskers comfortable.",
				"Керамическая миска для кошек", "Неглубокая миска, удобная для усов.",
				"Կերամիկական աման կատուների համար", "Ծանծաղ աման, որը հարմար է բեղերի համար:"),
		},
	}
	for _, p := range products {
		if _, err := catalog.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seeding product: %w", err)
		}
	}

	news := []NewsInput{
		{
			AuthorID:    util.Some(authors[0]),
			ImageURL:    util.Some("https://images.unsplash.com/photo-1560807707-8cc77767d783"),
			PublishedAt: ptrTo(catalog.now().Add(-48 * time.Hour)),
			Translations: translation.Input{
				"en": fieldsOf("title", "Dogs Can Understand Up to 250 Words",
					"summary", "Research shows dogs learn vocabulary comparable to a 2-year-old child."),
				"ru": fieldsOf("title", "Собаки могут понимать до 250 слов",
					"summary", "Исследования показывают, что собаки осваивают словарный запас двухлетнего ребенка."),
				"hy": fieldsOf("title", "Շները կարող են հասկանալ մինչև 250 բառ",
					"summary", "Հետազոտությունը ցույց է տալիս, որ շները սովորում են 2 տարեկան երեխայի բառապաշար:"),
			},
			Features: []FeatureInput{
				{Translations: described("title",
					"Study Duration", "Three-year study across several institutions.",
					"Продолжительность исследования", "Трехлетнее исследование в нескольких учреждениях.",
					"Ուսումնասիրության տևողությունը", "Երեք տարվա ուսումնասիրություն մի քանի հաստատություններում:")},
			},
		},
		{
			AuthorID:    util.Some(authors[1]),
			PublishedAt: ptrTo(catalog.now().Add(-24 * time.Hour)),
			Translations: translation.Input{
				"en": fieldsOf("title", "Why Cats Knead", "summary", "A look at one of the most common feline behaviors."),
				"ru": fieldsOf("title", "Почему кошки мнут лапками", "summary", "Об одном из самых распространенных кошачьих поведений."),
			},
		},
	}
	for _, n := range news {
		if _, err := catalog.CreateNews(ctx, n); err != nil {
			return fmt.Errorf("seeding news: %w", err)
		}
	}

	slog.InfoContext(ctx, "seeded demo catalog",
		"animal_types", len(demoAnimalTypes),
		"categories", len(demoCategories),
		"products", len(products),
		"news", len(news),
	)
	return nil
}

func fieldsOf(kv ...string) translation.Fields {
	f := make(translation.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		v := kv[i+1]
		f[kv[i]] = &v
	}
	return f
}

func ptrTo[T any](v T) *T {
	return &v
}
