// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "github.com/olegiv/petshop-go/internal/translation"

// Translation tables, one per translatable entity family. These are the only
// identifiers ever interpolated into translation SQL.
var (
	AnimalTypeTranslations = translation.Schema{
		Table:      "animal_type_translations",
		ForeignKey: "animal_type_id",
		Fields:     []string{"name", "description"},
		Primary:    "name",
	}

	CategoryTranslations = translation.Schema{
		Table:      "category_translations",
		ForeignKey: "category_id",
		Fields:     []string{"name", "description"},
		Primary:    "name",
	}

	SubcategoryTranslations = translation.Schema{
		Table:      "subcategory_translations",
		ForeignKey: "subcategory_id",
		Fields:     []string{"name"},
		Primary:    "name",
	}

	ProductTranslations = translation.Schema{
		Table:      "product_translations",
		ForeignKey: "product_id",
		Fields:     []string{"name", "description"},
		Primary:    "name",
	}

	ProductFeatureTranslations = translation.Schema{
		Table:      "product_feature_translations",
		ForeignKey: "product_feature_id",
		Fields:     []string{"title", "description"},
		Primary:    "title",
	}

	NewsAuthorTranslations = translation.Schema{
		Table:      "news_author_translations",
		ForeignKey: "news_author_id",
		Fields:     []string{"name", "position", "bio"},
		Primary:    "name",
	}

	NewsTranslations = translation.Schema{
		Table:      "news_translations",
		ForeignKey: "news_id",
		Fields:     []string{"title", "summary", "content"},
		Primary:    "title",
	}

	NewsFeatureTranslations = translation.Schema{
		Table:      "news_feature_translations",
		ForeignKey: "news_feature_id",
		Fields:     []string{"title", "description"},
		Primary:    "title",
	}
)
