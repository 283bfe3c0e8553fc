// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is an account that can authenticate against the API.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// AnimalType is a species the catalog is browsed by (cats, dogs, ...).
type AnimalType struct {
	ID        int64
	Name      string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a top-level product category.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         int64
	CategoryID int64
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a sellable catalog item.
type Product struct {
	ID            int64
	Name          string
	Price         sql.NullFloat64
	Stock         int64
	Manufacturer  sql.NullString
	ImageURL      sql.NullString
	IsNew         bool
	AnimalTypeID  sql.NullInt64
	CategoryID    sql.NullInt64
	SubcategoryID sql.NullInt64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductFeature is a bullet point owned by a Product.
type ProductFeature struct {
	ID        int64
	ProductID int64
	Title     string
	CreatedAt time.Time
}

// NewsAuthor writes news items.
type NewsAuthor struct {
	ID        int64
	Name      string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// News is a published article.
type News struct {
	ID          int64
	Title       string
	ImageURL    sql.NullString
	AuthorID    sql.NullInt64
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewsFeature is a highlighted point owned by a News item.
type NewsFeature struct {
	ID        int64
	NewsID    int64
	Title     string
	CreatedAt time.Time
}

// Statistics holds catalog-wide counters for the admin dashboard.
type Statistics struct {
	Users         int64
	AnimalTypes   int64
	Categories    int64
	Subcategories int64
	Products      int64
	NewProducts   int64
	News          int64
	NewsAuthors   int64
}
