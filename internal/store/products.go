// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const productColumns = "p.id, p.name, p.price, p.stock, p.manufacturer, p.image_url, p.is_new, " +
	"p.animal_type_id, p.category_id, p.subcategory_id, p.created_at, p.updated_at"

func scanProduct(sc scanner) (Product, error) {
	var p Product
	err := sc.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Manufacturer, &p.ImageURL, &p.IsNew,
		&p.AnimalTypeID, &p.CategoryID, &p.SubcategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ProductFilter narrows product listings. Zero-valued fields do not filter.
type ProductFilter struct {
	AnimalTypeID  sql.NullInt64
	CategoryID    sql.NullInt64
	SubcategoryID sql.NullInt64
	IsNew         sql.NullBool
	MinPrice      sql.NullFloat64
	MaxPrice      sql.NullFloat64
	// Search matches the fallback name or any translated name.
	Search string
}

func (f ProductFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AnimalTypeID.Valid {
		conds = append(conds, "p.animal_type_id = ?")
		args = append(args, f.AnimalTypeID.Int64)
	}
	if f.CategoryID.Valid {
		conds = append(conds, "p.category_id = ?")
		args = append(args, f.CategoryID.Int64)
	}
	if f.SubcategoryID.Valid {
		conds = append(conds, "p.subcategory_id = ?")
		args = append(args, f.SubcategoryID.Int64)
	}
	if f.IsNew.Valid {
		conds = append(conds, "p.is_new = ?")
		args = append(args, f.IsNew.Bool)
	}
	if f.MinPrice.Valid {
		conds = append(conds, "p.price >= ?")
		args = append(args, f.MinPrice.Float64)
	}
	if f.MaxPrice.Valid {
		conds = append(conds, "p.price <= ?")
		args = append(args, f.MaxPrice.Float64)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := likePattern(s)
		conds = append(conds, "(p.name LIKE ? ESCAPE '!' OR EXISTS ("+
			"SELECT 1 FROM product_translations t WHERE t.product_id = p.id AND t.name LIKE ? ESCAPE '!'))")
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CreateProductParams holds the values for a new product.
type CreateProductParams struct {
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

// CreateProduct inserts a product and returns its id.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (int64, error) {
	return q.insert(ctx,
		`INSERT INTO products (name, price, stock, manufacturer, image_url, is_new,
			animal_type_id, category_id, subcategory_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Price, arg.Stock, arg.Manufacturer, arg.ImageURL, arg.IsNew,
		arg.AnimalTypeID, arg.CategoryID, arg.SubcategoryID, arg.CreatedAt, arg.UpdatedAt)
}

// GetProduct returns sql.ErrNoRows when the product does not exist.
func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE p.id = ?", id))
}

// ListProducts returns a filtered page of products, newest first.
func (q *Queries) ListProducts(ctx context.Context, f ProductFilter, page ListParams) ([]Product, error) {
	where, args := f.where()
	args = append(args, page.Limit, page.Offset)
	return queryList(ctx, q.db, scanProduct,
		"SELECT "+productColumns+" FROM products p"+where+" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?",
		args...)
}

// CountProducts returns the number of products matching f.
func (q *Queries) CountProducts(ctx context.Context, f ProductFilter) (int64, error) {
	where, args := f.where()
	return q.count(ctx, "SELECT COUNT(*) FROM products p"+where, args...)
}

// UpdateProductParams holds the full scalar state of a product.
type UpdateProductParams struct {
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
	UpdatedAt     time.Time
}

// UpdateProduct overwrites the scalar columns of a product.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, stock = ?, manufacturer = ?, image_url = ?,
			is_new = ?, animal_type_id = ?, category_id = ?, subcategory_id = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.Price, arg.Stock, arg.Manufacturer, arg.ImageURL, arg.IsNew,
		arg.AnimalTypeID, arg.CategoryID, arg.SubcategoryID, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteProduct deletes a product with its features and returns the number of
// products removed.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM products WHERE id = ?", id)
}

// ============================================================================
// Product features
// ============================================================================

const productFeatureColumns = "id, product_id, title, created_at"

func scanProductFeature(sc scanner) (ProductFeature, error) {
	var f ProductFeature
	err := sc.Scan(&f.ID, &f.ProductID, &f.Title, &f.CreatedAt)
	return f, err
}

// CreateProductFeatureParams holds the values for a new product feature.
type CreateProductFeatureParams struct {
	ProductID int64
	Title     string
	CreatedAt time.Time
}

// CreateProductFeature inserts a feature and returns its id.
func (q *Queries) CreateProductFeature(ctx context.Context, arg CreateProductFeatureParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO product_features (product_id, title, created_at) VALUES (?, ?, ?)",
		arg.ProductID, arg.Title, arg.CreatedAt)
}

// GetProductFeature returns sql.ErrNoRows when the feature does not exist.
func (q *Queries) GetProductFeature(ctx context.Context, id int64) (ProductFeature, error) {
	return scanProductFeature(q.db.QueryRowContext(ctx,
		"SELECT "+productFeatureColumns+" FROM product_features WHERE id = ?", id))
}

// ListProductFeaturesByProducts returns the features of the given products
// ordered by id.
func (q *Queries) ListProductFeaturesByProducts(ctx context.Context, productIDs []int64) ([]ProductFeature, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return queryList(ctx, q.db, scanProductFeature,
		"SELECT "+productFeatureColumns+" FROM product_features WHERE product_id IN ("+placeholders(len(productIDs))+") ORDER BY id",
		int64Args(productIDs)...)
}

// UpdateProductFeatureTitle overwrites the fallback title of a feature.
func (q *Queries) UpdateProductFeatureTitle(ctx context.Context, id int64, title string) error {
	_, err := q.db.ExecContext(ctx, "UPDATE product_features SET title = ? WHERE id = ?", title, id)
	return err
}

// DeleteProductFeature deletes a feature and returns the number of rows removed.
func (q *Queries) DeleteProductFeature(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM product_features WHERE id = ?", id)
}
