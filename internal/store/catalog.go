// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// ============================================================================
// Animal types
// ============================================================================

const animalTypeColumns = "id, name, image_url, created_at, updated_at"

func scanAnimalType(sc scanner) (AnimalType, error) {
	var a AnimalType
	err := sc.Scan(&a.ID, &a.Name, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAnimalTypeParams holds the values for a new animal type.
type CreateAnimalTypeParams struct {
	Name      string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAnimalType inserts an animal type and returns its id.
func (q *Queries) CreateAnimalType(ctx context.Context, arg CreateAnimalTypeParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO animal_types (name, image_url, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Name, arg.ImageURL, arg.CreatedAt, arg.UpdatedAt)
}

// GetAnimalType returns sql.ErrNoRows when the animal type does not exist.
func (q *Queries) GetAnimalType(ctx context.Context, id int64) (AnimalType, error) {
	return scanAnimalType(q.db.QueryRowContext(ctx, "SELECT "+animalTypeColumns+" FROM animal_types WHERE id = ?", id))
}

func (q *Queries) queryAnimalTypes(ctx context.Context, query string, args ...any) ([]AnimalType, error) {
	return queryList(ctx, q.db, scanAnimalType, query, args...)
}

// ListAnimalTypes returns a page of animal types ordered by id.
func (q *Queries) ListAnimalTypes(ctx context.Context, arg ListParams) ([]AnimalType, error) {
	return q.queryAnimalTypes(ctx,
		"SELECT "+animalTypeColumns+" FROM animal_types ORDER BY id LIMIT ? OFFSET ?", arg.Limit, arg.Offset)
}

// GetAnimalTypesByIDs returns the animal types with the given ids.
func (q *Queries) GetAnimalTypesByIDs(ctx context.Context, ids []int64) ([]AnimalType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return q.queryAnimalTypes(ctx,
		"SELECT "+animalTypeColumns+" FROM animal_types WHERE id IN ("+placeholders(len(ids))+")", int64Args(ids)...)
}

// CountAnimalTypes returns the number of animal types.
func (q *Queries) CountAnimalTypes(ctx context.Context) (int64, error) {
	return q.count(ctx, "SELECT COUNT(*) FROM animal_types")
}

// UpdateAnimalTypeParams holds the full scalar state of an animal type.
type UpdateAnimalTypeParams struct {
	ID        int64
	Name      string
	ImageURL  sql.NullString
	UpdatedAt time.Time
}

// UpdateAnimalType overwrites the scalar columns of an animal type.
func (q *Queries) UpdateAnimalType(ctx context.Context, arg UpdateAnimalTypeParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE animal_types SET name = ?, image_url = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.ImageURL, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteAnimalType deletes an animal type and returns the number of rows removed.
func (q *Queries) DeleteAnimalType(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM animal_types WHERE id = ?", id)
}

// ============================================================================
// Categories
// ============================================================================

const categoryColumns = "id, name, created_at, updated_at"

func scanCategory(sc scanner) (Category, error) {
	var c Category
	err := sc.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) queryCategories(ctx context.Context, query string, args ...any) ([]Category, error) {
	return queryList(ctx, q.db, scanCategory, query, args...)
}

// CreateCategoryParams holds the values for a new category.
type CreateCategoryParams struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategory inserts a category and returns its id.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)",
		arg.Name, arg.CreatedAt, arg.UpdatedAt)
}

// GetCategory returns sql.ErrNoRows when the category does not exist.
func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
}

// ListCategories returns a page of categories ordered by id.
func (q *Queries) ListCategories(ctx context.Context, arg ListParams) ([]Category, error) {
	return q.queryCategories(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY id LIMIT ? OFFSET ?", arg.Limit, arg.Offset)
}

// GetCategoriesByIDs returns the categories with the given ids.
func (q *Queries) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return q.queryCategories(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id IN ("+placeholders(len(ids))+")", int64Args(ids)...)
}

// CountCategories returns the number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	return q.count(ctx, "SELECT COUNT(*) FROM categories")
}

// UpdateCategoryParams holds the full scalar state of a category.
type UpdateCategoryParams struct {
	ID        int64
	Name      string
	UpdatedAt time.Time
}

// UpdateCategory overwrites the scalar columns of a category.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteCategory deletes a category with its subcategories and returns the
// number of categories removed.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM categories WHERE id = ?", id)
}

// ============================================================================
// Subcategories
// ============================================================================

const subcategoryColumns = "id, category_id, name, created_at, updated_at"

func scanSubcategory(sc scanner) (Subcategory, error) {
	var s Subcategory
	err := sc.Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) querySubcategories(ctx context.Context, query string, args ...any) ([]Subcategory, error) {
	return queryList(ctx, q.db, scanSubcategory, query, args...)
}

// CreateSubcategoryParams holds the values for a new subcategory.
type CreateSubcategoryParams struct {
	CategoryID int64
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateSubcategory inserts a subcategory and returns its id.
func (q *Queries) CreateSubcategory(ctx context.Context, arg CreateSubcategoryParams) (int64, error) {
	return q.insert(ctx,
		"INSERT INTO subcategories (category_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.CategoryID, arg.Name, arg.CreatedAt, arg.UpdatedAt)
}

// GetSubcategory returns sql.ErrNoRows when the subcategory does not exist.
func (q *Queries) GetSubcategory(ctx context.Context, id int64) (Subcategory, error) {
	return scanSubcategory(q.db.QueryRowContext(ctx, "SELECT "+subcategoryColumns+" FROM subcategories WHERE id = ?", id))
}

// ListSubcategoriesByCategories returns the subcategories of the given
// categories ordered by id.
func (q *Queries) ListSubcategoriesByCategories(ctx context.Context, categoryIDs []int64) ([]Subcategory, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	return q.querySubcategories(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories WHERE category_id IN ("+placeholders(len(categoryIDs))+") ORDER BY id",
		int64Args(categoryIDs)...)
}

// GetSubcategoriesByIDs returns the subcategories with the given ids.
func (q *Queries) GetSubcategoriesByIDs(ctx context.Context, ids []int64) ([]Subcategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return q.querySubcategories(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories WHERE id IN ("+placeholders(len(ids))+")", int64Args(ids)...)
}

// UpdateSubcategoryParams holds the full scalar state of a subcategory.
type UpdateSubcategoryParams struct {
	ID         int64
	CategoryID int64
	Name       string
	UpdatedAt  time.Time
}

// UpdateSubcategory overwrites the scalar columns of a subcategory.
func (q *Queries) UpdateSubcategory(ctx context.Context, arg UpdateSubcategoryParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE subcategories SET category_id = ?, name = ?, updated_at = ? WHERE id = ?",
		arg.CategoryID, arg.Name, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteSubcategory deletes a subcategory and returns the number of rows removed.
func (q *Queries) DeleteSubcategory(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, "DELETE FROM subcategories WHERE id = ?", id)
}
