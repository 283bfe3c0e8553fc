// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translation

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/petshop-go/internal/i18n"
)

var categorySchema = Schema{
	Table:      "category_translations",
	ForeignKey: "category_id",
	Fields:     []string{"name", "description"},
	Primary:    "name",
}

// memStore is an in-memory RowStore for a single schema.
type memStore struct {
	rows   map[int64]Row
	nextID int64
	calls  []string
	failOn string
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]Row), nextID: 1}
}

func (m *memStore) ListRows(_ context.Context, _ Schema, entityID int64) ([]Row, error) {
	m.calls = append(m.calls, "list")
	var out []Row
	for _, r := range m.rows {
		if r.EntityID == entityID {
			r.Values = r.Values.Clone()
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) InsertRow(_ context.Context, _ Schema, entityID int64, lang i18n.Code, values Fields) error {
	m.calls = append(m.calls, "insert:"+lang.String())
	if m.failOn == "insert" {
		return errors.New("insert failed")
	}
	for _, r := range m.rows {
		if r.EntityID == entityID && r.Language == lang {
			return errors.New("UNIQUE constraint failed")
		}
	}
	m.rows[m.nextID] = Row{ID: m.nextID, EntityID: entityID, Language: lang, Values: values.Clone()}
	m.nextID++
	return nil
}

func (m *memStore) UpdateRow(_ context.Context, _ Schema, rowID int64, values Fields) error {
	m.calls = append(m.calls, "update")
	r := m.rows[rowID]
	for k, v := range values {
		r.Values[k] = v
	}
	m.rows[rowID] = r
	return nil
}

func (m *memStore) DeleteRow(_ context.Context, _ Schema, rowID int64) error {
	m.calls = append(m.calls, "delete")
	delete(m.rows, rowID)
	return nil
}

// snapshot returns lang -> field -> value for entityID.
func (m *memStore) snapshot(entityID int64) map[i18n.Code]map[string]string {
	out := make(map[i18n.Code]map[string]string)
	for _, r := range m.rows {
		if r.EntityID != entityID {
			continue
		}
		f := make(map[string]string)
		for k, v := range r.Values {
			if v != nil {
				f[k] = *v
			}
		}
		out[r.Language] = f
	}
	return out
}

func fields(kv ...string) Fields {
	f := make(Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[kv[i]] = strPtr(kv[i+1])
	}
	return f
}

func seedRows(t *testing.T, m *memStore, entityID int64, in Input) {
	t.Helper()
	require.NoError(t, Reconcile(context.Background(), m, categorySchema, entityID, in))
}

func TestReconcile_CreatesRows(t *testing.T) {
	m := newMemStore()
	err := Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": fields("name", "Food"),
		"ru": fields("name", "Корм"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[i18n.Code]map[string]string{
		i18n.EN: {"name": "Food"},
		i18n.RU: {"name": "Корм"},
	}, m.snapshot(1))
}

func TestReconcile_NilInputIsNoop(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food"), "ru": fields("name", "Корм")})
	m.calls = nil

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, nil))

	assert.Empty(t, m.calls, "nil input must not touch the store")
	assert.Len(t, m.snapshot(1), 2)
}

func TestReconcile_EmptyInputDeletesAll(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food"), "ru": fields("name", "Корм")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{}))

	assert.Empty(t, m.snapshot(1))
}

func TestReconcile_DeletionByOmission(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{
		"en": fields("name", "Food"),
		"ru": fields("name", "Корм"),
		"hy": fields("name", "Կեր"),
	})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": fields("name", "Feed"),
	}))

	assert.Equal(t, map[i18n.Code]map[string]string{
		i18n.EN: {"name": "Feed"},
	}, m.snapshot(1))
}

func TestReconcile_UnknownLanguageDropped(t *testing.T) {
	m := newMemStore()

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"fr": fields("name", "x"),
	}))

	assert.Empty(t, m.snapshot(1))
}

func TestReconcile_UnknownLanguageDoesNotProtectExistingRows(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"fr": fields("name", "x"),
	}))

	assert.Empty(t, m.snapshot(1))
}

func TestReconcile_PartialUpdateKeepsOtherFields(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food", "description", "Dry and wet")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": fields("name", "Feeds"),
	}))

	assert.Equal(t, map[string]string{"name": "Feeds", "description": "Dry and wet"}, m.snapshot(1)[i18n.EN])
}

func TestReconcile_NullClearsField(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food", "description", "Dry")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": {"description": nil},
	}))

	assert.Equal(t, map[string]string{"name": "Food"}, m.snapshot(1)[i18n.EN])
}

func TestReconcile_NewLanguageCopiesFromSibling(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food", "description", "Dry and wet")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": {},
		"hy": fields("name", "Կեր"),
	}))

	assert.Equal(t, map[string]string{"name": "Կեր", "description": "Dry and wet"}, m.snapshot(1)[i18n.HY])
}

func TestReconcile_SiblingIsFirstInCanonicalOrder(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{
		"ru": fields("name", "Корм", "description", "ru-desc"),
		"en": fields("name", "Food", "description", "en-desc"),
	})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"en": {},
		"ru": {},
		"hy": fields("name", "Կեր"),
	}))

	assert.Equal(t, "en-desc", m.snapshot(1)[i18n.HY]["description"])
}

func TestReconcile_OnlyNewLanguageReplacesOthers(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{
		"en": fields("name", "Food", "description", "Feeds"),
		"ru": fields("name", "Корм"),
	})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"hy": fields("name", "Կեր"),
	}))

	assert.Equal(t, map[i18n.Code]map[string]string{
		i18n.HY: {"name": "Կեր", "description": "Feeds"},
	}, m.snapshot(1))
}

func TestReconcile_NoSiblingLeavesFieldsUnset(t *testing.T) {
	m := newMemStore()

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"ru": fields("name", "Корм"),
	}))

	row := m.snapshot(1)[i18n.RU]
	assert.Equal(t, map[string]string{"name": "Корм"}, row)
}

func TestReconcile_Idempotent(t *testing.T) {
	in := Input{
		"en": fields("name", "Food", "description", "d"),
		"hy": fields("name", "Կեր"),
	}

	once := newMemStore()
	seedRows(t, once, 1, Input{"ru": fields("name", "Корм", "description", "ru")})
	require.NoError(t, Reconcile(context.Background(), once, categorySchema, 1, in))

	twice := newMemStore()
	seedRows(t, twice, 1, Input{"ru": fields("name", "Корм", "description", "ru")})
	require.NoError(t, Reconcile(context.Background(), twice, categorySchema, 1, in))
	require.NoError(t, Reconcile(context.Background(), twice, categorySchema, 1, in))

	assert.Equal(t, once.snapshot(1), twice.snapshot(1))
}

func TestReconcile_CaseInsensitiveCodes(t *testing.T) {
	m := newMemStore()

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"EN": fields("name", "Food"),
	}))

	assert.Equal(t, map[string]string{"name": "Food"}, m.snapshot(1)[i18n.EN])
}

func TestReconcile_OtherEntitiesUntouched(t *testing.T) {
	m := newMemStore()
	seedRows(t, m, 1, Input{"en": fields("name", "Food")})
	seedRows(t, m, 2, Input{"en": fields("name", "Toys")})

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{}))

	assert.Empty(t, m.snapshot(1))
	assert.Equal(t, "Toys", m.snapshot(2)[i18n.EN]["name"])
}

func TestReconcile_PropagatesStoreErrors(t *testing.T) {
	m := newMemStore()
	m.failOn = "insert"

	err := Reconcile(context.Background(), m, categorySchema, 1, Input{"en": fields("name", "Food")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestReconcile_ProcessesInCanonicalOrder(t *testing.T) {
	m := newMemStore()

	require.NoError(t, Reconcile(context.Background(), m, categorySchema, 1, Input{
		"hy": fields("name", "c"),
		"en": fields("name", "a"),
		"ru": fields("name", "b"),
	}))

	assert.Equal(t, []string{"list", "insert:en", "insert:ru", "insert:hy"}, m.calls)
}
