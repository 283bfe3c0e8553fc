// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared by the store, service and
// handler layers.
package util

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strconv"
)

// Optional is a JSON field that distinguishes "absent" from "null".
//
//	{}              -> Set=false
//	{"x": null}     -> Set=true, Null=true
//	{"x": 1}        -> Set=true, Value=1
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a set, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a set Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the key
// is present, which is what marks the value as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ApplyString overwrites cur when o is set. Null clears it.
func ApplyString(cur sql.NullString, o Optional[string]) sql.NullString {
	if !o.Set {
		return cur
	}
	if o.Null {
		return sql.NullString{}
	}
	return sql.NullString{String: o.Value, Valid: true}
}

// ApplyInt64 overwrites cur when o is set. Null clears it.
func ApplyInt64(cur sql.NullInt64, o Optional[int64]) sql.NullInt64 {
	if !o.Set {
		return cur
	}
	if o.Null {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: o.Value, Valid: true}
}

// ApplyFloat64 overwrites cur when o is set. Null clears it.
func ApplyFloat64(cur sql.NullFloat64, o Optional[float64]) sql.NullFloat64 {
	if !o.Set {
		return cur
	}
	if o.Null {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: o.Value, Valid: true}
}

// ParseNullInt64Positive parses a query value, requiring a positive integer.
// Anything else yields an invalid NullInt64.
func ParseNullInt64Positive(s string) sql.NullInt64 {
	if s == "" {
		return sql.NullInt64{}
	}
	if val, err := strconv.ParseInt(s, 10, 64); err == nil && val > 0 {
		return sql.NullInt64{Int64: val, Valid: true}
	}
	return sql.NullInt64{}
}

// ParseNullFloat64 parses a query value into sql.NullFloat64.
func ParseNullFloat64(s string) sql.NullFloat64 {
	if s == "" {
		return sql.NullFloat64{}
	}
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return sql.NullFloat64{Float64: val, Valid: true}
	}
	return sql.NullFloat64{}
}

// ParseNullBool parses a query value such as "true", "1" or "false".
func ParseNullBool(s string) sql.NullBool {
	if s == "" {
		return sql.NullBool{}
	}
	if val, err := strconv.ParseBool(s); err == nil {
		return sql.NullBool{Bool: val, Valid: true}
	}
	return sql.NullBool{}
}

// NullStringValue returns the string or nil, for JSON output.
func NullStringValue(ns sql.NullString) any {
	if !ns.Valid {
		return nil
	}
	return ns.String
}

// NullInt64Value returns the integer or nil, for JSON output.
func NullInt64Value(ni sql.NullInt64) any {
	if !ni.Valid {
		return nil
	}
	return ni.Int64
}

// NullFloat64Value returns the float or nil, for JSON output.
func NullFloat64Value(nf sql.NullFloat64) any {
	if !nf.Valid {
		return nil
	}
	return nf.Float64
}
