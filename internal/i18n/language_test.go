// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Code
		wantOK bool
	}{
		{name: "english", input: "en", want: EN, wantOK: true},
		{name: "russian", input: "ru", want: RU, wantOK: true},
		{name: "armenian", input: "hy", want: HY, wantOK: true},
		{name: "upper case", input: "RU", want: RU, wantOK: true},
		{name: "padded", input: " hy ", want: HY, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "unsupported", input: "fr", wantOK: false},
		{name: "region qualified", input: "en-US", wantOK: false},
		{name: "garbage", input: "not a tag", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCode(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAllIsCanonicalOrder(t *testing.T) {
	assert.Equal(t, []Code{EN, RU, HY}, All())

	// Mutating the returned slice must not affect later callers.
	codes := All()
	codes[0] = "xx"
	assert.Equal(t, EN, All()[0])
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	if assert.Len(t, langs, 3) {
		assert.Equal(t, HY, langs[2].Code)
		assert.Equal(t, "Հայերեն", langs[2].NativeName)
	}
}
