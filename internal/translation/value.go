// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Value is the per-language part of a translations payload. It is either a
// bare string, shorthand for the schema's primary field, or an object mapping
// field names to strings or null.
type Value struct {
	text   *string
	fields Fields
}

// Text returns a Value holding a bare string.
func Text(s string) Value {
	return Value{text: strPtr(s)}
}

// Map returns a Value holding explicit field values.
func Map(f Fields) Value {
	return Value{fields: f.Clone()}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty translation value")
	}

	switch data[0] {
	case 'n':
		*v = Value{fields: Fields{}}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{text: &s}
		return nil
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		fields := make(Fields, len(raw))
		for name, msg := range raw {
			var s *string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("field %q must be a string or null", name)
			}
			fields[name] = s
		}
		*v = Value{fields: fields}
		return nil
	default:
		return errors.New("translation must be a string or an object")
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.text != nil {
		return json.Marshal(*v.text)
	}
	if v.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]*string(v.fields))
}

// Fields resolves v against the primary field name.
func (v Value) Fields(primary string) Fields {
	if v.text != nil {
		return Fields{primary: strPtr(*v.text)}
	}
	return v.fields.Clone()
}

// Payload is a translations object keyed by raw language code, as received.
type Payload map[string]Value

// Resolve turns p into an Input for s. Bare strings become the primary field
// and field names s does not declare are dropped. A nil Payload resolves to a
// nil Input.
func (p Payload) Resolve(s Schema) Input {
	if p == nil {
		return nil
	}
	in := make(Input, len(p))
	for lang, v := range p {
		f := v.Fields(s.Primary)
		for name := range f {
			if !s.Has(name) {
				delete(f, name)
			}
		}
		in[lang] = f
	}
	return in
}

// Localized is a single field given either as a plain string or as a map of
// language code to string, e.g. "name": {"en": "Food", "ru": "Корм"}.
type Localized struct {
	text   *string
	byLang map[string]*string
	set    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Localized) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case 'n':
		*l = Localized{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Localized{text: &s, set: true}
		return nil
	case '{':
		var m map[string]*string
		if err := json.Unmarshal(data, &m); err != nil {
			return errors.New("language map values must be strings or null")
		}
		*l = Localized{byLang: m, set: true}
		if l.byLang == nil {
			l.byLang = map[string]*string{}
		}
		return nil
	default:
		return errors.New("must be a string or a language map")
	}
}

// MarshalJSON implements json.Marshaler.
func (l Localized) MarshalJSON() ([]byte, error) {
	switch {
	case l.text != nil:
		return json.Marshal(*l.text)
	case l.byLang != nil:
		return json.Marshal(l.byLang)
	default:
		return []byte("null"), nil
	}
}

// PlainText returns a Localized holding a plain string.
func PlainText(s string) Localized {
	return Localized{text: strPtr(s), set: true}
}

// PerLanguage returns a Localized holding a language map.
func PerLanguage(m map[string]string) Localized {
	out := make(map[string]*string, len(m))
	for k, v := range m {
		out[k] = strPtr(v)
	}
	return Localized{byLang: out, set: true}
}

// IsSet reports whether the field was present and not null.
func (l Localized) IsSet() bool {
	return l.set
}

// Plain returns the plain string form, if that is what was supplied.
func (l Localized) Plain() (string, bool) {
	if l.text == nil {
		return "", false
	}
	return *l.text, true
}

// IsMap reports whether the field was supplied as a language map.
func (l Localized) IsMap() bool {
	return l.byLang != nil
}

// Pivot turns per-field language maps into an Input keyed by language.
// Fields given as plain strings are ignored. It returns nil when no field was
// supplied as a language map, so callers can tell "no translations" apart from
// "empty translations".
func Pivot(fields map[string]Localized) Input {
	var in Input
	for name, l := range fields {
		if !l.IsMap() {
			continue
		}
		if in == nil {
			in = make(Input)
		}
		for lang, v := range l.byLang {
			f, ok := in[lang]
			if !ok {
				f = make(Fields)
				in[lang] = f
			}
			f[name] = v
		}
	}
	return in
}
