// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package icescan

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Schema is an iceberg table schema, an ordered list of named and typed
// columns identified by unique field ids.
type Schema struct {
	ID                 int   `json:"schema-id"`
	IdentifierFieldIDs []int `json:"identifier-field-ids,omitempty"`

	fields []NestedField

	lazyIDToField     func() map[int]NestedField
	lazyNameToID      func() map[string]int
	lazyLowerNameToID func() map[string]int
}

// NewSchema constructs a new schema with the given ID and fields.
func NewSchema(id int, fields ...NestedField) *Schema {
	return NewSchemaWithIdentifiers(id, nil, fields...)
}

// NewSchemaWithIdentifiers constructs a new schema with the given ID,
// fields, and the field ids that make up the identifier.
func NewSchemaWithIdentifiers(id int, identifierIDs []int, fields ...NestedField) *Schema {
	s := &Schema{ID: id, fields: fields, IdentifierFieldIDs: identifierIDs}
	s.init()

	return s
}

func (s *Schema) init() {
	s.lazyIDToField = sync.OnceValue(func() map[int]NestedField {
		out := make(map[int]NestedField, len(s.fields))
		for _, f := range s.fields {
			out[f.ID] = f
		}

		return out
	})
	s.lazyNameToID = sync.OnceValue(func() map[string]int {
		out := make(map[string]int, len(s.fields))
		for _, f := range s.fields {
			out[f.Name] = f.ID
		}

		return out
	})
	s.lazyLowerNameToID = sync.OnceValue(func() map[string]int {
		out := make(map[string]int, len(s.fields))
		for _, f := range s.fields {
			out[strings.ToLower(f.Name)] = f.ID
		}

		return out
	})
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("table {")
	for _, f := range s.fields {
		b.WriteString("\n\t")
		b.WriteString(f.String())
	}
	b.WriteString("\n}")

	return b.String()
}

func (s *Schema) Equals(other *Schema) bool {
	if other == nil {
		return false
	}
	if s == other {
		return true
	}

	return s.ID == other.ID &&
		slices.EqualFunc(s.fields, other.fields, func(a, b NestedField) bool {
			return a.Equals(b)
		})
}

// Fields returns the top-level fields of this schema.
func (s *Schema) Fields() []NestedField { return slices.Clone(s.fields) }

// NumFields returns the number of top-level fields.
func (s *Schema) NumFields() int { return len(s.fields) }

// AsStruct returns a StructType holding this schema's fields.
func (s *Schema) AsStruct() *StructType { return &StructType{FieldList: s.fields} }

// FindFieldByID returns the field with the given id, or false if no
// such field exists.
func (s *Schema) FindFieldByID(id int) (NestedField, bool) {
	f, ok := s.lazyIDToField()[id]

	return f, ok
}

// FindFieldByName returns the field with the given name using an exact
// case-sensitive match.
func (s *Schema) FindFieldByName(name string) (NestedField, bool) {
	id, ok := s.lazyNameToID()[name]
	if !ok {
		return NestedField{}, false
	}

	return s.FindFieldByID(id)
}

// FindFieldByNameCaseInsensitive returns the field whose lowercased name
// matches the lowercased input.
func (s *Schema) FindFieldByNameCaseInsensitive(name string) (NestedField, bool) {
	id, ok := s.lazyLowerNameToID()[strings.ToLower(name)]
	if !ok {
		return NestedField{}, false
	}

	return s.FindFieldByID(id)
}

// FindTypeByID returns the type of the field with the given id.
func (s *Schema) FindTypeByID(id int) (Type, bool) {
	f, ok := s.FindFieldByID(id)
	if !ok {
		return nil, false
	}

	return f.Type, true
}

// FindColumnName returns the name of the field with the given id.
func (s *Schema) FindColumnName(id int) (string, bool) {
	f, ok := s.FindFieldByID(id)

	return f.Name, ok
}

// Select returns a new schema containing only the named top-level columns.
// Returns an error if any name does not resolve to a column.
func (s *Schema) Select(caseSensitive bool, names ...string) (*Schema, error) {
	ids := make(map[int]struct{}, len(names))
	for _, n := range names {
		var (
			f  NestedField
			ok bool
		)
		if caseSensitive {
			f, ok = s.FindFieldByName(n)
		} else {
			f, ok = s.FindFieldByNameCaseInsensitive(n)
		}
		if !ok {
			return nil, fmt.Errorf("%w: could not find column %s in schema", ErrInvalidSchema, n)
		}
		ids[f.ID] = struct{}{}
	}

	selected := make([]NestedField, 0, len(ids))
	for _, f := range s.fields {
		if _, ok := ids[f.ID]; ok {
			selected = append(selected, f)
		}
	}

	identifiers := slices.DeleteFunc(slices.Clone(s.IdentifierFieldIDs), func(id int) bool {
		_, ok := ids[id]

		return !ok
	})

	return NewSchemaWithIdentifiers(s.ID, identifiers, selected...), nil
}

// FieldIDs returns the set of top-level field ids in this schema.
func (s *Schema) FieldIDs() map[int]struct{} {
	out := make(map[int]struct{}, len(s.fields))
	for id := range maps.Keys(s.lazyIDToField()) {
		out[id] = struct{}{}
	}

	return out
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	type Alias Schema

	return json.Marshal(struct {
		Type   string        `json:"type"`
		Fields []NestedField `json:"fields"`
		*Alias
	}{Type: "struct", Fields: s.fields, Alias: (*Alias)(s)})
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	type Alias Schema
	aux := struct {
		Fields []NestedField `json:"fields"`
		*Alias
	}{Alias: (*Alias)(s)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	s.fields = aux.Fields
	if s.IdentifierFieldIDs == nil {
		s.IdentifierFieldIDs = []int{}
	}
	s.init()

	return nil
}

// ParseSchema parses a schema from its JSON representation.
func ParseSchema(b []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSchema, err)
	}

	return &s, nil
}
