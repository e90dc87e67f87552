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
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	regexFromBrackets = regexp.MustCompile(`^\w+\[(\d+)\]$`)
	decimalRegex      = regexp.MustCompile(`decimal\(\s*(\d+)\s*,\s*(\d+)\s*\)`)
)

// Date represents the number of days since the unix epoch.
type Date int32

// Time represents the number of microseconds since midnight.
type Time int64

// Timestamp represents the number of microseconds since the unix epoch,
// with or without timezone depending on the type it was read as.
type Timestamp int64

// Type is an interface representing any of the available iceberg types,
// the primitives plus struct, list and map for schema parsing.
type Type interface {
	fmt.Stringer
	Type() string
	Equals(Type) bool
}

// NestedType is a type which holds other types, allowing access to its
// child fields.
type NestedType interface {
	Type
	Fields() []NestedField
}

// PrimitiveType is implemented by all non-nested types.
type PrimitiveType interface {
	Type
	primitive()
}

type typeIFace struct {
	Type
}

func (t *typeIFace) MarshalJSON() ([]byte, error) {
	if nested, ok := t.Type.(NestedType); ok {
		return json.Marshal(nested)
	}

	return []byte(`"` + t.Type.Type() + `"`), nil
}

func (t *typeIFace) UnmarshalJSON(b []byte) error {
	var typename string
	if err := json.Unmarshal(b, &typename); err == nil {
		switch typename {
		case "boolean":
			t.Type = BooleanType{}
		case "int":
			t.Type = Int32Type{}
		case "long":
			t.Type = Int64Type{}
		case "float":
			t.Type = Float32Type{}
		case "double":
			t.Type = Float64Type{}
		case "date":
			t.Type = DateType{}
		case "time":
			t.Type = TimeType{}
		case "timestamp":
			t.Type = TimestampType{}
		case "timestamptz":
			t.Type = TimestampTzType{}
		case "string":
			t.Type = StringType{}
		case "uuid":
			t.Type = UUIDType{}
		case "binary":
			t.Type = BinaryType{}
		default:
			switch {
			case strings.HasPrefix(typename, "fixed"):
				matches := regexFromBrackets.FindStringSubmatch(typename)
				if len(matches) != 2 {
					return fmt.Errorf("%w: %s", ErrInvalidTypeString, typename)
				}
				n, _ := strconv.Atoi(matches[1])
				t.Type = FixedType{len: n}
			case strings.HasPrefix(typename, "decimal"):
				matches := decimalRegex.FindStringSubmatch(typename)
				if len(matches) != 3 {
					return fmt.Errorf("%w: %s", ErrInvalidTypeString, typename)
				}
				prec, _ := strconv.Atoi(matches[1])
				scale, _ := strconv.Atoi(matches[2])
				t.Type = DecimalType{precision: prec, scale: scale}
			default:
				return fmt.Errorf("%w: %s", ErrInvalidTypeString, typename)
			}
		}

		return nil
	}

	aux := struct {
		TypeName string `json:"type"`
	}{}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	switch aux.TypeName {
	case "list":
		t.Type = &ListType{}
	case "map":
		t.Type = &MapType{}
	case "struct":
		t.Type = &StructType{}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTypeString, aux.TypeName)
	}

	return json.Unmarshal(b, t.Type)
}

// NestedField describes a field within a struct type or a schema.
type NestedField struct {
	Type `json:"-"`

	ID       int    `json:"id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Doc      string `json:"doc,omitempty"`
}

func optOrReq(required bool) string {
	if required {
		return "required"
	}

	return "optional"
}

func (n NestedField) String() string {
	doc := n.Doc
	if doc != "" {
		doc = " (" + doc + ")"
	}

	return fmt.Sprintf("%d: %s: %s %s%s",
		n.ID, n.Name, optOrReq(n.Required), n.Type, doc)
}

func (n *NestedField) Equals(other NestedField) bool {
	return n.ID == other.ID &&
		n.Name == other.Name &&
		n.Required == other.Required &&
		n.Doc == other.Doc &&
		n.Type.Equals(other.Type)
}

func (n NestedField) MarshalJSON() ([]byte, error) {
	type Alias NestedField

	return json.Marshal(struct {
		Type *typeIFace `json:"type"`
		*Alias
	}{Type: &typeIFace{n.Type}, Alias: (*Alias)(&n)})
}

func (n *NestedField) UnmarshalJSON(b []byte) error {
	type Alias NestedField
	aux := struct {
		Type typeIFace `json:"type"`
		*Alias
	}{Alias: (*Alias)(n)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	n.Type = aux.Type.Type

	return nil
}

// StructType is a nested type holding an ordered list of fields.
type StructType struct {
	FieldList []NestedField `json:"fields"`
}

func (s *StructType) Equals(other Type) bool {
	st, ok := other.(*StructType)
	if !ok {
		return false
	}

	return slices.EqualFunc(s.FieldList, st.FieldList, func(a, b NestedField) bool {
		return a.Equals(b)
	})
}

func (s *StructType) Fields() []NestedField { return s.FieldList }

func (s *StructType) MarshalJSON() ([]byte, error) {
	type Alias StructType

	return json.Marshal(struct {
		Type string `json:"type"`
		*Alias
	}{Type: s.Type(), Alias: (*Alias)(s)})
}

func (*StructType) Type() string { return "struct" }
func (s *StructType) String() string {
	var b strings.Builder
	b.WriteString("struct<")
	for i, f := range s.FieldList {
		if i != 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %s: %s %s", f.ID, f.Name, optOrReq(f.Required), f.Type)
	}
	b.WriteString(">")

	return b.String()
}

// ListType is a nested type describing a list of a single element type.
type ListType struct {
	ElementID       int  `json:"element-id"`
	Element         Type `json:"-"`
	ElementRequired bool `json:"element-required"`
}

func (l *ListType) Fields() []NestedField { return []NestedField{l.ElementField()} }

func (l *ListType) ElementField() NestedField {
	return NestedField{
		ID:       l.ElementID,
		Name:     "element",
		Type:     l.Element,
		Required: l.ElementRequired,
	}
}

func (l *ListType) Equals(other Type) bool {
	rhs, ok := other.(*ListType)
	if !ok {
		return false
	}

	return l.ElementID == rhs.ElementID &&
		l.Element.Equals(rhs.Element) &&
		l.ElementRequired == rhs.ElementRequired
}

func (l *ListType) MarshalJSON() ([]byte, error) {
	type Alias ListType

	return json.Marshal(struct {
		Type    string     `json:"type"`
		Element *typeIFace `json:"element"`
		*Alias
	}{Type: l.Type(), Element: &typeIFace{l.Element}, Alias: (*Alias)(l)})
}

func (l *ListType) UnmarshalJSON(b []byte) error {
	type Alias ListType
	aux := struct {
		Element typeIFace `json:"element"`
		*Alias
	}{Alias: (*Alias)(l)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	l.Element = aux.Element.Type

	return nil
}

func (*ListType) Type() string     { return "list" }
func (l *ListType) String() string { return fmt.Sprintf("list<%s>", l.Element) }

// MapType is a nested type describing a map of a key type to a value type.
type MapType struct {
	KeyID         int  `json:"key-id"`
	KeyType       Type `json:"-"`
	ValueID       int  `json:"value-id"`
	ValueType     Type `json:"-"`
	ValueRequired bool `json:"value-required"`
}

func (m *MapType) Fields() []NestedField {
	return []NestedField{m.KeyField(), m.ValueField()}
}

func (m *MapType) KeyField() NestedField {
	return NestedField{ID: m.KeyID, Name: "key", Type: m.KeyType, Required: true}
}

func (m *MapType) ValueField() NestedField {
	return NestedField{ID: m.ValueID, Name: "value", Type: m.ValueType, Required: m.ValueRequired}
}

func (m *MapType) Equals(other Type) bool {
	rhs, ok := other.(*MapType)
	if !ok {
		return false
	}

	return m.KeyID == rhs.KeyID &&
		m.KeyType.Equals(rhs.KeyType) &&
		m.ValueID == rhs.ValueID &&
		m.ValueType.Equals(rhs.ValueType) &&
		m.ValueRequired == rhs.ValueRequired
}

func (m *MapType) MarshalJSON() ([]byte, error) {
	type Alias MapType

	return json.Marshal(struct {
		Type  string     `json:"type"`
		Key   *typeIFace `json:"key"`
		Value *typeIFace `json:"value"`
		*Alias
	}{
		Type: m.Type(), Key: &typeIFace{m.KeyType},
		Value: &typeIFace{m.ValueType}, Alias: (*Alias)(m),
	})
}

func (m *MapType) UnmarshalJSON(b []byte) error {
	type Alias MapType
	aux := struct {
		Key   typeIFace `json:"key"`
		Value typeIFace `json:"value"`
		*Alias
	}{Alias: (*Alias)(m)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	m.KeyType = aux.Key.Type
	m.ValueType = aux.Value.Type

	return nil
}

func (*MapType) Type() string { return "map" }
func (m *MapType) String() string {
	return fmt.Sprintf("map<%s, %s>", m.KeyType, m.ValueType)
}

// BooleanType represents a boolean value.
type BooleanType struct{}

func (BooleanType) primitive()         {}
func (BooleanType) Type() string       { return "boolean" }
func (BooleanType) String() string     { return "boolean" }
func (BooleanType) Equals(t Type) bool { _, ok := t.(BooleanType); return ok }

// Int32Type is the "int" type, a 32-bit signed integer.
type Int32Type struct{}

func (Int32Type) primitive()         {}
func (Int32Type) Type() string       { return "int" }
func (Int32Type) String() string     { return "int" }
func (Int32Type) Equals(t Type) bool { _, ok := t.(Int32Type); return ok }

// Int64Type is the "long" type, a 64-bit signed integer.
type Int64Type struct{}

func (Int64Type) primitive()         {}
func (Int64Type) Type() string       { return "long" }
func (Int64Type) String() string     { return "long" }
func (Int64Type) Equals(t Type) bool { _, ok := t.(Int64Type); return ok }

// Float32Type is the "float" type, a 32-bit IEEE-754 floating point value.
type Float32Type struct{}

func (Float32Type) primitive()         {}
func (Float32Type) Type() string       { return "float" }
func (Float32Type) String() string     { return "float" }
func (Float32Type) Equals(t Type) bool { _, ok := t.(Float32Type); return ok }

// Float64Type is the "double" type, a 64-bit IEEE-754 floating point value.
type Float64Type struct{}

func (Float64Type) primitive()         {}
func (Float64Type) Type() string       { return "double" }
func (Float64Type) String() string     { return "double" }
func (Float64Type) Equals(t Type) bool { _, ok := t.(Float64Type); return ok }

// DateType is a calendar date without a timezone or time.
type DateType struct{}

func (DateType) primitive()         {}
func (DateType) Type() string       { return "date" }
func (DateType) String() string     { return "date" }
func (DateType) Equals(t Type) bool { _, ok := t.(DateType); return ok }

// TimeType is a time of day without a date or timezone, microsecond precision.
type TimeType struct{}

func (TimeType) primitive()         {}
func (TimeType) Type() string       { return "time" }
func (TimeType) String() string     { return "time" }
func (TimeType) Equals(t Type) bool { _, ok := t.(TimeType); return ok }

// TimestampType is a timestamp without timezone, microsecond precision.
type TimestampType struct{}

func (TimestampType) primitive()         {}
func (TimestampType) Type() string       { return "timestamp" }
func (TimestampType) String() string     { return "timestamp" }
func (TimestampType) Equals(t Type) bool { _, ok := t.(TimestampType); return ok }

// TimestampTzType is a timestamp stored as UTC, microsecond precision.
type TimestampTzType struct{}

func (TimestampTzType) primitive()         {}
func (TimestampTzType) Type() string       { return "timestamptz" }
func (TimestampTzType) String() string     { return "timestamptz" }
func (TimestampTzType) Equals(t Type) bool { _, ok := t.(TimestampTzType); return ok }

// StringType is an arbitrary-length UTF-8 string.
type StringType struct{}

func (StringType) primitive()         {}
func (StringType) Type() string       { return "string" }
func (StringType) String() string     { return "string" }
func (StringType) Equals(t Type) bool { _, ok := t.(StringType); return ok }

// UUIDType is a universally unique identifier.
type UUIDType struct{}

func (UUIDType) primitive()         {}
func (UUIDType) Type() string       { return "uuid" }
func (UUIDType) String() string     { return "uuid" }
func (UUIDType) Equals(t Type) bool { _, ok := t.(UUIDType); return ok }

// BinaryType is an arbitrary-length byte sequence.
type BinaryType struct{}

func (BinaryType) primitive()         {}
func (BinaryType) Type() string       { return "binary" }
func (BinaryType) String() string     { return "binary" }
func (BinaryType) Equals(t Type) bool { _, ok := t.(BinaryType); return ok }

// FixedType is a fixed-length byte sequence.
type FixedType struct {
	len int
}

func FixedTypeOf(n int) FixedType { return FixedType{len: n} }

func (f FixedType) Len() int       { return f.len }
func (FixedType) primitive()       {}
func (f FixedType) Type() string   { return f.String() }
func (f FixedType) String() string { return fmt.Sprintf("fixed[%d]", f.len) }
func (f FixedType) Equals(t Type) bool {
	rhs, ok := t.(FixedType)

	return ok && f.len == rhs.len
}

// DecimalType is a fixed-precision decimal value.
type DecimalType struct {
	precision, scale int
}

func DecimalTypeOf(prec, scale int) DecimalType {
	return DecimalType{precision: prec, scale: scale}
}

func (d DecimalType) Precision() int { return d.precision }
func (d DecimalType) Scale() int     { return d.scale }
func (DecimalType) primitive()       {}
func (d DecimalType) Type() string   { return d.String() }
func (d DecimalType) String() string {
	return fmt.Sprintf("decimal(%d, %d)", d.precision, d.scale)
}

func (d DecimalType) Equals(t Type) bool {
	rhs, ok := t.(DecimalType)

	return ok && d == rhs
}

// PrimitiveTypes is a convenience for referencing the singleton primitive
// type values.
var PrimitiveTypes = struct {
	Bool        BooleanType
	Int32       Int32Type
	Int64       Int64Type
	Float32     Float32Type
	Float64     Float64Type
	Date        DateType
	Time        TimeType
	Timestamp   TimestampType
	TimestampTz TimestampTzType
	String      StringType
	UUID        UUIDType
	Binary      BinaryType
}{}
