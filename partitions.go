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
	"slices"
	"strings"
)

const (
	// InitialPartitionSpecID is the default spec ID for a new table.
	InitialPartitionSpecID = 0
	partitionDataIDStart   = 1000
)

// UnpartitionedSpecID is the id of the unpartitioned spec.
const UnpartitionedSpecID = 0

// PartitionField represents how one partition value is derived from the
// source column by a transformation.
type PartitionField struct {
	// SourceID is the source column id of the table's schema.
	SourceID int `json:"source-id"`
	// FieldID is the partition field id across all the table
	// metadata's partition specs.
	FieldID int `json:"field-id"`
	// Name is the name of the partition field itself.
	Name string `json:"name"`
	// Transform is the transform used to produce the partition value.
	Transform Transform `json:"transform"`
}

func (p *PartitionField) String() string {
	return fmt.Sprintf("%d: %s: %s(%d)", p.FieldID, p.Name, p.Transform, p.SourceID)
}

func (p *PartitionField) UnmarshalJSON(b []byte) error {
	type Alias PartitionField
	aux := struct {
		TransformString string `json:"transform"`
		*Alias
	}{Alias: (*Alias)(p)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	var err error
	if p.Transform, err = ParseTransform(aux.TransformString); err != nil {
		return err
	}

	return nil
}

// PartitionSpec captures the transformation from table data to partition
// values.
type PartitionSpec struct {
	// id is the spec id of this partition spec, unique within the table
	// metadata it came from.
	id     int
	fields []PartitionField

	// sourceIdToFields is a mapping of source column id to the fields
	// derived from it, to allow projecting a row filter into partition
	// space without scanning every field.
	sourceIdToFields map[int][]PartitionField
}

// NewPartitionSpec creates a partition spec with the default spec id.
func NewPartitionSpec(fields ...PartitionField) PartitionSpec {
	return NewPartitionSpecID(InitialPartitionSpecID, fields...)
}

// NewPartitionSpecID creates a partition spec with the given spec id.
func NewPartitionSpecID(id int, fields ...PartitionField) PartitionSpec {
	ret := PartitionSpec{id: id, fields: fields}
	ret.initialize()

	return ret
}

// UnpartitionedSpec is the default unpartitioned spec which can be used
// for comparisons or to just provide a spec in cases where one is needed.
var UnpartitionedSpec = &PartitionSpec{id: UnpartitionedSpecID}

func (ps *PartitionSpec) initialize() {
	ps.sourceIdToFields = make(map[int][]PartitionField, len(ps.fields))
	for _, f := range ps.fields {
		ps.sourceIdToFields[f.SourceID] = append(ps.sourceIdToFields[f.SourceID], f)
	}
}

func (ps PartitionSpec) ID() int        { return ps.id }
func (ps PartitionSpec) NumFields() int { return len(ps.fields) }
func (ps PartitionSpec) Field(i int) PartitionField {
	return ps.fields[i]
}

// Fields returns a clone of this spec's partition fields.
func (ps PartitionSpec) Fields() []PartitionField { return slices.Clone(ps.fields) }

// IsUnpartitioned returns true if this spec has no partition fields, or
// if every field is a void transform.
func (ps PartitionSpec) IsUnpartitioned() bool {
	if len(ps.fields) == 0 {
		return true
	}

	for _, f := range ps.fields {
		if _, ok := f.Transform.(VoidTransform); !ok {
			return false
		}
	}

	return true
}

// FieldsBySourceID returns the partition fields derived from the column
// with the given source id.
func (ps PartitionSpec) FieldsBySourceID(fieldID int) []PartitionField {
	return slices.Clone(ps.sourceIdToFields[fieldID])
}

func (ps PartitionSpec) Equals(other PartitionSpec) bool {
	return ps.id == other.id && ps.CompatibleWith(&other)
}

// CompatibleWith returns true if this partition spec produces the same
// partitioning as the given spec, ignoring the spec ids.
func (ps *PartitionSpec) CompatibleWith(other *PartitionSpec) bool {
	return slices.EqualFunc(ps.fields, other.fields, func(a, b PartitionField) bool {
		return a.SourceID == b.SourceID && a.FieldID == b.FieldID &&
			a.Name == b.Name && a.Transform.Equals(b.Transform)
	})
}

func (ps PartitionSpec) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range ps.fields {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\t")
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	b.WriteByte(']')

	return b.String()
}

func (ps PartitionSpec) MarshalJSON() ([]byte, error) {
	fields := ps.fields
	if fields == nil {
		fields = []PartitionField{}
	}

	return json.Marshal(struct {
		ID     int              `json:"spec-id"`
		Fields []PartitionField `json:"fields"`
	}{ps.id, fields})
}

func (ps *PartitionSpec) UnmarshalJSON(b []byte) error {
	aux := struct {
		ID     int              `json:"spec-id"`
		Fields []PartitionField `json:"fields"`
	}{ID: ps.id, Fields: ps.fields}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	ps.id, ps.fields = aux.ID, aux.Fields
	ps.initialize()

	return nil
}

// PartitionType produces a struct of the partition spec evaluated against
// the table's schema. The partition fields become optional struct fields
// typed by each transform's result type.
func (ps PartitionSpec) PartitionType(schema *Schema) *StructType {
	nestedFields := []NestedField{}
	for _, field := range ps.fields {
		sourceType, ok := schema.FindTypeByID(field.SourceID)
		if !ok {
			continue
		}
		resultType := field.Transform.ResultType(sourceType)
		nestedFields = append(nestedFields, NestedField{
			ID:       field.FieldID,
			Name:     field.Name,
			Type:     resultType,
			Required: false,
		})
	}

	return &StructType{FieldList: nestedFields}
}
