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

// Reserved metadata column field IDs. Reserved IDs count down from
// Integer.MAX_VALUE per the Iceberg spec (Metadata Columns).
const (
	// RowPositionFieldID is the field ID for _pos (required long), the
	// ordinal position of a row in a data file.
	RowPositionFieldID = 2147483645
	// RowIDFieldID is the field ID for _row_id (optional long), a unique
	// long identifier assigned to every row (v3+ row lineage).
	RowIDFieldID = 2147483540
)

// Reserved metadata column names.
const (
	RowPositionColumnName = "_pos"
	RowIDColumnName       = "_row_id"
)

// RowPosition returns the NestedField for the _pos metadata column.
func RowPosition() NestedField {
	return NestedField{
		ID:       RowPositionFieldID,
		Name:     RowPositionColumnName,
		Required: true,
		Doc:      "Ordinal position of a row in the source data file",
		Type:     Int64Type{},
	}
}

// RowID returns the NestedField for the _row_id metadata column.
func RowID() NestedField {
	return NestedField{
		ID:       RowIDFieldID,
		Name:     RowIDColumnName,
		Required: false,
		Doc:      "Implicit row ID that is automatically assigned",
		Type:     Int64Type{},
	}
}

// IsMetadataColumn returns true if the field ID is a reserved metadata
// column id.
func IsMetadataColumn(fieldID int) bool {
	return fieldID == RowPositionFieldID || fieldID == RowIDFieldID
}
