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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableSchemaSimple = NewSchemaWithIdentifiers(1, []int{2},
	NestedField{ID: 1, Name: "foo", Type: PrimitiveTypes.String, Required: false},
	NestedField{ID: 2, Name: "Bar", Type: PrimitiveTypes.Int32, Required: true},
	NestedField{ID: 3, Name: "baz", Type: PrimitiveTypes.Bool, Required: false},
)

func TestSchemaLookups(t *testing.T) {
	f, ok := tableSchemaSimple.FindFieldByID(2)
	require.True(t, ok)
	assert.Equal(t, "Bar", f.Name)
	assert.True(t, f.Required)

	_, ok = tableSchemaSimple.FindFieldByID(99)
	assert.False(t, ok)

	f, ok = tableSchemaSimple.FindFieldByName("Bar")
	require.True(t, ok)
	assert.Equal(t, 2, f.ID)

	_, ok = tableSchemaSimple.FindFieldByName("bar")
	assert.False(t, ok, "FindFieldByName is case sensitive")

	f, ok = tableSchemaSimple.FindFieldByNameCaseInsensitive("bar")
	require.True(t, ok)
	assert.Equal(t, 2, f.ID)

	typ, ok := tableSchemaSimple.FindTypeByID(3)
	require.True(t, ok)
	assert.True(t, typ.Equals(PrimitiveTypes.Bool))

	name, ok := tableSchemaSimple.FindColumnName(1)
	require.True(t, ok)
	assert.Equal(t, "foo", name)
}

func TestSchemaSelect(t *testing.T) {
	sel, err := tableSchemaSimple.Select(true, "foo", "Bar")
	require.NoError(t, err)
	assert.Equal(t, 2, sel.NumFields())
	assert.Equal(t, []int{2}, sel.IdentifierFieldIDs)

	sel, err = tableSchemaSimple.Select(false, "BAR")
	require.NoError(t, err)
	assert.Equal(t, 1, sel.NumFields())

	_, err = tableSchemaSimple.Select(true, "bar")
	assert.ErrorIs(t, err, ErrInvalidSchema)

	sel, err = tableSchemaSimple.Select(true, "foo")
	require.NoError(t, err)
	assert.Empty(t, sel.IdentifierFieldIDs, "identifiers outside the selection are dropped")
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(tableSchemaSimple)
	require.NoError(t, err)

	parsed, err := ParseSchema(data)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(tableSchemaSimple), "expected %s, got %s", tableSchemaSimple, parsed)

	_, err = ParseSchema([]byte(`{"type": "struct", "fields": [{"id": 1}]}`))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestSchemaAsStruct(t *testing.T) {
	st := tableSchemaSimple.AsStruct()
	assert.Len(t, st.FieldList, 3)
	assert.Equal(t, map[int]struct{}{1: {}, 2: {}, 3: {}}, tableSchemaSimple.FieldIDs())
}

func TestMetadataColumns(t *testing.T) {
	pos := RowPosition()
	assert.Equal(t, RowPositionFieldID, pos.ID)
	assert.Equal(t, RowPositionColumnName, pos.Name)

	assert.True(t, IsMetadataColumn(RowPositionFieldID))
	assert.True(t, IsMetadataColumn(RowIDFieldID))
	assert.False(t, IsMetadataColumn(1000))
}
