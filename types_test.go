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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveTypeStrings(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{PrimitiveTypes.Bool, "boolean"},
		{PrimitiveTypes.Int32, "int"},
		{PrimitiveTypes.Int64, "long"},
		{PrimitiveTypes.Float32, "float"},
		{PrimitiveTypes.Float64, "double"},
		{PrimitiveTypes.Date, "date"},
		{PrimitiveTypes.Time, "time"},
		{PrimitiveTypes.Timestamp, "timestamp"},
		{PrimitiveTypes.TimestampTz, "timestamptz"},
		{PrimitiveTypes.String, "string"},
		{PrimitiveTypes.Binary, "binary"},
		{PrimitiveTypes.UUID, "uuid"},
		{FixedTypeOf(8), "fixed[8]"},
		{DecimalTypeOf(9, 2), "decimal(9, 2)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.typ.String())
	}
}

func TestTypeJSONRoundTrip(t *testing.T) {
	for _, typ := range []Type{
		PrimitiveTypes.Bool, PrimitiveTypes.Int32, PrimitiveTypes.Int64,
		PrimitiveTypes.String, PrimitiveTypes.Binary, PrimitiveTypes.UUID,
		FixedTypeOf(16), DecimalTypeOf(38, 10),
		&ListType{ElementID: 3, Element: PrimitiveTypes.Int64, ElementRequired: true},
		&MapType{KeyID: 1, KeyType: PrimitiveTypes.Int32, ValueID: 2, ValueType: PrimitiveTypes.String, ValueRequired: true},
	} {
		t.Run(typ.String(), func(t *testing.T) {
			field := NestedField{ID: 1, Name: "f", Type: typ, Required: true}
			data, err := json.Marshal(field)
			require.NoError(t, err)

			var back NestedField
			require.NoError(t, json.Unmarshal(data, &back))
			assert.True(t, back.Type.Equals(typ), "expected %s, got %s", typ, back.Type)
		})
	}
}

func TestTypeParseErrors(t *testing.T) {
	for _, bad := range []string{"fixed[]", "decimal(x, 2)", "wat"} {
		var field NestedField
		err := json.Unmarshal(fmt.Appendf(nil, `{"id": 1, "name": "f", "required": true, "type": %q}`, bad), &field)
		assert.Error(t, err, bad)
	}
}

func TestDecimalAndFixedAccessors(t *testing.T) {
	d := DecimalTypeOf(9, 2)
	assert.Equal(t, 9, d.Precision())
	assert.Equal(t, 2, d.Scale())
	assert.True(t, d.Equals(DecimalTypeOf(9, 2)))
	assert.False(t, d.Equals(DecimalTypeOf(9, 3)))

	f := FixedTypeOf(8)
	assert.Equal(t, 8, f.Len())
	assert.False(t, f.Equals(FixedTypeOf(4)))
}

func TestStructTypeEquality(t *testing.T) {
	a := &StructType{FieldList: []NestedField{{ID: 1, Name: "x", Type: PrimitiveTypes.Int32, Required: true}}}
	b := &StructType{FieldList: []NestedField{{ID: 1, Name: "x", Type: PrimitiveTypes.Int32, Required: true}}}
	c := &StructType{FieldList: []NestedField{{ID: 1, Name: "x", Type: PrimitiveTypes.Int64, Required: true}}}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(PrimitiveTypes.Int32))
}
