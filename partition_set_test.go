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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionSetAddContains(t *testing.T) {
	set := NewPartitionSet()

	assert.True(t, set.Add(1, map[int]any{1000: 1, 1001: "a"}))
	assert.False(t, set.Add(1, map[int]any{1000: 1, 1001: "a"}), "duplicate insert does not change the set")
	assert.Equal(t, 1, set.Len())

	assert.True(t, set.Contains(1, map[int]any{1001: "a", 1000: 1}))
	assert.False(t, set.Contains(1, map[int]any{1000: 2, 1001: "a"}))
	assert.False(t, set.Contains(1, map[int]any{1000: 1}), "tuples of different width are distinct")
}

func TestPartitionSetSpecIDScoping(t *testing.T) {
	set := NewPartitionSet()

	assert.True(t, set.Add(1, map[int]any{1000: 1}))
	assert.True(t, set.Add(2, map[int]any{1000: 1}), "same tuple under another spec is a new member")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(1, map[int]any{1000: 1}))
	assert.True(t, set.Contains(2, map[int]any{1000: 1}))
	assert.False(t, set.Contains(3, map[int]any{1000: 1}))
}

func TestPartitionSetNilValues(t *testing.T) {
	set := NewPartitionSet()

	assert.True(t, set.Add(0, map[int]any{1000: nil}))
	assert.True(t, set.Contains(0, map[int]any{1000: nil}))
	assert.False(t, set.Contains(0, map[int]any{1000: 0}))

	assert.True(t, set.Add(0, nil), "the empty tuple of an unpartitioned spec is a valid member")
	assert.True(t, set.Contains(0, map[int]any{}))
}

func TestPartitionSetByteValues(t *testing.T) {
	set := NewPartitionSet()

	key := []byte{0x01, 0x02}
	assert.True(t, set.Add(4, map[int]any{1000: key}))

	// membership is by content, and stored tuples are decoupled from the
	// caller's slice
	key[0] = 0xff
	assert.True(t, set.Contains(4, map[int]any{1000: []byte{0x01, 0x02}}))
	assert.False(t, set.Contains(4, map[int]any{1000: []byte{0xff, 0x02}}))
}
