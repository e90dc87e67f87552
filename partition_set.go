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
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/twmb/murmur3"
)

// PartitionSet is a set of partition tuples scoped by partition spec id.
// The same tuple under two different spec ids is two distinct members.
// Lookup is bucketed by a murmur3 hash of a canonical tuple encoding with
// collision chains compared by deep tuple equality, so hash collisions
// never produce false positives.
//
// A PartitionSet is not safe for concurrent mutation.
type PartitionSet struct {
	members map[uint64][]partitionKey
	size    int
}

type partitionKey struct {
	specID    int
	partition map[int]any
}

// NewPartitionSet creates an empty partition set.
func NewPartitionSet() *PartitionSet {
	return &PartitionSet{members: make(map[uint64][]partitionKey)}
}

// Add inserts the partition tuple for the given spec id, reporting whether
// the set changed.
func (ps *PartitionSet) Add(specID int, partition map[int]any) bool {
	h := hashPartition(specID, partition)
	for _, k := range ps.members[h] {
		if k.specID == specID && partitionsEqual(k.partition, partition) {
			return false
		}
	}

	stored := make(map[int]any, len(partition))
	for id, v := range partition {
		if b, ok := v.([]byte); ok {
			v = slices.Clone(b)
		}
		stored[id] = v
	}
	ps.members[h] = append(ps.members[h], partitionKey{specID: specID, partition: stored})
	ps.size++

	return true
}

// Contains reports whether the partition tuple is a member under the
// given spec id.
func (ps *PartitionSet) Contains(specID int, partition map[int]any) bool {
	h := hashPartition(specID, partition)
	for _, k := range ps.members[h] {
		if k.specID == specID && partitionsEqual(k.partition, partition) {
			return true
		}
	}

	return false
}

// Len returns the number of distinct (spec id, tuple) members.
func (ps *PartitionSet) Len() int { return ps.size }

func partitionsEqual(a, b map[int]any) bool {
	if len(a) != len(b) {
		return false
	}

	for id, av := range a {
		bv, ok := b[id]
		if !ok || !valuesEqual(av, bv) {
			return false
		}
	}

	return true
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)

		return ok && bytes.Equal(ab, bb)
	}

	return a == b
}

// hashPartition produces a canonical hash for a tuple. Field ids are
// visited in sorted order so map iteration order cannot change the hash.
func hashPartition(specID int, partition map[int]any) uint64 {
	ids := make([]int, 0, len(partition))
	for id := range partition {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(specID))
	for _, id := range ids {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
		buf = appendCanonical(buf, partition[id])
	}

	return murmur3.Sum64(buf)
}

func appendCanonical(buf []byte, v any) []byte {
	switch v := v.(type) {
	case nil:
		return append(buf, 'n')
	case []byte:
		buf = append(buf, 'b')
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(v)))

		return append(buf, v...)
	default:
		return fmt.Appendf(buf, "v%T:%v", v, v)
	}
}
