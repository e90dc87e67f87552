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

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// propEntry builds an in-memory ADDED data-file entry. preset < 0 means
// the file carries no first row id; otherwise preset is the stored id.
func propEntry(t *testing.T, count, preset int64) ManifestEntry {
	t.Helper()

	bldr, err := NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://bucket/data/prop.parquet", ParquetFile, map[int]any{1000: 1}, count, count*10)
	if err != nil {
		t.Fatal(err)
	}
	if preset >= 0 {
		bldr.FirstRowID(preset)
	}

	return NewManifestEntryBuilder(EntryStatusADDED, nil, bldr.Build()).Build()
}

func TestRowIDAssignerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Property: seeded assignment hands out seed plus the running sum of
	// record counts of the unset files before it; preset ids are kept and
	// consume no counter space.
	properties.Property("seeded ids are seed plus prefix sums over unset files", prop.ForAll(
		func(seed int64, counts []int64) bool {
			r := &ManifestReader{firstRowID: &seed}
			assign := r.idAssigner()

			next := seed
			for _, c := range counts {
				// negative marks a file with a preset id of -c
				preset := int64(-1)
				count := c
				if c < 0 {
					preset, count = -c, 1
				}

				entry := propEntry(t, count, preset)
				assign(entry)

				got := entry.DataFile().FirstRowID()
				if got == nil {
					return false
				}

				if preset >= 0 {
					if *got != preset {
						return false
					}

					continue
				}

				if *got != next {
					return false
				}
				next += count
			}

			return true
		},
		gen.Int64Range(0, 1<<40),
		gen.SliceOf(gen.Int64Range(-1000, 1000).SuchThat(func(v int64) bool { return v != 0 })),
	))

	// Property: delete files and DELETED entries never consume counter
	// space, so the ids of the data files around them are unaffected.
	properties.Property("non-data and deleted entries are transparent to the counter", prop.ForAll(
		func(seed, dataCount, deleteCount int64) bool {
			r := &ManifestReader{firstRowID: &seed}
			assign := r.idAssigner()

			first := propEntry(t, dataCount, -1)
			assign(first)

			delBldr, err := NewDataFileBuilder(readerTestSpec, EntryContentPosDeletes,
				"s3://bucket/deletes/prop.parquet", ParquetFile, map[int]any{1000: 1}, deleteCount, deleteCount*10)
			if err != nil {
				t.Fatal(err)
			}
			assign(NewManifestEntryBuilder(EntryStatusADDED, nil, delBldr.Build()).Build())

			removed := propEntry(t, deleteCount, -1)
			removed.(*manifestEntry).EntryStatus = EntryStatusDELETED
			assign(removed)

			second := propEntry(t, 1, -1)
			assign(second)

			return *first.DataFile().FirstRowID() == seed &&
				removed.DataFile().FirstRowID() == nil &&
				*second.DataFile().FirstRowID() == seed+dataCount
		},
		gen.Int64Range(0, 1<<40),
		gen.Int64Range(1, 1000),
		gen.Int64Range(1, 1000),
	))

	// Property: unseeded assignment clears any stored id on data files.
	properties.Property("unseeded assignment clears stored ids", prop.ForAll(
		func(count, preset int64) bool {
			r := &ManifestReader{}
			assign := r.idAssigner()

			entry := propEntry(t, count, preset)
			assign(entry)

			return entry.DataFile().FirstRowID() == nil
		},
		gen.Int64Range(1, 1000),
		gen.Int64Range(0, 1<<40),
	))

	properties.TestingRun(t)
}
