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
	"time"

	"github.com/google/uuid"
	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromLocation(t *testing.T) {
	tests := []struct {
		location string
		expected FileFormat
	}{
		{"s3://bucket/path/file.avro", AvroFile},
		{"s3://bucket/path/FILE.AVRO", AvroFile},
		{"/local/path/file.orc", OrcFile},
		{"file.parquet", ParquetFile},
	}

	for _, tt := range tests {
		format, err := FormatFromLocation(tt.location)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, format)
	}

	for _, bad := range []string{"file.csv", "file", "s3://bucket/noext"} {
		_, err := FormatFromLocation(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestManifestContentString(t *testing.T) {
	assert.Equal(t, "data", ManifestContentData.String())
	assert.Equal(t, "deletes", ManifestContentDeletes.String())
	assert.Equal(t, "UNKNOWN", ManifestContent(9).String())
}

func TestManifestFileBuilder(t *testing.T) {
	mf := NewManifestFile(2, "s3://bucket/meta/m1.avro", 1024, 3, 42).
		Content(ManifestContentDeletes).
		SequenceNum(7, 5).
		AddedFiles(1).ExistingFiles(2).DeletedFiles(3).
		AddedRows(10).ExistingRows(20).DeletedRows(30).
		KeyMetadata([]byte{0xde, 0xad}).
		Build()

	assert.Equal(t, 2, mf.Version())
	assert.Equal(t, "s3://bucket/meta/m1.avro", mf.FilePath())
	assert.EqualValues(t, 1024, mf.Length())
	assert.EqualValues(t, 3, mf.PartitionSpecID())
	assert.Equal(t, ManifestContentDeletes, mf.ManifestContent())
	assert.EqualValues(t, 42, mf.SnapshotID())
	assert.EqualValues(t, 7, mf.SequenceNum())
	assert.EqualValues(t, 5, mf.MinSequenceNum())
	assert.True(t, mf.HasAddedFiles())
	assert.True(t, mf.HasExistingFiles())
	assert.Equal(t, []byte{0xde, 0xad}, mf.KeyMetadata())
	assert.Nil(t, mf.Partitions())

	v1 := NewManifestFile(1, "m.avro", 1, 0, 0).Build()
	assert.Zero(t, v1.SequenceNum(), "v1 manifests have no sequence numbers")

	v2 := NewManifestFile(2, "m.avro", 1, 0, 0).Build()
	assert.EqualValues(t, -1, v2.SequenceNum(), "v2 sequence numbers start unassigned")
}

func TestDataFileBuilderValidation(t *testing.T) {
	valid := func() (*DataFileBuilder, error) {
		return NewDataFileBuilder(readerTestSpec, EntryContentData,
			"s3://b/f.parquet", ParquetFile, map[int]any{1000: 1}, 10, 100)
	}

	_, err := valid()
	require.NoError(t, err)

	_, err = NewDataFileBuilder(readerTestSpec, ManifestEntryContent(9),
		"s3://b/f.parquet", ParquetFile, nil, 10, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDataFileBuilder(readerTestSpec, EntryContentData,
		"", ParquetFile, nil, 10, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", FileFormat("CSV"), nil, 10, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, nil, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, nil, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDataFileBuilderFields(t *testing.T) {
	bldr, err := NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, map[int]any{1000: 5}, 10, 100)
	require.NoError(t, err)

	df := bldr.
		ColumnSizes(map[int]int64{1: 10}).
		ValueCounts(map[int]int64{1: 10}).
		NullValueCounts(map[int]int64{1: 0}).
		NaNValueCounts(map[int]int64{1: 0}).
		LowerBoundValues(map[int][]byte{1: {0x01}}).
		UpperBoundValues(map[int][]byte{1: {0x09}}).
		KeyMetadata([]byte{0x01}).
		SplitOffsets([]int64{4, 100}).
		SortOrderID(3).
		FirstRowID(77).
		Build()

	assert.Equal(t, EntryContentData, df.ContentType())
	assert.Equal(t, "s3://b/f.parquet", df.FilePath())
	assert.Equal(t, ParquetFile, df.FileFormat())
	assert.EqualValues(t, 10, df.Count())
	assert.EqualValues(t, 100, df.FileSizeBytes())
	assert.EqualValues(t, 1, df.SpecID())
	assert.Equal(t, map[int]any{1000: 5}, df.Partition())
	assert.Equal(t, map[int]int64{1: 10}, df.ColumnSizes())
	assert.Equal(t, map[int][]byte{1: {0x01}}, df.LowerBoundValues())
	assert.Equal(t, []int64{4, 100}, df.SplitOffsets())
	require.NotNil(t, df.SortOrderID())
	assert.Equal(t, 3, *df.SortOrderID())
	require.NotNil(t, df.FirstRowID())
	assert.EqualValues(t, 77, *df.FirstRowID())
	assert.Nil(t, df.ReferencedDataFile())
	assert.Nil(t, df.EqualityFieldIDs())
}

func TestDataFileCopy(t *testing.T) {
	bldr, err := NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, map[int]any{1000: 5}, 10, 100)
	require.NoError(t, err)
	orig := bldr.
		ValueCounts(map[int]int64{1: 10}).
		LowerBoundValues(map[int][]byte{1: {0x01}}).
		Build().(*dataFile)

	full := orig.copy(true)
	assert.Equal(t, orig.ValueCounts(), full.ValueCounts())
	full.LowerBoundValues()[1][0] = 0xff
	assert.Equal(t, []byte{0x01}, orig.LowerBoundValues()[1], "bounds are deep copied")

	lean := orig.copy(false)
	assert.Nil(t, lean.ValueCounts())
	assert.Nil(t, lean.LowerBoundValues())
	assert.EqualValues(t, 10, lean.Count(), "record count survives a stats-free copy")
	assert.Equal(t, orig.Partition(), lean.Partition())
}

func TestManifestEntryBuilder(t *testing.T) {
	bldr, err := NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, map[int]any{1000: 1}, 10, 100)
	require.NoError(t, err)
	df := bldr.Build()

	entry := NewManifestEntryBuilder(EntryStatusEXISTING, ptr(int64(99)), df).
		SequenceNum(4).
		FileSequenceNum(5).
		Build()

	assert.Equal(t, EntryStatusEXISTING, entry.Status())
	assert.EqualValues(t, 99, entry.SnapshotID())
	assert.EqualValues(t, 4, entry.SequenceNum())
	require.NotNil(t, entry.FileSequenceNum())
	assert.EqualValues(t, 5, *entry.FileSequenceNum())
	assert.Same(t, df, entry.DataFile())

	bare := NewManifestEntry(EntryStatusADDED, nil, nil, nil, df)
	assert.EqualValues(t, -1, bare.SnapshotID())
	assert.EqualValues(t, -1, bare.SequenceNum())
	assert.Nil(t, bare.FileSequenceNum())
}

func TestManifestEntryInherit(t *testing.T) {
	manifest := NewManifestFile(2, "m.avro", 1, 8, 1234).SequenceNum(9, 9).Build()

	bldr, err := NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f.parquet", ParquetFile, nil, 10, 100)
	require.NoError(t, err)

	added := NewManifestEntry(EntryStatusADDED, nil, nil, nil, bldr.Build())
	added.inherit(manifest)
	assert.EqualValues(t, 1234, added.SnapshotID())
	assert.EqualValues(t, 9, added.SequenceNum())
	assert.EqualValues(t, 8, added.DataFile().SpecID(), "spec id is stamped from the manifest")

	bldr, err = NewDataFileBuilder(readerTestSpec, EntryContentData,
		"s3://b/f2.parquet", ParquetFile, nil, 10, 100)
	require.NoError(t, err)

	existing := NewManifestEntry(EntryStatusEXISTING, ptr(int64(7)), ptr(int64(2)), nil, bldr.Build())
	existing.inherit(manifest)
	assert.EqualValues(t, 7, existing.SnapshotID())
	assert.EqualValues(t, 2, existing.SequenceNum(), "explicit sequence numbers are not overwritten")
	assert.Nil(t, existing.FileSequenceNum(), "EXISTING entries do not inherit file sequence numbers")
}

func TestAvroPartitionDataLogicalTypes(t *testing.T) {
	u := uuid.New()
	in := map[int]any{
		1000: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		1001: 90 * time.Second,
		1002: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		1003: u.String(),
		1004: [16]byte(u),
		1005: int64(7),
	}
	logicalTypes := map[int]avro.LogicalType{
		1000: avro.Date,
		1001: avro.TimeMicros,
		1002: avro.TimestampMicros,
		1003: avro.UUID,
		1004: avro.UUID,
	}

	out := avroPartitionData(in, logicalTypes)

	assert.Equal(t, Date(19783), out[1000])
	assert.Equal(t, Time(90_000_000), out[1001])
	assert.Equal(t, Timestamp(1709294400000000), out[1002])
	assert.Equal(t, u, out[1003])
	assert.Equal(t, u, out[1004])
	assert.Equal(t, int64(7), out[1005], "values without a logical type pass through")
}

func TestEntryContentString(t *testing.T) {
	assert.Equal(t, "Data", EntryContentData.String())
	assert.Equal(t, "Positional_Deletes", EntryContentPosDeletes.String())
	assert.Equal(t, "Equality_Deletes", EntryContentEqDeletes.String())
}
