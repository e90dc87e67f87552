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

package io

import (
	"context"
	stdio "io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestLocalFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	location := "file://" + filepath.Join(dir, "sub", "data.bin")

	fw, err := LocalFS{}.Create(location)
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello manifests"))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	f, err := LocalFS{}.Open(location)
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := f.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "manif", string(buf))

	all, err := stdio.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello manifests", string(all), "ReadAt does not move the read offset")
	require.NoError(t, f.Close())

	require.NoError(t, LocalFS{}.Remove(location))
	_, err = LocalFS{}.Open(location)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalFSWriteFile(t *testing.T) {
	location := "file://" + filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, LocalFS{}.WriteFile(location, []byte("abc")))

	f, err := LocalFS{}.Open(location)
	require.NoError(t, err)
	defer f.Close()

	all, err := stdio.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(all))
}

func TestLoadFSDispatch(t *testing.T) {
	ctx := context.Background()

	fio, err := LoadFS(ctx, nil, "")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fio)

	fio, err = LoadFS(ctx, nil, "file:///tmp/whatever.avro")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fio)

	fio, err = LoadFS(ctx, nil, "/tmp/whatever.avro")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fio)

	fio, err = LoadFS(ctx, nil, "mem://bucket/path")
	require.NoError(t, err)
	assert.IsType(t, (*blobFileIO)(nil), fio)

	_, err = LoadFS(ctx, nil, "gopher://bucket/path")
	require.Error(t, err)
	assert.ErrorContains(t, err, "IO for file 'gopher://bucket/path' not implemented")
}

func TestBucketFSRoundTrip(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	fio := NewBucketFS(ctx, bucket, "warehouse")
	location := "mem://warehouse/metadata/m0.avro"

	w, err := fio.Create(location)
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := fio.Open(location)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "m0.avro", info.Name())
	assert.False(t, info.IsDir())
	assert.EqualValues(t, 10, info.Size())
	require.NoError(t, f.Close())

	require.NoError(t, fio.Remove(location))
	_, err = fio.Open(location)
	require.Error(t, err)
}

func TestBucketFSPrefixStripping(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	fio := NewBucketFS(ctx, bucket, "warehouse")

	w, err := fio.Create("mem://warehouse/a/b.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The same blob is reachable with or without scheme and prefix.
	for _, loc := range []string{"mem://warehouse/a/b.txt", "warehouse/a/b.txt", "a/b.txt"} {
		f, err := fio.Open(loc)
		require.NoError(t, err, loc)
		require.NoError(t, f.Close())
	}

	exists, err := bucket.Exists(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.True(t, exists, "keys are stored relative to the prefix")
}
