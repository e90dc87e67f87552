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
	"io"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// blobOpenFile wraps a blob.Reader to satisfy the File interface.
// blob.Reader has no ReadAt, so positional reads seek first.
type blobOpenFile struct {
	*blob.Reader
	name string
}

func (f *blobOpenFile) ReadAt(p []byte, off int64) (int, error) {
	finalOff, err := f.Reader.Seek(off, io.SeekStart)
	if err != nil {
		return -1, err
	} else if finalOff != off {
		return -1, io.ErrUnexpectedEOF
	}

	return f.Read(p)
}

func (f *blobOpenFile) Name() string               { return f.name }
func (f *blobOpenFile) Mode() fs.FileMode          { return fs.ModeIrregular }
func (f *blobOpenFile) Sys() interface{}           { return f.Reader }
func (f *blobOpenFile) IsDir() bool                { return false }
func (f *blobOpenFile) ModTime() time.Time         { return f.Reader.ModTime() }
func (f *blobOpenFile) Stat() (fs.FileInfo, error) { return f, nil }

// blobFileIO is a file system backed by a bucket in an object store.
type blobFileIO struct {
	*blob.Bucket
	ctx    context.Context
	opts   *blob.ReaderOptions
	prefix string
}

// NewBucketFS wraps an already-open bucket as a WriteFileIO. Locations
// are resolved by stripping the scheme and the given prefix.
func NewBucketFS(ctx context.Context, bucket *blob.Bucket, prefix string) WriteFileIO {
	return &blobFileIO{Bucket: bucket, ctx: ctx, opts: &blob.ReaderOptions{}, prefix: prefix}
}

func openBucketFS(ctx context.Context, parsed *url.URL) (IO, error) {
	bucket, err := blob.OpenBucket(ctx, parsed.Scheme+"://")
	if err != nil {
		return nil, err
	}

	return &blobFileIO{
		Bucket: bucket,
		ctx:    ctx,
		opts:   &blob.ReaderOptions{},
		prefix: parsed.Host + parsed.Path,
	}, nil
}

func (b *blobFileIO) preprocess(n string) string {
	_, after, found := strings.Cut(n, "://")
	if found {
		n = after
	}

	out := strings.TrimPrefix(n, b.prefix)

	return strings.TrimPrefix(out, "/")
}

// Open a blob from the bucket for reading.
func (b *blobFileIO) Open(path string) (File, error) {
	if _, err := url.Parse(path); err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}
	key := b.preprocess(path)

	r, err := b.Bucket.NewReader(b.ctx, key, b.opts)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	return &blobOpenFile{Reader: r, name: filepath.Base(key)}, nil
}

// Remove a blob from the bucket.
func (b *blobFileIO) Remove(path string) error {
	return b.Bucket.Delete(b.ctx, b.preprocess(path))
}

// Create opens a blob for writing, replacing any existing content at
// the location. The write is not durable until Close returns.
func (b *blobFileIO) Create(path string) (FileWriter, error) {
	key := b.preprocess(path)
	w, err := b.Bucket.NewWriter(b.ctx, key, nil)
	if err != nil {
		return nil, &fs.PathError{Op: "create", Path: path, Err: err}
	}

	return &blobWriteFile{Writer: w, name: key}, nil
}

type blobWriteFile struct {
	*blob.Writer
	name string
}

func (f *blobWriteFile) Name() string { return f.name }
