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

// Package io provides IO abstractions for reading and writing files
// referenced by location URI, with implementations for the local file
// system and gocloud.dev blob buckets.
package io

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
)

// File is the interface for readable files in this package. It combines
// fs.File with seeking and positional reads, which manifest and data
// file consumers rely on.
type File interface {
	fs.File
	io.ReadSeekCloser
	io.ReaderAt
}

// FileWriter is the interface for writable files. Writes are not
// guaranteed to be durable until Close returns.
type FileWriter interface {
	io.Writer
	io.Closer
}

// IO is the minimal interface for opening and removing files by
// location URI.
type IO interface {
	// Open the file at the given location for reading.
	Open(location string) (File, error)
	// Remove the file at the given location.
	Remove(location string) error
}

// WriteFileIO is implemented by IOs that can also create files.
type WriteFileIO interface {
	IO
	// Create the file at the given location for writing, replacing any
	// existing file.
	Create(location string) (FileWriter, error)
}

// LoadFS returns an IO for the given location based on its URI scheme.
// An empty scheme or "file" resolves to the local file system; "mem"
// opens a fresh in-memory bucket, useful for scratch space. Unknown
// schemes are an error.
func LoadFS(ctx context.Context, props map[string]string, location string) (IO, error) {
	if location == "" {
		return LocalFS{}, nil
	}

	parsed, err := url.Parse(location)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "", "file":
		return LocalFS{}, nil
	case "mem":
		return openBucketFS(ctx, parsed)
	default:
		return nil, fmt.Errorf("IO for file '%s' not implemented", location)
	}
}
