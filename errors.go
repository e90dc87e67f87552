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

import "errors"

var (
	// ErrInvalidArgument is wrapped by errors caused by a bad value passed
	// to a constructor or configuration method.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is wrapped by errors caused by calling methods in an
	// order or combination that is not allowed, such as configuring both a
	// column selection and a schema projection on the same reader.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidSchema is wrapped by errors encountered while resolving
	// columns against a schema.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidTypeString is returned when parsing an unrecognized type name.
	ErrInvalidTypeString = errors.New("invalid type string")
	// ErrInvalidTransform is returned when parsing an unrecognized transform.
	ErrInvalidTransform = errors.New("invalid transform syntax")
	// ErrInvalidManifest is wrapped by errors caused by malformed manifest
	// container metadata.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrIO is wrapped by errors surfaced from the underlying byte source
	// during header or row decoding. The cause is always attached.
	ErrIO = errors.New("io failure")
)
