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

import "sync/atomic"

// Counter is a monotonically increasing scan counter.
type Counter interface {
	Incr()
	Count() int64
}

// ScanMetrics collects counts of files skipped while scanning manifests.
// The counters are observability only and never influence which entries
// a reader yields.
type ScanMetrics struct {
	// SkippedDataFiles counts data files pruned by the predicate stage
	// of a data manifest scan.
	SkippedDataFiles Counter
	// SkippedDeleteFiles counts delete files pruned by the predicate
	// stage of a delete manifest scan.
	SkippedDeleteFiles Counter
}

// NewScanMetrics returns metrics backed by atomic counters, safe to share
// across readers iterating concurrently.
func NewScanMetrics() *ScanMetrics {
	return &ScanMetrics{
		SkippedDataFiles:   &atomicCounter{},
		SkippedDeleteFiles: &atomicCounter{},
	}
}

// NoopMetrics returns metrics whose counters discard increments. Used as
// the default so callers never need nil checks.
func NoopMetrics() *ScanMetrics {
	return &ScanMetrics{
		SkippedDataFiles:   noopCounter{},
		SkippedDeleteFiles: noopCounter{},
	}
}

type atomicCounter struct {
	n atomic.Int64
}

func (c *atomicCounter) Incr()        { c.n.Add(1) }
func (c *atomicCounter) Count() int64 { return c.n.Load() }

type noopCounter struct{}

func (noopCounter) Incr()        {}
func (noopCounter) Count() int64 { return 0 }
