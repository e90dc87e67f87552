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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanMetricsCounters(t *testing.T) {
	m := NewScanMetrics()
	assert.Zero(t, m.SkippedDataFiles.Count())

	m.SkippedDataFiles.Incr()
	m.SkippedDataFiles.Incr()
	m.SkippedDeleteFiles.Incr()
	assert.EqualValues(t, 2, m.SkippedDataFiles.Count())
	assert.EqualValues(t, 1, m.SkippedDeleteFiles.Count())
}

func TestScanMetricsConcurrent(t *testing.T) {
	m := NewScanMetrics()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				m.SkippedDataFiles.Incr()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 8000, m.SkippedDataFiles.Count())
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	m.SkippedDataFiles.Incr()
	m.SkippedDeleteFiles.Incr()
	assert.Zero(t, m.SkippedDataFiles.Count())
	assert.Zero(t, m.SkippedDeleteFiles.Count())
}
