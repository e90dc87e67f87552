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

// PartitionEvaluatorFn evaluates a row filter projected into partition
// space against a single partition tuple, keyed by partition field id.
// The result is inclusive: true means rows in the file might match, false
// means no row can match and the file may be pruned.
type PartitionEvaluatorFn func(partition map[int]any) (bool, error)

// MetricsEvaluatorFn evaluates a row filter against a data file's column
// statistics. The result is inclusive: false is only returned when the
// statistics prove that no row in the file can match.
type MetricsEvaluatorFn func(file DataFile) (bool, error)

// EvaluatorBuilder constructs the pruning evaluators used while scanning
// a manifest. The expression binding and evaluation engine lives behind
// this interface; the reader only calls the produced functions.
type EvaluatorBuilder interface {
	// NewPartitionEvaluator returns an evaluator for the conjunction of
	// the partition filter and the row filter projected into the
	// partition space of spec.
	NewPartitionEvaluator(spec PartitionSpec, schema *Schema,
		partFilter, rowFilter BooleanExpression, caseSensitive bool) (PartitionEvaluatorFn, error)
	// NewMetricsEvaluator returns an inclusive evaluator of rowFilter
	// against data file column statistics.
	NewMetricsEvaluator(schema *Schema, rowFilter BooleanExpression,
		caseSensitive bool) (MetricsEvaluatorFn, error)
}

// matchAllEvaluators is the default EvaluatorBuilder. Its evaluators
// never prune: without an expression engine the only safe answer for an
// inclusive evaluator is "might match".
type matchAllEvaluators struct{}

func (matchAllEvaluators) NewPartitionEvaluator(PartitionSpec, *Schema,
	BooleanExpression, BooleanExpression, bool) (PartitionEvaluatorFn, error) {
	return func(map[int]any) (bool, error) { return true, nil }, nil
}

func (matchAllEvaluators) NewMetricsEvaluator(*Schema, BooleanExpression,
	bool) (MetricsEvaluatorFn, error) {
	return func(DataFile) (bool, error) { return true, nil }, nil
}
