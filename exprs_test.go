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

	"github.com/stretchr/testify/assert"
)

var (
	exprA = colPredicate{op: OpEQ, term: "a"}
	exprB = colPredicate{op: OpLT, term: "b"}
	exprC = colPredicate{op: OpGT, term: "c"}
)

func TestLiteralBooleanExpressions(t *testing.T) {
	assert.Equal(t, OpTrue, AlwaysTrue{}.Op())
	assert.Equal(t, OpFalse, AlwaysFalse{}.Op())
	assert.Equal(t, AlwaysFalse{}, AlwaysTrue{}.Negate())
	assert.Equal(t, AlwaysTrue{}, AlwaysFalse{}.Negate())
	assert.True(t, AlwaysTrue{}.Equals(AlwaysTrue{}))
	assert.False(t, AlwaysTrue{}.Equals(AlwaysFalse{}))
}

func TestNewNot(t *testing.T) {
	assert.Equal(t, AlwaysFalse{}, NewNot(AlwaysTrue{}))
	assert.Equal(t, AlwaysTrue{}, NewNot(AlwaysFalse{}))

	not := NewNot(exprA)
	assert.Equal(t, OpNot, not.Op())
	assert.Equal(t, exprA, NewNot(not), "double negation unwraps")
	assert.True(t, not.Negate().Equals(exprA))

	assert.Panics(t, func() { NewNot(nil) })
}

func TestAndFolding(t *testing.T) {
	assert.Equal(t, exprA, NewAnd(AlwaysTrue{}, exprA))
	assert.Equal(t, exprA, NewAnd(exprA, AlwaysTrue{}))
	assert.Equal(t, AlwaysFalse{}, NewAnd(exprA, AlwaysFalse{}))
	assert.Equal(t, AlwaysFalse{}, NewAnd(AlwaysFalse{}, exprA))

	and := NewAnd(exprA, exprB, exprC)
	assert.Equal(t, OpAnd, and.Op())
	assert.Equal(t, "And(left=And(left=Equal(term=a), right=LessThan(term=b)), right=GreaterThan(term=c))",
		and.String())

	assert.Panics(t, func() { NewAnd(nil, exprA) })
}

func TestOrFolding(t *testing.T) {
	assert.Equal(t, AlwaysTrue{}, NewOr(exprA, AlwaysTrue{}))
	assert.Equal(t, exprA, NewOr(exprA, AlwaysFalse{}))
	assert.Equal(t, exprA, NewOr(AlwaysFalse{}, exprA))
	assert.Equal(t, OpOr, NewOr(exprA, exprB).Op())

	assert.Panics(t, func() { NewOr(exprA, nil) })
}

func TestAndOrEqualsCommutative(t *testing.T) {
	assert.True(t, NewAnd(exprA, exprB).Equals(NewAnd(exprB, exprA)))
	assert.True(t, NewOr(exprA, exprB).Equals(NewOr(exprB, exprA)))
	assert.False(t, NewAnd(exprA, exprB).Equals(NewAnd(exprA, exprC)))
	assert.False(t, NewAnd(exprA, exprB).Equals(NewOr(exprA, exprB)))
}

func TestDeMorgan(t *testing.T) {
	assert.True(t, NewAnd(exprA, exprB).Negate().Equals(NewOr(exprA.Negate(), exprB.Negate())))
	assert.True(t, NewOr(exprA, exprB).Negate().Equals(NewAnd(exprA.Negate(), exprB.Negate())))
}

func TestOperationNegation(t *testing.T) {
	pairs := map[Operation]Operation{
		OpTrue:       OpFalse,
		OpIsNull:     OpNotNull,
		OpIsNan:      OpNotNan,
		OpLT:         OpGTEQ,
		OpLTEQ:       OpGT,
		OpEQ:         OpNEQ,
		OpIn:         OpNotIn,
		OpStartsWith: OpNotStartsWith,
	}

	for op, negated := range pairs {
		assert.Equal(t, negated, op.Negate())
		assert.Equal(t, op, negated.Negate())
	}

	assert.Panics(t, func() { OpAnd.Negate() })
}
