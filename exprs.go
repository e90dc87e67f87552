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

import "fmt"

// Operation is an enum used for constructing and manipulating
// boolean expressions.
type Operation int

const (
	// OpTrue and OpFalse are the boolean literal operations.
	OpTrue Operation = iota
	OpFalse
	// unary ops
	OpIsNull
	OpNotNull
	OpIsNan
	OpNotNan
	// literal ops
	OpLT
	OpLTEQ
	OpGT
	OpGTEQ
	OpEQ
	OpNEQ
	OpStartsWith
	OpNotStartsWith
	// set ops
	OpIn
	OpNotIn
	// OpNot, OpAnd and OpOr combine other expressions.
	OpNot
	OpAnd
	OpOr
)

func (op Operation) String() string {
	switch op {
	case OpTrue:
		return "True"
	case OpFalse:
		return "False"
	case OpIsNull:
		return "IsNull"
	case OpNotNull:
		return "NotNull"
	case OpIsNan:
		return "IsNaN"
	case OpNotNan:
		return "NotNaN"
	case OpLT:
		return "LessThan"
	case OpLTEQ:
		return "LessThanEqual"
	case OpGT:
		return "GreaterThan"
	case OpGTEQ:
		return "GreaterThanEqual"
	case OpEQ:
		return "Equal"
	case OpNEQ:
		return "NotEqual"
	case OpStartsWith:
		return "StartsWith"
	case OpNotStartsWith:
		return "NotStartsWith"
	case OpIn:
		return "In"
	case OpNotIn:
		return "NotIn"
	case OpNot:
		return "Not"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	default:
		return "InvalidOperation"
	}
}

// Negate returns the inverse operation for a given op.
func (op Operation) Negate() Operation {
	switch op {
	case OpTrue:
		return OpFalse
	case OpFalse:
		return OpTrue
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	case OpIsNan:
		return OpNotNan
	case OpNotNan:
		return OpIsNan
	case OpLT:
		return OpGTEQ
	case OpLTEQ:
		return OpGT
	case OpGT:
		return OpLTEQ
	case OpGTEQ:
		return OpLT
	case OpEQ:
		return OpNEQ
	case OpNEQ:
		return OpEQ
	case OpStartsWith:
		return OpNotStartsWith
	case OpNotStartsWith:
		return OpStartsWith
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	default:
		panic(fmt.Errorf("%w: no negation for operation %s", ErrInvalidArgument, op))
	}
}

// BooleanExpression represents a full expression which will evaluate to a
// boolean value such as "x > 5 AND y IS NULL". Predicate leaves are built
// and bound by the expression engine; this package only composes and
// carries them.
type BooleanExpression interface {
	fmt.Stringer
	Op() Operation
	Negate() BooleanExpression
	Equals(BooleanExpression) bool
}

// AlwaysTrue is the boolean expression "True".
type AlwaysTrue struct{}

func (AlwaysTrue) String() string            { return "AlwaysTrue()" }
func (AlwaysTrue) Op() Operation             { return OpTrue }
func (AlwaysTrue) Negate() BooleanExpression { return AlwaysFalse{} }
func (AlwaysTrue) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysTrue)

	return ok
}

// AlwaysFalse is the boolean expression "False".
type AlwaysFalse struct{}

func (AlwaysFalse) String() string            { return "AlwaysFalse()" }
func (AlwaysFalse) Op() Operation             { return OpFalse }
func (AlwaysFalse) Negate() BooleanExpression { return AlwaysTrue{} }
func (AlwaysFalse) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysFalse)

	return ok
}

// NotExpr is a boolean expression representing a negation of another
// expression.
type NotExpr struct {
	child BooleanExpression
}

// NewNot creates a BooleanExpression representing a Not operation on the
// given argument. It will optimize slightly: if the argument is a NotExpr
// its child is returned, and if the argument is AlwaysTrue/AlwaysFalse
// the inverse literal is returned.
func NewNot(child BooleanExpression) BooleanExpression {
	if child == nil {
		panic(fmt.Errorf("%w: cannot create NotExpr with nil child", ErrInvalidArgument))
	}

	switch t := child.(type) {
	case NotExpr:
		return t.child
	case AlwaysTrue:
		return AlwaysFalse{}
	case AlwaysFalse:
		return AlwaysTrue{}
	}

	return NotExpr{child: child}
}

func (n NotExpr) String() string            { return "Not(child=" + n.child.String() + ")" }
func (NotExpr) Op() Operation               { return OpNot }
func (n NotExpr) Negate() BooleanExpression { return n.child }
func (n NotExpr) Child() BooleanExpression  { return n.child }
func (n NotExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(NotExpr)

	return ok && n.child.Equals(rhs.child)
}

// AndExpr is a boolean expression representing a logical and of two
// expressions.
type AndExpr struct {
	left, right BooleanExpression
}

func newAnd(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct AndExpr with nil arguments", ErrInvalidArgument))
	}

	switch {
	case left.Op() == OpFalse || right.Op() == OpFalse:
		return AlwaysFalse{}
	case left.Op() == OpTrue:
		return right
	case right.Op() == OpTrue:
		return left
	}

	return AndExpr{left: left, right: right}
}

// NewAnd constructs a new And expression, folding AlwaysTrue and
// AlwaysFalse arguments away.
func NewAnd(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newAnd(left, right)
	for _, a := range addl {
		folded = newAnd(folded, a)
	}

	return folded
}

func (a AndExpr) String() string {
	return "And(left=" + a.left.String() + ", right=" + a.right.String() + ")"
}

func (AndExpr) Op() Operation              { return OpAnd }
func (a AndExpr) Left() BooleanExpression  { return a.left }
func (a AndExpr) Right() BooleanExpression { return a.right }
func (a AndExpr) Negate() BooleanExpression {
	return NewOr(a.left.Negate(), a.right.Negate())
}

func (a AndExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(AndExpr)
	if !ok {
		return false
	}

	return (a.left.Equals(rhs.left) && a.right.Equals(rhs.right)) ||
		(a.left.Equals(rhs.right) && a.right.Equals(rhs.left))
}

// OrExpr is a boolean expression representing a logical or of two
// expressions.
type OrExpr struct {
	left, right BooleanExpression
}

func newOr(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct OrExpr with nil arguments", ErrInvalidArgument))
	}

	switch {
	case left.Op() == OpTrue || right.Op() == OpTrue:
		return AlwaysTrue{}
	case left.Op() == OpFalse:
		return right
	case right.Op() == OpFalse:
		return left
	}

	return OrExpr{left: left, right: right}
}

// NewOr constructs a new Or expression, folding AlwaysTrue and
// AlwaysFalse arguments away.
func NewOr(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newOr(left, right)
	for _, a := range addl {
		folded = newOr(folded, a)
	}

	return folded
}

func (o OrExpr) String() string {
	return "Or(left=" + o.left.String() + ", right=" + o.right.String() + ")"
}

func (OrExpr) Op() Operation              { return OpOr }
func (o OrExpr) Left() BooleanExpression  { return o.left }
func (o OrExpr) Right() BooleanExpression { return o.right }
func (o OrExpr) Negate() BooleanExpression {
	return NewAnd(o.left.Negate(), o.right.Negate())
}

func (o OrExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(OrExpr)
	if !ok {
		return false
	}

	return (o.left.Equals(rhs.left) && o.right.Equals(rhs.right)) ||
		(o.left.Equals(rhs.right) && o.right.Equals(rhs.left))
}
