package ast

import "github.com/uvl-tools/uvlsem/text"

// NumericOp is a binary arithmetic operator.
type NumericOp uint8

const (
	OpAdd NumericOp = iota
	OpSub
	OpMul
	OpDiv
)

// ParseNumericOp maps an operator token to its NumericOp.
func ParseNumericOp(tok string) (NumericOp, bool) {
	switch tok {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	default:
		return 0, false
	}
}

// LogicOp is a binary boolean operator.
type LogicOp uint8

const (
	OpAnd LogicOp = iota
	OpOr
	OpImplies
	OpEquiv
)

// ParseLogicOp maps an operator token to its LogicOp.
func ParseLogicOp(tok string) (LogicOp, bool) {
	switch tok {
	case "&":
		return OpAnd, true
	case "|":
		return OpOr, true
	case "=>":
		return OpImplies, true
	case "<=>":
		return OpEquiv, true
	default:
		return 0, false
	}
}

// EquationOp compares two numeric expressions.
type EquationOp uint8

const (
	OpGreater EquationOp = iota
	OpSmaller
	OpEqual
)

// ParseEquationOp maps an operator token to its EquationOp.
func ParseEquationOp(tok string) (EquationOp, bool) {
	switch tok {
	case ">":
		return OpGreater, true
	case "<":
		return OpSmaller, true
	case "==":
		return OpEqual, true
	default:
		return 0, false
	}
}

// AggregateOp aggregates attribute values reached by a query path.
type AggregateOp uint8

const (
	OpSum AggregateOp = iota
	OpAvg
)

// ParseAggregateOp maps a function name to its AggregateOp.
func ParseAggregateOp(name string) (AggregateOp, bool) {
	switch name {
	case "sum":
		return OpSum, true
	case "avg":
		return OpAvg, true
	default:
		return 0, false
	}
}

// Constraint is a node of a boolean constraint tree.
type Constraint interface {
	isConstraint()
}

// ConstraintDecl is a constraint with the span of its declaration.
type ConstraintDecl struct {
	Content Constraint
	Span    text.Span
}

// Constant is a boolean literal constraint.
type Constant bool

// Equation compares two numeric expressions.
type Equation struct {
	Op  EquationOp
	Lhs *ExprDecl
	Rhs *ExprDecl
}

// Logic combines two constraints with a boolean operator.
type Logic struct {
	Op  LogicOp
	Lhs *ConstraintDecl
	Rhs *ConstraintDecl
}

// ConstraintRef is a bare reference used as a boolean.
type ConstraintRef struct {
	Sym Symbol
}

// Not negates a constraint.
type Not struct {
	Operand *ConstraintDecl
}

func (Constant) isConstraint()      {}
func (Equation) isConstraint()      {}
func (Logic) isConstraint()         {}
func (ConstraintRef) isConstraint() {}
func (Not) isConstraint()           {}

// Expr is a node of a numeric/string expression tree.
type Expr interface {
	isExpr()
}

// ExprDecl is an expression with the span of its declaration.
type ExprDecl struct {
	Content Expr
	Span    text.Span
}

// Number is a numeric literal.
type Number float64

// String is a string literal.
type String string

// ExprRef is a reference used as a value.
type ExprRef struct {
	Sym Symbol
}

// Binary is a binary arithmetic expression.
type Binary struct {
	Op  NumericOp
	Lhs *ExprDecl
	Rhs *ExprDecl
}

// Aggregate applies sum/avg over the attributes reached by Query. Context is
// the explicit context reference for the two-argument form; the zero Symbol
// means the enclosing feature is the implicit context.
type Aggregate struct {
	Op      AggregateOp
	Context Symbol
	Query   Path
}

// Len is the length of a string or vector expression.
type Len struct {
	Arg *ExprDecl
}

func (Number) isExpr()    {}
func (String) isExpr()    {}
func (ExprRef) isExpr()   {}
func (Binary) isExpr()    {}
func (Aggregate) isExpr() {}
func (Len) isExpr()       {}
