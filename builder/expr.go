package builder

import (
	"github.com/uvl-tools/uvlsem/ast"
)

// optConstraint reads the constraint rooted at the current node. The
// declaration span covers the enclosing node so operator chains report at
// the full expression.
func (st *state) optConstraint() *ast.ConstraintDecl {
	p := st.w.Node().Parent()
	if p == nil {
		return nil
	}
	span := p.Span()
	st.w.GotoNamed()
	var content ast.Constraint
	switch st.w.Kind() {
	case "path", "name":
		path := st.optPath()
		if path == nil {
			return nil
		}
		content = ast.ConstraintRef{Sym: st.addRefDirect(*path)}
	case "bool":
		content = ast.Constant(visitChildren(st, (*state).optBool))
	case "unary_expr":
		op := st.w.ChildByField("op")
		if op == nil || op.Kind() != "!" {
			return nil
		}
		c := visitChildren(st, func(st *state) *ast.ConstraintDecl {
			if !st.w.GotoField("lhs") {
				return nil
			}
			return st.optConstraint()
		})
		if c == nil {
			return nil
		}
		content = ast.Not{Operand: c}
	case "nested_expr":
		inner := visitChildren(st, (*state).optConstraint)
		if inner == nil {
			return nil
		}
		content = inner.Content
	case "binary_expr":
		op := st.w.ChildByField("op")
		if op == nil {
			return nil
		}
		c := visitChildren(st, func(st *state) ast.Constraint {
			if lop, ok := ast.ParseLogicOp(op.Kind()); ok {
				if !st.w.GotoField("lhs") {
					return nil
				}
				lhs := st.optConstraint()
				if lhs == nil {
					return nil
				}
				if !st.w.GotoField("rhs") {
					return nil
				}
				rhs := st.optConstraint()
				if rhs == nil {
					return nil
				}
				return ast.Logic{Op: lop, Lhs: lhs, Rhs: rhs}
			}
			if eop, ok := ast.ParseEquationOp(op.Kind()); ok {
				if !st.w.GotoField("lhs") {
					return nil
				}
				lhs := st.optNumeric()
				if lhs == nil {
					return nil
				}
				if !st.w.GotoField("rhs") {
					return nil
				}
				rhs := st.optNumeric()
				if rhs == nil {
					return nil
				}
				return ast.Equation{Op: eop, Lhs: lhs, Rhs: rhs}
			}
			if outer := st.w.Node().Parent(); outer != nil {
				st.w.ErrorNode(outer, 40, "expected a constraint, found an expression")
			}
			return nil
		})
		if c == nil {
			return nil
		}
		content = c
	default:
		st.w.Error(40, "expected a constraint, found an expression")
		return nil
	}
	return &ast.ConstraintDecl{Content: content, Span: span}
}

// optNumeric reads the numeric or string expression rooted at the current
// node.
func (st *state) optNumeric() *ast.ExprDecl {
	p := st.w.Node().Parent()
	if p == nil {
		return nil
	}
	span := p.Span()
	st.w.GotoNamed()
	var content ast.Expr
	switch st.w.Kind() {
	case "path":
		path := st.optPath()
		if path == nil {
			return nil
		}
		content = ast.ExprRef{Sym: st.addRefDirect(*path)}
	case "number":
		n, ok := st.optNumber()
		if !ok {
			return nil
		}
		content = ast.Number(n)
	case "string":
		s, ok := st.optString()
		if !ok {
			return nil
		}
		content = ast.String(s)
	case "binary_expr":
		op := st.w.ChildByField("op")
		if op == nil {
			return nil
		}
		e := visitChildren(st, func(st *state) ast.Expr {
			nop, ok := ast.ParseNumericOp(op.Kind())
			if !ok {
				if outer := st.w.Node().Parent(); outer != nil {
					st.w.ErrorNode(outer, 40, "found a constraint, expected an expression")
				}
				return nil
			}
			if !st.w.GotoField("lhs") {
				return nil
			}
			lhs := st.optNumeric()
			if lhs == nil {
				return nil
			}
			if !st.w.GotoField("rhs") {
				return nil
			}
			rhs := st.optNumeric()
			if rhs == nil {
				return nil
			}
			return ast.Binary{Op: nop, Lhs: lhs, Rhs: rhs}
		})
		if e == nil {
			return nil
		}
		content = e
	case "nested_expr":
		inner := visitChildren(st, (*state).optNumeric)
		if inner == nil {
			return nil
		}
		content = inner.Content
	case "function":
		opNode := st.w.ChildByField("op")
		if opNode == nil {
			return nil
		}
		switch st.w.Slice(opNode) {
		case "sum", "avg":
			agg := st.optAggregate()
			if agg == nil {
				return nil
			}
			content = *agg
		case "len":
			if st.w.ChildByField("tail") != nil {
				st.w.Error(10, "trailing comma not supported")
			}
			e := visitChildren(st, func(st *state) ast.Expr {
				if !st.w.GotoField("arg") {
					st.w.Error(30, "missing argument")
					return nil
				}
				arg := st.optNumeric()
				if arg == nil {
					return nil
				}
				if st.w.GotoNextSibling() && st.w.GotoField("arg") {
					st.w.Error(30, "expected exactly one argument")
				}
				return ast.Len{Arg: arg}
			})
			if e == nil {
				return nil
			}
			content = e
		default:
			st.w.Error(30, "unknown function")
			return nil
		}
	default:
		st.w.Error(40, "found a constraint, expected an expression")
		return nil
	}
	return &ast.ExprDecl{Content: content, Span: span}
}

// optAggregate reads a sum/avg call at the current function node. Both the
// context argument and the query path become reference entities so either
// end of the call is findable by position.
func (st *state) optAggregate() *ast.Aggregate {
	opNode := st.w.ChildByField("op")
	if opNode == nil {
		return nil
	}
	op, ok := ast.ParseAggregateOp(st.w.Slice(opNode))
	if !ok {
		st.w.Error(30, "unknown aggregate function")
		return nil
	}
	if st.w.ChildByField("tail") != nil {
		st.w.Error(10, "trailing comma not supported")
	}
	args, ok := st.optFunctionArgs()
	if !ok {
		return nil
	}
	switch len(args) {
	case 0:
		st.w.Error(30, "missing arguments")
		return nil
	case 1:
		st.addRefDirect(args[0])
		return &ast.Aggregate{Op: op, Query: args[0]}
	case 2:
		ctx := st.addRefDirect(args[0])
		st.addRefDirect(args[1])
		return &ast.Aggregate{Op: op, Context: ctx, Query: args[1]}
	default:
		st.w.Error(30, "too many arguments")
		return nil
	}
}

// optFunctionArgs collects the path arguments of the current function node.
// The function name itself appears as a plain name child and is skipped.
func (st *state) optFunctionArgs() ([]ast.Path, bool) {
	ok := true
	args := visitChildren(st, func(st *state) []ast.Path {
		var out []ast.Path
		for {
			switch st.w.Kind() {
			case "name":
			case "path":
				if p := st.optPath(); p != nil {
					out = append(out, *p)
				}
			default:
				if st.w.Node().IsNamed() {
					st.w.Error(30, "expected a reference")
					ok = false
					return nil
				}
			}
			if !st.w.GotoNextSibling() {
				break
			}
		}
		return out
	})
	if !ok {
		return nil, false
	}
	return args, true
}

// visitConstraint stores the constraint at the current node under parent.
func (st *state) visitConstraint(parent ast.Symbol) {
	if c := st.optConstraint(); c != nil {
		st.addConstraint(*c, parent)
	}
}

func (st *state) visitConstraintDecl() {
	for {
		st.checkSimpleBlk("constraints")
		switch st.w.Kind() {
		case "constraint", "ref":
			childScopeArg(st, ast.Root, (*state).visitConstraint)
		case "name":
			st.visitConstraint(ast.Root)
		}
		if st.w.Kind() == "ref" {
			if alias := st.w.ChildByField("alias"); alias != nil {
				st.w.ErrorNode(alias, 30, "alias not allowed here")
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func (st *state) visitConstraints() {
	for {
		st.checkNoExtraBlk("constraints")
		if st.w.Kind() == "blk" {
			switch headerKind(st.header()) {
			case "constraint", "name", "ref":
				childScope(st, (*state).visitConstraintDecl)
			default:
				st.w.Error(40, "expected a constraint")
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}
