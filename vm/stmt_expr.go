package vm

import (
	"math"

	"go.starlark.net/syntax"
)

func (cc *compileContext) statement(s syntax.Stmt) error {
	cc.setLine(s)

	switch v := s.(type) {
	case *syntax.AssignStmt:
		return cc.assign(v)
	case *syntax.BranchStmt:
		return cc.branch(v)
	case *syntax.ExprStmt:
		if call, ok := v.X.(*syntax.CallExpr); ok {
			if ok, err := cc.specialCall(call); ok {
				return err
			}
		}
		if _, ok := v.X.(*syntax.Literal); ok {
			// Opt: don't compile literals only to pop them.
			return nil
		}
		err := cc.expr(v.X)
		if err != nil {
			return err
		}
		cc.emit(POP)
	case *syntax.WhileStmt:
		// while condition:
		//   body
		// Compiles to:
		//     PUSH_SCOPE end_label
		//   cond_label:
		//     <condition>
		//     POP_JFALSE exit_label
		//     <body>
		//     JMP cond_label
		//   exit_label:
		//     POP_SCOPE           ; resumes at end_label
		//   end_label:
		// The scope is entered once per loop, so locals created by the body
		// and anything left on the stack are dropped exactly once.
		condLabel := cc.newLabel()
		exitLabel := cc.newLabel()
		endLabel := cc.newLabel()
		cc.emitJump(PUSH_SCOPE, endLabel)
		cc.emitLabel(condLabel)
		err := cc.expr(v.Cond)
		if err != nil {
			return err
		}
		cc.emitJump(POP_JFALSE, exitLabel)
		cc.loops = append(cc.loops, loopLabels{cond: condLabel, exit: exitLabel})
		err = cc.buildFromStatements(v.Body)
		cc.loops = cc.loops[:len(cc.loops)-1]
		if err != nil {
			return err
		}
		cc.emitJump(JMP, condLabel)
		cc.emitLabel(exitLabel)
		cc.emit(POP_SCOPE)
		cc.emitLabel(endLabel)
	case *syntax.IfStmt:
		err := cc.expr(v.Cond)
		if err != nil {
			return err
		}
		label := cc.newLabel()
		cc.emitJump(POP_JFALSE, label)
		err = cc.buildFromStatements(v.True)
		if err != nil {
			return err
		}
		if len(v.False) == 0 {
			cc.emitLabel(label)
			return nil
		}
		endLabel := cc.newLabel()
		cc.emitJump(JMP, endLabel)
		cc.emitLabel(label)
		err = cc.buildFromStatements(v.False)
		if err != nil {
			return err
		}
		cc.emitLabel(endLabel)
	case *syntax.DefStmt:
		return cc.errorf(v, "function definitions are unsupported")
	case *syntax.ForStmt:
		return cc.errorf(v, "for loops are unsupported, use while")
	case *syntax.ReturnStmt:
		return cc.errorf(v, "return is unsupported")
	case *syntax.LoadStmt:
		return cc.errorf(v, "load is unsupported")
	default:
		return cc.errorf(s, "unhandled statement type %T", s)
	}
	return nil
}

func (cc *compileContext) branch(v *syntax.BranchStmt) error {
	if v.Token == syntax.PASS {
		return nil
	}
	if len(cc.loops) == 0 {
		return cc.errorf(v, "%s outside of a loop", v.Token)
	}
	loop := cc.loops[len(cc.loops)-1]
	switch v.Token {
	case syntax.BREAK:
		cc.emitJump(JMP, loop.exit)
	case syntax.CONTINUE:
		cc.emitJump(JMP, loop.cond)
	default:
		return cc.errorf(v, "unhandled branch %s", v.Token)
	}
	return nil
}

func (cc *compileContext) expr(e syntax.Expr) error {
	cc.setLine(e)

	switch v := e.(type) {
	case *syntax.BinaryExpr:
		op, code, err := cc.binOp(v)
		if err != nil {
			return err
		}
		// The evaluator takes the left-hand operand from the top of the
		// stack, so the right-hand side goes first.
		err = cc.expr(v.Y)
		if err != nil {
			return err
		}
		err = cc.expr(v.X)
		if err != nil {
			return err
		}
		cc.emitOp(Op{Code: code, Operator: op})
	case *syntax.CallExpr:
		if fn, ok := v.Fn.(*syntax.Ident); ok && isSpecial(fn.Name) {
			return cc.errorf(v, "%s() does not produce a value", fn.Name)
		}
		return cc.errorf(v, "function calls are unsupported")
	case *syntax.Ident:
		switch v.Name {
		case "True":
			cc.emitOp(Push(BoolTrue))
		case "False":
			cc.emitOp(Push(BoolFalse))
		case "None":
			return cc.errorf(v, "None is unsupported")
		default:
			cc.emitOp(Load(v.Name))
		}
	case *syntax.Literal:
		val, err := cc.litToValue(v, false)
		if err != nil {
			return err
		}
		cc.emitOp(Push(val))
	case *syntax.ParenExpr:
		return cc.expr(unparen(v))
	case *syntax.UnaryExpr:
		return cc.unary(v)
	default:
		return cc.errorf(e, "unhandled expression type %T", e)
	}
	return nil
}

func (cc *compileContext) binOp(e *syntax.BinaryExpr) (Operator, Opcode, error) {
	switch e.Op {
	case syntax.PLUS: // +
		return Plus, BINOP, nil
	case syntax.MINUS: // -
		return Minus, BINOP, nil
	case syntax.STAR: // *
		return Times, BINOP, nil
	case syntax.SLASH: // /
		return Divide, BINOP, nil
	case syntax.AND:
		return And, BINOP, nil
	case syntax.OR:
		return Or, BINOP, nil
	case syntax.EQL: // ==
		return Equal, COMPARE, nil
	case syntax.NEQ: // !=
		return NotEqual, COMPARE, nil
	}
	return NoOperator, 0, cc.errorf(e, "operator %s is unsupported", e.Op)
}

func (cc *compileContext) unary(e *syntax.UnaryExpr) error {
	if lit, ok := unparen(e.X).(*syntax.Literal); ok && e.Op == syntax.MINUS && lit.Token == syntax.INT {
		val, err := cc.litToValue(lit, true)
		if err != nil {
			return err
		}
		cc.emitOp(Push(val))
		return nil
	}
	switch e.Op {
	case syntax.NOT:
		err := cc.expr(e.X)
		if err != nil {
			return err
		}
		cc.emitOp(Unary(Not))
	case syntax.MINUS:
		// Unary minus: 0 - x, with 0 on top as the left-hand side.
		err := cc.expr(e.X)
		if err != nil {
			return err
		}
		cc.emitOp(Push(IntValue(0)))
		cc.emitOp(Binop(Minus))
	case syntax.PLUS:
		// Unary plus is a no-op
		return cc.expr(e.X)
	default:
		return cc.errorf(e, "unary operator %s is unsupported", e.Op)
	}
	return nil
}

func (cc *compileContext) assign(a *syntax.AssignStmt) error {
	lhs, ok := a.LHS.(*syntax.Ident)
	if !ok {
		return cc.errorf(a, "can only assign to a plain name, not %T", a.LHS)
	}
	if lhs.Name == "True" || lhs.Name == "False" {
		return cc.errorf(a, "reassigning `%s` is not allowed", lhs.Name)
	}
	err := cc.expr(a.RHS)
	if err != nil {
		return err
	}
	if a.Op != syntax.EQ {
		op, err := cc.augmentedOp(a)
		if err != nil {
			return err
		}
		cc.emitOp(Load(lhs.Name))
		cc.emitOp(Binop(op))
	}
	if cc.globals[lhs.Name] {
		cc.emitOp(StoreGlobal(lhs.Name))
	} else {
		cc.emitOp(Store(lhs.Name))
	}
	return nil
}

func (cc *compileContext) augmentedOp(a *syntax.AssignStmt) (Operator, error) {
	switch a.Op {
	case syntax.PLUS_EQ:
		return Plus, nil
	case syntax.MINUS_EQ:
		return Minus, nil
	case syntax.STAR_EQ:
		return Times, nil
	case syntax.SLASH_EQ:
		return Divide, nil
	}
	return NoOperator, cc.errorf(a, "%s assignments are unsupported", a.Op)
}

func unparen(e syntax.Expr) syntax.Expr {
	if p, ok := e.(*syntax.ParenExpr); ok {
		return unparen(p.X)
	}
	return e
}

func (cc *compileContext) litToValue(l *syntax.Literal, negate bool) (Value, error) {
	switch t := l.Value.(type) {
	case int64:
		if negate {
			t = -t
		}
		if t < math.MinInt32 || t > math.MaxInt32 {
			return nil, cc.errorf(l, "integer literal %s overflows int32", l.Raw)
		}
		return IntValue(int32(t)), nil
	case string:
		return StrValue(t), nil
	}
	return nil, cc.errorf(l, "unsupported literal %s", l.Raw)
}
