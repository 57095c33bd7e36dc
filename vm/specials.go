package vm

import (
	"slices"

	"go.starlark.net/syntax"
)

type Special string

const (
	PrintSpecial     Special = "print"
	ExitSpecial      Special = "exit"
	GlobalVarSpecial Special = "global_var"
)

var allSpecials = []Special{
	PrintSpecial,
	ExitSpecial,
	GlobalVarSpecial,
}

func isSpecial(name string) bool {
	return slices.Contains(allSpecials, Special(name))
}

// specialCall compiles the statement-level calls the language knows about.
// None of them leave a value on the stack.
func (cc *compileContext) specialCall(call *syntax.CallExpr) (bool, error) {
	fn, ok := call.Fn.(*syntax.Ident)
	if !ok || !isSpecial(fn.Name) {
		return false, nil
	}
	switch Special(fn.Name) {
	case PrintSpecial:
		if len(call.Args) > 1 {
			return true, cc.errorf(call, "too many arguments to %s, takes one value", fn.Name)
		}
		if len(call.Args) == 0 {
			cc.emitOp(Push(StrValue("")))
		} else {
			err := cc.expr(call.Args[0])
			if err != nil {
				return true, err
			}
		}
		cc.emit(PRINT)
	case ExitSpecial:
		if len(call.Args) != 0 {
			return true, cc.errorf(call, "%s takes no arguments", fn.Name)
		}
		cc.emit(EXIT)
	case GlobalVarSpecial:
		// Compile-time directive: later assignments to these names write
		// the global table instead of the scope chain.
		if len(call.Args) == 0 {
			return true, cc.errorf(call, "%s() requires at least one argument", fn.Name)
		}
		for _, arg := range call.Args {
			lit, ok := arg.(*syntax.Literal)
			if !ok || lit.Token != syntax.STRING {
				return true, cc.errorf(arg, "arguments to %s must be literal strings", fn.Name)
			}
			cc.globals[lit.Value.(string)] = true
		}
	default:
		return true, cc.errorf(call, "unhandled special: %s", fn.Name)
	}
	return true, nil
}
