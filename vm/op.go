package vm

import "fmt"

// Op is a single instruction. Only the fields relevant to Code are set.
type Op struct {
	Code     Opcode
	Operator Operator // BINOP, UNARY, COMPARE
	Arg      Value    // PUSH
	Target   int      // JMP, POP_JFALSE, POP_JTRUE, PUSH_SCOPE
	Name     string   // STORE, STORE_GLOBAL, LOAD, and LABEL before linking
}

func (o Op) String() string {
	switch {
	case o.Code == PUSH:
		return fmt.Sprintf("%s %s", o.Code, FormatValue(o.Arg))
	case o.Code == BINOP || o.Code == UNARY || o.Code == COMPARE:
		return fmt.Sprintf("%s %s", o.Code, o.Operator)
	case o.Code == LABEL:
		return fmt.Sprintf("%s %s", o.Code, o.Name)
	case o.Code.HasTarget():
		return fmt.Sprintf("%s %d", o.Code, o.Target)
	case o.Code.HasName():
		return fmt.Sprintf("%s %s", o.Code, o.Name)
	}
	return o.Code.String()
}

func Push(v Value) Op { return Op{Code: PUSH, Arg: v} }
func Pop() Op { return Op{Code: POP} }
func Binop(op Operator) Op { return Op{Code: BINOP, Operator: op} }
func Unary(op Operator) Op { return Op{Code: UNARY, Operator: op} }
func Compare(op Operator) Op { return Op{Code: COMPARE, Operator: op} }
func Print() Op { return Op{Code: PRINT} }
func Exit() Op { return Op{Code: EXIT} }
func Jump(target int) Op { return Op{Code: JMP, Target: target} }
func PopJumpFalse(target int) Op { return Op{Code: POP_JFALSE, Target: target} }
func PopJumpTrue(target int) Op { return Op{Code: POP_JTRUE, Target: target} }
func Store(name string) Op { return Op{Code: STORE, Name: name} }
func StoreGlobal(name string) Op { return Op{Code: STORE_GLOBAL, Name: name} }
func Load(name string) Op { return Op{Code: LOAD, Name: name} }
func PushScope(afterInstr int) Op { return Op{Code: PUSH_SCOPE, Target: afterInstr} }
func PopScope() Op { return Op{Code: POP_SCOPE} }
