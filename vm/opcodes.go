package vm

import "fmt"

type Opcode uint32

const (
	// PRE-STACK ... TOS+1 TOS | OP | POST-STACK
	PUSH Opcode = iota // | x | A
	POP                // A | | NIL

	BINOP   // B A | C = A op B | C   (TOS is the left-hand side)
	UNARY   // A | B = op A | B
	COMPARE // B A | C = A op B | C

	PRINT // A | writes A | NIL
	EXIT  // | stops the machine |

	JMP        // | jumps unconditionally to Target |
	POP_JFALSE // A | jumps to Target if A is false |
	POP_JTRUE  // A | jumps to Target if A is true |

	STORE        // A | Name = A, resolved through the scope chain |
	STORE_GLOBAL // A | globals[Name] = A |
	LOAD         // | scope chain, then globals | A

	PUSH_SCOPE // | opens a scope that resumes at Target when popped |
	POP_SCOPE  // | drops the scope and everything it left on the stack, jumps to its Target |

	// LABEL only exists between compilation and linking.
	LABEL
	OpcodeMax
)

func (o Opcode) String() string {
	switch o {
	case PUSH:
		return "PUSH"
	case POP:
		return "POP"
	case BINOP:
		return "BINOP"
	case UNARY:
		return "UNARY"
	case COMPARE:
		return "COMPARE"
	case PRINT:
		return "PRINT"
	case EXIT:
		return "EXIT"
	case JMP:
		return "JMP"
	case POP_JFALSE:
		return "POP_JFALSE"
	case POP_JTRUE:
		return "POP_JTRUE"
	case STORE:
		return "STORE"
	case STORE_GLOBAL:
		return "STORE_GLOBAL"
	case LOAD:
		return "LOAD"
	case PUSH_SCOPE:
		return "PUSH_SCOPE"
	case POP_SCOPE:
		return "POP_SCOPE"
	case LABEL:
		return "LABEL"
	}
	return fmt.Sprintf("Opcode(%d)", uint32(o))
}

// HasTarget reports whether the opcode carries an absolute instruction index.
func (o Opcode) HasTarget() bool {
	switch o {
	case JMP, POP_JFALSE, POP_JTRUE, PUSH_SCOPE:
		return true
	}
	return false
}

// HasName reports whether the opcode carries a variable name.
func (o Opcode) HasName() bool {
	switch o {
	case STORE, STORE_GLOBAL, LOAD:
		return true
	}
	return false
}

type Operator uint8

const (
	NoOperator Operator = iota

	Plus
	Minus
	Times
	Divide
	And
	Or

	Not

	Equal
	NotEqual
)

func (o Operator) String() string {
	switch o {
	case NoOperator:
		return ""
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Times:
		return "*"
	case Divide:
		return "/"
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	}
	return fmt.Sprintf("Operator(%d)", uint8(o))
}

func (o Operator) IsArithmetic() bool {
	return o >= Plus && o <= Divide
}

func (o Operator) IsLogical() bool {
	return o == And || o == Or
}

// ValidFor reports whether the operator may be carried by the opcode.
func (o Operator) ValidFor(code Opcode) bool {
	switch code {
	case BINOP:
		return o.IsArithmetic() || o.IsLogical()
	case UNARY:
		return o == Not
	case COMPARE:
		return o == Equal || o == NotEqual
	}
	return o == NoOperator
}
