package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
)

const (
	programMagic   = "scopevm"
	programVersion = 1
)

// Program is the flat instruction sequence the interpreter executes. Jump
// targets are absolute indices into Ops. Lines is parallel to Ops when the
// program came out of the compiler and nil for hand-assembled programs.
type Program struct {
	Filename string
	Ops      []Op
	Lines    []int
}

func NewProgram(ops ...Op) *Program {
	p := &Program{}
	p.Append(ops...)
	return p
}

func (p *Program) Append(ops ...Op) {
	p.Ops = append(p.Ops, ops...)
	if p.Lines != nil {
		p.Lines = append(p.Lines, make([]int, len(ops))...)
	}
}

func (p *Program) Len() int {
	return len(p.Ops)
}

var ErrEndOfCode = errors.New("End of code block")

func (p *Program) GetInstruction(pc int) (Op, error) {
	if pc < 0 || pc >= len(p.Ops) {
		return Op{}, ErrEndOfCode
	}
	return p.Ops[pc], nil
}

// GetLineNumber returns the source line of the instruction at pc, or 0 if unknown.
func (p *Program) GetLineNumber(pc int) int {
	if pc < 0 || pc >= len(p.Lines) {
		return 0
	}
	return p.Lines[pc]
}

// Validate checks the static shape of every instruction. The interpreter
// never calls it; an out-of-range jump there simply ends the run.
func (p *Program) Validate() error {
	var errs []error
	for i, o := range p.Ops {
		if o.Code >= OpcodeMax {
			errs = append(errs, fmt.Errorf("%03d: unknown opcode %d", i, uint32(o.Code)))
			continue
		}
		if o.Code == LABEL {
			errs = append(errs, fmt.Errorf("%03d: unresolved label %q", i, o.Name))
			continue
		}
		if !o.Operator.ValidFor(o.Code) {
			errs = append(errs, fmt.Errorf("%03d: operator %q is not valid for %s", i, o.Operator, o.Code))
		}
		if o.Code == PUSH && o.Arg == nil {
			errs = append(errs, fmt.Errorf("%03d: PUSH without a value", i))
		}
		if o.Code.HasTarget() && (o.Target < 0 || o.Target > len(p.Ops)) {
			errs = append(errs, fmt.Errorf("%03d: %s target %d out of range [0, %d]", i, o.Code, o.Target, len(p.Ops)))
		}
		if o.Code.HasName() && o.Name == "" {
			errs = append(errs, fmt.Errorf("%03d: %s without a name", i, o.Code))
		}
	}
	return errors.Join(errs...)
}

func (p *Program) DebugPrint(w io.Writer) {
	if p.Filename != "" {
		fmt.Fprintf(w, "*** %s\n", p.Filename)
	}
	for i, o := range p.Ops {
		if line := p.GetLineNumber(i); line > 0 {
			fmt.Fprintf(w, "  %03d: %-24s ; line %d\n", i, o, line)
		} else {
			fmt.Fprintf(w, "  %03d: %s\n", i, o)
		}
	}
}

type wireProgram struct {
	Magic    string
	Version  int
	Filename string
	Ops      []wireOp
	Lines    []int
}

func (p *Program) Serialize(w io.Writer) error {
	out := wireProgram{
		Magic:    programMagic,
		Version:  programVersion,
		Filename: p.Filename,
		Lines:    p.Lines,
	}
	for _, o := range p.Ops {
		if o.Code == LABEL {
			return fmt.Errorf("cannot serialize unlinked label %q", o.Name)
		}
		out.Ops = append(out.Ops, opToWire(o))
	}
	return msgpack.MarshalWrite(w, out)
}

func (p *Program) Deserialize(r io.Reader) error {
	var in wireProgram
	if err := msgpack.UnmarshalRead(r, &in); err != nil {
		return fmt.Errorf("decoding program: %w", err)
	}
	if in.Magic != programMagic {
		return errors.New("not a scopevm program")
	}
	if in.Version != programVersion {
		return fmt.Errorf("unsupported program version %d", in.Version)
	}
	ops := make([]Op, 0, len(in.Ops))
	for i, wo := range in.Ops {
		o, err := wo.op()
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		ops = append(ops, o)
	}
	if in.Lines != nil && len(in.Lines) != len(ops) {
		return fmt.Errorf("line table has %d entries for %d instructions", len(in.Lines), len(ops))
	}
	p.Filename = in.Filename
	p.Ops = ops
	p.Lines = in.Lines
	return nil
}
