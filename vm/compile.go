package vm

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.starlark.net/syntax"
)

// CompileError is a front-end failure tied to a source position.
type CompileError struct {
	Pos syntax.Position
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type loopLabels struct {
	cond string // start of the condition check
	exit string // the loop's POP_SCOPE
}

type compileContext struct {
	ops     []Op
	lines   []int
	line    int
	globals map[string]bool
	loops   []loopLabels
}

func newCompileContext() *compileContext {
	return &compileContext{
		globals: make(map[string]bool),
	}
}

func (cc *compileContext) setLine(n syntax.Node) {
	start, _ := n.Span()
	if start.Line > 0 {
		cc.line = int(start.Line)
	}
}

func (cc *compileContext) errorf(n syntax.Node, format string, args ...any) error {
	start, _ := n.Span()
	return &CompileError{Pos: start, Msg: fmt.Sprintf(format, args...)}
}

func (cc *compileContext) emitOp(o Op) {
	cc.ops = append(cc.ops, o)
	cc.lines = append(cc.lines, cc.line)
}

func (cc *compileContext) emit(code Opcode) {
	cc.emitOp(Op{Code: code})
}

func (cc *compileContext) emitJump(code Opcode, label string) {
	cc.emitOp(Op{Code: code, Name: label})
}

func (cc *compileContext) newLabel() string {
	return uuid.NewString()
}

func (cc *compileContext) emitLabel(s string) {
	cc.emitOp(Op{Code: LABEL, Name: s})
}

func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
}

func CompilePath(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFile(path, f)
}

func CompileLiteral(code string) (*Program, error) {
	synFile, err := fileOptions().Parse("<literal>", code, 0)
	if err != nil {
		return nil, err
	}
	return Compile(synFile)
}

func Compile(file *syntax.File) (*Program, error) {
	cc := newCompileContext()
	err := cc.buildFromStatements(file.Stmts)
	if err != nil {
		return nil, err
	}
	p, err := cc.intoProgram()
	if err != nil {
		return nil, err
	}
	p.Filename = file.Path
	return p, nil
}

// intoProgram drops LABEL pseudo-ops and rewrites every label reference into
// the absolute index of the instruction that follows the label.
func (cc *compileContext) intoProgram() (*Program, error) {
	p := &Program{Lines: []int{}}
	offsetmap := make(map[string]int)
	for i, b := range cc.ops {
		if b.Code == LABEL {
			offsetmap[b.Name] = len(p.Ops)
			continue
		}
		p.Ops = append(p.Ops, b)
		p.Lines = append(p.Lines, cc.lines[i])
	}
	for i, b := range p.Ops {
		if !b.Code.HasTarget() {
			continue
		}
		off, ok := offsetmap[b.Name]
		if !ok {
			return nil, fmt.Errorf("%s at %d refers to unknown label %q", b.Code, i, b.Name)
		}
		b.Target = off
		b.Name = ""
		p.Ops[i] = b
	}
	return p, nil
}

func (cc *compileContext) buildFromStatements(stmts []syntax.Stmt) error {
	for _, s := range stmts {
		err := cc.statement(s)
		if err != nil {
			return err
		}
	}
	return nil
}
