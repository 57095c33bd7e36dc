package interp

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/scopevm/vm"
)

// State is a self-contained snapshot of the machine. Bindings are sorted by
// name so that two identical machines serialize to identical bytes.
type State struct {
	PC      int
	Running bool
	Globals []Binding
	Frames  []FrameState
}

type Binding struct {
	Name  string
	Value vm.WireValue
}

type FrameState struct {
	Values []vm.WireValue
	Scopes []ScopeState
}

type ScopeState struct {
	StackLevel int
	AfterInstr int
	Locals     []Binding
}

func bindings(m map[string]vm.Value) []Binding {
	out := make([]Binding, 0, len(m))
	for k, v := range m {
		out = append(out, Binding{Name: k, Value: vm.ToWire(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func unbind(bs []Binding) (map[string]vm.Value, error) {
	out := make(map[string]vm.Value, len(bs))
	for _, b := range bs {
		v, err := b.Value.Value()
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Name, err)
		}
		out[b.Name] = v
	}
	return out, nil
}

func (in *Interpreter) Snapshot() *State {
	s := &State{
		PC:      in.Evaluator.PC,
		Running: in.Evaluator.Running,
		Globals: bindings(in.Evaluator.Globals),
	}
	for _, f := range in.Frames.Items() {
		fs := FrameState{}
		for _, v := range f.Values.Items() {
			fs.Values = append(fs.Values, vm.ToWire(v))
		}
		for _, sc := range f.Scopes.Items() {
			fs.Scopes = append(fs.Scopes, ScopeState{
				StackLevel: sc.StackLevel,
				AfterInstr: sc.AfterInstr,
				Locals:     bindings(sc.Locals),
			})
		}
		s.Frames = append(s.Frames, fs)
	}
	return s
}

// Restore replaces the machine state with s. The program, output writer and
// stack limits are kept.
func (in *Interpreter) Restore(s *State) error {
	globals, err := unbind(s.Globals)
	if err != nil {
		return err
	}
	limit := 0
	if f, err := in.TopFrame(); err == nil {
		limit = f.Values.Limit
	}
	frames := NewStack[*Frame](FrameStack)
	for i, fs := range s.Frames {
		f := &Frame{
			Values: NewStack[vm.Value](ValueStack),
			Scopes: NewStack[Scope](ScopeStack),
		}
		for _, w := range fs.Values {
			v, err := w.Value()
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			f.Values.items = append(f.Values.items, v)
		}
		for _, ss := range fs.Scopes {
			locals, err := unbind(ss.Locals)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			f.Scopes.items = append(f.Scopes.items, Scope{
				StackLevel: ss.StackLevel,
				AfterInstr: ss.AfterInstr,
				Locals:     locals,
			})
		}
		if f.Scopes.IsEmpty() {
			return fmt.Errorf("frame %d has no scopes", i)
		}
		f.Values.Limit = limit
		frames.items = append(frames.items, f)
	}
	if frames.IsEmpty() {
		return fmt.Errorf("state has no frames")
	}
	in.Evaluator.PC = s.PC
	in.Evaluator.Running = s.Running
	in.Evaluator.Globals = globals
	in.Frames = frames
	return nil
}

func (s *State) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *State) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

func formatWire(w vm.WireValue) string {
	v, err := w.Value()
	if err != nil {
		return "<invalid>"
	}
	return vm.FormatValue(v)
}

// PrettyPrint returns a readable rendering of the state. prog may be nil.
func (s *State) PrettyPrint(prog *vm.Program) string {
	var b strings.Builder

	status := "running"
	if !s.Running {
		status = "halted"
	}
	fmt.Fprintf(&b, "PC: %d (%s)\n", s.PC, status)
	if prog != nil {
		if inst, err := prog.GetInstruction(s.PC); err == nil {
			fmt.Fprintf(&b, "  Next: %s\n", inst)
		} else {
			b.WriteString("  Next: (end of program)\n")
		}
		if line := prog.GetLineNumber(s.PC); line > 0 {
			if prog.Filename != "" {
				fmt.Fprintf(&b, "  Location: %s:%d\n", filepath.Base(prog.Filename), line)
			} else {
				fmt.Fprintf(&b, "  Location: line %d\n", line)
			}
		}
	}

	b.WriteString("Global Variables:\n")
	if len(s.Globals) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, g := range s.Globals {
		fmt.Fprintf(&b, "  %s = %s\n", g.Name, formatWire(g.Value))
	}

	for i, f := range s.Frames {
		fmt.Fprintf(&b, "Frame %d:\n", i)
		vals := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			vals = append(vals, formatWire(v))
		}
		fmt.Fprintf(&b, "  Stack: [%s]\n", strings.Join(vals, ", "))
		for depth, sc := range f.Scopes {
			fmt.Fprintf(&b, "  Scope %d (level %d, after %d):\n", depth, sc.StackLevel, sc.AfterInstr)
			if len(sc.Locals) == 0 {
				b.WriteString("    (no local variables)\n")
			}
			for _, l := range sc.Locals {
				fmt.Fprintf(&b, "    %s = %s\n", l.Name, formatWire(l.Value))
			}
		}
	}
	return b.String()
}
