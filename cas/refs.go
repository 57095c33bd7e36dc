package cas

import (
	"io"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

// StateRef is the stored form of interp.State: frames are referenced by hash
// rather than stored inline.
type StateRef struct {
	PC          int
	Running     bool
	Globals     []interp.Binding
	FrameHashes []Hash
}

func (s *StateRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *StateRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

// FrameRef is the stored form of interp.FrameState. Each scope is its own
// entry, so a loop iteration that only touches the innermost scope leaves
// the outer ones shared.
type FrameRef struct {
	Values      []vm.WireValue
	ScopeHashes []Hash
}

func (f *FrameRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, f)
}

func (f *FrameRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, f)
}

type ScopeRef struct {
	StackLevel int
	AfterInstr int
	Locals     []interp.Binding
}

func (s *ScopeRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *ScopeRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}
