package cas

import (
	"bytes"
	"fmt"

	"github.com/dgryski/go-farm"
	"github.com/timewinder-dev/scopevm/interp"
)

// decomposeState stores every scope and frame of s separately and returns
// the hash of the resulting StateRef. Callers hold c.mu.
func decomposeState(c *MemoryCAS, s *interp.State) (Hash, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot decompose nil State")
	}
	ref := &StateRef{
		PC:      s.PC,
		Running: s.Running,
		Globals: s.Globals,
	}
	for i, f := range s.Frames {
		h, err := decomposeFrame(c, f)
		if err != nil {
			return 0, fmt.Errorf("decomposing frame %d: %w", i, err)
		}
		ref.FrameHashes = append(ref.FrameHashes, h)
	}
	return putDirect(c, ref)
}

func decomposeFrame(c *MemoryCAS, f interp.FrameState) (Hash, error) {
	ref := &FrameRef{Values: f.Values}
	for i, sc := range f.Scopes {
		h, err := putDirect(c, &ScopeRef{
			StackLevel: sc.StackLevel,
			AfterInstr: sc.AfterInstr,
			Locals:     sc.Locals,
		})
		if err != nil {
			return 0, fmt.Errorf("decomposing scope %d: %w", i, err)
		}
		ref.ScopeHashes = append(ref.ScopeHashes, h)
	}
	return putDirect(c, ref)
}

// putDirect stores item under the hash of its own serialization, wrapped
// with a type tag. Callers hold c.mu.
func putDirect(c *MemoryCAS, item Hashable) (Hash, error) {
	var buf bytes.Buffer
	err := item.Serialize(&buf)
	if err != nil {
		return 0, fmt.Errorf("serializing item: %w", err)
	}
	data := buf.Bytes()
	h := Hash(farm.Hash64(data))
	if _, ok := c.data[h]; ok {
		return h, nil
	}

	entry := &TypedEntry{
		TypeTag: getTypeTag(item),
		Data:    data,
	}
	var entryBuf bytes.Buffer
	err = entry.Serialize(&entryBuf)
	if err != nil {
		return 0, fmt.Errorf("serializing typed entry: %w", err)
	}
	c.data[h] = entryBuf.Bytes()
	return h, nil
}
