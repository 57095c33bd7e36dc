package cas

import (
	"fmt"

	"github.com/timewinder-dev/scopevm/interp"
)

func recomposeState(c directStore, hash Hash) (*interp.State, error) {
	ref, err := getDirect[*StateRef](c, hash)
	if err != nil {
		return nil, fmt.Errorf("retrieving StateRef: %w", err)
	}
	s := &interp.State{
		PC:      ref.PC,
		Running: ref.Running,
		Globals: ref.Globals,
	}
	for i, h := range ref.FrameHashes {
		f, err := recomposeFrame(c, h)
		if err != nil {
			return nil, fmt.Errorf("recomposing frame %d: %w", i, err)
		}
		s.Frames = append(s.Frames, f)
	}
	return s, nil
}

func recomposeFrame(c directStore, hash Hash) (interp.FrameState, error) {
	ref, err := getDirect[*FrameRef](c, hash)
	if err != nil {
		return interp.FrameState{}, fmt.Errorf("retrieving FrameRef: %w", err)
	}
	f := interp.FrameState{Values: ref.Values}
	for i, h := range ref.ScopeHashes {
		sc, err := getDirect[*ScopeRef](c, h)
		if err != nil {
			return interp.FrameState{}, fmt.Errorf("retrieving scope %d: %w", i, err)
		}
		f.Scopes = append(f.Scopes, interp.ScopeState{
			StackLevel: sc.StackLevel,
			AfterInstr: sc.AfterInstr,
			Locals:     sc.Locals,
		})
	}
	return f, nil
}

func getDirect[T Hashable](c directStore, hash Hash) (T, error) {
	var zero T
	has, data, err := c.getValue(hash)
	if err != nil {
		return zero, err
	}
	if !has {
		return zero, fmt.Errorf("hash not found in CAS: %s", hash)
	}
	instance, err := decodeEntry(data)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type mismatch: expected %T, got %T", zero, instance)
	}
	return result, nil
}
