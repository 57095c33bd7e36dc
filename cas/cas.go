package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/timewinder-dev/scopevm/interp"
)

type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool

	// Visit tracking for non-termination detection
	RecordVisit(hash Hash, step int)
	Visits(hash Hash) []int
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Retrieve loads the item stored under hash. States are reassembled from
// their frame and scope references.
func Retrieve[T Hashable](c CAS, hash Hash) (T, error) {
	var t T
	v, ok := c.(directStore)
	if !ok {
		return t, errors.New("CAS does not support direct retrieval")
	}

	has, data, err := v.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("hash not found in CAS: %s", hash)
	}

	if reflect.TypeOf(t) == reflect.TypeOf((*interp.State)(nil)) {
		state, err := recomposeState(v, hash)
		if err != nil {
			return t, fmt.Errorf("recomposing State: %w", err)
		}
		return any(state).(T), nil
	}

	instance, err := decodeEntry(data)
	if err != nil {
		return t, err
	}
	result, ok := instance.(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: expected %T, got %T", t, instance)
	}
	return result, nil
}

func decodeEntry(data []byte) (Hashable, error) {
	entry := &TypedEntry{}
	err := entry.Deserialize(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("deserializing TypedEntry: %w", err)
	}
	instance, err := createInstance(entry.TypeTag)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	err = instance.Deserialize(bytes.NewReader(entry.Data))
	if err != nil {
		return nil, fmt.Errorf("deserializing %s: %w", entry.TypeTag, err)
	}
	return instance, nil
}
