package vm

import "fmt"

// WireValue is the serialized form of a Value. Value is an interface and
// msgpack has no way to recover the concrete type on its own.
type WireValue struct {
	Kind ValueKind
	Int  int32
	Bool bool
	Str  string
}

func ToWire(v Value) WireValue {
	switch val := v.(type) {
	case IntValue:
		return WireValue{Kind: IntKind, Int: int32(val)}
	case BoolValue:
		return WireValue{Kind: BoolKind, Bool: bool(val)}
	case StrValue:
		return WireValue{Kind: StrKind, Str: string(val)}
	}
	return WireValue{}
}

func (w WireValue) Value() (Value, error) {
	switch w.Kind {
	case IntKind:
		return IntValue(w.Int), nil
	case BoolKind:
		return BoolValue(w.Bool), nil
	case StrKind:
		return StrValue(w.Str), nil
	}
	return nil, fmt.Errorf("invalid wire value kind %d", w.Kind)
}

type wireOp struct {
	Code     Opcode
	Operator Operator
	Arg      WireValue
	Target   int
	Name     string
}

func opToWire(o Op) wireOp {
	return wireOp{
		Code:     o.Code,
		Operator: o.Operator,
		Arg:      ToWire(o.Arg),
		Target:   o.Target,
		Name:     o.Name,
	}
}

func (w wireOp) op() (Op, error) {
	if w.Code >= OpcodeMax || w.Code == LABEL {
		return Op{}, fmt.Errorf("invalid opcode %s", w.Code)
	}
	o := Op{
		Code:     w.Code,
		Operator: w.Operator,
		Target:   w.Target,
		Name:     w.Name,
	}
	if w.Code == PUSH {
		v, err := w.Arg.Value()
		if err != nil {
			return Op{}, err
		}
		o.Arg = v
	}
	return o, nil
}
