package vm

import (
	"fmt"
	"strconv"
)

type Value interface {
	isValue()
	Kind() ValueKind
	Equal(other Value) bool
	String() string
}

type ValueKind uint8

const (
	IntKind ValueKind = iota + 1
	BoolKind
	StrKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case StrKind:
		return "string"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

type IntValue int32

func (IntValue) isValue() {}
func (IntValue) Kind() ValueKind { return IntKind }
func (i IntValue) String() string { return strconv.FormatInt(int64(i), 10) }
func (i IntValue) Equal(o Value) bool {
	v, ok := o.(IntValue)
	return ok && v == i
}

type BoolValue bool

var (
	BoolTrue  = BoolValue(true)
	BoolFalse = BoolValue(false)
)

func (BoolValue) isValue() {}
func (BoolValue) Kind() ValueKind { return BoolKind }
func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Equal(o Value) bool {
	v, ok := o.(BoolValue)
	return ok && v == b
}

type StrValue string

func (StrValue) isValue() {}
func (StrValue) Kind() ValueKind { return StrKind }
func (s StrValue) String() string { return string(s) }
func (s StrValue) Equal(o Value) bool {
	v, ok := o.(StrValue)
	return ok && v == s
}

// FormatValue renders a value for diagnostics. Strings are quoted so that
// they can be told apart from identifiers and numbers; PRINT uses String.
func FormatValue(v Value) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(StrValue); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}
