package interp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/scopevm/vm"
)

func runOps(t *testing.T, ops ...vm.Op) (*Interpreter, error) {
	t.Helper()
	in := NewWithConfig(Config{Out: &bytes.Buffer{}})
	in.PushInstrs(ops...)
	return in, in.Run()
}

func mustRun(t *testing.T, ops ...vm.Op) *Interpreter {
	t.Helper()
	in, err := runOps(t, ops...)
	require.NoError(t, err)
	return in
}

func top(t *testing.T, in *Interpreter) vm.Value {
	t.Helper()
	v, err := in.Top()
	require.NoError(t, err)
	return v
}

func TestPush(t *testing.T) {
	in := mustRun(t, vm.Push(vm.IntValue(400)))
	assert.Equal(t, vm.IntValue(400), top(t, in))
}

func TestPop(t *testing.T) {
	in := mustRun(t, vm.Push(vm.IntValue(400)), vm.Pop())
	f, err := in.TopFrame()
	require.NoError(t, err)
	assert.True(t, f.Values.IsEmpty())

	_, err = runOps(t, vm.Pop())
	require.ErrorIs(t, err, &StackError{Stack: ValueStack, Kind: StackUnderflow})
}

func TestJumpSkipsInstructions(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(400)),
		vm.Jump(3),
		vm.Push(vm.IntValue(500)),
		vm.Push(vm.IntValue(800)),
		vm.Exit(),
	)
	assert.Equal(t, vm.IntValue(800), top(t, in))
	f, _ := in.TopFrame()
	assert.Equal(t, 2, f.Values.Len())
}

func TestBinopArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		a, b     vm.IntValue // pushed in this order
		op       vm.Operator
		expected vm.Value
	}{
		{"plus", 400, 400, vm.Plus, vm.IntValue(800)},
		{"minus equal", 400, 400, vm.Minus, vm.IntValue(0)},
		{"times", 400, 400, vm.Times, vm.IntValue(160000)},
		{"divide equal", 400, 400, vm.Divide, vm.IntValue(1)},
		{"minus takes top as left", 3, 10, vm.Minus, vm.IntValue(7)},
		{"divide takes top as left", 5, 100, vm.Divide, vm.IntValue(20)},
		{"divide truncates", 2, -7, vm.Divide, vm.IntValue(-3)},
		{"plus wraps", 1, math.MaxInt32, vm.Plus, vm.IntValue(math.MinInt32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustRun(t, vm.Push(tt.a), vm.Push(tt.b), vm.Binop(tt.op))
			assert.Equal(t, tt.expected, top(t, in))
		})
	}
}

func TestBinopLogical(t *testing.T) {
	tests := []struct {
		a, b     bool
		op       vm.Operator
		expected bool
	}{
		{true, true, vm.And, true},
		{true, false, vm.And, false},
		{false, false, vm.Or, false},
		{true, false, vm.Or, true},
	}
	for _, tt := range tests {
		in := mustRun(t, vm.Push(vm.BoolValue(tt.a)), vm.Push(vm.BoolValue(tt.b)), vm.Binop(tt.op))
		assert.Equal(t, vm.BoolValue(tt.expected), top(t, in), "%v %s %v", tt.b, tt.op, tt.a)
	}
}

func TestDivideByZero(t *testing.T) {
	_, err := runOps(t, vm.Push(vm.IntValue(0)), vm.Push(vm.IntValue(10)), vm.Binop(vm.Divide))
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestInvalidBinop(t *testing.T) {
	tests := []struct {
		name string
		a, b vm.Value
		op   vm.Operator
	}{
		{"bool plus int", vm.BoolTrue, vm.IntValue(1), vm.Plus},
		{"string times", vm.StrValue("a"), vm.StrValue("b"), vm.Times},
		{"int and", vm.IntValue(1), vm.IntValue(1), vm.And},
		{"string or bool", vm.StrValue("x"), vm.BoolTrue, vm.Or},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runOps(t, vm.Push(tt.a), vm.Push(tt.b), vm.Binop(tt.op))
			var binErr *InvalidBinopError
			require.ErrorAs(t, err, &binErr)
			assert.Equal(t, tt.b, binErr.L)
			assert.Equal(t, tt.a, binErr.R)
			assert.Equal(t, vm.BINOP, binErr.Op.Code)
		})
	}
}

func TestUnaryNot(t *testing.T) {
	in := mustRun(t, vm.Push(vm.BoolTrue), vm.Unary(vm.Not))
	assert.Equal(t, vm.BoolFalse, top(t, in))

	_, err := runOps(t, vm.Push(vm.IntValue(1)), vm.Unary(vm.Not))
	var unErr *InvalidUnaryError
	require.ErrorAs(t, err, &unErr)
	assert.Equal(t, vm.IntValue(1), unErr.Val)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     vm.Value
		op       vm.Operator
		expected vm.BoolValue
	}{
		{"bools equal", vm.BoolTrue, vm.BoolTrue, vm.Equal, true},
		{"bools not equal", vm.BoolTrue, vm.BoolTrue, vm.NotEqual, false},
		{"ints", vm.IntValue(3), vm.IntValue(3), vm.Equal, true},
		{"strings differ", vm.StrValue("a"), vm.StrValue("b"), vm.Equal, false},
		{"cross variant", vm.IntValue(1), vm.BoolTrue, vm.Equal, false},
		{"cross variant ne", vm.StrValue("1"), vm.IntValue(1), vm.NotEqual, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustRun(t, vm.Push(tt.a), vm.Push(tt.b), vm.Compare(tt.op))
			assert.Equal(t, tt.expected, top(t, in))
		})
	}

	_, err := runOps(t, vm.Push(vm.IntValue(1)), vm.Compare(vm.Equal))
	require.ErrorIs(t, err, &StackError{Stack: ValueStack, Kind: StackUnderflow})
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	in := NewWithConfig(Config{Out: &out})
	in.PushInstrs(
		vm.Push(vm.IntValue(-4)), vm.Print(),
		vm.Push(vm.BoolTrue), vm.Print(),
		vm.Push(vm.StrValue("hi there")), vm.Print(),
	)
	require.NoError(t, in.Run())
	assert.Equal(t, "-4\ntrue\nhi there\n", out.String())

	_, err := runOps(t, vm.Print())
	require.ErrorIs(t, err, &StackError{Stack: ValueStack, Kind: StackUnderflow})
}

func TestExitStopsBeforePrint(t *testing.T) {
	var out bytes.Buffer
	in := NewWithConfig(Config{Out: &out})
	in.PushInstrs(vm.Push(vm.IntValue(400)), vm.Exit(), vm.Print())
	require.NoError(t, in.Run())
	assert.False(t, in.Evaluator.Running)
	assert.Empty(t, out.String())
	assert.Equal(t, 2, in.Evaluator.PC)
}

func TestPopJumpFalse(t *testing.T) {
	// if 400 == 400 { push 100 }
	in := mustRun(t,
		vm.Push(vm.IntValue(400)),
		vm.Push(vm.IntValue(400)),
		vm.Compare(vm.Equal),
		vm.PopJumpFalse(5),
		vm.Push(vm.IntValue(100)),
		vm.Exit(),
	)
	assert.Equal(t, vm.IntValue(100), top(t, in))

	in = mustRun(t,
		vm.Push(vm.BoolFalse),
		vm.PopJumpFalse(3),
		vm.Push(vm.IntValue(100)),
		vm.Exit(),
	)
	f, _ := in.TopFrame()
	assert.True(t, f.Values.IsEmpty())
}

func TestPopJumpTrue(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(400)),
		vm.Push(vm.IntValue(400)),
		vm.Compare(vm.Equal),
		vm.PopJumpTrue(5),
		vm.Exit(),
		vm.Push(vm.IntValue(100)),
	)
	assert.Equal(t, vm.IntValue(100), top(t, in))
	assert.True(t, in.Evaluator.Running, "ran off the end rather than exiting")
}

func TestPopJumpRequiresBool(t *testing.T) {
	for _, op := range []vm.Op{vm.PopJumpFalse(0), vm.PopJumpTrue(0)} {
		_, err := runOps(t, vm.Push(vm.StrValue("yes")), op)
		var jErr *InvalidJumpValueError
		require.ErrorAs(t, err, &jErr)
		assert.Equal(t, vm.StrValue("yes"), jErr.Val)
	}
}

func TestStoreAndLoad(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(400)),
		vm.Store("x"),
		vm.Load("x"),
	)
	assert.Equal(t, vm.IntValue(400), top(t, in))
	f, _ := in.TopFrame()
	assert.Contains(t, f.Scopes.At(0).Locals, "x")
	assert.Empty(t, in.Evaluator.Globals)
}

func TestStoreGlobal(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(400)),
		vm.StoreGlobal("x"),
		vm.Load("x"),
	)
	assert.Equal(t, vm.IntValue(400), in.Evaluator.Globals["x"])
	assert.Equal(t, vm.IntValue(400), top(t, in))
	f, _ := in.TopFrame()
	assert.NotContains(t, f.Scopes.At(0).Locals, "x")
}

func TestLoadPrefersLocalOverGlobal(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(1)),
		vm.StoreGlobal("x"),
		vm.Push(vm.IntValue(2)),
		vm.Store("x"),
		vm.Load("x"),
	)
	assert.Equal(t, vm.IntValue(2), top(t, in))
	assert.Equal(t, vm.IntValue(1), in.Evaluator.Globals["x"])
}

func TestLoadUnknown(t *testing.T) {
	_, err := runOps(t, vm.Load("nope"))
	var uErr *UnknownConstError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "nope", uErr.Name)
}

func TestStoreUnderflow(t *testing.T) {
	for _, op := range []vm.Op{vm.Store("x"), vm.StoreGlobal("x")} {
		_, err := runOps(t, op)
		require.ErrorIs(t, err, &StackError{Stack: ValueStack, Kind: StackUnderflow})
	}
}

func TestScopeDiscardsValuesAndLocals(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(1)), // 0
		vm.PushScope(6),         // 1
		vm.Push(vm.IntValue(2)), // 2
		vm.Store("inner"),       // 3
		vm.Push(vm.IntValue(3)), // 4
		vm.PopScope(),           // 5
		vm.Push(vm.IntValue(4)), // 6
	)
	f, _ := in.TopFrame()
	assert.Equal(t, []vm.Value{vm.IntValue(1), vm.IntValue(4)}, f.Values.Items())
	assert.Equal(t, 1, f.Scopes.Len())
	_, ok := f.GetLocal("inner")
	assert.False(t, ok)
}

func TestPopScopeJumpsToAfterInstr(t *testing.T) {
	in := mustRun(t,
		vm.PushScope(4),
		vm.PopScope(),
		vm.Push(vm.IntValue(1)), // skipped
		vm.Exit(),
		vm.Push(vm.IntValue(2)),
	)
	assert.Equal(t, vm.IntValue(2), top(t, in))
}

func TestStoreInNestedScopeUpdatesOuterBinding(t *testing.T) {
	in := mustRun(t,
		vm.Push(vm.IntValue(1)),
		vm.Store("x"),
		vm.PushScope(6),
		vm.Push(vm.IntValue(2)),
		vm.Store("x"),
		vm.PopScope(),
		vm.Load("x"),
	)
	assert.Equal(t, vm.IntValue(2), top(t, in))
}

func TestPopScopeUnderflow(t *testing.T) {
	_, err := runOps(t, vm.PopScope(), vm.PopScope())
	require.ErrorIs(t, err, &StackError{Stack: ScopeStack, Kind: StackUnderflow})
}

func TestWhileLoop(t *testing.T) {
	// i = 0
	// while i != 3 {
	//   x = 4
	//   i = i + 1
	// }
	in := mustRun(t,
		vm.Push(vm.IntValue(0)), // 0
		vm.Store("i"),           // 1
		vm.PushScope(15),        // 2
		vm.Load("i"),            // 3
		vm.Push(vm.IntValue(3)), // 4
		vm.Compare(vm.NotEqual), // 5
		vm.PopJumpFalse(14),     // 6
		vm.Push(vm.IntValue(4)), // 7
		vm.Store("x"),           // 8
		vm.Load("i"),            // 9
		vm.Push(vm.IntValue(1)), // 10
		vm.Binop(vm.Plus),       // 11
		vm.Store("i"),           // 12
		vm.Jump(3),              // 13
		vm.PopScope(),           // 14
		vm.Exit(),               // 15
	)
	f, err := in.TopFrame()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Scopes.Len())
	assert.Equal(t, vm.IntValue(3), f.Scopes.At(0).Locals["i"])
	assert.NotContains(t, f.Scopes.At(0).Locals, "x")
	assert.True(t, f.Values.IsEmpty())
	assert.False(t, in.Evaluator.Running)
}

func TestOutOfRangeJumpEndsRun(t *testing.T) {
	in := mustRun(t, vm.Push(vm.IntValue(1)), vm.Jump(99), vm.Push(vm.IntValue(2)))
	assert.Equal(t, vm.IntValue(1), top(t, in))
	assert.Equal(t, 99, in.Evaluator.PC)
}

func TestValueStackLimit(t *testing.T) {
	in := NewWithConfig(Config{Out: &bytes.Buffer{}, MaxStackDepth: 2})
	in.PushInstrs(vm.Push(vm.IntValue(1)), vm.Push(vm.IntValue(2)), vm.Push(vm.IntValue(3)))
	err := in.Run()
	require.ErrorIs(t, err, &StackError{Stack: ValueStack, Kind: StackOverflow})
}
