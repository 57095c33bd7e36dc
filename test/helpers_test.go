package test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

// run compiles code, runs it to completion and returns the interpreter and
// everything it printed.
func run(t *testing.T, code string) (*interp.Interpreter, string, error) {
	t.Helper()
	prog, err := vm.CompileLiteral(code)
	require.NoError(t, err, "Compilation failed")

	var out bytes.Buffer
	in := interp.NewWithConfig(interp.Config{Out: &out})
	in.Load(prog)
	err = in.Run()
	return in, out.String(), err
}

func mustRun(t *testing.T, code string) (*interp.Interpreter, string) {
	t.Helper()
	in, out, err := run(t, code)
	require.NoError(t, err, "Execution failed")
	return in, out
}

func local(t *testing.T, in *interp.Interpreter, name string) vm.Value {
	t.Helper()
	f, err := in.TopFrame()
	require.NoError(t, err)
	v, ok := f.GetLocal(name)
	require.True(t, ok, "variable %q not bound", name)
	return v
}
