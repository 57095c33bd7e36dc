package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

func TestSimpleWhileLoop(t *testing.T) {
	code := `
x = True
while x:
    x = False
`
	in, _ := mustRun(t, code)
	assert.Equal(t, vm.BoolFalse, local(t, in, "x"))
}

func TestCountingLoop(t *testing.T) {
	code := `
i = 0
while i != 3:
    x = 4
    i = i + 1
`
	in, _ := mustRun(t, code)
	f, err := in.TopFrame()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Scopes.Len())
	assert.Equal(t, vm.IntValue(3), local(t, in, "i"))
	_, ok := f.GetLocal("x")
	assert.False(t, ok, "loop locals are dropped with the loop scope")
	assert.True(t, f.Values.IsEmpty())
}

func TestPrintOutput(t *testing.T) {
	code := `
n = 1
while n != 5:
    print(n)
    n += 1
print("done")
print(n == 5)
print()
`
	_, out := mustRun(t, code)
	assert.Equal(t, "1\n2\n3\n4\ndone\ntrue\n\n", out)
}

func TestExitStopsExecution(t *testing.T) {
	code := `
print("before")
exit()
print("after")
`
	in, out := mustRun(t, code)
	assert.Equal(t, "before\n", out)
	assert.False(t, in.Evaluator.Running)
}

func TestIfElifElse(t *testing.T) {
	code := `
n = 0
while n != 4:
    if n == 0:
        print("zero")
    elif n == 1:
        print("one")
    else:
        print("many")
    n += 1
`
	_, out := mustRun(t, code)
	assert.Equal(t, "zero\none\nmany\nmany\n", out)
}

func TestBreakAndContinue(t *testing.T) {
	code := `
i = 0
total = 0
while True:
    i += 1
    if i == 3:
        continue
    if i == 6:
        break
    total += i
print(total)
`
	in, out := mustRun(t, code)
	assert.Equal(t, "12\n", out)
	f, _ := in.TopFrame()
	assert.Equal(t, 1, f.Scopes.Len())
}

func TestNestedLoops(t *testing.T) {
	code := `
i = 0
count = 0
while i != 3:
    j = 0
    while j != 4:
        count += 1
        j += 1
    i += 1
print(count)
`
	in, out := mustRun(t, code)
	assert.Equal(t, "12\n", out)
	f, _ := in.TopFrame()
	_, ok := f.GetLocal("j")
	assert.False(t, ok)
}

func TestGlobalVariables(t *testing.T) {
	code := `
global_var("total")
total = 0
i = 0
while i != 4:
    total += i
    i += 1
print(total)
`
	in, out := mustRun(t, code)
	assert.Equal(t, "6\n", out)
	assert.Equal(t, vm.IntValue(6), in.Evaluator.Globals["total"])
	f, _ := in.TopFrame()
	_, ok := f.GetLocal("total")
	assert.False(t, ok)
}

func TestGlobalSurvivesLoopScope(t *testing.T) {
	code := `
global_var("last")
i = 0
while i != 2:
    last = i
    i += 1
print(last)
`
	_, out := mustRun(t, code)
	assert.Equal(t, "1\n", out)
}

func TestLoopLocalIsNotVisibleAfterLoop(t *testing.T) {
	code := `
once = True
while once:
    inner = 1
    once = False
print(inner)
`
	_, _, err := run(t, code)
	var uErr *interp.UnknownConstError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "inner", uErr.Name)
}

func TestStringValues(t *testing.T) {
	code := `
s = "abc"
print(s == "abc")
print(s != "abd")
print(s)
`
	_, out := mustRun(t, code)
	assert.Equal(t, "true\ntrue\nabc\n", out)
}
