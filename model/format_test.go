package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatExecError(t *testing.T) {
	e := executorFor(t, "x = 1\ny = z\n", Limits{})
	e.Program.Filename = "/tmp/prog.star"
	res := e.Run()
	require.Error(t, res.Err)

	out := FormatError(res.Err, e.Program)
	assert.Contains(t, out, "RUNTIME ERROR")
	assert.Contains(t, out, "LOAD z")
	assert.Contains(t, out, "prog.star:2")
}

func TestFormatNonTermination(t *testing.T) {
	e := executorFor(t, "while True:\n  pass\n", Limits{DetectLoops: true})
	res := e.Run()
	out := FormatError(res.Err, e.Program)
	assert.Contains(t, out, "NON-TERMINATION")
	assert.Contains(t, out, "Repeated State:")
	assert.Contains(t, out, "Scope 1")
}

func TestFormatPlainError(t *testing.T) {
	out := FormatError(errors.New("boom"), nil)
	assert.Contains(t, out, "boom")
}

func TestFormatStatisticsAndResult(t *testing.T) {
	res := executorFor(t, "x = 1\n", Limits{DetectLoops: true}).Run()
	out := FormatStatistics(res.Statistics)
	assert.Contains(t, out, "Instructions executed: ")
	assert.Contains(t, out, "Unique states: ")
	assert.Contains(t, out, "Snapshot cache: ")
	assert.Contains(t, FormatResult("x", res), "PASS")

	failed := &Result{Err: errors.New("bad")}
	assert.Contains(t, FormatResult("y", failed), "FAIL")

	assert.Contains(t, FormatState("Final State:", res.Final, nil), "x = 1")
}
