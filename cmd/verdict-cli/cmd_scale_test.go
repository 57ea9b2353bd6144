package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleCommand(t *testing.T) {
	out, err := runCLI(t, "scale")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 17)
	assert.Contains(t, lines[0], "1/9")
	assert.Contains(t, lines[0], "extremely less important")
	assert.Contains(t, lines[8], "equal importance")
	assert.Contains(t, lines[16], "extremely more important")
}

func TestDescribeJudgment(t *testing.T) {
	assert.Equal(t, "strongly more important", describeJudgment("5"))
	assert.Equal(t, "reciprocal: row is strongly less important", describeJudgment("1/5"))
	assert.Equal(t, "intermediate value", describeJudgment("4"))
}

func TestInconsistencyErrorMessage(t *testing.T) {
	err := &InconsistencyError{MaxCR: 0.25, Threshold: 0.1}
	assert.Equal(t, "inconsistent judgments: max CR 0.2500 exceeds 0.10", err.Error())
}

func TestDebugLogsToStderr(t *testing.T) {
	t.Setenv("VERDICT_LOG_FORMAT", "text")
	t.Setenv("VERDICT_LOG_LEVEL", "warn")
	t.Setenv("VERDICT_WEIGHT_METHOD", "")

	run := func(args ...string) (string, string) {
		cmd := newRootCommand()
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return out.String(), errOut.String()
	}

	out, logs := run("scale")
	assert.NotContains(t, logs, "config loaded")
	assert.NotContains(t, out, "config loaded")

	out, logs = run("--debug", "scale")
	assert.Contains(t, logs, "level=DEBUG msg=\"config loaded\"")
	assert.Contains(t, logs, "method=row_average")
	assert.NotContains(t, out, "config loaded")
}
