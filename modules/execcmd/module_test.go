package execcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesOutput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	input := &Input{Command: "echo hello"}

	// --- Act ---
	result, err := run(context.Background(), input, nil)

	// --- Assert ---
	require.NoError(t, err)
	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello\n", out["stdout"])
	assert.Equal(t, 0, out["exit_code"])
}

func TestRun_NonZeroExitIsFailure(t *testing.T) {
	t.Parallel()

	input := &Input{Command: "echo oops >&2; exit 7"}

	_, err := run(context.Background(), input, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
	assert.Contains(t, err.Error(), "oops")
}

func TestRun_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := &Input{Command: "pwd", Dir: dir}

	result, err := run(context.Background(), input, nil)

	require.NoError(t, err)
	out := result.(map[string]any)
	assert.Contains(t, out["stdout"], dir)
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run(ctx, &Input{Command: "sleep 10"}, nil)
	require.Error(t, err)
}
