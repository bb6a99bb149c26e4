package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, env map[string]string) {
	t.Helper()
	origTTY, origEnv := isTerminalFunc, getenvFunc
	t.Cleanup(func() {
		isTerminalFunc = origTTY
		getenvFunc = origEnv
	})

	isTerminalFunc = func() bool { return tty }
	getenvFunc = func(key string) string { return env[key] }
}

func TestTerminalCheck_Interactive(t *testing.T) {
	stubTerminal(t, true, map[string]string{"TERM": "xterm-256color"})

	result := NewTerminalCheck().Run(context.Background())

	assert.Equal(t, "Terminal", result.Name)
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "xterm-256color", result.Items[1].Detail)
}

func TestTerminalCheck_Piped(t *testing.T) {
	stubTerminal(t, false, map[string]string{"TERM": "dumb", "NO_COLOR": "1"})

	result := NewTerminalCheck().Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[1].Detail, "dumb")
	assert.Equal(t, "NO_COLOR", result.Items[2].Label)
}

func TestTerminalCheck_NoTerm(t *testing.T) {
	stubTerminal(t, true, nil)

	result := NewTerminalCheck().Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.Equal(t, "not set", result.Items[1].Detail)
}
