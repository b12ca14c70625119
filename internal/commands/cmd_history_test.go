package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_PlayPersists(t *testing.T) {
	ta := newTestApp(t, fastConfig())
	ta.flags.HistoryFile = filepath.Join(t.TempDir(), "history.json")

	script := writeFile(t, "script.jsonl", "info: one\nsuccess: two\n")
	require.NoError(t, ta.run(t, "play", "-f", script, "--format", "json"))
	require.NoError(t, ta.run(t, "play", "-f", script, "--format", "json"))

	ta.stdout.Reset()
	require.NoError(t, ta.run(t, "history", "--format", "json", "-n", "3"))

	var got []history.Entry
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &got))
	assert.Len(t, got, 3)

	ta.stdout.Reset()
	require.NoError(t, ta.run(t, "history"))
	assert.Contains(t, ta.stdout.String(), "removed")
}

func TestHistoryCmd_Clear(t *testing.T) {
	ta := newTestApp(t, fastConfig())
	ta.flags.HistoryFile = filepath.Join(t.TempDir(), "history.json")

	script := writeFile(t, "script.jsonl", "info: one\n")
	require.NoError(t, ta.run(t, "play", "-f", script))
	require.NoError(t, ta.run(t, "history", "--clear"))

	ta.stdout.Reset()
	require.NoError(t, ta.run(t, "history", "--format", "json"))
	assert.JSONEq(t, "[]", ta.stdout.String())
}

func TestHistoryCmd_Disabled(t *testing.T) {
	ta := newTestApp(t, fastConfig())

	err := ta.run(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}
