package commands

import (
	"encoding/json"
	"testing"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate_Valid(t *testing.T) {
	ta := newTestApp(t, config.DefaultConfig())

	require.NoError(t, ta.run(t, "config", "validate"))
	assert.Contains(t, ta.stdout.String(), "Configuration is valid")
}

func TestConfigValidate_JSONErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules = []config.Rule{{Pattern: "ci/[", Drop: true}}
	ta := newTestApp(t, cfg)

	err := ta.run(t, "config", "validate", "--format", "json")
	require.Error(t, err)

	var got validationResult
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &got))
	assert.False(t, got.Valid)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "rules[0].pattern", got.Errors[0].Field)
}

func TestConfigValidate_TextWarnings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules = []config.Rule{{Pattern: "a/*"}}
	ta := newTestApp(t, cfg)

	require.NoError(t, ta.run(t, "config", "validate"))
	out := ta.stdout.String()
	assert.Contains(t, out, "rule matches but changes nothing")
	assert.Contains(t, out, "Item: rule 0")
}

func TestConfigValidate_DirectoryPath(t *testing.T) {
	ta := newTestApp(t, config.DefaultConfig())
	ta.flags.ConfigPath = t.TempDir()

	err := ta.run(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, ta.stdout.String(), "config_file")
	assert.Contains(t, ta.stdout.String(), "1 error(s) found")
}
