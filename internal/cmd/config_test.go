package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapFromStruct(t *testing.T) {
	root := buildMapFromStruct(reflect.TypeOf(CLI{}))

	log, ok := root["log"].(map[string]any)
	require.True(t, ok, "log group missing")
	assert.Equal(t, "info", log["level"])
	assert.Equal(t, "", log["file"])

	// Subcommands must not leak into the template.
	assert.NotContains(t, root, "serve")
	assert.NotContains(t, root, "color")
}

func TestBuildMapFromStructUnexportedEmbed(t *testing.T) {
	// Serve embeds busFlags; its promoted SessionBus flag must still show up.
	serve := buildMapFromStruct(reflect.TypeOf(Serve{}))
	assert.Contains(t, serve, "sessionBus")
	assert.Equal(t, false, serve["sessionBus"])
}

func TestConfigInitWritesTemplate(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "g19d.json")
	cmd := ConfigInit{Format: "json", Output: dest}
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Contains(t, root, "log")
	assert.Contains(t, root, "sessionBus")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "g19d.json")
	require.NoError(t, os.WriteFile(dest, []byte("{}"), 0o644))

	cmd := ConfigInit{Format: "json", Output: dest}
	assert.Error(t, cmd.Run())

	cmd.Force = true
	assert.NoError(t, cmd.Run())
}
