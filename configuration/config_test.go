package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcallahan/flog/core"
)

const jsonConfig = `{
  "Flog": {
    "MinimumLevel": "Debug",
    "Name": "github.com/acme/api",
    "Backends": [
      {"Type": "Memory"},
      {"Type": "Console", "Args": {"target": "stdout", "color": false}}
    ],
    "LevelOverrides": {
      "github.com/acme/api/auth": "Verbose"
    }
  }
}`

const yamlConfig = `
flog:
  minimumLevel: WRN
  backends:
    - type: memory
    - type: console
      args:
        target: stdout
  levelOverrides:
    github.com/acme/api/auth: Debug
`

func TestLoadJSON(t *testing.T) {
	config, err := LoadJSON([]byte(jsonConfig))
	require.NoError(t, err)

	assert.Equal(t, "Debug", config.Flog.MinimumLevel)
	assert.Equal(t, "github.com/acme/api", config.Flog.Name)
	require.Len(t, config.Flog.Backends, 2)
	assert.Equal(t, "Memory", config.Flog.Backends[0].Type)
	assert.Equal(t, "stdout", GetString(config.Flog.Backends[1].Args, "target", ""))
}

func TestLoadJSONDefaults(t *testing.T) {
	config, err := LoadJSON([]byte(`{"Flog": {}}`))
	require.NoError(t, err)

	assert.Equal(t, "Information", config.Flog.MinimumLevel)
}

func TestLoadJSONInvalid(t *testing.T) {
	_, err := LoadJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	config, err := LoadYAML([]byte(yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, "WRN", config.Flog.MinimumLevel)
	require.Len(t, config.Flog.Backends, 2)
	assert.Equal(t, "memory", config.Flog.Backends[0].Type)
	assert.Equal(t, "Debug", config.Flog.LevelOverrides["github.com/acme/api/auth"])
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "logging.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonConfig), 0o644))
	yamlPath := filepath.Join(dir, "logging.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlConfig), 0o644))

	fromJSON, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Debug", fromJSON.Flog.MinimumLevel)

	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "WRN", fromYAML.Flog.MinimumLevel)
}

func TestLevelMap(t *testing.T) {
	config, err := LoadJSON([]byte(jsonConfig))
	require.NoError(t, err)

	levels, err := config.Flog.LevelMap()
	require.NoError(t, err)
	require.NotNil(t, levels)

	level, ok := levels.Level("github.com/acme/api/auth")
	require.True(t, ok)
	assert.Equal(t, core.VerboseLevel, level)
}

func TestLevelMapEmpty(t *testing.T) {
	var config LoggerConfig

	levels, err := config.LevelMap()
	require.NoError(t, err)
	assert.Nil(t, levels)
}

func TestLevelMapInvalidLevel(t *testing.T) {
	config := LoggerConfig{LevelOverrides: map[string]string{"a": "Loud"}}

	_, err := config.LevelMap()
	assert.Error(t, err)
}

func TestMergeConfig(t *testing.T) {
	base, err := LoadJSON([]byte(jsonConfig))
	require.NoError(t, err)
	overlay := &Config{Flog: LoggerConfig{
		MinimumLevel:   "Error",
		Backends:       []BackendConfig{{Type: "Console"}},
		LevelOverrides: map[string]string{"github.com/acme/api/billing": "Debug"},
	}}

	mergeConfig(base, overlay)

	assert.Equal(t, "Error", base.Flog.MinimumLevel)
	assert.Equal(t, "github.com/acme/api", base.Flog.Name)
	require.Len(t, base.Flog.Backends, 1)
	assert.Len(t, base.Flog.LevelOverrides, 2)
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"str":      "value",
		"jsonNum":  float64(7),
		"yamlNum":  3,
		"numStr":   "11",
		"flag":     true,
		"flagStr":  "TRUE",
		"duration": "250ms",
	}

	assert.Equal(t, "value", GetString(args, "str", "fallback"))
	assert.Equal(t, "fallback", GetString(args, "missing", "fallback"))
	assert.Equal(t, 7, GetInt(args, "jsonNum", 0))
	assert.Equal(t, 3, GetInt(args, "yamlNum", 0))
	assert.Equal(t, 11, GetInt(args, "numStr", 0))
	assert.Equal(t, 42, GetInt(args, "missing", 42))
	assert.True(t, GetBool(args, "flag", false))
	assert.True(t, GetBool(args, "flagStr", false))
	assert.False(t, GetBool(args, "missing", false))
	assert.Equal(t, 250*time.Millisecond, GetDuration(args, "duration", 0))
	assert.Equal(t, time.Second, GetDuration(args, "missing", time.Second))
}

func TestGetBackendConfigNested(t *testing.T) {
	args := map[string]any{
		"backend": map[string]any{
			"type": "file",
			"args": map[string]any{"path": "/tmp/x.log"},
		},
	}

	cfg, ok := GetBackendConfig(args, "backend")
	require.True(t, ok)
	assert.Equal(t, "file", cfg.Type)
	assert.Equal(t, "/tmp/x.log", GetString(cfg.Args, "path", ""))
}

func TestGetBackendConfigYAMLMapShape(t *testing.T) {
	args := map[string]any{
		"backend": map[any]any{
			"type": "memory",
		},
	}

	cfg, ok := GetBackendConfig(args, "backend")
	require.True(t, ok)
	assert.Equal(t, "memory", cfg.Type)
}
