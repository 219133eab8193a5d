// Package configuration builds loggers from JSON or YAML files, so
// deployments can reshape logging without a recompile:
//
//	{
//	  "Flog": {
//	    "MinimumLevel": "Debug",
//	    "Backends": [
//	      {"Type": "Console"},
//	      {"Type": "File", "Args": {"path": "/var/log/app.log"}}
//	    ]
//	  }
//	}
//
// Backend types are resolved through a registry; RegisterBackend adds
// application-defined ones.
package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/scopes"
)

// Config is the root configuration object.
type Config struct {
	Flog LoggerConfig `json:"Flog" yaml:"flog"`
}

// LoggerConfig describes one logger.
type LoggerConfig struct {
	// MinimumLevel is a level name or short code, such as "Debug" or
	// "WRN". Empty means Information.
	MinimumLevel string `json:"MinimumLevel,omitempty" yaml:"minimumLevel,omitempty"`

	// Name is the logger's explicit name. Empty means records derive
	// their name from the log site's package.
	Name string `json:"Name,omitempty" yaml:"name,omitempty"`

	// Backends lists the destinations. Records go to every one.
	Backends []BackendConfig `json:"Backends,omitempty" yaml:"backends,omitempty"`

	// Fallback receives records a regular backend failed to write.
	Fallback *BackendConfig `json:"Fallback,omitempty" yaml:"fallback,omitempty"`

	// LevelOverrides maps logger names or name prefixes to level names,
	// for installing in a scope via LevelMap.
	LevelOverrides map[string]string `json:"LevelOverrides,omitempty" yaml:"levelOverrides,omitempty"`

	// Properties attaches fixed metadata to every record the logger
	// emits, ahead of scope and statement values.
	Properties map[string]any `json:"Properties,omitempty" yaml:"properties,omitempty"`
}

// BackendConfig selects a backend type from the registry and its arguments.
type BackendConfig struct {
	Type string         `json:"Type" yaml:"type"`
	Args map[string]any `json:"Args,omitempty" yaml:"args,omitempty"`
}

// LoadFile loads configuration from a JSON or YAML file, chosen by the
// file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return LoadJSON(data)
	}
}

// LoadJSON loads configuration from JSON data.
func LoadJSON(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse JSON config: %w", err)
	}
	applyDefaults(&config)
	return &config, nil
}

// LoadYAML loads configuration from YAML data.
func LoadYAML(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Flog.MinimumLevel == "" {
		config.Flog.MinimumLevel = core.InformationLevel.String()
	}
}

// LevelMap converts the LevelOverrides section into a level map for
// installing in a scope.
func (c *LoggerConfig) LevelMap() (*scopes.LogLevelMap, error) {
	if len(c.LevelOverrides) == 0 {
		return nil, nil
	}
	overrides := make(map[string]core.Level, len(c.LevelOverrides))
	for name, levelStr := range c.LevelOverrides {
		level, err := core.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("level override %q: %w", name, err)
		}
		overrides[name] = level
	}
	return scopes.NewLogLevelMap(overrides), nil
}

// GetString reads a string argument, or defaultValue when absent.
func GetString(args map[string]any, key, defaultValue string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetInt reads an int argument. JSON numbers arrive as float64 and YAML
// numbers as int; both are accepted, as are numeric strings.
func GetInt(args map[string]any, key string, defaultValue int) int {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case float64:
			return int(val)
		case int:
			return val
		case int64:
			return int(val)
		case string:
			var i int
			if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
				return i
			}
		}
	}
	return defaultValue
}

// GetBool reads a bool argument, accepting the strings "true" and "false".
func GetBool(args map[string]any, key string, defaultValue bool) bool {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return strings.EqualFold(val, "true")
		}
	}
	return defaultValue
}

// GetDuration reads a duration argument in time.ParseDuration syntax, such
// as "100ms" or "5s".
func GetDuration(args map[string]any, key string, defaultValue time.Duration) time.Duration {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			if d, err := time.ParseDuration(s); err == nil {
				return d
			}
		}
	}
	return defaultValue
}

// GetBackendConfig reads a nested backend configuration, as used by
// wrapper backends like Async.
func GetBackendConfig(args map[string]any, key string) (BackendConfig, bool) {
	v, ok := args[key]
	if !ok {
		return BackendConfig{}, false
	}
	return decodeBackendConfig(v)
}

// GetBackendConfigs reads a list of nested backend configurations.
func GetBackendConfigs(args map[string]any, key string) ([]BackendConfig, bool) {
	v, ok := args[key]
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]BackendConfig, 0, len(list))
	for _, item := range list {
		cfg, ok := decodeBackendConfig(item)
		if !ok {
			return nil, false
		}
		out = append(out, cfg)
	}
	return out, true
}

func decodeBackendConfig(v any) (BackendConfig, bool) {
	m, ok := normalizeMap(v)
	if !ok {
		return BackendConfig{}, false
	}
	var cfg BackendConfig
	if t, ok := m["Type"]; ok {
		cfg.Type, _ = t.(string)
	} else if t, ok := m["type"]; ok {
		cfg.Type, _ = t.(string)
	}
	if a, ok := m["Args"]; ok {
		cfg.Args, _ = normalizeMap(a)
	} else if a, ok := m["args"]; ok {
		cfg.Args, _ = normalizeMap(a)
	}
	return cfg, cfg.Type != ""
}

// normalizeMap accepts the map shapes the two decoders produce. YAML can
// deliver map[any]any for nested objects.
func normalizeMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, value := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = value
		}
		return out, true
	default:
		return nil, false
	}
}
