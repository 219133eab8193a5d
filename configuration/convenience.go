package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"github.com/tcallahan/flog"
)

// FromFile creates a logger from a JSON or YAML configuration file using
// the bundled backend types.
func FromFile(path string) (*flog.Logger, error) {
	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewBuilder().Build(config)
}

// FromJSON creates a logger from JSON configuration data.
func FromJSON(data []byte) (*flog.Logger, error) {
	config, err := LoadJSON(data)
	if err != nil {
		return nil, err
	}
	return NewBuilder().Build(config)
}

// FromYAML creates a logger from YAML configuration data.
func FromYAML(data []byte) (*flog.Logger, error) {
	config, err := LoadYAML(data)
	if err != nil {
		return nil, err
	}
	return NewBuilder().Build(config)
}

// FromEnvironment creates a logger from logging.json overlaid with
// logging.{environment}.json when that file exists. The environment file
// replaces the backend list and merges level overrides.
func FromEnvironment(environment string) (*flog.Logger, error) {
	config, err := loadOptional("logging.json")
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
		applyDefaults(config)
	}

	if environment != "" {
		overlay, err := loadOptional(fmt.Sprintf("logging.%s.json", environment))
		if err != nil {
			return nil, err
		}
		if overlay != nil {
			mergeConfig(config, overlay)
		}
	}

	return NewBuilder().Build(config)
}

func loadOptional(path string) (*Config, error) {
	config, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return config, nil
}

// mergeConfig overlays source onto target. Scalars override when set; the
// backend list is replaced wholesale; level overrides merge by name.
func mergeConfig(target, source *Config) {
	if source.Flog.MinimumLevel != "" {
		target.Flog.MinimumLevel = source.Flog.MinimumLevel
	}
	if source.Flog.Name != "" {
		target.Flog.Name = source.Flog.Name
	}
	if len(source.Flog.Backends) > 0 {
		target.Flog.Backends = source.Flog.Backends
	}
	if source.Flog.Fallback != nil {
		target.Flog.Fallback = source.Flog.Fallback
	}
	if len(source.Flog.LevelOverrides) > 0 {
		if target.Flog.LevelOverrides == nil {
			target.Flog.LevelOverrides = make(map[string]string)
		}
		maps.Copy(target.Flog.LevelOverrides, source.Flog.LevelOverrides)
	}
}
