package configuration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcallahan/flog/backends"
	"github.com/tcallahan/flog/core"
)

// captureBuilder registers a "capture" type so tests can reach the backend
// a built logger writes to.
func captureBuilder() (*Builder, *backends.Memory) {
	mem := backends.NewMemory()
	b := NewBuilder()
	b.RegisterBackend("capture", func(*Builder, map[string]any) (core.Backend, error) {
		return mem, nil
	})
	return b, mem
}

func TestBuildLogsThroughConfiguredBackend(t *testing.T) {
	b, mem := captureBuilder()
	config, err := LoadJSON([]byte(`{
	  "Flog": {
	    "MinimumLevel": "Debug",
	    "Name": "github.com/acme/api",
	    "Backends": [{"Type": "capture"}]
	  }
	}`))
	require.NoError(t, err)

	logger, err := b.Build(config)
	require.NoError(t, err)

	logger.AtDebug().Log("configured %s", "delivery")

	require.Equal(t, 1, mem.Count())
	record := mem.Records()[0]
	assert.Equal(t, "configured delivery", record.Message())
	assert.Equal(t, "github.com/acme/api", record.LoggerName)
}

func TestBuildMinimumLevel(t *testing.T) {
	b, _ := captureBuilder()
	config, err := LoadJSON([]byte(`{"Flog": {"MinimumLevel": "ERR", "Backends": [{"Type": "capture"}]}}`))
	require.NoError(t, err)

	logger, err := b.Build(config)
	require.NoError(t, err)

	assert.Equal(t, core.ErrorLevel, logger.MinimumLevel())
}

func TestBuildInvalidLevel(t *testing.T) {
	config := &Config{Flog: LoggerConfig{MinimumLevel: "Deafening"}}

	_, err := NewBuilder().Build(config)
	assert.Error(t, err)
}

func TestBuildUnknownBackend(t *testing.T) {
	config := &Config{Flog: LoggerConfig{
		MinimumLevel: "Information",
		Backends:     []BackendConfig{{Type: "carrier-pigeon"}},
	}}

	_, err := NewBuilder().Build(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestBuildTypeMatchingIsCaseInsensitive(t *testing.T) {
	b, _ := captureBuilder()
	config := &Config{Flog: LoggerConfig{
		MinimumLevel: "Information",
		Backends:     []BackendConfig{{Type: "CAPTURE"}},
	}}

	_, err := b.Build(config)
	assert.NoError(t, err)
}

func TestBuildAsyncWrapsNestedBackend(t *testing.T) {
	b, mem := captureBuilder()
	config, err := LoadJSON([]byte(`{
	  "Flog": {
	    "Backends": [{
	      "Type": "async",
	      "Args": {
	        "backend": {"type": "capture"},
	        "bufferSize": 16,
	        "overflow": "block"
	      }
	    }]
	  }
	}`))
	require.NoError(t, err)

	logger, err := b.Build(config)
	require.NoError(t, err)

	logger.AtInfo().Log("buffered delivery")
	// Closing drains the async buffer into the capture backend.
	require.NoError(t, logger.Close())

	assert.Equal(t, []string{"buffered delivery"}, mem.Messages())
}

func TestBuildAsyncWithoutNestedBackend(t *testing.T) {
	config := &Config{Flog: LoggerConfig{
		Backends: []BackendConfig{{Type: "async"}},
	}}

	_, err := NewBuilder().Build(config)
	assert.Error(t, err)
}

func TestBuildFailoverChain(t *testing.T) {
	b, mem := captureBuilder()
	b.RegisterBackend("broken", func(*Builder, map[string]any) (core.Backend, error) {
		return core.BackendFunc(func(*core.Record) error {
			return errors.New("always down")
		}), nil
	})
	config := &Config{Flog: LoggerConfig{
		Backends: []BackendConfig{{
			Type: "failover",
			Args: map[string]any{
				"backends": []any{
					map[string]any{"type": "broken"},
					map[string]any{"type": "capture"},
				},
			},
		}},
	}}

	logger, err := b.Build(config)
	require.NoError(t, err)

	logger.AtError().Log("rerouted")

	assert.Equal(t, []string{"rerouted"}, mem.Messages())
}

func TestBuildFallback(t *testing.T) {
	b, mem := captureBuilder()
	b.RegisterBackend("broken", func(*Builder, map[string]any) (core.Backend, error) {
		return core.BackendFunc(func(*core.Record) error {
			return errors.New("always down")
		}), nil
	})
	config := &Config{Flog: LoggerConfig{
		Backends: []BackendConfig{{Type: "broken"}},
		Fallback: &BackendConfig{Type: "capture"},
	}}

	logger, err := b.Build(config)
	require.NoError(t, err)

	logger.AtError().Log("caught by fallback")

	assert.Equal(t, []string{"caught by fallback"}, mem.Messages())
}

func TestFromJSONConvenience(t *testing.T) {
	logger, err := FromJSON([]byte(`{"Flog": {"MinimumLevel": "Debug", "Backends": [{"Type": "memory"}]}}`))
	require.NoError(t, err)

	assert.Equal(t, core.DebugLevel, logger.MinimumLevel())
}

func TestFromYAMLConvenience(t *testing.T) {
	logger, err := FromYAML([]byte("flog:\n  minimumLevel: Verbose\n  backends:\n    - type: memory\n"))
	require.NoError(t, err)

	assert.Equal(t, core.VerboseLevel, logger.MinimumLevel())
}

func TestBuildAttachesProperties(t *testing.T) {
	b, mem := captureBuilder()
	config, err := LoadJSON([]byte(`{
	  "Flog": {
	    "Backends": [{"Type": "capture"}],
	    "Properties": {"service": "billing", "replica": 3}
	  }
	}`))
	require.NoError(t, err)

	logger, err := b.Build(config)
	require.NoError(t, err)

	logger.AtInfo().Log("annotated")

	require.Equal(t, 1, mem.Count())
	md := mem.Records()[0].Metadata
	require.Equal(t, 2, md.Len())

	var labels []string
	var values []any
	md.Each(func(key core.MetadataKey, value any) {
		labels = append(labels, key.Label())
		values = append(values, value)
	})
	// Properties attach in sorted name order; JSON numbers decode as
	// float64.
	assert.Equal(t, []string{"replica", "service"}, labels)
	assert.Equal(t, []any{float64(3), "billing"}, values)
}
