package configuration

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/tcallahan/flog"
	"github.com/tcallahan/flog/backends"
	"github.com/tcallahan/flog/core"
)

// BackendFactory creates a backend from its configured arguments. The
// builder is passed through so wrapper factories can build nested backends.
type BackendFactory func(b *Builder, args map[string]any) (core.Backend, error)

// Builder turns a Config into a logger. The zero value is not usable;
// NewBuilder registers the bundled backend types.
type Builder struct {
	factories map[string]BackendFactory
}

// NewBuilder creates a builder with the bundled backends registered:
// console, file, memory, async, failover, nats, slog and zap.
func NewBuilder() *Builder {
	b := &Builder{factories: make(map[string]BackendFactory)}
	b.RegisterBackend("console", createConsole)
	b.RegisterBackend("file", createFile)
	b.RegisterBackend("memory", createMemory)
	b.RegisterBackend("async", createAsync)
	b.RegisterBackend("failover", createFailover)
	b.RegisterBackend("nats", createNATS)
	b.RegisterBackend("slog", createSlog)
	b.RegisterBackend("zap", createZap)
	return b
}

// RegisterBackend registers a factory under a type name. Matching is
// case-insensitive; registering an existing name replaces the factory.
func (b *Builder) RegisterBackend(name string, factory BackendFactory) {
	b.factories[strings.ToLower(name)] = factory
}

// Build creates a logger from config.
func (b *Builder) Build(config *Config) (*flog.Logger, error) {
	var options []flog.Option

	if config.Flog.MinimumLevel != "" {
		level, err := core.ParseLevel(config.Flog.MinimumLevel)
		if err != nil {
			return nil, fmt.Errorf("minimum level: %w", err)
		}
		options = append(options, flog.WithMinimumLevel(level))
	}
	if config.Flog.Name != "" {
		options = append(options, flog.WithName(config.Flog.Name))
	}

	if len(config.Flog.Properties) > 0 {
		// Map iteration order is random; sort so records carry the
		// properties in a stable order.
		names := make([]string, 0, len(config.Flog.Properties))
		for name := range config.Flog.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		md := core.Metadata{}
		for _, name := range names {
			md = md.With(core.NewKey[any](name), config.Flog.Properties[name])
		}
		options = append(options, flog.WithMetadata(md))
	}

	for _, backendConfig := range config.Flog.Backends {
		backend, err := b.buildBackend(backendConfig)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", backendConfig.Type, err)
		}
		options = append(options, flog.WithBackend(backend))
	}

	if config.Flog.Fallback != nil {
		backend, err := b.buildBackend(*config.Flog.Fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback backend %s: %w", config.Flog.Fallback.Type, err)
		}
		options = append(options, flog.WithFallback(backend))
	}

	return flog.New(options...), nil
}

func (b *Builder) buildBackend(config BackendConfig) (core.Backend, error) {
	factory, ok := b.factories[strings.ToLower(config.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown backend type %q", config.Type)
	}
	return factory(b, config.Args)
}

func createConsole(_ *Builder, args map[string]any) (core.Backend, error) {
	var console *backends.Console
	switch target := GetString(args, "target", "stderr"); target {
	case "stderr":
		console = backends.NewConsoleStderr()
	case "stdout":
		console = backends.NewConsole(os.Stdout)
	default:
		return nil, fmt.Errorf("unknown console target %q", target)
	}
	if _, ok := args["color"]; ok {
		console.WithColor(GetBool(args, "color", false))
	}
	return console, nil
}

func createFile(_ *Builder, args map[string]any) (core.Backend, error) {
	path := GetString(args, "path", "")
	if path == "" {
		return nil, fmt.Errorf("file backend needs a path argument")
	}
	return backends.NewFile(path)
}

func createMemory(_ *Builder, args map[string]any) (core.Backend, error) {
	return backends.NewMemory(), nil
}

func createAsync(b *Builder, args map[string]any) (core.Backend, error) {
	innerConfig, ok := GetBackendConfig(args, "backend")
	if !ok {
		return nil, fmt.Errorf("async backend needs a nested backend argument")
	}
	inner, err := b.buildBackend(innerConfig)
	if err != nil {
		return nil, err
	}

	opts := backends.AsyncOptions{
		BufferSize:      GetInt(args, "bufferSize", 0),
		ShutdownTimeout: GetDuration(args, "shutdownTimeout", 0),
	}
	switch overflow := GetString(args, "overflow", "block"); overflow {
	case "block":
		opts.OverflowStrategy = backends.OverflowBlock
	case "drop":
		opts.OverflowStrategy = backends.OverflowDrop
	case "dropOldest":
		opts.OverflowStrategy = backends.OverflowDropOldest
	default:
		return nil, fmt.Errorf("unknown overflow strategy %q", overflow)
	}
	return backends.NewAsyncWithOptions(inner, opts), nil
}

func createFailover(b *Builder, args map[string]any) (core.Backend, error) {
	configs, ok := GetBackendConfigs(args, "backends")
	if !ok || len(configs) == 0 {
		return nil, fmt.Errorf("failover backend needs a backends list")
	}
	chain := make([]core.Backend, 0, len(configs))
	for _, config := range configs {
		backend, err := b.buildBackend(config)
		if err != nil {
			return nil, err
		}
		chain = append(chain, backend)
	}
	return backends.NewFailover(chain...), nil
}

func createNATS(_ *Builder, args map[string]any) (core.Backend, error) {
	url := GetString(args, "url", nats.DefaultURL)
	subject := GetString(args, "subject", "logs")
	return backends.NewNATS(url, subject)
}

func createSlog(_ *Builder, args map[string]any) (core.Backend, error) {
	var out *os.File
	switch target := GetString(args, "target", "stderr"); target {
	case "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		return nil, fmt.Errorf("unknown slog target %q", target)
	}

	var handler slog.Handler
	switch format := GetString(args, "format", "text"); format {
	case "text":
		handler = slog.NewTextHandler(out, nil)
	case "json":
		handler = slog.NewJSONHandler(out, nil)
	default:
		return nil, fmt.Errorf("unknown slog format %q", format)
	}
	return backends.NewSlogHandler(handler), nil
}

func createZap(_ *Builder, args map[string]any) (core.Backend, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if GetBool(args, "development", false) {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return backends.NewZap(logger), nil
}
