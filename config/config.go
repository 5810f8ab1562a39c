// Package config loads a Logger and its sink tree from a YAML document,
// the declarative counterpart to building everything by hand with
// sinks.New*/spdlog.New. Modeled on jsturma-joblet's RuntimeConfig, which
// yaml.Unmarshal's a nested struct tree (mounts, environment, packages)
// rather than a flat key=value format; LoggerConfig does the same for a
// logger's sink fan-out.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tessonics/spdlog"
	"github.com/tessonics/spdlog/sinks"
)

// SinkConfig describes one entry in a LoggerConfig's sink list. Type
// selects which concrete sink it builds; the remaining fields are
// interpreted according to Type and left zero otherwise.
type SinkConfig struct {
	Type  string `yaml:"type"`
	Level string `yaml:"level,omitempty"`

	// console
	Stderr bool   `yaml:"stderr,omitempty"`
	Color  string `yaml:"color,omitempty"` // auto|always|never

	// file / rotating_file / daily_file
	Filename    string `yaml:"filename,omitempty"`
	MaxFileSize int64  `yaml:"max_file_size,omitempty"`
	MaxBackups  int    `yaml:"max_backups,omitempty"`

	// udp
	Address string `yaml:"address,omitempty"`

	// async
	QueueSize int          `yaml:"queue_size,omitempty"`
	Policy    string       `yaml:"policy,omitempty"` // block|overrun_oldest|discard_new
	Sinks     []SinkConfig `yaml:"sinks,omitempty"`
}

// LoggerConfig is the top-level document: one logger's name, level,
// auto-flush threshold, and ordered sink list.
type LoggerConfig struct {
	Name       string       `yaml:"name"`
	Level      string       `yaml:"level,omitempty"`
	FlushLevel string       `yaml:"flush_level,omitempty"`
	AddCaller  bool         `yaml:"add_caller,omitempty"`
	Sinks      []SinkConfig `yaml:"sinks"`
}

// Parse decodes a LoggerConfig from YAML bytes. It does not build any
// sinks; call Build on the result to materialize a *spdlog.Logger.
func Parse(data []byte) (*LoggerConfig, error) {
	var cfg LoggerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("spdlog/config: parse: %w", err)
	}
	return &cfg, nil
}

// Build constructs the Logger and every sink named in cfg, in order.
// Sinks that open a resource (files, UDP sockets) fail Build with a
// wrapped error on the first failure; sinks already opened earlier in the
// list are left for the caller to close via whatever Close method they
// expose, exactly as a partially-applied Option list would be.
func Build(cfg *LoggerConfig) (*spdlog.Logger, error) {
	built := make([]spdlog.Sink, 0, len(cfg.Sinks))
	for i, sc := range cfg.Sinks {
		s, err := buildSink(sc)
		if err != nil {
			return nil, fmt.Errorf("spdlog/config: sink[%d] (%s): %w", i, sc.Type, err)
		}
		built = append(built, s)
	}

	var opts []spdlog.Option
	if cfg.AddCaller {
		opts = append(opts, spdlog.WithCaller(true))
	}

	logger := spdlog.New(cfg.Name, built, opts...)
	if cfg.Level != "" {
		logger.SetLevel(spdlog.ParseLevel(cfg.Level))
	}
	if cfg.FlushLevel != "" {
		logger.SetFlushLevel(spdlog.ParseLevel(cfg.FlushLevel))
	}
	return logger, nil
}

func buildSink(sc SinkConfig) (spdlog.Sink, error) {
	level := spdlog.Trace
	if sc.Level != "" {
		level = spdlog.ParseLevel(sc.Level)
	}

	switch sc.Type {
	case "console":
		return sinks.NewConsoleSink(level, parseColorMode(sc.Color)), nil
	case "console_err":
		return sinks.NewConsoleErrSink(level, parseColorMode(sc.Color)), nil
	case "null":
		return sinks.NewNullSink(), nil
	case "file":
		return sinks.NewFileSink(sc.Filename, level)
	case "rotating_file":
		return sinks.NewRotatingFileSink(sc.Filename, sc.MaxFileSize, sc.MaxBackups, level)
	case "daily_file":
		return sinks.NewDailyFileSink(sc.Filename, level)
	case "udp":
		return sinks.NewUDPSink(sc.Address, level)
	case "async":
		return buildAsync(sc)
	default:
		return nil, fmt.Errorf("unknown sink type %q", sc.Type)
	}
}

func buildAsync(sc SinkConfig) (spdlog.Sink, error) {
	downstream := make([]spdlog.Sink, 0, len(sc.Sinks))
	for i, inner := range sc.Sinks {
		s, err := buildSink(inner)
		if err != nil {
			return nil, fmt.Errorf("async sinks[%d] (%s): %w", i, inner.Type, err)
		}
		downstream = append(downstream, s)
	}
	return sinks.NewAsyncSink(sinks.AsyncConfig{
		QueueSize: sc.QueueSize,
		Policy:    parsePolicy(sc.Policy),
		Sinks:     downstream,
	})
}

func parseColorMode(s string) sinks.ColorMode {
	switch s {
	case "always":
		return sinks.ColorAlways
	case "never":
		return sinks.ColorNever
	default:
		return sinks.ColorAuto
	}
}

func parsePolicy(s string) sinks.OverflowPolicy {
	switch s {
	case "overrun_oldest":
		return sinks.OverrunOldest
	case "discard_new":
		return sinks.DiscardNew
	default:
		return sinks.Block
	}
}
