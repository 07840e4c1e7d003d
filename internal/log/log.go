package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

var Logger = zap.NewNop()

// Options selects level, encoding and an optional zapfilter rule set
// (e.g. "*:race* warn+:*").
type Options struct {
	Level  string // zap level name
	Format string // "console" or "json"
	Filter string
}

// New builds a logger. json uses the production preset, anything else the
// development preset with console output.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(orDefault(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	var cfg zap.Config
	switch orDefault(opts.Format, "console") {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("log format %q: want console or json", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	var zopts []zap.Option
	if opts.Filter != "" {
		rules, err := zapfilter.ParseRules(opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("log filter %q: %w", opts.Filter, err)
		}
		zopts = append(zopts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapfilter.NewFilteringCore(c, rules)
		}))
	}
	return cfg.Build(zopts...)
}

// Init replaces the package logger.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Named returns a child of the package logger.
func Named(name string) *zap.Logger {
	return Logger.Named(name)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
