// Package logging builds the zerolog logger shared by the HTTP and MCP entrypoints.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/config"
)

// Options describe where and how to log
type Options struct {
	Level  string
	File   string
	Format string
	Debug  bool
	// Output overrides the console destination; defaults to os.Stdout
	Output io.Writer
}

// FromConfig derives logging options from application configuration
func FromConfig(cfg *config.Config) Options {
	return Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Format: cfg.Log.Format,
		Debug:  cfg.Server.Debug,
	}
}

// New creates a logger. The returned close function releases the log file, if any,
// and is always safe to call.
func New(opts Options) (zerolog.Logger, func() error, error) {
	closeFn := func() error { return nil }

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), closeFn, err
	}
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, f)
		closeFn = f.Close
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	logger.Info().Str("level", level.String()).Msg("logging configured")

	return logger, closeFn, nil
}

// ParseLevel maps a textual level to zerolog. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	if level == "warning" {
		level = "warn"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsed, nil
}
