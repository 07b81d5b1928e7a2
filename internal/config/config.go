// SPDX-License-Identifier: Apache-2.0

// Package config holds command-line settings shared by every command. Each
// flag may also be set through an environment variable named after it, for
// example FIELDEXTRACT_LOG_LEVEL for --log-level. Flags given on the command
// line win over the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FIELDEXTRACT_"

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the global configuration.
type Config struct {
	LogLevel  string
	LogFormat string
	Output    string
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: LogFormatText,
		Output:    OutputJSON,
	}
}

// AddFlags registers the global flags on fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output format: json or yaml")
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}
	switch c.Output {
	case OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q: want json or yaml", c.Output)
	}
	return nil
}

// NewLogger builds the logger described by c, writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.LogFormat {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case LogFormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// EnvKey returns the environment variable consulted for a flag.
func EnvKey(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// BindEnv sets every flag of fs that was not given on the command line from
// its environment variable, if that is set.
func BindEnv(fs *pflag.FlagSet) error {
	return BindEnvFunc(fs, os.LookupEnv)
}

// BindEnvFunc is BindEnv with a custom lookup function.
func BindEnvFunc(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key := EnvKey(f.Name)
		v, ok := lookup(key)
		if !ok {
			return
		}
		if err := fs.Set(f.Name, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
