/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package config reads the worker settings shared by the serve and check
// commands from viper, and assembles a worker from them.
package config

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/zerr"

	"bennypowers.dev/tsworker/checker"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/internal/logging"
	"bennypowers.dev/tsworker/protocol"
	"bennypowers.dev/tsworker/tsengine"
	"bennypowers.dev/tsworker/worker"
)

// Keys understood in config files, flags and TSWORKER_* variables.
const (
	KeyCodec     = "codec"
	KeyLogLevel  = "log-level"
	KeyCacheSize = "cache-size"
	KeyIgnore    = "ignore"
	KeyNoColor   = "no-color"
)

// EnvPrefix prefixes environment variables, e.g. TSWORKER_LOG_LEVEL.
const EnvPrefix = "TSWORKER"

// ErrInvalidConfig is returned for unusable settings.
var ErrInvalidConfig = zerr.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	Codec     protocol.Codec
	LogLevel  slog.Level
	CacheSize int
	Ignore    []string
	NoColor   bool
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCodec, "json")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCacheSize, tsengine.DefaultCacheSize)
	v.SetDefault(KeyIgnore, []string{})
	v.SetDefault(KeyNoColor, false)
}

// BindEnv makes every key readable from TSWORKER_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads and validates settings from v.
func Load(v *viper.Viper) (Config, error) {
	codec, err := protocol.CodecFor(v.GetString(KeyCodec))
	if err != nil {
		return Config{}, err
	}
	level, err := logging.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	size := v.GetInt(KeyCacheSize)
	if size < 1 {
		return Config{}, zerr.With(ErrInvalidConfig, KeyCacheSize, v.GetString(KeyCacheSize))
	}
	return Config{
		Codec:     codec,
		LogLevel:  level,
		CacheSize: size,
		Ignore:    v.GetStringSlice(KeyIgnore),
		NoColor:   v.GetBool(KeyNoColor),
	}, nil
}

// Logger returns a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return logging.New(w, c.LogLevel)
}

// Registry returns the engines available to init messages.
func (c Config) Registry(fsys fs.FileSystem) *engine.Registry {
	return engine.NewRegistry(tsengine.New(fsys).WithCacheSize(c.CacheSize))
}

// Worker assembles a worker over fsys that sends through sender.
func (c Config) Worker(sender worker.Sender, fsys fs.FileSystem, reporter checker.Reporter, logger *slog.Logger) *worker.Worker {
	return worker.New(c.Registry(fsys), sender).
		WithFileSystem(fsys).
		WithReporter(reporter).
		WithLogger(logger).
		WithIgnore(c.Ignore)
}
