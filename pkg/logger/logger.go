/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var errUnknownOutput = errors.New("unknown log output")

type Config struct {
	Level      string `json:"level"`
	Debug      bool   `json:"debug"`
	Output     string `json:"output"`
	TimeFormat string `json:"time_format"`
	// Dir enables a per-device log file mirror when set.
	Dir string `json:"dir"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type zeroLogger struct {
	mu     sync.RWMutex
	logger zerolog.Logger
}

// New builds a Logger writing to the configured console output.
func New(config *Config) (Logger, error) {
	return newWithWriter(config, nil)
}

// NewForDevice builds a Logger that mirrors every record to <Dir>/<deviceIP>.log
// in addition to the console. The returned closer releases the file and is a
// no-op when Dir is empty.
func NewForDevice(config *Config, deviceIP string) (Logger, io.Closer, error) {
	if config == nil || config.Dir == "" {
		l, err := New(config)

		return l, nopCloser{}, err
	}

	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := strings.ReplaceAll(deviceIP, string(filepath.Separator), "_") + ".log"

	file, err := os.OpenFile(filepath.Join(config.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open device log file: %w", err)
	}

	l, err := newWithWriter(config, file)
	if err != nil {
		_ = file.Close()

		return nil, nil, err
	}

	return l, file, nil
}

func newWithWriter(config *Config, extra io.Writer) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output, err := consoleWriter(config.Output)
	if err != nil {
		return nil, err
	}

	if extra != nil {
		output = NewMultiWriter(output, extra)
	}

	level, err := parseLevel(config)
	if err != nil {
		return nil, err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	return &zeroLogger{
		logger: zerolog.New(output).Level(level).With().Timestamp().Logger(),
	}, nil
}

func consoleWriter(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard", "none":
		return io.Discard, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}

func parseLevel(config *Config) (zerolog.Level, error) {
	if config.Debug {
		return zerolog.DebugLevel, nil
	}

	if config.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(config.Level)
}

func (z *zeroLogger) current() zerolog.Logger {
	z.mu.RLock()
	defer z.mu.RUnlock()

	return z.logger
}

func (z *zeroLogger) Trace() *zerolog.Event { l := z.current(); return l.Trace() }
func (z *zeroLogger) Debug() *zerolog.Event { l := z.current(); return l.Debug() }
func (z *zeroLogger) Info() *zerolog.Event  { l := z.current(); return l.Info() }
func (z *zeroLogger) Warn() *zerolog.Event  { l := z.current(); return l.Warn() }
func (z *zeroLogger) Error() *zerolog.Event { l := z.current(); return l.Error() }
func (z *zeroLogger) Fatal() *zerolog.Event { l := z.current(); return l.Fatal() }
func (z *zeroLogger) Panic() *zerolog.Event { l := z.current(); return l.Panic() }
func (z *zeroLogger) With() zerolog.Context { l := z.current(); return l.With() }

func (z *zeroLogger) WithComponent(component string) zerolog.Logger {
	return z.current().With().Str("component", component).Logger()
}

func (z *zeroLogger) SetLevel(level zerolog.Level) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.logger = z.logger.Level(level)
}

func (z *zeroLogger) SetDebug(debug bool) {
	if debug {
		z.SetLevel(zerolog.DebugLevel)

		return
	}

	z.SetLevel(zerolog.InfoLevel)
}

type MultiWriter struct {
	writers []io.Writer
}

func NewMultiWriter(writers ...io.Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (mw *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range mw.writers {
		n, err = w.Write(p)
		if err != nil {
			return n, err
		}

		if n != len(p) {
			err = io.ErrShortWrite
			return n, err
		}
	}

	return len(p), nil
}
