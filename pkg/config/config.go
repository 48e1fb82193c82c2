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

// Package config loads the snmp-inventory configuration from a JSON file,
// environment variables and an optional .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SNMP_INVENTORY_"

var (
	errLoadConfigFailed     = errors.New("failed to load configuration")
	errUnsupportedDriver    = errors.New("database.driver must be mysql, postgres or sqlite")
	errSQLitePathRequired   = errors.New("database.path is required for sqlite")
	errHostRequired         = errors.New("database.host is required")
	errDatabaseRequired     = errors.New("database.database is required")
	errNegativeRetries      = errors.New("snmp.retries must not be negative")
	errNegativeTimeout      = errors.New("snmp.timeout must not be negative")
	errNATSSubjectRequired  = errors.New("nats.subject is required when nats.url is set")
	errNATSStreamRequired   = errors.New("nats.stream is required when nats.url is set")
	errInvalidConfigPointer = errors.New("config must be a non-nil pointer")
)

const (
	defaultSNMPTimeout     = 5 * time.Second
	defaultMaxRepetitions  = 10
	defaultNATSStream      = "inventory"
	defaultNATSSubject     = "inventory.device.replaced"
	defaultSQLitePath      = "inventory.db"
	defaultDatabaseTimeout = 10 * time.Second
)

// Config is the complete runtime configuration.
type Config struct {
	SNMP     models.SNMPConfig     `json:"snmp"`
	Database models.DatabaseConfig `json:"database"`
	NATS     models.NATSConfig     `json:"nats"`
	Logging  logger.Config         `json:"logging"`
}

// Default returns a configuration that writes to a local SQLite file.
func Default() *Config {
	return &Config{
		SNMP: models.SNMPConfig{
			Port:           161,
			Timeout:        models.Duration(defaultSNMPTimeout),
			MaxRepetitions: defaultMaxRepetitions,
		},
		Database: models.DatabaseConfig{
			Driver:  "sqlite",
			Path:    defaultSQLitePath,
			Timeout: models.Duration(defaultDatabaseTimeout),
		},
		NATS: models.NATSConfig{
			Stream:  defaultNATSStream,
			Subject: defaultNATSSubject,
		},
		Logging: logger.Config{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Validate implements Validator.
func (c *Config) Validate() error {
	var errs []error

	if c.SNMP.Retries < 0 {
		errs = append(errs, errNegativeRetries)
	}

	if c.SNMP.Timeout < 0 {
		errs = append(errs, errNegativeTimeout)
	}

	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3":
		if c.Database.Path == "" {
			errs = append(errs, errSQLitePathRequired)
		}
	case "mysql", "postgres", "postgresql", "pgx":
		if c.Database.Host == "" {
			errs = append(errs, errHostRequired)
		}

		if c.Database.Database == "" {
			errs = append(errs, errDatabaseRequired)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", errUnsupportedDriver, c.Database.Driver))
	}

	if c.NATS.URL != "" {
		if c.NATS.Stream == "" {
			errs = append(errs, errNATSStreamRequired)
		}

		if c.NATS.Subject == "" {
			errs = append(errs, errNATSSubjectRequired)
		}
	}

	return errors.Join(errs...)
}

// NATSEnabled reports whether inventory events should be published.
func (c *Config) NATSEnabled() bool {
	return c.NATS.URL != ""
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// Loader layers configuration sources: defaults, then the JSON file when a
// path is given, then environment overrides.
type Loader struct {
	file   ConfigLoader
	env    ConfigLoader
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Loader{
		file:   &FileConfigLoader{},
		env:    NewEnvConfigLoader(log, EnvPrefix),
		logger: log,
	}
}

// LoadAndValidate fills cfg from every source and validates the result.
func (l *Loader) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	if cfg == nil {
		return errInvalidConfigPointer
	}

	if path != "" {
		if err := l.file.Load(ctx, path, cfg); err != nil {
			return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
		}

		l.logger.Debug().Str("path", path).Msg("loaded configuration file")
	}

	if err := l.env.Load(ctx, path, cfg); err != nil {
		return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
	}

	return ValidateConfig(cfg)
}

// Load returns the defaults overlaid with path and the environment.
func Load(ctx context.Context, path string, log logger.Logger) (*Config, error) {
	cfg := Default()

	if err := NewLoader(log).LoadAndValidate(ctx, path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
