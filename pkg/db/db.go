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

// Package db provides the relational inventory stores.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Service is an inventory store bound to one backend.
type Service interface {
	inventory.Store

	// InitSchema creates the unit and interface tables when missing.
	InitSchema(ctx context.Context) error
	Close() error
}

// New opens the backend selected by cfg.Driver and verifies connectivity.
func New(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (Service, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL:
		return openMySQL(ctx, cfg, log)
	case DriverSQLite, "sqlite3":
		return openSQLite(ctx, cfg, log)
	case DriverPostgres, "postgresql", "pgx":
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}

		return NewPostgresStore(pool, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
