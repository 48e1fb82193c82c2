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

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

const defaultMySQLPort = 3306

func mysqlDSN(cfg *models.DatabaseConfig) (string, error) {
	if cfg.Host == "" {
		return "", ErrHostRequired
	}

	if cfg.Database == "" {
		return "", ErrDatabaseRequired
	}

	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database

	if cfg.Timeout > 0 {
		mc.Timeout = time.Duration(cfg.Timeout)
	}

	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))

		for k, v := range cfg.Params {
			if k == "" {
				continue
			}

			mc.Params[k] = v
		}
	}

	return mc.FormatDSN(), nil
}

func openMySQL(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (*SQLStore, error) {
	dsn, err := mysqlDSN(cfg)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("connected to MySQL inventory database")

	return newSQLStore(db, mysqlSchema, log), nil
}
