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
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

const (
	pgDeviceExists     = `SELECT EXISTS(SELECT 1 FROM unit WHERE ip_address = $1)`
	pgDeleteInterfaces = `DELETE FROM interface WHERE unit_id IN (SELECT id FROM unit WHERE ip_address = $1)`
	pgDeleteDevice     = `DELETE FROM unit WHERE ip_address = $1`
	pgInsertDevice     = `INSERT INTO unit (ip_address, name, model) VALUES ($1, $2, $3) RETURNING id`
	pgInsertInterface  = `INSERT INTO interface (unit_id, ip_address, mask, name, mac_address) VALUES ($1, $2, $3, $4, $5)`
)

// pgxPool is the subset of *pgxpool.Pool used by PostgresStore.
type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore writes inventory records through a pgx pool.
type PostgresStore struct {
	pool   pgxPool
	logger logger.Logger
}

var _ Service = (*PostgresStore)(nil)

func NewPostgresStore(pool pgxPool, log logger.Logger) *PostgresStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &PostgresStore{pool: pool, logger: log}
}

func (s *PostgresStore) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &pgTx{tx: tx}, nil
}

func (s *PostgresStore) InitSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInit, err)
		}
	}

	s.logger.Debug().Int("statements", len(postgresSchema)).Msg("inventory schema ready")

	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()

	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) DeviceExists(ctx context.Context, ip string) (bool, error) {
	var exists bool

	if err := t.tx.QueryRow(ctx, pgDeviceExists, ip).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (t *pgTx) DeleteDevice(ctx context.Context, ip string) error {
	if _, err := t.tx.Exec(ctx, pgDeleteInterfaces, ip); err != nil {
		return err
	}

	_, err := t.tx.Exec(ctx, pgDeleteDevice, ip)

	return err
}

func (t *pgTx) InsertDevice(ctx context.Context, snapshot *models.DeviceSnapshot) (int64, error) {
	var id int64

	err := t.tx.QueryRow(ctx, pgInsertDevice, snapshot.IPAddress, snapshot.Name, snapshot.Model).Scan(&id)

	return id, err
}

func (t *pgTx) InsertInterface(ctx context.Context, deviceID int64, record *models.InterfaceRecord) error {
	_, err := t.tx.Exec(ctx, pgInsertInterface,
		deviceID,
		record.IPAddress,
		record.Mask,
		record.Description,
		record.HardwareAddress,
	)

	return err
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
