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

	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

const (
	sqlDeviceExists     = `SELECT EXISTS(SELECT 1 FROM unit WHERE ip_address = ?)`
	sqlDeleteInterfaces = `DELETE FROM interface WHERE unit_id IN (SELECT id FROM unit WHERE ip_address = ?)`
	sqlDeleteDevice     = `DELETE FROM unit WHERE ip_address = ?`
	sqlInsertDevice     = `INSERT INTO unit (ip_address, name, model) VALUES (?, ?, ?)`
	sqlInsertInterface  = `INSERT INTO interface (unit_id, ip_address, mask, name, mac_address) VALUES (?, ?, ?, ?, ?)`
)

// SQLStore is a database/sql backed store for drivers that use '?'
// placeholders and report generated keys through LastInsertId.
type SQLStore struct {
	db     *sql.DB
	schema []string
	logger logger.Logger
}

var _ Service = (*SQLStore)(nil)

func newSQLStore(db *sql.DB, schema []string, log logger.Logger) *SQLStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &SQLStore{db: db, schema: schema, logger: log}
}

func (s *SQLStore) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &sqlTx{tx: tx}, nil
}

func (s *SQLStore) InitSchema(ctx context.Context) error {
	for _, stmt := range s.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInit, err)
		}
	}

	s.logger.Debug().Int("statements", len(s.schema)).Msg("inventory schema ready")

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) DeviceExists(ctx context.Context, ip string) (bool, error) {
	var exists bool

	if err := t.tx.QueryRowContext(ctx, sqlDeviceExists, ip).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (t *sqlTx) DeleteDevice(ctx context.Context, ip string) error {
	if _, err := t.tx.ExecContext(ctx, sqlDeleteInterfaces, ip); err != nil {
		return err
	}

	_, err := t.tx.ExecContext(ctx, sqlDeleteDevice, ip)

	return err
}

func (t *sqlTx) InsertDevice(ctx context.Context, snapshot *models.DeviceSnapshot) (int64, error) {
	res, err := t.tx.ExecContext(ctx, sqlInsertDevice, snapshot.IPAddress, snapshot.Name, snapshot.Model)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (t *sqlTx) InsertInterface(ctx context.Context, deviceID int64, record *models.InterfaceRecord) error {
	_, err := t.tx.ExecContext(ctx, sqlInsertInterface,
		deviceID,
		record.IPAddress,
		record.Mask,
		record.Description,
		record.HardwareAddress,
	)

	return err
}

func (t *sqlTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(context.Context) error {
	return t.tx.Rollback()
}
