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

package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

// WriteResult describes a committed replacement.
type WriteResult struct {
	DeviceID       int64 `json:"device_id"`
	Replaced       bool  `json:"replaced"`
	InterfaceCount int   `json:"interface_count"`
}

// Writer replaces a device's inventory record in a single transaction.
type Writer struct {
	store  Store
	logger zerolog.Logger
}

func NewWriter(store Store, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Writer{store: store, logger: log.WithComponent("writer")}
}

// Write deletes any prior record for the snapshot's address and inserts the
// snapshot with all of its interfaces. Either everything commits or nothing
// does; failures wrap ErrStoreFailed and name the failing operation.
func (w *Writer) Write(ctx context.Context, snapshot *models.DeviceSnapshot) (*WriteResult, error) {
	if snapshot == nil {
		return nil, ErrSnapshotRequired
	}

	if snapshot.IPAddress == "" {
		return nil, ErrDeviceIPRequired
	}

	if w.store == nil {
		return nil, ErrStoreRequired
	}

	tx, err := w.store.Begin(ctx)
	if err != nil {
		return nil, storeError("begin", err)
	}

	result, err := w.write(ctx, tx, snapshot)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			w.logger.Error().Err(rbErr).Str("device_ip", snapshot.IPAddress).Msg("rollback failed")
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError("commit", err)
	}

	w.logger.Info().
		Str("device_ip", snapshot.IPAddress).
		Int64("device_id", result.DeviceID).
		Bool("replaced", result.Replaced).
		Int("interfaces", result.InterfaceCount).
		Msg("inventory record committed")

	return result, nil
}

func (w *Writer) write(ctx context.Context, tx Tx, snapshot *models.DeviceSnapshot) (*WriteResult, error) {
	exists, err := tx.DeviceExists(ctx, snapshot.IPAddress)
	if err != nil {
		return nil, storeError("device lookup", err)
	}

	if exists {
		if err := tx.DeleteDevice(ctx, snapshot.IPAddress); err != nil {
			return nil, storeError("delete device", err)
		}
	}

	id, err := tx.InsertDevice(ctx, snapshot)
	if err != nil {
		return nil, storeError("insert device", err)
	}

	for i := range snapshot.Interfaces {
		if err := tx.InsertInterface(ctx, id, &snapshot.Interfaces[i]); err != nil {
			return nil, storeError(fmt.Sprintf("insert interface %s", snapshot.Interfaces[i].IPAddress), err)
		}
	}

	return &WriteResult{
		DeviceID:       id,
		Replaced:       exists,
		InterfaceCount: len(snapshot.Interfaces),
	}, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailed, op, err)
}
