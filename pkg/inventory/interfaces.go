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

//go:generate mockgen -destination=mock_inventory.go -package=inventory github.com/carverauto/snmp-inventory/pkg/inventory Store,Tx,Publisher

package inventory

import (
	"context"

	"github.com/carverauto/snmp-inventory/pkg/models"
	"github.com/carverauto/snmp-inventory/pkg/snmp"
)

// Querier is the subset of the SNMP client used during discovery.
type Querier interface {
	Get(oid string) snmp.Value
	GetNext(oid string) snmp.Value
	Walk(oid string) []snmp.Value
}

// Store opens units of work against the inventory database.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single inventory transaction. Nothing written through it is
// visible to other readers until Commit succeeds.
type Tx interface {
	DeviceExists(ctx context.Context, ip string) (bool, error)
	DeleteDevice(ctx context.Context, ip string) error
	InsertDevice(ctx context.Context, snapshot *models.DeviceSnapshot) (int64, error)
	InsertInterface(ctx context.Context, deviceID int64, record *models.InterfaceRecord) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Publisher announces a committed inventory record.
type Publisher interface {
	PublishInventory(ctx context.Context, snapshot *models.DeviceSnapshot, result *WriteResult) error
}
