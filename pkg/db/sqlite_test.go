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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

type unitRow struct {
	ID        int64
	IPAddress string
	Name      string
	Model     string
}

type interfaceRow struct {
	UnitID     int64
	IPAddress  string
	Mask       string
	Name       string
	MACAddress string
}

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()

	ctx := context.Background()

	store, err := openSQLite(ctx, &models.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "inventory.db"),
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.InitSchema(ctx))
	// Idempotent.
	require.NoError(t, store.InitSchema(ctx))

	return store
}

func readUnits(t *testing.T, db *sql.DB) []unitRow {
	t.Helper()

	rows, err := db.Query(`SELECT id, ip_address, name, model FROM unit ORDER BY id`)
	require.NoError(t, err)

	defer func() { _ = rows.Close() }()

	var out []unitRow

	for rows.Next() {
		var r unitRow
		require.NoError(t, rows.Scan(&r.ID, &r.IPAddress, &r.Name, &r.Model))
		out = append(out, r)
	}

	require.NoError(t, rows.Err())

	return out
}

func readInterfaces(t *testing.T, db *sql.DB) []interfaceRow {
	t.Helper()

	rows, err := db.Query(`SELECT unit_id, ip_address, mask, name, mac_address FROM interface ORDER BY id`)
	require.NoError(t, err)

	defer func() { _ = rows.Close() }()

	var out []interfaceRow

	for rows.Next() {
		var r interfaceRow
		require.NoError(t, rows.Scan(&r.UnitID, &r.IPAddress, &r.Mask, &r.Name, &r.MACAddress))
		out = append(out, r)
	}

	require.NoError(t, rows.Err())

	return out
}

func scenarioSnapshot() *models.DeviceSnapshot {
	return &models.DeviceSnapshot{
		IPAddress: "192.0.2.10",
		Name:      "switch-core-1",
		Model:     "ModelX900",
		Interfaces: []models.InterfaceRecord{
			{IPAddress: "10.0.0.1", Mask: "255.255.255.0", Description: "eth0", HardwareAddress: "aa:bb:cc:dd:ee:ff"},
		},
	}
}

func TestSQLiteScenarioRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	result, err := inventory.NewWriter(store, nil).Write(ctx, scenarioSnapshot())
	require.NoError(t, err)
	assert.False(t, result.Replaced)

	units := readUnits(t, store.db)
	require.Len(t, units, 1)
	assert.Equal(t, unitRow{ID: result.DeviceID, IPAddress: "192.0.2.10", Name: "switch-core-1", Model: "ModelX900"}, units[0])

	assert.Equal(t, []interfaceRow{
		{UnitID: result.DeviceID, IPAddress: "10.0.0.1", Mask: "255.255.255.0", Name: "eth0", MACAddress: "aa:bb:cc:dd:ee:ff"},
	}, readInterfaces(t, store.db))
}

func TestSQLiteRerunReplacesRecord(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	writer := inventory.NewWriter(store, nil)

	other := &models.DeviceSnapshot{IPAddress: "192.0.2.20", Name: "edge", Model: "M1", Interfaces: []models.InterfaceRecord{
		{IPAddress: "10.9.0.1", Mask: "255.255.255.0", Description: "ge-0/0/0", HardwareAddress: "00:00:00:00:00:01"},
	}}

	_, err := writer.Write(ctx, other)
	require.NoError(t, err)

	first, err := writer.Write(ctx, scenarioSnapshot())
	require.NoError(t, err)

	updated := scenarioSnapshot()
	updated.Name = "switch-core-1b"
	updated.Interfaces = append(updated.Interfaces, models.InterfaceRecord{
		IPAddress: "10.0.1.1", Mask: "255.255.255.0", Description: "eth1", HardwareAddress: "aa:bb:cc:dd:ee:00",
	})

	second, err := writer.Write(ctx, updated)
	require.NoError(t, err)
	assert.True(t, second.Replaced)
	assert.NotEqual(t, first.DeviceID, second.DeviceID)

	units := readUnits(t, store.db)
	require.Len(t, units, 2)

	byIP := map[string]unitRow{}
	for _, u := range units {
		byIP[u.IPAddress] = u
	}

	assert.Equal(t, "switch-core-1b", byIP["192.0.2.10"].Name)
	assert.Equal(t, "edge", byIP["192.0.2.20"].Name)

	var forDevice int

	for _, r := range readInterfaces(t, store.db) {
		if r.UnitID == second.DeviceID {
			forDevice++
		}

		assert.NotEqual(t, first.DeviceID, r.UnitID)
	}

	assert.Equal(t, 2, forDevice)
}

func TestSQLiteFailureOnSecondInterfaceLeavesNoTrace(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	writer := inventory.NewWriter(store, nil)

	prior, err := writer.Write(ctx, scenarioSnapshot())
	require.NoError(t, err)

	_, err = store.db.Exec(`CREATE TRIGGER fail_second_interface BEFORE INSERT ON interface
		WHEN NEW.ip_address = '10.0.1.1'
		BEGIN SELECT RAISE(ABORT, 'connection lost'); END`)
	require.NoError(t, err)

	snapshot := scenarioSnapshot()
	snapshot.Name = "should-not-persist"
	snapshot.Interfaces = []models.InterfaceRecord{
		{IPAddress: "10.0.0.1", Mask: "255.255.255.0", Description: "eth0", HardwareAddress: "aa:bb:cc:dd:ee:01"},
		{IPAddress: "10.0.1.1", Mask: "255.255.255.0", Description: "eth1", HardwareAddress: "aa:bb:cc:dd:ee:02"},
		{IPAddress: "10.0.2.1", Mask: "255.255.255.0", Description: "eth2", HardwareAddress: "aa:bb:cc:dd:ee:03"},
	}

	_, err = writer.Write(ctx, snapshot)
	require.ErrorIs(t, err, inventory.ErrStoreFailed)
	assert.Contains(t, err.Error(), "insert interface 10.0.1.1")

	units := readUnits(t, store.db)
	require.Len(t, units, 1)
	assert.Equal(t, prior.DeviceID, units[0].ID)
	assert.Equal(t, "switch-core-1", units[0].Name)

	interfaces := readInterfaces(t, store.db)
	require.Len(t, interfaces, 1)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", interfaces[0].MACAddress)
}

func TestSQLiteEmptyInterfaceList(t *testing.T) {
	store := openTestSQLite(t)

	snapshot := scenarioSnapshot()
	snapshot.Interfaces = []models.InterfaceRecord{}

	_, err := inventory.NewWriter(store, nil).Write(context.Background(), snapshot)
	require.NoError(t, err)

	assert.Len(t, readUnits(t, store.db), 1)
	assert.Empty(t, readInterfaces(t, store.db))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := New(context.Background(), &models.DatabaseConfig{Driver: DriverSQLite}, nil)
	require.ErrorIs(t, err, ErrPathRequired)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &models.DatabaseConfig{Driver: "oracle"}, nil)
	require.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = New(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrConfigRequired)
}

func TestOpenSQLiteWithoutLogger(t *testing.T) {
	store, err := openSQLite(context.Background(), &models.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "inventory.db"),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NoError(t, store.Close())
}

func TestSQLiteUnitAddressIsUnique(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `INSERT INTO unit (ip_address, name, model) VALUES (?, ?, ?)`, "192.0.2.10", "a", "m")
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, `INSERT INTO unit (ip_address, name, model) VALUES (?, ?, ?)`, "192.0.2.10", "b", "m")
	require.Error(t, err)

	assert.Len(t, readUnits(t, store.db), 1)
}

func TestSchemasKeyUnitsByAddress(t *testing.T) {
	for name, schema := range map[string][]string{
		"mysql":    mysqlSchema,
		"postgres": postgresSchema,
		"sqlite":   sqliteSchema,
	} {
		var unique bool

		for _, stmt := range schema {
			if strings.Contains(stmt, "UNIQUE") && strings.Contains(stmt, "ip_address") {
				unique = true
			}
		}

		assert.True(t, unique, name)
	}
}
