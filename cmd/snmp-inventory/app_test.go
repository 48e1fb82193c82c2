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

package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/snmp"
	"github.com/carverauto/snmp-inventory/pkg/version"
)

type fakeSession struct {
	values    map[string]snmp.Value
	next      map[string]snmp.Value
	walks     map[string][]snmp.Value
	params    snmp.Params
	queries   int
	connected bool
	closed    bool
}

func (f *fakeSession) Get(oid string) snmp.Value {
	f.queries++

	if v, ok := f.values[oid]; ok {
		return v
	}

	return snmp.Value{OID: oid, Placeholder: snmp.NoResponse}
}

func (f *fakeSession) GetNext(oid string) snmp.Value {
	f.queries++

	if v, ok := f.next[oid]; ok {
		return v
	}

	return snmp.Value{OID: oid, Placeholder: snmp.NoResponse}
}

func (f *fakeSession) Walk(oid string) []snmp.Value {
	f.queries++

	return f.walks[oid]
}

func (f *fakeSession) Connect() error {
	f.connected = true
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func text(oid, s string) snmp.Value {
	return snmp.Value{OID: oid, Text: s, Raw: []byte(s)}
}

func scenarioSession() *fakeSession {
	return &fakeSession{
		values: map[string]snmp.Value{
			snmp.OIDSysName: text(snmp.OIDSysName, "switch-core-1"),
			snmp.Instance(snmp.OIDIPAdEntIfIndex, "10.0.0.1"): text(snmp.Instance(snmp.OIDIPAdEntIfIndex, "10.0.0.1"), "1"),
			snmp.Instance(snmp.OIDIPAdEntNetMask, "10.0.0.1"): text(snmp.Instance(snmp.OIDIPAdEntNetMask, "10.0.0.1"), "255.255.255.0"),
			snmp.Instance(snmp.OIDIfDescr, "1"):               text(snmp.Instance(snmp.OIDIfDescr, "1"), "eth0"),
			snmp.Instance(snmp.OIDIfPhysAddress, "1"): {
				OID:         snmp.Instance(snmp.OIDIfPhysAddress, "1"),
				Raw:         []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
				Placeholder: snmp.DecodeFailure,
			},
		},
		next: map[string]snmp.Value{
			snmp.OIDEntPhysicalModelName: text(snmp.OIDEntPhysicalModelName+".1", "ModelX900"),
		},
		walks: map[string][]snmp.Value{
			snmp.OIDIPAdEntAddr: {text(snmp.Instance(snmp.OIDIPAdEntAddr, "10.0.0.1"), "10.0.0.1")},
		},
	}
}

// useSession swaps the SNMP session factory for the duration of a test.
func useSession(t *testing.T, session *fakeSession) *int {
	t.Helper()

	created := 0
	orig := newSNMPSession

	newSNMPSession = func(params snmp.Params, _ logger.Logger) (snmpSession, error) {
		created++
		session.params = params

		return session, nil
	}

	t.Cleanup(func() { newSNMPSession = orig })

	return &created
}

// sqliteEnv points the store at a fresh SQLite file and silences console logs.
func sqliteEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db", "inventory.db")

	t.Setenv("SNMP_INVENTORY_DATABASE_DRIVER", "sqlite")
	t.Setenv("SNMP_INVENTORY_DATABASE_PATH", path)
	t.Setenv("SNMP_INVENTORY_LOGGING_OUTPUT", "discard")
	t.Setenv("SNMP_INVENTORY_NATS_URL", "")

	return path
}

func TestExecuteScenario(t *testing.T) {
	path := sqliteEnv(t)
	session := scenarioSession()
	useSession(t, session)

	logDir := filepath.Join(t.TempDir(), "logs")

	var stderr bytes.Buffer

	code := execute([]string{"--init-schema", "--retries", "2", "--log-dir", logDir, "public", "192.0.2.10"}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.True(t, session.connected)
	assert.True(t, session.closed)
	assert.Equal(t, "public", session.params.Community)
	assert.Equal(t, "192.0.2.10", session.params.Target)
	assert.Equal(t, 2, session.params.Retries)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	var ip, name, model string
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT ip_address, name, model FROM unit`).Scan(&ip, &name, &model))
	assert.Equal(t, []string{"192.0.2.10", "switch-core-1", "ModelX900"}, []string{ip, name, model})

	var ifIP, mask, descr, mac string
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT ip_address, mask, name, mac_address FROM interface`).Scan(&ifIP, &mask, &descr, &mac))
	assert.Equal(t, []string{"10.0.0.1", "255.255.255.0", "eth0", "aa:bb:cc:dd:ee:ff"}, []string{ifIP, mask, descr, mac})

	_, err = os.Stat(filepath.Join(logDir, "192.0.2.10.log"))
	assert.NoError(t, err)

	// A second run replaces rather than duplicates.
	code = execute([]string{"public", "192.0.2.10"}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var units int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM unit WHERE ip_address = '192.0.2.10'`).Scan(&units))
	assert.Equal(t, 1, units)
}

func TestExecuteUsage(t *testing.T) {
	created := useSession(t, scenarioSession())

	for _, args := range [][]string{
		{},
		{"public"},
		{"public", "192.0.2.10", "extra"},
		{"--no-such-flag", "public", "192.0.2.10"},
	} {
		var stderr bytes.Buffer

		assert.Equal(t, exitUsage, execute(args, &stderr), args)
		assert.Contains(t, stderr.String(), "snmp-inventory:")
	}

	assert.Zero(t, *created)
}

func TestExecuteVersion(t *testing.T) {
	created := useSession(t, scenarioSession())

	var stderr bytes.Buffer

	assert.Equal(t, exitOK, execute([]string{"--version"}, &stderr))
	assert.Contains(t, stderr.String(), version.String())
	assert.Zero(t, *created)
}

func TestExecuteInvalidTarget(t *testing.T) {
	path := sqliteEnv(t)
	created := useSession(t, scenarioSession())

	for _, target := range []string{"999.1.1.1", "10.0.0", "2001:db8::1", "router.example", "::ffff:10.0.0.1"} {
		var stderr bytes.Buffer

		assert.Equal(t, exitInvalidTarget, execute([]string{"public", target}, &stderr), target)
		assert.Contains(t, stderr.String(), "not a valid IPv4 address")
	}

	assert.Zero(t, *created)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "store must not be touched")
}

func TestExecuteConfigFailure(t *testing.T) {
	sqliteEnv(t)
	created := useSession(t, scenarioSession())

	var stderr bytes.Buffer

	code := execute([]string{"--config", filepath.Join(t.TempDir(), "missing.json"), "public", "192.0.2.10"}, &stderr)
	assert.Equal(t, exitSetupFailure, code)
	assert.Zero(t, *created)
}

func TestExecuteStoreOpenFailure(t *testing.T) {
	sqliteEnv(t)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	t.Setenv("SNMP_INVENTORY_DATABASE_PATH", filepath.Join(blocker, "inventory.db"))

	created := useSession(t, scenarioSession())

	var stderr bytes.Buffer

	code := execute([]string{"public", "192.0.2.10"}, &stderr)
	assert.Equal(t, exitStoreFailure, code)
	assert.Contains(t, stderr.String(), "failed to open inventory store")
	assert.Zero(t, *created)
}

func TestExecuteStoreWriteFailure(t *testing.T) {
	sqliteEnv(t)

	session := scenarioSession()
	useSession(t, session)

	var stderr bytes.Buffer

	// Without --init-schema the tables do not exist, so the first store operation fails.
	code := execute([]string{"public", "192.0.2.10"}, &stderr)
	assert.Equal(t, exitStoreFailure, code)
	assert.Contains(t, stderr.String(), "device lookup")
	assert.True(t, session.closed)
}

func TestExecuteMalformedDotEnv(t *testing.T) {
	path := sqliteEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SNMP_INVENTORY_DATABASE_DRIVER=mysql\n'broken"), 0o600))
	t.Chdir(dir)

	created := useSession(t, scenarioSession())

	var stderr bytes.Buffer

	code := execute([]string{"--init-schema", "public", "192.0.2.10"}, &stderr)
	assert.Equal(t, exitSetupFailure, code)
	assert.Contains(t, stderr.String(), "failed to load .env")
	assert.Zero(t, *created)
	assert.NoFileExists(t, path)
}

func TestExecuteDebugLogsDotEnvAndComponents(t *testing.T) {
	sqliteEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SNMP_INVENTORY_SNMP_RETRIES=1\n"), 0o600))
	t.Chdir(dir)

	// Restored after the test even though the .env load sets it.
	t.Setenv("SNMP_INVENTORY_SNMP_RETRIES", "")
	require.NoError(t, os.Unsetenv("SNMP_INVENTORY_SNMP_RETRIES"))

	session := scenarioSession()
	useSession(t, session)

	logDir := filepath.Join(t.TempDir(), "logs")

	var stderr bytes.Buffer

	code := execute([]string{"--init-schema", "--debug", "--log-dir", logDir, "public", "192.0.2.10"}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, 1, session.params.Retries)

	data, err := os.ReadFile(filepath.Join(logDir, "192.0.2.10.log"))
	require.NoError(t, err)

	logText := string(data)
	assert.Contains(t, logText, `"level":"debug"`)
	assert.Contains(t, logText, "loaded .env")
	assert.Contains(t, logText, `"component":"builder"`)
	assert.Contains(t, logText, `"component":"writer"`)
}
