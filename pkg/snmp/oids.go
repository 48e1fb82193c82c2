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

package snmp

import "strings"

// Object identifiers queried during discovery.
const (
	// System group
	OIDSysName = ".1.3.6.1.2.1.1.5.0"

	// ENTITY-MIB entPhysicalModelName column. Queried with GetNext since the
	// first populated row is vendor dependent.
	OIDEntPhysicalModelName = ".1.3.6.1.2.1.47.1.1.1.1.13"

	// ipAddrTable columns, indexed by the dotted-quad address
	OIDIPAdEntAddr    = ".1.3.6.1.2.1.4.20.1.1"
	OIDIPAdEntIfIndex = ".1.3.6.1.2.1.4.20.1.2"
	OIDIPAdEntNetMask = ".1.3.6.1.2.1.4.20.1.3"

	// ifTable columns, indexed by ifIndex
	OIDIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	OIDIfPhysAddress = ".1.3.6.1.2.1.2.2.1.6"
)

const ipv4Arcs = 4

// Instance appends an instance suffix to a column OID.
func Instance(column, suffix string) string {
	return strings.TrimSuffix(column, ".") + "." + strings.TrimPrefix(suffix, ".")
}

// IPFromOID returns the dotted-quad index carried in the last four arcs of an
// ipAddrTable instance OID.
func IPFromOID(oid string) (string, bool) {
	parts := strings.Split(strings.Trim(oid, "."), ".")
	if len(parts) <= ipv4Arcs {
		return "", false
	}

	return strings.Join(parts[len(parts)-ipv4Arcs:], "."), true
}
