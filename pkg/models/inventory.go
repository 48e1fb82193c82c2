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

package models

import "time"

// DeviceSnapshot is the normalized inventory record for one device. It is keyed
// by the address the operator supplied, never by anything the agent reported.
type DeviceSnapshot struct {
	IPAddress    string            `json:"ip_address"`
	Name         string            `json:"name"`
	Model        string            `json:"model"`
	Interfaces   []InterfaceRecord `json:"interfaces"`
	DiscoveredAt time.Time         `json:"discovered_at"`
}

// InterfaceRecord is one IP-bearing interface of a DeviceSnapshot.
type InterfaceRecord struct {
	IPAddress       string `json:"ip_address"`
	Mask            string `json:"mask"`
	Description     string `json:"description"`
	HardwareAddress string `json:"hardware_address"`
}

// InterfaceCount returns the number of interface records, tolerating a nil snapshot.
func (d *DeviceSnapshot) InterfaceCount() int {
	if d == nil {
		return 0
	}

	return len(d.Interfaces)
}
