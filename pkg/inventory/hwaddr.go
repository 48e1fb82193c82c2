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
	"fmt"

	"github.com/carverauto/snmp-inventory/pkg/snmp"
)

const macByteLength = 6

// formatHardwareAddress renders an ifPhysAddress value as lower-case colon
// separated hex. Anything that is not exactly six bytes is unavailable.
func formatHardwareAddress(v snmp.Value) string {
	mac := v.Raw
	if len(mac) != macByteLength {
		return snmp.Unavailable.String()
	}

	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
