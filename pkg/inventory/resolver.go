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
	"net/netip"

	"github.com/rs/zerolog"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
	"github.com/carverauto/snmp-inventory/pkg/snmp"
)

// Resolver turns the device's IP address table into interface records.
type Resolver struct {
	querier Querier
	logger  zerolog.Logger
}

func NewResolver(querier Querier, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Resolver{querier: querier, logger: log.WithComponent("resolver")}
}

// Resolve walks ipAdEntAddr and hydrates one record per entry, in walk order.
// It returns ErrNoInterfaces when the walk yields nothing.
func (r *Resolver) Resolve() ([]models.InterfaceRecord, error) {
	entries := r.querier.Walk(snmp.OIDIPAdEntAddr)
	if len(entries) == 0 {
		return nil, ErrNoInterfaces
	}

	records := make([]models.InterfaceRecord, 0, len(entries))

	for _, entry := range entries {
		records = append(records, r.resolveEntry(entry))
	}

	return records, nil
}

func (r *Resolver) resolveEntry(entry snmp.Value) models.InterfaceRecord {
	key := addressKey(entry)
	index := r.querier.Get(snmp.Instance(snmp.OIDIPAdEntIfIndex, key))

	record := models.InterfaceRecord{
		IPAddress:       key,
		Mask:            r.querier.Get(snmp.Instance(snmp.OIDIPAdEntNetMask, key)).String(),
		Description:     snmp.NoResponse.String(),
		HardwareAddress: snmp.Unavailable.String(),
	}

	if !index.OK() {
		r.logger.Debug().
			Str("ip", key).
			Str("reason", index.String()).
			Msg("interface index unresolved")

		return record
	}

	record.Description = r.querier.Get(snmp.Instance(snmp.OIDIfDescr, index.Text)).String()
	record.HardwareAddress = formatHardwareAddress(r.querier.Get(snmp.Instance(snmp.OIDIfPhysAddress, index.Text)))

	return record
}

// addressKey prefers the decoded address and falls back to the instance
// suffix of the walked OID.
func addressKey(entry snmp.Value) string {
	if entry.OK() {
		if addr, err := netip.ParseAddr(entry.Text); err == nil && addr.Is4() {
			return addr.String()
		}
	}

	if ip, ok := snmp.IPFromOID(entry.OID); ok {
		return ip
	}

	return entry.String()
}
