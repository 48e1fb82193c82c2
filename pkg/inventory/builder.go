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
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
	"github.com/carverauto/snmp-inventory/pkg/snmp"
)

// Builder assembles a DeviceSnapshot from live SNMP queries.
type Builder struct {
	querier  Querier
	resolver *Resolver
	logger   zerolog.Logger
	now      func() time.Time
}

func NewBuilder(querier Querier, log logger.Logger) *Builder {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Builder{
		querier:  querier,
		resolver: NewResolver(querier, log),
		logger:   log.WithComponent("builder"),
		now:      time.Now,
	}
}

// Build queries identity and interfaces for the device at ip. Protocol
// failures are recorded as placeholder text; the only errors are caller errors.
func (b *Builder) Build(ip string) (*models.DeviceSnapshot, error) {
	if ip == "" {
		return nil, ErrDeviceIPRequired
	}

	if b.querier == nil {
		return nil, ErrQuerierRequired
	}

	snapshot := &models.DeviceSnapshot{
		IPAddress:    ip,
		Name:         b.querier.Get(snmp.OIDSysName).String(),
		Model:        b.model(),
		DiscoveredAt: b.now().UTC(),
	}

	interfaces, err := b.resolver.Resolve()

	switch {
	case errors.Is(err, ErrNoInterfaces):
		b.logger.Warn().Str("device_ip", ip).Msg("device reported no IP-bearing interfaces")

		interfaces = []models.InterfaceRecord{}
	case err != nil:
		return nil, err
	}

	snapshot.Interfaces = interfaces

	b.logger.Info().
		Str("device_ip", ip).
		Str("name", snapshot.Name).
		Str("model", snapshot.Model).
		Int("interfaces", len(interfaces)).
		Msg("device snapshot built")

	return snapshot, nil
}

// model returns the first entPhysicalModelName row. A next-query that lands
// outside the column means the agent has no such rows; the value of whatever
// object follows is intentionally not recorded as the model.
func (b *Builder) model() string {
	v := b.querier.GetNext(snmp.OIDEntPhysicalModelName)
	if v.OK() && !strings.HasPrefix(v.OID, snmp.OIDEntPhysicalModelName+".") {
		return snmp.NoResponse.String()
	}

	return v.String()
}
