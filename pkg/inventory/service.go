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

	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

// Service runs one discovery: build, replace, then announce.
type Service struct {
	builder   *Builder
	writer    *Writer
	publisher Publisher
	logger    logger.Logger
}

// NewService wires the pipeline. publisher may be nil.
func NewService(querier Querier, store Store, publisher Publisher, log logger.Logger) (*Service, error) {
	if querier == nil {
		return nil, ErrQuerierRequired
	}

	if store == nil {
		return nil, ErrStoreRequired
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Service{
		builder:   NewBuilder(querier, log),
		writer:    NewWriter(store, log),
		publisher: publisher,
		logger:    log,
	}, nil
}

// Run discovers the device at ip and replaces its stored record. A publish
// failure after commit is logged and does not fail the run.
func (s *Service) Run(ctx context.Context, ip string) (*models.DeviceSnapshot, *WriteResult, error) {
	snapshot, err := s.builder.Build(ip)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.writer.Write(ctx, snapshot)
	if err != nil {
		return snapshot, nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishInventory(ctx, snapshot, result); err != nil {
			s.logger.Warn().Err(err).Str("device_ip", ip).Msg("failed to publish inventory event")
		}
	}

	return snapshot, result, nil
}
