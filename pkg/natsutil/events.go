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

// Package natsutil publishes inventory CloudEvents to NATS JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
)

const (
	eventSource      = "snmp-inventory"
	eventType        = "com.carverauto.inventory.device.replaced"
	connectTimeout   = 5 * time.Second
	clientName       = "snmp-inventory"
	defaultStreamCap = 1 << 20
)

var (
	errURLRequired     = errors.New("nats url is required")
	errSubjectRequired = errors.New("nats subject is required")
	errStreamRequired  = errors.New("nats stream is required")
)

// jetStreamPublisher is the publishing half of jetstream.JetStream.
type jetStreamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// streamManager is the stream administration half of jetstream.JetStream.
type streamManager interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// EventPublisher publishes inventory CloudEvents to a JetStream subject.
type EventPublisher struct {
	js      jetStreamPublisher
	subject string
	logger  logger.Logger
	now     func() time.Time
}

var _ inventory.Publisher = (*EventPublisher)(nil)

// NewEventPublisher creates a new EventPublisher for the given subject.
func NewEventPublisher(js jetStreamPublisher, subject string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:      js,
		subject: subject,
		logger:  log,
		now:     time.Now,
	}
}

// PublishInventory implements inventory.Publisher.
func (p *EventPublisher) PublishInventory(ctx context.Context, snapshot *models.DeviceSnapshot, result *inventory.WriteResult) error {
	if snapshot == nil || result == nil {
		return inventory.ErrSnapshotRequired
	}

	now := p.now().UTC()

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         p.subject,
		Time:            &now,
		Data: models.InventoryEventData{
			DeviceIP:       snapshot.IPAddress,
			DeviceID:       result.DeviceID,
			Replaced:       result.Replaced,
			InterfaceCount: result.InterfaceCount,
			Snapshot:       snapshot,
			Timestamp:      now,
		},
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory event: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, eventBytes, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish inventory event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", p.subject).
		Uint64("seq", ack.Sequence).
		Msg("published inventory event")

	return nil
}

// Connect dials NATS, makes sure the stream captures the configured subject
// and returns a publisher with a function that closes the connection.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger) (*EventPublisher, func(), error) {
	if cfg == nil || cfg.URL == "" {
		return nil, nil, errURLRequired
	}

	if cfg.Subject == "" {
		return nil, nil, errSubjectRequired
	}

	if cfg.Stream == "" {
		return nil, nil, errStreamRequired
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(clientName),
		nats.Timeout(connectTimeout),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Warn().Err(err).Msg("NATS error")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	var js jetstream.JetStream

	if cfg.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, cfg.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStream(ctx, js, cfg.Stream, cfg.Subject); err != nil {
		nc.Close()
		return nil, nil, err
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("stream", cfg.Stream).
		Str("subject", cfg.Subject).
		Msg("connected to NATS JetStream")

	return NewEventPublisher(js, cfg.Subject, log), nc.Close, nil
}

// ensureStream creates the stream when missing and widens its subject list
// when it does not already capture subject.
func ensureStream(ctx context.Context, mgr streamManager, name, subject string) error {
	stream, err := mgr.Stream(ctx, name)
	if err != nil {
		if !isStreamMissingErr(err) {
			return fmt.Errorf("failed to look up stream %s: %w", name, err)
		}

		_, err = mgr.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			MaxMsgs:  defaultStreamCap,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}

		return nil
	}

	info := stream.CachedInfo()
	if info == nil {
		return nil
	}

	subjects := ensureSubjectList(append([]string(nil), info.Config.Subjects...), subject)
	if len(subjects) == len(info.Config.Subjects) {
		return nil
	}

	cfg := info.Config
	cfg.Subjects = subjects

	if _, err := mgr.CreateOrUpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update stream %s: %w", name, err)
	}

	return nil
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}

func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether a NATS subject pattern with '*' and '>'
// wildcards covers subject.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, token := range pt {
		if token == ">" {
			return i < len(st)
		}

		if i >= len(st) {
			return false
		}

		if token != "*" && token != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}
