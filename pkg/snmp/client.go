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

// Package snmp wraps a gosnmp handler with fail-soft fetch operations.
package snmp

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/snmp-inventory/pkg/logger"
)

const (
	DefaultPort           = 161
	DefaultTimeout        = 5 * time.Second
	DefaultRetries        = 0
	DefaultMaxRepetitions = 10
)

// Params are the per-run query parameters. The protocol version is fixed to v2c.
type Params struct {
	Target         string
	Community      string
	Port           uint16
	Timeout        time.Duration
	Retries        int
	MaxRepetitions uint32
}

func (p Params) withDefaults() Params {
	if p.Port == 0 {
		p.Port = DefaultPort
	}

	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}

	if p.Retries < 0 {
		p.Retries = DefaultRetries
	}

	if p.MaxRepetitions == 0 {
		p.MaxRepetitions = DefaultMaxRepetitions
	}

	return p
}

// Validate checks the parameters that have no sensible default.
func (p Params) Validate() error {
	if p.Target == "" {
		return ErrTargetRequired
	}

	addr, err := netip.ParseAddr(p.Target)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, p.Target)
	}

	if p.Community == "" {
		return ErrCommunityRequired
	}

	return nil
}

// Client performs single-value, next-value and walk requests against one agent.
// Fetch operations never return errors: transport faults, empty values and
// undecodable payloads are reported through Value placeholders.
type Client struct {
	handler gosnmp.Handler
	logger  logger.Logger
}

// NewClient configures a v2c handler for params. Connect must be called before
// issuing requests.
func NewClient(params Params, log logger.Logger) (*Client, error) {
	params = params.withDefaults()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	handler := gosnmp.NewHandler()
	handler.SetTarget(params.Target)
	handler.SetPort(params.Port)
	handler.SetCommunity(params.Community)
	handler.SetVersion(gosnmp.Version2c)
	handler.SetTimeout(params.Timeout)
	handler.SetRetries(params.Retries)
	handler.SetMaxRepetitions(params.MaxRepetitions)

	return newClient(handler, log), nil
}

func newClient(handler gosnmp.Handler, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{
		handler: handler,
		logger:  log,
	}
}

// Connect opens the UDP transport to the agent.
func (c *Client) Connect() error {
	if err := c.handler.Connect(); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrConnect, c.handler.Target(), err)
	}

	c.logger.Debug().
		Str("target", c.handler.Target()).
		Uint16("port", c.handler.Port()).
		Dur("timeout", c.handler.Timeout()).
		Int("retries", c.handler.Retries()).
		Msg("SNMP transport ready")

	return nil
}

// Close releases the transport.
func (c *Client) Close() error {
	return c.handler.Close()
}

// Get fetches the value bound to oid.
func (c *Client) Get(oid string) Value {
	packet, err := c.handler.Get([]string{oid})
	if err != nil {
		c.logger.Debug().Err(err).Str("oid", oid).Msg("SNMP GET failed")

		return noResponse(oid)
	}

	return c.firstValue(oid, packet)
}

// GetNext fetches the first value that follows oid in the agent's tree.
func (c *Client) GetNext(oid string) Value {
	packet, err := c.handler.GetNext([]string{oid})
	if err != nil {
		c.logger.Debug().Err(err).Str("oid", oid).Msg("SNMP GETNEXT failed")

		return noResponse(oid)
	}

	return c.firstValue(oid, packet)
}

// Walk returns every value below oid in walk order. An empty result means the
// agent did not respond or the subtree is empty.
func (c *Client) Walk(oid string) []Value {
	pdus, err := c.handler.BulkWalkAll(oid)
	if err != nil {
		c.logger.Debug().Err(err).Str("oid", oid).Msg("SNMP walk failed")

		return nil
	}

	values := make([]Value, 0, len(pdus))

	for _, pdu := range pdus {
		values = append(values, decodePDU(pdu))
	}

	return values
}

func (c *Client) firstValue(oid string, packet *gosnmp.SnmpPacket) Value {
	if packet == nil || len(packet.Variables) == 0 {
		return noResponse(oid)
	}

	if packet.Error != gosnmp.NoError {
		c.logger.Debug().
			Str("oid", oid).
			Uint8("error_status", uint8(packet.Error)).
			Msg("agent returned an error status")

		return noResponse(oid)
	}

	return decodePDU(packet.Variables[0])
}
