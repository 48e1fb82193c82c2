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

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration accepts either a Go duration string ("5s") or a number of
// milliseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value) * time.Millisecond)
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SNMPConfig holds the transport settings applied to every request of a run.
type SNMPConfig struct {
	Port           uint16   `json:"port"`
	Timeout        Duration `json:"timeout"`
	Retries        int      `json:"retries"`
	MaxRepetitions uint32   `json:"max_repetitions"`
}

// DatabaseConfig selects and addresses the inventory store.
type DatabaseConfig struct {
	Driver   string            `json:"driver"` // mysql, postgres or sqlite
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	Username string            `json:"username"`
	Password string            `json:"password"`
	Database string            `json:"database"`
	Path     string            `json:"path"` // sqlite only
	SSLMode  string            `json:"ssl_mode"`
	Params   map[string]string `json:"params,omitempty"`
	Timeout  Duration          `json:"timeout"`
}

// NATSConfig enables publishing of inventory events after a successful write.
type NATSConfig struct {
	URL     string `json:"url"`
	Domain  string `json:"domain"`
	Stream  string `json:"stream"`
	Subject string `json:"subject"`
}
