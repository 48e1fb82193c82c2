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

import "errors"

var (
	ErrTargetRequired    = errors.New("SNMP target is required")
	ErrInvalidTarget     = errors.New("SNMP target must be an IPv4 literal")
	ErrCommunityRequired = errors.New("SNMP community is required")
	ErrConnect           = errors.New("failed to open SNMP transport")
)
