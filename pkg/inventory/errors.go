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

import "errors"

var (
	// ErrNoInterfaces is returned by the resolver when the address table walk is empty.
	ErrNoInterfaces = errors.New("no IP-bearing interfaces reported")

	ErrStoreFailed      = errors.New("inventory store failure")
	ErrSnapshotRequired = errors.New("device snapshot is required")
	ErrDeviceIPRequired = errors.New("device IP is required")
	ErrQuerierRequired  = errors.New("SNMP querier is required")
	ErrStoreRequired    = errors.New("inventory store is required")
)
