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

package db

// One unit row per device address and one interface row per IP-bearing interface.
// Column order matches the inventory database consumers expect.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS unit (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ip_address VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		model VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_unit_ip_address (ip_address)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS interface (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		unit_id BIGINT NOT NULL,
		ip_address VARCHAR(64) NOT NULL,
		mask VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		mac_address VARCHAR(64) NOT NULL,
		CONSTRAINT fk_interface_unit FOREIGN KEY (unit_id) REFERENCES unit (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS unit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ip_address TEXT NOT NULL,
		name TEXT NOT NULL,
		model TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_unit_ip_address ON unit (ip_address)`,
	`CREATE TABLE IF NOT EXISTS interface (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id INTEGER NOT NULL REFERENCES unit (id) ON DELETE CASCADE,
		ip_address TEXT NOT NULL,
		mask TEXT NOT NULL,
		name TEXT NOT NULL,
		mac_address TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS unit (
		id BIGSERIAL PRIMARY KEY,
		ip_address TEXT NOT NULL,
		name TEXT NOT NULL,
		model TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_unit_ip_address ON unit (ip_address)`,
	`CREATE TABLE IF NOT EXISTS interface (
		id BIGSERIAL PRIMARY KEY,
		unit_id BIGINT NOT NULL REFERENCES unit (id) ON DELETE CASCADE,
		ip_address TEXT NOT NULL,
		mask TEXT NOT NULL,
		name TEXT NOT NULL,
		mac_address TEXT NOT NULL
	)`,
}
