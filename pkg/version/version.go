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


// Package version reports build metadata injected via ldflags.
package version

import "fmt"

//nolint:gochecknoglobals // set with -ldflags "-X" at build time
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the release string, "dev" for local builds.
func Version() string {
	return version
}

// Commit returns the source revision the binary was built from.
func Commit() string {
	return commit
}

// String is the text printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s)", version, commit)
}
