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


package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ErrDotEnv is returned when a .env file exists but cannot be loaded.
var ErrDotEnv = errors.New("failed to load .env")

// LoadDotEnv loads the first .env file found from the working directory up to
// the filesystem root and returns its path, or "" when there is none.
// Variables already set in the environment win.
func LoadDotEnv() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDotEnv, err)
	}

	return loadDotEnvFrom(wd)
}

func loadDotEnvFrom(dir string) (string, error) {
	path, err := findDotEnvFrom(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDotEnv, err)
	}

	if path == "" {
		return "", nil
	}

	// godotenv parses the whole file before setting anything, so a parse
	// error leaves the environment untouched.
	if err := godotenv.Load(path); err != nil {
		return path, fmt.Errorf("%w from %s: %w", ErrDotEnv, path, err)
	}

	return path, nil
}

func findDotEnvFrom(dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, ".env")

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}
