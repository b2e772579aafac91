/*
 * Copyright 2025 tomoncle.
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

// Package config loads process settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tomoncle/ecostock-setup/database"
)

// DefaultEnvFile is read when no env file is named explicitly.
const DefaultEnvFile = ".env"

// Settings holds everything the setup command reads from the environment.
// DatabaseURL stays raw here; it is parsed by database.URLResolver.
type Settings struct {
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	LogLevel       string        `envconfig:"SETUP_LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"SETUP_LOG_FORMAT" default:"text"`
	QueryLog       bool          `envconfig:"SETUP_QUERY_LOG" default:"false"`
	SlowQueryTime  time.Duration `envconfig:"SETUP_SLOW_QUERY_TIME" default:"2s"`
	ConnectTimeout time.Duration `envconfig:"SETUP_CONNECT_TIMEOUT" default:"0s"`
	SeedFile       string        `envconfig:"SETUP_SEED_FILE"`
}

// Load reads envFile into the process environment without overriding
// variables that are already set, then parses Settings. A missing
// DefaultEnvFile is not an error; a missing explicitly named file is.
func Load(envFile string) (*Settings, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, &database.ConfigurationError{Reason: fmt.Sprintf("failed to load env file %s", envFile), Err: err}
		}
	}

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, &database.ConfigurationError{Reason: "failed to process environment variables", Err: err}
	}
	return &s, nil
}

// Apply copies the ambient connection knobs onto cfg.
func (s *Settings) Apply(cfg *database.ConnectionConfig) {
	cfg.EnableQueryLog = s.QueryLog
	cfg.SlowQueryTime = s.SlowQueryTime
	cfg.ConnectTimeout = s.ConnectTimeout
}
