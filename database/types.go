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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
	TypeSQLite   = "sqlite"
)

// AbstractDatabaseManager defines the lifecycle of the connection used by
// the bootstrap procedure.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Ping(ctx context.Context) error
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	SetLogger(logger Logger)
}

// TransportSecurity selects how the client secures the wire connection.
type TransportSecurity int

const (
	TransportDisabled TransportSecurity = iota
	// TransportInsecureSkipVerify encrypts the connection without verifying
	// the server certificate.
	TransportInsecureSkipVerify
)

func (t TransportSecurity) String() string {
	switch t {
	case TransportDisabled:
		return "disabled"
	case TransportInsecureSkipVerify:
		return "insecure-skip-verify"
	default:
		return "unknown"
	}
}

// ConnectionConfig describes how to reach the database.
type ConnectionConfig struct {
	Type           string            `json:"type"` // postgres、mysql、sqlite
	Host           string            `json:"host"`
	Port           int               `json:"port"`
	Username       string            `json:"username"`
	Password       string            `json:"-"`
	DBName         string            `json:"dbname"`
	Transport      TransportSecurity `json:"transport"`
	ConnectTimeout time.Duration     `json:"connect_timeout"` // zero means no deadline
	EnableQueryLog bool              `json:"enable_query_log"`
	SlowQueryTime  time.Duration     `json:"slow_query_time"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:          TypePostgres,
		Port:          5432,
		Transport:     TransportDisabled,
		SlowQueryTime: time.Second * 2,
	}
}

// Validate reports a ConfigurationError when a required field is missing.
func (c *ConnectionConfig) Validate() error {
	if c == nil {
		return &ConfigurationError{Reason: "database configuration cannot be empty"}
	}
	if c.Type == TypeSQLite {
		if c.DBName == "" {
			return &ConfigurationError{Reason: "sqlite database name is required"}
		}
		return nil
	}
	missing := ""
	switch {
	case c.Username == "":
		missing = "user"
	case c.Password == "":
		missing = "password"
	case c.Host == "":
		missing = "host"
	case c.DBName == "":
		missing = "database"
	}
	if missing != "" {
		return &ConfigurationError{Reason: fmt.Sprintf("missing %s", missing)}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ConfigurationError{Reason: fmt.Sprintf("port %d out of range 1-65535", c.Port)}
	}
	return nil
}

// String renders the config without the password.
func (c *ConnectionConfig) String() string {
	if c.Type == TypeSQLite {
		return fmt.Sprintf("%s:%s", c.Type, c.DBName)
	}
	return fmt.Sprintf("%s://%s:***@%s:%d/%s (transport=%s)", c.Type, c.Username, c.Host, c.Port, c.DBName, c.Transport)
}
