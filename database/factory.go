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
	"fmt"
)

var supportedTypes = []string{TypeMySQL, TypePostgres, TypeSQLite}

// BaseDatabaseFactory validates connection settings and builds the manager
// for them.
type BaseDatabaseFactory struct {
	manager AbstractDatabaseManager
	logger  Logger
}

// NewDatabaseFactory returns a factory logging to logger, or to the package
// logger when logger is nil.
func NewDatabaseFactory(logger Logger) *BaseDatabaseFactory {
	if logger == nil {
		logger = GetLogger()
	}
	return &BaseDatabaseFactory{logger: logger}
}

// CreateFromConfig constructs a database manager from the given connection
// configuration. Invalid settings yield a ConfigurationError.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Reason: "database configuration cannot be empty"}
	}

	supported := false
	for _, t := range supportedTypes {
		if cfg.Type == t {
			supported = true
			break
		}
	}
	if !supported {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)

	f.manager = manager
	return manager, nil
}

// GetManager returns the manager built by the last CreateFromConfig call.
func (f *BaseDatabaseFactory) GetManager() AbstractDatabaseManager {
	return f.manager
}

// SetLogger sets the logger on the factory and the underlying manager.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

// Close closes the database connection managed by the factory.
func (f *BaseDatabaseFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}
