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

package setup

import (
	"context"
	"errors"

	"github.com/tomoncle/ecostock-setup/database"
	"github.com/tomoncle/ecostock-setup/repository"
)

// Result reports what a bootstrap run changed.
type Result struct {
	TableEnsured bool
	UserInserted bool
	UserSkipped  bool
}

// Bootstrapper creates the users table and the seed account. Running it
// again against an initialized database changes nothing.
type Bootstrapper struct {
	manager database.AbstractDatabaseManager
	logger  database.Logger
	seed    SeedUser
}

// Option customizes a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger sets the logger for status lines.
func WithLogger(logger database.Logger) Option {
	return func(b *Bootstrapper) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSeedUser replaces the default test account.
func WithSeedUser(seed SeedUser) Option {
	return func(b *Bootstrapper) {
		b.seed = seed
	}
}

// NewBootstrapper returns a Bootstrapper that owns manager for the duration
// of Run.
func NewBootstrapper(manager database.AbstractDatabaseManager, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		manager: manager,
		logger:  database.GetLogger(),
		seed:    DefaultSeedUser(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run connects, ensures the schema, seeds the test account and disconnects.
// The connection is released on every path, including failures.
func (b *Bootstrapper) Run(ctx context.Context) (result *Result, err error) {
	if b.manager == nil {
		return nil, &database.ConfigurationError{Reason: "database manager not created"}
	}
	if b.seed.Email == "" || b.seed.Password == "" {
		return nil, &database.ConfigurationError{Reason: "seed user requires email and password"}
	}

	defer func() {
		if closeErr := b.manager.Disconnect(); closeErr != nil && err == nil {
			err = database.NewDatabaseError("disconnect", closeErr)
		}
	}()

	if err := b.manager.Connect(ctx); err != nil {
		return nil, asDatabaseError("connect", err)
	}
	b.logger.Info("[SETUP] Database connection established.")

	db := b.manager.GetDB()
	if db == nil {
		return nil, database.NewDatabaseError("connect", errors.New("database not initialized"))
	}
	users := repository.NewRepository[User](db)
	result = &Result{}

	if err := users.CreateTable(ctx); err != nil {
		return nil, database.NewDatabaseError("create table users", err)
	}
	result.TableEnsured = true
	b.logger.Info("[SETUP] Table 'users' verified/created.")

	exists, err := users.Exists(ctx, "email = ?", b.seed.Email)
	if err != nil {
		return nil, database.NewDatabaseError("lookup seed user", err)
	}
	if exists {
		result.UserSkipped = true
		b.logger.Info("[SETUP] User already exists. Skipping insert.", "email", b.seed.Email)
	} else {
		if err := users.Create(ctx, b.seed.toUser()); err != nil {
			return nil, database.NewDatabaseError("insert seed user", err)
		}
		result.UserInserted = true
		b.logger.Info("[SETUP] Test user inserted.", "email", b.seed.Email, "password", b.seed.Password)
		b.logger.Warn("WARNING: the password was stored as plain text. Login only works if the server compares plain-text passwords.")
	}

	b.logger.Info("[SETUP] Database initialized successfully.")
	return result, nil
}

func asDatabaseError(op string, err error) error {
	var dbErr *database.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	return database.NewDatabaseError(op, err)
}
