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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/tomoncle/ecostock-setup/config"
	"github.com/tomoncle/ecostock-setup/database"
	"github.com/tomoncle/ecostock-setup/setup"
	"github.com/tomoncle/ecostock-setup/utils"
)

type options struct {
	databaseURL string
	envFile     string
	seedFile    string
	logLevel    string
	queryLog    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "setup-db",
		Short:         "Create the users table and seed the EcoStock test account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("database-url") {
				settings.DatabaseURL = opts.databaseURL
			}
			if flags.Changed("seed-file") {
				settings.SeedFile = opts.seedFile
			}
			if flags.Changed("log-level") {
				settings.LogLevel = opts.logLevel
			}
			if flags.Changed("query-log") {
				settings.QueryLog = opts.queryLog
			}
			_, err = run(cmd.Context(), settings)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "connection URL, overrides DATABASE_URL")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "env file to load (default .env when present)")
	cmd.Flags().StringVar(&opts.seedFile, "seed-file", "", "YAML file overriding the seed account")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.queryLog, "query-log", false, "log every SQL statement")
	return cmd
}

// run resolves the connection and bootstraps the database. It performs no
// I/O when the configuration is invalid.
func run(ctx context.Context, settings *config.Settings) (*setup.Result, error) {
	utils.ConfigureLogLevel(settings.LogLevel)
	utils.ConfigureConsoleLogFormat(settings.LogFormat)
	logger := database.GetLogger()
	logger.Info("[SETUP] Starting database setup...")

	cfg, err := database.NewURLResolver(logger).Resolve(settings.DatabaseURL)
	if err != nil {
		return nil, err
	}
	settings.Apply(cfg)

	seed := setup.DefaultSeedUser()
	if settings.SeedFile != "" {
		if seed, err = setup.LoadSeedUser(settings.SeedFile); err != nil {
			return nil, &database.ConfigurationError{Reason: "invalid seed file", Err: err}
		}
	}

	manager, err := database.NewDatabaseFactory(logger).CreateFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return setup.NewBootstrapper(manager,
		setup.WithLogger(logger),
		setup.WithSeedUser(seed),
	).Run(ctx)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		database.GetLogger().Error("[SETUP] ERROR DURING DATABASE INITIALIZATION:", "error", err)
	}
	os.Exit(exitCode(err))
}
