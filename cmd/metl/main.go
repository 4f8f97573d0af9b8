/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package main is the command line entry point running a flow once, either from a definition
// file or from a flow version stored in the configuration database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/tma-comms/metl/internal/persist"
	"github.com/tma-comms/metl/internal/runtime/component/builtin"
	"github.com/tma-comms/metl/internal/runtime/flow"
	"github.com/tma-comms/metl/internal/runtime/resource/factory"
	"github.com/tma-comms/metl/internal/system/config"
	"github.com/tma-comms/metl/internal/system/constants"
	"github.com/tma-comms/metl/internal/system/database/provider"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/tracing"
)

// options holds the parsed command line.
type options struct {
	home        string
	flowPath    string
	flowVersion string
	setupStore  bool
	parameters  map[string]string
}

func main() {
	logger := log.GetLogger()

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		logger.Error("Invalid arguments", log.Error(err))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, opts)
	stop()
	if err != nil {
		logger.Error("Run failed", log.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func parseOptions(args []string) (options, error) {
	opts := options{parameters: map[string]string{}}
	fs := flag.NewFlagSet("metl", flag.ContinueOnError)
	fs.StringVar(&opts.home, "home", "", "Path to the metl home directory (defaults to the working directory)")
	fs.StringVar(&opts.flowPath, "flow", "", "Path to the flow definition to run")
	fs.StringVar(&opts.flowVersion, "flow-version", "", "Id of a flow version in the configuration database to run")
	fs.BoolVar(&opts.setupStore, "setup-store", false, "Create the configuration tables in the configured database")
	fs.Func("param", "Flow parameter as name=value, may be repeated", func(value string) error {
		name, v, ok := strings.Cut(value, "=")
		if !ok || name == "" {
			return fmt.Errorf("parameter %q is not name=value", value)
		}
		opts.parameters[name] = v
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return opts, fmt.Errorf("failed to get current working directory: %w", err)
		}
		opts.home = dir
	}
	if opts.flowPath != "" && opts.flowVersion != "" {
		return opts, errors.New("-flow and -flow-version cannot be used together")
	}
	if opts.flowPath == "" && opts.flowVersion == "" && !opts.setupStore {
		return opts, errors.New("one of -flow, -flow-version or -setup-store is required")
	}
	return opts, nil
}

func run(ctx context.Context, opts options) error {
	logger := log.GetLogger()

	cfg, err := config.LoadConfig(filepath.Join(opts.home, filepath.FromSlash(constants.DeploymentConfigPath)))
	if err != nil {
		return fmt.Errorf("failed to load configurations: %w", err)
	}
	dbProvider := provider.NewDBProvider(opts.home)

	if opts.setupStore {
		if err := setupStore(ctx, dbProvider, cfg); err != nil {
			return err
		}
	}
	var def *flow.Definition
	switch {
	case opts.flowPath != "":
		def, err = flow.LoadDefinition(opts.flowPath)
	case opts.flowVersion != "":
		def, err = loadStoredDefinition(ctx, dbProvider, cfg, opts.flowVersion)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	tp, shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down tracing", log.Error(err))
		}
	}()

	engine := flow.NewEngine(builtin.NewRegistry(dbProvider),
		factory.NewResourceFactory(dbProvider, time.Duration(cfg.HTTP.Timeout)*time.Millisecond),
		flow.Options{
			WorkDirectory:  cfg.ResolveWorkDirectory(opts.home),
			RowsPerMessage: cfg.Runtime.RowsPerMessage,
			StartupTimeout: time.Duration(cfg.Runtime.StartupTimeout) * time.Second,
			TracerProvider: tp,
		})

	logger.Info("Running flow", log.String(log.LoggerKeyFlowID, def.ID), log.String("name", def.Name))
	result, runErr := engine.Run(ctx, def, opts.parameters)
	if result != nil {
		logResult(logger, result)
	}
	return runErr
}

// setupStore creates the configuration tables in the deployment database.
func setupStore(ctx context.Context, dbProvider provider.DBProviderInterface, cfg *config.Config) error {
	dbClient, err := dbProvider.Open(ctx, cfg.Database.Config)
	if err != nil {
		return err
	}
	defer func() {
		_ = dbClient.Close()
	}()
	if err := persist.NewPersistenceManager().CreateTables(ctx, dbClient, persist.AllRecords()...); err != nil {
		return err
	}
	log.GetLogger().Info("Configuration store is ready", log.String("type", cfg.Database.Config.Type))
	return nil
}

// loadStoredDefinition resolves a flow version of the configuration database into a definition.
func loadStoredDefinition(ctx context.Context, dbProvider provider.DBProviderInterface, cfg *config.Config,
	flowVersionID string) (*flow.Definition, error) {
	dbClient, err := dbProvider.Open(ctx, cfg.Database.Config)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = dbClient.Close()
	}()
	service := persist.NewConfigurationService(dbClient, persist.NewPersistenceManager())
	def, err := service.LoadFlowDefinition(ctx, flowVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow version %s: %w", flowVersionID, err)
	}
	return def, nil
}

// logResult logs the outcome of the run. Per step statistics are logged by the engine.
func logResult(logger *log.Logger, result *flow.Result) {
	var entities int64
	for _, id := range result.Order {
		step := result.Steps[id]
		entities += step.Statistics.EntitiesProcessed
		if step.Err != nil {
			logger.Error("Step failed", log.String(log.LoggerKeyRunID, result.RunID),
				log.String(log.LoggerKeyStepID, id), log.String("state", string(step.State)), log.Error(step.Err))
		}
	}
	logger.Info("Flow finished", log.String(log.LoggerKeyRunID, result.RunID),
		log.String("status", string(result.Status)), log.Int("steps", len(result.Order)),
		log.Int64("entities", entities))
}
