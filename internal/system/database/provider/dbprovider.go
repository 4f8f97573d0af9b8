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

// Package provider provides functionality for opening database connection pools and clients.
package provider

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tma-comms/metl/internal/system/config"
	"github.com/tma-comms/metl/internal/system/database/client"
	"github.com/tma-comms/metl/internal/system/database/model"
	"github.com/tma-comms/metl/internal/system/log"
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for opening database clients.
type DBProviderInterface interface {
	// Open creates a new connection pool for the data source. The caller owns and closes the client.
	Open(ctx context.Context, dataSource config.DataSource) (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	home string
}

// NewDBProvider creates a provider resolving relative sqlite paths against the given home directory.
func NewDBProvider(home string) DBProviderInterface {
	return &DBProvider{home: home}
}

// Open creates a new connection pool for the data source and verifies it with a ping.
func (d *DBProvider) Open(ctx context.Context, dataSource config.DataSource) (client.DBClientInterface, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))

	dbConfig, err := d.getDBConfig(dataSource)
	if err != nil {
		return nil, err
	}
	dbName := dataSource.Name
	if dbName == "" {
		dbName = dataSource.Path
	}

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	// Configure connection pool using values from configuration
	if dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dataSource.MaxOpenConns)
	}
	if dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dataSource.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database %s: %w (close error: %w)", dbName, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	// Enable foreign key constraints for SQLite databases
	if dbConfig.driverName == model.DBTypeSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to enable foreign key constraints for %s: %w (close error: %w)",
					dbName, err, closeErr)
			}
			return nil, fmt.Errorf("failed to enable foreign key constraints for %s: %w", dbName, err)
		}
	}

	logger.Debug("Opened database connection pool", log.String("type", dataSource.Type),
		log.String("name", dbName), log.Int("maxOpenConns", dataSource.MaxOpenConns))
	return client.NewDBClient(model.NewDB(db), dbConfig.driverName), nil
}

// getDBConfig returns the database configuration based on the provided data source.
func (d *DBProvider) getDBConfig(dataSource config.DataSource) (dbConfig, error) {
	var dbConfig dbConfig

	switch dataSource.Type {
	case model.DBTypePostgres:
		dbConfig.driverName = model.DBTypePostgres
		dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
			dataSource.Name, dataSource.SSLMode)
	case model.DBTypeSQLite:
		if dataSource.Path == "" {
			return dbConfig, fmt.Errorf("sqlite data source %s has no path", dataSource.Name)
		}
		dbConfig.driverName = model.DBTypeSQLite
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		dbConfig.dsn = d.resolvePath(dataSource.Path) + options
	default:
		return dbConfig, fmt.Errorf("unsupported database type: %s", dataSource.Type)
	}

	return dbConfig, nil
}

// resolvePath joins relative file paths to the home directory. URI style paths are kept as is.
func (d *DBProvider) resolvePath(path string) string {
	if d.home == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "file:") {
		return path
	}
	return filepath.Join(d.home, path)
}
