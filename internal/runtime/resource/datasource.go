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

package resource

import (
	"context"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/config"
	"github.com/tma-comms/metl/internal/system/database/client"
	"github.com/tma-comms/metl/internal/system/database/model"
	"github.com/tma-comms/metl/internal/system/database/provider"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
)

// Datasource setting keys.
const (
	SettingDBType          = "db.type"
	SettingDBHost          = "db.host"
	SettingDBPort          = "db.port"
	SettingDBName          = "db.name"
	SettingDBUser          = "db.user"
	SettingDBPassword      = "db.password"
	SettingDBSSLMode       = "db.sslmode"
	SettingDBPath          = "db.path"
	SettingDBOptions       = "db.options"
	SettingDBPoolMaxActive = "db.pool.max.active"
	SettingDBPoolMaxIdle   = "db.pool.max.idle"
)

// NewDataSource materializes the connection details of a Datasource resource.
func NewDataSource(settings setting.Settings) (config.DataSource, error) {
	dbType, err := settings.GetChoice(SettingDBType, model.DBTypeSQLite, model.DBTypeSQLite, model.DBTypePostgres)
	if err != nil {
		return config.DataSource{}, err
	}
	port, err := settings.GetInt(SettingDBPort, 5432)
	if err != nil {
		return config.DataSource{}, err
	}
	maxActive, err := settings.GetInt(SettingDBPoolMaxActive, 1)
	if err != nil {
		return config.DataSource{}, err
	}
	maxIdle, err := settings.GetInt(SettingDBPoolMaxIdle, maxActive)
	if err != nil {
		return config.DataSource{}, err
	}
	if maxActive < 1 || maxIdle < 0 {
		return config.DataSource{}, flowerror.Newf(constants.ErrorInvalidSetting, nil,
			"The '%s' setting must be at least 1", SettingDBPoolMaxActive)
	}

	ds := config.DataSource{
		Type:         dbType,
		Hostname:     settings.GetString(SettingDBHost, "localhost"),
		Port:         port,
		Name:         settings.GetString(SettingDBName, ""),
		Username:     settings.GetString(SettingDBUser, ""),
		Password:     settings.GetRaw(SettingDBPassword, ""),
		SSLMode:      settings.GetString(SettingDBSSLMode, "disable"),
		Path:         settings.GetString(SettingDBPath, ""),
		Options:      settings.GetString(SettingDBOptions, ""),
		MaxOpenConns: maxActive,
		MaxIdleConns: maxIdle,
	}
	if dbType == model.DBTypeSQLite && ds.Path == "" {
		return config.DataSource{}, flowerror.Newf(constants.ErrorMissingSetting, nil,
			"The '%s' setting is required", SettingDBPath)
	}
	if dbType == model.DBTypePostgres && ds.Name == "" {
		return config.DataSource{}, flowerror.Newf(constants.ErrorMissingSetting, nil,
			"The '%s' setting is required", SettingDBName)
	}
	return ds, nil
}

// DatasourceRuntime is a database connection pool owned by one component instance.
// It is not safe for concurrent use.
type DatasourceRuntime struct {
	definition Definition
	dataSource config.DataSource
	dbProvider provider.DBProviderInterface
	dbClient   client.DBClientInterface
}

// NewDatasourceRuntime creates a Datasource resource runtime. The pool is opened on first use.
func NewDatasourceRuntime(definition Definition, dbProvider provider.DBProviderInterface) (
	*DatasourceRuntime, error) {
	ds, err := NewDataSource(definition.Settings)
	if err != nil {
		return nil, err
	}
	return &DatasourceRuntime{
		definition: definition,
		dataSource: ds,
		dbProvider: dbProvider,
	}, nil
}

// GetID returns the resource id.
func (r *DatasourceRuntime) GetID() string {
	return r.definition.ID
}

// GetType returns the resource type.
func (r *DatasourceRuntime) GetType() string {
	return r.definition.Type
}

// GetClient opens the connection pool on first use and returns it.
func (r *DatasourceRuntime) GetClient(ctx context.Context) (client.DBClientInterface, error) {
	if r.dbClient != nil {
		return r.dbClient, nil
	}
	dbClient, err := r.dbProvider.Open(ctx, r.dataSource)
	if err != nil {
		return nil, flowerror.Newf(constants.ErrorResourceUnavailable, err,
			"Failed to open datasource %s", r.definition.Name)
	}
	r.dbClient = dbClient
	return dbClient, nil
}

// Close closes the connection pool if it was opened.
func (r *DatasourceRuntime) Close() error {
	if r.dbClient == nil {
		return nil
	}
	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DatasourceRuntime")).
		Debug("Closing datasource", log.String("resource", r.definition.Name))
	err := r.dbClient.Close()
	r.dbClient = nil
	return err
}
