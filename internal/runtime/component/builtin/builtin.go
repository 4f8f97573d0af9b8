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

// Package builtin registers the components shipped with the runtime.
package builtin

import (
	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/component/sqlwriter"
	"github.com/tma-comms/metl/internal/runtime/component/temprdbms"
	"github.com/tma-comms/metl/internal/system/database/provider"
)

// Register adds the builtin components to the registry.
func Register(registry *component.Registry, dbProvider provider.DBProviderInterface) {
	registry.Register(temprdbms.TypeName, func() component.ComponentInterface {
		return temprdbms.NewTempRDBMS(dbProvider)
	})
	registry.Register(sqlwriter.TypeName, sqlwriter.NewSQLWriter)
}

// NewRegistry returns a registry holding the builtin components.
func NewRegistry(dbProvider provider.DBProviderInterface) *component.Registry {
	registry := component.NewRegistry()
	Register(registry, dbProvider)
	return registry
}
