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

// Package factory creates resource runtimes from resource definitions.
package factory

import (
	"time"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/runtime/resource/httpdirectory"
	"github.com/tma-comms/metl/internal/system/database/provider"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	syshttp "github.com/tma-comms/metl/internal/system/http"
)

// ResourceFactoryInterface creates resource runtimes.
type ResourceFactoryInterface interface {
	// Create returns a new runtime for the definition. Every call returns a new instance that the
	// caller owns exclusively and closes.
	Create(definition resource.Definition) (resource.RuntimeInterface, error)
}

// ResourceFactory is the implementation of ResourceFactoryInterface.
type ResourceFactory struct {
	dbProvider         provider.DBProviderInterface
	defaultHTTPTimeout time.Duration
}

// NewResourceFactory creates a resource factory.
func NewResourceFactory(dbProvider provider.DBProviderInterface, defaultHTTPTimeout time.Duration) ResourceFactoryInterface {
	return &ResourceFactory{
		dbProvider:         dbProvider,
		defaultHTTPTimeout: defaultHTTPTimeout,
	}
}

// Create returns a new runtime for the definition.
func (f *ResourceFactory) Create(definition resource.Definition) (resource.RuntimeInterface, error) {
	switch definition.Type {
	case resource.TypeDatasource:
		return resource.NewDatasourceRuntime(definition, f.dbProvider)
	case resource.TypeHTTP:
		settings, err := httpdirectory.NewSettings(definition.Settings, f.defaultHTTPTimeout)
		if err != nil {
			return nil, err
		}
		directory := httpdirectory.NewHTTPDirectory(settings, syshttp.NewHTTPClientWithTimeout(settings.Timeout))
		return resource.NewDirectoryRuntime(definition, directory), nil
	default:
		return nil, flowerror.Newf(constants.ErrorUnknownResourceType, nil,
			"Resource %s has an unknown type: %s", definition.Name, definition.Type)
	}
}
