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

package databasemock

import (
	"context"

	"github.com/tma-comms/metl/internal/system/config"
	"github.com/tma-comms/metl/internal/system/database/client"
)

// MockDBProvider is a mock implementation of the DBProviderInterface.
type MockDBProvider struct {
	// MockOpen defines the behavior for the Open method.
	MockOpen func(dataSource config.DataSource) (client.DBClientInterface, error)

	// OpenCalls tracks the data sources passed to Open.
	OpenCalls []config.DataSource
}

// Open mocks the Open method of the DBProviderInterface.
func (m *MockDBProvider) Open(ctx context.Context, dataSource config.DataSource) (client.DBClientInterface, error) {
	m.OpenCalls = append(m.OpenCalls, dataSource)

	if m.MockOpen != nil {
		return m.MockOpen(dataSource)
	}

	// Return a default mock client by default
	return &MockDBClient{}, nil
}
