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

// Package databasemock provides mock implementations of the database interfaces for testing.
package databasemock

import (
	"context"
	"database/sql"
	"sync"

	"github.com/tma-comms/metl/internal/system/database/model"
)

// QueryCall records the arguments passed to Query or Execute.
type QueryCall struct {
	Query model.DBQuery
	Args  []interface{}
}

// NamedCall records the arguments passed to ExecuteNamed.
type NamedCall struct {
	Query  string
	Params map[string]interface{}
}

// MockDBClient is a mock implementation of the DBClientInterface. It is safe for concurrent use.
type MockDBClient struct {
	// MockQuery defines the behavior for the Query method.
	MockQuery func(query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error)

	// MockQueryRows defines the behavior for the QueryRows method.
	MockQueryRows func(query string, args ...interface{}) (*sql.Rows, error)

	// MockExecute defines the behavior for the Execute method.
	MockExecute func(query model.DBQuery, args ...interface{}) (int64, error)

	// MockExecuteNamed defines the behavior for the ExecuteNamed method.
	MockExecuteNamed func(query string, params map[string]interface{}) (int64, error)

	// MockBeginTx defines the behavior for the BeginTx method.
	MockBeginTx func() (model.TxInterface, error)

	// MockClose defines the behavior for the Close method.
	MockClose func() error

	// DBType is returned by GetDBType. Defaults to sqlite.
	DBType string

	mu                sync.Mutex
	queryCalls        []QueryCall
	executeCalls      []QueryCall
	executeNamedCalls []NamedCall
	closeCalls        int
}

// Query mocks the Query method of the DBClientInterface.
func (m *MockDBClient) Query(ctx context.Context, query model.DBQuery, args ...interface{}) (
	[]map[string]interface{}, error) {
	m.mu.Lock()
	m.queryCalls = append(m.queryCalls, QueryCall{query, args})
	m.mu.Unlock()

	if m.MockQuery != nil {
		return m.MockQuery(query, args...)
	}
	return []map[string]interface{}{}, nil
}

// QueryRows mocks the QueryRows method of the DBClientInterface.
func (m *MockDBClient) QueryRows(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if m.MockQueryRows != nil {
		return m.MockQueryRows(query, args...)
	}
	return nil, sql.ErrNoRows
}

// Execute mocks the Execute method of the DBClientInterface.
func (m *MockDBClient) Execute(ctx context.Context, query model.DBQuery, args ...interface{}) (int64, error) {
	m.mu.Lock()
	m.executeCalls = append(m.executeCalls, QueryCall{query, args})
	m.mu.Unlock()

	if m.MockExecute != nil {
		return m.MockExecute(query, args...)
	}
	return 0, nil
}

// ExecuteNamed mocks the ExecuteNamed method of the DBClientInterface.
func (m *MockDBClient) ExecuteNamed(ctx context.Context, query string, params map[string]interface{}) (
	int64, error) {
	copied := make(map[string]interface{}, len(params))
	for k, v := range params {
		copied[k] = v
	}
	m.mu.Lock()
	m.executeNamedCalls = append(m.executeNamedCalls, NamedCall{query, copied})
	m.mu.Unlock()

	if m.MockExecuteNamed != nil {
		return m.MockExecuteNamed(query, params)
	}
	return 0, nil
}

// BeginTx mocks the BeginTx method of the DBClientInterface.
func (m *MockDBClient) BeginTx(ctx context.Context) (model.TxInterface, error) {
	if m.MockBeginTx != nil {
		return m.MockBeginTx()
	}
	return &MockTx{}, nil
}

// GetDBType mocks the GetDBType method of the DBClientInterface.
func (m *MockDBClient) GetDBType() string {
	if m.DBType == "" {
		return model.DBTypeSQLite
	}
	return m.DBType
}

// Close mocks the Close method of the DBClientInterface.
func (m *MockDBClient) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()

	if m.MockClose != nil {
		return m.MockClose()
	}
	return nil
}

// QueryCalls returns the recorded Query calls.
func (m *MockDBClient) QueryCalls() []QueryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]QueryCall(nil), m.queryCalls...)
}

// ExecuteCalls returns the recorded Execute calls.
func (m *MockDBClient) ExecuteCalls() []QueryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]QueryCall(nil), m.executeCalls...)
}

// ExecuteNamedCalls returns the recorded ExecuteNamed calls.
func (m *MockDBClient) ExecuteNamedCalls() []NamedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NamedCall(nil), m.executeNamedCalls...)
}

// CloseCalls returns the number of Close calls.
func (m *MockDBClient) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}
