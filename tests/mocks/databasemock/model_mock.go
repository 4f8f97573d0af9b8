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
	"database/sql"
)

// MockTx is a mock implementation of the TxInterface.
type MockTx struct {
	// MockExec defines the behavior for the Exec method.
	MockExec func(query string, args ...any) (sql.Result, error)

	// ExecCalls tracks the queries passed to Exec.
	ExecCalls []string

	// Committed is set once Commit is called.
	Committed bool

	// RolledBack is set once Rollback is called.
	RolledBack bool
}

// Commit mocks the Commit method of the TxInterface.
func (m *MockTx) Commit() error {
	m.Committed = true
	return nil
}

// Rollback mocks the Rollback method of the TxInterface.
func (m *MockTx) Rollback() error {
	m.RolledBack = true
	return nil
}

// Exec mocks the Exec method of the TxInterface.
func (m *MockTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	m.ExecCalls = append(m.ExecCalls, query)
	if m.MockExec != nil {
		return m.MockExec(query, args...)
	}
	return driverResult(0), nil
}

// Query mocks the Query method of the TxInterface.
func (m *MockTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, sql.ErrNoRows
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (r driverResult) RowsAffected() (int64, error) {
	return int64(r), nil
}
