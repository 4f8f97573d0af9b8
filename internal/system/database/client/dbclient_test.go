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

package client

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tma-comms/metl/internal/system/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type DBClientTestSuite struct {
	suite.Suite
	mockDB   *sql.DB
	mock     sqlmock.Sqlmock
	dbClient DBClientInterface
	ctx      context.Context
}

func TestDBClientSuite(t *testing.T) {
	suite.Run(t, new(DBClientTestSuite))
}

func (suite *DBClientTestSuite) SetupTest() {
	var err error
	suite.mockDB, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}

	suite.dbClient = NewDBClient(model.NewDB(suite.mockDB), model.DBTypeSQLite)
	suite.ctx = context.Background()
}

func (suite *DBClientTestSuite) TearDownTest() {
	if err := suite.mock.ExpectationsWereMet(); err != nil {
		suite.T().Fatalf("There were unfulfilled expectations: %v", err)
	}
}

func (suite *DBClientTestSuite) TestQuerySuccess() {
	testQuery := model.DBQuery{
		ID:          "test_query_success",
		Query:       "SELECT ID, NAME FROM METL_FLOW WHERE ID = $1",
		SQLiteQuery: "SELECT ID, NAME FROM METL_FLOW WHERE ID = ?",
	}

	rows := sqlmock.NewRows([]string{"ID", "NAME"}).
		AddRow(1, "load orders").
		AddRow(2, "load customers")
	suite.mock.ExpectQuery("SELECT ID, NAME FROM METL_FLOW WHERE ID = ?").
		WithArgs(driver.Value(1)).
		WillReturnRows(rows)

	results, err := suite.dbClient.Query(suite.ctx, testQuery, 1)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
	assert.Equal(suite.T(), int64(1), results[0]["id"])
	assert.Equal(suite.T(), "load orders", results[0]["name"])
	assert.Equal(suite.T(), "load customers", results[1]["name"])
}

func (suite *DBClientTestSuite) TestQueryEmptyResults() {
	testQuery := model.DBQuery{ID: "test_query_empty", Query: "SELECT ID FROM METL_FLOW"}
	suite.mock.ExpectQuery("SELECT ID FROM METL_FLOW").WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	results, err := suite.dbClient.Query(suite.ctx, testQuery)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), results)
}

func (suite *DBClientTestSuite) TestQueryDatabaseError() {
	testQuery := model.DBQuery{ID: "test_query_error", Query: "SELECT ID FROM MISSING"}
	expectedErr := errors.New("table not found")
	suite.mock.ExpectQuery("SELECT ID FROM MISSING").WillReturnError(expectedErr)

	results, err := suite.dbClient.Query(suite.ctx, testQuery)

	assert.Equal(suite.T(), expectedErr, err)
	assert.Nil(suite.T(), results)
}

func (suite *DBClientTestSuite) TestQueryScanError() {
	testQuery := model.DBQuery{ID: "test_query_row_error", Query: "SELECT ID FROM METL_FLOW"}
	rows := sqlmock.NewRows([]string{"ID"}).AddRow(1).RowError(0, errors.New("row error"))
	suite.mock.ExpectQuery("SELECT ID FROM METL_FLOW").WillReturnRows(rows)

	results, err := suite.dbClient.Query(suite.ctx, testQuery)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), results)
}

func (suite *DBClientTestSuite) TestExecuteSuccess() {
	testQuery := model.DBQuery{ID: "test_execute", Query: "DELETE FROM METL_SETTING WHERE OWNER_ID = ?"}
	suite.mock.ExpectExec("DELETE FROM METL_SETTING WHERE OWNER_ID = ?").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	rowsAffected, err := suite.dbClient.Execute(suite.ctx, testQuery, "c1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), rowsAffected)
}

func (suite *DBClientTestSuite) TestExecuteError() {
	testQuery := model.DBQuery{ID: "test_execute_error", Query: "DELETE FROM X"}
	suite.mock.ExpectExec("DELETE FROM X").WillReturnError(errors.New("locked"))

	rowsAffected, err := suite.dbClient.Execute(suite.ctx, testQuery)

	assert.EqualError(suite.T(), err, "locked")
	assert.Equal(suite.T(), int64(0), rowsAffected)
}

func (suite *DBClientTestSuite) TestExecuteNamed() {
	suite.mock.ExpectExec("DELETE FROM LOG WHERE run_id = ?").
		WithArgs("42").
		WillReturnResult(sqlmock.NewResult(0, 3))

	rowsAffected, err := suite.dbClient.ExecuteNamed(suite.ctx, "DELETE FROM LOG WHERE run_id = :runId",
		map[string]interface{}{"runId": "42"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), rowsAffected)
}

func (suite *DBClientTestSuite) TestExecuteNamedMissingParameter() {
	_, err := suite.dbClient.ExecuteNamed(suite.ctx, "DELETE FROM LOG WHERE run_id = :runId", nil)

	assert.Error(suite.T(), err)
}

func (suite *DBClientTestSuite) TestBeginTxCommit() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("DELETE FROM X").WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	tx, err := suite.dbClient.BeginTx(suite.ctx)
	assert.NoError(suite.T(), err)
	_, err = tx.Exec(suite.ctx, "DELETE FROM X")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), tx.Commit())
}

func (suite *DBClientTestSuite) TestBeginTxError() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("busy"))

	tx, err := suite.dbClient.BeginTx(suite.ctx)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), tx)
}

func (suite *DBClientTestSuite) TestGetDBTypeAndClose() {
	suite.mock.ExpectClose()

	assert.Equal(suite.T(), model.DBTypeSQLite, suite.dbClient.GetDBType())
	assert.NoError(suite.T(), suite.dbClient.Close())
}
