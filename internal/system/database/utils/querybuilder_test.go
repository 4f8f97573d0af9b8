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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/tma-comms/metl/internal/system/database/model"
)

const testBaseQuery = "SELECT * FROM METL_FLOW WHERE 1=1"

type QueryBuilderTestSuite struct {
	suite.Suite
}

func TestQueryBuilderSuite(t *testing.T) {
	suite.Run(t, new(QueryBuilderTestSuite))
}

func (suite *QueryBuilderTestSuite) TestBuildFilterQuery() {
	filters := map[string]interface{}{
		"FOLDER_ID": "f1",
		"DELETED":   false,
	}

	query, args, err := BuildFilterQuery("find_flow", testBaseQuery, filters)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "find_flow", query.ID)
	assert.Equal(suite.T(), []interface{}{false, "f1"}, args)
	assert.Equal(suite.T(), testBaseQuery+" AND DELETED = $1 AND FOLDER_ID = $2",
		query.GetQuery(model.DBTypePostgres))
	assert.Equal(suite.T(), testBaseQuery+" AND DELETED = ? AND FOLDER_ID = ?",
		query.GetQuery(model.DBTypeSQLite))
	assert.Equal(suite.T(), query.GetQuery(model.DBTypePostgres), query.GetQuery("unknown"))
}

func (suite *QueryBuilderTestSuite) TestBuildFilterQueryNoFilters() {
	query, args, err := BuildFilterQuery("find_all", testBaseQuery, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), args)
	assert.Equal(suite.T(), testBaseQuery, query.GetQuery(model.DBTypeSQLite))
}

func (suite *QueryBuilderTestSuite) TestBuildFilterQueryInvalidKey() {
	_, _, err := BuildFilterQuery("bad", testBaseQuery, map[string]interface{}{"ID; DROP TABLE X": 1})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid filter key")
}
