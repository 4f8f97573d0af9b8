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
	"fmt"
	"sort"

	"github.com/tma-comms/metl/internal/system/database/model"
)

// BuildFilterQuery appends an equality condition per filter column to the base query.
// The base query must end with a WHERE clause, e.g. "SELECT * FROM T WHERE 1=1".
func BuildFilterQuery(queryID string, baseQuery string, filters map[string]interface{}) (
	model.DBQuery, []interface{}, error) {
	args := make([]interface{}, 0, len(filters))

	keys := make([]string, 0, len(filters))
	for key := range filters {
		if err := validateKey(key); err != nil {
			return model.DBQuery{}, nil, fmt.Errorf("invalid filter key: %w", err)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	postgresQuery := baseQuery
	sqliteQuery := baseQuery
	for i, key := range keys {
		postgresQuery += fmt.Sprintf(" AND %s = $%d", key, i+1)
		sqliteQuery += fmt.Sprintf(" AND %s = ?", key)
		args = append(args, filters[key])
	}

	resultQuery := model.DBQuery{
		ID:            queryID,
		Query:         postgresQuery,
		PostgresQuery: postgresQuery,
		SQLiteQuery:   sqliteQuery,
	}

	return resultQuery, args, nil
}

// validateKey ensures that the provided key contains only safe characters (alphanumeric and underscores).
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	for _, char := range key {
		if !(char >= 'a' && char <= 'z' || char >= 'A' && char <= 'Z' ||
			char >= '0' && char <= '9' || char == '_') {
			return fmt.Errorf("key '%s' contains invalid characters", key)
		}
	}
	return nil
}
