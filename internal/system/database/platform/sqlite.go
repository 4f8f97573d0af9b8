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

package platform

import (
	"strings"

	"github.com/tma-comms/metl/internal/system/database/model"
)

var sqliteTypes = typeNames{
	LongText:   "TEXT",
	Decimal:    "NUMERIC",
	Boolean:    "BOOLEAN",
	Timestamp:  "TIMESTAMP",
	LongBinary: "BLOB",
}

type sqlitePlatform struct{}

func (p *sqlitePlatform) Name() string {
	return model.DBTypeSQLite
}

func (p *sqlitePlatform) Quote(identifier string) string {
	return quote(identifier)
}

func (p *sqlitePlatform) CreateTableSQL(table Table) string {
	return createTable(p, sqliteTypes, table)
}

func (p *sqlitePlatform) UpsertSQL(table Table) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	return "INSERT OR REPLACE INTO " + p.Quote(table.Name) + " (" + columnList(p, table) +
		") VALUES (" + placeholders + ")"
}
