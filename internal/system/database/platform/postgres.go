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
	"strconv"
	"strings"

	"github.com/tma-comms/metl/internal/system/database/model"
)

var postgresTypes = typeNames{
	LongText:   "TEXT",
	Decimal:    "NUMERIC",
	Boolean:    "BOOLEAN",
	Timestamp:  "TIMESTAMP",
	LongBinary: "BYTEA",
}

type postgresPlatform struct{}

func (p *postgresPlatform) Name() string {
	return model.DBTypePostgres
}

func (p *postgresPlatform) Quote(identifier string) string {
	return quote(identifier)
}

func (p *postgresPlatform) CreateTableSQL(table Table) string {
	return createTable(p, postgresTypes, table)
}

func (p *postgresPlatform) UpsertSQL(table Table) string {
	placeholders := make([]string, len(table.Columns))
	for i := range table.Columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	stmt := "INSERT INTO " + p.Quote(table.Name) + " (" + columnList(p, table) +
		") VALUES (" + strings.Join(placeholders, ", ") + ")"

	pk := table.PrimaryKey()
	if len(pk) == 0 {
		return stmt
	}
	conflict := make([]string, len(pk))
	for i, name := range pk {
		conflict[i] = p.Quote(name)
	}
	var updates []string
	for _, c := range table.Columns {
		if !c.PrimaryKey {
			updates = append(updates, p.Quote(c.Name)+" = EXCLUDED."+p.Quote(c.Name))
		}
	}
	if len(updates) == 0 {
		return stmt + " ON CONFLICT (" + strings.Join(conflict, ", ") + ") DO NOTHING"
	}
	return stmt + " ON CONFLICT (" + strings.Join(conflict, ", ") + ") DO UPDATE SET " +
		strings.Join(updates, ", ")
}
