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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tma-comms/metl/internal/system/database/model"
)

var orderTable = Table{
	Name: "ORDER",
	Columns: []Column{
		{Name: "ID", Type: Decimal, PrimaryKey: true},
		{Name: "TOTAL", Type: Decimal, Nullable: true},
		{Name: "NOTE", Type: LongText, Nullable: true},
	},
}

func TestGetPlatform(t *testing.T) {
	p, err := GetPlatform(model.DBTypeSQLite)
	require.NoError(t, err)
	assert.Equal(t, model.DBTypeSQLite, p.Name())

	p, err = GetPlatform(model.DBTypePostgres)
	require.NoError(t, err)
	assert.Equal(t, model.DBTypePostgres, p.Name())

	_, err = GetPlatform("db2")
	assert.Error(t, err)
}

func TestSQLiteStatements(t *testing.T) {
	p, _ := GetPlatform(model.DBTypeSQLite)

	assert.Equal(t, `CREATE TABLE "ORDER" ("ID" NUMERIC NOT NULL, "TOTAL" NUMERIC, "NOTE" TEXT, PRIMARY KEY ("ID"))`,
		p.CreateTableSQL(orderTable))
	assert.Equal(t, `INSERT OR REPLACE INTO "ORDER" ("ID", "TOTAL", "NOTE") VALUES (?, ?, ?)`,
		p.UpsertSQL(orderTable))
}

func TestPostgresStatements(t *testing.T) {
	p, _ := GetPlatform(model.DBTypePostgres)

	assert.Equal(t, `INSERT INTO "ORDER" ("ID", "TOTAL", "NOTE") VALUES ($1, $2, $3) `+
		`ON CONFLICT ("ID") DO UPDATE SET "TOTAL" = EXCLUDED."TOTAL", "NOTE" = EXCLUDED."NOTE"`,
		p.UpsertSQL(orderTable))

	noPK := Table{Name: "LOG", Columns: []Column{{Name: "MSG", Type: LongText, Nullable: true}}}
	assert.Equal(t, `INSERT INTO "LOG" ("MSG") VALUES ($1)`, p.UpsertSQL(noPK))
	assert.Equal(t, `CREATE TABLE "LOG" ("MSG" TEXT)`, p.CreateTableSQL(noPK))

	binary := Table{Name: "DOC", Columns: []Column{{Name: "BODY", Type: LongBinary, Nullable: true}}}
	assert.Equal(t, `CREATE TABLE "DOC" ("BODY" BYTEA)`, p.CreateTableSQL(binary))
}

func TestQuoteEscapes(t *testing.T) {
	p, _ := GetPlatform(model.DBTypeSQLite)
	assert.Equal(t, `"A""B"`, p.Quote(`A"B`))
}
