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

// Package platform provides the per database DDL and upsert statements used by staging components.
package platform

import (
	"fmt"
	"strings"

	"github.com/tma-comms/metl/internal/system/database/model"
)

// ColumnType is the physical column type chosen for a logical attribute.
type ColumnType int

const (
	// LongText is used for every attribute that has no specific mapping.
	LongText ColumnType = iota
	// Decimal holds numeric attributes.
	Decimal
	// Boolean holds boolean attributes.
	Boolean
	// Timestamp holds date and time attributes.
	Timestamp
	// LongBinary holds binary attributes.
	LongBinary
)

// Column is a physical table column.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Nullable   bool
}

// Table is a physical table definition.
type Table struct {
	Name    string
	Columns []Column
}

// PrimaryKey returns the names of the primary key columns in declaration order.
func (t Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// PlatformInterface defines the statements a database platform produces.
type PlatformInterface interface {
	// Name returns the database type of the platform.
	Name() string
	// Quote quotes an identifier.
	Quote(identifier string) string
	// CreateTableSQL returns the DDL creating the table.
	CreateTableSQL(table Table) string
	// UpsertSQL returns a replace-on-conflict insert for one row with positional placeholders
	// in column order.
	UpsertSQL(table Table) string
}

// GetPlatform returns the platform for the given database type.
func GetPlatform(dbType string) (PlatformInterface, error) {
	switch dbType {
	case model.DBTypeSQLite:
		return &sqlitePlatform{}, nil
	case model.DBTypePostgres:
		return &postgresPlatform{}, nil
	default:
		return nil, fmt.Errorf("no platform available for database type: %s", dbType)
	}
}

type typeNames map[ColumnType]string

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func createTable(p PlatformInterface, types typeNames, table Table) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(p.Quote(table.Name))
	sb.WriteString(" (")
	for i, c := range table.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Quote(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(types[c.Type])
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
	}
	if pk := table.PrimaryKey(); len(pk) > 0 {
		sb.WriteString(", PRIMARY KEY (")
		for i, name := range pk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Quote(name))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

func columnList(p PlatformInterface, table Table) string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = p.Quote(c.Name)
	}
	return strings.Join(names, ", ")
}
