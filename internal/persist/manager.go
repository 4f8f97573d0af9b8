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

package persist

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/tma-comms/metl/internal/system/database/client"
	dbmodel "github.com/tma-comms/metl/internal/system/database/model"
	"github.com/tma-comms/metl/internal/system/database/platform"
	dbutils "github.com/tma-comms/metl/internal/system/database/utils"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/utils"
)

// TablePrefix is prepended to every configuration table name.
const TablePrefix = "METL_"

// ErrRecordNotFound is returned when a record to refresh does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Executor runs statements against the pool or inside a transaction.
type Executor interface {
	Query(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	Execute(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (int64, error)
	GetDBType() string
}

// txExecutor runs statements inside a transaction.
type txExecutor struct {
	tx     dbmodel.TxInterface
	dbType string
}

// NewTxExecutor returns an executor running statements inside the transaction.
func NewTxExecutor(tx dbmodel.TxInterface, dbType string) Executor {
	return &txExecutor{tx: tx, dbType: dbType}
}

func (e *txExecutor) Query(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (
	[]map[string]interface{}, error) {
	rows, err := e.tx.Query(ctx, query.GetQuery(e.dbType), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return client.ScanRows(rows)
}

func (e *txExecutor) Execute(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (int64, error) {
	res, err := e.tx.Exec(ctx, query.GetQuery(e.dbType), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return res.RowsAffected()
}

func (e *txExecutor) GetDBType() string {
	return e.dbType
}

// PersistenceManagerInterface stores records in tables named after their type.
type PersistenceManagerInterface interface {
	Find(ctx context.Context, exec Executor, newRecord func() Record, filter map[string]interface{}) (
		[]Record, error)
	Save(ctx context.Context, exec Executor, record Record) error
	Delete(ctx context.Context, exec Executor, record Record) error
	Refresh(ctx context.Context, exec Executor, record Record) error
	CreateTables(ctx context.Context, exec Executor, records ...Record) error
}

// PersistenceManager is the implementation of PersistenceManagerInterface.
type PersistenceManager struct {
	logger *log.Logger
}

// NewPersistenceManager creates a persistence manager.
func NewPersistenceManager() PersistenceManagerInterface {
	return &PersistenceManager{
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PersistenceManager")),
	}
}

// TableName returns the table of a record type, e.g. METL_FLOW_VERSION for FlowVersion.
func TableName(record Record) string {
	return TablePrefix + utils.UpperSnakeCase(reflect.Indirect(reflect.ValueOf(record)).Type().Name())
}

// Find returns the records whose columns equal the filter values.
func (m *PersistenceManager) Find(ctx context.Context, exec Executor, newRecord func() Record,
	filter map[string]interface{}) ([]Record, error) {
	table := TableName(newRecord())
	query, args, err := dbutils.BuildFilterQuery("PERSIST-FIND-"+table, "SELECT * FROM "+table+" WHERE 1=1", filter)
	if err != nil {
		return nil, err
	}
	query.Query += " ORDER BY ID"
	query.PostgresQuery += " ORDER BY ID"
	query.SQLiteQuery += " ORDER BY ID"

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find in %s: %w", table, err)
	}
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		record := newRecord()
		if err := record.Load(r); err != nil {
			return nil, fmt.Errorf("failed to read row of %s: %w", table, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Save updates the record, inserting it when no row has its id. Records without an id get one.
func (m *PersistenceManager) Save(ctx context.Context, exec Executor, record Record) error {
	if record.GetID() == "" {
		record.SetID(utils.GenerateUUID())
	}
	table := TableName(record)
	values := record.Values()
	columns := make([]string, 0, len(values))
	for c := range values {
		if c != "ID" {
			columns = append(columns, c)
		}
	}
	sort.Strings(columns)

	dbType := exec.GetDBType()
	assignments := make([]string, len(columns))
	args := make([]interface{}, 0, len(values))
	for i, c := range columns {
		assignments[i] = c + " = " + placeholder(dbType, i+1)
		args = append(args, values[c])
	}
	args = append(args, record.GetID())
	update := dbmodel.DBQuery{
		ID: "PERSIST-UPDATE-" + table,
		Query: fmt.Sprintf("UPDATE %s SET %s WHERE ID = %s", table, strings.Join(assignments, ", "),
			placeholder(dbType, len(columns)+1)),
	}
	count, err := exec.Execute(ctx, update, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if count > 0 {
		return nil
	}

	columns = append([]string{"ID"}, columns...)
	marks := make([]string, len(columns))
	args = args[:0]
	for i, c := range columns {
		marks[i] = placeholder(dbType, i+1)
		args = append(args, values[c])
	}
	insert := dbmodel.DBQuery{
		ID: "PERSIST-INSERT-" + table,
		Query: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "),
			strings.Join(marks, ", ")),
	}
	if _, err := exec.Execute(ctx, insert, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	m.logger.Debug("Inserted record", log.String("table", table), log.String("id", record.GetID()))
	return nil
}

// Delete removes the row with the record's id.
func (m *PersistenceManager) Delete(ctx context.Context, exec Executor, record Record) error {
	table := TableName(record)
	query := dbmodel.DBQuery{
		ID:    "PERSIST-DELETE-" + table,
		Query: fmt.Sprintf("DELETE FROM %s WHERE ID = %s", table, placeholder(exec.GetDBType(), 1)),
	}
	if _, err := exec.Execute(ctx, query, record.GetID()); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// Refresh reloads the record from its row.
func (m *PersistenceManager) Refresh(ctx context.Context, exec Executor, record Record) error {
	table := TableName(record)
	query := dbmodel.DBQuery{
		ID:    "PERSIST-REFRESH-" + table,
		Query: fmt.Sprintf("SELECT * FROM %s WHERE ID = %s", table, placeholder(exec.GetDBType(), 1)),
	}
	rows, err := exec.Query(ctx, query, record.GetID())
	if err != nil {
		return fmt.Errorf("failed to refresh from %s: %w", table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %s: %w", table, record.GetID(), ErrRecordNotFound)
	}
	return record.Load(rows[0])
}

// CreateTables creates the table of every record type.
func (m *PersistenceManager) CreateTables(ctx context.Context, exec Executor, records ...Record) error {
	p, err := platform.GetPlatform(exec.GetDBType())
	if err != nil {
		return err
	}
	for _, record := range records {
		table := platform.Table{Name: TableName(record), Columns: record.Columns()}
		// Identifiers stay unquoted so that they fold the same way as in the generated queries.
		ddl := strings.ReplaceAll(p.CreateTableSQL(table), `"`, "")
		ddl = strings.Replace(ddl, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
		if _, err := exec.Execute(ctx, dbmodel.DBQuery{ID: "PERSIST-CREATE-" + table.Name, Query: ddl}); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}
	return nil
}

// AllRecords returns a prototype of every configuration record type.
func AllRecords() []Record {
	return []Record{&Folder{}, &Flow{}, &FlowVersion{}, &FlowNode{}, &FlowNodeLink{}, &Component{},
		&ComponentVersion{}, &Setting{}, &Resource{}, &LogicalModel{}}
}

func placeholder(dbType string, position int) string {
	if dbType == dbmodel.DBTypePostgres {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}

// find is Find returning typed records.
func find[T any, PT interface {
	*T
	Record
}](ctx context.Context, m PersistenceManagerInterface, exec Executor, filter map[string]interface{}) ([]PT, error) {
	records, err := m.Find(ctx, exec, func() Record { return PT(new(T)) }, filter)
	if err != nil {
		return nil, err
	}
	typed := make([]PT, len(records))
	for i, r := range records {
		typed[i] = r.(PT)
	}
	return typed, nil
}

func now() time.Time {
	return time.Now().UTC()
}
