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

package temprdbms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/system/config"
	"github.com/tma-comms/metl/internal/system/database/client"
	dbmodel "github.com/tma-comms/metl/internal/system/database/model"
	"github.com/tma-comms/metl/internal/system/database/platform"
	"github.com/tma-comms/metl/internal/system/database/provider"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/utils"
)

// store is a private sqlite database living for one unit of work.
type store struct {
	name      string
	inMemory  bool
	directory string
	client    client.DBClientInterface
	platform  platform.PlatformInterface
	tables    map[string]platform.Table
	logger    *log.Logger
}

// openStore provisions a uniquely named store. File backed stores are created in the directory.
func openStore(ctx context.Context, dbProvider provider.DBProviderInterface, inMemory bool,
	directory string, logger *log.Logger) (*store, error) {
	s := &store{
		name:     utils.GenerateUUID(),
		inMemory: inMemory,
		tables:   map[string]platform.Table{},
		logger:   logger,
	}

	var path string
	if inMemory {
		path = fmt.Sprintf("file:%s?mode=memory&cache=shared", s.name)
	} else {
		dir, err := filepath.Abs(directory)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve the work directory %s: %w", directory, err)
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create the work directory %s: %w", dir, err)
		}
		s.directory = dir
		path = filepath.Join(dir, s.name+".db")
	}

	dbClient, err := dbProvider.Open(ctx, config.DataSource{
		Type:         dbmodel.DBTypeSQLite,
		Name:         s.name,
		Path:         path,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, err
	}
	p, err := platform.GetPlatform(dbClient.GetDBType())
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	s.client = dbClient
	s.platform = p
	logger.Info("Created store", log.String("name", s.name), log.String("path", path))
	return s, nil
}

// createTables creates one table per entity. Names are upper cased so that lookups ignore case.
func (s *store) createTables(ctx context.Context, m *model.Model) error {
	for _, entity := range m.Entities {
		table := platform.Table{Name: strings.ToUpper(entity.Name)}
		for _, attribute := range entity.Attributes {
			table.Columns = append(table.Columns, platform.Column{
				Name:       strings.ToUpper(attribute.Name),
				Type:       columnType(attribute.Type),
				PrimaryKey: attribute.PK,
				Nullable:   !attribute.PK,
			})
		}
		s.logger.Debug("Creating table", log.String("table", table.Name), log.String("store", s.name))
		if _, err := s.client.Execute(ctx, dbmodel.DBQuery{
			ID:    "TMP-CREATE-" + table.Name,
			Query: s.platform.CreateTableSQL(table),
		}); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		s.tables[entity.ID] = table
	}
	return nil
}

// columnType maps a logical data type to a physical column type.
func columnType(dataType model.DataType) platform.ColumnType {
	switch {
	case dataType.IsNumeric():
		return platform.Decimal
	case dataType.IsBoolean():
		return platform.Boolean
	case dataType.IsTimestamp():
		return platform.Timestamp
	case dataType.IsBinary():
		return platform.LongBinary
	default:
		return platform.LongText
	}
}

// load upserts the records, committing at most batchSize rows per transaction.
func (s *store) load(ctx context.Context, m *model.Model, records []model.EntityData, batchSize int) (int, error) {
	loaded := 0
	for _, batch := range utils.Chunk(records, batchSize) {
		if err := s.loadBatch(ctx, m, batch); err != nil {
			return loaded, err
		}
		loaded += len(batch)
	}
	return loaded, nil
}

func (s *store) loadBatch(ctx context.Context, m *model.Model, batch []model.EntityData) error {
	tx, err := s.client.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, data := range batch {
		entity := m.EntityFor(data)
		if entity == nil {
			_ = tx.Rollback()
			return fmt.Errorf("record does not belong to any entity of model %s", m.Name)
		}
		table := s.tables[entity.ID]
		args := make([]interface{}, len(table.Columns))
		for i, attribute := range entity.Attributes {
			args[i] = data[attribute.ID]
		}
		if _, err := tx.Exec(ctx, s.platform.UpsertSQL(table), args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to write to table %s: %w", table.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// query runs the statement and passes each row, keyed by column name, to the callback.
func (s *store) query(ctx context.Context, statement string,
	fn func(columns []string, row map[string]interface{}) error) error {
	rows, err := s.client.QueryRows(ctx, statement)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return err
		}
		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		if err := fn(columns, row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// release closes the pool and removes every file created for the store. It attempts every step
// and returns the failures as one cleanup error.
func (s *store) release() error {
	var failures []error
	if err := s.client.Close(); err != nil {
		failures = append(failures, fmt.Errorf("failed to close store %s: %w", s.name, err))
	}
	if !s.inMemory {
		entries, err := os.ReadDir(s.directory)
		if err != nil {
			failures = append(failures, fmt.Errorf("failed to list %s: %w", s.directory, err))
		}
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), s.name) {
				continue
			}
			s.logger.Info("Deleting store file", log.String("file", entry.Name()))
			if err := os.RemoveAll(filepath.Join(s.directory, entry.Name())); err != nil {
				failures = append(failures, err)
			}
		}
	}
	if len(failures) > 0 {
		return flowerror.New(constants.ErrorCleanupFailed, errors.Join(failures...))
	}
	return nil
}
