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

// Package temprdbms provides a component that stages inbound records in a private relational
// store and re-emits the results of configured queries at the unit of work boundary.
package temprdbms

import (
	"context"
	"strings"

	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/system/database/provider"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/utils"
)

// TypeName is the registered component type.
const TypeName = "Temp RDBMS"

// TempRDBMS is the stage and requery component.
type TempRDBMS struct {
	dbProvider  provider.DBProviderInterface
	context     *component.Context
	settings    *Settings
	inputModel  *model.Model
	outputModel *model.Model
	store       *store
	logger      *log.Logger
}

// NewTempRDBMS creates a component that opens its stores through the provider.
func NewTempRDBMS(dbProvider provider.DBProviderInterface) component.ComponentInterface {
	return &TempRDBMS{dbProvider: dbProvider}
}

// Start validates the settings and the input model.
func (t *TempRDBMS) Start(ctx context.Context, compCtx *component.Context) error {
	t.context = compCtx
	t.logger = log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TempRDBMS"),
		log.String(log.LoggerKeyFlowID, compCtx.FlowID), log.String(log.LoggerKeyStepID, compCtx.StepID))

	if compCtx.InputModel == nil {
		return flowerror.New(constants.ErrorMissingInputModel, nil)
	}
	settings, err := NewSettings(compCtx.Definition.Settings, compCtx.RowsPerMessage)
	if err != nil {
		return err
	}
	t.settings = settings
	t.inputModel = compCtx.InputModel
	t.outputModel = compCtx.OutputModel
	if t.outputModel == nil {
		t.outputModel = compCtx.InputModel
	}
	return nil
}

// Handle loads the payload into the store and, at the boundary, queries and emits the results.
func (t *TempRDBMS) Handle(ctx context.Context, msg *message.Message, router component.RouterInterface,
	unitOfWorkBoundary bool) error {
	if t.store == nil {
		if err := t.createStore(ctx); err != nil {
			return err
		}
	}

	if len(msg.Payload) > 0 {
		if _, err := t.store.load(ctx, t.inputModel, msg.Payload, t.settings.RowsPerMessage); err != nil {
			return flowerror.New(constants.ErrorStagingFailed, err)
		}
	}

	if unitOfWorkBoundary {
		defer t.releaseStore()
		return t.query(ctx, router)
	}
	return nil
}

// FlowCompleted has nothing to do.
func (t *TempRDBMS) FlowCompleted(ctx context.Context) error {
	return nil
}

// Stop releases a store left open by an aborted unit of work.
func (t *TempRDBMS) Stop(ctx context.Context) error {
	t.releaseStore()
	return nil
}

// SupportsStartupMessages returns false; the component only reacts to upstream data.
func (t *TempRDBMS) SupportsStartupMessages() bool {
	return false
}

func (t *TempRDBMS) createStore(ctx context.Context) error {
	s, err := openStore(ctx, t.dbProvider, t.settings.InMemoryDB, t.context.WorkDirectory, t.logger)
	if err != nil {
		return flowerror.New(constants.ErrorResourceUnavailable, err)
	}
	t.store = s
	if err := s.createTables(ctx, t.inputModel); err != nil {
		t.releaseStore()
		return flowerror.New(constants.ErrorStagingFailed, err)
	}
	return nil
}

func (t *TempRDBMS) releaseStore() {
	if t.store == nil {
		return
	}
	if err := t.store.release(); err != nil {
		t.logger.Warn("Failed to release store", log.Error(err))
	}
	t.store = nil
}

// query runs every statement in order and sends the rows in batches. The last batch carries the
// boundary flag.
func (t *TempRDBMS) query(ctx context.Context, router component.RouterInterface) error {
	batcher := component.NewBatcher(t.context.StepID, t.settings.RowsPerMessage, t.context.FlowParameters, router)
	var params map[string]string
	if t.context.FlowParameters != nil {
		params = t.context.FlowParameters.Snapshot()
	}

	var total int64
	for _, statement := range t.settings.Statements {
		sql := utils.ReplaceTokens(statement, params)
		var entity *model.ModelEntity
		err := t.store.query(ctx, sql, func(columns []string, row map[string]interface{}) error {
			if entity == nil {
				entity = bestEntity(t.outputModel, columns)
				if entity == nil {
					return flowerror.Newf(constants.ErrorInvalidModel, nil,
						"No entity of the output model matches the columns %s", strings.Join(columns, ", "))
				}
			}
			total++
			return batcher.Add(ctx, t.outputModel.FromRow(entity, row))
		})
		if err != nil {
			if flowerror.IsType(err, flowerror.ConfigurationErrorType) {
				return err
			}
			return flowerror.Newf(constants.ErrorQueryFailed, err, "Failed to run: %s", sql)
		}
	}
	if err := batcher.Flush(ctx, true); err != nil {
		return err
	}

	t.context.Statistics.IncrementEntitiesProcessed(total)
	t.logger.Info("Sent records", log.Int64("count", total), log.Int("messages", batcher.Sent()))
	return nil
}

// bestEntity returns the entity whose attribute names match the most result columns.
func bestEntity(m *model.Model, columns []string) *model.ModelEntity {
	var best *model.ModelEntity
	bestMatches := 0
	for _, entity := range m.Entities {
		matches := 0
		for _, column := range columns {
			if entity.AttributeByName(column) != nil {
				matches++
			}
		}
		if matches > bestMatches {
			best = entity
			bestMatches = matches
		}
	}
	return best
}
