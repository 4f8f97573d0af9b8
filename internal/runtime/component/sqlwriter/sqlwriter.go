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

// Package sqlwriter provides a pass-through component that executes templated SQL statements
// against a datasource resource.
package sqlwriter

import (
	"context"

	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
	"github.com/tma-comms/metl/internal/system/utils"
)

// TypeName is the registered component type.
const TypeName = "Sql Writer"

// SQLWriter executes its statements per message, per entity or once the flow succeeded, and
// forwards every inbound message unchanged.
type SQLWriter struct {
	context    *component.Context
	settings   *Settings
	datasource resource.DatasourceRuntimeInterface
	logger     *log.Logger
}

// NewSQLWriter creates a writer.
func NewSQLWriter() component.ComponentInterface {
	return &SQLWriter{}
}

// Start validates the settings and the bound datasource.
func (w *SQLWriter) Start(ctx context.Context, compCtx *component.Context) error {
	w.context = compCtx
	w.logger = log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SQLWriter"),
		log.String(log.LoggerKeyFlowID, compCtx.FlowID), log.String(log.LoggerKeyStepID, compCtx.StepID))

	settings, err := NewSettings(compCtx.Definition.Settings)
	if err != nil {
		return err
	}
	if compCtx.Resource == nil {
		return flowerror.Newf(constants.ErrorMissingResource, nil, "This component requires a data source")
	}
	datasource, ok := compCtx.Resource.(resource.DatasourceRuntimeInterface)
	if !ok {
		return flowerror.Newf(constants.ErrorWrongResourceType, nil,
			"Resource %s of type %s is not a data source", compCtx.Resource.GetID(), compCtx.Resource.GetType())
	}
	if settings.RunWhen == RunPerEntity && compCtx.InputModel == nil {
		return flowerror.New(constants.ErrorMissingInputModel, nil)
	}
	w.settings = settings
	w.datasource = datasource
	return nil
}

// Handle executes the statements for PER MESSAGE and PER ENTITY timings and forwards a copy of
// the message.
func (w *SQLWriter) Handle(ctx context.Context, msg *message.Message, router component.RouterInterface,
	unitOfWorkBoundary bool) error {
	switch w.settings.RunWhen {
	case RunPerMessage:
		if err := w.executeAll(ctx, nil); err != nil {
			return err
		}
	case RunPerEntity:
		for _, data := range msg.Payload {
			if err := w.executeAll(ctx, w.context.InputModel.ToRow(data)); err != nil {
				return err
			}
		}
	}

	out := msg.Copy(w.context.StepID)
	out.Header.UnitOfWorkBoundary = unitOfWorkBoundary
	return router.Send(ctx, out)
}

// FlowCompleted executes the statements for the ON SUCCESS timing.
func (w *SQLWriter) FlowCompleted(ctx context.Context) error {
	if w.settings.RunWhen != RunOnSuccess {
		return nil
	}
	return w.executeAll(ctx, nil)
}

// Stop has nothing to release; the datasource is closed by the runtime.
func (w *SQLWriter) Stop(ctx context.Context) error {
	return nil
}

// SupportsStartupMessages returns true so the writer can run as the first step of a flow.
func (w *SQLWriter) SupportsStartupMessages() bool {
	return true
}

// executeAll runs every statement once. Tokens are replaced with the current flow parameters
// and named parameters are bound from the flow parameters overlaid with the record.
func (w *SQLWriter) executeAll(ctx context.Context, record map[string]interface{}) error {
	dbClient, err := w.datasource.GetClient(ctx)
	if err != nil {
		return err
	}

	flowParams := map[string]string{}
	if w.context.FlowParameters != nil {
		flowParams = w.context.FlowParameters.Snapshot()
	}
	for _, statement := range w.settings.Statements {
		sql := utils.ReplaceTokens(statement, flowParams)
		params := make(map[string]interface{}, len(flowParams)+len(record))
		for k, v := range flowParams {
			params[k] = v
		}
		for k, v := range record {
			params[k] = v
		}

		if w.settings.RunWhen == RunOnSuccess {
			w.logger.Info("Executing statement after successful completion", log.String("sql", sql))
		} else if w.logger.IsDebugEnabled() {
			w.logger.Debug("Executing statement", log.String("sql", sql))
		}
		count, err := dbClient.ExecuteNamed(ctx, sql, params)
		if err != nil {
			return flowerror.Newf(constants.ErrorStatementFailed, err, "Failed to execute: %s", sql)
		}
		w.context.Statistics.IncrementEntitiesProcessed(count)
	}
	return nil
}
