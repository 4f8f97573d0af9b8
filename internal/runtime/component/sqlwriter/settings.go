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

package sqlwriter

import (
	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Setting keys.
const (
	SettingSQL     = "sql"
	SettingRunWhen = "run.when"
)

// Execution timings.
const (
	RunPerMessage = "PER MESSAGE"
	RunPerEntity  = "PER ENTITY"
	RunOnSuccess  = "ON SUCCESS"
)

// Settings is the validated configuration of the writer.
type Settings struct {
	Statements []string
	RunWhen    string
}

// NewSettings materializes and validates the writer settings.
func NewSettings(s setting.Settings) (*Settings, error) {
	script, err := s.Require(SettingSQL)
	if err != nil {
		return nil, err
	}
	statements := component.SplitSQLStatements(script)
	if len(statements) == 0 {
		return nil, flowerror.Newf(constants.ErrorMissingSetting, nil,
			"The '%s' setting has no statements", SettingSQL)
	}
	runWhen, err := s.GetChoice(SettingRunWhen, RunPerMessage, RunPerMessage, RunPerEntity, RunOnSuccess)
	if err != nil {
		return nil, err
	}
	return &Settings{Statements: statements, RunWhen: runWhen}, nil
}
