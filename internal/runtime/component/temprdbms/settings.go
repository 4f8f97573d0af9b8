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
	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Setting keys.
const (
	SettingInMemoryDB     = "in.memory.db"
	SettingRowsPerMessage = "rows.per.message"
	SettingSQL            = "sql"
)

const defaultRowsPerMessage = 10000

// Settings is the validated configuration of the component.
type Settings struct {
	InMemoryDB     bool
	RowsPerMessage int
	Statements     []string
}

// NewSettings materializes and validates the component settings. defaultRows applies when
// rows.per.message is not set; zero selects the built in default.
func NewSettings(s setting.Settings, defaultRows int) (*Settings, error) {
	if defaultRows <= 0 {
		defaultRows = defaultRowsPerMessage
	}
	inMemory, err := s.GetBool(SettingInMemoryDB, true)
	if err != nil {
		return nil, err
	}
	rows, err := s.GetInt(SettingRowsPerMessage, defaultRows)
	if err != nil {
		return nil, err
	}
	if rows <= 0 {
		return nil, flowerror.Newf(constants.ErrorInvalidSetting, nil,
			"The '%s' setting must be greater than zero", SettingRowsPerMessage)
	}
	script, err := s.Require(SettingSQL)
	if err != nil {
		return nil, err
	}
	statements := component.SplitSQLStatements(script)
	if len(statements) == 0 {
		return nil, flowerror.Newf(constants.ErrorMissingSetting, nil,
			"The '%s' setting has no statements", SettingSQL)
	}
	return &Settings{InMemoryDB: inMemory, RowsPerMessage: rows, Statements: statements}, nil
}
