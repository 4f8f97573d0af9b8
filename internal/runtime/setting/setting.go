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

// Package setting provides typed access to the key/value settings of components and resources.
// The accessors are only used while materializing a typed settings struct.
package setting

import (
	"strconv"
	"strings"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Settings is an immutable bag of configuration values.
type Settings map[string]string

// GetString returns the trimmed value of the key, or the default when it is blank.
func (s Settings) GetString(key, defaultValue string) string {
	if v, ok := s[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

// GetRaw returns the value of the key without trimming, or the default when it is missing.
func (s Settings) GetRaw(key, defaultValue string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return defaultValue
}

// Require returns the value of the key, failing when it is blank.
func (s Settings) Require(key string) (string, error) {
	v := strings.TrimSpace(s[key])
	if v == "" {
		return "", flowerror.Newf(constants.ErrorMissingSetting, nil, "The '%s' setting is required", key)
	}
	return v, nil
}

// GetInt returns the integer value of the key, or the default when it is blank.
func (s Settings) GetInt(key string, defaultValue int) (int, error) {
	v := s.GetString(key, "")
	if v == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, flowerror.Newf(constants.ErrorInvalidSetting, err, "The '%s' setting must be a number", key)
	}
	return i, nil
}

// GetBool returns the boolean value of the key, or the default when it is blank.
func (s Settings) GetBool(key string, defaultValue bool) (bool, error) {
	v := s.GetString(key, "")
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, flowerror.Newf(constants.ErrorInvalidSetting, err, "The '%s' setting must be true or false", key)
	}
	return b, nil
}

// GetChoice returns the value of the key, which must be one of the choices ignoring case.
// The matching choice is returned in its declared form.
func (s Settings) GetChoice(key, defaultValue string, choices ...string) (string, error) {
	v := s.GetString(key, defaultValue)
	for _, c := range choices {
		if strings.EqualFold(c, v) {
			return c, nil
		}
	}
	return "", flowerror.Newf(constants.ErrorInvalidSetting, nil,
		"The '%s' setting must be one of %s", key, strings.Join(choices, ", "))
}
