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

package flowerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errorMissingModel = FlowError{
	Code:        "MET-10001",
	Type:        ConfigurationErrorType,
	Message:     "Invalid configuration",
	Description: "An input model is required",
}

var errorUnexpectedStatus = FlowError{
	Code:    "MET-20001",
	Type:    IOErrorType,
	Message: "Unexpected response status",
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "MET-10001: Invalid configuration: An input model is required", New(errorMissingModel, nil).Error())
	assert.Equal(t, "MET-20001: Unexpected response status: boom",
		New(errorUnexpectedStatus, errors.New("boom")).Error())
}

func TestUnwrapAndIs(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("handle failed: %w", New(errorUnexpectedStatus, cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, &errorUnexpectedStatus))
	assert.False(t, errors.Is(err, &errorMissingModel))
}

func TestNewDoesNotMutateBase(t *testing.T) {
	e := Newf(errorUnexpectedStatus, nil, "status %d", 404)

	assert.Equal(t, "status 404", e.Description)
	assert.Empty(t, errorUnexpectedStatus.Description)
}

func TestIsType(t *testing.T) {
	nested := New(errorMissingModel, New(errorUnexpectedStatus, nil))
	wrapped := fmt.Errorf("start: %w", nested)

	assert.True(t, IsType(wrapped, ConfigurationErrorType))
	assert.True(t, IsType(wrapped, IOErrorType))
	assert.False(t, IsType(wrapped, UnsupportedErrorType))
	assert.False(t, IsType(errors.New("plain"), IOErrorType))
	assert.False(t, IsType(nil, IOErrorType))
}
