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

// Package flowerror defines the error structures raised while running flows.
package flowerror

import (
	"errors"
	"fmt"
)

// FlowErrorType defines the type of flow error.
type FlowErrorType string

const (
	// ConfigurationErrorType denotes a missing or malformed prerequisite detected at start.
	ConfigurationErrorType FlowErrorType = "configuration_error"
	// IOErrorType denotes a failure talking to a resource or executing a query.
	IOErrorType FlowErrorType = "io_error"
	// CleanupErrorType denotes a best-effort cleanup failure. Never escalated.
	CleanupErrorType FlowErrorType = "cleanup_error"
	// UnsupportedErrorType denotes an operation the backend does not implement.
	UnsupportedErrorType FlowErrorType = "unsupported_error"
)

// FlowError defines a generic error structure used across the flow runtime.
type FlowError struct {
	Code        string        `json:"code"`
	Type        FlowErrorType `json:"type"`
	Message     string        `json:"message"`
	Description string        `json:"description,omitempty"`
	Cause       error         `json:"-"`
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target is a flow error with the same code.
func (e *FlowError) Is(target error) bool {
	var t *FlowError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a flow error from a predefined error, attaching the cause.
func New(base FlowError, cause error) *FlowError {
	e := base
	e.Cause = cause
	return &e
}

// Newf creates a flow error from a predefined error with a formatted description.
func Newf(base FlowError, cause error, format string, args ...interface{}) *FlowError {
	e := New(base, cause)
	e.Description = fmt.Sprintf(format, args...)
	return e
}

// IsType reports whether any error in the chain is a flow error of the given type.
func IsType(err error, errType FlowErrorType) bool {
	var fe *FlowError
	for err != nil {
		if errors.As(err, &fe) {
			if fe.Type == errType {
				return true
			}
			err = fe.Cause
			continue
		}
		return false
	}
	return false
}
