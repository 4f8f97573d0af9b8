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

// Package constants defines the predefined errors raised by the flow runtime.
package constants

import "github.com/tma-comms/metl/internal/system/error/flowerror"

// Configuration errors

var ErrorMissingInputModel = flowerror.FlowError{
	Code:        "MET-10001",
	Type:        flowerror.ConfigurationErrorType,
	Message:     "Invalid configuration",
	Description: "The input model is not set and it is required",
}

var ErrorMissingResource = flowerror.FlowError{
	Code:        "MET-10002",
	Type:        flowerror.ConfigurationErrorType,
	Message:     "Invalid configuration",
	Description: "This component requires a resource",
}

var ErrorMissingSetting = flowerror.FlowError{
	Code:    "MET-10003",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Missing setting",
}

var ErrorInvalidSetting = flowerror.FlowError{
	Code:    "MET-10004",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Invalid setting",
}

var ErrorInvalidFlowDefinition = flowerror.FlowError{
	Code:    "MET-10005",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Invalid flow definition",
}

var ErrorUnknownComponentType = flowerror.FlowError{
	Code:    "MET-10006",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Unknown component type",
}

var ErrorUnknownResourceType = flowerror.FlowError{
	Code:    "MET-10007",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Unknown resource type",
}

var ErrorWrongResourceType = flowerror.FlowError{
	Code:    "MET-10008",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Resource type not supported by this component",
}

var ErrorInvalidModel = flowerror.FlowError{
	Code:    "MET-10009",
	Type:    flowerror.ConfigurationErrorType,
	Message: "Invalid model",
}

// I/O errors

var ErrorResourceUnavailable = flowerror.FlowError{
	Code:    "MET-20001",
	Type:    flowerror.IOErrorType,
	Message: "Resource unavailable",
}

var ErrorUnexpectedResponseCode = flowerror.FlowError{
	Code:    "MET-20002",
	Type:    flowerror.IOErrorType,
	Message: "Unexpected response code",
}

var ErrorQueryFailed = flowerror.FlowError{
	Code:    "MET-20003",
	Type:    flowerror.IOErrorType,
	Message: "Query failed",
}

var ErrorStagingFailed = flowerror.FlowError{
	Code:    "MET-20004",
	Type:    flowerror.IOErrorType,
	Message: "Failed to stage records",
}

var ErrorStatementFailed = flowerror.FlowError{
	Code:    "MET-20005",
	Type:    flowerror.IOErrorType,
	Message: "Statement execution failed",
}

var ErrorPersistenceFailed = flowerror.FlowError{
	Code:    "MET-20006",
	Type:    flowerror.IOErrorType,
	Message: "Configuration persistence failed",
}

// Unsupported errors

var ErrorUnsupportedOperation = flowerror.FlowError{
	Code:    "MET-30001",
	Type:    flowerror.UnsupportedErrorType,
	Message: "Unsupported operation",
}

var ErrorIllegalTransition = flowerror.FlowError{
	Code:    "MET-30002",
	Type:    flowerror.UnsupportedErrorType,
	Message: "Illegal lifecycle transition",
}

// Cleanup errors

var ErrorCleanupFailed = flowerror.FlowError{
	Code:    "MET-40001",
	Type:    flowerror.CleanupErrorType,
	Message: "Cleanup failed",
}
