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

// Package component defines the component execution contract and the lifecycle state machine
// that every flow step runs under.
package component

import (
	"context"

	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/setting"
)

// State is a lifecycle state of a component runtime.
type State string

// Lifecycle states.
const (
	StateCreated   State = "CREATED"
	StateStarted   State = "STARTED"
	StateHandling  State = "HANDLING"
	StateCompleted State = "COMPLETED"
	StateStopped   State = "STOPPED"
	StateFailed    State = "FAILED"
)

// Definition is the configuration of a component.
type Definition struct {
	Type     string           `yaml:"type"`
	Settings setting.Settings `yaml:"settings"`
}

// RouterInterface delivers messages to every step linked downstream of the sender.
type RouterInterface interface {
	// Send hands the message over. The sender must not modify the message afterwards.
	Send(ctx context.Context, msg *message.Message) error
}

// ComponentInterface is the behavior of a flow step. All state is instance scoped; a new
// instance is created for every step of every run.
type ComponentInterface interface {
	// Start validates the configuration and initializes per run state. Missing prerequisites
	// are configuration errors.
	Start(ctx context.Context, compCtx *Context) error
	// Handle processes one inbound message. Finalize and emit work waits for unitOfWorkBoundary.
	Handle(ctx context.Context, msg *message.Message, router RouterInterface, unitOfWorkBoundary bool) error
	// FlowCompleted runs once after the whole flow finished without failure.
	FlowCompleted(ctx context.Context) error
	// Stop releases anything opened during the run. It must be safe to call after a failed start.
	Stop(ctx context.Context) error
	// SupportsStartupMessages reports whether the step accepts a payload free control message
	// to start a run.
	SupportsStartupMessages() bool
}
