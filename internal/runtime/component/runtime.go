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

package component

import (
	"context"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
)

// Runtime drives a component through its lifecycle and keeps its statistics.
// It is not safe for concurrent use; the engine calls it from the step goroutine only.
type Runtime struct {
	component ComponentInterface
	context   *Context
	state     State
	logger    *log.Logger
}

// NewRuntime wraps a component created for the given step context.
func NewRuntime(component ComponentInterface, compCtx *Context) *Runtime {
	if compCtx.Statistics == nil {
		compCtx.Statistics = &Statistics{}
	}
	return &Runtime{
		component: component,
		context:   compCtx,
		state:     StateCreated,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ComponentRuntime"),
			log.String(log.LoggerKeyStepID, compCtx.StepID)),
	}
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	return r.state
}

// Context returns the step context.
func (r *Runtime) Context() *Context {
	return r.context
}

// Statistics returns the statistics of the current run.
func (r *Runtime) Statistics() *Statistics {
	return r.context.Statistics
}

// SupportsStartupMessages reports whether the component accepts a startup control message.
func (r *Runtime) SupportsStartupMessages() bool {
	return r.component.SupportsStartupMessages()
}

// Start moves the component from CREATED to STARTED.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.checkState("start", StateCreated); err != nil {
		return err
	}
	r.context.Statistics.Reset()
	if err := r.component.Start(ctx, r.context); err != nil {
		r.state = StateFailed
		return err
	}
	r.state = StateStarted
	return nil
}

// Handle delivers one message to the component. Outbound messages are counted as they are sent.
func (r *Runtime) Handle(ctx context.Context, msg *message.Message, router RouterInterface,
	unitOfWorkBoundary bool) error {
	if err := r.checkState("handle", StateStarted, StateHandling); err != nil {
		return err
	}
	r.state = StateHandling
	r.context.Statistics.IncrementInboundMessages()

	counting := &countingRouter{delegate: router, statistics: r.context.Statistics}
	if err := r.component.Handle(ctx, msg, counting, unitOfWorkBoundary); err != nil {
		r.state = StateFailed
		return err
	}
	return nil
}

// FlowCompleted notifies the component that the whole flow completed.
func (r *Runtime) FlowCompleted(ctx context.Context) error {
	if err := r.checkState("complete", StateStarted, StateHandling); err != nil {
		return err
	}
	if err := r.component.FlowCompleted(ctx); err != nil {
		r.state = StateFailed
		return err
	}
	r.state = StateCompleted
	return nil
}

// Stop stops the component and closes the step resource. It may be called from any state and
// only the first call has an effect.
func (r *Runtime) Stop(ctx context.Context) error {
	if r.state == StateStopped {
		return nil
	}
	r.state = StateStopped

	err := r.component.Stop(ctx)
	if r.context.Resource != nil {
		if cerr := r.context.Resource.Close(); cerr != nil {
			r.logger.Warn("Failed to close the step resource", log.Error(cerr))
		}
	}
	return err
}

func (r *Runtime) checkState(operation string, allowed ...State) error {
	for _, s := range allowed {
		if r.state == s {
			return nil
		}
	}
	return flowerror.Newf(constants.ErrorIllegalTransition, nil, "Cannot %s a component in state %s",
		operation, r.state)
}

// countingRouter counts the messages a component sends before passing them on.
type countingRouter struct {
	delegate   RouterInterface
	statistics *Statistics
}

func (c *countingRouter) Send(ctx context.Context, msg *message.Message) error {
	c.statistics.IncrementOutboundMessages()
	return c.delegate.Send(ctx, msg)
}
