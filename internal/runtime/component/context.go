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
	"sync"

	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/system/utils"
)

// Parameters holds the flow scoped parameters of a run. Values may change while the run is in
// progress, so components read them at use time.
type Parameters struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewParameters creates a parameter set holding a copy of the values.
func NewParameters(values map[string]string) *Parameters {
	return &Parameters{values: utils.MergeStringMaps(nil, values)}
}

// Snapshot returns a copy of the current values.
func (p *Parameters) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return utils.DeepCopyMapOfStrings(p.values)
}

// Get returns the value of a parameter.
func (p *Parameters) Get(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

// Set changes the value of a parameter.
func (p *Parameters) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = value
}

// Statistics are the per run counters of a step. They are only updated from the goroutine
// running the step.
type Statistics struct {
	InboundMessages   int64
	OutboundMessages  int64
	EntitiesProcessed int64
}

// IncrementInboundMessages adds one inbound message.
func (s *Statistics) IncrementInboundMessages() {
	s.InboundMessages++
}

// IncrementOutboundMessages adds one outbound message.
func (s *Statistics) IncrementOutboundMessages() {
	s.OutboundMessages++
}

// IncrementEntitiesProcessed adds to the processed entity count.
func (s *Statistics) IncrementEntitiesProcessed(count int64) {
	s.EntitiesProcessed += count
}

// Reset clears every counter.
func (s *Statistics) Reset() {
	*s = Statistics{}
}

// Context is everything a component sees of the flow it runs in.
type Context struct {
	FlowID      string
	RunID       string
	StepID      string
	StepName    string
	Definition  Definition
	InputModel  *model.Model
	OutputModel *model.Model
	// Resource is the resource bound to the step, or nil. It is owned by this step for the run.
	Resource resource.RuntimeInterface
	// FlowParameters are live; read them at use time.
	FlowParameters *Parameters
	// WorkDirectory is the base directory for files a step creates during the run.
	WorkDirectory string
	// RowsPerMessage is the default batch size for steps that produce records.
	RowsPerMessage int
	Statistics     *Statistics
}
