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

// Package message defines the unit of data exchanged between flow steps.
package message

import (
	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/system/utils"
)

// Header carries the routing metadata of a message.
type Header struct {
	// ProducingStepID is the id of the step that sent the message.
	ProducingStepID string
	// FlowParameters are the flow scoped parameters at the time the message was sent.
	FlowParameters map[string]string
	// UnitOfWorkBoundary is set on the last message of a unit of work.
	UnitOfWorkBoundary bool
	// SequenceNumber orders the messages sent by one step, starting at 1.
	SequenceNumber int64
}

// Message is an ordered batch of records. A message is not modified once it has been sent.
type Message struct {
	Header  Header
	Payload []model.EntityData
}

// NewMessage creates an empty message produced by the given step.
func NewMessage(stepID string, flowParameters map[string]string) *Message {
	return &Message{
		Header: Header{
			ProducingStepID: stepID,
			FlowParameters:  utils.DeepCopyMapOfStrings(flowParameters),
		},
		Payload: []model.EntityData{},
	}
}

// NewControlMessage creates a payload free message used to start source steps.
func NewControlMessage(stepID string, flowParameters map[string]string) *Message {
	msg := NewMessage(stepID, flowParameters)
	msg.Header.UnitOfWorkBoundary = true
	return msg
}

// IsControl reports whether the message carries no records.
func (m *Message) IsControl() bool {
	return len(m.Payload) == 0
}

// Copy returns a deep copy of the message tagged with the forwarding step id.
func (m *Message) Copy(stepID string) *Message {
	c := &Message{
		Header:  m.Header,
		Payload: make([]model.EntityData, len(m.Payload)),
	}
	c.Header.ProducingStepID = stepID
	c.Header.FlowParameters = utils.DeepCopyMapOfStrings(m.Header.FlowParameters)
	for i, data := range m.Payload {
		c.Payload[i] = data.Copy()
	}
	return c
}
