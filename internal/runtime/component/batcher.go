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

	"github.com/tma-comms/metl/internal/runtime/message"
	"github.com/tma-comms/metl/internal/runtime/model"
)

// Batcher groups records into messages of at most a fixed number of records. A full batch is
// held back until the next record arrives, so that Flush can flag the last batch.
type Batcher struct {
	stepID     string
	size       int
	parameters *Parameters
	router     RouterInterface
	pending    []model.EntityData
	sent       int
}

// NewBatcher creates a batcher sending through the router on behalf of the step.
func NewBatcher(stepID string, size int, parameters *Parameters, router RouterInterface) *Batcher {
	if size < 1 {
		size = 1
	}
	return &Batcher{stepID: stepID, size: size, parameters: parameters, router: router}
}

// Add appends a record, sending the held batch first when it is full.
func (b *Batcher) Add(ctx context.Context, data model.EntityData) error {
	if len(b.pending) == b.size {
		if err := b.send(ctx, false); err != nil {
			return err
		}
	}
	b.pending = append(b.pending, data)
	return nil
}

// Flush sends the held records. With boundary set, the message is flagged as the last of the
// unit of work and is sent even when it carries no records.
func (b *Batcher) Flush(ctx context.Context, boundary bool) error {
	if len(b.pending) == 0 && !boundary {
		return nil
	}
	return b.send(ctx, boundary)
}

// Sent returns the number of messages sent so far.
func (b *Batcher) Sent() int {
	return b.sent
}

func (b *Batcher) send(ctx context.Context, boundary bool) error {
	var params map[string]string
	if b.parameters != nil {
		params = b.parameters.Snapshot()
	}
	msg := message.NewMessage(b.stepID, params)
	msg.Header.UnitOfWorkBoundary = boundary
	msg.Payload = b.pending
	b.pending = nil
	b.sent++
	return b.router.Send(ctx, msg)
}
