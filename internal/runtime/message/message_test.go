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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tma-comms/metl/internal/runtime/model"
)

func TestNewControlMessage(t *testing.T) {
	params := map[string]string{"runId": "42"}
	msg := NewControlMessage("engine", params)
	params["runId"] = "43"

	assert.True(t, msg.IsControl())
	assert.True(t, msg.Header.UnitOfWorkBoundary)
	assert.Equal(t, "engine", msg.Header.ProducingStepID)
	assert.Equal(t, "42", msg.Header.FlowParameters["runId"])
}

func TestCopy(t *testing.T) {
	msg := NewMessage("reader", map[string]string{"a": "1"})
	msg.Header.SequenceNumber = 3
	msg.Header.UnitOfWorkBoundary = true
	msg.Payload = append(msg.Payload, model.EntityData{"id": int64(1)})

	c := msg.Copy("writer")
	c.Payload[0]["id"] = int64(2)
	c.Header.FlowParameters["a"] = "2"

	assert.Equal(t, "writer", c.Header.ProducingStepID)
	assert.Equal(t, int64(3), c.Header.SequenceNumber)
	assert.True(t, c.Header.UnitOfWorkBoundary)
	assert.False(t, c.IsControl())
	assert.Equal(t, "reader", msg.Header.ProducingStepID)
	assert.Equal(t, int64(1), msg.Payload[0]["id"])
	assert.Equal(t, "1", msg.Header.FlowParameters["a"])
}
