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

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tma-comms/metl/internal/runtime/component/sqlwriter"
	"github.com/tma-comms/metl/internal/runtime/component/temprdbms"
	"github.com/tma-comms/metl/tests/mocks/databasemock"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry(&databasemock.MockDBProvider{})
	assert.Equal(t, []string{sqlwriter.TypeName, temprdbms.TypeName}, registry.Types())

	first, err := registry.Create(temprdbms.TypeName)
	require.NoError(t, err)
	second, err := registry.Create(temprdbms.TypeName)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	writer, err := registry.Create(sqlwriter.TypeName)
	require.NoError(t, err)
	assert.True(t, writer.SupportsStartupMessages())
}
