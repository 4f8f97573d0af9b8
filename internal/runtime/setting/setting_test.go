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

package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

func TestGetString(t *testing.T) {
	s := Settings{"url": " http://host ", "blank": "  "}

	assert.Equal(t, "http://host", s.GetString("url", ""))
	assert.Equal(t, "dflt", s.GetString("blank", "dflt"))
	assert.Equal(t, "dflt", s.GetString("missing", "dflt"))
	assert.Equal(t, "  ", s.GetRaw("blank", "dflt"))
	assert.Equal(t, "dflt", s.GetRaw("missing", "dflt"))
}

func TestRequire(t *testing.T) {
	s := Settings{"sql": "SELECT 1", "empty": ""}

	v, err := s.Require("sql")
	assert.NoError(t, err)
	assert.Equal(t, "SELECT 1", v)

	_, err = s.Require("empty")
	assert.True(t, flowerror.IsType(err, flowerror.ConfigurationErrorType))
	assert.Contains(t, err.Error(), "'empty'")
}

func TestGetInt(t *testing.T) {
	s := Settings{"rows": "500", "bad": "ten"}

	v, err := s.GetInt("rows", 1)
	assert.NoError(t, err)
	assert.Equal(t, 500, v)

	v, err = s.GetInt("missing", 10000)
	assert.NoError(t, err)
	assert.Equal(t, 10000, v)

	_, err = s.GetInt("bad", 1)
	assert.True(t, flowerror.IsType(err, flowerror.ConfigurationErrorType))
}

func TestGetBool(t *testing.T) {
	s := Settings{"on": "true", "off": "FALSE", "bad": "maybe"}

	v, err := s.GetBool("on", false)
	assert.NoError(t, err)
	assert.True(t, v)

	v, err = s.GetBool("off", true)
	assert.NoError(t, err)
	assert.False(t, v)

	v, err = s.GetBool("missing", true)
	assert.NoError(t, err)
	assert.True(t, v)

	_, err = s.GetBool("bad", true)
	assert.Error(t, err)
}

func TestGetChoice(t *testing.T) {
	s := Settings{"run.when": "per entity", "bad": "sometimes"}

	v, err := s.GetChoice("run.when", "PER MESSAGE", "PER MESSAGE", "PER ENTITY", "ON SUCCESS")
	assert.NoError(t, err)
	assert.Equal(t, "PER ENTITY", v)

	v, err = s.GetChoice("missing", "PER MESSAGE", "PER MESSAGE", "PER ENTITY")
	assert.NoError(t, err)
	assert.Equal(t, "PER MESSAGE", v)

	_, err = s.GetChoice("bad", "PER MESSAGE", "PER MESSAGE", "PER ENTITY")
	assert.ErrorContains(t, err, "PER MESSAGE, PER ENTITY")
}
