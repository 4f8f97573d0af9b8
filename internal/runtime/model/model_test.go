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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ModelTestSuite struct {
	suite.Suite
	model *Model
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelTestSuite))
}

func (suite *ModelTestSuite) SetupTest() {
	suite.model = &Model{
		ID:   "m1",
		Name: "Sales",
		Entities: []*ModelEntity{
			{
				ID:   "e-order",
				Name: "Order",
				Attributes: []*ModelAttribute{
					{ID: "a-order-id", Name: "id", Type: DataTypeInteger, PK: true},
					{ID: "a-order-total", Name: "total", Type: DataTypeNumeric, Nullable: true},
				},
			},
			{
				ID:   "e-customer",
				Name: "Customer",
				Attributes: []*ModelAttribute{
					{ID: "a-customer-id", Name: "id", Type: DataTypeVarchar, PK: true},
				},
			},
		},
	}
}

func (suite *ModelTestSuite) TestLookups() {
	assert.Equal(suite.T(), "Order", suite.model.EntityByName("ORDER").Name)
	assert.Equal(suite.T(), "Customer", suite.model.EntityByID("e-customer").Name)
	assert.Nil(suite.T(), suite.model.EntityByName("Invoice"))
	assert.Equal(suite.T(), "a-order-total", suite.model.EntityByName("order").AttributeByName("TOTAL").ID)
	assert.Nil(suite.T(), suite.model.EntityByID("e-order").AttributeByID("a-customer-id"))

	e, a := suite.model.AttributeByID("a-customer-id")
	assert.Equal(suite.T(), "Customer", e.Name)
	assert.Equal(suite.T(), "id", a.Name)
}

func (suite *ModelTestSuite) TestRowConversion() {
	data := EntityData{"a-order-id": int64(1), "a-order-total": 9.5}

	assert.Equal(suite.T(), "e-order", suite.model.EntityFor(data).ID)
	row := suite.model.ToRow(data)
	assert.Equal(suite.T(), map[string]interface{}{"id": int64(1), "total": 9.5}, row)

	back := suite.model.FromRow(suite.model.EntityByID("e-order"), map[string]interface{}{
		"ID": int64(1), "TOTAL": 9.5, "UNKNOWN": "x",
	})
	assert.Equal(suite.T(), data, back)
	assert.Nil(suite.T(), suite.model.EntityFor(EntityData{"nope": 1}))
}

func (suite *ModelTestSuite) TestEntityDataCopy() {
	data := EntityData{"a": []byte{1}}
	c := data.Copy()
	c["a"].([]byte)[0] = 2
	c["b"] = 1

	assert.Equal(suite.T(), byte(1), data["a"].([]byte)[0])
	assert.NotContains(suite.T(), data, "b")
	assert.Nil(suite.T(), EntityData(nil).Copy())
}

func (suite *ModelTestSuite) TestValidate() {
	assert.NoError(suite.T(), suite.model.Validate())

	suite.model.Entities = append(suite.model.Entities, &ModelEntity{ID: "e-x", Name: "CUSTOMER"})
	assert.ErrorContains(suite.T(), suite.model.Validate(), "duplicate entity name")

	suite.SetupTest()
	suite.model.Entities[0].Attributes = append(suite.model.Entities[0].Attributes,
		&ModelAttribute{ID: "a-dup", Name: "ID"})
	assert.ErrorContains(suite.T(), suite.model.Validate(), "duplicate attribute name")

	suite.SetupTest()
	suite.model.Entities[1].Attributes[0].ID = "a-order-id"
	assert.ErrorContains(suite.T(), suite.model.Validate(), "duplicate id")
}

func (suite *ModelTestSuite) TestDataTypePredicates() {
	testCases := []struct {
		dataType                            DataType
		numeric, boolean, timestamp, binary bool
	}{
		{DataTypeDecimal, true, false, false, false},
		{"integer", true, false, false, false},
		{DataTypeBit, false, true, false, false},
		{DataTypeBoolean, false, true, false, false},
		{DataTypeDate, false, false, true, false},
		{DataTypeTimestamp, false, false, true, false},
		{DataTypeBlob, false, false, false, true},
		{DataTypeVarBinary, false, false, false, true},
		{DataTypeVarchar, false, false, false, false},
		{DataTypeOther, false, false, false, false},
	}

	for _, tc := range testCases {
		suite.Run(string(tc.dataType), func() {
			assert.Equal(suite.T(), tc.numeric, tc.dataType.IsNumeric())
			assert.Equal(suite.T(), tc.boolean, tc.dataType.IsBoolean())
			assert.Equal(suite.T(), tc.timestamp, tc.dataType.IsTimestamp())
			assert.Equal(suite.T(), tc.binary, tc.dataType.IsBinary())
		})
	}
}
