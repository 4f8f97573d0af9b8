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

import "strings"

// DataType is the logical type of a model attribute.
type DataType string

// Supported logical data types.
const (
	DataTypeBit           DataType = "BIT"
	DataTypeTinyInt       DataType = "TINYINT"
	DataTypeSmallInt      DataType = "SMALLINT"
	DataTypeInteger       DataType = "INTEGER"
	DataTypeBigInt        DataType = "BIGINT"
	DataTypeFloat         DataType = "FLOAT"
	DataTypeReal          DataType = "REAL"
	DataTypeDouble        DataType = "DOUBLE"
	DataTypeNumeric       DataType = "NUMERIC"
	DataTypeDecimal       DataType = "DECIMAL"
	DataTypeChar          DataType = "CHAR"
	DataTypeVarchar       DataType = "VARCHAR"
	DataTypeLongVarchar   DataType = "LONGVARCHAR"
	DataTypeClob          DataType = "CLOB"
	DataTypeDate          DataType = "DATE"
	DataTypeTime          DataType = "TIME"
	DataTypeTimestamp     DataType = "TIMESTAMP"
	DataTypeBinary        DataType = "BINARY"
	DataTypeVarBinary     DataType = "VARBINARY"
	DataTypeLongVarBinary DataType = "LONGVARBINARY"
	DataTypeBlob          DataType = "BLOB"
	DataTypeBoolean       DataType = "BOOLEAN"
	DataTypeOther         DataType = "OTHER"
)

func (t DataType) normalized() DataType {
	return DataType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// IsNumeric reports whether the type holds numbers.
func (t DataType) IsNumeric() bool {
	switch t.normalized() {
	case DataTypeTinyInt, DataTypeSmallInt, DataTypeInteger, DataTypeBigInt,
		DataTypeFloat, DataTypeReal, DataTypeDouble, DataTypeNumeric, DataTypeDecimal:
		return true
	}
	return false
}

// IsBoolean reports whether the type holds booleans.
func (t DataType) IsBoolean() bool {
	switch t.normalized() {
	case DataTypeBit, DataTypeBoolean:
		return true
	}
	return false
}

// IsTimestamp reports whether the type holds dates or times.
func (t DataType) IsTimestamp() bool {
	switch t.normalized() {
	case DataTypeDate, DataTypeTime, DataTypeTimestamp:
		return true
	}
	return false
}

// IsBinary reports whether the type holds binary data.
func (t DataType) IsBinary() bool {
	switch t.normalized() {
	case DataTypeBinary, DataTypeVarBinary, DataTypeLongVarBinary, DataTypeBlob:
		return true
	}
	return false
}
