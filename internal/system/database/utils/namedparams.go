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

// Package utils provides helpers for building and binding SQL statements.
package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tma-comms/metl/internal/system/database/model"
)

// ExpandNamedParameters rewrites every :name reference in the statement into the positional
// placeholder of the given database type and returns the matching argument list.
// Text inside quotes and comments is copied untouched, as are :: casts.
func ExpandNamedParameters(query string, params map[string]interface{}, dbType string) (
	string, []interface{}, error) {
	var sb strings.Builder
	sb.Grow(len(query))
	args := make([]interface{}, 0)
	positions := map[string]int{}

	n := len(query)
	for i := 0; i < n; i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			end := skipQuoted(query, i, c)
			sb.WriteString(query[i:end])
			i = end - 1
		case c == '-' && i+1 < n && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			sb.WriteString(query[i:end])
			i = end - 1
		case c == '/' && i+1 < n && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			sb.WriteString(query[i:end])
			i = end - 1
		case c == ':' && i+1 < n && query[i+1] == ':':
			sb.WriteString("::")
			i++
		case c == ':' && i+1 < n && isNameStart(query[i+1]):
			j := i + 1
			for j < n && isNamePart(query[j]) {
				j++
			}
			name := query[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("no value supplied for named parameter '%s'", name)
			}
			if dbType == model.DBTypePostgres {
				pos, seen := positions[name]
				if !seen {
					args = append(args, value)
					pos = len(args)
					positions[name] = pos
				}
				sb.WriteString("$" + strconv.Itoa(pos))
			} else {
				args = append(args, value)
				sb.WriteByte('?')
			}
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), args, nil
}

// skipQuoted returns the index just past the quoted section starting at start.
// A doubled quote character is treated as an escaped quote.
func skipQuoted(query string, start int, quote byte) int {
	for i := start + 1; i < len(query); i++ {
		if query[i] != quote {
			continue
		}
		if i+1 < len(query) && query[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(query)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
