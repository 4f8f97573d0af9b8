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

import "strings"

// SplitSQLStatements splits a script into its ';' separated statements. Delimiters inside
// quotes or comments do not split, and statements holding only blanks or comments are dropped.
func SplitSQLStatements(script string) []string {
	var statements []string
	var current strings.Builder
	hasCode := false
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" && hasCode {
			statements = append(statements, s)
		}
		current.Reset()
		hasCode = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '\'' || c == '"':
			hasCode = true
			end := i + 1
			for end < len(script) {
				if script[end] == c {
					if end+1 < len(script) && script[end+1] == c {
						end += 2
						continue
					}
					break
				}
				end++
			}
			if end >= len(script) {
				end = len(script) - 1
			}
			current.WriteString(script[i : end+1])
			i = end
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				end = len(script) - i
			}
			current.WriteString(script[i : i+end])
			i += end - 1
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				current.WriteString(script[i:])
				i = len(script)
				continue
			}
			current.WriteString(script[i : i+2+end+2])
			i += 2 + end + 1
		case c == ';':
			flush()
		default:
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				hasCode = true
			}
			current.WriteByte(c)
		}
	}
	flush()
	return statements
}
