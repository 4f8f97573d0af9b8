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

// Package utils provides utility functions shared across the runtime.
package utils

import "strings"

// MergeStringMaps merges two maps of strings and returns the result.
func MergeStringMaps(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string)
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ReplaceTokens substitutes every $(name) token in the text with its value from the map.
// Tokens without a value are left as they are.
func ReplaceTokens(text string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(text, "$(") {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	rest := text
	for {
		start := strings.Index(rest, "$(")
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+2:], ')')
		if end < 0 {
			break
		}
		end += start + 2
		name := rest[start+2 : end]
		sb.WriteString(rest[:start])
		if value, ok := values[name]; ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	sb.WriteString(rest)
	return sb.String()
}

// UpperSnakeCase converts a camel case name such as FlowVersion into FLOW_VERSION.
func UpperSnakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' && i > 0 {
			prev := name[i-1]
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}
