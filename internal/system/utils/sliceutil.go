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

package utils

// DeepCopyMapOfStrings creates a deep copy of a map with strings.
func DeepCopyMapOfStrings(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// DeepCopyMapOfValues creates a copy of a map whose values are treated as immutable scalars.
// Byte slices are cloned.
func DeepCopyMapOfValues[K comparable](src map[K]interface{}) map[K]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[K]interface{}, len(src))
	for k, v := range src {
		if b, ok := v.([]byte); ok {
			v = append([]byte(nil), b...)
		}
		dst[k] = v
	}
	return dst
}

// Chunk splits the slice into consecutive parts of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		chunks = append(chunks, items[:size:size])
		items = items[size:]
	}
	return append(chunks, items)
}
