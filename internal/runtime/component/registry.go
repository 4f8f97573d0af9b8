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
	"sort"
	"sync"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Factory creates a new component instance.
type Factory func() ComponentInterface

// Registry maps component type names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory for the component type, replacing any previous one.
func (r *Registry) Register(componentType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[componentType] = factory
}

// Create returns a new instance of the component type.
func (r *Registry) Create(componentType string) (ComponentInterface, error) {
	r.mu.RLock()
	factory, ok := r.factories[componentType]
	r.mu.RUnlock()
	if !ok {
		return nil, flowerror.Newf(constants.ErrorUnknownComponentType, nil,
			"No component is registered for type '%s'", componentType)
	}
	return factory(), nil
}

// Types returns the registered component types in order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
