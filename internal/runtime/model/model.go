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

// Package model defines the logical model describing the records that flow between components.
package model

import (
	"fmt"
	"strings"

	"github.com/tma-comms/metl/internal/system/utils"
)

// ModelAttribute is a typed attribute of a logical entity.
type ModelAttribute struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Type     DataType `yaml:"type"`
	PK       bool     `yaml:"pk"`
	Nullable bool     `yaml:"nullable"`
}

// ModelEntity is a logical entity with an ordered list of attributes.
type ModelEntity struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Attributes []*ModelAttribute `yaml:"attributes"`
}

// AttributeByID returns the attribute with the given id, or nil.
func (e *ModelEntity) AttributeByID(id string) *ModelAttribute {
	for _, a := range e.Attributes {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// AttributeByName returns the attribute with the given name ignoring case, or nil.
func (e *ModelEntity) AttributeByName(name string) *ModelAttribute {
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

// Model is an ordered list of logical entities. A model is shared read only between steps.
type Model struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Entities []*ModelEntity `yaml:"entities"`
}

// EntityData is a single record keyed by attribute id.
type EntityData map[string]interface{}

// Copy returns a copy of the record.
func (d EntityData) Copy() EntityData {
	return utils.DeepCopyMapOfValues(map[string]interface{}(d))
}

// EntityByID returns the entity with the given id, or nil.
func (m *Model) EntityByID(id string) *ModelEntity {
	for _, e := range m.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// EntityByName returns the entity with the given name ignoring case, or nil.
func (m *Model) EntityByName(name string) *ModelEntity {
	for _, e := range m.Entities {
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

// AttributeByID returns the attribute with the given id and its owning entity.
func (m *Model) AttributeByID(id string) (*ModelEntity, *ModelAttribute) {
	for _, e := range m.Entities {
		if a := e.AttributeByID(id); a != nil {
			return e, a
		}
	}
	return nil, nil
}

// EntityFor returns the entity owning the attributes of the record, or nil.
func (m *Model) EntityFor(data EntityData) *ModelEntity {
	for id := range data {
		if e, _ := m.AttributeByID(id); e != nil {
			return e
		}
	}
	return nil
}

// ToRow converts a record into a map keyed by attribute name. Unknown attribute ids are skipped.
func (m *Model) ToRow(data EntityData) map[string]interface{} {
	row := make(map[string]interface{}, len(data))
	for id, value := range data {
		if _, a := m.AttributeByID(id); a != nil {
			row[a.Name] = value
		}
	}
	return row
}

// FromRow converts a map keyed by attribute name into a record of the given entity.
// Names are matched ignoring case; unmatched names are skipped.
func (m *Model) FromRow(entity *ModelEntity, row map[string]interface{}) EntityData {
	data := make(EntityData, len(row))
	for name, value := range row {
		if a := entity.AttributeByName(name); a != nil {
			data[a.ID] = value
		}
	}
	return data
}

// Validate checks that ids are unique and that names are unique ignoring case.
func (m *Model) Validate() error {
	ids := map[string]bool{}
	entityNames := map[string]bool{}
	for _, e := range m.Entities {
		if e.ID == "" || e.Name == "" {
			return fmt.Errorf("model %s has an entity without an id or name", m.Name)
		}
		if ids[e.ID] {
			return fmt.Errorf("model %s has a duplicate id: %s", m.Name, e.ID)
		}
		ids[e.ID] = true
		upper := strings.ToUpper(e.Name)
		if entityNames[upper] {
			return fmt.Errorf("model %s has a duplicate entity name: %s", m.Name, e.Name)
		}
		entityNames[upper] = true

		attributeNames := map[string]bool{}
		for _, a := range e.Attributes {
			if a.ID == "" || a.Name == "" {
				return fmt.Errorf("entity %s has an attribute without an id or name", e.Name)
			}
			if ids[a.ID] {
				return fmt.Errorf("model %s has a duplicate id: %s", m.Name, a.ID)
			}
			ids[a.ID] = true
			upper := strings.ToUpper(a.Name)
			if attributeNames[upper] {
				return fmt.Errorf("entity %s has a duplicate attribute name: %s", e.Name, a.Name)
			}
			attributeNames[upper] = true
		}
	}
	return nil
}
