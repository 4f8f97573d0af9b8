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

// Package flow loads flow definitions and runs them.
package flow

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tma-comms/metl/internal/runtime/component"
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Step is a component placed in a flow.
type Step struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Settings    setting.Settings `yaml:"settings"`
	InputModel  string           `yaml:"input_model"`
	OutputModel string           `yaml:"output_model"`
	Resource    string           `yaml:"resource"`
}

// ComponentDefinition returns the component configuration of the step.
func (s Step) ComponentDefinition() component.Definition {
	return component.Definition{Type: s.Type, Settings: s.Settings}
}

// Link routes the messages sent by the source step to the target step.
type Link struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Definition is a runnable flow.
type Definition struct {
	ID         string                `yaml:"id"`
	Name       string                `yaml:"name"`
	Parameters map[string]string     `yaml:"parameters"`
	Models     []*model.Model        `yaml:"models"`
	Resources  []resource.Definition `yaml:"resources"`
	Steps      []Step                `yaml:"steps"`
	Links      []Link                `yaml:"links"`
}

// LoadDefinition reads a flow definition from a YAML file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow definition %s: %w", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes and validates a YAML flow definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, flowerror.Newf(constants.ErrorInvalidFlowDefinition, err, "Failed to parse the flow definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Model returns the model with the given id.
func (d *Definition) Model(id string) *model.Model {
	for _, m := range d.Models {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Resource returns the resource with the given id.
func (d *Definition) Resource(id string) (resource.Definition, bool) {
	for _, r := range d.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return resource.Definition{}, false
}

// Validate checks references between steps, links, models and resources and rejects cycles.
func (d *Definition) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return flowerror.Newf(constants.ErrorInvalidFlowDefinition, nil, format, args...)
	}
	if len(d.Steps) == 0 {
		return invalid("Flow %s has no steps", d.Name)
	}
	for _, m := range d.Models {
		if err := m.Validate(); err != nil {
			return flowerror.New(constants.ErrorInvalidModel, err)
		}
	}

	steps := map[string]bool{}
	for _, s := range d.Steps {
		if s.ID == "" {
			return invalid("Flow %s has a step without an id", d.Name)
		}
		if steps[s.ID] {
			return invalid("Step id %s is not unique", s.ID)
		}
		steps[s.ID] = true
		if s.Type == "" {
			return invalid("Step %s has no component type", s.ID)
		}
		if s.InputModel != "" && d.Model(s.InputModel) == nil {
			return invalid("Step %s refers to an unknown input model %s", s.ID, s.InputModel)
		}
		if s.OutputModel != "" && d.Model(s.OutputModel) == nil {
			return invalid("Step %s refers to an unknown output model %s", s.ID, s.OutputModel)
		}
		if s.Resource != "" {
			if _, ok := d.Resource(s.Resource); !ok {
				return invalid("Step %s refers to an unknown resource %s", s.ID, s.Resource)
			}
		}
	}
	for _, l := range d.Links {
		if !steps[l.Source] || !steps[l.Target] {
			return invalid("Link %s -> %s refers to an unknown step", l.Source, l.Target)
		}
	}

	if _, err := newGraph(d).order(); err != nil {
		return err
	}
	return nil
}
