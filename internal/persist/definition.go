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

package persist

import (
	"context"
	"fmt"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/flow"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
)

// LoadFlowDefinition resolves a stored flow version into a runnable flow definition. Each node
// becomes a step named after its component, and the models and resources the component versions
// refer to are loaded from the store.
func (s *ConfigurationService) LoadFlowDefinition(ctx context.Context, flowVersionID string) (
	*flow.Definition, error) {
	graph, err := s.RefreshFlowVersion(ctx, flowVersionID)
	if err != nil {
		return nil, err
	}
	owner := &Flow{Base: Base{ID: graph.Version.FlowID}}
	if err := s.manager.Refresh(ctx, s.client, owner); err != nil {
		return nil, fmt.Errorf("flow of version %s: %w", flowVersionID, err)
	}

	def := &flow.Definition{ID: owner.ID, Name: owner.Name}
	models := map[string]bool{}
	resources := map[string]bool{}
	for _, node := range graph.Nodes {
		cv := node.ComponentVersion
		if cv == nil || cv.Component == nil {
			return nil, flowerror.Newf(constants.ErrorInvalidFlowDefinition, nil,
				"Node %s has no component", node.Node.ID)
		}
		step := flow.Step{
			ID:          node.Node.ID,
			Name:        cv.Component.Name,
			Type:        cv.Component.Type,
			Settings:    settingsOf(cv.Settings),
			InputModel:  cv.Version.InputModelID,
			OutputModel: cv.Version.OutputModelID,
			Resource:    cv.Version.ResourceID,
		}
		for _, id := range []string{step.InputModel, step.OutputModel} {
			if id == "" || models[id] {
				continue
			}
			stored, err := s.RefreshModel(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("model %s of node %s: %w", id, node.Node.ID, err)
			}
			m, err := stored.Model()
			if err != nil {
				return nil, flowerror.New(constants.ErrorInvalidModel, err)
			}
			def.Models = append(def.Models, m)
			models[id] = true
		}
		if step.Resource != "" && !resources[step.Resource] {
			r, err := s.RefreshResource(ctx, step.Resource)
			if err != nil {
				return nil, fmt.Errorf("resource %s of node %s: %w", step.Resource, node.Node.ID, err)
			}
			def.Resources = append(def.Resources, r.Definition())
			resources[step.Resource] = true
		}
		def.Steps = append(def.Steps, step)
	}
	for _, link := range graph.Links {
		def.Links = append(def.Links, flow.Link{Source: link.SourceNodeID, Target: link.TargetNodeID})
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded flow definition", log.String(log.LoggerKeyFlowID, def.ID),
		log.String("version", flowVersionID), log.Int("steps", len(def.Steps)))
	return def, nil
}
