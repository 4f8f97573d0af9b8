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

package flow

import (
	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// graph is the step dependency graph of a flow.
type graph struct {
	nodes     []string
	edges     map[string][]string
	upstreams map[string][]string
}

func newGraph(def *Definition) *graph {
	g := &graph{
		edges:     map[string][]string{},
		upstreams: map[string][]string{},
	}
	for _, s := range def.Steps {
		g.nodes = append(g.nodes, s.ID)
	}
	seen := map[Link]bool{}
	for _, l := range def.Links {
		if seen[l] {
			continue
		}
		seen[l] = true
		g.edges[l.Source] = append(g.edges[l.Source], l.Target)
		g.upstreams[l.Target] = append(g.upstreams[l.Target], l.Source)
	}
	return g
}

// order returns the steps in dependency order, keeping declaration order among independent steps.
func (g *graph) order() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n] = len(g.upstreams[n])
	}

	var ordered []string
	visited := map[string]bool{}
	for len(ordered) < len(g.nodes) {
		progressed := false
		for _, n := range g.nodes {
			if visited[n] || inDegree[n] > 0 {
				continue
			}
			visited[n] = true
			ordered = append(ordered, n)
			for _, target := range g.edges[n] {
				inDegree[target]--
			}
			progressed = true
		}
		if !progressed {
			var remaining []string
			for _, n := range g.nodes {
				if !visited[n] {
					remaining = append(remaining, n)
				}
			}
			return nil, flowerror.Newf(constants.ErrorInvalidFlowDefinition, nil,
				"The flow has a cycle through steps %v", remaining)
		}
	}
	return ordered, nil
}
