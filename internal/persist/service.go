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
	"errors"
	"fmt"
	"sort"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/flow"
	"github.com/tma-comms/metl/internal/runtime/resource"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/database/client"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	"github.com/tma-comms/metl/internal/system/log"
)

// FolderTree is a folder with its sub folders.
type FolderTree struct {
	Folder   *Folder
	Children []*FolderTree
}

// ComponentVersionGraph is a component version with its component and settings.
type ComponentVersionGraph struct {
	Version   *ComponentVersion
	Component *Component
	Settings  []*Setting
}

// FlowNodeGraph is a flow node with the component version it places.
type FlowNodeGraph struct {
	Node             *FlowNode
	ComponentVersion *ComponentVersionGraph
}

// FlowVersionGraph is a flow version with its nodes and links.
type FlowVersionGraph struct {
	Version *FlowVersion
	Nodes   []*FlowNodeGraph
	Links   []*FlowNodeLink
}

// FlowGraph is a flow with all its versions.
type FlowGraph struct {
	Flow     *Flow
	Versions []*FlowVersionGraph
}

// ResourceGraph is a resource with its settings.
type ResourceGraph struct {
	Resource *Resource
	Settings []*Setting
}

// Definition returns the runtime definition of the resource.
func (g *ResourceGraph) Definition() resource.Definition {
	return resource.Definition{
		ID:       g.Resource.ID,
		Name:     g.Resource.Name,
		Type:     g.Resource.Type,
		Settings: settingsOf(g.Settings),
	}
}

// ConfigurationServiceInterface reads and writes flow configuration graphs.
type ConfigurationServiceInterface interface {
	FindFolders(ctx context.Context, folderType string) ([]*FolderTree, error)
	FindFlowsInFolder(ctx context.Context, folderID string) ([]*FlowGraph, error)
	FindComponentVersion(ctx context.Context, id string) (*ComponentVersionGraph, error)
	RefreshFlowVersion(ctx context.Context, id string) (*FlowVersionGraph, error)
	SaveFlowVersion(ctx context.Context, graph *FlowVersionGraph) error
	DeleteFlowVersion(ctx context.Context, id string) error
	DeleteFlow(ctx context.Context, id string) error
	DeleteFlowNode(ctx context.Context, id string) error
	DeleteFolder(ctx context.Context, id string) error
	FindResourcesInFolder(ctx context.Context, folderID string) ([]*ResourceGraph, error)
	RefreshResource(ctx context.Context, id string) (*ResourceGraph, error)
	SaveResource(ctx context.Context, graph *ResourceGraph) error
	DeleteResource(ctx context.Context, id string) error
	FindModelsInFolder(ctx context.Context, folderID string) ([]*LogicalModel, error)
	RefreshModel(ctx context.Context, id string) (*LogicalModel, error)
	SaveModel(ctx context.Context, m *LogicalModel) error
	DeleteModel(ctx context.Context, id string) error
	LoadFlowDefinition(ctx context.Context, flowVersionID string) (*flow.Definition, error)
}

// ConfigurationService is the implementation of ConfigurationServiceInterface.
type ConfigurationService struct {
	client  client.DBClientInterface
	manager PersistenceManagerInterface
	logger  *log.Logger
}

// NewConfigurationService creates a configuration service on the database client.
func NewConfigurationService(dbClient client.DBClientInterface,
	manager PersistenceManagerInterface) ConfigurationServiceInterface {
	return &ConfigurationService{
		client:  dbClient,
		manager: manager,
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ConfigurationService")),
	}
}

// FindFolders returns the folder trees of the given type, roots and children ordered by name.
func (s *ConfigurationService) FindFolders(ctx context.Context, folderType string) ([]*FolderTree, error) {
	folders, err := find[Folder](ctx, s.manager, s.client, map[string]interface{}{"TYPE": folderType})
	if err != nil {
		return nil, err
	}

	trees := make(map[string]*FolderTree, len(folders))
	for _, f := range folders {
		trees[f.ID] = &FolderTree{Folder: f}
	}
	roots := make([]*FolderTree, 0)
	for _, f := range folders {
		parent, ok := trees[f.ParentFolderID]
		if f.ParentFolderID == "" || !ok {
			roots = append(roots, trees[f.ID])
			continue
		}
		parent.Children = append(parent.Children, trees[f.ID])
	}
	for _, tree := range trees {
		sortFolders(tree.Children)
	}
	sortFolders(roots)
	return roots, nil
}

func sortFolders(trees []*FolderTree) {
	sort.SliceStable(trees, func(i, j int) bool {
		return trees[i].Folder.Name < trees[j].Folder.Name
	})
}

// FindFlowsInFolder returns the flows of a folder with every version fully resolved.
func (s *ConfigurationService) FindFlowsInFolder(ctx context.Context, folderID string) ([]*FlowGraph, error) {
	flows, err := find[Flow](ctx, s.manager, s.client, map[string]interface{}{"FOLDER_ID": folderID})
	if err != nil {
		return nil, err
	}
	graphs := make([]*FlowGraph, 0, len(flows))
	for _, flow := range flows {
		versions, err := find[FlowVersion](ctx, s.manager, s.client, map[string]interface{}{"FLOW_ID": flow.ID})
		if err != nil {
			return nil, err
		}
		graph := &FlowGraph{Flow: flow}
		for _, version := range versions {
			versionGraph, err := s.resolveFlowVersion(ctx, s.client, version)
			if err != nil {
				return nil, err
			}
			graph.Versions = append(graph.Versions, versionGraph)
		}
		graphs = append(graphs, graph)
	}
	sort.SliceStable(graphs, func(i, j int) bool {
		return graphs[i].Flow.Name < graphs[j].Flow.Name
	})
	return graphs, nil
}

// FindComponentVersion returns a component version with its component and settings.
func (s *ConfigurationService) FindComponentVersion(ctx context.Context, id string) (
	*ComponentVersionGraph, error) {
	return s.resolveComponentVersion(ctx, s.client, id)
}

// RefreshFlowVersion reloads a flow version and its graph.
func (s *ConfigurationService) RefreshFlowVersion(ctx context.Context, id string) (*FlowVersionGraph, error) {
	version := &FlowVersion{Base: Base{ID: id}}
	if err := s.manager.Refresh(ctx, s.client, version); err != nil {
		return nil, err
	}
	return s.resolveFlowVersion(ctx, s.client, version)
}

// SaveFlowVersion saves a flow version graph. Nodes and links no longer in the graph are deleted
// along with their unshared components. Link ends must reference node ids of the graph.
func (s *ConfigurationService) SaveFlowVersion(ctx context.Context, graph *FlowVersionGraph) error {
	if graph == nil || graph.Version == nil {
		return errors.New("flow version graph has no version")
	}
	return s.inTx(ctx, func(exec Executor) error {
		t := now()
		graph.Version.Touch(t)
		if err := s.manager.Save(ctx, exec, graph.Version); err != nil {
			return err
		}

		kept := map[string]bool{}
		for _, node := range graph.Nodes {
			if node.Node.ID != "" {
				kept[node.Node.ID] = true
			}
		}
		keptLinks := map[string]bool{}
		for _, link := range graph.Links {
			if link.ID != "" {
				keptLinks[link.ID] = true
			}
		}
		existing, err := find[FlowNode](ctx, s.manager, exec,
			map[string]interface{}{"FLOW_VERSION_ID": graph.Version.ID})
		if err != nil {
			return err
		}
		for _, node := range existing {
			links, err := find[FlowNodeLink](ctx, s.manager, exec, map[string]interface{}{"SOURCE_NODE_ID": node.ID})
			if err != nil {
				return err
			}
			for _, link := range links {
				if !keptLinks[link.ID] {
					if err := s.manager.Delete(ctx, exec, link); err != nil {
						return err
					}
				}
			}
		}
		for _, node := range existing {
			if !kept[node.ID] {
				if err := s.deleteFlowNode(ctx, exec, node); err != nil {
					return err
				}
			}
		}

		for _, node := range graph.Nodes {
			if node.ComponentVersion != nil {
				if err := s.saveComponentVersion(ctx, exec, node.ComponentVersion); err != nil {
					return err
				}
				node.Node.ComponentVersionID = node.ComponentVersion.Version.ID
			}
			node.Node.FlowVersionID = graph.Version.ID
			node.Node.Touch(t)
			if err := s.manager.Save(ctx, exec, node.Node); err != nil {
				return err
			}
		}
		for _, link := range graph.Links {
			link.Touch(t)
			if err := s.manager.Save(ctx, exec, link); err != nil {
				return err
			}
		}
		s.logger.Debug("Saved flow version", log.String("id", graph.Version.ID),
			log.Int("nodes", len(graph.Nodes)), log.Int("links", len(graph.Links)))
		return nil
	})
}

// saveComponentVersion saves an unshared component with its version and replaces the version's
// settings. Shared components are saved through their own folder and are left untouched.
func (s *ConfigurationService) saveComponentVersion(ctx context.Context, exec Executor,
	graph *ComponentVersionGraph) error {
	if graph.Version == nil {
		return errors.New("component version graph has no version")
	}
	if graph.Component != nil && graph.Component.Shared {
		if graph.Version.ID == "" {
			return fmt.Errorf("shared component %s is used without a saved version", graph.Component.Name)
		}
		return nil
	}

	t := now()
	if graph.Component != nil {
		graph.Component.Touch(t)
		if err := s.manager.Save(ctx, exec, graph.Component); err != nil {
			return err
		}
		graph.Version.ComponentID = graph.Component.ID
	}
	graph.Version.Touch(t)
	if err := s.manager.Save(ctx, exec, graph.Version); err != nil {
		return err
	}
	if err := s.deleteSettings(ctx, exec, graph.Version.ID); err != nil {
		return err
	}
	for _, setting := range graph.Settings {
		setting.OwnerID = graph.Version.ID
		setting.Touch(t)
		if err := s.manager.Save(ctx, exec, setting); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFlowVersion deletes a flow version with its links, nodes and unshared components.
func (s *ConfigurationService) DeleteFlowVersion(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		return s.deleteFlowVersion(ctx, exec, id)
	})
}

// DeleteFlow deletes a flow with all its versions.
func (s *ConfigurationService) DeleteFlow(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		return s.deleteFlow(ctx, exec, id)
	})
}

// DeleteFlowNode deletes a node with its links and unshared component.
func (s *ConfigurationService) DeleteFlowNode(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		node := &FlowNode{Base: Base{ID: id}}
		if err := s.manager.Refresh(ctx, exec, node); err != nil {
			return err
		}
		return s.deleteFlowNode(ctx, exec, node)
	})
}

// FindResourcesInFolder returns the resources of a folder with their settings, ordered by name.
func (s *ConfigurationService) FindResourcesInFolder(ctx context.Context, folderID string) (
	[]*ResourceGraph, error) {
	resources, err := find[Resource](ctx, s.manager, s.client, map[string]interface{}{"FOLDER_ID": folderID})
	if err != nil {
		return nil, err
	}
	graphs := make([]*ResourceGraph, 0, len(resources))
	for _, r := range resources {
		settings, err := find[Setting](ctx, s.manager, s.client, map[string]interface{}{"OWNER_ID": r.ID})
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, &ResourceGraph{Resource: r, Settings: settings})
	}
	sort.SliceStable(graphs, func(i, j int) bool {
		return graphs[i].Resource.Name < graphs[j].Resource.Name
	})
	return graphs, nil
}

// RefreshResource reloads a resource with its settings.
func (s *ConfigurationService) RefreshResource(ctx context.Context, id string) (*ResourceGraph, error) {
	r := &Resource{Base: Base{ID: id}}
	if err := s.manager.Refresh(ctx, s.client, r); err != nil {
		return nil, err
	}
	settings, err := find[Setting](ctx, s.manager, s.client, map[string]interface{}{"OWNER_ID": id})
	if err != nil {
		return nil, err
	}
	return &ResourceGraph{Resource: r, Settings: settings}, nil
}

// SaveResource saves a resource and replaces its settings.
func (s *ConfigurationService) SaveResource(ctx context.Context, graph *ResourceGraph) error {
	if graph == nil || graph.Resource == nil {
		return errors.New("resource graph has no resource")
	}
	return s.inTx(ctx, func(exec Executor) error {
		t := now()
		graph.Resource.Touch(t)
		if err := s.manager.Save(ctx, exec, graph.Resource); err != nil {
			return err
		}
		if err := s.deleteSettings(ctx, exec, graph.Resource.ID); err != nil {
			return err
		}
		for _, setting := range graph.Settings {
			setting.OwnerID = graph.Resource.ID
			setting.Touch(t)
			if err := s.manager.Save(ctx, exec, setting); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteResource deletes a resource with its settings.
func (s *ConfigurationService) DeleteResource(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		return s.deleteResource(ctx, exec, id)
	})
}

func (s *ConfigurationService) deleteResource(ctx context.Context, exec Executor, id string) error {
	if err := s.deleteSettings(ctx, exec, id); err != nil {
		return err
	}
	return s.manager.Delete(ctx, exec, &Resource{Base: Base{ID: id}})
}

// FindModelsInFolder returns the logical models of a folder ordered by name.
func (s *ConfigurationService) FindModelsInFolder(ctx context.Context, folderID string) (
	[]*LogicalModel, error) {
	models, err := find[LogicalModel](ctx, s.manager, s.client, map[string]interface{}{"FOLDER_ID": folderID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})
	return models, nil
}

// RefreshModel reloads a logical model.
func (s *ConfigurationService) RefreshModel(ctx context.Context, id string) (*LogicalModel, error) {
	m := &LogicalModel{Base: Base{ID: id}}
	if err := s.manager.Refresh(ctx, s.client, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveModel saves a logical model after checking that its document decodes and validates.
func (s *ConfigurationService) SaveModel(ctx context.Context, m *LogicalModel) error {
	if m == nil {
		return errors.New("no model to save")
	}
	decoded, err := m.Model()
	if err != nil {
		return flowerror.New(constants.ErrorInvalidModel, err)
	}
	if err := decoded.Validate(); err != nil {
		return flowerror.New(constants.ErrorInvalidModel, err)
	}
	return s.inTx(ctx, func(exec Executor) error {
		m.Touch(now())
		return s.manager.Save(ctx, exec, m)
	})
}

// DeleteModel deletes a logical model.
func (s *ConfigurationService) DeleteModel(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		return s.manager.Delete(ctx, exec, &LogicalModel{Base: Base{ID: id}})
	})
}

// DeleteFolder deletes a folder, its sub folders, its flows, its components, its resources and
// its models.
func (s *ConfigurationService) DeleteFolder(ctx context.Context, id string) error {
	return s.inTx(ctx, func(exec Executor) error {
		return s.deleteFolder(ctx, exec, id)
	})
}

func (s *ConfigurationService) deleteFolder(ctx context.Context, exec Executor, id string) error {
	children, err := find[Folder](ctx, s.manager, exec, map[string]interface{}{"PARENT_FOLDER_ID": id})
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteFolder(ctx, exec, child.ID); err != nil {
			return err
		}
	}

	flows, err := find[Flow](ctx, s.manager, exec, map[string]interface{}{"FOLDER_ID": id})
	if err != nil {
		return err
	}
	for _, flow := range flows {
		if err := s.deleteFlow(ctx, exec, flow.ID); err != nil {
			return err
		}
	}

	components, err := find[Component](ctx, s.manager, exec, map[string]interface{}{"FOLDER_ID": id})
	if err != nil {
		return err
	}
	for _, component := range components {
		if err := s.deleteComponent(ctx, exec, component); err != nil {
			return err
		}
	}

	resources, err := find[Resource](ctx, s.manager, exec, map[string]interface{}{"FOLDER_ID": id})
	if err != nil {
		return err
	}
	for _, r := range resources {
		if err := s.deleteResource(ctx, exec, r.ID); err != nil {
			return err
		}
	}

	models, err := find[LogicalModel](ctx, s.manager, exec, map[string]interface{}{"FOLDER_ID": id})
	if err != nil {
		return err
	}
	for _, m := range models {
		if err := s.manager.Delete(ctx, exec, m); err != nil {
			return err
		}
	}
	return s.manager.Delete(ctx, exec, &Folder{Base: Base{ID: id}})
}

func (s *ConfigurationService) deleteFlow(ctx context.Context, exec Executor, id string) error {
	versions, err := find[FlowVersion](ctx, s.manager, exec, map[string]interface{}{"FLOW_ID": id})
	if err != nil {
		return err
	}
	for _, version := range versions {
		if err := s.deleteFlowVersion(ctx, exec, version.ID); err != nil {
			return err
		}
	}
	return s.manager.Delete(ctx, exec, &Flow{Base: Base{ID: id}})
}

func (s *ConfigurationService) deleteFlowVersion(ctx context.Context, exec Executor, id string) error {
	nodes, err := find[FlowNode](ctx, s.manager, exec, map[string]interface{}{"FLOW_VERSION_ID": id})
	if err != nil {
		return err
	}
	for _, node := range nodes {
		if err := s.deleteLinks(ctx, exec, "SOURCE_NODE_ID", node.ID); err != nil {
			return err
		}
	}
	for _, node := range nodes {
		if err := s.deleteFlowNode(ctx, exec, node); err != nil {
			return err
		}
	}
	return s.manager.Delete(ctx, exec, &FlowVersion{Base: Base{ID: id}})
}

func (s *ConfigurationService) deleteFlowNode(ctx context.Context, exec Executor, node *FlowNode) error {
	for _, column := range []string{"SOURCE_NODE_ID", "TARGET_NODE_ID"} {
		if err := s.deleteLinks(ctx, exec, column, node.ID); err != nil {
			return err
		}
	}
	if node.ComponentVersionID != "" {
		version := &ComponentVersion{Base: Base{ID: node.ComponentVersionID}}
		err := s.manager.Refresh(ctx, exec, version)
		switch {
		case errors.Is(err, ErrRecordNotFound):
		case err != nil:
			return err
		default:
			if err := s.deleteUnsharedVersion(ctx, exec, version); err != nil {
				return err
			}
		}
	}
	return s.manager.Delete(ctx, exec, node)
}

// deleteUnsharedVersion deletes the version, its settings and its component unless the component
// is shared.
func (s *ConfigurationService) deleteUnsharedVersion(ctx context.Context, exec Executor,
	version *ComponentVersion) error {
	component := &Component{Base: Base{ID: version.ComponentID}}
	if version.ComponentID != "" {
		err := s.manager.Refresh(ctx, exec, component)
		switch {
		case errors.Is(err, ErrRecordNotFound):
			component = nil
		case err != nil:
			return err
		}
	} else {
		component = nil
	}
	if component != nil && component.Shared {
		return nil
	}
	if err := s.deleteSettings(ctx, exec, version.ID); err != nil {
		return err
	}
	if err := s.manager.Delete(ctx, exec, version); err != nil {
		return err
	}
	if component != nil {
		return s.manager.Delete(ctx, exec, component)
	}
	return nil
}

func (s *ConfigurationService) deleteComponent(ctx context.Context, exec Executor, component *Component) error {
	versions, err := find[ComponentVersion](ctx, s.manager, exec,
		map[string]interface{}{"COMPONENT_ID": component.ID})
	if err != nil {
		return err
	}
	for _, version := range versions {
		if err := s.deleteSettings(ctx, exec, version.ID); err != nil {
			return err
		}
		if err := s.manager.Delete(ctx, exec, version); err != nil {
			return err
		}
	}
	return s.manager.Delete(ctx, exec, component)
}

func (s *ConfigurationService) deleteLinks(ctx context.Context, exec Executor, column, nodeID string) error {
	links, err := find[FlowNodeLink](ctx, s.manager, exec, map[string]interface{}{column: nodeID})
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := s.manager.Delete(ctx, exec, link); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConfigurationService) deleteSettings(ctx context.Context, exec Executor, ownerID string) error {
	settings, err := find[Setting](ctx, s.manager, exec, map[string]interface{}{"OWNER_ID": ownerID})
	if err != nil {
		return err
	}
	for _, setting := range settings {
		if err := s.manager.Delete(ctx, exec, setting); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConfigurationService) resolveFlowVersion(ctx context.Context, exec Executor, version *FlowVersion) (
	*FlowVersionGraph, error) {
	nodes, err := find[FlowNode](ctx, s.manager, exec, map[string]interface{}{"FLOW_VERSION_ID": version.ID})
	if err != nil {
		return nil, err
	}
	graph := &FlowVersionGraph{Version: version}
	for _, node := range nodes {
		nodeGraph := &FlowNodeGraph{Node: node}
		if node.ComponentVersionID != "" {
			if nodeGraph.ComponentVersion, err = s.resolveComponentVersion(ctx, exec,
				node.ComponentVersionID); err != nil {
				return nil, err
			}
		}
		graph.Nodes = append(graph.Nodes, nodeGraph)

		links, err := find[FlowNodeLink](ctx, s.manager, exec, map[string]interface{}{"SOURCE_NODE_ID": node.ID})
		if err != nil {
			return nil, err
		}
		graph.Links = append(graph.Links, links...)
	}
	return graph, nil
}

func (s *ConfigurationService) resolveComponentVersion(ctx context.Context, exec Executor, id string) (
	*ComponentVersionGraph, error) {
	version := &ComponentVersion{Base: Base{ID: id}}
	if err := s.manager.Refresh(ctx, exec, version); err != nil {
		return nil, err
	}
	graph := &ComponentVersionGraph{Version: version}
	if version.ComponentID != "" {
		component := &Component{Base: Base{ID: version.ComponentID}}
		if err := s.manager.Refresh(ctx, exec, component); err != nil {
			return nil, err
		}
		graph.Component = component
	}
	settings, err := find[Setting](ctx, s.manager, exec, map[string]interface{}{"OWNER_ID": id})
	if err != nil {
		return nil, err
	}
	graph.Settings = settings
	return graph, nil
}

func settingsOf(settings []*Setting) setting.Settings {
	values := make(setting.Settings, len(settings))
	for _, s := range settings {
		values[s.Name] = s.Value
	}
	return values
}

// inTx runs fn in a transaction, committing on success and rolling back on any error.
// Database failures are reported as persistence errors.
func (s *ConfigurationService) inTx(ctx context.Context, fn func(exec Executor) error) error {
	tx, err := s.client.BeginTx(ctx)
	if err != nil {
		return flowerror.New(constants.ErrorPersistenceFailed, fmt.Errorf("failed to begin transaction: %w", err))
	}
	if err := fn(NewTxExecutor(tx, s.client.GetDBType())); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
		}
		if errors.Is(err, ErrRecordNotFound) {
			return err
		}
		return flowerror.New(constants.ErrorPersistenceFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return flowerror.New(constants.ErrorPersistenceFailed, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}
