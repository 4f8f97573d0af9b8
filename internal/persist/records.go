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

// Package persist stores flow configuration: folders, flows, their versions and graphs,
// components, resources and logical models.
package persist

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tma-comms/metl/internal/runtime/model"
	"github.com/tma-comms/metl/internal/system/database/platform"
)

// Folder types.
const (
	FolderTypeDesign  = "DESIGN"
	FolderTypeRuntime = "RUNTIME"
)

// Record is a row of a configuration table. The table name is derived from the type name.
type Record interface {
	GetID() string
	SetID(id string)
	// Touch sets the modification time, and the creation time when it is not set yet.
	Touch(now time.Time)
	// Columns describes the table columns, ID first.
	Columns() []platform.Column
	// Values returns the column values keyed by column name.
	Values() map[string]interface{}
	// Load copies a row keyed by lower case column name into the record.
	Load(row map[string]interface{}) error
}

// Base holds the columns every record has.
type Base struct {
	ID             string
	CreateTime     time.Time
	LastModifyTime time.Time
}

// GetID returns the record id.
func (b *Base) GetID() string {
	return b.ID
}

// SetID sets the record id.
func (b *Base) SetID(id string) {
	b.ID = id
}

// Touch sets the modification time, and the creation time when it is not set yet.
func (b *Base) Touch(now time.Time) {
	if b.CreateTime.IsZero() {
		b.CreateTime = now
	}
	b.LastModifyTime = now
}

func (b *Base) columns(extra ...platform.Column) []platform.Column {
	return append([]platform.Column{
		{Name: "ID", Type: platform.LongText, PrimaryKey: true},
		{Name: "CREATE_TIME", Type: platform.Timestamp, Nullable: true},
		{Name: "LAST_MODIFY_TIME", Type: platform.Timestamp, Nullable: true},
	}, extra...)
}

func (b *Base) values(extra map[string]interface{}) map[string]interface{} {
	extra["ID"] = b.ID
	extra["CREATE_TIME"] = b.CreateTime
	extra["LAST_MODIFY_TIME"] = b.LastModifyTime
	return extra
}

func (b *Base) load(r row) error {
	var err error
	b.ID = r.str("ID")
	if b.CreateTime, err = r.time("CREATE_TIME"); err != nil {
		return err
	}
	b.LastModifyTime, err = r.time("LAST_MODIFY_TIME")
	return err
}

func text(name string) platform.Column {
	return platform.Column{Name: name, Type: platform.LongText, Nullable: true}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// row reads values out of a result row keyed by lower case column name.
type row map[string]interface{}

func (r row) str(column string) string {
	switch v := r[strings.ToLower(column)].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r row) boolean(column string) bool {
	switch v := r[strings.ToLower(column)].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

func (r row) integer(column string) int {
	switch v := r[strings.ToLower(column)].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return int(f)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return int(f)
	default:
		return 0
	}
}

func (r row) time(column string) (time.Time, error) {
	switch v := r[strings.ToLower(column)].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("column %s holds an invalid time %q", column, v)
	default:
		return time.Time{}, fmt.Errorf("column %s holds an unexpected %T", column, v)
	}
}

// Folder groups flows and components.
type Folder struct {
	Base
	Name           string
	Type           string
	ParentFolderID string
}

func (f *Folder) Columns() []platform.Column {
	return f.columns(text("NAME"), text("TYPE"), text("PARENT_FOLDER_ID"))
}

func (f *Folder) Values() map[string]interface{} {
	return f.values(map[string]interface{}{
		"NAME": f.Name, "TYPE": f.Type, "PARENT_FOLDER_ID": nullable(f.ParentFolderID),
	})
}

func (f *Folder) Load(data map[string]interface{}) error {
	r := row(data)
	f.Name, f.Type, f.ParentFolderID = r.str("NAME"), r.str("TYPE"), r.str("PARENT_FOLDER_ID")
	return f.load(r)
}

// Flow is a named flow in a folder.
type Flow struct {
	Base
	Name     string
	FolderID string
}

func (f *Flow) Columns() []platform.Column {
	return f.columns(text("NAME"), text("FOLDER_ID"))
}

func (f *Flow) Values() map[string]interface{} {
	return f.values(map[string]interface{}{"NAME": f.Name, "FOLDER_ID": nullable(f.FolderID)})
}

func (f *Flow) Load(data map[string]interface{}) error {
	r := row(data)
	f.Name, f.FolderID = r.str("NAME"), r.str("FOLDER_ID")
	return f.load(r)
}

// FlowVersion is one version of a flow graph.
type FlowVersion struct {
	Base
	FlowID      string
	VersionName string
}

func (v *FlowVersion) Columns() []platform.Column {
	return v.columns(text("FLOW_ID"), text("VERSION_NAME"))
}

func (v *FlowVersion) Values() map[string]interface{} {
	return v.values(map[string]interface{}{"FLOW_ID": v.FlowID, "VERSION_NAME": v.VersionName})
}

func (v *FlowVersion) Load(data map[string]interface{}) error {
	r := row(data)
	v.FlowID, v.VersionName = r.str("FLOW_ID"), r.str("VERSION_NAME")
	return v.load(r)
}

// FlowNode places a component version in a flow version.
type FlowNode struct {
	Base
	FlowVersionID      string
	ComponentVersionID string
	X                  int
	Y                  int
}

func (n *FlowNode) Columns() []platform.Column {
	return n.columns(text("FLOW_VERSION_ID"), text("COMPONENT_VERSION_ID"),
		platform.Column{Name: "X", Type: platform.Decimal, Nullable: true},
		platform.Column{Name: "Y", Type: platform.Decimal, Nullable: true})
}

func (n *FlowNode) Values() map[string]interface{} {
	return n.values(map[string]interface{}{
		"FLOW_VERSION_ID": n.FlowVersionID, "COMPONENT_VERSION_ID": n.ComponentVersionID, "X": n.X, "Y": n.Y,
	})
}

func (n *FlowNode) Load(data map[string]interface{}) error {
	r := row(data)
	n.FlowVersionID, n.ComponentVersionID = r.str("FLOW_VERSION_ID"), r.str("COMPONENT_VERSION_ID")
	n.X, n.Y = r.integer("X"), r.integer("Y")
	return n.load(r)
}

// FlowNodeLink connects two nodes of a flow version.
type FlowNodeLink struct {
	Base
	SourceNodeID string
	TargetNodeID string
}

func (l *FlowNodeLink) Columns() []platform.Column {
	return l.columns(text("SOURCE_NODE_ID"), text("TARGET_NODE_ID"))
}

func (l *FlowNodeLink) Values() map[string]interface{} {
	return l.values(map[string]interface{}{"SOURCE_NODE_ID": l.SourceNodeID, "TARGET_NODE_ID": l.TargetNodeID})
}

func (l *FlowNodeLink) Load(data map[string]interface{}) error {
	r := row(data)
	l.SourceNodeID, l.TargetNodeID = r.str("SOURCE_NODE_ID"), r.str("TARGET_NODE_ID")
	return l.load(r)
}

// Component is a configured component. Shared components may be used by several flows.
type Component struct {
	Base
	Name     string
	Type     string
	Shared   bool
	FolderID string
}

func (c *Component) Columns() []platform.Column {
	return c.columns(text("NAME"), text("TYPE"),
		platform.Column{Name: "SHARED", Type: platform.Boolean, Nullable: true}, text("FOLDER_ID"))
}

func (c *Component) Values() map[string]interface{} {
	return c.values(map[string]interface{}{
		"NAME": c.Name, "TYPE": c.Type, "SHARED": c.Shared, "FOLDER_ID": nullable(c.FolderID),
	})
}

func (c *Component) Load(data map[string]interface{}) error {
	r := row(data)
	c.Name, c.Type, c.Shared, c.FolderID = r.str("NAME"), r.str("TYPE"), r.boolean("SHARED"), r.str("FOLDER_ID")
	return c.load(r)
}

// ComponentVersion is one version of a component's configuration.
type ComponentVersion struct {
	Base
	ComponentID   string
	VersionName   string
	InputModelID  string
	OutputModelID string
	ResourceID    string
}

func (v *ComponentVersion) Columns() []platform.Column {
	return v.columns(text("COMPONENT_ID"), text("VERSION_NAME"), text("INPUT_MODEL_ID"),
		text("OUTPUT_MODEL_ID"), text("RESOURCE_ID"))
}

func (v *ComponentVersion) Values() map[string]interface{} {
	return v.values(map[string]interface{}{
		"COMPONENT_ID": v.ComponentID, "VERSION_NAME": v.VersionName,
		"INPUT_MODEL_ID": nullable(v.InputModelID), "OUTPUT_MODEL_ID": nullable(v.OutputModelID),
		"RESOURCE_ID": nullable(v.ResourceID),
	})
}

func (v *ComponentVersion) Load(data map[string]interface{}) error {
	r := row(data)
	v.ComponentID, v.VersionName = r.str("COMPONENT_ID"), r.str("VERSION_NAME")
	v.InputModelID, v.OutputModelID, v.ResourceID = r.str("INPUT_MODEL_ID"), r.str("OUTPUT_MODEL_ID"),
		r.str("RESOURCE_ID")
	return v.load(r)
}

// Setting is a name/value pair owned by another record.
type Setting struct {
	Base
	OwnerID string
	Name    string
	Value   string
}

func (s *Setting) Columns() []platform.Column {
	return s.columns(text("OWNER_ID"), text("NAME"), text("VALUE"))
}

func (s *Setting) Values() map[string]interface{} {
	return s.values(map[string]interface{}{"OWNER_ID": s.OwnerID, "NAME": s.Name, "VALUE": s.Value})
}

func (s *Setting) Load(data map[string]interface{}) error {
	r := row(data)
	s.OwnerID, s.Name, s.Value = r.str("OWNER_ID"), r.str("NAME"), r.str("VALUE")
	return s.load(r)
}

// Resource is a configured external endpoint. Its settings are owned by the resource id.
type Resource struct {
	Base
	FolderID string
	Name     string
	Type     string
}

func (r *Resource) Columns() []platform.Column {
	return r.columns(text("FOLDER_ID"), text("NAME"), text("TYPE"))
}

func (r *Resource) Values() map[string]interface{} {
	return r.values(map[string]interface{}{"FOLDER_ID": nullable(r.FolderID), "NAME": r.Name, "TYPE": r.Type})
}

func (r *Resource) Load(data map[string]interface{}) error {
	rw := row(data)
	r.FolderID, r.Name, r.Type = rw.str("FOLDER_ID"), rw.str("NAME"), rw.str("TYPE")
	return r.load(rw)
}

// LogicalModel stores a logical model as a YAML document.
type LogicalModel struct {
	Base
	FolderID   string
	Name       string
	Definition string
}

// NewLogicalModel encodes a logical model into a record. The record takes the model id.
func NewLogicalModel(folderID string, m *model.Model) (*LogicalModel, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model %s: %w", m.Name, err)
	}
	return &LogicalModel{Base: Base{ID: m.ID}, FolderID: folderID, Name: m.Name, Definition: string(data)}, nil
}

// Model decodes the stored logical model. The record id wins over any id in the document.
func (l *LogicalModel) Model() (*model.Model, error) {
	var m model.Model
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(l.Definition)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", l.ID, err)
	}
	m.ID = l.ID
	if m.Name == "" {
		m.Name = l.Name
	}
	return &m, nil
}

func (l *LogicalModel) Columns() []platform.Column {
	return l.columns(text("FOLDER_ID"), text("NAME"), text("DEFINITION"))
}

func (l *LogicalModel) Values() map[string]interface{} {
	return l.values(map[string]interface{}{
		"FOLDER_ID": nullable(l.FolderID), "NAME": l.Name, "DEFINITION": l.Definition,
	})
}

func (l *LogicalModel) Load(data map[string]interface{}) error {
	r := row(data)
	l.FolderID, l.Name, l.Definition = r.str("FOLDER_ID"), r.str("NAME"), r.str("DEFINITION")
	return l.load(r)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
