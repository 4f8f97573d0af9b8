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

// Package resource defines the capability typed external endpoints that components bind to.
package resource

import (
	"context"
	"io"
	"time"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/database/client"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Supported resource types.
const (
	TypeDatasource = "Datasource"
	TypeHTTP       = "Http"
)

// ErrUnsupportedOperation is returned by backends for operations they do not implement.
// Callers check Capabilities first, so receiving it indicates a caller defect.
var ErrUnsupportedOperation = &constants.ErrorUnsupportedOperation

// Unsupported returns an unsupported operation error naming the operation.
func Unsupported(operation string) error {
	return flowerror.Newf(constants.ErrorUnsupportedOperation, nil, "%s is not supported", operation)
}

// Definition is the configuration of a resource.
type Definition struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Type     string           `yaml:"type"`
	Settings setting.Settings `yaml:"settings"`
}

// Capabilities describes what a directory supports. Query it before any write shaped call.
type Capabilities struct {
	InputStream           bool
	OutputStream          bool
	Delete                bool
	RequiresContentLength bool
}

// FileInfo describes an entry of a directory.
type FileInfo struct {
	RelativePath string
	Directory    bool
	Size         int64
	LastUpdated  time.Time
}

// DirectoryInterface is a directory like store.
type DirectoryInterface interface {
	Capabilities() Capabilities
	Connect(ctx context.Context) error
	GetInputStream(ctx context.Context, relativePath string, mustExist bool) (io.ReadCloser, error)
	// GetOutputStream returns a writer whose Close completes the write.
	GetOutputStream(ctx context.Context, relativePath string, mustExist bool) (io.WriteCloser, error)
	Delete(ctx context.Context, relativePath string) error
	CopyFile(ctx context.Context, fromPath, toPath string) error
	MoveFile(ctx context.Context, fromPath, toPath string) error
	RenameFile(ctx context.Context, fromPath, toPath string) error
	ListFiles(ctx context.Context, relativePaths ...string) ([]FileInfo, error)
	SetContentLength(length int64)
	Close() error
}

// RuntimeInterface is a resource opened for one component instance for one flow run.
type RuntimeInterface interface {
	GetID() string
	GetType() string
	Close() error
}

// DatasourceRuntimeInterface is a resource runtime backed by a database connection pool.
type DatasourceRuntimeInterface interface {
	RuntimeInterface
	// GetClient opens the connection pool on first use.
	GetClient(ctx context.Context) (client.DBClientInterface, error)
}

// DirectoryRuntimeInterface is a resource runtime backed by a directory.
type DirectoryRuntimeInterface interface {
	RuntimeInterface
	GetDirectory() DirectoryInterface
}

// DirectoryRuntime adapts a directory into a resource runtime.
type DirectoryRuntime struct {
	definition Definition
	directory  DirectoryInterface
}

// NewDirectoryRuntime creates a resource runtime for the directory.
func NewDirectoryRuntime(definition Definition, directory DirectoryInterface) *DirectoryRuntime {
	return &DirectoryRuntime{definition: definition, directory: directory}
}

// GetID returns the resource id.
func (r *DirectoryRuntime) GetID() string {
	return r.definition.ID
}

// GetType returns the resource type.
func (r *DirectoryRuntime) GetType() string {
	return r.definition.Type
}

// GetDirectory returns the directory.
func (r *DirectoryRuntime) GetDirectory() DirectoryInterface {
	return r.directory
}

// Close closes the directory.
func (r *DirectoryRuntime) Close() error {
	return r.directory.Close()
}
