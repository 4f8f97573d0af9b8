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

// Package config provides structures and functions for loading and managing the deployment configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tma-comms/metl/internal/system/log"

	yaml "gopkg.in/yaml.v3"
)

const (
	defaultWorkDirectory  = "repository/work"
	defaultRowsPerMessage = 10000
	defaultStartupTimeout = 60
	defaultHTTPTimeout    = 30000
	defaultServiceName    = "metl"
	defaultSampleRatio    = 1.0
)

// RuntimeConfig holds the flow runtime configuration details.
type RuntimeConfig struct {
	WorkDirectory  string `yaml:"work_directory"`
	RowsPerMessage int    `yaml:"rows_per_message"`
	// StartupTimeout is the number of seconds a flow run may spend starting its components.
	StartupTimeout int `yaml:"startup_timeout"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type         string `yaml:"type"`
	Hostname     string `yaml:"hostname"`
	Port         int    `yaml:"port"`
	Name         string `yaml:"name"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"sslmode"`
	Path         string `yaml:"path"`
	Options      string `yaml:"options"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// DatabaseConfig holds the different database configuration details.
type DatabaseConfig struct {
	Config DataSource `yaml:"config"`
}

// HTTPConfig holds the defaults used by HTTP backed resources.
type HTTPConfig struct {
	// Timeout is the default request timeout in milliseconds.
	Timeout int `yaml:"timeout"`
}

// TracingConfig holds the OpenTelemetry export settings.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Endpoint is the host:port of an OTLP HTTP collector.
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Config holds the complete deployment configuration.
type Config struct {
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// LoadConfig loads the configurations from the specified YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Runtime.WorkDirectory == "" {
		c.Runtime.WorkDirectory = defaultWorkDirectory
	}
	if c.Runtime.RowsPerMessage == 0 {
		c.Runtime.RowsPerMessage = defaultRowsPerMessage
	}
	if c.Runtime.StartupTimeout == 0 {
		c.Runtime.StartupTimeout = defaultStartupTimeout
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = defaultHTTPTimeout
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaultServiceName
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = defaultSampleRatio
	}
	if c.Database.Config.Type == "" {
		c.Database.Config.Type = "sqlite"
		c.Database.Config.Path = "repository/database/metl.db"
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Runtime.RowsPerMessage < 0 {
		return errors.New("runtime.rows_per_message must be a positive number")
	}
	if c.Runtime.StartupTimeout < 0 {
		return errors.New("runtime.startup_timeout must be a positive number")
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must be a positive number")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("tracing.sample_ratio must be between 0 and 1")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("tracing.endpoint is required when tracing is enabled")
	}
	switch c.Database.Config.Type {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Config.Type)
	}
	return nil
}

// ResolveWorkDirectory returns the work directory as an absolute path under the given home directory.
func (c *Config) ResolveWorkDirectory(home string) string {
	if filepath.IsAbs(c.Runtime.WorkDirectory) {
		return c.Runtime.WorkDirectory
	}
	return filepath.Join(home, c.Runtime.WorkDirectory)
}
