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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	path := suite.writeFile("deployment.yaml", `
runtime:
  work_directory: /var/metl/work
  rows_per_message: 500
database:
  config:
    type: postgres
    hostname: localhost
    port: 5432
    name: metl
    username: metl
    password: secret
    sslmode: disable
    max_open_conns: 4
http:
  timeout: 2000
tracing:
  enabled: true
  endpoint: collector:4318
  sample_ratio: 0.25
`)
	cfg, err := LoadConfig(path)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), cfg)
	assert.Equal(suite.T(), "/var/metl/work", cfg.Runtime.WorkDirectory)
	assert.Equal(suite.T(), 500, cfg.Runtime.RowsPerMessage)
	assert.Equal(suite.T(), defaultStartupTimeout, cfg.Runtime.StartupTimeout)
	assert.Equal(suite.T(), "postgres", cfg.Database.Config.Type)
	assert.Equal(suite.T(), 5432, cfg.Database.Config.Port)
	assert.Equal(suite.T(), 4, cfg.Database.Config.MaxOpenConns)
	assert.Equal(suite.T(), 2000, cfg.HTTP.Timeout)
	assert.True(suite.T(), cfg.Tracing.Enabled)
	assert.Equal(suite.T(), "collector:4318", cfg.Tracing.Endpoint)
	assert.Equal(suite.T(), defaultServiceName, cfg.Tracing.ServiceName)
	assert.Equal(suite.T(), 0.25, cfg.Tracing.SampleRatio)
	assert.Equal(suite.T(), "/var/metl/work", cfg.ResolveWorkDirectory("/opt/metl"))
}

func (suite *ConfigTestSuite) TestLoadConfigDefaults() {
	path := suite.writeFile("deployment.yaml", "runtime: {}\n")
	cfg, err := LoadConfig(path)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), defaultWorkDirectory, cfg.Runtime.WorkDirectory)
	assert.Equal(suite.T(), defaultRowsPerMessage, cfg.Runtime.RowsPerMessage)
	assert.Equal(suite.T(), defaultHTTPTimeout, cfg.HTTP.Timeout)
	assert.Equal(suite.T(), "sqlite", cfg.Database.Config.Type)
	assert.Equal(suite.T(), filepath.Join("/opt/metl", defaultWorkDirectory), cfg.ResolveWorkDirectory("/opt/metl"))
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	cfg, err := LoadConfig(filepath.Join(suite.dir, "non_existent_config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	path := suite.writeFile("invalid.yaml", "runtime: [unclosed\n")
	cfg, err := LoadConfig(path)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigUnknownField() {
	path := suite.writeFile("unknown.yaml", "server:\n  port: 8080\n")
	cfg, err := LoadConfig(path)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"NegativeRows", func(c *Config) { c.Runtime.RowsPerMessage = -1 }},
		{"NegativeStartupTimeout", func(c *Config) { c.Runtime.StartupTimeout = -5 }},
		{"NegativeHTTPTimeout", func(c *Config) { c.HTTP.Timeout = -1 }},
		{"SampleRatioAboveOne", func(c *Config) { c.Tracing.SampleRatio = 1.5 }},
		{"TracingWithoutEndpoint", func(c *Config) { c.Tracing.Enabled = true }},
		{"UnsupportedDatabase", func(c *Config) { c.Database.Config.Type = "oracle" }},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(suite.T(), Default().Validate())
}
