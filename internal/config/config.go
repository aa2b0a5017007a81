// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "stableswap-deploy.config"

const (
	EnvPrefix        = "stableswap"
	DefaultBlueprint = "plutus.json"
	DefaultPoolsFile = "pools.yaml"
	DefaultOutputDir = "scripts"
	userConfigDir    = ".stableswap-deploy"
	configFileName   = "config.yaml"
	systemConfigPath = "/etc/stableswap-deploy/config.yaml"
)

var ErrNoNetworks = errors.New("no networks configured")

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type tempConfig struct {
	Config yaml.Node `yaml:"config,omitempty"`
}

type Config struct {
	Blueprint   string   `yaml:"blueprint"`
	PoolsFile   string   `yaml:"poolsFile"      split_words:"true"`
	OutputDir   string   `yaml:"outputDir"      split_words:"true"`
	Networks    []string `yaml:"networks"`
	RegistryDir string   `yaml:"registryDir"    split_words:"true"`
	// MetricsFile receives the run metrics in the node exporter textfile
	// format when set
	MetricsFile    string `yaml:"metricsFile"    split_words:"true"`
	Workers        int    `yaml:"workers"`
	StrictEnvelope bool   `yaml:"strictEnvelope" split_words:"true"`
	Tracing        bool   `yaml:"tracing"`
	TracingStdout  bool   `yaml:"tracingStdout"  split_words:"true"`
	Debug          bool   `yaml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Blueprint: DefaultBlueprint,
		PoolsFile: DefaultPoolsFile,
		OutputDir: DefaultOutputDir,
		Networks:  []string{"testnet"},
	}
}

var globalConfig = DefaultConfig()

// LoadConfig overlays the config file and then the environment onto the
// defaults. An empty path searches the user and system config locations.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		var tempCfg tempConfig
		if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		if !tempCfg.Config.IsZero() {
			// Only keys present in the section replace defaults
			if err := tempCfg.Config.Decode(cfg); err != nil {
				return nil, fmt.Errorf("error parsing config section: %w", err)
			}
		} else if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return ErrNoNetworks
	}
	for _, name := range c.Networks {
		if _, err := address.NetworkByName(name); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	return nil
}

func GetConfig() *Config {
	return globalConfig
}

func findConfigFile() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, configFileName)
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	if _, err := os.Stat(systemConfigPath); err == nil {
		return systemConfigPath
	}
	return ""
}
