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

package deployer

import (
	"io"
	"log/slog"

	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry   prometheus.Registerer
	logger         *slog.Logger
	templates      *script.Templates
	blueprintPath  string
	outputDir      string
	registryDir    string
	metricsFile    string
	networks       []NetworkPools
	workers        int
	strictEnvelope bool
	tracing        bool
	tracingStdout  bool
}

// NetworkPools is the pool set built for one network. Name is used for the
// output directory and must map to mainnet or testnet.
type NetworkPools struct {
	Name  string
	Pools []pipeline.PoolConfig
}

// ConfigOptionFunc is a type that represents functions that modify the deployer config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new deployer config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithBlueprintFile specifies the plutus.json blueprint to load the script templates from
func WithBlueprintFile(path string) ConfigOptionFunc {
	return func(c *Config) {
		c.blueprintPath = path
	}
}

// WithTemplates specifies already loaded script templates. This takes precedence over WithBlueprintFile
func WithTemplates(templates *script.Templates) ConfigOptionFunc {
	return func(c *Config) {
		c.templates = templates
	}
}

// WithNetworkPools adds the pools to build for a network. Networks are built in the order they are added
func WithNetworkPools(name string, pools []pipeline.PoolConfig) ConfigOptionFunc {
	return func(c *Config) {
		c.networks = append(c.networks, NetworkPools{Name: name, Pools: pools})
	}
}

// WithOutputDir specifies where script files and descriptors are written. Nothing is written when empty
func WithOutputDir(dir string) ConfigOptionFunc {
	return func(c *Config) {
		c.outputDir = dir
	}
}

// WithRegistryDir enables the deployment registry in the specified directory
func WithRegistryDir(dir string) ConfigOptionFunc {
	return func(c *Config) {
		c.registryDir = dir
	}
}

// WithMetricsFile writes the run metrics to the specified file in the Prometheus text format
func WithMetricsFile(path string) ConfigOptionFunc {
	return func(c *Config) {
		c.metricsFile = path
	}
}

// WithWorkers specifies the number of pools built concurrently. The default is GOMAXPROCS
func WithWorkers(workers int) ConfigOptionFunc {
	return func(c *Config) {
		c.workers = workers
	}
}

// WithStrictEnvelope rejects templates whose CBOR envelope cannot be classified
func WithStrictEnvelope(strict bool) ConfigOptionFunc {
	return func(c *Config) {
		c.strictEnvelope = strict
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}
