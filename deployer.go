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

// Package deployer builds the stableswap scripts for every configured pool
// and publishes the resulting deployment descriptors.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/deployment"
	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNoBlueprint = errors.New("no blueprint or templates configured")
	ErrNoNetworks  = errors.New("no networks configured")
)

type Deployer struct {
	config        Config
	shutdownFuncs []func(context.Context) error
}

// Report summarizes a run
type Report struct {
	RunID         string
	BlueprintHash string
	Networks      []NetworkReport
}

type NetworkReport struct {
	Name        string
	Descriptors []deployment.Descriptor
	// Failed lists the keys of pools that could not be built
	Failed []string
}

func New(cfg Config) (*Deployer, error) {
	d := &Deployer{
		config: cfg,
	}
	if err := d.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return d, nil
}

func (d *Deployer) configValidate() error {
	if d.config.templates == nil && d.config.blueprintPath == "" {
		return ErrNoBlueprint
	}
	if len(d.config.networks) == 0 {
		return ErrNoNetworks
	}
	seen := make(map[string]struct{}, len(d.config.networks))
	for _, np := range d.config.networks {
		if _, err := address.NetworkByName(np.Name); err != nil {
			return err
		}
		if _, ok := seen[np.Name]; ok {
			return fmt.Errorf("duplicate network: %s", np.Name)
		}
		seen[np.Name] = struct{}{}
	}
	if d.config.workers < 0 {
		return fmt.Errorf("invalid workers: %d", d.config.workers)
	}
	return nil
}

// Run builds every configured network. A pool failure does not stop the run:
// the report covers every pool that was built and the returned error joins
// all pool failures. Template problems fail the run before any pool is
// built.
func (d *Deployer) Run(ctx context.Context) (*Report, error) {
	defer d.shutdown(context.WithoutCancel(ctx))
	if d.config.tracing {
		if err := d.setupTracing(ctx); err != nil {
			return nil, fmt.Errorf("failed to configure tracing: %w", err)
		}
	}
	ctx, span := otel.Tracer(serviceName).Start(ctx, "deployer.run")
	defer span.End()

	templates, err := d.loadTemplates()
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunID:         time.Now().UTC().Format(time.RFC3339Nano),
		BlueprintHash: templates.BlueprintHash().String(),
	}
	span.SetAttributes(
		attribute.String("run", report.RunID),
		attribute.String("blueprint_hash", report.BlueprintHash),
	)
	d.config.logger.Info(
		"loaded script templates",
		"component", "deployer",
		"blueprint_hash", report.BlueprintHash,
	)

	var registry *deployment.Registry
	if d.config.registryDir != "" {
		registry, err = deployment.NewRegistry(d.config.registryDir, d.config.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open registry: %w", err)
		}
		defer registry.Close()
	}
	promRegistry := d.config.promRegistry
	if promRegistry == nil && d.config.metricsFile != "" {
		promRegistry = prometheus.NewRegistry()
	}
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger:       d.config.logger,
		PromRegistry: promRegistry,
		Workers:      d.config.workers,
	})
	var writer *deployment.Writer
	if d.config.outputDir != "" {
		writer = deployment.NewWriter(d.config.outputDir, d.config.logger)
	}

	var errs []error
	for _, np := range d.config.networks {
		netReport, err := d.runNetwork(ctx, runner, writer, templates, np)
		if err != nil {
			errs = append(errs, fmt.Errorf("network %s: %w", np.Name, err))
		}
		if netReport == nil {
			continue
		}
		report.Networks = append(report.Networks, *netReport)
		if registry != nil {
			if err := registry.Record(
				ctx,
				report.RunID,
				np.Name,
				report.BlueprintHash,
				netReport.Descriptors,
			); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if d.config.metricsFile != "" {
		if err := writeMetricsFile(d.config.metricsFile, promRegistry); err != nil {
			errs = append(errs, err)
		}
	}
	return report, errors.Join(errs...)
}

func (d *Deployer) runNetwork(
	ctx context.Context,
	runner *pipeline.Runner,
	writer *deployment.Writer,
	templates *script.Templates,
	np NetworkPools,
) (*NetworkReport, error) {
	network, err := address.NetworkByName(np.Name)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.PipelineConfig{
		Templates:      templates,
		Network:        network,
		StrictEnvelope: d.config.strictEnvelope,
	})
	if err != nil {
		return nil, err
	}
	netReport := &NetworkReport{Name: np.Name}
	if len(np.Pools) == 0 {
		d.config.logger.Warn(
			"no pools configured",
			"component", "deployer",
			"network", np.Name,
		)
		return netReport, nil
	}
	results, buildErr := runner.Run(ctx, p, np.Pools)
	for idx, res := range results {
		if res == nil {
			netReport.Failed = append(netReport.Failed, np.Pools[idx].Key)
		}
	}
	if writer != nil {
		var writeErr error
		netReport.Descriptors, writeErr = writer.WriteNetwork(np.Name, results)
		netReport.Failed = append(netReport.Failed, pipeline.FailedPools(writeErr)...)
		return netReport, errors.Join(buildErr, writeErr)
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		desc, err := deployment.NewDescriptor(res)
		if err != nil {
			return nil, errors.Join(buildErr, err)
		}
		netReport.Descriptors = append(netReport.Descriptors, desc)
	}
	return netReport, buildErr
}

func (d *Deployer) loadTemplates() (*script.Templates, error) {
	if d.config.templates != nil {
		return d.config.templates, nil
	}
	bp, err := script.NewBlueprintFromFile(d.config.blueprintPath)
	if err != nil {
		return nil, err
	}
	return bp.Templates()
}

func (d *Deployer) shutdown(ctx context.Context) {
	for _, fn := range d.shutdownFuncs {
		if err := fn(ctx); err != nil {
			d.config.logger.Error(
				fmt.Sprintf("shutdown function: %s", err),
				"component", "deployer",
			)
		}
	}
	d.shutdownFuncs = nil
}
