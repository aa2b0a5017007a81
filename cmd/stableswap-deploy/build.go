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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	deployer "github.com/blinklabs-io/stableswap-deploy"
	"github.com/blinklabs-io/stableswap-deploy/internal/config"
	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/spf13/cobra"
)

func buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the scripts, hashes and addresses of every configured pool",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			if err := applyBuildFlags(cmd, cfg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			logger := commonRun()
			if err := buildRun(cmd, cfg, logger); err != nil {
				logger.Error(err.Error(), "component", programName)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().String("blueprint", "", "path to the plutus.json blueprint")
	cmd.Flags().String("pools", "", "path to the pools file")
	cmd.Flags().StringP("output", "o", "", "output directory")
	cmd.Flags().StringSlice("network", nil, "network(s) to build")
	cmd.Flags().Int("workers", 0, "pools built concurrently (0 = GOMAXPROCS)")
	cmd.Flags().String("registry", "", "deployment registry directory")
	cmd.Flags().String("metrics-file", "", "write run metrics to this file")
	cmd.Flags().Bool("strict-envelope", false, "reject templates with an ambiguous CBOR envelope")
	cmd.Flags().Bool("tracing", false, "enable OTLP tracing")
	cmd.Flags().Bool("tracing-stdout", false, "write traces to stdout (requires --tracing)")
	return cmd
}

// applyBuildFlags overrides config values with explicitly set flags
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	stringFlags := map[string]*string{
		"blueprint":    &cfg.Blueprint,
		"pools":        &cfg.PoolsFile,
		"output":       &cfg.OutputDir,
		"registry":     &cfg.RegistryDir,
		"metrics-file": &cfg.MetricsFile,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return err
			}
		}
	}
	boolFlags := map[string]*bool{
		"strict-envelope": &cfg.StrictEnvelope,
		"tracing":         &cfg.Tracing,
		"tracing-stdout":  &cfg.TracingStdout,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetBool(name); err != nil {
				return err
			}
		}
	}
	if flags.Changed("network") {
		if cfg.Networks, err = flags.GetStringSlice("network"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

func buildRun(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	pools, err := config.LoadPoolsFile(cfg.PoolsFile)
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(cfg.PoolsFile)
	opts := []deployer.ConfigOptionFunc{
		deployer.WithLogger(logger),
		deployer.WithBlueprintFile(cfg.Blueprint),
		deployer.WithOutputDir(cfg.OutputDir),
		deployer.WithRegistryDir(cfg.RegistryDir),
		deployer.WithMetricsFile(cfg.MetricsFile),
		deployer.WithWorkers(cfg.Workers),
		deployer.WithStrictEnvelope(cfg.StrictEnvelope),
		deployer.WithTracing(cfg.Tracing),
		deployer.WithTracingStdout(cfg.TracingStdout),
	}
	var configErrs []error
	for _, network := range cfg.Networks {
		poolConfigs, err := pools.PoolConfigs(network, baseDir)
		if err != nil {
			failed := pipeline.FailedPools(err)
			if poolConfigs == nil || len(failed) == 0 {
				return err
			}
			logger.Error(
				"skipping invalid pools",
				"component", programName,
				"network", network,
				"pools", failed,
				"error", err,
			)
			configErrs = append(configErrs, err)
		}
		opts = append(opts, deployer.WithNetworkPools(network, poolConfigs))
	}
	d, err := deployer.New(deployer.NewConfig(opts...))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	report, runErr := d.Run(ctx)
	if report != nil {
		for _, net := range report.Networks {
			logger.Info(
				fmt.Sprintf(
					"built %d pool(s), %d failed",
					len(net.Descriptors),
					len(net.Failed),
				),
				"component", programName,
				"network", net.Name,
				"run", report.RunID,
			)
		}
	}
	if runErr != nil || len(configErrs) > 0 {
		return errors.Join(append([]error{errors.New("build failed"), runErr}, configErrs...)...)
	}
	return nil
}
